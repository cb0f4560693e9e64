package models

import (
	"time"
)

// Sync states for rows that replicate to the cloud.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
)

// SyncMeta is embedded in every table that replicates to the cloud.
// GlobalID is the cloud-assigned identifier; it is non-nil exactly when
// SyncStatus is "synced".
type SyncMeta struct {
	SyncStatus string `gorm:"size:10;default:pending;index" json:"sync_status"`
	GlobalID   *uint  `json:"global_id"`
}

// Company - The tenant root. Every tenant-scoped row points at one of these.
type Company struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100" json:"name"`
	Address        string    `json:"address"`
	Phone          string    `gorm:"size:30" json:"phone"`
	Email          string    `gorm:"size:100" json:"email"`
	TaxNo          string    `gorm:"column:tax_no;size:50" json:"tax_no"`
	CurrencySymbol string    `gorm:"size:8;default:$" json:"currency_symbol"`
	LogoPath       string    `json:"logo_path"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	SyncMeta
}

// User - The person logging in. CompanyID is nil for platform-level
// accounts (super admin), which never sync.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CompanyID    *uint     `gorm:"index" json:"company_id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Role         string    `gorm:"size:30" json:"role"` // 'super_admin', 'admin', 'cashier', ...
	Fullname     string    `gorm:"column:fullname;size:100" json:"fullname"`
	Email        string    `gorm:"size:100" json:"email"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	SyncMeta
}

// Role - Named permission bundle. CompanyID nil means a system-wide
// template shared by all tenants.
type Role struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:50;uniqueIndex:idx_role_name_company" json:"name"`
	CompanyID *uint  `gorm:"uniqueIndex:idx_role_name_company" json:"company_id"`
	IsSystem  bool   `gorm:"default:false" json:"is_system"`
}

// Permission - Per-module flags for one role. One row per (role, module).
type Permission struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RoleID    uint   `gorm:"uniqueIndex:idx_perm_role_module" json:"role_id"`
	Module    string `gorm:"size:30;uniqueIndex:idx_perm_role_module" json:"module"`
	CanView   bool   `json:"can_view"`
	CanCreate bool   `json:"can_create"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

// Category - Product grouping, per tenant.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CompanyID   uint   `gorm:"index" json:"company_id"`
	Name        string `gorm:"size:100" json:"name"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
	SyncMeta
}

// Vendor - Who we buy from.
type Vendor struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CompanyID uint   `gorm:"index" json:"company_id"`
	Name      string `gorm:"size:100" json:"name"`
	Phone     string `gorm:"size:30" json:"phone"`
	Email     string `gorm:"size:100" json:"email"`
	Address   string `json:"address"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
	SyncMeta
}

// Product - The inventory. StockQuantity is a cached running total:
// purchases add to it, sales subtract, always inside the same transaction
// as the sale/purchase rows themselves.
type Product struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	CompanyID     uint    `gorm:"index" json:"company_id"`
	CategoryID    *uint   `gorm:"index" json:"category_id"`
	VendorID      *uint   `gorm:"index" json:"vendor_id"`
	Name          string  `gorm:"size:150" json:"name"`
	Barcode       string  `gorm:"size:60;index" json:"barcode"`
	Price         float64 `json:"price"`
	CostPrice     float64 `json:"cost_price"`
	StockQuantity int     `json:"stock_quantity"`
	ImageURL      string  `json:"image_url"`
	IsActive      bool    `gorm:"default:true" json:"is_active"`
	SyncMeta
}

// Customer - Who we sell to. CurrentBalance is a running total mutated by
// credit sales.
type Customer struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	CompanyID      uint    `gorm:"index" json:"company_id"`
	Name           string  `gorm:"size:100" json:"name"`
	Phone          string  `gorm:"size:30" json:"phone"`
	Email          string  `gorm:"size:100" json:"email"`
	Address        string  `json:"address"`
	CreditLimit    float64 `json:"credit_limit"`
	CurrentBalance float64 `json:"current_balance"`
	IsActive       bool    `gorm:"default:true" json:"is_active"`
	SyncMeta
}
