package cloud

import (
	"time"
)

// Cloud-side schema. Structurally analogous to the local store but keyed by
// cloud-issued ids and named in the cloud API's convention. These ids are
// what local rows record as global_id.

type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Address   string    `json:"address"`
	Phone     string    `gorm:"size:30" json:"phone"`
	Email     string    `gorm:"size:100" json:"email"`
	TaxNumber string    `gorm:"column:tax_number;size:50" json:"taxNumber"`
	LogoURL   string    `gorm:"column:logo_url" json:"logoUrl"`
	Currency  string    `gorm:"size:8" json:"currency"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Usernames are unique per tenant, not globally: every install replicates
// its own bootstrap accounts, so the same username arrives from many
// companies.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CompanyID uint      `gorm:"uniqueIndex:idx_cloud_user;not null" json:"companyId"`
	Username  string    `gorm:"size:50;uniqueIndex:idx_cloud_user" json:"username"`
	Password  string    `json:"-"` // bcrypt hash carried over from the local tier
	FullName  string    `gorm:"column:full_name;size:100" json:"fullName"`
	Email     string    `gorm:"size:100" json:"email"`
	Role      string    `gorm:"size:30" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Role rows with a zero CompanyID are shared system templates; they are the
// only rows multiple tenants' writes can collide on, so they are seeded
// with upsert-by-natural-key instead of blind inserts.
type Role struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:50;uniqueIndex:idx_cloud_role" json:"name"`
	CompanyID uint   `gorm:"uniqueIndex:idx_cloud_role" json:"companyId"`
	IsSystem  bool   `gorm:"default:false" json:"isSystem"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CompanyID   uint   `gorm:"index;not null" json:"companyId"`
	Name        string `gorm:"size:100" json:"name"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`
}

type Vendor struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CompanyID uint   `gorm:"index;not null" json:"companyId"`
	Name      string `gorm:"size:100" json:"name"`
	Phone     string `gorm:"size:30" json:"phone"`
	Email     string `gorm:"size:100" json:"email"`
	Address   string `json:"address"`
	IsActive  bool   `gorm:"default:true" json:"isActive"`
}

type Product struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	CompanyID     uint    `gorm:"index;not null" json:"companyId"`
	CategoryID    *uint   `gorm:"index" json:"categoryId"`
	VendorID      *uint   `gorm:"index" json:"vendorId"`
	Name          string  `gorm:"size:150" json:"name"`
	Barcode       string  `gorm:"size:60" json:"barcode"`
	Price         float64 `json:"price"`
	CostPrice     float64 `gorm:"column:cost_price" json:"costPrice"`
	StockQuantity int     `gorm:"column:stock_quantity" json:"stockQuantity"`
	ImageURL      string  `gorm:"column:image_url" json:"imageUrl"`
	IsActive      bool    `gorm:"default:true" json:"isActive"`
}

type Customer struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	CompanyID   uint    `gorm:"index;not null" json:"companyId"`
	Name        string  `gorm:"size:100" json:"name"`
	Phone       string  `gorm:"size:30" json:"phone"`
	Email       string  `gorm:"size:100" json:"email"`
	Address     string  `json:"address"`
	CreditLimit float64 `gorm:"column:credit_limit" json:"creditLimit"`
	Balance     float64 `json:"balance"`
	IsActive    bool    `gorm:"default:true" json:"isActive"`
}

// Device records every install that has activated against this cloud.
type Device struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DeviceID    string    `gorm:"size:40;uniqueIndex" json:"deviceId"`
	Stage       string    `gorm:"size:20" json:"stage"`
	ActivatedAt time.Time `json:"activatedAt"`
	LastSyncAt  time.Time `json:"lastSyncAt"`
}
