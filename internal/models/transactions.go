package models

import (
	"time"
)

// Sale - The transaction header. The stored totals must always equal the
// sum over Items net of discount/tax; the checkout transaction owns that.
type Sale struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CompanyID   uint       `gorm:"index" json:"company_id"`
	UserID      uint       `json:"user_id"` // Who processed it
	CustomerID  *uint      `gorm:"index" json:"customer_id"`
	TotalAmount float64    `json:"total_amount"`
	Discount    float64    `json:"discount"`
	TaxAmount   float64    `json:"tax_amount"`
	GrandTotal  float64    `json:"grand_total"`
	Status      string     `gorm:"size:20" json:"status"` // 'completed', 'held', 'cancelled'
	SaleTime    time.Time  `json:"sale_time"`
	Items       []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

// SaleItem - The specific items in a cart.
type SaleItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SaleID      uint    `gorm:"index" json:"sale_id"`
	ProductID   uint    `json:"product_id"`
	Product     Product `json:"product"` // Preload product details
	Quantity    int     `json:"quantity"`
	PriceAtSale float64 `json:"price_at_sale"` // Snapshot of price at time of sale
}

// Purchase - Goods received from a vendor. Mirror image of Sale: its items
// add to Product.StockQuantity instead of subtracting.
type Purchase struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CompanyID    uint           `gorm:"index" json:"company_id"`
	UserID       uint           `json:"user_id"`
	VendorID     uint           `gorm:"index" json:"vendor_id"`
	TotalAmount  float64        `json:"total_amount"`
	Discount     float64        `json:"discount"`
	TaxAmount    float64        `json:"tax_amount"`
	GrandTotal   float64        `json:"grand_total"`
	Status       string         `gorm:"size:20" json:"status"`
	PurchaseTime time.Time      `json:"purchase_time"`
	Items        []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items"`
}

// PurchaseItem - One received line.
type PurchaseItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	PurchaseID uint    `gorm:"index" json:"purchase_id"`
	ProductID  uint    `json:"product_id"`
	Quantity   int     `json:"quantity"`
	UnitCost   float64 `json:"unit_cost"`
}

// ActivationState - Single-row table binding this install to a cloud
// tenant. Sync refuses to run until a row exists.
type ActivationState struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	DeviceID        string    `gorm:"size:40" json:"device_id"`
	CompanyID       uint      `json:"company_id"`        // local company bound at activation
	CompanyGlobalID uint      `json:"company_global_id"` // cloud id for that company
	SyncToken       string    `json:"-"`
	ActivatedAt     time.Time `json:"activated_at"`
}
