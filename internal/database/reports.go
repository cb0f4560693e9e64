package database

import (
	"time"

	"go-pos-sync/internal/models"

	"gorm.io/gorm"
)

// SalesReportResult holds the headline numbers for a date range.
type SalesReportResult struct {
	TotalRevenue float64
	TotalCount   int64
}

// GetSalesReport calculates sales within [start, end) for one company. The
// exclusive upper bound lets callers pass start-of-next-day to cover a
// whole calendar day.
func GetSalesReport(db *gorm.DB, companyID uint, start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	// COALESCE ensures we get 0 instead of NULL if no sales exist
	err := db.Model(&models.Sale{}).
		Where("company_id = ? AND sale_time >= ? AND sale_time < ?", companyID, start, end).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&result.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Sale{}).
		Where("company_id = ? AND sale_time >= ? AND sale_time < ?", companyID, start, end).
		Count(&result.TotalCount).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// TopSeller is one row of the best-sellers breakdown.
type TopSeller struct {
	ProductName string  `json:"product_name"`
	Sold        int     `json:"sold"`
	Revenue     float64 `json:"revenue"`
}

// GetTopSellers returns the best-selling products for one company, ordered
// by units sold.
func GetTopSellers(db *gorm.DB, companyID uint, limit int) ([]TopSeller, error) {
	var top []TopSeller
	err := db.Table("sale_items").
		Select("products.name as product_name, SUM(sale_items.quantity) as sold, SUM(sale_items.quantity * sale_items.price_at_sale) as revenue").
		Joins("JOIN sales ON sale_items.sale_id = sales.id").
		Joins("JOIN products ON sale_items.product_id = products.id").
		Where("sales.company_id = ?", companyID).
		Group("products.name").
		Order("sold desc").
		Limit(limit).
		Scan(&top).Error
	return top, err
}
