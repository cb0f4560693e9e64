package handlers

import (
	"net/http"
	"time"

	"go-pos-sync/internal/database"
	"go-pos-sync/internal/models"

	"github.com/gin-gonic/gin"
)

// ReportData defines the shape of the analytics response.
type ReportData struct {
	TotalRevenue float64              `json:"total_revenue"`
	TotalOrders  int64                `json:"total_orders"`
	TopSelling   []database.TopSeller `json:"top_selling"`
	RecentSales  []models.Sale        `json:"recent_sales"`
}

// --- GET: /api/reports ---
func GetSalesReport(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	var data ReportData

	// All-time window unless the caller narrows it
	start := time.Time{}
	end := time.Now()
	if v := c.Query("start"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			start = t
		}
	}
	if v := c.Query("end"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			// The query bound is exclusive, so start-of-next-day covers
			// the whole end day.
			end = t.AddDate(0, 0, 1)
		}
	}

	summary, err := database.GetSalesReport(database.DB, companyID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}
	data.TotalRevenue = summary.TotalRevenue
	data.TotalOrders = summary.TotalCount

	data.TopSelling, err = database.GetTopSellers(database.DB, companyID, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	err = database.DB.Where("company_id = ?", companyID).
		Order("sale_time desc").Limit(10).Find(&data.RecentSales).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent sales"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// ValuationItem represents a single row in the valuation table.
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// CategoryGroup groups valuation rows under one category.
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
}

// ValuationResponse is the final stock-valuation payload.
type ValuationResponse struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal float64         `json:"grand_total"`
}

// --- GET: /api/reports/valuation ---
// GetStockValuation totals the monetary value of physical inventory,
// grouped by category.
func GetStockValuation(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	var products []models.Product
	if err := database.DB.Where("company_id = ? AND is_active = ?", companyID, true).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	// Category names for grouping; products without one fall under
	// "Uncategorized".
	categoryNames := map[uint]string{}
	var categories []models.Category
	if err := database.DB.Where("company_id = ?", companyID).Find(&categories).Error; err == nil {
		for _, cat := range categories {
			categoryNames[cat.ID] = cat.Name
		}
	}

	var grandTotal float64
	groupedMap := make(map[string]*CategoryGroup)

	for _, p := range products {
		catName := "Uncategorized"
		if p.CategoryID != nil {
			if name, ok := categoryNames[*p.CategoryID]; ok {
				catName = name
			}
		}

		if _, exists := groupedMap[catName]; !exists {
			groupedMap[catName] = &CategoryGroup{CategoryName: catName}
		}

		itemTotal := float64(p.StockQuantity) * p.CostPrice
		groupedMap[catName].Items = append(groupedMap[catName].Items, ValuationItem{
			Name:      p.Name,
			Quantity:  p.StockQuantity,
			CostPrice: p.CostPrice,
			TotalCost: itemTotal,
		})
		groupedMap[catName].Subtotal += itemTotal
		grandTotal += itemTotal
	}

	var response ValuationResponse
	response.GrandTotal = grandTotal
	for _, group := range groupedMap {
		response.Categories = append(response.Categories, *group)
	}

	c.JSON(http.StatusOK, response)
}
