package handlers

import (
	"net/http"

	"go-pos-sync/internal/database"
	"go-pos-sync/internal/models"

	"github.com/gin-gonic/gin"
)

// Master-data CRUD. Same pattern for categories, vendors and customers:
// list the company's rows, create new ones pending for sync, deactivate
// instead of delete.

func GetCategories(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}
	var categories []models.Category
	if err := database.DB.Where("company_id = ?", companyID).Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func AddCategory(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	category.ID = 0
	category.CompanyID = companyID
	category.IsActive = true
	category.SyncMeta = models.SyncMeta{SyncStatus: models.SyncPending}

	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func GetVendors(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}
	var vendors []models.Vendor
	if err := database.DB.Where("company_id = ?", companyID).Find(&vendors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vendors"})
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func AddVendor(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}
	var vendor models.Vendor
	if err := c.ShouldBindJSON(&vendor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	vendor.ID = 0
	vendor.CompanyID = companyID
	vendor.IsActive = true
	vendor.SyncMeta = models.SyncMeta{SyncStatus: models.SyncPending}

	if err := database.DB.Create(&vendor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vendor"})
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func GetCustomers(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}
	var customers []models.Customer
	if err := database.DB.Where("company_id = ?", companyID).Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

func AddCustomer(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	customer.ID = 0
	customer.CompanyID = companyID
	customer.CurrentBalance = 0
	customer.IsActive = true
	customer.SyncMeta = models.SyncMeta{SyncStatus: models.SyncPending}

	if err := database.DB.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}
