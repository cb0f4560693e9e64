package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"go-pos-sync/internal/database"
	"go-pos-sync/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: List the company's products ---
func GetProducts(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	var products []models.Product
	result := database.DB.Where("company_id = ?", companyID).Find(&products)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// --- GET: Look up one product by barcode ---
func ScanProduct(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	var product models.Product
	err := database.DB.Where("company_id = ? AND barcode = ?", companyID, c.Param("barcode")).First(&product).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- POST: Add a new product ---
// New rows start pending so the next sync run replicates them.
func AddProduct(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	var newProduct models.Product
	if err := c.ShouldBindJSON(&newProduct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	newProduct.ID = 0
	newProduct.CompanyID = companyID
	newProduct.IsActive = true
	newProduct.SyncMeta = models.SyncMeta{SyncStatus: models.SyncPending}

	if err := database.DB.Create(&newProduct).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, newProduct)
}

// --- PUT: Partial update ---
func UpdateProduct(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var product models.Product
	if err := database.DB.Where("company_id = ?", companyID).First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// A map so we only update what was sent (partial update)
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	delete(updateData, "id")
	delete(updateData, "company_id")
	delete(updateData, "sync_status")
	delete(updateData, "global_id")

	if err := database.DB.Model(&product).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// --- DELETE: Deactivate a product ---
// Soft delete: already-synced rows are never hard-deleted, the replication
// protocol has no tombstones.
func DeleteProduct(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	result := database.DB.Model(&models.Product{}).
		Where("company_id = ? AND id = ?", companyID, c.Param("id")).
		Update("is_active", false)
	if result.Error != nil || result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
}

// ProcessSale runs the checkout transaction for the caller's company.
func ProcessSale(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	var input database.SaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	userID := c.MustGet("userID").(uint)

	sale, err := database.RecordSale(database.DB, companyID, userID, input)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, database.ErrInsufficientStock) || errors.Is(err, database.ErrCreditLimit) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sale_id": sale.ID,
		"total":   sale.GrandTotal,
	})
}

// --- UPLOAD: Product images and company logos ---
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), file.Filename)
	filepath := "./uploads/" + filename

	if err := c.SaveUploadedFile(file, filepath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     baseURL + "/uploads/" + filename,
	})
}
