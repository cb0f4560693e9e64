package handlers

import (
	"net/http"

	"go-pos-sync/internal/database"
	"go-pos-sync/internal/models"

	"github.com/gin-gonic/gin"
)

// ReceivePurchase records a goods receipt from a vendor: stock goes up
// inside the same transaction as the purchase rows.
func ReceivePurchase(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	var input database.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	userID := c.MustGet("userID").(uint)

	purchase, err := database.RecordPurchase(database.DB, companyID, userID, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"purchase_id": purchase.ID,
		"total":       purchase.GrandTotal,
	})
}

func GetPurchases(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	var purchases []models.Purchase
	err := database.DB.Where("company_id = ?", companyID).
		Order("purchase_time desc").
		Limit(50).
		Preload("Items").
		Find(&purchases).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
		return
	}
	c.JSON(http.StatusOK, purchases)
}
