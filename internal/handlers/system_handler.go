package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"go-pos-sync/internal/database"
	"go-pos-sync/internal/models"
	"go-pos-sync/internal/utils"

	"github.com/gin-gonic/gin"
)

type ActivateRequest struct {
	LicenseKey string `json:"license_key" binding:"required"`
	CompanyID  uint   `json:"company_id"` // local company to bind; defaults to the first one
}

// GetSystemStatus feeds the setup screen the device id (needed to request
// an activation key) and whether this install is already activated.
func GetSystemStatus(c *gin.Context) {
	var activation models.ActivationState
	activated := database.DB.First(&activation).Error == nil

	c.JSON(http.StatusOK, gin.H{
		"device_id": utils.GetDeviceID(),
		"activated": activated,
	})
}

// ActivateLicense exchanges an activation key for a sync token with the
// cloud tier and stores the binding locally. Until this succeeds, sync is
// refused.
func ActivateLicense(c *gin.Context) {
	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	cloudURL := os.Getenv("CLOUD_URL")
	if cloudURL == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "CLOUD_URL is not configured"})
		return
	}

	deviceID := utils.GetDeviceID()
	body, _ := json.Marshal(gin.H{"device_id": deviceID, "license_key": req.LicenseKey})

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Post(cloudURL+"/api/v1/activate", "application/json", bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach the cloud service"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Activation rejected for this device"})
		return
	}

	var out struct {
		Token string `json:"token"`
		Stage string `json:"stage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Token == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Malformed activation response"})
		return
	}

	companyID := req.CompanyID
	if companyID == 0 {
		var company models.Company
		if err := database.DB.Order("id").First(&company).Error; err == nil {
			companyID = company.ID
		}
	}

	var activation models.ActivationState
	database.DB.First(&activation)
	activation.DeviceID = deviceID
	activation.CompanyID = companyID
	activation.SyncToken = out.Token
	activation.ActivatedAt = time.Now()

	var err2 error
	if activation.ID == 0 {
		err2 = database.DB.Create(&activation).Error
	} else {
		err2 = database.DB.Save(&activation).Error
	}
	if err2 != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store activation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Install activated. Stage: " + out.Stage,
		"device_id": deviceID,
	})
}
