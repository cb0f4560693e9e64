package handlers

import (
	"errors"
	"net/http"

	"go-pos-sync/internal/database"
	"go-pos-sync/internal/models"
	syncpkg "go-pos-sync/internal/sync"

	"github.com/gin-gonic/gin"
)

var syncEngine *syncpkg.Engine

// SetSyncEngine wires the process-wide engine in at startup. One engine per
// process keeps the at-most-one-run guarantee meaningful.
func SetSyncEngine(e *syncpkg.Engine) {
	syncEngine = e
}

// TriggerSync runs a sync pass on demand. Always answers with a definite
// success flag; the engine's guaranteed flag release means this can never
// leave the UI stuck on "still syncing".
func TriggerSync(c *gin.Context) {
	result, err := syncEngine.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, syncpkg.ErrNotActivated) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Activate this install before syncing"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	if result.AlreadyRunning {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Sync already in progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// SyncStatus reports how many rows are still waiting, per table.
func SyncStatus(c *gin.Context) {
	pending := map[string]int64{}
	for table, model := range map[string]interface{}{
		"companies":  &models.Company{},
		"users":      &models.User{},
		"categories": &models.Category{},
		"vendors":    &models.Vendor{},
		"products":   &models.Product{},
		"customers":  &models.Customer{},
	} {
		var count int64
		if err := database.DB.Model(model).Where("sync_status = ?", models.SyncPending).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count pending rows"})
			return
		}
		pending[table] = count
	}

	var activation models.ActivationState
	activated := database.DB.First(&activation).Error == nil

	status := gin.H{
		"activated": activated,
		"pending":   pending,
	}
	// Present once the first sync pushed the bound company to the cloud.
	if activation.CompanyGlobalID != 0 {
		status["cloud_company_id"] = activation.CompanyGlobalID
	}
	c.JSON(http.StatusOK, status)
}
