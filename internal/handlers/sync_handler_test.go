package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go-pos-sync/internal/database"
	"go-pos-sync/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// openTestStore points the package-level database.DB at a fresh store.
func openTestStore(t *testing.T) {
	t.Helper()
	_, err := database.Open(filepath.Join(t.TempDir(), "handlers_test.db"), zap.NewNop())
	require.NoError(t, err)
}

func getSyncStatus(t *testing.T) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/api/sync/status", SyncStatus)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sync/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSyncStatus(t *testing.T) {
	t.Run("counts pending rows per table", func(t *testing.T) {
		openTestStore(t)

		company := models.Company{Name: "Corner Shop", IsActive: true,
			SyncMeta: models.SyncMeta{SyncStatus: models.SyncPending}}
		require.NoError(t, database.DB.Create(&company).Error)
		product := models.Product{CompanyID: company.ID, Name: "Coffee", IsActive: true,
			SyncMeta: models.SyncMeta{SyncStatus: models.SyncPending}}
		require.NoError(t, database.DB.Create(&product).Error)

		resp := getSyncStatus(t)
		assert.Equal(t, false, resp["activated"])
		assert.NotContains(t, resp, "cloud_company_id")

		pending := resp["pending"].(map[string]any)
		assert.Equal(t, float64(1), pending["companies"])
		assert.Equal(t, float64(1), pending["products"])
		assert.Equal(t, float64(0), pending["customers"])
	})

	t.Run("reports the cloud company id once synced", func(t *testing.T) {
		openTestStore(t)

		require.NoError(t, database.DB.Create(&models.ActivationState{
			DeviceID:        "POS-TEST1234",
			CompanyID:       1,
			CompanyGlobalID: 501,
			SyncToken:       "test-token",
			ActivatedAt:     time.Now(),
		}).Error)

		resp := getSyncStatus(t)
		assert.Equal(t, true, resp["activated"])
		assert.Equal(t, float64(501), resp["cloud_company_id"])
	})
}
