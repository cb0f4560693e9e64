package cloud

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// The handlers only touch gorm, so the tests run them against sqlite
// instead of a live mysql.
func newTestStore(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cloud_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&Company{}, &User{}, &Role{}, &Category{},
		&Vendor{}, &Product{}, &Customer{}, &Device{},
	))
	return db
}

func newTestRouter(t *testing.T) (*gin.Engine, *Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestStore(t)
	h := NewHandler(db, zap.NewNop())

	r := gin.New()
	r.POST("/api/v1/activate", h.Activate)
	sync := r.Group("/api/v1/sync", h.RequireSyncAuth())
	{
		sync.POST("/companies", h.CreateCompany)
		sync.POST("/users", h.CreateUser)
		sync.POST("/categories", h.CreateCategory)
	}
	return r, h, db
}

func postJSON(r *gin.Engine, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestActivate(t *testing.T) {
	const deviceID = "POS-AB12CD34"

	t.Run("valid key registers device and issues token", func(t *testing.T) {
		r, _, db := newTestRouter(t)

		w := postJSON(r, "/api/v1/activate", gin.H{
			"device_id":   deviceID,
			"license_key": expectedKey(deviceID, "TRIAL"),
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["token"])
		assert.Equal(t, "TRIAL", resp["stage"])

		var device Device
		require.NoError(t, db.Where("device_id = ?", deviceID).First(&device).Error)
		assert.Equal(t, "TRIAL", device.Stage)
		assert.False(t, device.ActivatedAt.IsZero())
	})

	t.Run("key for a different device is rejected", func(t *testing.T) {
		r, _, _ := newTestRouter(t)

		w := postJSON(r, "/api/v1/activate", gin.H{
			"device_id":   deviceID,
			"license_key": expectedKey("POS-OTHER000", "TRIAL"),
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("re-activation keeps a single device row", func(t *testing.T) {
		r, _, db := newTestRouter(t)

		key := expectedKey(deviceID, "ANNUAL")
		for i := 0; i < 2; i++ {
			w := postJSON(r, "/api/v1/activate", gin.H{
				"device_id":   deviceID,
				"license_key": key,
			}, nil)
			require.Equal(t, http.StatusOK, w.Code)
		}

		var count int64
		require.NoError(t, db.Model(&Device{}).Where("device_id = ?", deviceID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

// syncToken activates a device through the real endpoint and returns the
// issued token.
func syncToken(t *testing.T, r *gin.Engine, deviceID string) string {
	t.Helper()

	w := postJSON(r, "/api/v1/activate", gin.H{
		"device_id":   deviceID,
		"license_key": expectedKey(deviceID, "TRIAL"),
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["token"]
}

func TestSyncEndpoints(t *testing.T) {
	const deviceID = "POS-AB12CD34"

	authHeaders := func(token string) map[string]string {
		return map[string]string{
			"Authorization": "Bearer " + token,
			"X-Device-ID":   deviceID,
		}
	}

	t.Run("rejects missing token", func(t *testing.T) {
		r, _, _ := newTestRouter(t)
		w := postJSON(r, "/api/v1/sync/companies", gin.H{"name": "Shop"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects device mismatch", func(t *testing.T) {
		r, _, _ := newTestRouter(t)
		token := syncToken(t, r, deviceID)

		w := postJSON(r, "/api/v1/sync/companies", gin.H{"name": "Shop"}, map[string]string{
			"Authorization": "Bearer " + token,
			"X-Device-ID":   "POS-SOMEONE0",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("creates company and returns its id", func(t *testing.T) {
		r, _, db := newTestRouter(t)
		token := syncToken(t, r, deviceID)

		w := postJSON(r, "/api/v1/sync/companies", gin.H{
			"name":      "Corner Shop",
			"taxNumber": "TX-42",
			"currency":  "$",
			"isActive":  true,
		}, authHeaders(token))
		require.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]uint
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotZero(t, resp["id"])

		var company Company
		require.NoError(t, db.First(&company, resp["id"]).Error)
		assert.Equal(t, "Corner Shop", company.Name)
		assert.Equal(t, "TX-42", company.TaxNumber)
	})

	t.Run("rejects tenant rows for an unknown company", func(t *testing.T) {
		r, _, _ := newTestRouter(t)
		token := syncToken(t, r, deviceID)

		w := postJSON(r, "/api/v1/sync/users", gin.H{
			"companyId": 999,
			"username":  "jo",
			"fullName":  "Jo Field",
		}, authHeaders(token))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = postJSON(r, "/api/v1/sync/categories", gin.H{
			"companyId": 999,
			"name":      "Drinks",
		}, authHeaders(token))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("same username under two companies creates two rows", func(t *testing.T) {
		r, _, db := newTestRouter(t)
		token := syncToken(t, r, deviceID)

		companyA := Company{Name: "Shop A", IsActive: true}
		companyB := Company{Name: "Shop B", IsActive: true}
		require.NoError(t, db.Create(&companyA).Error)
		require.NoError(t, db.Create(&companyB).Error)

		// Every install bootstraps an admin, so both tenants replicate one.
		for _, companyID := range []uint{companyA.ID, companyB.ID} {
			w := postJSON(r, "/api/v1/sync/users", gin.H{
				"companyId": companyID,
				"username":  "admin",
				"fullName":  "Administrator",
				"role":      "admin",
				"isActive":  true,
			}, authHeaders(token))
			require.Equal(t, http.StatusCreated, w.Code)
		}

		var count int64
		require.NoError(t, db.Model(&User{}).Where("username = ?", "admin").Count(&count).Error)
		assert.Equal(t, int64(2), count)

		// Within one tenant the username is still unique.
		w := postJSON(r, "/api/v1/sync/users", gin.H{
			"companyId": companyA.ID,
			"username":  "admin",
			"fullName":  "Administrator",
		}, authHeaders(token))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("creates user under an existing company", func(t *testing.T) {
		r, _, db := newTestRouter(t)
		token := syncToken(t, r, deviceID)

		company := Company{Name: "Corner Shop", IsActive: true}
		require.NoError(t, db.Create(&company).Error)

		w := postJSON(r, "/api/v1/sync/users", gin.H{
			"companyId": company.ID,
			"username":  "jo",
			"password":  "$2a$10$hash",
			"fullName":  "Jo Field",
			"role":      "cashier",
			"isActive":  true,
		}, authHeaders(token))
		require.Equal(t, http.StatusCreated, w.Code)

		var user User
		require.NoError(t, db.Where("username = ?", "jo").First(&user).Error)
		assert.Equal(t, company.ID, user.CompanyID)
		assert.Equal(t, "Jo Field", user.FullName)
		assert.Equal(t, "$2a$10$hash", user.Password)
	})
}
