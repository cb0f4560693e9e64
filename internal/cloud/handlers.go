package cloud

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler carries the cloud store handle into the gin handlers.
type Handler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{db: db, log: log}
}

// Activation key stages and how long the issued sync token lives.
var stages = map[string]time.Duration{
	"TRIAL":    30 * 24 * time.Hour,
	"ANNUAL":   365 * 24 * time.Hour,
	"LIFETIME": 10 * 365 * 24 * time.Hour,
}

func activationSecret() string {
	if s := os.Getenv("ACTIVATION_SECRET"); s != "" {
		return s
	}
	return "pos-sync-activation-secret"
}

func syncTokenKey() []byte {
	if s := os.Getenv("SYNC_JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("pos-sync-cloud-secret")
}

// expectedKey derives the activation key for one device and stage. The
// keygen tool the vendor hands out does the same derivation.
func expectedKey(deviceID, stage string) string {
	hash := sha256.Sum256([]byte(deviceID + stage + activationSecret()))
	return stage + "-" + strings.ToUpper(hex.EncodeToString(hash[:])[:12])
}

// SyncClaims is what a sync token carries.
type SyncClaims struct {
	DeviceID string `json:"device_id"`
	Stage    string `json:"stage"`
	jwt.RegisteredClaims
}

type ActivateRequest struct {
	DeviceID   string `json:"device_id" binding:"required"`
	LicenseKey string `json:"license_key" binding:"required"`
}

// Activate validates an activation key against the requesting device and,
// on match, registers the device and issues its sync token.
func (h *Handler) Activate(c *gin.Context) {
	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var matchedStage string
	var tokenLife time.Duration
	for stage, life := range stages {
		if req.LicenseKey == expectedKey(req.DeviceID, stage) {
			matchedStage = stage
			tokenLife = life
			break
		}
	}
	if matchedStage == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid key for this device"})
		return
	}

	expires := time.Now().Add(tokenLife)
	claims := &SyncClaims{
		DeviceID: req.DeviceID,
		Stage:    matchedStage,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(syncTokenKey())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	device := Device{DeviceID: req.DeviceID}
	if err := h.db.Where("device_id = ?", req.DeviceID).FirstOrCreate(&device).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device"})
		return
	}
	device.Stage = matchedStage
	device.ActivatedAt = time.Now()
	h.db.Save(&device)

	h.log.Info("device activated",
		zap.String("device_id", req.DeviceID),
		zap.String("stage", matchedStage))

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"stage":   matchedStage,
		"expires": expires,
	})
}

// RequireSyncAuth gates the sync endpoints: a valid sync token whose device
// matches the X-Device-ID header.
func (h *Handler) RequireSyncAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" || tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			c.Abort()
			return
		}

		claims := &SyncClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return syncTokenKey(), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired sync token"})
			c.Abort()
			return
		}

		if c.GetHeader("X-Device-ID") != claims.DeviceID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Device mismatch"})
			c.Abort()
			return
		}

		c.Set("deviceID", claims.DeviceID)
		c.Next()
	}
}

// CreateCompany accepts one replicated company and returns its cloud id.
func (h *Handler) CreateCompany(c *gin.Context) {
	var company Company
	if err := c.ShouldBindJSON(&company); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	company.ID = 0
	company.CreatedAt = time.Now()

	if err := h.db.Create(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create company"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": company.ID})
}

type userCreateRequest struct {
	CompanyID uint   `json:"companyId" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
}

// CreateUser accepts one replicated user. The owning company must already
// exist on this side; the local tier guarantees that by syncing companies
// first.
func (h *Handler) CreateUser(c *gin.Context) {
	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.requireCompany(c, req.CompanyID); err != nil {
		return
	}

	user := User{
		CompanyID: req.CompanyID,
		Username:  req.Username,
		Password:  req.Password,
		FullName:  req.FullName,
		Email:     req.Email,
		Role:      req.Role,
		IsActive:  req.IsActive,
		CreatedAt: time.Now(),
	}
	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var category Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.requireCompany(c, category.CompanyID); err != nil {
		return
	}
	category.ID = 0
	if err := h.db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": category.ID})
}

func (h *Handler) CreateVendor(c *gin.Context) {
	var vendor Vendor
	if err := c.ShouldBindJSON(&vendor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.requireCompany(c, vendor.CompanyID); err != nil {
		return
	}
	vendor.ID = 0
	if err := h.db.Create(&vendor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vendor"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": vendor.ID})
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var product Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.requireCompany(c, product.CompanyID); err != nil {
		return
	}
	product.ID = 0
	if err := h.db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": product.ID})
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var customer Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.requireCompany(c, customer.CompanyID); err != nil {
		return
	}
	customer.ID = 0
	if err := h.db.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": customer.ID})
}

// requireCompany rejects tenant rows whose company has not been replicated
// yet. Writes the response itself; callers just return on error.
func (h *Handler) requireCompany(c *gin.Context, companyID uint) error {
	if companyID == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "companyId is required"})
		return errors.New("missing company")
	}
	var company Company
	if err := h.db.First(&company, companyID).Error; err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unknown companyId"})
		return err
	}
	return nil
}
