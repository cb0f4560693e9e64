package handlers

import (
	"net/http"
	"time"

	"go-pos-sync/internal/database"
	"go-pos-sync/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

// CreateUser adds a staff account under the caller's company. The new row
// starts pending; it replicates once its company has synced.
func CreateUser(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	var input CreateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		CompanyID:    &companyID,
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         input.Role,
		Fullname:     input.Fullname,
		Email:        input.Email,
		IsActive:     true,
		CreatedAt:    time.Now(),
		SyncMeta:     models.SyncMeta{SyncStatus: models.SyncPending},
	}

	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func GetUsers(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	var users []models.User
	if err := database.DB.Where("company_id = ?", companyID).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeactivateUser disables an account without deleting it.
func DeactivateUser(c *gin.Context) {
	companyID, ok := tenantID(c)
	if !ok {
		return
	}

	result := database.DB.Model(&models.User{}).
		Where("company_id = ? AND id = ?", companyID, c.Param("id")).
		Update("is_active", false)
	if result.Error != nil || result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}
