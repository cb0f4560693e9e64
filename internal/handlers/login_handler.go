package handlers

import (
	"net/http"

	"go-pos-sync/internal/auth"
	"go-pos-sync/internal/database"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates against the local store and returns the session
// token plus the user's effective permission set. The presentation layer
// caches the permissions for the session; they are not re-validated until
// the next login.
func Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input"})
		return
	}

	result, err := auth.Authenticate(database.DB, input.Username, input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Login failed"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnauthorized, result)
		return
	}

	token, err := auth.GenerateToken(result.User.ID, result.User.CompanyID, result.User.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"token":       token,
		"user":        result.User,
		"permissions": result.Permissions,
	})
}
