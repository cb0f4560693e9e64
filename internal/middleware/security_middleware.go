package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go-pos-sync/internal/auth"
	"go-pos-sync/internal/database"
	"go-pos-sync/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Permission actions a route can demand.
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// AuthMiddleware checks if the caller has a valid session token and stores
// its claims on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("companyID", claims.CompanyID)
		c.Set("role", claims.Role)
		c.Set("roleKind", auth.ParseRoleKind(claims.Role))
		c.Next()
	}
}

// RequirePermission gates a route on one module/action pair. Admin and
// super-admin roles pass unconditionally; everyone else needs a stored
// permission row granting the action. No row means no access.
func RequirePermission(module, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := c.MustGet("roleKind").(auth.RoleKind)
		if kind.BypassesPermissions() {
			c.Next()
			return
		}

		roleName := c.MustGet("role").(string)
		companyID, _ := c.MustGet("companyID").(*uint)

		allowed, err := hasPermission(database.DB, roleName, companyID, module, action)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Permission check failed"})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// hasPermission resolves the role row (company-scoped beats system-wide)
// and checks the stored flags for one module.
func hasPermission(db *gorm.DB, roleName string, companyID *uint, module, action string) (bool, error) {
	var role models.Role
	var err error

	if companyID != nil {
		err = db.Where("name = ? AND company_id = ?", roleName, *companyID).First(&role).Error
	} else {
		err = gorm.ErrRecordNotFound
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Where("name = ? AND company_id IS NULL", roleName).First(&role).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil // no role row: fail closed
	}
	if err != nil {
		return false, err
	}

	var perm models.Permission
	err = db.Where("role_id = ? AND module = ?", role.ID, module).First(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch action {
	case ActionView:
		return perm.CanView, nil
	case ActionCreate:
		return perm.CanCreate, nil
	case ActionEdit:
		return perm.CanEdit, nil
	case ActionDelete:
		return perm.CanDelete, nil
	default:
		return false, nil
	}
}
