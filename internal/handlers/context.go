package handlers

import (
	"net/http"
	"strconv"

	"go-pos-sync/internal/auth"

	"github.com/gin-gonic/gin"
)

// tenantID extracts the company scope for the request. Regular users are
// bound to their own company by their session claims. A platform-level
// super admin has no company of its own and must name one explicitly with
// ?company_id=. Writes the error response itself when no scope resolves.
func tenantID(c *gin.Context) (uint, bool) {
	if companyID, ok := c.MustGet("companyID").(*uint); ok && companyID != nil {
		return *companyID, true
	}

	if kind := c.MustGet("roleKind").(auth.RoleKind); kind == auth.RoleSuperAdmin {
		if v := c.Query("company_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err == nil && id > 0 {
				return uint(id), true
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id query parameter is required"})
		return 0, false
	}

	c.JSON(http.StatusForbidden, gin.H{"error": "No company scope for this account"})
	return 0, false
}
