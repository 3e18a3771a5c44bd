package middleware

import (
	"net/http"

	"github.com/asspharma/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// RequireRole restricts a route group to staff holding one of the given
// roles. It must run after the JWT middleware; a request with no resolved
// role is rejected outright.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[string(role)] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if role == "" {
			abortForbidden(c)
			return
		}
		if _, ok := allowed[role]; !ok {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// RequireTitulaire restricts a route to the pharmacy owner
func RequireTitulaire() gin.HandlerFunc {
	return RequireRole(identity.RoleTitulaire)
}

// RequirePharmacist restricts a route to staff allowed to validate
// deliveries and dispense prescription medication
func RequirePharmacist() gin.HandlerFunc {
	return RequireRole(identity.RoleTitulaire, identity.RoleAssistant)
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "Your role does not permit this operation",
		},
	})
}
