package middleware

import (
	"net/http"
	"slices"

	"cse_motors/internal/metrics"
	"cse_motors/internal/model"

	"github.com/gin-gonic/gin"
)

const msgForbiddenRole = "You do not have permission to access that page. Sign in with an Employee or Admin account."

// RoleMiddleware creates a middleware to check for specific account roles.
// It must run after a gate that attaches the principal.
func RoleMiddleware(deny DenyFunc, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok || !slices.Contains(allowedRoles, p.Role) {
			metrics.GateDenialsTotal.WithLabelValues("role", "forbidden_role").Inc()
			deny(c, http.StatusForbidden, msgForbiddenRole)
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffMiddleware allows Employee and Admin accounts
func StaffMiddleware(deny DenyFunc) gin.HandlerFunc {
	return RoleMiddleware(deny, model.RoleEmployee, model.RoleAdmin)
}
