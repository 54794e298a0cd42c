package middleware

import (
	"net/http"
	"strconv"

	"cse_motors/internal/metrics"

	"github.com/gin-gonic/gin"
)

const (
	msgOwnerLogin     = "Please log in to update your account."
	msgNotOwner       = "You are not authorized to update that account."
	defaultFormMemory = 32 << 20
)

// OwnerGate lets a principal act only on its own account. The target id is
// taken from the :id path parameter and the clientId/account_id body fields;
// every id supplied must match. On success clientId holds the target id so
// later stages read a single value.
func OwnerGate(deny DenyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			metrics.GateDenialsTotal.WithLabelValues("owner", "not_logged_in").Inc()
			deny(c, http.StatusUnauthorized, msgOwnerLogin)
			c.Abort()
			return
		}

		if err := parseForm(c.Request); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		candidates := []string{c.Param("id"), c.Request.PostForm.Get("clientId"), c.Request.PostForm.Get("account_id")}
		target := 0
		for _, raw := range candidates {
			if raw == "" {
				continue
			}
			id, err := strconv.Atoi(raw)
			if err != nil || id != p.ID {
				target = 0
				break
			}
			target = id
		}

		if target == 0 {
			metrics.GateDenialsTotal.WithLabelValues("owner", "not_owner").Inc()
			deny(c, http.StatusForbidden, msgNotOwner)
			c.Abort()
			return
		}

		if c.Request.Method != http.MethodGet {
			c.Request.PostForm.Set("clientId", strconv.Itoa(target))
		}
		c.Next()
	}
}
