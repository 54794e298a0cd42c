package middleware

import (
	"net/http"

	"cse_motors/internal/logger"
	"cse_motors/internal/metrics"
	"cse_motors/internal/session"

	"github.com/gin-gonic/gin"
)

const loginPath = "/account/login"

// SessionLocals attaches the session principal, when present, so views and
// later gates can see who is logged in.
func SessionLocals(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p, ok := sm.Principal(c.Request); ok {
			SetPrincipal(c, p)
		}
		c.Next()
	}
}

// SessionGate requires a logged-in session, redirecting to the login page
// with a notice otherwise.
func SessionGate(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := sm.Principal(c.Request)
		if !ok {
			metrics.GateDenialsTotal.WithLabelValues("session", "not_logged_in").Inc()
			if err := sm.AddNotice(c.Writer, c.Request, "Please log in."); err != nil {
				logger.ForRequest(RequestID(c)).Error().Err(err).Msg("failed to save session notice")
			}
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		SetPrincipal(c, p)
		c.Next()
	}
}
