package middleware

import (
	"errors"
	"net/http"
	"strings"

	"cse_motors/internal/logger"
	"cse_motors/internal/metrics"
	"cse_motors/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie the login handler stores the token in.
const TokenCookie = "jwt"

const (
	msgNoToken       = "You must be logged in as an Employee or Admin to access that page."
	msgMissingSecret = "Server configuration error (missing JWT secret). Contact admin."
	msgExpired       = "Your session has expired. Please log in again."
	msgInvalidToken  = "Invalid authentication token. Please log in."
)

// tokenFromRequest reads the bearer token, falling back to the jwt cookie.
func tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		if token := strings.TrimSpace(authHeader[7:]); token != "" {
			return token
		}
	}
	token, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return token
}

// JWTAuthMiddleware creates a middleware for JWT authentication. The decoded
// principal replaces any session principal for the rest of the chain.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, deny DenyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			metrics.GateDenialsTotal.WithLabelValues("token", "missing_token").Inc()
			deny(c, http.StatusUnauthorized, msgNoToken)
			c.Abort()
			return
		}

		principal, err := jwtUtil.ValidateToken(tokenString)
		switch {
		case errors.Is(err, utils.ErrMissingSecret):
			logger.ForRequest(RequestID(c)).Error().Msg("JWT secret not configured (JWT_SECRET)")
			metrics.GateDenialsTotal.WithLabelValues("token", "missing_secret").Inc()
			deny(c, http.StatusInternalServerError, msgMissingSecret)
			c.Abort()
			return
		case errors.Is(err, jwt.ErrTokenExpired):
			metrics.GateDenialsTotal.WithLabelValues("token", "expired").Inc()
			deny(c, http.StatusUnauthorized, msgExpired)
			c.Abort()
			return
		case err != nil:
			logger.ForRequest(RequestID(c)).Debug().Err(err).Msg("rejected token")
			metrics.GateDenialsTotal.WithLabelValues("token", "invalid").Inc()
			deny(c, http.StatusUnauthorized, msgInvalidToken)
			c.Abort()
			return
		}

		SetPrincipal(c, *principal)
		c.Next()
	}
}
