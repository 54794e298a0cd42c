package middleware

import (
	"net/http"

	"cse_motors/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	msgServerError = "Oh no! There was a crash. Maybe try a different route?"
	msgNotFound    = "Sorry, we appear to have lost that page."
)

// ErrorPageFunc renders the error view.
type ErrorPageFunc func(c *gin.Context, status int, title, message string)

// ErrorHandler recovers panics and renders a generic 500 page for errors
// pushed with c.Error when the handler wrote nothing.
func ErrorHandler(page ErrorPageFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.ForRequest(RequestID(c)).Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Msg("panic recovered")
				if !c.Writer.Written() {
					page(c, http.StatusInternalServerError, "Server Error", msgServerError)
				}
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, e := range c.Errors {
			logger.ForRequest(RequestID(c)).Error().
				Err(e.Err).
				Str("path", c.Request.URL.Path).
				Msg("request failed")
		}
		if !c.Writer.Written() {
			page(c, http.StatusInternalServerError, "Server Error", msgServerError)
		}
	}
}

// NotFound renders the 404 page for unmatched routes.
func NotFound(page ErrorPageFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		page(c, http.StatusNotFound, "404 Not Found", msgNotFound)
	}
}
