package middleware

import (
	"net/url"

	"cse_motors/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	PrincipalKey = "principal"
	FormKey      = "validatedForm"
	RequestIDKey = "requestID"
)

// DenyFunc renders the response for a request refused by a gate. The gate
// aborts the chain after it returns.
type DenyFunc func(c *gin.Context, status int, message string)

// SetPrincipal attaches the authenticated principal to the request.
func SetPrincipal(c *gin.Context, p model.Principal) {
	c.Set(PrincipalKey, p)
}

// GetPrincipal returns the principal attached by a gate.
func GetPrincipal(c *gin.Context) (model.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}

// ValidatedForm returns the sanitized form stored by Validate, or the raw
// body form when no validation ran.
func ValidatedForm(c *gin.Context) url.Values {
	if v, exists := c.Get(FormKey); exists {
		if form, ok := v.(url.Values); ok {
			return form
		}
	}
	return c.Request.PostForm
}

// RequestID returns the id assigned by RequestLogger.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
