package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HomeHandler serves the landing page and the intentional error route
type HomeHandler struct {
	pages *Pages
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(pages *Pages) *HomeHandler {
	return &HomeHandler{pages: pages}
}

func (h *HomeHandler) BuildHome(c *gin.Context) {
	h.pages.Render(c, http.StatusOK, "index", "Home", nil)
}

// ThrowError fails on purpose so the central error page can be checked.
func (h *HomeHandler) ThrowError(c *gin.Context) {
	_ = c.Error(errors.New("intentional server error for testing"))
}

// RegisterHomeRoutes registers the landing and error test routes
func (h *HomeHandler) RegisterHomeRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.BuildHome)
	rg.GET("/error-test", h.ThrowError)
}
