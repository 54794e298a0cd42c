package handler

import (
	"net/http"

	"cse_motors/internal/logger"
	"cse_motors/internal/middleware"
	"cse_motors/internal/model"
	"cse_motors/internal/nav"
	"cse_motors/internal/session"
	"cse_motors/internal/view"

	"github.com/gin-gonic/gin"
)

// Pages renders views with the data every page shares: navigation, flash
// notices and the logged-in client.
type Pages struct {
	renderer view.Renderer
	sessions *session.Manager
	nav      *nav.Builder
}

// NewPages creates a new Pages
func NewPages(renderer view.Renderer, sessions *session.Manager, navBuilder *nav.Builder) *Pages {
	return &Pages{renderer: renderer, sessions: sessions, nav: navBuilder}
}

func clientView(p model.Principal) gin.H {
	return gin.H{
		"clientId":        p.ID,
		"clientFirstname": p.FirstName,
		"clientLastname":  p.LastName,
		"clientEmail":     p.Email,
		"accountType":     p.Role,
	}
}

// Render writes view name. A navigation failure is pushed to the error
// handler instead of rendering a partial page.
func (p *Pages) Render(c *gin.Context, status int, name, title string, data gin.H) {
	items, err := p.nav.Nav(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	p.render(c, status, name, title, items, data)
}

func (p *Pages) render(c *gin.Context, status int, name, title string, items []nav.Item, data gin.H) {
	notices, err := p.sessions.PopNotices(c.Writer, c.Request)
	if err != nil {
		logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Msg("failed to pop notices")
	}

	out := gin.H{
		"title":    title,
		"nav":      items,
		"notices":  notices,
		"loggedin": false,
		"client":   nil,
		"errors":   nil,
	}
	if principal, ok := p.sessions.Principal(c.Request); ok {
		out["loggedin"] = true
		out["client"] = clientView(principal)
	}
	for k, v := range data {
		out[k] = v
	}
	p.renderer.Render(c, status, name, out)
}

// Notice queues a flash notice for the next render.
func (p *Pages) Notice(c *gin.Context, msg string) {
	if err := p.sessions.AddNotice(c.Writer, c.Request, msg); err != nil {
		logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Msg("failed to save notice")
	}
}

// Redirect queues notice (when set) and redirects with 303.
func (p *Pages) Redirect(c *gin.Context, location, notice string) {
	if notice != "" {
		p.Notice(c, notice)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// Deny renders the login view with a gate message.
func (p *Pages) Deny(c *gin.Context, status int, message string) {
	p.Render(c, status, "account/login", "Login", gin.H{"message": message})
}

// Error renders the error view. Navigation is best effort here so a store
// outage still produces a page.
func (p *Pages) Error(c *gin.Context, status int, title, message string) {
	items, err := p.nav.Nav(c.Request.Context())
	if err != nil {
		logger.ForRequest(middleware.RequestID(c)).Warn().Err(err).Msg("rendering error page without navigation")
		items = []nav.Item{{Name: "Home", URL: "/"}}
	}
	p.render(c, status, "errors/error", title, items, gin.H{"message": message})
}
