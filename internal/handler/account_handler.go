package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"cse_motors/internal/logger"
	"cse_motors/internal/metrics"
	"cse_motors/internal/middleware"
	"cse_motors/internal/model"
	"cse_motors/internal/service"
	"cse_motors/internal/session"
	"cse_motors/internal/validation"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles login, registration and account self-service
type AccountHandler struct {
	pages         *Pages
	sessions      *session.Manager
	service       service.AccountService
	tokenTTL      time.Duration
	secureCookies bool
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(pages *Pages, sessions *session.Manager, s service.AccountService, tokenTTL time.Duration, secureCookies bool) *AccountHandler {
	return &AccountHandler{pages: pages, sessions: sessions, service: s, tokenTTL: tokenTTL, secureCookies: secureCookies}
}

func (h *AccountHandler) BuildLogin(c *gin.Context) {
	h.pages.Render(c, http.StatusOK, "account/login", "Login", nil)
}

func (h *AccountHandler) BuildRegister(c *gin.Context) {
	h.pages.Render(c, http.StatusOK, "account/register", "Register", nil)
}

func (h *AccountHandler) loginFailed(c *gin.Context, errs validation.Errors, form url.Values) {
	h.pages.Render(c, http.StatusBadRequest, "account/login", "Login", gin.H{
		"errors":        errs,
		"account_email": form.Get("account_email"),
	})
}

func (h *AccountHandler) Login(c *gin.Context) {
	form := middleware.ValidatedForm(c)
	email := form.Get("account_email")

	account, token, err := h.service.Login(c.Request.Context(), email, form.Get("account_password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.AccountEventsTotal.WithLabelValues("login_failed").Inc()
			h.pages.Notice(c, "Please check your credentials and try again.")
			h.pages.Render(c, http.StatusBadRequest, "account/login", "Login", gin.H{"account_email": email})
			return
		}
		_ = c.Error(err)
		return
	}

	if err := h.sessions.SetPrincipal(c.Writer, c.Request, account.Principal()); err != nil {
		_ = c.Error(err)
		return
	}
	h.setTokenCookie(c, token)
	metrics.AccountEventsTotal.WithLabelValues("login").Inc()
	c.Redirect(http.StatusSeeOther, "/account/")
}

func (h *AccountHandler) setTokenCookie(c *gin.Context, token string) {
	if token == "" {
		return
	}
	c.SetCookie(middleware.TokenCookie, token, int(h.tokenTTL.Seconds()), "/", "", h.secureCookies, true)
}

// refreshIdentity stores the persisted account as the session principal and
// reissues the token cookie.
func (h *AccountHandler) refreshIdentity(c *gin.Context, account *model.Account) {
	p := account.Principal()
	if err := h.sessions.SetPrincipal(c.Writer, c.Request, p); err != nil {
		logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Int("account_id", p.ID).Msg("failed to refresh session principal")
	}
	token, err := h.service.IssueToken(p)
	if err != nil {
		logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Int("account_id", p.ID).Msg("failed to refresh token")
		return
	}
	h.setTokenCookie(c, token)
}

func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c.Writer, c.Request); err != nil {
		logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Msg("failed to destroy session")
	}
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func registerSticky(form url.Values) gin.H {
	return gin.H{
		"account_firstname": form.Get("account_firstname"),
		"account_lastname":  form.Get("account_lastname"),
		"account_email":     form.Get("account_email"),
	}
}

func (h *AccountHandler) registerFailed(c *gin.Context, errs validation.Errors, form url.Values) {
	data := registerSticky(form)
	data["errors"] = errs
	h.pages.Render(c, http.StatusBadRequest, "account/register", "Registration", data)
}

func (h *AccountHandler) Register(c *gin.Context) {
	form := middleware.ValidatedForm(c)
	firstName := form.Get("account_firstname")

	_, err := h.service.Register(c.Request.Context(), firstName, form.Get("account_lastname"), form.Get("account_email"), form.Get("account_password"))
	switch {
	case err == nil:
		metrics.AccountEventsTotal.WithLabelValues("registered").Inc()
		h.pages.Notice(c, "Congratulations, you're registered "+firstName+". Please log in.")
		h.pages.Render(c, http.StatusCreated, "account/login", "Login", nil)
	case errors.Is(err, service.ErrPasswordHash):
		logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Msg("registration hashing failed")
		h.pages.Notice(c, "Sorry, there was an error processing the registration.")
		h.pages.Render(c, http.StatusInternalServerError, "account/register", "Registration", registerSticky(form))
	default:
		logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Msg("registration failed")
		h.pages.Notice(c, "Sorry, the registration failed.")
		h.pages.Render(c, http.StatusNotImplemented, "account/register", "Registration", registerSticky(form))
	}
}

func (h *AccountHandler) BuildManagement(c *gin.Context) {
	h.pages.Render(c, http.StatusOK, "account/index", "Account Management", nil)
}

// BuildUpdate shows the update form filled from the current row, not the
// possibly stale session copy.
func (h *AccountHandler) BuildUpdate(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	account, err := h.service.Get(c.Request.Context(), p.ID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			h.pages.Redirect(c, "/account/", "Account not found.")
			return
		}
		_ = c.Error(err)
		return
	}

	h.pages.Render(c, http.StatusOK, "account/update", "Update Account", gin.H{
		"client":   clientView(account.Principal()),
		"formData": nil,
	})
}

func updateSticky(form url.Values) (client, formData gin.H) {
	formData = gin.H{
		"clientFirstname": form.Get("clientFirstname"),
		"clientLastname":  form.Get("clientLastname"),
		"clientEmail":     form.Get("clientEmail"),
	}
	client = gin.H{"clientId": validation.AccountID(form)}
	for k, v := range formData {
		client[k] = v
	}
	return client, formData
}

func (h *AccountHandler) updateFailed(c *gin.Context, errs validation.Errors, form url.Values) {
	client, formData := updateSticky(form)
	h.pages.Render(c, http.StatusBadRequest, "account/update", "Update Account", gin.H{
		"errors":   errs,
		"client":   client,
		"formData": formData,
	})
}

// Update dispatches on the form's action: a password change or an update
// of names and email.
func (h *AccountHandler) Update(c *gin.Context) {
	form := middleware.ValidatedForm(c)
	accountID := validation.AccountID(form)
	ctx := c.Request.Context()

	if form.Get("action") == validation.ActionChangePassword {
		account, err := h.service.ChangePassword(ctx, accountID, form.Get("clientPassword"))
		if err != nil {
			logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Int("account_id", accountID).Msg("password change failed")
			notice, msg := "Password change failed. Please try again.", "Password update failed."
			if errors.Is(err, service.ErrPasswordHash) {
				notice, msg = "There was an error processing your password. Please try again.", "Password hashing failed."
			}
			h.renderUpdateError(c, form, notice, msg)
			return
		}
		h.refreshIdentity(c, account)
		metrics.AccountEventsTotal.WithLabelValues("password_changed").Inc()
		h.pages.Redirect(c, "/account/", "Password changed successfully.")
		return
	}

	account, err := h.service.UpdateInfo(ctx, accountID, form.Get("clientFirstname"), form.Get("clientLastname"), form.Get("clientEmail"))
	if err != nil {
		logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Int("account_id", accountID).Msg("account update failed")
		h.renderUpdateError(c, form, "Account update failed. Please try again.", "Account update failed.")
		return
	}
	h.refreshIdentity(c, account)
	metrics.AccountEventsTotal.WithLabelValues("updated").Inc()
	h.pages.Redirect(c, "/account/", "Account information updated successfully.")
}

func (h *AccountHandler) renderUpdateError(c *gin.Context, form url.Values, notice, msg string) {
	h.pages.Notice(c, notice)
	client, formData := updateSticky(form)
	h.pages.Render(c, http.StatusInternalServerError, "account/update", "Update Account", gin.H{
		"errors":   validation.Errors{{Msg: msg}},
		"client":   client,
		"formData": formData,
	})
}

// RegisterAccountRoutes registers account routes
func (h *AccountHandler) RegisterAccountRoutes(rg *gin.RouterGroup, sessionMW gin.HandlerFunc) {
	ownerMW := middleware.OwnerGate(h.pages.Deny)
	updateMW := middleware.Validate("account_update", validation.UpdateRules(h.service), h.updateFailed)

	accountGroup := rg.Group("/account")
	{
		accountGroup.GET("/login", h.BuildLogin)
		accountGroup.POST("/login", middleware.Validate("login", validation.LoginRules(), h.loginFailed), h.Login)
		accountGroup.GET("/logout", h.Logout)
		accountGroup.GET("/register", h.BuildRegister)
		accountGroup.POST("/register", middleware.Validate("registration", validation.RegistrationRules(h.service), h.registerFailed), h.Register)

		accountGroup.GET("/", sessionMW, h.BuildManagement)
		accountGroup.GET("/update/:id", sessionMW, ownerMW, h.BuildUpdate)
		accountGroup.POST("/update/:id", sessionMW, ownerMW, updateMW, h.Update)
		accountGroup.POST("/update", sessionMW, ownerMW, updateMW, h.Update)
	}
}
