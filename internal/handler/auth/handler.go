package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/reservation-admin/internal/handler/panel"
	"github.com/jwalitptl/reservation-admin/internal/middleware"
	authService "github.com/jwalitptl/reservation-admin/internal/service/auth"
	apperrors "github.com/jwalitptl/reservation-admin/pkg/errors"
	"github.com/jwalitptl/reservation-admin/pkg/httputil"
)

const msgInvalidCredentials = "Invalid username or password"

type Service interface {
	Login(ctx context.Context, username, password string) (*authService.Session, error)
}

type CookieConfig struct {
	Name   string
	Secure bool
}

type Handler struct {
	svc     Service
	cookie  CookieConfig
	enabled bool
	now     func() time.Time
}

func NewHandler(svc Service, cookie CookieConfig, enabled bool) *Handler {
	return &Handler{
		svc:     svc,
		cookie:  cookie,
		enabled: enabled,
		now:     time.Now,
	}
}

// RegisterRoutes wires the browser login flow.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
}

// RegisterAPIRoutes wires token issuance for API clients.
func (h *Handler) RegisterAPIRoutes(r *gin.RouterGroup) {
	r.POST("/auth/token", h.Token)
}

type loginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type loginPage struct {
	Username string
	Notice   string
	Error    string
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) LoginPage(c *gin.Context) {
	if !h.enabled {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, panel.LoginTemplate, loginPage{
		Notice: c.Query("notice"),
		Error:  c.Query("error"),
	})
}

func (h *Handler) Login(c *gin.Context) {
	if !h.enabled {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, panel.LoginTemplate, loginPage{
			Username: form.Username,
			Error:    msgInvalidCredentials,
		})
		return
	}

	session, err := h.svc.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, authService.ErrInvalidCredentials) {
			_ = c.Error(err)
			status = http.StatusInternalServerError
		}
		c.HTML(status, panel.LoginTemplate, loginPage{
			Username: form.Username,
			Error:    msgInvalidCredentials,
		})
		return
	}

	maxAge := int(session.ExpiresAt.Sub(h.now()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.Token, maxAge, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session cookie. Tokens are stateless, so a copied token
// stays valid until it expires.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	log.Ctx(c.Request.Context()).Info().Msg("admin signed out")
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *Handler) Token(c *gin.Context) {
	if !h.enabled {
		httputil.RespondWithError(c, apperrors.NewBadRequest("authentication is disabled", nil))
		return
	}

	var req loginForm
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("username and password are required", err))
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, authService.ErrInvalidCredentials) {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			return
		}
		httputil.RespondWithError(c, apperrors.NewInternal(err))
		return
	}

	httputil.RespondWithSuccess(c, tokenResponse{Token: session.Token, ExpiresAt: session.ExpiresAt})
}
