package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/reservation-admin/pkg/auth"
)

// ContextUsername holds the authenticated admin's name.
const ContextUsername = "username"

// LoginPath is where unauthenticated panel requests are sent.
const LoginPath = "/login"

type TokenValidator interface {
	Authenticate(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	validator  TokenValidator
	cookieName string
	enabled    bool
}

func NewAuthMiddleware(validator TokenValidator, cookieName string, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{
		validator:  validator,
		cookieName: cookieName,
		enabled:    enabled,
	}
}

// RequireSession protects panel routes. Requests without a valid session are
// redirected to the login page.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.authenticate(c) {
			c.Next()
			return
		}
		c.Redirect(http.StatusSeeOther, LoginPath)
		c.Abort()
	}
}

// RequireToken protects API routes. Requests without a valid bearer token or
// session cookie get 401.
func (m *AuthMiddleware) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.authenticate(c) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Status:  "error",
			Message: "unauthorized",
		})
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	if !m.enabled {
		return true
	}

	token := m.token(c)
	if token == "" {
		return false
	}

	claims, err := m.validator.Authenticate(token)
	if err != nil {
		log.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected session token")
		return false
	}

	c.Set(ContextUsername, claims.Username)
	return true
}

func (m *AuthMiddleware) token(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := c.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return cookie
}
