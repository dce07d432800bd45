package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/reservation-admin/internal/handler/panel"
	authService "github.com/jwalitptl/reservation-admin/internal/service/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockService struct {
	mock.Mock
}

func (m *mockService) Login(ctx context.Context, username, password string) (*authService.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authService.Session), args.Error(1)
}

var fixedNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T, enabled bool) (*gin.Engine, *mockService) {
	t.Helper()
	svc := &mockService{}
	h := NewHandler(svc, CookieConfig{Name: "session", Secure: true}, enabled)
	h.now = func() time.Time { return fixedNow }

	r := gin.New()
	r.SetHTMLTemplate(panel.Templates())
	h.RegisterRoutes(r)
	h.RegisterAPIRoutes(r.Group("/api/v1"))
	t.Cleanup(func() { svc.AssertExpectations(t) })
	return r, svc
}

func postForm(r *gin.Engine, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_LoginSetsCookie(t *testing.T) {
	r, svc := setup(t, true)
	svc.On("Login", mock.Anything, "admin", "s3cret-pass").Return(&authService.Session{
		Token:     "signed.jwt.token",
		Username:  "admin",
		ExpiresAt: fixedNow.Add(time.Hour),
	}, nil)

	w := postForm(r, "/login", url.Values{"username": {"admin"}, "password": {"s3cret-pass"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, "signed.jwt.token", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestHandler_LoginRejected(t *testing.T) {
	r, svc := setup(t, true)
	svc.On("Login", mock.Anything, "admin", "wrong-pass").Return(nil, authService.ErrInvalidCredentials)

	w := postForm(r, "/login", url.Values{"username": {"admin"}, "password": {"wrong-pass"}})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), msgInvalidCredentials)
	assert.Contains(t, w.Body.String(), `value="admin"`)
	assert.Empty(t, w.Result().Cookies())
}

func TestHandler_LoginMissingFields(t *testing.T) {
	r, _ := setup(t, true)

	w := postForm(r, "/login", url.Values{"username": {"admin"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_LoginPage(t *testing.T) {
	r, _ := setup(t, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Admin Login")
}

func TestHandler_LoginDisabled(t *testing.T) {
	r, _ := setup(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestHandler_Logout(t *testing.T) {
	r, _ := setup(t, true)

	w := postForm(r, "/logout", url.Values{})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestHandler_Token(t *testing.T) {
	r, svc := setup(t, true)
	expires := fixedNow.Add(time.Hour)
	svc.On("Login", mock.Anything, "admin", "s3cret-pass").
		Return(&authService.Session{Token: "signed.jwt.token", ExpiresAt: expires}, nil).Once()
	svc.On("Login", mock.Anything, "admin", "nope").
		Return(nil, authService.ErrInvalidCredentials).Once()
	svc.On("Login", mock.Anything, "admin", "boom").
		Return(nil, errors.New("signing failed")).Once()

	tests := []struct {
		body   string
		status int
	}{
		{`{"username":"admin","password":"s3cret-pass"}`, http.StatusOK},
		{`{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{`{"username":"admin","password":"boom"}`, http.StatusInternalServerError},
		{`{"username":"admin"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, tt.status, w.Code, tt.body)
		if tt.status == http.StatusOK {
			assert.Contains(t, w.Body.String(), `"token":"signed.jwt.token"`)
		}
	}
}
