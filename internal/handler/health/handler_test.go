package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type proberFunc func(ctx context.Context) error

func (f proberFunc) Probe(ctx context.Context) error { return f(ctx) }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := gin.New()
	h.RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	healthy := NewHandler(proberFunc(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	}), 0)
	broken := NewHandler(proberFunc(func(context.Context) error { return errors.New("store unreachable") }), 0)

	tests := []struct {
		name   string
		h      *Handler
		path   string
		status int
		body   string
	}{
		{"live", broken, "/health/live", http.StatusOK, `{"status":"UP"}`},
		{"ready", healthy, "/health/ready", http.StatusOK, `{"status":"UP"}`},
		{"not ready", broken, "/health/ready", http.StatusServiceUnavailable, `{"status":"DOWN","reason":"reservation store unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.h, tt.path)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
