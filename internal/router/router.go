package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/reservation-admin/internal/handler"
	"github.com/jwalitptl/reservation-admin/internal/handler/panel"
	"github.com/jwalitptl/reservation-admin/internal/middleware"
	"github.com/jwalitptl/reservation-admin/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(gin.IRoutes)
}

type APIHandler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type AuthHandler interface {
	Handler
	RegisterAPIRoutes(*gin.RouterGroup)
}

type Router struct {
	engine    *gin.Engine
	auth      *middleware.AuthMiddleware
	panelH    Handler
	apiH      APIHandler
	authH     AuthHandler
	healthH   Handler
	gatherer  prometheus.Gatherer
	rateLimit *middleware.RateLimiter
	config    RouterConfig
}

type RouterConfig struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	HSTS             bool
	Mode             string
}

type Handlers struct {
	Panel  Handler
	API    APIHandler
	Auth   AuthHandler
	Health Handler
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	handlers Handlers,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	config RouterConfig,
) *Router {
	if config.Mode == "" {
		config.Mode = gin.ReleaseMode
	}
	gin.SetMode(config.Mode)

	engine := gin.New()
	engine.SetHTMLTemplate(panel.Templates())

	r := &Router{
		engine:   engine,
		auth:     auth,
		panelH:   handlers.Panel,
		apiH:     handlers.API,
		authH:    handlers.Auth,
		healthH:  handlers.Health,
		gatherer: gatherer,
		config:   config,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorLogger(),
		middleware.Metrics(m),
		middleware.Recovery(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig(config.HSTS)),
	)

	if config.RateLimitEnabled {
		r.rateLimit = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
	}

	return r
}

func (r *Router) Setup() {
	// Probes and scraping stay outside rate limiting and auth.
	r.healthH.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", handler.MetricsHandler(r.gatherer))

	public := r.engine.Group("")
	if r.rateLimit != nil {
		public.Use(r.rateLimit.RateLimit())
	}
	r.authH.RegisterRoutes(public)

	api := public.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})
	r.authH.RegisterAPIRoutes(api)

	protectedAPI := api.Group("")
	protectedAPI.Use(r.auth.RequireToken())
	r.apiH.RegisterRoutes(protectedAPI)

	protectedPanel := public.Group("")
	protectedPanel.Use(r.auth.RequireSession())
	r.panelH.RegisterRoutes(protectedPanel)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
