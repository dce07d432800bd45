package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/reservation-admin/config"
	authHandler "github.com/jwalitptl/reservation-admin/internal/handler/auth"
	"github.com/jwalitptl/reservation-admin/internal/handler/health"
	"github.com/jwalitptl/reservation-admin/internal/handler/panel"
	reservationHandler "github.com/jwalitptl/reservation-admin/internal/handler/reservation"
	"github.com/jwalitptl/reservation-admin/internal/middleware"
	"github.com/jwalitptl/reservation-admin/internal/repository/postgres"
	"github.com/jwalitptl/reservation-admin/internal/router"
	authService "github.com/jwalitptl/reservation-admin/internal/service/auth"
	reservationService "github.com/jwalitptl/reservation-admin/internal/service/reservation"
	"github.com/jwalitptl/reservation-admin/pkg/auth"
	"github.com/jwalitptl/reservation-admin/pkg/logger"
	"github.com/jwalitptl/reservation-admin/pkg/messaging"
	"github.com/jwalitptl/reservation-admin/pkg/messaging/redis"
	"github.com/jwalitptl/reservation-admin/pkg/metrics"
	"github.com/jwalitptl/reservation-admin/pkg/security"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zl := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.Redis.URL != "" {
		broker, err := redis.NewRedisBroker(ctx, redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, zl)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		publisher = broker
	} else {
		log.Info().Msg("redis.url not set, reservation events are not published")
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics("reservations", registry)

	loc, _ := cfg.Location()

	// Initialize services
	reservationSvc := reservationService.NewService(postgres.NewReservationRepository(db), publisher, m, reservationService.Options{
		Channel:  cfg.Redis.Channel,
		Location: loc,
	})
	authSvc := authService.NewService(
		authService.Credentials{Username: cfg.Auth.AdminUsername, PasswordHash: cfg.Auth.AdminPasswordHash},
		security.NewBcryptHasher(bcrypt.DefaultCost),
		auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	)
	if !cfg.Auth.Enabled {
		log.Warn().Msg("authentication is disabled, the panel is open to anyone who can reach it")
	}

	authMiddleware := middleware.NewAuthMiddleware(authSvc, cfg.Auth.CookieName, cfg.Auth.Enabled)

	// Initialize handlers
	handlers := router.Handlers{
		Panel: panel.NewHandler(reservationSvc, m, cfg.Auth.Enabled),
		API:   reservationHandler.NewHandler(reservationSvc),
		Auth: authHandler.NewHandler(authSvc, authHandler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.SecureCookie,
		}, cfg.Auth.Enabled),
		Health: health.NewHandler(reservationSvc, 5*time.Second),
	}

	r := router.NewRouter(authMiddleware, handlers, m, registry, router.RouterConfig{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		HSTS:             cfg.Auth.SecureCookie,
		Mode:             ginMode(cfg.Log.Level),
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("starting reservation admin")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited properly")
}

func ginMode(level string) string {
	if level == "debug" || level == "trace" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
