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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/reservation-admin/config"
	"github.com/jwalitptl/reservation-admin/pkg/logger"
	"github.com/jwalitptl/reservation-admin/pkg/messaging"
	"github.com/jwalitptl/reservation-admin/pkg/messaging/redis"
	"github.com/jwalitptl/reservation-admin/pkg/metrics"
	"github.com/jwalitptl/reservation-admin/pkg/worker"
)

// The worker follows reservation events published by the admin service and
// writes an audit log line for each deleted booking.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	zl := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if cfg.Redis.URL == "" {
		log.Fatal().Msg("redis.url is required to run the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	broker, err := redis.NewRedisBroker(ctx, redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, zl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis broker")
	}
	defer broker.Close()

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics("reservations_worker", registry)

	listener := worker.NewEventListener(broker, cfg.Redis.Channel, m, zl)
	listener.Handle(messaging.EventReservationDeleted, worker.LogDeletion(zl.With().Str("audit", "reservation").Logger()))

	srv := setupHealthCheck(cfg.Worker.Port, registry)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := listener.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Worker stopped with error")
	}
	log.Info().Msg("Shutting down...")
}

func setupHealthCheck(port int, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Health check server failed")
		}
	}()
	return srv
}
