package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/reservation-admin/internal/model"
)

// ReservationService is the reservation use-case layer the panel and the API
// are built on.
type ReservationService interface {
	List(ctx context.Context, view model.View, date string) (*model.Listing, error)
	ListAll(ctx context.Context) (*model.Listing, error)
	ListToday(ctx context.Context) (*model.Listing, error)
	ListByDate(ctx context.Context, date string) (*model.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	Probe(ctx context.Context) error
}

// MetricsHandler serves the prometheus registry.
func MetricsHandler(g prometheus.Gatherer) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

// Cause returns the innermost error in err's chain. Its message is what users
// see in banners.
func Cause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
