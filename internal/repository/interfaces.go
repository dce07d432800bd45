package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/reservation-admin/internal/model"
)

var (
	ErrNotFound = errors.New("reservation not found")

	// ErrFailedPrecondition is returned when the store refuses a query because
	// it is not in a state to serve it, e.g. a required index is missing.
	ErrFailedPrecondition = errors.New("failed precondition")
)

type ReservationRepository interface {
	// ListAll returns every reservation ordered by date descending.
	ListAll(ctx context.Context) ([]*model.Reservation, error)
	// ListByDate returns the reservations on date, ordered by time when
	// orderByTime is set.
	ListByDate(ctx context.Context, date string, orderByTime bool) ([]*model.Reservation, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	Create(ctx context.Context, r *model.Reservation) error
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}
