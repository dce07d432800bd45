package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/reservation-admin/internal/model"
	"github.com/jwalitptl/reservation-admin/internal/repository"
)

const reservationColumns = `id, name, phone, booking_date, booking_time, service, created_at`

type reservationRepository struct {
	db *sqlx.DB
}

func NewReservationRepository(db *sqlx.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		ORDER BY booking_date DESC
	`
	reservations := []*model.Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", mapError(err))
	}
	return reservations, nil
}

func (r *reservationRepository) ListByDate(ctx context.Context, date string, orderByTime bool) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE booking_date = ?
	`
	if orderByTime {
		query += " ORDER BY booking_time ASC"
	}

	reservations := []*model.Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, r.db.Rebind(query), date); err != nil {
		return nil, fmt.Errorf("failed to list reservations for %s: %w", date, mapError(err))
	}
	return reservations, nil
}

func (r *reservationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = ?
	`
	var reservation model.Reservation
	if err := r.db.GetContext(ctx, &reservation, r.db.Rebind(query), id); err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", mapError(err))
	}
	return &reservation, nil
}

func (r *reservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	reservation.ID = uuid.New()
	reservation.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		reservation.ID,
		reservation.Name,
		reservation.Phone,
		reservation.Date,
		reservation.Time,
		reservation.Service,
		reservation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", mapError(err))
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reservations WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", mapError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "55" {
		return fmt.Errorf("%w: %s", repository.ErrFailedPrecondition, pqErr.Message)
	}
	return err
}
