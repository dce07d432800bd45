package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/reservation-admin/internal/model"
	"github.com/jwalitptl/reservation-admin/internal/repository"
	"github.com/jwalitptl/reservation-admin/pkg/messaging"
	"github.com/jwalitptl/reservation-admin/pkg/metrics"
)

var (
	ErrDateRequired = errors.New("Please select a date")
	ErrInvalidDate  = errors.New("date must be formatted as YYYY-MM-DD")
)

// probeName marks the record written by Probe.
const probeName = "__store_probe__"

type Options struct {
	// Channel receives reservation events.
	Channel string
	// Location decides which calendar day is "today". Defaults to UTC.
	Location *time.Location
}

type Service struct {
	repo      repository.ReservationRepository
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	channel   string
	loc       *time.Location
	now       func() time.Time
}

func NewService(repo repository.ReservationRepository, publisher messaging.Publisher, m *metrics.Metrics, opts Options) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		channel:   opts.Channel,
		loc:       opts.Location,
		now:       time.Now,
	}
}

// Today returns the current calendar date in the panel's time zone.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(model.DateLayout)
}

// List dispatches to the query behind view.
func (s *Service) List(ctx context.Context, view model.View, date string) (*model.Listing, error) {
	switch view {
	case model.ViewToday:
		return s.ListToday(ctx)
	case model.ViewDate:
		return s.ListByDate(ctx, date)
	default:
		return s.ListAll(ctx)
	}
}

func (s *Service) ListAll(ctx context.Context) (*model.Listing, error) {
	start := time.Now()
	reservations, err := s.repo.ListAll(ctx)
	s.observe("list_all", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	log.Debug().Int("count", len(reservations)).Msg("bookings retrieved")
	return &model.Listing{View: model.ViewAll, Reservations: reservations}, nil
}

func (s *Service) ListToday(ctx context.Context) (*model.Listing, error) {
	today := s.Today()

	reservations, err := s.listForDate(ctx, "list_today", today)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's bookings: %w", err)
	}
	return &model.Listing{View: model.ViewToday, Date: today, Reservations: reservations}, nil
}

func (s *Service) ListByDate(ctx context.Context, date string) (*model.Listing, error) {
	if date == "" {
		return nil, ErrDateRequired
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	reservations, err := s.listForDate(ctx, "list_by_date", date)
	if err != nil {
		return nil, fmt.Errorf("failed to filter bookings: %w", err)
	}
	return &model.Listing{View: model.ViewDate, Date: date, Reservations: reservations}, nil
}

// listForDate runs the time-ordered query and retries once without ordering
// when the store reports a failed precondition.
func (s *Service) listForDate(ctx context.Context, op, date string) ([]*model.Reservation, error) {
	start := time.Now()
	reservations, err := s.repo.ListByDate(ctx, date, true)
	if errors.Is(err, repository.ErrFailedPrecondition) {
		log.Info().Err(err).Str("date", date).Msg("index not available, falling back to basic query")
		s.metrics.QueryFallbacks.Inc()
		reservations, err = s.repo.ListByDate(ctx, date, false)
	}
	s.observe(op, start, err)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("date", date).Int("count", len(reservations)).Msg("bookings retrieved")
	return reservations, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	start := time.Now()
	reservation, err := s.repo.Get(ctx, id)
	s.observe("get", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return reservation, nil
}

// Delete removes the reservation and announces it on the events channel.
// Publishing is best effort.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	start := time.Now()
	reservation, err := s.repo.Get(ctx, id)
	if err == nil {
		err = s.repo.Delete(ctx, id)
	}
	s.observe("delete", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}

	log.Info().Str("reservation_id", id.String()).Str("date", reservation.Date).Msg("booking deleted")

	msg := messaging.NewMessage(messaging.EventReservationDeleted, reservation)
	if err := s.publisher.Publish(ctx, s.channel, msg); err != nil {
		s.metrics.EventsPublished.WithLabelValues(msg.Type, "error").Inc()
		log.Warn().Err(err).Str("reservation_id", id.String()).Msg("failed to publish deletion event")
	} else {
		s.metrics.EventsPublished.WithLabelValues(msg.Type, "ok").Inc()
	}

	return reservation, nil
}

// Probe verifies read/write access to the store by writing, reading back and
// removing a throwaway record.
func (s *Service) Probe(ctx context.Context) error {
	start := time.Now()
	err := s.probe(ctx)
	s.observe("probe", start, err)
	return err
}

func (s *Service) probe(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}

	// No date or time, so listings never render the probe record.
	r := &model.Reservation{Name: probeName}
	if err := s.repo.Create(ctx, r); err != nil {
		return fmt.Errorf("probe write failed: %w", err)
	}
	log.Debug().Str("reservation_id", r.ID.String()).Msg("probe record written")

	got, err := s.repo.Get(ctx, r.ID)
	if err != nil {
		s.discardProbe(ctx, r.ID)
		return fmt.Errorf("probe read failed: %w", err)
	}
	if got.Name != probeName {
		s.discardProbe(ctx, r.ID)
		return fmt.Errorf("probe read returned unexpected record %s", got.ID)
	}

	if err := s.repo.Delete(ctx, r.ID); err != nil {
		return fmt.Errorf("probe delete failed: %w", err)
	}
	return nil
}

func (s *Service) discardProbe(ctx context.Context, id uuid.UUID) {
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("reservation_id", id.String()).Msg("failed to remove probe record")
	}
}

func (s *Service) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.ReservationOperations.WithLabelValues(op, status).Inc()
	s.metrics.ReservationLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
