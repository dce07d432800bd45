package reservation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/reservation-admin/internal/model"
	"github.com/jwalitptl/reservation-admin/internal/repository"
	"github.com/jwalitptl/reservation-admin/internal/repository/mocks"
	"github.com/jwalitptl/reservation-admin/pkg/messaging"
	"github.com/jwalitptl/reservation-admin/pkg/metrics"
)

type fixture struct {
	svc       *Service
	repo      *mocks.ReservationRepository
	publisher *mocks.Publisher
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T, loc *time.Location) *fixture {
	t.Helper()
	repo := &mocks.ReservationRepository{}
	pub := &mocks.Publisher{}
	m := metrics.NewMetrics("test", prometheus.NewRegistry())

	svc := NewService(repo, pub, m, Options{Channel: "reservations", Location: loc})
	svc.now = func() time.Time { return time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC) }

	t.Cleanup(func() {
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})
	return &fixture{svc: svc, repo: repo, publisher: pub, metrics: m}
}

func TestService_ListAll(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	want := []*model.Reservation{{ID: uuid.New(), Name: "Ana", Date: "2026-10-18", Time: "10:00"}}
	f.repo.On("ListAll", ctx).Return(want, nil)

	listing, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ViewAll, listing.View)
	assert.Equal(t, "All Bookings", listing.Title())
	assert.Equal(t, want, listing.Reservations)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationOperations.WithLabelValues("list_all", "ok")))
}

func TestService_ListAllError(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.repo.On("ListAll", ctx).Return(nil, errors.New("connection refused"))

	_, err := f.svc.ListAll(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationOperations.WithLabelValues("list_all", "error")))
}

func TestService_ListTodayUsesPanelTimezone(t *testing.T) {
	tests := []struct {
		name string
		loc  *time.Location
		date string
	}{
		{"utc default", nil, "2026-10-17"},
		{"ahead of utc", time.FixedZone("UTC+2", 2*60*60), "2026-10-18"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.loc)
			ctx := context.Background()
			f.repo.On("ListByDate", ctx, tt.date, true).Return([]*model.Reservation{}, nil)

			listing, err := f.svc.ListToday(ctx)
			require.NoError(t, err)
			assert.Equal(t, model.ViewToday, listing.View)
			assert.Equal(t, tt.date, listing.Date)
			assert.Equal(t, "Today's Bookings", listing.Title())
		})
	}
}

func TestService_ListByDateValidation(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ListByDate(context.Background(), "")
	assert.ErrorIs(t, err, ErrDateRequired)
	assert.EqualError(t, err, "Please select a date")

	_, err = f.svc.ListByDate(context.Background(), "17/10/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestService_ListByDateFallsBackOnFailedPrecondition(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	want := []*model.Reservation{{ID: uuid.New(), Name: "Rui", Date: "2026-10-20", Time: "15:00"}}

	f.repo.On("ListByDate", ctx, "2026-10-20", true).
		Return(nil, fmt.Errorf("query: %w", repository.ErrFailedPrecondition)).Once()
	f.repo.On("ListByDate", ctx, "2026-10-20", false).Return(want, nil).Once()

	listing, err := f.svc.ListByDate(ctx, "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, "Bookings for 2026-10-20", listing.Title())
	assert.Equal(t, want, listing.Reservations)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QueryFallbacks))
}

func TestService_ListByDateOtherErrorsPropagate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.repo.On("ListByDate", ctx, "2026-10-20", true).Return(nil, errors.New("permission denied")).Once()

	_, err := f.svc.ListByDate(ctx, "2026-10-20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.QueryFallbacks))
}

func TestService_ListDispatch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.repo.On("ListAll", ctx).Return([]*model.Reservation{}, nil).Once()
	f.repo.On("ListByDate", ctx, "2026-10-17", true).Return([]*model.Reservation{}, nil).Once()
	f.repo.On("ListByDate", ctx, "2026-11-01", true).Return([]*model.Reservation{}, nil).Once()

	l, err := f.svc.List(ctx, model.ViewAll, "ignored")
	require.NoError(t, err)
	assert.Equal(t, model.ViewAll, l.View)

	l, err = f.svc.List(ctx, model.ViewToday, "")
	require.NoError(t, err)
	assert.Equal(t, model.ViewToday, l.View)

	l, err = f.svc.List(ctx, model.ViewDate, "2026-11-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-11-01", l.Date)
}

func TestService_Get(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := uuid.New()
	f.repo.On("Get", ctx, id).Return(nil, repository.ErrNotFound)

	_, err := f.svc.Get(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationOperations.WithLabelValues("get", "error")))
}

func TestService_DeletePublishesEvent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	r := &model.Reservation{ID: uuid.New(), Name: "Ana", Date: "2026-10-17", Time: "10:00"}

	f.repo.On("Get", ctx, r.ID).Return(r, nil)
	f.repo.On("Delete", ctx, r.ID).Return(nil)
	f.publisher.On("Publish", ctx, "reservations", mock.MatchedBy(func(m messaging.Message) bool {
		return m.Type == messaging.EventReservationDeleted && m.Payload == r
	})).Return(nil)

	deleted, err := f.svc.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, deleted)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.EventsPublished.WithLabelValues(messaging.EventReservationDeleted, "ok")))
}

func TestService_DeleteSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	r := &model.Reservation{ID: uuid.New(), Name: "Ana", Date: "2026-10-17", Time: "10:00"}

	f.repo.On("Get", ctx, r.ID).Return(r, nil)
	f.repo.On("Delete", ctx, r.ID).Return(nil)
	f.publisher.On("Publish", ctx, "reservations", mock.Anything).Return(errors.New("broker down"))

	_, err := f.svc.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.EventsPublished.WithLabelValues(messaging.EventReservationDeleted, "error")))
}

func TestService_DeleteNotFound(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := uuid.New()
	f.repo.On("Get", ctx, id).Return(nil, repository.ErrNotFound)

	_, err := f.svc.Delete(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	f.repo.AssertNotCalled(t, "Delete", ctx, id)
}

func TestService_Probe(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := uuid.New()

	f.repo.On("Ping", ctx).Return(nil)
	var written *model.Reservation
	f.repo.On("Create", ctx, mock.AnythingOfType("*model.Reservation")).
		Run(func(args mock.Arguments) {
			written = args.Get(1).(*model.Reservation)
			written.ID = id
		}).Return(nil)
	f.repo.On("Get", ctx, id).Return(&model.Reservation{ID: id, Name: probeName}, nil)
	f.repo.On("Delete", ctx, id).Return(nil)

	assert.NoError(t, f.svc.Probe(ctx))
	require.NotNil(t, written)
	assert.Empty(t, written.Date)
	assert.Empty(t, written.Time)
	assert.False(t, written.Renderable())
}

func TestService_AccessCheckReadFailureRemovesRecord(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := uuid.New()

	f.repo.On("Ping", ctx).Return(nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*model.Reservation")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Reservation).ID = id
		}).Return(nil)
	f.repo.On("Get", ctx, id).Return(nil, errors.New("read timeout"))
	f.repo.On("Delete", ctx, id).Return(nil).Once()

	err := f.svc.Probe(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe read failed")
	f.repo.AssertCalled(t, "Delete", ctx, id)
}

func TestService_AccessCheckRecordStaysOutOfToday(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := uuid.New()
	var stored []*model.Reservation

	f.repo.On("Ping", ctx).Return(nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*model.Reservation")).
		Run(func(args mock.Arguments) {
			r := args.Get(1).(*model.Reservation)
			r.ID = id
			stored = append(stored, r)
		}).Return(nil)
	f.repo.On("Get", ctx, id).Return(nil, errors.New("read timeout"))
	f.repo.On("Delete", ctx, id).Return(errors.New("read-only"))

	require.Error(t, f.svc.Probe(ctx))
	require.Len(t, stored, 1)

	listing := &model.Listing{View: model.ViewToday, Date: f.svc.Today(), Reservations: stored}
	rows, skipped := listing.Renderable()
	assert.Empty(t, rows)
	assert.Equal(t, []uuid.UUID{id}, skipped)
}

func TestService_ProbeWriteFailure(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.repo.On("Ping", ctx).Return(nil)
	f.repo.On("Create", ctx, mock.Anything).Return(errors.New("read-only"))

	err := f.svc.Probe(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe write failed")
}

func TestService_ProbeUnreachable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.repo.On("Ping", ctx).Return(errors.New("dial tcp: refused"))

	err := f.svc.Probe(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unreachable")
}
