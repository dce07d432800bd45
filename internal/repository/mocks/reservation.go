package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/reservation-admin/internal/model"
	"github.com/jwalitptl/reservation-admin/internal/repository"
)

// ReservationRepository is a testify mock of repository.ReservationRepository.
type ReservationRepository struct {
	mock.Mock
}

var _ repository.ReservationRepository = (*ReservationRepository)(nil)

func (m *ReservationRepository) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Reservation), args.Error(1)
}

func (m *ReservationRepository) ListByDate(ctx context.Context, date string, orderByTime bool) ([]*model.Reservation, error) {
	args := m.Called(ctx, date, orderByTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Reservation), args.Error(1)
}

func (m *ReservationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *ReservationRepository) Create(ctx context.Context, r *model.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ReservationRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Publisher is a testify mock of messaging.Publisher.
type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, channel string, message interface{}) error {
	return m.Called(ctx, channel, message).Error(0)
}

func (m *Publisher) Close() error {
	return m.Called().Error(0)
}
