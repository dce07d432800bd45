package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/reservation-admin/internal/handler"
	"github.com/jwalitptl/reservation-admin/internal/model"
)

// ReservationService is a testify mock of handler.ReservationService.
type ReservationService struct {
	mock.Mock
}

var _ handler.ReservationService = (*ReservationService)(nil)

func listing(args mock.Arguments) (*model.Listing, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *ReservationService) List(ctx context.Context, view model.View, date string) (*model.Listing, error) {
	return listing(m.Called(ctx, view, date))
}

func (m *ReservationService) ListAll(ctx context.Context) (*model.Listing, error) {
	return listing(m.Called(ctx))
}

func (m *ReservationService) ListToday(ctx context.Context) (*model.Listing, error) {
	return listing(m.Called(ctx))
}

func (m *ReservationService) ListByDate(ctx context.Context, date string) (*model.Listing, error) {
	return listing(m.Called(ctx, date))
}

func (m *ReservationService) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *ReservationService) Delete(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *ReservationService) Probe(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
