package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if b, ok := args.Get(0).([]*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.Status) error {
	return m.Called(ctx, id, expectedVersion, status).Error(0)
}

func (m *mockBookingRepo) Cancel(ctx context.Context, id uuid.UUID, expectedVersion int64, by domain.ActorRole, reason *string, at time.Time) error {
	return m.Called(ctx, id, expectedVersion, by, reason, at).Error(0)
}

func (m *mockBookingRepo) Reschedule(ctx context.Context, id uuid.UUID, expectedVersion int64, sessionDate time.Time, startTime types.TimeString) error {
	return m.Called(ctx, id, expectedVersion, sessionDate, startTime).Error(0)
}

type mockRatingRepo struct {
	mock.Mock
}

func (m *mockRatingRepo) Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	args := m.Called(ctx, rating)
	if r, ok := args.Get(0).(*domain.Rating); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRatingRepo) Exists(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRatingRepo) RatedAmong(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, ids)
	if r, ok := args.Get(0).(map[uuid.UUID]bool); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRatingRepo) AverageForConsultant(ctx context.Context, consultantID int64) (float64, int, error) {
	args := m.Called(ctx, consultantID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(action, outcome string) {
	m.Called(action, outcome)
}
