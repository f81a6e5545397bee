package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ConsultBooking/internal/integrations/profileservice"
	"github.com/m04kA/SMC-ConsultBooking/pkg/logger"
	"github.com/m04kA/SMC-ConsultBooking/pkg/ptr"
	"github.com/m04kA/SMC-ConsultBooking/pkg/txmanager"
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

var now = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, b)
	switch r := args.Get(0).(type) {
	case *domain.Booking:
		return r, args.Error(1)
	case func(context.Context, *domain.Booking) *domain.Booking:
		return r(ctx, b), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if r, ok := args.Get(0).([]*domain.Booking); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSettingsRepo struct {
	mock.Mock
}

func (m *mockSettingsRepo) Get(ctx context.Context, consultantID int64) (*domain.ConsultantSettings, error) {
	args := m.Called(ctx, consultantID)
	if r, ok := args.Get(0).(*domain.ConsultantSettings); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProfileClient struct {
	mock.Mock
}

func (m *mockProfileClient) GetConsultantWithGracefulDegradation(ctx context.Context, consultantID int64) (*profileservice.Consultant, error) {
	args := m.Called(ctx, consultantID)
	if r, ok := args.Get(0).(*profileservice.Consultant); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type fixture struct {
	uc       *UseCase
	bookings *mockBookingRepo
	settings *mockSettingsRepo
	profiles *mockProfileClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		bookings: &mockBookingRepo{},
		settings: &mockSettingsRepo{},
		profiles: &mockProfileClient{},
	}
	f.uc = NewUseCase(f.bookings, f.settings, f.profiles, txmanager.NoopManager{}, logger.NewNop())
	f.uc.timeProvider = fixedTime{t: now}

	t.Cleanup(func() {
		f.bookings.AssertExpectations(t)
		f.settings.AssertExpectations(t)
		f.profiles.AssertExpectations(t)
	})
	return f
}

func validRequest() *Request {
	return &Request{
		SeekerID:      1,
		ConsultantID:  2,
		Kind:          domain.KindSession,
		Date:          time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:00",
		TotalAmount:   decimal.RequireFromString("150.00"),
		AdvanceAmount: decimal.RequireFromString("50.00"),
	}
}

func activeConsultant() *profileservice.Consultant {
	return &profileservice.Consultant{ID: 2, IsActive: true, ServiceIDs: []int64{7}}
}

func TestUseCase_Execute_CreatesPending(t *testing.T) {
	f := newFixture(t)

	f.profiles.On("GetConsultantWithGracefulDegradation", mock.Anything, int64(2)).Return(activeConsultant(), nil).Once()
	f.settings.On("Get", mock.Anything, int64(2)).Return(nil, settingsRepo.ErrSettingsNotFound).Once()
	f.bookings.On("List", mock.Anything, domain.BookingFilter{ConsultantID: ptr.Ptr(int64(2))}).Return([]*domain.Booking{}, nil).Once()
	f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.StatusPending &&
			b.DurationMinutes == domain.DefaultSessionDurationMinutes &&
			b.RemainingAmount.Equal(decimal.RequireFromString("100.00"))
	})).Return(func(_ context.Context, b *domain.Booking) *domain.Booking {
		b.ID = uuid.New()
		b.Version = 1
		return b
	}, nil).Once()

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, int64(1), resp.Version)
	assert.True(t, resp.RemainingAmount.Equal(decimal.NewFromInt(100)))
}

func TestUseCase_Execute_ServiceBooking(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.Kind = domain.KindService
	req.ServiceID = ptr.Ptr(int64(8))

	f.profiles.On("GetConsultantWithGracefulDegradation", mock.Anything, int64(2)).Return(activeConsultant(), nil).Once()

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotOffered)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"self booking", func(r *Request) { r.ConsultantID = r.SeekerID }, ErrSelfBooking},
		{"unknown kind", func(r *Request) { r.Kind = "workshop" }, ErrInvalidInput},
		{"service without id", func(r *Request) { r.Kind = domain.KindService }, ErrInvalidInput},
		{"bad start time", func(r *Request) { r.StartTime = "9am" }, ErrInvalidInput},
		{"duration too long", func(r *Request) { r.DurationMinutes = ptr.Ptr(600) }, ErrInvalidInput},
		{"advance above total", func(r *Request) { r.AdvanceAmount = decimal.NewFromInt(200) }, ErrInvalidAmount},
		{"amounts do not add up", func(r *Request) { r.RemainingAmount = ptr.Ptr(decimal.NewFromInt(90)) }, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUseCase_Execute_Consultant(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultantWithGracefulDegradation", mock.Anything, int64(2)).
			Return(nil, profileservice.ErrConsultantNotFound).Once()

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrConsultantNotFound)
	})

	t.Run("inactive", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultantWithGracefulDegradation", mock.Anything, int64(2)).
			Return(&profileservice.Consultant{ID: 2}, nil).Once()

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrConsultantInactive)
	})

	t.Run("profile service degraded still books", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultantWithGracefulDegradation", mock.Anything, int64(2)).
			Return(nil, profileservice.ErrServiceDegraded).Once()
		f.settings.On("Get", mock.Anything, int64(2)).Return(nil, settingsRepo.ErrSettingsNotFound).Once()
		f.bookings.On("List", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil).Once()
		f.bookings.On("Create", mock.Anything, mock.Anything).Return(&domain.Booking{ID: uuid.New(), Status: domain.StatusPending}, nil).Once()

		_, err := f.uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
	})
}

func TestUseCase_Execute_Settings(t *testing.T) {
	t.Run("too far in advance", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultantWithGracefulDegradation", mock.Anything, int64(2)).Return(activeConsultant(), nil).Once()
		f.settings.On("Get", mock.Anything, int64(2)).Return(&domain.ConsultantSettings{
			ConsultantID: 2, AdvanceBookingDays: 3, DefaultDurationMinutes: 60,
		}, nil).Once()

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("notice window", func(t *testing.T) {
		f := newFixture(t)
		req := validRequest()
		req.Date = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
		req.StartTime = "12:30"

		f.profiles.On("GetConsultantWithGracefulDegradation", mock.Anything, int64(2)).Return(activeConsultant(), nil).Once()
		f.settings.On("Get", mock.Anything, int64(2)).Return(nil, settingsRepo.ErrSettingsNotFound).Once()

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrTooLateToBook)
	})

	t.Run("date in the past", func(t *testing.T) {
		f := newFixture(t)
		req := validRequest()
		req.Date = time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)

		f.profiles.On("GetConsultantWithGracefulDegradation", mock.Anything, int64(2)).Return(activeConsultant(), nil).Once()
		f.settings.On("Get", mock.Anything, int64(2)).Return(nil, settingsRepo.ErrSettingsNotFound).Once()

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("settings failure", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultantWithGracefulDegradation", mock.Anything, int64(2)).Return(activeConsultant(), nil).Once()
		f.settings.On("Get", mock.Anything, int64(2)).Return(nil, errors.New("boom")).Once()

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestUseCase_Execute_ConsultantBusy(t *testing.T) {
	f := newFixture(t)

	busy := &domain.Booking{
		SessionDate:     time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		StartTime:       "13:30",
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
	cancelled := &domain.Booking{
		SessionDate:     time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		StartTime:       "14:00",
		DurationMinutes: 60,
		Status:          domain.StatusCancelled,
	}

	f.profiles.On("GetConsultantWithGracefulDegradation", mock.Anything, int64(2)).Return(activeConsultant(), nil).Once()
	f.settings.On("Get", mock.Anything, int64(2)).Return(nil, settingsRepo.ErrSettingsNotFound).Once()
	f.bookings.On("List", mock.Anything, mock.Anything).Return([]*domain.Booking{busy, cancelled}, nil).Once()

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestCountOverlappingBookings(t *testing.T) {
	day := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	start := day.Add(14 * time.Hour)
	at := func(hhmm string, status domain.Status) *domain.Booking {
		return &domain.Booking{SessionDate: day, StartTime: types.TimeString(hhmm), DurationMinutes: 60, Status: status}
	}

	bookings := []*domain.Booking{
		at("13:00", domain.StatusConfirmed), // встык перед
		at("15:00", domain.StatusPending),   // встык после
		at("14:30", domain.StatusPending),   // пересекается
		at("14:00", domain.StatusCompleted), // неактивно
	}

	assert.Equal(t, 1, countOverlappingBookings(start, 60, bookings))
}
