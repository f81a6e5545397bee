package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ConsultBooking/internal/integrations/profileservice"
	"github.com/m04kA/SMC-ConsultBooking/pkg/logger"
	"github.com/m04kA/SMC-ConsultBooking/pkg/ptr"
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

// среда, 15 октября 2025, 12:00 UTC
var now = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type mockBookingRepo struct {
	mock.Mock
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

func (m *mockProfileClient) GetConsultant(ctx context.Context, consultantID int64) (*profileservice.Consultant, error) {
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
	f.uc = NewUseCase(f.bookings, f.settings, f.profiles, logger.NewNop())
	f.uc.timeProvider = fixedTime{t: now}

	t.Cleanup(func() {
		f.bookings.AssertExpectations(t)
		f.settings.AssertExpectations(t)
		f.profiles.AssertExpectations(t)
	})
	return f
}

func consultantOpen(open, close string) *profileservice.Consultant {
	day := profileservice.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr(open), CloseTime: ptr.Ptr(close)}
	return &profileservice.Consultant{
		ID:       2,
		IsActive: true,
		Availability: profileservice.WorkingHours{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
		},
	}
}

func bookingAt(date time.Time, start string, duration int, status domain.Status) *domain.Booking {
	return &domain.Booking{
		ID:              uuid.New(),
		Kind:            domain.KindSession,
		SeekerID:        1,
		ConsultantID:    2,
		SessionDate:     date,
		StartTime:       types.TimeString(start),
		DurationMinutes: duration,
		Status:          status,
	}
}

func startTimes(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime.String()
	}
	return out
}

func TestUseCase_Execute(t *testing.T) {
	thursday := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
	filter := domain.BookingFilter{ConsultantID: ptr.Ptr(int64(2))}

	t.Run("marks slots taken by active bookings", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultant", mock.Anything, int64(2)).Return(consultantOpen("09:00", "12:00"), nil).Once()
		f.settings.On("Get", mock.Anything, int64(2)).Return(nil, settingsRepo.ErrSettingsNotFound).Once()
		f.bookings.On("List", mock.Anything, filter).Return([]*domain.Booking{
			bookingAt(thursday, "10:00", 60, domain.StatusConfirmed),
			bookingAt(thursday, "11:00", 60, domain.StatusCancelled),
		}, nil).Once()

		resp, err := f.uc.Execute(context.Background(), &Request{ConsultantID: 2, Date: thursday})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSessionDurationMinutes, resp.DurationMinutes)
		assert.Equal(t, []string{"09:00", "10:00", "11:00"}, startTimes(resp.Slots))
		assert.True(t, resp.Slots[0].Available)
		assert.False(t, resp.Slots[1].Available)
		assert.True(t, resp.Slots[2].Available, "cancelled bookings free the slot")
	})

	t.Run("today respects minimum notice", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultant", mock.Anything, int64(2)).Return(consultantOpen("09:00", "16:00"), nil).Once()
		f.settings.On("Get", mock.Anything, int64(2)).Return(&domain.ConsultantSettings{
			ConsultantID:            2,
			MinBookingNoticeMinutes: 90,
			DefaultDurationMinutes:  60,
		}, nil).Once()
		f.bookings.On("List", mock.Anything, filter).Return([]*domain.Booking{}, nil).Once()

		resp, err := f.uc.Execute(context.Background(), &Request{ConsultantID: 2, Date: now})

		require.NoError(t, err)
		assert.Equal(t, []string{"14:00", "15:00"}, startTimes(resp.Slots))
	})

	t.Run("requested duration overrides settings", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultant", mock.Anything, int64(2)).Return(consultantOpen("09:00", "10:00"), nil).Once()
		f.settings.On("Get", mock.Anything, int64(2)).Return(nil, settingsRepo.ErrSettingsNotFound).Once()
		f.bookings.On("List", mock.Anything, filter).Return([]*domain.Booking{}, nil).Once()

		resp, err := f.uc.Execute(context.Background(), &Request{ConsultantID: 2, Date: thursday, DurationMinutes: ptr.Ptr(30)})

		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:30"}, startTimes(resp.Slots))
	})

	t.Run("day off returns no slots without reading bookings", func(t *testing.T) {
		f := newFixture(t)
		saturday := time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC)
		f.profiles.On("GetConsultant", mock.Anything, int64(2)).Return(consultantOpen("09:00", "12:00"), nil).Once()
		f.settings.On("Get", mock.Anything, int64(2)).Return(nil, settingsRepo.ErrSettingsNotFound).Once()

		resp, err := f.uc.Execute(context.Background(), &Request{ConsultantID: 2, Date: saturday})

		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})

	t.Run("date beyond advance window", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultant", mock.Anything, int64(2)).Return(consultantOpen("09:00", "12:00"), nil).Once()
		f.settings.On("Get", mock.Anything, int64(2)).Return(&domain.ConsultantSettings{
			ConsultantID:           2,
			AdvanceBookingDays:     7,
			DefaultDurationMinutes: 60,
		}, nil).Once()

		_, err := f.uc.Execute(context.Background(), &Request{ConsultantID: 2, Date: now.AddDate(0, 0, 10)})

		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("past date", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultant", mock.Anything, int64(2)).Return(consultantOpen("09:00", "12:00"), nil).Once()
		f.settings.On("Get", mock.Anything, int64(2)).Return(nil, settingsRepo.ErrSettingsNotFound).Once()

		_, err := f.uc.Execute(context.Background(), &Request{ConsultantID: 2, Date: now.AddDate(0, 0, -1)})

		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("consultant not found", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultant", mock.Anything, int64(2)).Return(nil, profileservice.ErrConsultantNotFound).Once()

		_, err := f.uc.Execute(context.Background(), &Request{ConsultantID: 2, Date: thursday})

		assert.ErrorIs(t, err, ErrConsultantNotFound)
	})

	t.Run("inactive consultant", func(t *testing.T) {
		f := newFixture(t)
		c := consultantOpen("09:00", "12:00")
		c.IsActive = false
		f.profiles.On("GetConsultant", mock.Anything, int64(2)).Return(c, nil).Once()

		_, err := f.uc.Execute(context.Background(), &Request{ConsultantID: 2, Date: thursday})

		assert.ErrorIs(t, err, ErrConsultantInactive)
	})

	t.Run("profile service unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.profiles.On("GetConsultant", mock.Anything, int64(2)).Return(nil, errors.New("timeout")).Once()

		_, err := f.uc.Execute(context.Background(), &Request{ConsultantID: 2, Date: thursday})

		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Execute(context.Background(), &Request{ConsultantID: 0, Date: thursday})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.uc.Execute(context.Background(), &Request{ConsultantID: 2, Date: thursday, DurationMinutes: ptr.Ptr(5)})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestOverlapsAny(t *testing.T) {
	day := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
	bookings := []*domain.Booking{bookingAt(day, "11:00", 30, domain.StatusPending)}

	tests := []struct {
		name  string
		start string
		want  bool
	}{
		{"ends where booking starts", "10:30", false},
		{"starts where booking ends", "11:30", false},
		{"covers booking start", "10:45", true},
		{"inside booking", "11:10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := types.TimeString(tt.start).On(day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, overlapsAny(start, 30, bookings))
		})
	}
}
