package lifecycle

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
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) UpdateStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.Status) error {
	args := m.Called(ctx, id, expectedVersion, status)
	return args.Error(0)
}

func (m *mockWriter) Cancel(ctx context.Context, id uuid.UUID, expectedVersion int64, by domain.ActorRole, reason *string, at time.Time) error {
	args := m.Called(ctx, id, expectedVersion, by, reason, at)
	return args.Error(0)
}

func (m *mockWriter) Reschedule(ctx context.Context, id uuid.UUID, expectedVersion int64, sessionDate time.Time, startTime types.TimeString) error {
	args := m.Called(ctx, id, expectedVersion, sessionDate, startTime)
	return args.Error(0)
}

func TestManager_Confirm(t *testing.T) {
	w := &mockWriter{}
	m := NewManager(w)
	b := newBooking(domain.StatusPending, 48*time.Hour)
	b.ID = uuid.New()

	w.On("UpdateStatus", mock.Anything, b.ID, int64(3), domain.StatusConfirmed).Return(nil).Once()

	got, err := m.Confirm(context.Background(), b, domain.RoleConsultant, now)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, int64(4), got.Version)
	assert.Equal(t, domain.StatusPending, b.Status, "input booking must not be mutated")
	w.AssertExpectations(t)
}

func TestManager_RejectedTransitionNeverWrites(t *testing.T) {
	w := &mockWriter{}
	m := NewManager(w)
	ctx := context.Background()

	_, err := m.Complete(ctx, newBooking(domain.StatusPending, 48*time.Hour), domain.RoleConsultant, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.Cancel(ctx, newBooking(domain.StatusConfirmed, 10*time.Hour), domain.RoleSeeker, nil, now)
	assert.ErrorIs(t, err, ErrDeadlinePassed)

	_, err = m.Confirm(ctx, newBooking(domain.StatusPending, 48*time.Hour), domain.RoleSeeker, now)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = m.Reschedule(ctx, newBooking(domain.StatusCancelled, 48*time.Hour), domain.RoleSeeker, now.Add(96*time.Hour), "10:00", now)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	w.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	w.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	w.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestManager_Cancel(t *testing.T) {
	w := &mockWriter{}
	m := NewManager(w)
	b := newBooking(domain.StatusConfirmed, 48*time.Hour)
	reason := "schedule conflict"

	w.On("Cancel", mock.Anything, b.ID, int64(3), domain.RoleSeeker, &reason, now).Return(nil).Once()

	got, err := m.Cancel(context.Background(), b, domain.RoleSeeker, &reason, now)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancelledBy)
	assert.Equal(t, domain.RoleSeeker, *got.CancelledBy)
	assert.Equal(t, now, *got.CancelledAt)
	w.AssertExpectations(t)
}

func TestManager_WriterErrorPropagates(t *testing.T) {
	w := &mockWriter{}
	m := NewManager(w)
	b := newBooking(domain.StatusConfirmed, -time.Hour)
	stale := errors.New("version conflict")

	w.On("UpdateStatus", mock.Anything, b.ID, int64(3), domain.StatusCompleted).Return(stale).Once()

	got, err := m.Complete(context.Background(), b, domain.RoleConsultant, now)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, stale)
}

func TestManager_Reschedule(t *testing.T) {
	w := &mockWriter{}
	m := NewManager(w)
	b := newBooking(domain.StatusConfirmed, 48*time.Hour)
	newDate := time.Date(2025, 10, 25, 0, 0, 0, 0, time.UTC)

	w.On("Reschedule", mock.Anything, b.ID, int64(3), newDate, types.TimeString("16:30")).Return(nil).Once()

	got, err := m.Reschedule(context.Background(), b, domain.RoleSeeker, newDate, "16:30", now)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, newDate, got.SessionDate)
	assert.Equal(t, types.TimeString("16:30"), got.StartTime)
	w.AssertExpectations(t)
}

func TestManager_RescheduleIntoPast(t *testing.T) {
	w := &mockWriter{}
	m := NewManager(w)
	b := newBooking(domain.StatusConfirmed, 48*time.Hour)

	_, err := m.Reschedule(context.Background(), b, domain.RoleSeeker, time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC), "09:00", now)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = m.Reschedule(context.Background(), b, domain.RoleSeeker, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), "9am", now)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	w.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
