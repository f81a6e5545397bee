package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/eligibility"
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

// StatusWriter persistence collaborator for lifecycle mutations.
// expectedVersion is the version the caller validated against; stores reject stale writes.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.Status) error
	Cancel(ctx context.Context, id uuid.UUID, expectedVersion int64, by domain.ActorRole, reason *string, at time.Time) error
	Reschedule(ctx context.Context, id uuid.UUID, expectedVersion int64, sessionDate time.Time, startTime types.TimeString) error
}

// Manager validates transitions against the caller's view of a booking and only then
// issues the write. A rejected transition never reaches the writer.
type Manager struct {
	writer StatusWriter
}

// NewManager создает менеджер жизненного цикла
func NewManager(writer StatusWriter) *Manager {
	return &Manager{writer: writer}
}

// Confirm pending -> confirmed (consultant)
func (m *Manager) Confirm(ctx context.Context, b *domain.Booking, role domain.ActorRole, now time.Time) (*domain.Booking, error) {
	return m.setStatus(ctx, b, domain.StatusConfirmed, role, now)
}

// Complete confirmed -> completed (consultant)
func (m *Manager) Complete(ctx context.Context, b *domain.Booking, role domain.ActorRole, now time.Time) (*domain.Booking, error) {
	return m.setStatus(ctx, b, domain.StatusCompleted, role, now)
}

// Cancel pending/confirmed -> cancelled
func (m *Manager) Cancel(ctx context.Context, b *domain.Booking, role domain.ActorRole, reason *string, now time.Time) (*domain.Booking, error) {
	if err := Transition(b, domain.StatusCancelled, role, now); err != nil {
		return nil, err
	}

	if err := m.writer.Cancel(ctx, b.ID, b.Version, role, reason, now); err != nil {
		return nil, err
	}

	updated := *b
	updated.Status = domain.StatusCancelled
	updated.CancellationReason = reason
	updated.CancelledAt = &now
	updated.CancelledBy = &role
	updated.Version++
	updated.UpdatedAt = now
	return &updated, nil
}

// Reschedule moves the session to a new date/time keeping the status.
// The new session time is derived with the same rule as eligibility.SessionDateTime
// and must lie after now.
func (m *Manager) Reschedule(
	ctx context.Context,
	b *domain.Booking,
	role domain.ActorRole,
	sessionDate time.Time,
	startTime types.TimeString,
	now time.Time,
) (*domain.Booking, error) {
	if err := Reschedule(b, role, now); err != nil {
		return nil, err
	}

	updated := *b
	updated.SessionDate = sessionDate
	updated.StartTime = startTime

	if err := validateNewSchedule(&updated, now); err != nil {
		return nil, err
	}

	if err := m.writer.Reschedule(ctx, b.ID, b.Version, sessionDate, startTime); err != nil {
		return nil, err
	}

	updated.Version++
	updated.UpdatedAt = now
	return &updated, nil
}

func (m *Manager) setStatus(ctx context.Context, b *domain.Booking, to domain.Status, role domain.ActorRole, now time.Time) (*domain.Booking, error) {
	if err := Transition(b, to, role, now); err != nil {
		return nil, err
	}

	if err := m.writer.UpdateStatus(ctx, b.ID, b.Version, to); err != nil {
		return nil, err
	}

	updated := *b
	updated.Status = to
	updated.Version++
	updated.UpdatedAt = now
	return &updated, nil
}

func validateNewSchedule(b *domain.Booking, now time.Time) error {
	if b.SessionDate.IsZero() {
		return fmt.Errorf("%w: session date is required", ErrInvalidSchedule)
	}
	if !b.StartTime.IsZero() {
		if err := b.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
	}

	at, err := eligibility.SessionDateTime(b)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if !at.After(now) {
		return fmt.Errorf("%w: session at %s is not in the future", ErrInvalidSchedule, at.Format(time.RFC3339))
	}
	return nil
}
