// Package eligibility decides whether a booking may still be cancelled or rescheduled.
//
// All functions are pure: the current instant is passed in, nothing is read
// from a clock or a store.
package eligibility

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
)

// SessionDateTime returns the instant the session starts.
//
// A SessionDate whose hour and minute are both zero is treated as a plain
// calendar date and StartTime is overlaid on it (seconds zeroed, location kept).
// Any other SessionDate already carries the session time and StartTime is ignored.
//
// A session that genuinely starts at 00:00 is indistinguishable from a date-only
// value here; overlaying "00:00" leaves it unchanged, so the result is the same.
func SessionDateTime(b *domain.Booking) (time.Time, error) {
	if b == nil || b.SessionDate.IsZero() {
		return time.Time{}, fmt.Errorf("%w: session date is missing", ErrMalformedBooking)
	}

	if b.SessionDate.Hour() != 0 || b.SessionDate.Minute() != 0 {
		return b.SessionDate, nil
	}

	at, err := b.StartTime.On(b.SessionDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start time %q: %v", ErrMalformedBooking, b.StartTime, err)
	}
	return at, nil
}

// CancellationDeadline is the last instant (exclusive) at which the booking may be cancelled
func CancellationDeadline(b *domain.Booking) (time.Time, error) {
	at, err := SessionDateTime(b)
	if err != nil {
		return time.Time{}, err
	}
	return at.Add(-domain.CancellationWindow), nil
}

// Evaluate reports whether the booking can be cancelled at now.
// Bookings that are not pending or confirmed are never cancellable and yield (false, nil).
// Unparseable session time yields (false, ErrMalformedBooking).
func Evaluate(b *domain.Booking, now time.Time) (bool, error) {
	if b == nil || !b.Status.IsOpen() {
		return false, nil
	}

	deadline, err := CancellationDeadline(b)
	if err != nil {
		return false, err
	}

	return now.Before(deadline), nil
}

// CanCancel is Evaluate with malformed bookings reported as not cancellable
func CanCancel(b *domain.Booking, now time.Time) bool {
	ok, _ := Evaluate(b, now)
	return ok
}

// CanReschedule follows the same rule as cancellation
func CanReschedule(b *domain.Booking, now time.Time) bool {
	return CanCancel(b, now)
}
