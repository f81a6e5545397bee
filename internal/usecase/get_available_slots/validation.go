package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ConsultantID <= 0 {
		return fmt.Errorf("%w: consultantID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes != nil {
		d := *req.DurationMinutes
		if d < domain.MinSessionDurationMinutes || d > domain.MaxSessionDurationMinutes {
			return fmt.Errorf("%w: durationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinSessionDurationMinutes, domain.MaxSessionDurationMinutes)
		}
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и укладывается в advanceBookingDays
func validateDate(requestDate time.Time, now time.Time, advanceBookingDays int) error {
	if isDateInPast(requestDate, now) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := dateOnly(now).AddDate(0, 0, advanceBookingDays)
	if dateOnly(requestDate).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
