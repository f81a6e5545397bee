package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/eligibility"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SeekerID <= 0 {
		return fmt.Errorf("%w: seekerID must be positive", ErrInvalidInput)
	}

	if req.ConsultantID <= 0 {
		return fmt.Errorf("%w: consultantID must be positive", ErrInvalidInput)
	}

	if req.SeekerID == req.ConsultantID {
		return ErrSelfBooking
	}

	if !req.Kind.Valid() {
		return fmt.Errorf("%w: unknown booking kind %q", ErrInvalidInput, req.Kind)
	}

	if req.Kind == domain.KindService && (req.ServiceID == nil || *req.ServiceID <= 0) {
		return fmt.Errorf("%w: serviceID is required for service bookings", ErrInvalidInput)
	}

	if req.Kind == domain.KindSession && req.ServiceID != nil {
		return fmt.Errorf("%w: serviceID is only allowed for service bookings", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.DurationMinutes != nil {
		d := *req.DurationMinutes
		if d < domain.MinSessionDurationMinutes || d > domain.MaxSessionDurationMinutes {
			return fmt.Errorf("%w: durationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinSessionDurationMinutes, domain.MaxSessionDurationMinutes)
		}
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(sessionDate time.Time, now time.Time, advanceBookingDays int) error {
	// Проверяем, что дата не в прошлом
	if isDateInPast(sessionDate, now) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, advanceBookingDays)

	dateOnly := time.Date(sessionDate.Year(), sessionDate.Month(), sessionDate.Day(), 0, 0, 0, 0, sessionDate.Location())

	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateNotice проверяет, что до начала сессии не меньше minBookingNoticeMinutes
func validateNotice(sessionAt time.Time, now time.Time, minBookingNoticeMinutes int) error {
	earliest := now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute)
	if sessionAt.Before(earliest) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}
	return nil
}

// countOverlappingBookings подсчитывает активные бронирования консультанта, пересекающиеся с [start, start+duration)
func countOverlappingBookings(start time.Time, durationMinutes int, bookings []*domain.Booking) int {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	count := 0
	for _, booking := range bookings {
		// Пропускаем неактивные бронирования
		if !booking.IsActive() {
			continue
		}

		bookingStart, err := eligibility.SessionDateTime(booking)
		if err != nil {
			// Если не можем вычислить время бронирования, пропускаем
			continue
		}
		bookingEnd := bookingStart.Add(time.Duration(booking.DurationMinutes) * time.Minute)

		// Строгие неравенства: сессии встык не пересекаются
		if bookingStart.Before(end) && bookingEnd.After(start) {
			count++
		}
	}

	return count
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
