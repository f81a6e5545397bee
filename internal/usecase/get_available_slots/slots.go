package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/eligibility"
	"github.com/m04kA/SMC-ConsultBooking/internal/integrations/profileservice"
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

// generateTimeSlots генерирует начала сессий в часы приема с шагом duration
// Слоты, начинающиеся раньше now + minBookingNoticeMinutes, отбрасываются
func generateTimeSlots(
	schedule profileservice.DaySchedule,
	duration int,
	date time.Time,
	now time.Time,
	minBookingNoticeMinutes int,
) ([]time.Time, error) {
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return []time.Time{}, nil
	}
	if duration <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", duration)
	}

	openTime, err := types.ParseTimeString(*schedule.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("open time: %w", err)
	}
	closeTime, err := types.ParseTimeString(*schedule.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("close time: %w", err)
	}

	dayStart, err := openTime.On(date)
	if err != nil {
		return nil, err
	}
	dayEnd, err := closeTime.On(date)
	if err != nil {
		return nil, err
	}

	step := time.Duration(duration) * time.Minute
	earliest := now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute)

	slots := make([]time.Time, 0)
	for start := dayStart; !start.Add(step).After(dayEnd); start = start.Add(step) {
		if start.Before(earliest) {
			continue
		}
		slots = append(slots, start)
	}

	return slots, nil
}

// markAvailability помечает слоты, пересекающиеся с активными бронированиями консультанта
func markAvailability(starts []time.Time, duration int, bookings []*domain.Booking) []Slot {
	result := make([]Slot, len(starts))

	for i, start := range starts {
		result[i] = Slot{
			StartTime: types.NewTimeString(start),
			Available: !overlapsAny(start, duration, bookings),
		}
	}

	return result
}

// overlapsAny проверяет пересечение [start, start+duration) с активными бронированиями
// Сессии встык не пересекаются: 11:00-11:30 и 11:30-12:00 совместимы
func overlapsAny(start time.Time, duration int, bookings []*domain.Booking) bool {
	end := start.Add(time.Duration(duration) * time.Minute)

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}

		bookingStart, err := eligibility.SessionDateTime(booking)
		if err != nil {
			continue
		}
		bookingEnd := bookingStart.Add(time.Duration(booking.DurationMinutes) * time.Minute)

		if bookingStart.Before(end) && bookingEnd.After(start) {
			return true
		}
	}

	return false
}
