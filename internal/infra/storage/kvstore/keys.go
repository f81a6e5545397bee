package kvstore

import (
	"fmt"

	"github.com/google/uuid"
)

const keyPrefix = "consultbooking:"

func bookingKey(id uuid.UUID) string {
	return fmt.Sprintf("%sbooking:%s", keyPrefix, id)
}

func seekerBookingsKey(seekerID int64) string {
	return fmt.Sprintf("%sbookings:seeker:%d", keyPrefix, seekerID)
}

func consultantBookingsKey(consultantID int64) string {
	return fmt.Sprintf("%sbookings:consultant:%d", keyPrefix, consultantID)
}

func allBookingsKey() string {
	return keyPrefix + "bookings:all"
}

func ratingKey(bookingID uuid.UUID) string {
	return fmt.Sprintf("%srating:%s", keyPrefix, bookingID)
}

func consultantRatingsKey(consultantID int64) string {
	return fmt.Sprintf("%sratings:consultant:%d", keyPrefix, consultantID)
}

func settingsKey(consultantID int64) string {
	return fmt.Sprintf("%ssettings:%d", keyPrefix, consultantID)
}
