package reschedule_booking

import (
	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings/models"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	SessionDate string `json:"sessionDate"` // "2025-10-20"
	StartTime   string `json:"startTime"`   // "14:00"
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *RescheduleBookingRequest) ToServiceRequest(actor models.Actor) *models.RescheduleBookingRequest {
	return &models.RescheduleBookingRequest{
		Actor:       actor,
		SessionDate: r.SessionDate,
		StartTime:   r.StartTime,
	}
}
