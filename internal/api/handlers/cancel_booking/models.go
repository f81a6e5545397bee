package cancel_booking

import (
	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(actor models.Actor) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		Actor:              actor,
		CancellationReason: r.CancellationReason,
	}
}
