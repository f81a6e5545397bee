package review_booking

import (
	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings/models"
)

// ReviewBookingRequest HTTP request model
type ReviewBookingRequest struct {
	Score   int     `json:"score"` // 1..5
	Comment *string `json:"comment,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *ReviewBookingRequest) ToServiceRequest(actor models.Actor) *models.ReviewBookingRequest {
	return &models.ReviewBookingRequest{
		Actor:   actor,
		Score:   r.Score,
		Comment: r.Comment,
	}
}
