package get_consultant_rating

import (
	"context"

	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings/models"
)

type BookingService interface {
	ConsultantRating(ctx context.Context, consultantID int64) (*models.RatingSummaryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
