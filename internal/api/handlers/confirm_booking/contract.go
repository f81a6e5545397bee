package confirm_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings/models"
)

type BookingService interface {
	Confirm(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
