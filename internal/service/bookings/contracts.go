package bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/lifecycle"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	lifecycle.StatusWriter

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// RatingRepository интерфейс репозитория отзывов
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error)
	Exists(ctx context.Context, bookingID uuid.UUID) (bool, error)
	RatedAmong(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	AverageForConsultant(ctx context.Context, consultantID int64) (float64, int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransitionRecorder учет исходов действий над бронированиями
type TransitionRecorder interface {
	Record(action, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
