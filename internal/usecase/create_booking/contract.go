package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/integrations/profileservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// SettingsRepository интерфейс репозитория настроек консультантов
type SettingsRepository interface {
	Get(ctx context.Context, consultantID int64) (*domain.ConsultantSettings, error)
}

// ProfileServiceClient интерфейс клиента сервиса профилей
type ProfileServiceClient interface {
	GetConsultantWithGracefulDegradation(ctx context.Context, consultantID int64) (*profileservice.Consultant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
