package settings

import (
	"context"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек консультантов
type SettingsRepository interface {
	Get(ctx context.Context, consultantID int64) (*domain.ConsultantSettings, error)
	Upsert(ctx context.Context, settings *domain.ConsultantSettings) (*domain.ConsultantSettings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
