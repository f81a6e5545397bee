package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	SeekerID        int64              // ID соискателя (из X-User-ID)
	ConsultantID    int64              // ID консультанта
	Kind            domain.BookingKind // session или service
	ServiceID       *int64             // ID услуги (только для service)
	Date            time.Time          // Дата сессии (без времени)
	StartTime       types.TimeString   // Время начала (например, "10:00")
	DurationMinutes *int               // Длительность; по умолчанию из настроек консультанта
	TotalAmount     decimal.Decimal    // Полная стоимость
	AdvanceAmount   decimal.Decimal    // Предоплата
	RemainingAmount *decimal.Decimal   // Остаток; если не указан, вычисляется как total - advance
	Notes           *string            // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              string           // ID созданного бронирования
	Kind            string           // Вид бронирования
	SeekerID        int64            // ID соискателя
	ConsultantID    int64            // ID консультанта
	ServiceID       *int64           // ID услуги
	SessionDate     time.Time        // Дата сессии
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус в словаре вида бронирования
	TotalAmount     decimal.Decimal  // Полная стоимость
	AdvanceAmount   decimal.Decimal  // Предоплата
	RemainingAmount decimal.Decimal  // Остаток
	Notes           *string          // Заметки
	Version         int64            // Версия записи

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
