package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

// Request модель запроса свободного времени консультанта
type Request struct {
	ConsultantID    int64     // ID консультанта
	Date            time.Time // Дата (без времени)
	DurationMinutes *int      // Длительность сессии; по умолчанию из настроек консультанта
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time // Запрошенная дата
	ConsultantID    int64     // ID консультанта
	DurationMinutes int       // Длительность, для которой считались слоты
	Slots           []Slot    // Слоты в часы приема
}

// Slot время начала сессии в часы приема
type Slot struct {
	StartTime types.TimeString // Время начала (например, "10:00")
	Available bool             // false, если пересекается с активным бронированием
}
