package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ConsultBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	ConsultantID    int64           `json:"consultantId"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	Available bool   `json:"available"`
}

// ToUseCaseRequest создает запрос use case из параметров URL
func ToUseCaseRequest(consultantID int64, dateStr, durationStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		ConsultantID: consultantID,
		Date:         date,
	}

	if durationStr != "" {
		duration, err := strconv.Atoi(durationStr)
		if err != nil {
			return nil, err
		}
		req.DurationMinutes = &duration
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			Available: slot.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ConsultantID:    resp.ConsultantID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
