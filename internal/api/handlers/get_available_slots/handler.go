package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-ConsultBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidConsultantID = "некорректный ID консультанта"
	msgMissingDate         = "дата обязательна"
	msgInvalidQuery        = "некорректные параметры: ожидается date=YYYY-MM-DD и durationMinutes числом"
	msgInvalidDuration     = "длительность должна быть от 15 до 480 минут"
	msgConsultantNotFound  = "консультант не найден"
	msgConsultantInactive  = "консультант не принимает бронирования"
	msgInvalidBookingDate  = "дата в прошлом"
	msgDateTooFar          = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/consultants/{consultantId}/available-slots
// Query params: date (required, YYYY-MM-DD), durationMinutes (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consultantID, err := strconv.ParseInt(mux.Vars(r)["consultantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /consultants/{id}/available-slots - Invalid consultant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidConsultantID)
		return
	}

	query := r.URL.Query()
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /consultants/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(consultantID, dateStr, query.Get("durationMinutes"))
	if err != nil {
		h.logger.Warn("GET /consultants/{id}/available-slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /consultants/{id}/available-slots - Invalid input: consultant_id=%d, error=%v", consultantID, err)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, getAvailableSlots.ErrConsultantNotFound):
			h.logger.Warn("GET /consultants/{id}/available-slots - Consultant not found: consultant_id=%d", consultantID)
			handlers.RespondNotFound(w, msgConsultantNotFound)

		case errors.Is(err, getAvailableSlots.ErrConsultantInactive):
			h.logger.Warn("GET /consultants/{id}/available-slots - Consultant inactive: consultant_id=%d", consultantID)
			handlers.RespondUnprocessable(w, msgConsultantInactive)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /consultants/{id}/available-slots - Date in past: consultant_id=%d, date=%s", consultantID, dateStr)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /consultants/{id}/available-slots - Date too far: consultant_id=%d, date=%s", consultantID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		default:
			h.logger.Error("GET /consultants/{id}/available-slots - Failed to get slots: consultant_id=%d, error=%v",
				consultantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /consultants/{id}/available-slots - Slots retrieved successfully: consultant_id=%d, date=%s, slots_count=%d",
		consultantID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
