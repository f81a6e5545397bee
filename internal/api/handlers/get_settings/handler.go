package get_settings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultBooking/internal/api/handlers"
)

const (
	msgInvalidConsultantID = "некорректный ID консультанта"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/consultants/{consultantId}/settings
// Если консультант не задавал настройки, возвращаются значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consultantID, err := strconv.ParseInt(mux.Vars(r)["consultantId"], 10, 64)
	if err != nil || consultantID <= 0 {
		h.logger.Warn("GET /consultants/{id}/settings - Invalid consultant ID: %s", mux.Vars(r)["consultantId"])
		handlers.RespondBadRequest(w, msgInvalidConsultantID)
		return
	}

	result, err := h.service.Get(r.Context(), consultantID)
	if err != nil {
		h.logger.Error("GET /consultants/{id}/settings - Failed to get settings: consultant_id=%d, error=%v",
			consultantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /consultants/{id}/settings - Settings retrieved successfully: consultant_id=%d, default=%t",
		consultantID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
