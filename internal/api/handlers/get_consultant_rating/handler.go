package get_consultant_rating

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
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/consultants/{consultantId}/rating
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consultantID, err := strconv.ParseInt(mux.Vars(r)["consultantId"], 10, 64)
	if err != nil || consultantID <= 0 {
		h.logger.Warn("GET /consultants/{id}/rating - Invalid consultant ID: %s", mux.Vars(r)["consultantId"])
		handlers.RespondBadRequest(w, msgInvalidConsultantID)
		return
	}

	result, err := h.service.ConsultantRating(r.Context(), consultantID)
	if err != nil {
		h.logger.Error("GET /consultants/{id}/rating - Failed to get rating: consultant_id=%d, error=%v",
			consultantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /consultants/{id}/rating - Rating retrieved successfully: consultant_id=%d, count=%d",
		consultantID, result.Count)
	handlers.RespondJSON(w, http.StatusOK, result)
}
