package update_settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultBooking/internal/service/settings"
)

const (
	msgInvalidConsultantID = "некорректный ID консультанта"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgMissingRole         = "не указана роль пользователя (X-Actor-Role)"
	msgForbidden           = "изменять настройки может только сам консультант"
	msgInvalidData         = "некорректные значения настроек"
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

// Handle PUT /api/v1/consultants/{consultantId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consultantID, err := strconv.ParseInt(mux.Vars(r)["consultantId"], 10, 64)
	if err != nil || consultantID <= 0 {
		h.logger.Warn("PUT /consultants/{id}/settings - Invalid consultant ID: %s", mux.Vars(r)["consultantId"])
		handlers.RespondBadRequest(w, msgInvalidConsultantID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /consultants/{id}/settings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, ok := middleware.GetActorRole(r.Context())
	if !ok {
		h.logger.Warn("PUT /consultants/{id}/settings - Missing actor role: user_id=%d", userID)
		handlers.RespondBadRequest(w, msgMissingRole)
		return
	}

	var req UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /consultants/{id}/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Сервис сам проверит, что пользователь меняет собственные настройки
	result, err := h.service.Update(r.Context(), req.ToServiceRequest(userID, role, consultantID))
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrAccessDenied):
			h.logger.Warn("PUT /consultants/{id}/settings - Access denied: consultant_id=%d, user_id=%d",
				consultantID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("PUT /consultants/{id}/settings - Invalid data: consultant_id=%d, error=%v",
				consultantID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /consultants/{id}/settings - Failed to update settings: consultant_id=%d, error=%v",
				consultantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /consultants/{id}/settings - Settings updated successfully: consultant_id=%d", consultantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
