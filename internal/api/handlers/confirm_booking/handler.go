package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings"
	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgMissingRole       = "не указана роль пользователя (X-Actor-Role)"
	msgNotFound          = "бронирование не найдено"
	msgForbidden         = "доступ запрещен"
	msgRoleNotAllowed    = "подтвердить бронирование может только консультант"
	msgInvalidTransition = "подтвердить можно только ожидающее бронирование"
	msgConflict          = "бронирование было изменено, обновите данные и повторите попытку"
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

// Handle PATCH /api/v1/bookings/{bookingId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/confirm - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/confirm - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, ok := middleware.GetActorRole(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/confirm - Missing actor role: user_id=%d", userID)
		handlers.RespondBadRequest(w, msgMissingRole)
		return
	}

	booking, err := h.service.Confirm(r.Context(), bookingID, models.Actor{UserID: userID, Role: role})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Access denied: booking_id=%s, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrUnauthorized):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Role not allowed: booking_id=%s, role=%s", bookingID, role)
			handlers.RespondForbidden(w, msgRoleNotAllowed)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Invalid transition: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, bookings.ErrConflict):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Concurrent update: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /bookings/{id}/confirm - Failed to confirm booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/confirm - Booking confirmed successfully: booking_id=%s, user_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
