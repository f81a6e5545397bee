package cancel_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings"
	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgMissingRole        = "не указана роль пользователя (X-Actor-Role)"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgRoleNotAllowed     = "эта роль не может отменить бронирование в текущем статусе"
	msgCannotCancel       = "бронирование не может быть отменено"
	msgDeadlinePassed     = "отменить бронирование можно не позднее чем за 24 часа до начала сессии"
	msgMalformed          = "не удалось определить время сессии бронирования"
	msgConflict           = "бронирование было изменено, обновите данные и повторите попытку"
	msgInvalidReason      = "причина отмены слишком длинная"
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

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
// Тело запроса опционально
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, ok := middleware.GetActorRole(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing actor role: user_id=%d", userID)
		handlers.RespondBadRequest(w, msgMissingRole)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actor := models.Actor{UserID: userID, Role: role}
	booking, err := h.service.Cancel(r.Context(), bookingID, req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%s, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrUnauthorized):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Role not allowed: booking_id=%s, role=%s", bookingID, role)
			handlers.RespondForbidden(w, msgRoleNotAllowed)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, bookings.ErrDeadlinePassed):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cancellation deadline passed: booking_id=%s", bookingID)
			handlers.RespondUnprocessable(w, msgDeadlinePassed)

		case errors.Is(err, bookings.ErrMalformedBooking):
			h.logger.Error("PATCH /bookings/{id}/cancel - Malformed booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondUnprocessable(w, msgMalformed)

		case errors.Is(err, bookings.ErrConflict):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Concurrent update: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid input: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidReason)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%s, user_id=%d, role=%s",
		bookingID, userID, role)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
