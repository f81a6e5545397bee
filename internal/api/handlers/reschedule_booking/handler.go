package reschedule_booking

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
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgMissingRole        = "не указана роль пользователя (X-Actor-Role)"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgRoleNotAllowed     = "эта роль не может перенести бронирование"
	msgCannotReschedule   = "перенести можно только ожидающее или подтвержденное бронирование"
	msgDeadlinePassed     = "перенести бронирование можно не позднее чем за 24 часа до начала сессии"
	msgInvalidSchedule    = "новое время сессии должно быть в будущем"
	msgInvalidDateTime    = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgMalformed          = "не удалось определить время сессии бронирования"
	msgConflict           = "бронирование было изменено, обновите данные и повторите попытку"
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

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, ok := middleware.GetActorRole(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Missing actor role: user_id=%d", userID)
		handlers.RespondBadRequest(w, msgMissingRole)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actor := models.Actor{UserID: userID, Role: role}
	booking, err := h.service.Reschedule(r.Context(), bookingID, req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid date or time: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidDateTime)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Access denied: booking_id=%s, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrUnauthorized):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Role not allowed: booking_id=%s, role=%s", bookingID, role)
			handlers.RespondForbidden(w, msgRoleNotAllowed)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Cannot reschedule: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, bookings.ErrDeadlinePassed):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Deadline passed: booking_id=%s", bookingID)
			handlers.RespondUnprocessable(w, msgDeadlinePassed)

		case errors.Is(err, bookings.ErrInvalidSchedule):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid new schedule: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondUnprocessable(w, msgInvalidSchedule)

		case errors.Is(err, bookings.ErrMalformedBooking):
			h.logger.Error("PATCH /bookings/{id}/reschedule - Malformed booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondUnprocessable(w, msgMalformed)

		case errors.Is(err, bookings.ErrConflict):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Concurrent update: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled successfully: booking_id=%s, date=%s, time=%s",
		bookingID, req.SessionDate, req.StartTime)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
