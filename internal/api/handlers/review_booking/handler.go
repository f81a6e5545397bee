package review_booking

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
	msgRoleNotAllowed     = "оставить отзыв может только соискатель"
	msgNotCompleted       = "отзыв можно оставить только о завершенной сессии"
	msgAlreadyReviewed    = "отзыв по этому бронированию уже оставлен"
	msgInvalidReview      = "оценка должна быть от 1 до 5, комментарий не длиннее 1000 символов"
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

// Handle POST /api/v1/bookings/{bookingId}/review
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/review - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/review - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, ok := middleware.GetActorRole(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/review - Missing actor role: user_id=%d", userID)
		handlers.RespondBadRequest(w, msgMissingRole)
		return
	}

	var req ReviewBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/review - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actor := models.Actor{UserID: userID, Role: role}
	review, err := h.service.Review(r.Context(), bookingID, req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/review - Invalid review: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidReview)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/review - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/review - Access denied: booking_id=%s, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrUnauthorized):
			h.logger.Warn("POST /bookings/{id}/review - Role not allowed: booking_id=%s, role=%s", bookingID, role)
			handlers.RespondForbidden(w, msgRoleNotAllowed)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("POST /bookings/{id}/review - Booking not completed: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgNotCompleted)

		case errors.Is(err, bookings.ErrAlreadyReviewed):
			h.logger.Warn("POST /bookings/{id}/review - Already reviewed: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgAlreadyReviewed)

		default:
			h.logger.Error("POST /bookings/{id}/review - Failed to save review: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/review - Review saved successfully: booking_id=%s, score=%d",
		bookingID, review.Score)
	handlers.RespondJSON(w, http.StatusCreated, review)
}
