package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultBooking/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ConsultBooking/internal/usecase/create_booking"
)

const (
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты сессии, ожидается YYYY-MM-DD"
	msgInvalidTime           = "некорректный формат времени начала, ожидается HH:MM"
	msgConsultantNotFound    = "консультант не найден"
	msgConsultantInactive    = "консультант не принимает бронирования"
	msgServiceNotOffered     = "консультант не оказывает эту услугу"
	msgSelfBooking           = "нельзя забронировать сессию у самого себя"
	msgInvalidAmount         = "некорректные суммы: предоплата и остаток должны составлять полную стоимость"
	msgInvalidBookingDate    = "некорректная дата бронирования"
	msgDateTooFar            = "дата бронирования слишком далеко в будущем"
	msgTooLateToBook         = "слишком поздно для бронирования на это время"
	msgSlotNotAvailable      = "консультант занят в выбранное время"
	msgInvalidBookingRequest = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Бронирование создает соискатель, его ID берется из X-User-ID
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	seekerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(seekerID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Consultant busy: seeker_id=%d, consultant_id=%d", seekerID, req.ConsultantID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrConsultantNotFound):
			h.logger.Warn("POST /bookings - Consultant not found: consultant_id=%d", req.ConsultantID)
			handlers.RespondNotFound(w, msgConsultantNotFound)

		case errors.Is(err, createBooking.ErrConsultantInactive):
			h.logger.Warn("POST /bookings - Consultant inactive: consultant_id=%d", req.ConsultantID)
			handlers.RespondUnprocessable(w, msgConsultantInactive)

		case errors.Is(err, createBooking.ErrServiceNotOffered):
			h.logger.Warn("POST /bookings - Service not offered: consultant_id=%d, service_id=%v", req.ConsultantID, req.ServiceID)
			handlers.RespondUnprocessable(w, msgServiceNotOffered)

		case errors.Is(err, createBooking.ErrSelfBooking):
			h.logger.Warn("POST /bookings - Self booking attempt: user_id=%d", seekerID)
			handlers.RespondBadRequest(w, msgSelfBooking)

		case errors.Is(err, createBooking.ErrInvalidAmount):
			h.logger.Warn("POST /bookings - Invalid amounts: seeker_id=%d, error=%v", seekerID, err)
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: seeker_id=%d, consultant_id=%d", seekerID, req.ConsultantID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: seeker_id=%d, consultant_id=%d", seekerID, req.ConsultantID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: seeker_id=%d, consultant_id=%d", seekerID, req.ConsultantID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: seeker_id=%d, error=%v", seekerID, err)
			handlers.RespondBadRequest(w, msgInvalidBookingRequest)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: seeker_id=%d, consultant_id=%d, error=%v",
				seekerID, req.ConsultantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, seeker_id=%d, consultant_id=%d",
		result.ID, seekerID, req.ConsultantID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
