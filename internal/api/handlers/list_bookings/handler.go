package list_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings"
	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings/models"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
	msgInvalidFilter = "некорректный фильтр статуса или вида бронирования"
)

// Handler отдает бронирования пользователя в одной роли
// Регистрируется дважды: для /seekers/{userId}/bookings и /consultants/{userId}/bookings
type Handler struct {
	service BookingService
	role    domain.ActorRole
	route   string
	logger  Logger
}

func NewHandler(service BookingService, role domain.ActorRole, logger Logger) *Handler {
	return &Handler{
		service: service,
		role:    role,
		route:   "GET /" + string(role) + "s/{userId}/bookings",
		logger:  logger,
	}
}

// Handle GET /api/v1/seekers/{userId}/bookings, GET /api/v1/consultants/{userId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid user ID: %v", h.route, err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", h.route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Фильтры из query параметров (опционально)
	query := r.URL.Query()
	serviceReq := &models.ListBookingsRequest{
		Actor:   models.Actor{UserID: userID, Role: h.role},
		OwnerID: ownerID,
		Status:  optional(query.Get("status")),
		Kind:    optional(query.Get("kind")),
	}

	result, err := h.service.ListBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: owner_id=%d, user_id=%d", h.route, ownerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("%s - Invalid filter: user_id=%d, error=%v", h.route, userID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("%s - Failed to get bookings: user_id=%d, error=%v", h.route,
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Bookings retrieved successfully: user_id=%d, role=%s, count=%d", h.route,
		userID, h.role, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
