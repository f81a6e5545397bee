package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/eligibility"
	bookingRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/booking"
	ratingRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/rating"
	"github.com/m04kA/SMC-ConsultBooking/internal/lifecycle"
	"github.com/m04kA/SMC-ConsultBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

// Исходы действий для метрик
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	ratingRepo  RatingRepository
	txManager   TransactionManager
	manager     *lifecycle.Manager
	recorder    TransitionRecorder
	logger      Logger
	now         func() time.Time
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	ratingRepo RatingRepository,
	txManager TransactionManager,
	recorder TransitionRecorder,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		ratingRepo:  ratingRepo,
		txManager:   txManager,
		manager:     lifecycle.NewManager(bookingRepo),
		recorder:    recorder,
		logger:      logger,
		now:         time.Now,
	}
}

// GetByID получает бронирование по ID вместе с действиями, доступными вызывающему
// Видеть бронирование могут только его стороны
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%d role=%s", id, actor.UserID, actor.Role)

	booking, err := s.loadForActor(ctx, "GetByID", id, actor)
	if err != nil {
		return nil, err
	}

	reviewed, err := s.isReviewed(ctx, booking)
	if err != nil {
		s.logger.Error("GetByID: rating lookup failed for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - rating lookup: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return s.toResponse(booking, actor.Role, s.now(), reviewed), nil
}

// ListBookings получает бронирования пользователя в его роли (соискатель или консультант)
// Пользователь видит только собственный список
func (s *Service) ListBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListBookings: fetching bookings for user=%d role=%s, status=%v", req.OwnerID, req.Actor.Role, req.Status)

	if req.Actor.UserID != req.OwnerID {
		s.logger.Warn("ListBookings: user=%d requested bookings of user=%d", req.Actor.UserID, req.OwnerID)
		return nil, ErrAccessDenied
	}

	filter, err := toFilter(req)
	if err != nil {
		s.logger.Warn("ListBookings: invalid filter for user=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Бронирования и отметки об отзывах читаем из одного снимка
	var (
		bookings []*domain.Booking
		reviewed map[uuid.UUID]bool
	)
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		bookings, err = s.bookingRepo.List(txCtx, filter)
		if err != nil {
			s.logger.Error("ListBookings: repository error for user=%d: %v", req.OwnerID, err)
			return fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
		}

		completed := make([]uuid.UUID, 0)
		for _, b := range bookings {
			if b.Status == domain.StatusCompleted {
				completed = append(completed, b.ID)
			}
		}

		reviewed, err = s.ratingRepo.RatedAmong(txCtx, completed)
		if err != nil {
			s.logger.Error("ListBookings: rating lookup failed for user=%d: %v", req.OwnerID, err)
			return fmt.Errorf("%w: ListBookings - rating lookup: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("ListBookings: transaction failed for user=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: ListBookings - transaction: %v", ErrInternal, err)
	}

	now := s.now()
	resp := &models.BookingListResponse{
		Bookings: make([]models.BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *s.toResponse(b, req.Actor.Role, now, reviewed[b.ID]))
	}

	s.logger.Info("ListBookings: successfully fetched %d bookings for user=%d", len(bookings), req.OwnerID)
	return resp, nil
}

// Confirm подтверждает ожидающее бронирование (консультант)
func (s *Service) Confirm(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.BookingResponse, error) {
	return s.apply(ctx, domain.ActionConfirm, id, actor, func(b *domain.Booking, now time.Time) (*domain.Booking, error) {
		return s.manager.Confirm(ctx, b, actor.Role, now)
	})
}

// Complete завершает подтвержденное бронирование (консультант)
func (s *Service) Complete(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.BookingResponse, error) {
	return s.apply(ctx, domain.ActionComplete, id, actor, func(b *domain.Booking, now time.Time) (*domain.Booking, error) {
		return s.manager.Complete(ctx, b, actor.Role, now)
	})
}

// Cancel отменяет бронирование
// Соискатель может отменить не позднее чем за 24 часа до сессии,
// консультант может отклонить ожидающее бронирование в любой момент
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	reason := normalizeText(req.CancellationReason)
	if reason != nil && len([]rune(*reason)) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return s.apply(ctx, domain.ActionCancel, id, req.Actor, func(b *domain.Booking, now time.Time) (*domain.Booking, error) {
		return s.manager.Cancel(ctx, b, req.Actor.Role, reason, now)
	})
}

// Reschedule переносит сессию на новую дату и время с сохранением статуса
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *models.RescheduleBookingRequest) (*models.BookingResponse, error) {
	sessionDate, err := models.ParseSessionDate(req.SessionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid session date %q", ErrInvalidInput, req.SessionDate)
	}

	startTime, err := types.ParseTimeString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, req.StartTime)
	}

	return s.apply(ctx, domain.ActionReschedule, id, req.Actor, func(b *domain.Booking, now time.Time) (*domain.Booking, error) {
		return s.manager.Reschedule(ctx, b, req.Actor.Role, sessionDate, startTime, now)
	})
}

// Review сохраняет отзыв соискателя о завершенной сессии; один отзыв на бронирование
func (s *Service) Review(ctx context.Context, id uuid.UUID, req *models.ReviewBookingRequest) (*models.ReviewResponse, error) {
	s.logger.Info("Review: user=%d reviewing booking id=%s, score=%d", req.Actor.UserID, id, req.Score)

	if req.Score < domain.MinRatingScore || req.Score > domain.MaxRatingScore {
		return nil, fmt.Errorf("%w: score must be between %d and %d", ErrInvalidInput, domain.MinRatingScore, domain.MaxRatingScore)
	}
	comment := normalizeText(req.Comment)
	if comment != nil && len([]rune(*comment)) > domain.MaxReviewCommentLength {
		return nil, fmt.Errorf("%w: comment exceeds %d characters", ErrInvalidInput, domain.MaxReviewCommentLength)
	}

	booking, err := s.loadForActor(ctx, "Review", id, req.Actor)
	if err != nil {
		return nil, err
	}

	reviewed, err := s.ratingRepo.Exists(ctx, id)
	if err != nil {
		s.logger.Error("Review: rating lookup failed for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Review - rating lookup: %v", ErrInternal, err)
	}

	if err := lifecycle.ValidateAction(booking, domain.ActionReview, req.Actor.Role, s.now(), reviewed); err != nil {
		s.logger.Warn("Review: rejected for booking id=%s, status=%s: %v", id, booking.Status, err)
		s.record(domain.ActionReview, outcomeRejected)
		return nil, err
	}

	rating, err := s.ratingRepo.Create(ctx, &domain.Rating{
		BookingID:    booking.ID,
		SeekerID:     booking.SeekerID,
		ConsultantID: booking.ConsultantID,
		Score:        req.Score,
		Comment:      comment,
	})
	if err != nil {
		if errors.Is(err, ratingRepo.ErrAlreadyRated) {
			s.logger.Warn("Review: booking id=%s already reviewed", id)
			s.record(domain.ActionReview, outcomeConflict)
			return nil, ErrAlreadyReviewed
		}
		s.logger.Error("Review: repository error for booking id=%s: %v", id, err)
		s.record(domain.ActionReview, outcomeError)
		return nil, fmt.Errorf("%w: Review - repository error: %v", ErrInternal, err)
	}

	s.record(domain.ActionReview, outcomeSuccess)
	s.logger.Info("Review: successfully saved review for booking id=%s", id)
	return models.FromReview(rating), nil
}

// ConsultantRating возвращает среднюю оценку консультанта по отзывам соискателей
func (s *Service) ConsultantRating(ctx context.Context, consultantID int64) (*models.RatingSummaryResponse, error) {
	s.logger.Info("ConsultantRating: fetching rating for consultant=%d", consultantID)

	if consultantID <= 0 {
		return nil, fmt.Errorf("%w: consultant id must be positive", ErrInvalidInput)
	}

	avg, count, err := s.ratingRepo.AverageForConsultant(ctx, consultantID)
	if err != nil {
		s.logger.Error("ConsultantRating: repository error for consultant=%d: %v", consultantID, err)
		return nil, fmt.Errorf("%w: ConsultantRating - repository error: %v", ErrInternal, err)
	}

	return &models.RatingSummaryResponse{
		ConsultantID: consultantID,
		Average:      math.Round(avg*100) / 100,
		Count:        count,
	}, nil
}

// Вспомогательные методы

// apply загружает бронирование, проверяет доступ и выполняет переход через менеджер жизненного цикла
func (s *Service) apply(
	ctx context.Context,
	action domain.Action,
	id uuid.UUID,
	actor models.Actor,
	fn func(b *domain.Booking, now time.Time) (*domain.Booking, error),
) (*models.BookingResponse, error) {
	op := capitalize(string(action))
	s.logger.Info("%s: booking id=%s by user=%d role=%s", op, id, actor.UserID, actor.Role)

	booking, err := s.loadForActor(ctx, op, id, actor)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := fn(booking, now)
	if err != nil {
		return nil, s.mapTransitionError(op, action, booking, err)
	}

	s.record(action, outcomeSuccess)
	s.logger.Info("%s: successfully applied to booking id=%s, status=%s", op, id, updated.StatusLabel())

	return s.toResponse(updated, actor.Role, now, false), nil
}

// loadForActor получает бронирование и проверяет, что пользователь является его стороной в заявленной роли
func (s *Service) loadForActor(ctx context.Context, op string, id uuid.UUID, actor models.Actor) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if !booking.IsParty(actor.UserID, actor.Role) {
		s.logger.Warn("%s: access denied for user=%d role=%s to booking id=%s", op, actor.UserID, actor.Role, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

func (s *Service) mapTransitionError(op string, action domain.Action, b *domain.Booking, err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrUnauthorized),
		errors.Is(err, lifecycle.ErrDeadlinePassed),
		errors.Is(err, lifecycle.ErrInvalidSchedule),
		errors.Is(err, eligibility.ErrMalformedBooking):
		s.logger.Warn("%s: rejected for booking id=%s, status=%s: %v", op, b.ID, b.Status, err)
		s.record(action, outcomeRejected)
		return err

	case errors.Is(err, bookingRepo.ErrVersionConflict):
		s.logger.Warn("%s: booking id=%s changed concurrently (version=%d)", op, b.ID, b.Version)
		s.record(action, outcomeConflict)
		return fmt.Errorf("%w: %v", ErrConflict, err)

	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%s disappeared during update", op, b.ID)
		s.record(action, outcomeError)
		return ErrBookingNotFound

	default:
		s.logger.Error("%s: repository error for booking id=%s: %v", op, b.ID, err)
		s.record(action, outcomeError)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

func (s *Service) isReviewed(ctx context.Context, b *domain.Booking) (bool, error) {
	if b.Status != domain.StatusCompleted {
		return false, nil
	}
	return s.ratingRepo.Exists(ctx, b.ID)
}

func (s *Service) toResponse(b *domain.Booking, role domain.ActorRole, now time.Time, reviewed bool) *models.BookingResponse {
	actions := lifecycle.AvailableActions(b, role, now, reviewed)
	return models.FromDomainBooking(b, now, reviewed, actions)
}

func (s *Service) record(action domain.Action, outcome string) {
	if s.recorder != nil {
		s.recorder.Record(string(action), outcome)
	}
}

func toFilter(req *models.ListBookingsRequest) (domain.BookingFilter, error) {
	var filter domain.BookingFilter

	owner := req.OwnerID
	switch req.Actor.Role {
	case domain.RoleSeeker:
		filter.SeekerID = &owner
	case domain.RoleConsultant:
		filter.ConsultantID = &owner
	default:
		return filter, fmt.Errorf("unknown role %q", req.Actor.Role)
	}

	var kind domain.BookingKind
	if req.Kind != nil {
		kind = domain.BookingKind(*req.Kind)
		if !kind.Valid() {
			return filter, fmt.Errorf("unknown booking kind %q", *req.Kind)
		}
		filter.Kind = &kind
	}

	if req.Status != nil {
		status, err := domain.ParseStatus(kind, *req.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

func normalizeText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
