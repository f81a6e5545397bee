package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/eligibility"
	settingsRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ConsultBooking/internal/integrations/profileservice"
	"github.com/m04kA/SMC-ConsultBooking/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	settingsRepo  SettingsRepository
	profileClient ProfileServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	settingsRepo SettingsRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		settingsRepo:  settingsRepo,
		profileClient: profileClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute создает бронирование в статусе pending
// Использует сериализуемую транзакцию, чтобы две сессии консультанта не пересеклись
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: seeker=%d, consultant=%d, kind=%s, date=%s, time=%s",
		req.SeekerID, req.ConsultantID, req.Kind, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Суммы: advance + remaining == total
	remaining, err := resolveRemaining(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: amount validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 3. Проверяем консультанта; при недоступности сервиса профилей продолжаем без проверки
	consultant, err := uc.profileClient.GetConsultantWithGracefulDegradation(ctx, req.ConsultantID)
	switch {
	case err == nil:
		if !consultant.IsActive {
			uc.logger.Warn("CreateBooking: consultant id=%d is inactive", req.ConsultantID)
			return nil, ErrConsultantInactive
		}
		if req.ServiceID != nil && !consultant.OffersService(*req.ServiceID) {
			uc.logger.Warn("CreateBooking: consultant id=%d does not offer service id=%d", req.ConsultantID, *req.ServiceID)
			return nil, ErrServiceNotOffered
		}
	case errors.Is(err, profileservice.ErrConsultantNotFound):
		uc.logger.Warn("CreateBooking: consultant id=%d not found", req.ConsultantID)
		return nil, ErrConsultantNotFound
	case errors.Is(err, profileservice.ErrServiceDegraded):
		uc.logger.Warn("CreateBooking: consultant id=%d not verified, profile service degraded", req.ConsultantID)
	default:
		uc.logger.Error("CreateBooking: failed to get consultant id=%d: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: failed to get consultant: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 4. Выполняем операции с хранилищем в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Настройки консультанта (или значения по умолчанию)
		settings, err := uc.settingsRepo.Get(txCtx, req.ConsultantID)
		if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("CreateBooking: failed to get settings: %v", err)
			return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		if settings == nil {
			settings = domain.DefaultConsultantSettings(req.ConsultantID)
			uc.logger.Info("CreateBooking: using default settings for consultant=%d", req.ConsultantID)
		}

		booking := &domain.Booking{
			Kind:            req.Kind,
			SeekerID:        req.SeekerID,
			ConsultantID:    req.ConsultantID,
			ServiceID:       req.ServiceID,
			SessionDate:     domain.CalendarDate(req.Date),
			StartTime:       req.StartTime,
			DurationMinutes: settings.DefaultDurationMinutes,
			Status:          domain.StatusPending,
			TotalAmount:     req.TotalAmount,
			AdvanceAmount:   req.AdvanceAmount,
			RemainingAmount: remaining,
			Notes:           req.Notes,
		}
		if req.DurationMinutes != nil {
			booking.DurationMinutes = *req.DurationMinutes
		}

		// 4.2. Дата с учетом advanceBookingDays
		if err := validateDate(req.Date, now, settings.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return err
		}

		// 4.3. Время начала с учетом minBookingNoticeMinutes
		sessionAt, err := eligibility.SessionDateTime(booking)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := validateNotice(sessionAt, now, settings.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("CreateBooking: notice validation failed: %v", err)
			return err
		}

		// 4.4. Консультант не может вести две сессии одновременно
		existing, err := uc.bookingRepo.List(txCtx, domain.BookingFilter{ConsultantID: ptr.Ptr(req.ConsultantID)})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		if overlapping := countOverlappingBookings(sessionAt, booking.DurationMinutes, existing); overlapping > 0 {
			uc.logger.Warn("CreateBooking: consultant=%d has %d overlapping bookings at %s",
				req.ConsultantID, overlapping, sessionAt.Format("2006-01-02 15:04"))
			return ErrSlotNotAvailable
		}

		// 4.5. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)

	return &Response{
		ID:              result.ID.String(),
		Kind:            string(result.Kind),
		SeekerID:        result.SeekerID,
		ConsultantID:    result.ConsultantID,
		ServiceID:       result.ServiceID,
		SessionDate:     result.SessionDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          result.StatusLabel(),
		TotalAmount:     result.TotalAmount,
		AdvanceAmount:   result.AdvanceAmount,
		RemainingAmount: result.RemainingAmount,
		Notes:           result.Notes,
		Version:         result.Version,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// resolveRemaining возвращает остаток к оплате, проверяя инвариант сумм
func resolveRemaining(req *Request) (decimal.Decimal, error) {
	if req.RemainingAmount == nil {
		remaining, err := domain.SplitAmount(req.TotalAmount, req.AdvanceAmount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
		}
		return remaining, nil
	}

	if err := domain.ValidateAmounts(req.TotalAmount, req.AdvanceAmount, *req.RemainingAmount); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return *req.RemainingAmount, nil
}
