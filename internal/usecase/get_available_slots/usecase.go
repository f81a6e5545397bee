package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ConsultBooking/internal/integrations/profileservice"
	"github.com/m04kA/SMC-ConsultBooking/pkg/ptr"
)

// UseCase use case для получения свободного времени консультанта
type UseCase struct {
	bookingRepo   BookingRepository
	settingsRepo  SettingsRepository
	profileClient ProfileServiceClient
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	settingsRepo SettingsRepository,
	profileClient ProfileServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		settingsRepo:  settingsRepo,
		profileClient: profileClient,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute возвращает слоты в часы приема консультанта на дату
// Часы приема берутся из сервиса профилей, поэтому без него слоты не считаются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: consultant=%d, date=%s", req.ConsultantID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем консультанта вместе с расписанием приема
	consultant, err := uc.profileClient.GetConsultant(ctx, req.ConsultantID)
	if err != nil {
		if errors.Is(err, profileservice.ErrConsultantNotFound) {
			uc.logger.Warn("GetAvailableSlots: consultant id=%d not found", req.ConsultantID)
			return nil, ErrConsultantNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get consultant id=%d: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: failed to get consultant: %v", ErrInternal, err)
	}
	if !consultant.IsActive {
		uc.logger.Warn("GetAvailableSlots: consultant id=%d is inactive", req.ConsultantID)
		return nil, ErrConsultantInactive
	}

	// 3. Настройки консультанта (или значения по умолчанию)
	settings, err := uc.settingsRepo.Get(ctx, req.ConsultantID)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	if settings == nil {
		settings = domain.DefaultConsultantSettings(req.ConsultantID)
	}

	// 4. Дата с учетом advanceBookingDays
	if err := validateDate(req.Date, now, settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	duration := settings.DefaultDurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	resp := &Response{
		Date:            req.Date,
		ConsultantID:    req.ConsultantID,
		DurationMinutes: duration,
		Slots:           []Slot{},
	}

	// 5. Генерируем слоты в часы приема
	starts, err := generateTimeSlots(
		consultant.Availability.ScheduleFor(req.Date),
		duration,
		req.Date,
		now,
		settings.MinBookingNoticeMinutes,
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid schedule of consultant id=%d: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}
	if len(starts) == 0 {
		uc.logger.Info("GetAvailableSlots: no reception hours for consultant=%d on %s",
			req.ConsultantID, req.Date.Format(domain.DateFormat))
		return resp, nil
	}

	// 6. Отмечаем слоты, занятые активными бронированиями
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingFilter{ConsultantID: ptr.Ptr(req.ConsultantID)})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	resp.Slots = markAvailability(starts, duration, bookings)

	uc.logger.Info("GetAvailableSlots: generated %d slots for consultant=%d, date=%s",
		len(resp.Slots), req.ConsultantID, req.Date.Format(domain.DateFormat))

	return resp, nil
}
