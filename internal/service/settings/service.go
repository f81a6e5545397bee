package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ConsultBooking/internal/service/settings/models"
)

// Service сервис настроек бронирования консультантов
type Service struct {
	repo      SettingsRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(repo SettingsRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// Get получает настройки консультанта; если они не заданы, возвращаются значения по умолчанию
func (s *Service) Get(ctx context.Context, consultantID int64) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching settings for consultant=%d", consultantID)

	settings, isDefault, err := s.load(ctx, consultantID)
	if err != nil {
		s.logger.Error("Get: repository error for consultant=%d: %v", consultantID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings, isDefault), nil
}

// Update изменяет настройки; менять их может только сам консультант
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings for consultant=%d by user=%d", req.ConsultantID, req.UserID)

	if req.Role != domain.RoleConsultant || req.UserID != req.ConsultantID {
		s.logger.Warn("Update: user=%d role=%s cannot change settings of consultant=%d", req.UserID, req.Role, req.ConsultantID)
		return nil, ErrAccessDenied
	}

	// Чтение текущих значений и запись идут в одной транзакции
	var saved *domain.ConsultantSettings
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, _, err := s.load(txCtx, req.ConsultantID)
		if err != nil {
			s.logger.Error("Update: repository error for consultant=%d: %v", req.ConsultantID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		if req.MinBookingNoticeMinutes != nil {
			current.MinBookingNoticeMinutes = *req.MinBookingNoticeMinutes
		}
		if req.AdvanceBookingDays != nil {
			current.AdvanceBookingDays = *req.AdvanceBookingDays
		}
		if req.DefaultDurationMinutes != nil {
			current.DefaultDurationMinutes = *req.DefaultDurationMinutes
		}

		if err := validate(current); err != nil {
			s.logger.Warn("Update: validation failed for consultant=%d: %v", req.ConsultantID, err)
			return err
		}

		saved, err = s.repo.Upsert(txCtx, current)
		if err != nil {
			s.logger.Error("Update: repository error for consultant=%d: %v", req.ConsultantID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("Update: transaction failed for consultant=%d: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: Update - transaction: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated settings for consultant=%d", req.ConsultantID)
	return models.FromDomainSettings(saved, false), nil
}

func (s *Service) load(ctx context.Context, consultantID int64) (*domain.ConsultantSettings, bool, error) {
	settings, err := s.repo.Get(ctx, consultantID)
	if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		return domain.DefaultConsultantSettings(consultantID), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return settings, false, nil
}

func validate(s *domain.ConsultantSettings) error {
	if s.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || s.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}
	if s.AdvanceBookingDays < domain.MinAdvanceBookingDays || s.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if s.DefaultDurationMinutes < domain.MinSessionDurationMinutes || s.DefaultDurationMinutes > domain.MaxSessionDurationMinutes {
		return fmt.Errorf("%w: defaultDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSessionDurationMinutes, domain.MaxSessionDurationMinutes)
	}
	return nil
}
