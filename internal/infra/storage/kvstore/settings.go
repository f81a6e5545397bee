package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/settings"
)

// SettingsStore настройки консультантов в Redis
type SettingsStore struct {
	store *Store
}

// Get получает настройки консультанта
func (s *SettingsStore) Get(ctx context.Context, consultantID int64) (*domain.ConsultantSettings, error) {
	raw, err := s.store.client.Get(ctx, settingsKey(consultantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - get settings: %v", settingsRepo.ErrExecQuery, err)
	}

	var record settingsRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal settings: %v", settingsRepo.ErrScanRow, err)
	}

	return &domain.ConsultantSettings{
		ConsultantID:            record.ConsultantID,
		MinBookingNoticeMinutes: record.MinBookingNoticeMinutes,
		AdvanceBookingDays:      record.AdvanceBookingDays,
		DefaultDurationMinutes:  record.DefaultDurationMinutes,
		CreatedAt:               record.CreatedAt,
		UpdatedAt:               record.UpdatedAt,
	}, nil
}

// Upsert создает или обновляет настройки консультанта
func (s *SettingsStore) Upsert(ctx context.Context, settings *domain.ConsultantSettings) (*domain.ConsultantSettings, error) {
	now := s.store.now()

	createdAt := now
	existing, err := s.Get(ctx, settings.ConsultantID)
	switch {
	case err == nil:
		createdAt = existing.CreatedAt
	case !errors.Is(err, settingsRepo.ErrSettingsNotFound):
		return nil, err
	}

	data, err := json.Marshal(settingsRecord{
		ConsultantID:            settings.ConsultantID,
		MinBookingNoticeMinutes: settings.MinBookingNoticeMinutes,
		AdvanceBookingDays:      settings.AdvanceBookingDays,
		DefaultDurationMinutes:  settings.DefaultDurationMinutes,
		CreatedAt:               createdAt,
		UpdatedAt:               now,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - marshal settings: %v", settingsRepo.ErrBuildQuery, err)
	}

	if err := s.store.client.Set(ctx, settingsKey(settings.ConsultantID), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("%w: Upsert - set settings: %v", settingsRepo.ErrExecQuery, err)
	}

	settings.CreatedAt = createdAt
	settings.UpdatedAt = now
	return settings, nil
}
