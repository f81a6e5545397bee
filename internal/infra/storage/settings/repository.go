package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultBooking/pkg/psqlbuilder"
)

const tableSettings = "consultant_settings"

// Repository репозиторий настроек бронирования консультантов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки консультанта
func (r *Repository) Get(ctx context.Context, consultantID int64) (*domain.ConsultantSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"consultant_id",
		"min_booking_notice_minutes",
		"advance_booking_days",
		"default_duration_minutes",
		"created_at",
		"updated_at",
	).
		From(tableSettings).
		Where(squirrel.Eq{"consultant_id": consultantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.ConsultantSettings
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ConsultantID,
		&s.MinBookingNoticeMinutes,
		&s.AdvanceBookingDays,
		&s.DefaultDurationMinutes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// Upsert создает или обновляет настройки консультанта
func (r *Repository) Upsert(ctx context.Context, s *domain.ConsultantSettings) (*domain.ConsultantSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableSettings).
		Columns(
			"consultant_id",
			"min_booking_notice_minutes",
			"advance_booking_days",
			"default_duration_minutes",
		).
		Values(
			s.ConsultantID,
			s.MinBookingNoticeMinutes,
			s.AdvanceBookingDays,
			s.DefaultDurationMinutes,
		).
		Suffix(`ON CONFLICT (consultant_id) DO UPDATE SET
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			default_duration_minutes = EXCLUDED.default_duration_minutes,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}
