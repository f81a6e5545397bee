package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

const tableBookings = "bookings"

var bookingColumns = []string{
	"id",
	"kind",
	"seeker_id",
	"consultant_id",
	"service_id",
	"session_date",
	"start_time",
	"duration_minutes",
	"status",
	"total_amount",
	"advance_amount",
	"remaining_amount",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"cancelled_by",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	// В колонке session_date тип DATE: храним только календарную дату
	booking.SessionDate = domain.CalendarDate(booking.SessionDate)

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"id",
			"kind",
			"seeker_id",
			"consultant_id",
			"service_id",
			"session_date",
			"start_time",
			"duration_minutes",
			"status",
			"total_amount",
			"advance_amount",
			"remaining_amount",
			"notes",
		).
		Values(
			booking.ID,
			booking.Kind,
			booking.SeekerID,
			booking.ConsultantID,
			booking.ServiceID,
			booking.SessionDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.DurationMinutes,
			booking.Status,
			booking.TotalAmount,
			booking.AdvanceAmount,
			booking.RemainingAmount,
			booking.Notes,
		).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.Version,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования стороны (соискателя или консультанта)
// Сортировка: ближайшие сессии первыми
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		OrderBy("session_date ASC", "start_time ASC")

	if filter.SeekerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"seeker_id": *filter.SeekerID})
	}
	if filter.ConsultantID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"consultant_id": *filter.ConsultantID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Kind != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"kind": *filter.Kind})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatus обновляет статус бронирования, если версия совпадает с ожидаемой
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.Status) error {
	builder := psqlbuilder.Update(tableBookings).
		Set("status", status)

	return r.updateVersioned(ctx, "UpdateStatus", builder, id, expectedVersion)
}

// Cancel отменяет бронирование с указанием причины и стороны, выполнившей отмену
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, expectedVersion int64, by domain.ActorRole, reason *string, at time.Time) error {
	builder := psqlbuilder.Update(tableBookings).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_by", by).
		Set("cancelled_at", at)

	return r.updateVersioned(ctx, "Cancel", builder, id, expectedVersion)
}

// Reschedule переносит сессию на новую дату и время
func (r *Repository) Reschedule(ctx context.Context, id uuid.UUID, expectedVersion int64, sessionDate time.Time, startTime types.TimeString) error {
	builder := psqlbuilder.Update(tableBookings).
		Set("session_date", domain.CalendarDate(sessionDate).Format(domain.DateFormat)).
		Set("start_time", startTime)

	return r.updateVersioned(ctx, "Reschedule", builder, id, expectedVersion)
}

// updateVersioned выполняет UPDATE с оптимистической блокировкой по колонке version
// 0 затронутых строк: либо бронирования нет, либо его уже изменили
func (r *Repository) updateVersioned(
	ctx context.Context,
	op string,
	builder squirrel.UpdateBuilder,
	id uuid.UUID,
	expectedVersion int64,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "version": expectedVersion}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected > 0 {
		return nil
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBookingNotFound
	}
	return fmt.Errorf("%w: %s - booking id=%s, expected version=%d", ErrVersionConflict, op, id, expectedVersion)
}

func (r *Repository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(tableBookings).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - scan: %v", ErrScanRow, err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует строку в бронирование; порядок полей совпадает с bookingColumns
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.Kind,
		&booking.SeekerID,
		&booking.ConsultantID,
		&booking.ServiceID,
		&booking.SessionDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.TotalAmount,
		&booking.AdvanceAmount,
		&booking.RemainingAmount,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.CancelledBy,
		&booking.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// lib/pq отдает DATE как полночь в безымянной зоне с нулевым смещением
	booking.SessionDate = domain.CalendarDate(booking.SessionDate)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
