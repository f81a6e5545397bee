package rating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultBooking/pkg/psqlbuilder"
)

const (
	tableRatings = "booking_ratings"

	// pqUniqueViolation код ошибки PostgreSQL unique_violation
	pqUniqueViolation = "23505"
)

// Repository хранилище отзывов по бронированиям
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория отзывов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет отзыв; на одно бронирование допускается один отзыв
func (r *Repository) Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableRatings).
		Columns("booking_id", "seeker_id", "consultant_id", "score", "comment").
		Values(rating.BookingID, rating.SeekerID, rating.ConsultantID, rating.Score, rating.Comment).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rating.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, ErrAlreadyRated
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return rating, nil
}

// Exists проверяет, есть ли отзыв на бронирование
func (r *Repository) Exists(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	rated, err := r.RatedAmong(ctx, []uuid.UUID{bookingID})
	if err != nil {
		return false, err
	}
	return rated[bookingID], nil
}

// RatedAmong возвращает множество бронирований из ids, на которые уже есть отзыв
func (r *Repository) RatedAmong(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	rated := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return rated, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	query, args, err := psqlbuilder.Select("booking_id").
		From(tableRatings).
		Where(squirrel.Eq{"booking_id": keys}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: RatedAmong - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: RatedAmong - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: RatedAmong - scan booking_id: %v", ErrScanRow, err)
		}
		rated[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: RatedAmong - rows error: %v", ErrScanRow, err)
	}

	return rated, nil
}

// AverageForConsultant средняя оценка консультанта и число отзывов
func (r *Repository) AverageForConsultant(ctx context.Context, consultantID int64) (float64, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(AVG(score), 0)", "COUNT(*)").
		From(tableRatings).
		Where(squirrel.Eq{"consultant_id": consultantID}).
		ToSql()

	if err != nil {
		return 0, 0, fmt.Errorf("%w: AverageForConsultant - build select query: %v", ErrBuildQuery, err)
	}

	var avg sql.NullFloat64
	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("%w: AverageForConsultant - scan: %v", ErrScanRow, err)
	}

	return avg.Float64, count, nil
}
