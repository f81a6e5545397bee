package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	ratingRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/rating"
)

// RatingStore отзывы в Redis
type RatingStore struct {
	store *Store
}

// Create сохраняет отзыв; повторный отзыв на то же бронирование отклоняется
func (s *RatingStore) Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	rating.CreatedAt = s.store.now()

	data, err := json.Marshal(ratingRecord{
		BookingID:    rating.BookingID,
		SeekerID:     rating.SeekerID,
		ConsultantID: rating.ConsultantID,
		Score:        rating.Score,
		Comment:      rating.Comment,
		CreatedAt:    rating.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal rating: %v", ratingRepo.ErrBuildQuery, err)
	}

	created, err := s.store.client.SetNX(ctx, ratingKey(rating.BookingID), data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - set rating: %v", ratingRepo.ErrExecQuery, err)
	}
	if !created {
		return nil, ratingRepo.ErrAlreadyRated
	}

	if err := s.store.client.SAdd(ctx, consultantRatingsKey(rating.ConsultantID), rating.BookingID.String()).Err(); err != nil {
		return nil, fmt.Errorf("%w: Create - index rating: %v", ratingRepo.ErrExecQuery, err)
	}

	return rating, nil
}

// Exists проверяет, есть ли отзыв на бронирование
func (s *RatingStore) Exists(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	n, err := s.store.client.Exists(ctx, ratingKey(bookingID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: Exists - check rating: %v", ratingRepo.ErrExecQuery, err)
	}
	return n > 0, nil
}

// RatedAmong возвращает множество бронирований из ids, на которые уже есть отзыв
func (s *RatingStore) RatedAmong(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	rated := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return rated, nil
	}

	cmds := make([]*redis.IntCmd, len(ids))
	_, err := s.store.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.Exists(ctx, ratingKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: RatedAmong - check ratings: %v", ratingRepo.ErrExecQuery, err)
	}

	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			rated[ids[i]] = true
		}
	}
	return rated, nil
}

// AverageForConsultant средняя оценка консультанта и число отзывов
func (s *RatingStore) AverageForConsultant(ctx context.Context, consultantID int64) (float64, int, error) {
	ids, err := s.store.client.SMembers(ctx, consultantRatingsKey(consultantID)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: AverageForConsultant - read index: %v", ratingRepo.ErrExecQuery, err)
	}
	if len(ids) == 0 {
		return 0, 0, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: AverageForConsultant - parse id %q: %v", ratingRepo.ErrScanRow, id, err)
		}
		keys = append(keys, ratingKey(parsed))
	}

	values, err := s.store.client.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: AverageForConsultant - read ratings: %v", ratingRepo.ErrExecQuery, err)
	}

	var sum, count int
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var record ratingRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return 0, 0, fmt.Errorf("%w: AverageForConsultant - unmarshal rating: %v", ratingRepo.ErrScanRow, err)
		}
		sum += record.Score
		count++
	}

	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}
