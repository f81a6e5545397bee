package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

// BookingStore бронирования в Redis: JSON по ключу бронирования и множества ID по сторонам
type BookingStore struct {
	store *Store
}

// Create сохраняет новое бронирование
func (s *BookingStore) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	now := s.store.now()
	booking.SessionDate = domain.CalendarDate(booking.SessionDate)
	booking.Version = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now

	data, err := json.Marshal(toBookingRecord(booking))
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal booking: %v", bookingRepo.ErrBuildQuery, err)
	}

	key := bookingKey(booking.ID)
	id := booking.ID.String()

	// Запись и индексы уходят одним MULTI/EXEC под WATCH на ключе бронирования
	err = s.store.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("%w: Create - check booking: %v", bookingRepo.ErrExecQuery, err)
		}
		if exists > 0 {
			return fmt.Errorf("%w: Create - booking id=%s already exists", bookingRepo.ErrExecQuery, booking.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, seekerBookingsKey(booking.SeekerID), id)
			pipe.SAdd(ctx, consultantBookingsKey(booking.ConsultantID), id)
			pipe.SAdd(ctx, allBookingsKey(), id)
			return nil
		})
		if err == nil || errors.Is(err, redis.TxFailedErr) {
			return err
		}

		// EXEC не откатывает уже выполненные команды: убираем то, что успело записаться
		if cleanupErr := s.discard(ctx, booking); cleanupErr != nil {
			return fmt.Errorf("%w: Create - index booking: %v; cleanup: %v", bookingRepo.ErrExecQuery, err, cleanupErr)
		}
		return fmt.Errorf("%w: Create - index booking: %v", bookingRepo.ErrExecQuery, err)
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return nil, fmt.Errorf("%w: Create - booking id=%s written concurrently", bookingRepo.ErrExecQuery, booking.ID)
	}
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// discard удаляет запись бронирования и его ID из индексов
func (s *BookingStore) discard(ctx context.Context, booking *domain.Booking) error {
	id := booking.ID.String()
	_, err := s.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, bookingKey(booking.ID))
		pipe.SRem(ctx, seekerBookingsKey(booking.SeekerID), id)
		pipe.SRem(ctx, consultantBookingsKey(booking.ConsultantID), id)
		pipe.SRem(ctx, allBookingsKey(), id)
		return nil
	})
	return err
}

// GetByID получает бронирование по ID
func (s *BookingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	record, err := getBooking(ctx, s.store.client, id)
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// List получает бронирования по фильтру, ближайшие сессии первыми
func (s *BookingStore) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	var indexKey string
	switch {
	case filter.SeekerID != nil:
		indexKey = seekerBookingsKey(*filter.SeekerID)
	case filter.ConsultantID != nil:
		indexKey = consultantBookingsKey(*filter.ConsultantID)
	default:
		indexKey = allBookingsKey()
	}

	ids, err := s.store.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: List - read index: %v", bookingRepo.ErrExecQuery, err)
	}

	bookings := make([]*domain.Booking, 0, len(ids))
	if len(ids) == 0 {
		return bookings, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("%w: List - parse id %q: %v", bookingRepo.ErrScanRow, id, err)
		}
		keys[i] = bookingKey(parsed)
	}

	values, err := s.store.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: List - read bookings: %v", bookingRepo.ErrExecQuery, err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var record bookingRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("%w: List - unmarshal booking: %v", bookingRepo.ErrScanRow, err)
		}

		booking := record.toDomain()
		if matches(booking, filter) {
			bookings = append(bookings, booking)
		}
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].SessionDate.Equal(bookings[j].SessionDate) {
			return bookings[i].SessionDate.Before(bookings[j].SessionDate)
		}
		return bookings[i].StartTime < bookings[j].StartTime
	})

	return bookings, nil
}

// UpdateStatus обновляет статус, если версия совпадает с ожидаемой
func (s *BookingStore) UpdateStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.Status) error {
	return s.updateVersioned(ctx, "UpdateStatus", id, expectedVersion, func(r *bookingRecord) {
		r.Status = status
	})
}

// Cancel отменяет бронирование с указанием причины и стороны
func (s *BookingStore) Cancel(ctx context.Context, id uuid.UUID, expectedVersion int64, by domain.ActorRole, reason *string, at time.Time) error {
	return s.updateVersioned(ctx, "Cancel", id, expectedVersion, func(r *bookingRecord) {
		r.Status = domain.StatusCancelled
		r.CancellationReason = reason
		r.CancelledBy = &by
		r.CancelledAt = &at
	})
}

// Reschedule переносит сессию на новую дату и время
func (s *BookingStore) Reschedule(ctx context.Context, id uuid.UUID, expectedVersion int64, sessionDate time.Time, startTime types.TimeString) error {
	return s.updateVersioned(ctx, "Reschedule", id, expectedVersion, func(r *bookingRecord) {
		r.SessionDate = domain.CalendarDate(sessionDate)
		r.StartTime = startTime
	})
}

// updateVersioned читает запись под WATCH, сверяет версию и записывает изменения в MULTI/EXEC.
// Если ключ изменился между чтением и записью, EXEC не выполнится и вернется конфликт версий.
func (s *BookingStore) updateVersioned(
	ctx context.Context,
	op string,
	id uuid.UUID,
	expectedVersion int64,
	mutate func(r *bookingRecord),
) error {
	key := bookingKey(id)

	err := s.store.client.Watch(ctx, func(tx *redis.Tx) error {
		record, err := getBooking(ctx, tx, id)
		if err != nil {
			return err
		}

		if record.Version != expectedVersion {
			return fmt.Errorf("%w: %s - booking id=%s, expected version=%d, actual=%d",
				bookingRepo.ErrVersionConflict, op, id, expectedVersion, record.Version)
		}

		mutate(record)
		record.Version++
		record.UpdatedAt = s.store.now()

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("%w: %s - marshal booking: %v", bookingRepo.ErrBuildQuery, op, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: %s - booking id=%s changed during update", bookingRepo.ErrVersionConflict, op, id)
	}
	return err
}

// getter клиент Redis или транзакция под WATCH
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getBooking(ctx context.Context, cmd getter, id uuid.UUID) (*bookingRecord, error) {
	raw, err := cmd.Get(ctx, bookingKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - get booking: %v", bookingRepo.ErrExecQuery, err)
	}

	var record bookingRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: GetByID - unmarshal booking: %v", bookingRepo.ErrScanRow, err)
	}
	return &record, nil
}

func matches(b *domain.Booking, filter domain.BookingFilter) bool {
	if filter.SeekerID != nil && b.SeekerID != *filter.SeekerID {
		return false
	}
	if filter.ConsultantID != nil && b.ConsultantID != *filter.ConsultantID {
		return false
	}
	if filter.Status != nil && b.Status != *filter.Status {
		return false
	}
	if filter.Kind != nil && b.Kind != *filter.Kind {
		return false
	}
	return true
}
