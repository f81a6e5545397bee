package kvstore

import (
	"time"

	"github.com/go-redis/redis/v8"
)

// Store хранилище бронирований, отзывов и настроек в Redis.
// Реализует те же контракты, что и PostgreSQL-репозитории, и возвращает их sentinel-ошибки.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// NewStore создает хранилище поверх клиента Redis
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		now:    time.Now,
	}
}

// Bookings хранилище бронирований
func (s *Store) Bookings() *BookingStore {
	return &BookingStore{store: s}
}

// Ratings хранилище отзывов
func (s *Store) Ratings() *RatingStore {
	return &RatingStore{store: s}
}

// Settings хранилище настроек консультантов
func (s *Store) Settings() *SettingsStore {
	return &SettingsStore{store: s}
}
