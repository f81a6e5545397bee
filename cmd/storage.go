package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ConsultBooking/internal/config"
	bookingRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/kvstore"
	ratingRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/rating"
	settingsRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/settings"
	bookingsService "github.com/m04kA/SMC-ConsultBooking/internal/service/bookings"
	settingsService "github.com/m04kA/SMC-ConsultBooking/internal/service/settings"
	createBookingUC "github.com/m04kA/SMC-ConsultBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ConsultBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultBooking/pkg/logger"
	"github.com/m04kA/SMC-ConsultBooking/pkg/metrics"
	"github.com/m04kA/SMC-ConsultBooking/pkg/migrator"
	"github.com/m04kA/SMC-ConsultBooking/pkg/txmanager"
)

// bookingStore объединяет возможности хранилища бронирований, нужные сервису и use case
type bookingStore interface {
	bookingsService.BookingRepository
	createBookingUC.BookingRepository
}

// txManager транзакции в объеме, нужном сервисам и use case
type txManager interface {
	createBookingUC.TransactionManager
	bookingsService.TransactionManager
	settingsService.TransactionManager
}

// backend набор хранилищ выбранного бэкенда
type backend struct {
	bookings bookingStore
	ratings  bookingsService.RatingRepository
	settings settingsService.SettingsRepository
	txMgr    txManager
	closer   io.Closer
}

// openBackend подключает хранилище, указанное в [storage] backend
func openBackend(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return openRedis(cfg, log)
	default:
		return openPostgres(cfg, m, stopCh, log)
	}
}

func openPostgres(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*backend, error) {
	if cfg.Database.AutoMigrate {
		if err := migrator.Up(cfg.Database.MigrationsPath, cfg.Database.URL()); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("Database migrations applied from %s", cfg.Database.MigrationsPath)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// С nil-метриками обёртка только прокидывает вызовы
	wrapped := dbmetrics.WrapWithDefault(db, m, stopCh)

	return &backend{
		bookings: bookingRepo.NewRepository(wrapped),
		ratings:  ratingRepo.NewRepository(wrapped),
		settings: settingsRepo.NewRepository(wrapped),
		txMgr:    txmanager.NewTransactionManager(wrapped),
		closer:   db,
	}, nil
}

func openRedis(cfg *config.Config, log *logger.Logger) (*backend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	store := kvstore.NewStore(client)

	// Конфликты записи в Redis ловит WATCH на ключе бронирования, транзакции SQL не нужны
	return &backend{
		bookings: store.Bookings(),
		ratings:  store.Ratings(),
		settings: store.Settings(),
		txMgr:    txmanager.NoopManager{},
		closer:   client,
	}, nil
}
