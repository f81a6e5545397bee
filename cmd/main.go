package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/get_booking"
	getConsultantRatingHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/get_consultant_rating"
	getSettingsHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/get_settings"
	listBookingsHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/list_bookings"
	rescheduleBookingHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/reschedule_booking"
	reviewBookingHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/review_booking"
	updateSettingsHandler "github.com/m04kA/SMC-ConsultBooking/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-ConsultBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultBooking/internal/config"
	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	profileServiceClient "github.com/m04kA/SMC-ConsultBooking/internal/integrations/profileservice"
	bookingsService "github.com/m04kA/SMC-ConsultBooking/internal/service/bookings"
	settingsService "github.com/m04kA/SMC-ConsultBooking/internal/service/settings"
	createBookingUC "github.com/m04kA/SMC-ConsultBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-ConsultBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ConsultBooking/pkg/logger"
	"github.com/m04kA/SMC-ConsultBooking/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ConsultBooking...")
	log.Info("Configuration loaded from config.toml (storage backend=%s)", cfg.Storage.Backend)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаем хранилище
	store, err := openBackend(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.closer.Close()

	// Инициализируем интеграционных клиентов
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProfileService=%s timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		store.bookings,
		store.ratings,
		store.txMgr,
		metrics.NewTransitionRecorder(metricsCollector),
		log,
	)
	settingsSvc := settingsService.NewService(store.settings, store.txMgr, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store.bookings,
		store.settings,
		profileClient,
		store.txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.bookings,
		store.settings,
		profileClient,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listSeekerBookings := listBookingsHandler.NewHandler(bookingSvc, domain.RoleSeeker, log)
	listConsultantBookings := listBookingsHandler.NewHandler(bookingSvc, domain.RoleConsultant, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(bookingSvc, log)
	reviewBooking := reviewBookingHandler.NewHandler(bookingSvc, log)
	getConsultantRating := getConsultantRatingHandler.NewHandler(bookingSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/consultants/{consultantId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/consultants/{consultantId}/settings", getSettings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/consultants/{consultantId}/rating", getConsultantRating.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID, для действий с бронированием еще X-Actor-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/review", reviewBooking.Handle).Methods(http.MethodPost)

	// --- Списки бронирований сторон ---
	protected.HandleFunc("/seekers/{userId}/bookings", listSeekerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/consultants/{userId}/bookings", listConsultantBookings.Handle).Methods(http.MethodGet)

	// --- Настройки консультанта ---
	protected.HandleFunc("/consultants/{consultantId}/settings", updateSettings.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
