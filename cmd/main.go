package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	blocksHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/blocks"
	cancelReservationHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_reservation"
	getAccountSettingsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_account_settings"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_available_slots"
	getReservationHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_reservation"
	listReservationsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/list_reservations"
	updateAccountSettingsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_account_settings"
	updateReservationStatusHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_reservation_status"
	workingHoursHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/working_hours"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	accountRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/account"
	catalogRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/client"
	reservationRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/reservation"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/mailer"
	accountsService "github.com/m04kA/SMC-AvailabilityService/internal/service/accounts"
	clientsService "github.com/m04kA/SMC-AvailabilityService/internal/service/clients"
	reservationsService "github.com/m04kA/SMC-AvailabilityService/internal/service/reservations"
	scheduleService "github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	createReservationUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию (путь можно переопределить через CONFIG_PATH)
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

	log.Info("Starting SMC-AvailabilityService...")

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		dbObserver       dbmetrics.Observer
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbObserver = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик observer == nil и обёртка только пробрасывает вызовы
	wrappedDB := dbmetrics.WrapWithDefault(db, dbObserver, stopMetricsCh)
	txManager := txmanager.NewTransactionManager(wrappedDB, cfg.Booking.TxMaxRetries)

	// Инициализируем репозитории
	accountRepository := accountRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)

	// Письма с подтверждением
	smtpSender := mailer.NewSMTPSender(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		time.Duration(cfg.SMTP.Timeout)*time.Second,
	)
	mailClient := mailer.NewClient(smtpSender, cfg.SMTP.Enabled, log)
	log.Info("Mailer initialized (enabled=%t, host=%s:%d)", cfg.SMTP.Enabled, cfg.SMTP.Host, cfg.SMTP.Port)

	defaultLocation := cfg.Booking.DefaultLocation()

	// Инициализируем сервисы
	clientSvc := clientsService.NewService(clientRepository, log)
	reservationSvc := reservationsService.NewService(reservationRepository, accountRepository, txManager, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, catalogRepository, log)
	accountSvc := accountsService.NewService(accountRepository, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		accountRepository,
		catalogRepository,
		scheduleRepository,
		reservationRepository,
		metricsCollector,
		defaultLocation,
		log,
	)

	createReservationUseCase := createReservationUC.NewUseCase(
		accountRepository,
		catalogRepository,
		scheduleRepository,
		reservationRepository,
		clientSvc,
		mailClient,
		txManager,
		metricsCollector,
		defaultLocation,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	workingHours := workingHoursHandler.NewHandler(scheduleSvc, log)
	blocks := blocksHandler.NewHandler(scheduleSvc, log)
	getAccountSettings := getAccountSettingsHandler.NewHandler(accountSvc, log)
	updateAccountSettings := updateAccountSettingsHandler.NewHandler(accountSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1/accounts/{accountId}").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, с ограничением частоты)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustedProxies, log)
		if err != nil {
			log.Fatal("Failed to configure rate limiter: %v", err)
		}
		public.Use(limiter.Middleware)
		log.Info("Rate limiting enabled for public routes (rps=%.2f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Свободные слоты специалиста на дату
	public.HandleFunc("/professionals/{professionalId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования клиентом
	public.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Account-ID == {accountId})
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/status", updateReservationStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// --- Рабочие часы ---
	protected.HandleFunc("/professionals/{professionalId}/working-hours", workingHours.List).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{professionalId}/working-hours", workingHours.Create).Methods(http.MethodPost)
	protected.HandleFunc("/professionals/{professionalId}/working-hours/{intervalId}", workingHours.Delete).Methods(http.MethodDelete)

	// --- Блокировки ---
	protected.HandleFunc("/professionals/{professionalId}/blocks", blocks.List).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{professionalId}/blocks", blocks.Create).Methods(http.MethodPost)
	protected.HandleFunc("/professionals/{professionalId}/blocks/{blockId}", blocks.Delete).Methods(http.MethodDelete)

	// --- Настройки аккаунта ---
	protected.HandleFunc("/settings", getAccountSettings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/settings", updateAccountSettings.Handle).Methods(http.MethodPut)

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

	// Ожидаем сигнал завершения
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
