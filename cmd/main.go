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
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers/get_booking"
	getCenterBookingsHandler "github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers/get_center_bookings"
	getCustomerBookingsHandler "github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers/get_customer_bookings"
	getCustomerCreditsHandler "github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers/get_customer_credits"
	healthHandler "github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers/health"
	purchasePackageHandler "github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers/purchase_package"
	updateStatusHandler "github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/config"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/cache"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/messaging/kafka"
	bookingRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/booking"
	checklistRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/checklist"
	creditRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/credit"
	directoryRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/directory"
	outboxRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/outbox"
	packageRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/servicepackage"
	techslotRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/techslot"
	bookingMetrics "github.com/m04kA/SMC-MaintenanceBooking/internal/metrics"
	bookingsService "github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings"
	checklistService "github.com/m04kA/SMC-MaintenanceBooking/internal/service/checklist"
	creditsService "github.com/m04kA/SMC-MaintenanceBooking/internal/service/credits"
	outboxService "github.com/m04kA/SMC-MaintenanceBooking/internal/service/outbox"
	pricingService "github.com/m04kA/SMC-MaintenanceBooking/internal/service/pricing"
	slotLedgerService "github.com/m04kA/SMC-MaintenanceBooking/internal/service/slotledger"
	createBookingUC "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/get_available_slots"
	getCustomerCreditsUC "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/get_customer_credits"
	purchasePackageUC "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/purchase_package"
	updateStatusUC "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/update_booking_status"
	"github.com/m04kA/SMC-MaintenanceBooking/migrations"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/clock"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/metrics"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/migrator"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/simpletxmanager"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/txmanager"
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

	log.Info("Starting SMC-MaintenanceBooking...")

	clk := clock.New(cfg.Location())
	log.Info("Service center timezone: %s", clk.Location())

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		businessMetrics  *bookingMetrics.BookingMetrics
		wrappedDB        *dbmetrics.DB
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		businessMetrics = bookingMetrics.NewBookingMetrics()
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных: lib/pq ("postgres") или pgx stdlib ("pgx")
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (driver=%s, host=%s, port=%d, db=%s)",
		cfg.Database.Driver, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if cfg.Database.AutoMigrate {
		migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
		applied, err := migrator.New(db, migrations.FS, ".").Up(migrateCtx)
		cancelMigrate()
		if err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Migrations applied: %d", applied)
	}

	// Redis для кэша справочников (опционально)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable, directory cache will fall back to database: %v", err)
		} else {
			log.Info("Connected to redis at %s", cfg.Redis.Addr)
		}
		cancelPing()
	}

	// Инициализируем репозитории (с метриками или без)
	var executor dbmetrics.DBExecutor = db
	var txMgr *txmanager.TransactionManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	bookingRepository := bookingRepo.NewRepository(executor)
	directoryRepository := directoryRepo.NewRepository(executor)
	techslotRepository := techslotRepo.NewRepository(executor)
	creditRepository := creditRepo.NewRepository(executor)
	packageRepository := packageRepo.NewRepository(executor)
	checklistRepository := checklistRepo.NewRepository(executor)
	outboxRepository := outboxRepo.NewRepository(executor)

	directory := cache.NewDirectoryCache(
		directoryRepository,
		redisClient,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		log,
	)

	// Инициализируем сервисы
	slotLedger := slotLedgerService.NewLedger(techslotRepository, businessMetrics, log)
	pricingResolver := pricingService.NewResolver(packageRepository, directory, clk)
	creditLedger := creditsService.NewLedger(
		creditRepository,
		packageRepository,
		businessMetrics,
		clk,
		log,
		cfg.Booking.CreditValidityDays,
	)
	checklistSeeder := checklistService.NewSeeder(checklistRepository, txMgr, businessMetrics, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		directory,
		slotLedger,
		packageRepository,
		creditLedger,
		checklistSeeder,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		directory,
		slotLedger,
		pricingResolver,
		creditLedger,
		checklistSeeder,
		outboxRepository,
		bookingSvc,
		txMgr,
		businessMetrics,
		clk,
		log,
	)

	updateStatusUseCase := updateStatusUC.NewUseCase(
		bookingRepository,
		creditLedger,
		slotLedger,
		checklistSeeder,
		outboxRepository,
		bookingSvc,
		txMgr,
		businessMetrics,
		clk,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		directory,
		slotLedger,
		clk,
		log,
		cfg.Booking.AdvanceBookingDays,
	)

	purchasePackageUseCase := purchasePackageUC.NewUseCase(
		directory,
		creditLedger,
		outboxRepository,
		txMgr,
		clk,
		log,
	)

	getCustomerCreditsUseCase := getCustomerCreditsUC.NewUseCase(creditLedger, clk, log)

	// Фоновые воркеры
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	expiryWorker := creditsService.NewExpiryWorker(
		creditLedger,
		creditsService.WithLogger(log),
		creditsService.WithInterval(time.Duration(cfg.Booking.CreditExpiryIntervalS)*time.Second),
	)
	go expiryWorker.Run(workersCtx)

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ClientID, log.Entry())
		if err != nil {
			log.Fatal("Failed to create kafka producer: %v", err)
		}
		defer producer.Close()

		worker := outboxService.NewWorker(
			outboxRepository,
			kafka.NewOutboxPublisher(producer, cfg.Kafka.Topic),
			log,
			outboxService.WithMetrics(businessMetrics),
			outboxService.WithPollInterval(cfg.Outbox.PollInterval()),
			outboxService.WithBatchSize(cfg.Outbox.BatchSize),
			outboxService.WithMaxAttempts(cfg.Outbox.MaxAttempts),
			outboxService.WithRetryBaseDelay(cfg.Outbox.RetryBaseDelay()),
		)
		go worker.Run(workersCtx)
		log.Info("Outbox worker started (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		log.Warn("Kafka disabled: outbox events stay pending until a publisher is configured")
	}

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateStatus := updateStatusHandler.NewHandler(updateStatusUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(updateStatusUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getCenterBookings := getCenterBookingsHandler.NewHandler(bookingSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	purchasePackage := purchasePackageHandler.NewHandler(purchasePackageUseCase, log)
	getCustomerCredits := getCustomerCreditsHandler.NewHandler(getCustomerCreditsUseCase, log)

	healthChecks := map[string]healthHandler.Checker{
		"postgres": healthHandler.CheckerFunc(db.PingContext),
	}
	if redisClient != nil {
		healthChecks["redis"] = healthHandler.CheckerFunc(directory.Ping)
	}
	health := healthHandler.NewHandler(healthChecks, 2*time.Second, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/centers/{centerId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)
	if cfg.RateLimit.Enabled {
		protected.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Расписание центра (для сотрудников) ---
	protected.HandleFunc("/centers/{centerId}/bookings", getCenterBookings.Handle).Methods(http.MethodGet)

	// --- Пакеты и кредиты ---
	protected.HandleFunc("/credits", purchasePackage.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/customers/{customerId}/credits", getCustomerCredits.Handle).Methods(http.MethodGet)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем воркеры и сбор метрик connection pool
	stopWorkers()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
