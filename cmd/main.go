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
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/EVM-AvailabilityService/internal/api/handlers/cancel_booking"
	commitHoldHandler "github.com/m04kA/EVM-AvailabilityService/internal/api/handlers/commit_hold"
	createHoldHandler "github.com/m04kA/EVM-AvailabilityService/internal/api/handlers/create_hold"
	filterServicesHandler "github.com/m04kA/EVM-AvailabilityService/internal/api/handlers/filter_services"
	getBookingHandler "github.com/m04kA/EVM-AvailabilityService/internal/api/handlers/get_booking"
	getAvailabilityHandler "github.com/m04kA/EVM-AvailabilityService/internal/api/handlers/get_service_availability"
	getSlotsHandler "github.com/m04kA/EVM-AvailabilityService/internal/api/handlers/get_slots"
	registerServiceHandler "github.com/m04kA/EVM-AvailabilityService/internal/api/handlers/register_service"
	releaseHoldHandler "github.com/m04kA/EVM-AvailabilityService/internal/api/handlers/release_hold"
	upsertSlotHandler "github.com/m04kA/EVM-AvailabilityService/internal/api/handlers/upsert_slot"
	"github.com/m04kA/EVM-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/EVM-AvailabilityService/internal/config"
	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	availabilityCache "github.com/m04kA/EVM-AvailabilityService/internal/infra/cache/availability"
	bookingsRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/bookings"
	catalogRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/catalog"
	holdsRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/holds"
	servicesRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/services"
	slotsRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/slots"
	availabilityService "github.com/m04kA/EVM-AvailabilityService/internal/service/availability"
	bookingsService "github.com/m04kA/EVM-AvailabilityService/internal/service/bookings"
	calendarService "github.com/m04kA/EVM-AvailabilityService/internal/service/calendar"
	"github.com/m04kA/EVM-AvailabilityService/internal/service/hierarchy"
	"github.com/m04kA/EVM-AvailabilityService/internal/sweeper"
	cancelBookingUC "github.com/m04kA/EVM-AvailabilityService/internal/usecase/cancel_booking"
	commitHoldUC "github.com/m04kA/EVM-AvailabilityService/internal/usecase/commit_hold"
	createHoldUC "github.com/m04kA/EVM-AvailabilityService/internal/usecase/create_hold"
	registerServiceUC "github.com/m04kA/EVM-AvailabilityService/internal/usecase/register_service"
	releaseHoldUC "github.com/m04kA/EVM-AvailabilityService/internal/usecase/release_hold"
	"github.com/m04kA/EVM-AvailabilityService/pkg/clock"
	"github.com/m04kA/EVM-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/EVM-AvailabilityService/pkg/logger"
	"github.com/m04kA/EVM-AvailabilityService/pkg/metrics"
	"github.com/m04kA/EVM-AvailabilityService/pkg/simpletxmanager"
	"github.com/m04kA/EVM-AvailabilityService/pkg/txmanager"
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

	log.Info("Starting EVM-AvailabilityService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
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

	// Применяем миграции
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect: %v", err)
	}
	if err := goose.Up(db, cfg.Database.MigrationsDir); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Database migrations applied (dir=%s)", cfg.Database.MigrationsDir)

	// Системные часы: единственный источник времени для TTL холдов
	clk := clock.NewSystem()

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	// Репозитории работают через общий executor (с метриками или без)
	var dbConn dbmetrics.DBExecutor = db
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		dbConn = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	slotRepository := slotsRepo.NewRepository(dbConn)
	holdRepository := holdsRepo.NewRepository(dbConn)
	serviceRepository := servicesRepo.NewRepository(dbConn)
	catalogRepository := catalogRepo.NewRepository(dbConn)
	bookingRepository := bookingsRepo.NewRepository(dbConn)

	// Кеш доступности: без TTL, сбрасывается явной инвалидацией
	var availCache availabilityService.Cache = availabilityCache.NewNoop()
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()

		availCache = availabilityCache.New(redisClient)
		log.Info("Availability cache enabled (redis addr=%s)", cfg.Redis.Addr)
	} else {
		log.Info("Availability cache disabled, computing per request")
	}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		serviceRepository,
		slotRepository,
		holdRepository,
		catalogRepository,
		availCache,
		clk,
		log,
	)
	calendarSvc := calendarService.NewService(
		slotRepository,
		catalogRepository,
		availabilitySvc,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		log,
	)

	// Валидатор иерархии каталога: запускается до регистрации услуг
	if cfg.Loader.ValidateOnStart {
		var hierarchyMetrics hierarchy.Metrics = hierarchy.NopMetrics{}
		if cfg.Metrics.Enabled {
			hierarchyMetrics = metricsCollector
		}

		validator := hierarchy.NewValidator(serviceRepository, catalogRepository, hierarchyMetrics, log)
		report, err := validator.Validate(context.Background())
		if err != nil {
			log.Fatal("Hierarchy validation failed: %v", err)
		}
		log.Info("Hierarchy validated: checked=%d, reassigned=%d, pruned=%d",
			report.ServicesChecked, report.ServicesReassigned, report.ProviderRefsPruned)
	}

	// TTL холдов приходят из конфигурации
	ttlSchedule := domain.HoldTTLSchedule{
		Single: time.Duration(cfg.Holds.SingleTTLMinutes) * time.Minute,
		Bundle: time.Duration(cfg.Holds.BundleTTLMinutes) * time.Minute,
	}

	var (
		createHoldMetrics    createHoldUC.Metrics    = createHoldUC.NopMetrics{}
		commitHoldMetrics    commitHoldUC.Metrics    = commitHoldUC.NopMetrics{}
		releaseHoldMetrics   releaseHoldUC.Metrics   = releaseHoldUC.NopMetrics{}
		cancelBookingMetrics cancelBookingUC.Metrics = cancelBookingUC.NopMetrics{}
		sweeperMetrics       sweeper.Metrics         = sweeper.NopMetrics{}
	)
	if cfg.Metrics.Enabled {
		createHoldMetrics = metricsCollector
		commitHoldMetrics = metricsCollector
		releaseHoldMetrics = metricsCollector
		cancelBookingMetrics = metricsCollector
		sweeperMetrics = metricsCollector
	}

	// Инициализируем use cases
	createHoldUseCase := createHoldUC.NewUseCase(
		slotRepository,
		holdRepository,
		serviceRepository,
		availabilitySvc,
		txMgr,
		clk,
		ttlSchedule,
		createHoldMetrics,
		log,
	)
	commitHoldUseCase := commitHoldUC.NewUseCase(
		holdRepository,
		slotRepository,
		bookingRepository,
		availabilitySvc,
		txMgr,
		clk,
		commitHoldMetrics,
		log,
	)
	releaseHoldUseCase := releaseHoldUC.NewUseCase(
		holdRepository,
		availabilitySvc,
		txMgr,
		clk,
		releaseHoldMetrics,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		availabilitySvc,
		txMgr,
		cancelBookingMetrics,
		log,
	)
	registerServiceUseCase := registerServiceUC.NewUseCase(
		serviceRepository,
		catalogRepository,
		availabilitySvc,
		txMgr,
		log,
	)

	// Фоновая уборка просроченных холдов
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	holdSweeper := sweeper.New(
		holdRepository,
		clk,
		time.Duration(cfg.Holds.SweepIntervalMinutes)*time.Minute,
		time.Duration(cfg.Holds.SweepGraceMinutes)*time.Minute,
		sweeperMetrics,
		log,
	)
	go holdSweeper.Run(sweepCtx)

	// Инициализируем handlers
	createHold := createHoldHandler.NewHandler(createHoldUseCase, log)
	commitHold := commitHoldHandler.NewHandler(commitHoldUseCase, log)
	releaseHold := releaseHoldHandler.NewHandler(releaseHoldUseCase, log)
	registerService := registerServiceHandler.NewHandler(registerServiceUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	filterServices := filterServicesHandler.NewHandler(availabilitySvc, log)
	upsertSlot := upsertSlotHandler.NewHandler(calendarSvc, log)
	getSlots := getSlotsHandler.NewHandler(calendarSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарь поставщика (загрузчик данных + admin-чтение занятости)
	api.HandleFunc("/providers/{providerId}/slots", getSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/slots", upsertSlot.Handle).Methods(http.MethodPut)

	// Регистрация услуги (загрузчик данных)
	api.HandleFunc("/services", registerService.Handle).Methods(http.MethodPost)

	// Проверка доступности услуги (детальная страница)
	api.HandleFunc("/services/{serviceId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Фильтрация каталога по доступности
	api.HandleFunc("/services/filter", filterServices.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Софт-холды ---
	protected.HandleFunc("/holds", createHold.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/holds/{holdId}/commit", commitHold.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/holds/{holdId}/release", releaseHold.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", cancelBooking.Handle).Methods(http.MethodDelete)

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

	// Останавливаем фоновую уборку холдов
	stopSweeper()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
