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
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CarReservation/internal/api/gql"
	"github.com/m04kA/SMC-CarReservation/internal/api/handlers"
	createReservationHandler "github.com/m04kA/SMC-CarReservation/internal/api/handlers/create_reservation"
	deleteReservationHandler "github.com/m04kA/SMC-CarReservation/internal/api/handlers/delete_reservation"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CarReservation/internal/api/handlers/get_available_slots"
	getCurrentUserHandler "github.com/m04kA/SMC-CarReservation/internal/api/handlers/get_current_user"
	getReservationHandler "github.com/m04kA/SMC-CarReservation/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/SMC-CarReservation/internal/api/handlers/get_user_reservations"
	listReservationsHandler "github.com/m04kA/SMC-CarReservation/internal/api/handlers/list_reservations"
	loginHandler "github.com/m04kA/SMC-CarReservation/internal/api/handlers/login"
	logoutHandler "github.com/m04kA/SMC-CarReservation/internal/api/handlers/logout"
	registerHandler "github.com/m04kA/SMC-CarReservation/internal/api/handlers/register"
	updateReservationHandler "github.com/m04kA/SMC-CarReservation/internal/api/handlers/update_reservation"
	"github.com/m04kA/SMC-CarReservation/internal/api/middleware"
	"github.com/m04kA/SMC-CarReservation/internal/config"
	"github.com/m04kA/SMC-CarReservation/internal/domain"
	reservationsCache "github.com/m04kA/SMC-CarReservation/internal/infra/cache/reservations"
	"github.com/m04kA/SMC-CarReservation/internal/infra/cache/tokens"
	"github.com/m04kA/SMC-CarReservation/internal/infra/events"
	reservationRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/reservation"
	userRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/user"
	reservationsService "github.com/m04kA/SMC-CarReservation/internal/service/reservations"
	usersService "github.com/m04kA/SMC-CarReservation/internal/service/users"
	createReservationUC "github.com/m04kA/SMC-CarReservation/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/SMC-CarReservation/internal/usecase/get_available_slots"
	updateReservationUC "github.com/m04kA/SMC-CarReservation/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-CarReservation/pkg/dbmetrics"
	"github.com/m04kA/SMC-CarReservation/pkg/logger"
	"github.com/m04kA/SMC-CarReservation/pkg/metrics"
	"github.com/m04kA/SMC-CarReservation/pkg/token"
	"github.com/m04kA/SMC-CarReservation/pkg/txmanager"
)

// reservationsStore кеш бронирований дня: Redis или заглушка
type reservationsStore interface {
	Get(ctx context.Context, date time.Time) ([]*domain.Reservation, bool, error)
	Generation(ctx context.Context, date time.Time) (int64, error)
	Set(ctx context.Context, date time.Time, generation int64, reservations []*domain.Reservation) error
	Invalidate(ctx context.Context, dates ...time.Time) error
}

// eventPublisher Kafka или заглушка
type eventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
	Close() error
}

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

	log.Info("Starting SMC-CarReservation...")

	slotsConfig, err := cfg.Schedule.SlotsConfig()
	if err != nil {
		log.Fatal("Invalid schedule configuration: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var dbCollector dbmetrics.Collector
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbCollector = metricsCollector
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

	// Все запросы идут через обёртку: метрики пишутся, только если collector задан
	wrappedDB := dbmetrics.WrapWithDefault(db, dbCollector, stopMetricsCh)
	txManager := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	userRepository := userRepo.NewRepository(wrappedDB)

	// Redis: кеш бронирований дня и отозванные токены
	var (
		cache    reservationsStore     = reservationsCache.NoopCache{}
		denylist usersService.Denylist = tokens.NewMemoryDenylist()
		rdb      *redis.Client
	)
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		cache = reservationsCache.NewCache(rdb, cfg.Redis.TTL())
		denylist = tokens.NewRedisDenylist(rdb)
		log.Info("Redis cache enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL())
	}

	// Kafka: события жизненного цикла бронирований
	var publisher eventPublisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("Kafka publisher enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	tokenManager, err := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		log.Fatal("Failed to initialize token manager: %v", err)
	}

	// Инициализируем сервисы
	userSvc := usersService.NewService(userRepository, tokenManager, denylist, log)
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		cache,
		txManager,
		publisher,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		txManager,
		cache,
		publisher,
		metricsCollector,
		log,
	)
	updateReservationUseCase := updateReservationUC.NewUseCase(
		reservationRepository,
		txManager,
		cache,
		publisher,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		cache,
		slotsConfig,
		cfg.Schedule.AllowedSteps,
		log,
	)

	// GraphQL схема поверх тех же use cases и сервисов
	schema, err := gql.NewSchema(&gql.Resolvers{
		Users:             userSvc,
		Reservations:      reservationSvc,
		CreateReservation: createReservationUseCase,
		UpdateReservation: updateReservationUseCase,
		AvailableSlots:    getAvailableSlotsUseCase,
		Logger:            log,
	})
	if err != nil {
		log.Fatal("Failed to build GraphQL schema: %v", err)
	}

	// Инициализируем handlers
	register := registerHandler.NewHandler(userSvc, log)
	login := loginHandler.NewHandler(userSvc, log)
	logout := logoutHandler.NewHandler(userSvc, log)
	getCurrentUser := getCurrentUserHandler.NewHandler(userSvc, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	deleteReservation := deleteReservationHandler.NewHandler(reservationSvc, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	graphqlHandler := gql.NewHandler(schema, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	requireAuth := middleware.Auth(userSvc)
	optionalAuth := middleware.OptionalAuth(userSvc)

	// ============================================================
	// AUTH ROUTES
	// ============================================================

	auth := r.PathPrefix("/api").Subrouter()

	credentials := auth.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		credentials.Use(limiter.Middleware)
		log.Info("Rate limit enabled for auth routes (rpm=%d, burst=%d)",
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	credentials.HandleFunc("/register", register.Handle).Methods(http.MethodPost)
	credentials.HandleFunc("/login", login.Handle).Methods(http.MethodPost)

	auth.Handle("/logout", requireAuth(http.HandlerFunc(logout.Handle))).Methods(http.MethodDelete)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/by_date/{date}", listReservations.HandleByDate).Methods(http.MethodGet)

	// Слоты доступны анонимно; excludeId работает только с токеном владельца
	api.Handle("/available-slots", optionalAuth(http.HandlerFunc(getAvailableSlots.Handle))).Methods(http.MethodGet)
	r.Handle("/graphql", optionalAuth(http.HandlerFunc(graphqlHandler.Handle))).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют Authorization: Bearer <token>)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(requireAuth)

	protected.HandleFunc("/user", getCurrentUser.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/mine", getUserReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id:[0-9]+}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id:[0-9]+}", updateReservation.Handle).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/reservations/{id:[0-9]+}", deleteReservation.Handle).Methods(http.MethodDelete)

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

	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher: %v", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
