package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/aidar/nexus-api/internal/config"
	"github.com/aidar/nexus-api/internal/handler"
	"github.com/aidar/nexus-api/internal/logger"
	"github.com/aidar/nexus-api/internal/realtime"
	"github.com/aidar/nexus-api/internal/repository/postgres"
	"github.com/aidar/nexus-api/internal/service"
	"github.com/aidar/nexus-api/migrations"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config     *config.Config
	db         *pgxpool.Pool
	redis      *redis.Client
	server     *http.Server
	logger     *slog.Logger
	dispatcher *service.Dispatcher

	stopWorkers context.CancelFunc
	workers     sync.WaitGroup
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат, текст в development)
	log := logger.New(cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(log)

	app := &App{
		config: cfg,
		logger: log,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Подключаемся к базе данных
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Применяем схему при старте, если включено
	if a.config.Database.AutoMigrate {
		if err := migrations.Up(ctx, a.db); err != nil {
			return err
		}
		a.logger.Info("Database schema applied")
	}

	// Redis нужен только для realtime уведомлений
	if a.config.Redis.Enabled() {
		if err := a.connectRedis(ctx); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	// Настраиваем HTTP сервер и роутинг
	a.setupServer()

	a.logger.Info("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

// connectRedis подключается к Redis для публикации уведомлений
func (a *App) connectRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     a.config.Redis.Addr,
		Password: a.config.Redis.Password,
		DB:       a.config.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return err
	}

	a.redis = client
	a.logger.Info("Connected to redis", "addr", a.config.Redis.Addr)
	return nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() {
	// Инициализируем слой репозиториев (работа с БД)
	userRepo := postgres.NewUserRepository(a.db)
	projectRepo := postgres.NewProjectRepository(a.db)
	applicationRepo := postgres.NewApplicationRepository(a.db)
	swipeRepo := postgres.NewSwipeRepository(a.db)
	notificationRepo := postgres.NewNotificationRepository(a.db)
	outboxRepo := postgres.NewOutboxRepository(a.db)

	// Realtime доставка (без Redis уведомления доступны только через почтовый ящик)
	var (
		publisher service.Publisher = realtime.NopPublisher{}
		stream    handler.NotificationStream
	)
	if a.redis != nil {
		redisPublisher := realtime.NewRedisPublisher(a.redis)
		publisher = redisPublisher
		stream = realtime.NewStream(redisPublisher, a.config.Server.AllowedOrigins, a.logger)
	}

	// Фоновая доставка уведомлений из outbox
	a.dispatcher = service.NewDispatcher(outboxRepo, publisher, service.DispatcherConfig{
		PollInterval: a.config.Notify.PollInterval,
		BatchSize:    a.config.Notify.BatchSize,
		MaxAttempts:  a.config.Notify.MaxAttempts,
	}, a.logger)

	// Инициализируем слой сервисов (бизнес-логика)
	authService := service.NewAuthService(
		userRepo,
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
	)
	userService := service.NewUserService(userRepo, swipeRepo)
	projectService := service.NewProjectService(projectRepo, userRepo)
	matchingService := service.NewMatchingService(projectRepo, applicationRepo, swipeRepo, userRepo, a.dispatcher, a.logger)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	statsService := service.NewStatsService(a.db)

	// Инициализируем HTTP обработчики и роутер
	router := handler.NewRouter(handler.RouterDeps{
		Auth:           handler.NewAuthHandler(authService),
		Users:          handler.NewUserHandler(userService),
		Projects:       handler.NewProjectHandler(projectService),
		Matching:       handler.NewMatchingHandler(matchingService),
		Notifications:  handler.NewNotificationHandler(notificationService, stream),
		Stats:          handler.NewStatsHandler(statsService),
		Tokens:         authService,
		Logger:         a.logger,
		AllowedOrigins: a.config.Server.AllowedOrigins,
		Health:         a.health,
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// health отвечает 200 если база данных доступна
func (a *App) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.Error("Health check failed", "error", err)
		handler.RespondWithJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	handler.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Handler возвращает HTTP обработчик приложения
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// StartWorkers запускает фоновую доставку уведомлений
func (a *App) StartWorkers() {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopWorkers = cancel

	a.workers.Add(1)
	go func() {
		defer a.workers.Done()
		a.dispatcher.Run(ctx)
	}()
}

// Run запускает фоновые задачи и HTTP сервер
func (a *App) Run() error {
	if a.stopWorkers == nil {
		a.StartWorkers()
	}

	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Останавливаем доставку уведомлений
	if a.stopWorkers != nil {
		a.stopWorkers()
		a.workers.Wait()
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", "error", err)
		}
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
