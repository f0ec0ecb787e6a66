package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/groudina/competitions/internal/config"
	"github.com/groudina/competitions/internal/domain"
	"github.com/groudina/competitions/internal/handler"
	"github.com/groudina/competitions/internal/mapper"
	"github.com/groudina/competitions/internal/middleware"
	"github.com/groudina/competitions/internal/pin"
	"github.com/groudina/competitions/internal/repository/postgres"
	"github.com/groudina/competitions/internal/service"
	"github.com/groudina/competitions/migrations"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config *config.Config
	db     *pgxpool.Pool
	redis  *redis.Client
	server *http.Server
	logger *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Подключаемся к базе данных
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Подключаемся к Redis
	if err := a.connectRedis(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
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

// connectRedis создает клиент Redis и проверяет соединение
func (a *App) connectRedis(ctx context.Context) error {
	opts, err := redis.ParseURL(a.config.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to parse redis url: %w", err)
	}
	opts.PoolSize = a.config.Redis.PoolSize

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	a.redis = client
	a.logger.Info("Connected to redis")
	return nil
}

// Migrate применяет встроенные SQL миграции.
// Скрипты идемпотентны, поэтому повторный запуск безопасен.
func (a *App) Migrate(ctx context.Context) error {
	if a.db == nil {
		if err := a.connectDB(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	scripts, err := migrations.Up()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	for i, script := range scripts {
		// Exec без аргументов идет по simple protocol и допускает несколько выражений
		if _, err := a.db.Exec(ctx, script); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
	}

	a.logger.Info("Migrations applied", "count", len(scripts))
	return nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() {
	// Инициализируем слой репозиториев (работа с БД)
	userRepo := postgres.NewUserRepository(a.db)
	competitionRepo := postgres.NewCompetitionRepository(a.db)
	teamRepo := postgres.NewTeamRepository(a.db)

	// Генератор пинов: случайные цифры, проверка в БД и резерв в Redis
	pinGenerator := pin.NewRandomGenerator(
		pin.NewCryptoSource(),
		competitionRepo,
		pin.NewRedisStore(a.redis, a.config.Redis.PinTTL),
		pin.Config{
			Length:   a.config.Pin.Length,
			Attempts: a.config.Pin.Attempts,
		},
		a.logger,
	)

	// Инициализируем слой сервисов (бизнес-логика)
	authService := service.NewAuthService(
		userRepo,
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
		a.logger,
	)
	teamJoinService := service.NewTeamJoinService(competitionRepo, teamRepo, userRepo, a.logger)

	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(authService)
	competitionHandler := handler.NewCompetitionHandler(
		userRepo,
		competitionRepo,
		mapper.NewCompetitionMapper(),
		pinGenerator,
		teamJoinService,
		a.logger,
	)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(authService)

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = a.config.CORS.AllowedOrigins
	corsConfig.MaxAge = a.config.CORS.MaxAge

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.CORS(corsConfig))

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Публичные эндпоинты (без авторизации)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signin", authHandler.SignIn)
		r.Post("/signup", authHandler.SignUp)
	})

	// Эндпоинты соревнований (требуют JWT токен в заголовке Authorization)
	r.Route("/api/competitions", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(middleware.RequireRole(domain.RoleTeacher)).
			Post("/create", competitionHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleStudent))
			r.Post("/create_team", competitionHandler.CreateTeam)
			r.Post("/join_team", competitionHandler.JoinTeam)
			r.Post("/check_pin", competitionHandler.CheckPin)
		})
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Failed to close redis client", "error", err)
		}
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
