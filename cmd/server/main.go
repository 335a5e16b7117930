package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/karuteens/moderation/internal/config"
	"github.com/karuteens/moderation/internal/db"
	"github.com/karuteens/moderation/internal/goroutine"
	httpHandlers "github.com/karuteens/moderation/internal/http/handlers"
	"github.com/karuteens/moderation/internal/http/middleware"
	httpRouter "github.com/karuteens/moderation/internal/http/router"
	"github.com/karuteens/moderation/internal/logger"
	"github.com/karuteens/moderation/internal/moderation"
	"github.com/karuteens/moderation/internal/repository"
	"github.com/karuteens/moderation/internal/service"
	"github.com/karuteens/moderation/internal/ws"
	"github.com/karuteens/moderation/migrations"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	var migrationsFS fs.FS = migrations.FS
	if cfg.MigrationsPath != "" {
		migrationsFS = os.DirFS(cfg.MigrationsPath)
	}
	if err := db.RunMigrations(ctx, dbConn, migrationsFS); err != nil {
		logger.Log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Redis опционален: без него счётчики лимитера живут в памяти процесса.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Log.Fatalf("main: некорректный REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Log.WithError(err).Warn("main: ошибка закрытия redis")
			}
		}()
	}
	rateLimitStore, err := middleware.NewRateLimitStore(redisClient)
	if err != nil {
		logger.Log.Fatalf("main: ошибка инициализации лимитера: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, time.Hour)
	policy := service.NewAllowListPolicy(cfg.AdminUserID, cfg.AdminEmail)

	// Репозитории.
	flagRepo := repository.NewAutoFlagRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)
	appealRepo := repository.NewAppealRepository(dbConn)
	actionRepo := repository.NewEnforcementActionRepository(dbConn)
	logRepo := repository.NewModerationLogRepository(dbConn)
	contentRepo := repository.NewContentRepository(dbConn)

	// Лента модераторов.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, "ws-hub", hub.Run)

	// Сервисы.
	scanner := moderation.NewKeywordScanner(moderation.WithThreshold(cfg.ScanThreshold))
	flagService := service.NewFlagService(flagRepo, logRepo, hub)
	scanService := service.NewScanService(scanner, flagService)
	moderationService := service.NewModerationService(policy, reportRepo, appealRepo, actionRepo, flagRepo, logRepo)

	// Проверки доживают до Shutdown, а не до сигнала.
	dispatcher := service.NewScanDispatcher(scanService, cfg.ScanWorkers, cfg.ScanQueueSize)
	dispatcher.Start(context.Background())

	// HTTP хэндлеры и роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Scan:        httpHandlers.NewScanHandler(scanService, scanner.Threshold(), scanner.FlagTypes()),
		AutoFlags:   httpHandlers.NewAutoFlagHandler(moderationService, flagService),
		Reports:     httpHandlers.NewReportHandler(moderationService),
		Enforcement: httpHandlers.NewEnforcementHandler(moderationService),
		Appeals:     httpHandlers.NewAppealHandler(moderationService),
		Content:     httpHandlers.NewContentHandler(contentRepo),
		Feed:        httpHandlers.NewFeedHandler(hub, tokenManager, policy, cfg.AllowedOrigins),
		Health:      httpHandlers.NewHealthHandler(dbConn, redisClient),
	}, httpRouter.Deps{
		Tokens:         tokenManager,
		Policy:         policy,
		ScanQueue:      dispatcher,
		RateLimitStore: rateLimitStore,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
		// Новые задачи больше не приходят, дорабатываем очередь сканирования.
		if err := dispatcher.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("main: очередь сканирования не успела опустеть")
		}
	}()

	logger.Log.Infof("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
	<-stopped
	logger.Log.Info("main: сервер остановлен")
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
