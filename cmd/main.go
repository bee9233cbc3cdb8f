package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Piyushgeek-gupta/Code-Alchemists/cache"
	"github.com/Piyushgeek-gupta/Code-Alchemists/config"
	"github.com/Piyushgeek-gupta/Code-Alchemists/db"
	"github.com/Piyushgeek-gupta/Code-Alchemists/handlers"
	"github.com/Piyushgeek-gupta/Code-Alchemists/live"
	"github.com/Piyushgeek-gupta/Code-Alchemists/middleware"
	"github.com/Piyushgeek-gupta/Code-Alchemists/repositories"
	api "github.com/Piyushgeek-gupta/Code-Alchemists/routes"
	"github.com/Piyushgeek-gupta/Code-Alchemists/services"
	"github.com/Piyushgeek-gupta/Code-Alchemists/storage"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const schedulerInterval = 30 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных и миграции
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(context.Background(), dbConn); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	// Кеш таблицы результатов. Без REDIS_ADDR сервис работает напрямую с базой.
	var leaderboardCache *cache.LeaderboardCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unavailable, leaderboard cache disabled", slog.Any("error", err))
		} else {
			leaderboardCache = cache.NewLeaderboardCache(redisClient, time.Minute)
			logger.Info("leaderboard cache initialized", slog.String("addr", cfg.RedisAddr))
		}
	}

	// Загрузчик вложений (Cloudflare R2). Опционален.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 not configured, question attachments disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := live.NewHub()
	go wsHub.Run()

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	submissionRepo := repositories.NewPostgresSubmissionRepository(dbConn)
	questionRepo := repositories.NewPostgresQuestionRepository(dbConn)
	contestRepo := repositories.NewPostgresContestRepository(dbConn)
	announcementRepo := repositories.NewPostgresAnnouncementRepository(dbConn)
	auditRepo := repositories.NewPostgresAuditLogRepository(dbConn)

	// Инициализация сервисов
	leaderboardService := services.NewLeaderboardService(participantRepo, leaderboardCache, wsHub, logger)
	scoringService := services.NewScoringService(
		participantRepo,
		submissionRepo,
		profileRepo,
		auditRepo,
		leaderboardService,
		logger,
		cfg.LogDuplicateAttempts,
	)
	participantService := services.NewParticipantService(participantRepo, profileRepo, userRepo, leaderboardService, logger)
	authService := services.NewAuthService(userRepo, profileRepo)
	contestService := services.NewContestService(contestRepo, logger)
	questionService := services.NewQuestionService(questionRepo, uploader)
	announcementService := services.NewAnnouncementService(announcementRepo)
	dashboardService := services.NewDashboardService(participantRepo, submissionRepo, questionRepo, contestRepo)
	auditService := services.NewAuditService(auditRepo, submissionRepo)
	logger.Info("services initialized")

	// Планировщик статусов конкурсов: scheduled -> active -> completed по датам.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("contest status scheduler started", slog.Duration("interval", schedulerInterval))

		if err := contestService.AutoUpdateContestStatusesByDates(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := contestService.AutoUpdateContestStatusesByDates(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	// Инициализация обработчиков HTTP
	auth := middleware.NewAuth(cfg.JWTSecretKey)
	router := api.SetupRoutes(api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Scoring:      handlers.NewScoringHandler(scoringService),
		Participant:  handlers.NewParticipantHandler(participantService),
		Question:     handlers.NewQuestionHandler(questionService),
		Contest:      handlers.NewContestHandler(contestService),
		Announcement: handlers.NewAnnouncementHandler(announcementService),
		Leaderboard:  handlers.NewLeaderboardHandler(leaderboardService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService, auditService),
		WebSocket:    handlers.NewWebSocketHandler(wsHub),
	}, auth, cfg.CORSAllowedOrigins)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
