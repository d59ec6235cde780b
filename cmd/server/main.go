package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightpath-ed/tutoring-service/internal/cache"
	"github.com/brightpath-ed/tutoring-service/internal/config"
	"github.com/brightpath-ed/tutoring-service/internal/generation"
	"github.com/brightpath-ed/tutoring-service/internal/handlers"
	"github.com/brightpath-ed/tutoring-service/internal/repositories/postgres"
	"github.com/brightpath-ed/tutoring-service/internal/services"
	"github.com/brightpath-ed/tutoring-service/internal/sessions"
	"github.com/brightpath-ed/tutoring-service/internal/utils"
	"github.com/brightpath-ed/tutoring-service/internal/validator"
	"github.com/brightpath-ed/tutoring-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	repo, err := postgres.NewRepository(db)
	if err != nil {
		logger.Error("Failed to initialize repositories", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	handlerLogger := utils.NewSlogLogger(logger)

	var remote generation.RemoteGenerator
	if cfg.OpenAIAPIKey != "" {
		gen, err := generation.NewOpenAIGenerator(generation.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.GenerationTimeout,
		})
		if err != nil {
			logger.Error("Failed to create remote generator", "error", err)
			os.Exit(1)
		}
		remote = gen
	} else {
		logger.Warn("OPENAI_API_KEY not set, tutoring falls back to template generation")
	}
	generator := generation.NewGenerator(remote, handlerLogger)

	sessionStore := sessions.NewRedisStore(redisClient, cfg.SessionTTL)

	v := validator.New()

	studentService := services.NewStudentService(repo, publisher, logger, v)
	progressService := services.NewProgressService(repo, publisher, logger, v)
	tutorService := services.NewTutorService(repo, sessionStore, generator, publisher, logger, v)
	cacheService := cache.NewRedisCache(redisClient, logger)
	analyticsService := services.NewAnalyticsService(repo, cacheService, logger)
	exportService := services.NewReportExportService(analyticsService, logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(handlerLogger))

	handlerManager := handlers.NewHandlerManager(
		studentService,
		progressService,
		tutorService,
		analyticsService,
		exportService,
		handlerLogger,
	)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting tutoring service",
			"port", cfg.Port,
			"environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
