package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orange-studies/portal-service/internal/auth"
	"github.com/orange-studies/portal-service/internal/cache"
	"github.com/orange-studies/portal-service/internal/config"
	"github.com/orange-studies/portal-service/internal/events"
	"github.com/orange-studies/portal-service/internal/handlers"
	"github.com/orange-studies/portal-service/internal/mailer"
	"github.com/orange-studies/portal-service/internal/repositories/postgres"
	"github.com/orange-studies/portal-service/internal/services"
	"github.com/orange-studies/portal-service/internal/storage"
	"github.com/orange-studies/portal-service/internal/utils"
	"github.com/orange-studies/portal-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	repo := postgres.NewRepository(db)

	// Cache and events degrade to no-ops when unconfigured; the portal still
	// serves requests without them.
	var cacheService cache.CacheService = cache.NoopCache{}
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", "error", err)
		} else {
			cacheService = cache.NewRedisCache(redisClient, logger)
			defer redisClient.Close()
		}
	}

	var publisher events.EventPublisher = events.NewMockEventPublisher()
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaBrokers[0] != "" {
		kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: cfg.KafkaBrokers,
			TopicName:    cfg.EventsTopic,
			Logger:       utils.ToSlogLogger(logger),
		})
		if err != nil {
			logger.Warn("kafka unavailable, events disabled", "error", err)
		} else {
			publisher = kafkaPublisher
			defer kafkaPublisher.Close()
		}
	}

	var uploader storage.Uploader = storage.NewMockUploader()
	if cfg.CloudinaryURL != "" {
		uploader, err = storage.NewCloudinaryUploader(cfg.CloudinaryURL, logger)
		if err != nil {
			logger.Error("cloudinary init failed", "error", err)
			os.Exit(1)
		}
	}

	validator := utils.NewValidator()
	tokens := auth.NewTokenManager(cfg.JWTSecret, 24*time.Hour)
	mail := mailer.NewSMTPMailer(cfg, logger)

	serviceManager := services.NewServiceManager(services.ManagerDeps{
		Repo:      repo,
		Cache:     cacheService,
		Publisher: publisher,
		Mailer:    mail,
		Uploader:  uploader,
		Tokens:    tokens,
		Validator: validator,
		Logger:    logger,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, tokens, repo, uploader, cfg, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	if err := repo.Close(); err != nil {
		logger.Warn("database close failed", "error", err)
	}
}
