package main

// @title Digital Profile API
// @version 1.0.0
// @description Municipal digital profile: agricultural entities (farms, fish farms, grasslands, agricultural zones, processing centers) with filtered and paginated listings, primary media, and ward demographics.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/digital-profile/docs"
	"github.com/digital-profile/internal/config"
	httpDelivery "github.com/digital-profile/internal/delivery/http"
	"github.com/digital-profile/internal/delivery/http/handler"
	"github.com/digital-profile/internal/pkg/logger"
	"github.com/digital-profile/internal/pkg/metrics"
	"github.com/digital-profile/internal/repository/cache"
	"github.com/digital-profile/internal/repository/postgres"
	redisRepo "github.com/digital-profile/internal/repository/redis"
	"github.com/digital-profile/internal/repository/storage"
	"github.com/digital-profile/internal/usecase"
	"github.com/digital-profile/internal/usecase/dto"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync() //nolint:errcheck

	log.Info("Starting Digital Profile API",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	m := metrics.New()

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, logger.Named(log, "postgres"))
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, logger.Named(log, "redis"))
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Object storage for media URLs
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	objectStorage, err := storage.NewS3Storage(ctx, &cfg.Storage, logger.Named(log, "storage"))
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// 6. Repositories
	listingRepo := postgres.NewListingRepository(db, m)
	mediaRepo := postgres.NewMediaRepository(db)
	demographicsRepo := postgres.NewDemographicsRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient, m)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), logger.Named(log, "stream"), cfg.Worker.StreamReadTimeout)

	// 7. Use cases
	hydrator := usecase.NewMediaHydrator(mediaRepo, objectStorage, cfg.Listing.PresignExpiry, m, log)
	listingUC := usecase.NewListingUseCase(
		listingRepo,
		hydrator,
		cfg.Listing.RequestTimeout,
		cfg.Listing.DefaultPageSize,
		cfg.Listing.MaxPageSize,
		log,
	)
	entityUC := usecase.NewEntityUseCase(listingRepo, streamRepo, hydrator, cfg.Listing.RequestTimeout, log)
	demographicsUC := usecase.NewDemographicsUseCase(demographicsRepo, cacheRepo, cfg.Cache.DemographicsCacheTTL, log)

	// 8. HTTP
	entityHandler := handler.NewEntityHandler(listingUC, entityUC, dto.ListDefaults{
		PageSize:    cfg.Listing.DefaultPageSize,
		MaxPageSize: cfg.Listing.MaxPageSize,
	}, log)
	demographicsHandler := handler.NewDemographicsHandler(demographicsUC, log)

	server := httpDelivery.NewServer(
		cfg,
		log,
		m,
		map[string]httpDelivery.HealthChecker{
			"postgres": db,
			"redis":    redisClient,
		},
		entityHandler,
		demographicsHandler,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped")
}
