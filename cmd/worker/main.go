package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/digital-profile/internal/config"
	"github.com/digital-profile/internal/pkg/logger"
	"github.com/digital-profile/internal/pkg/metrics"
	"github.com/digital-profile/internal/repository/cache"
	"github.com/digital-profile/internal/repository/postgres"
	redisRepo "github.com/digital-profile/internal/repository/redis"
	"github.com/digital-profile/internal/repository/storage"
	"github.com/digital-profile/internal/worker"
	"github.com/digital-profile/internal/worker/media"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync() //nolint:errcheck

	log.Info("Starting media cleanup worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Int("concurrency", cfg.Worker.Concurrency))

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

	// 5. Object storage
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	objectStorage, err := storage.NewS3Storage(initCtx, &cfg.Storage, logger.Named(log, "storage"))
	initCancel()
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// 6. Workers
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), logger.Named(log, "stream"), cfg.Worker.StreamReadTimeout)
	cleanupWorker := media.NewCleanupWorker(
		streamRepo,
		objectStorage,
		postgres.NewMediaRepository(db),
		metrics.New(),
		media.Options{
			ConsumerGroup: cfg.Worker.ConsumerGroup,
			Concurrency:   cfg.Worker.Concurrency,
			MaxRetries:    cfg.Worker.MaxRetries,
		},
		log,
	)

	manager := worker.NewManager(log, worker.DefaultShutdownTimeout)
	manager.Register(cleanupWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 7. Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info("Received shutdown signal")

	// Stop first so in-flight events finish before the context goes away
	if err := manager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
