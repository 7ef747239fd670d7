package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parkrun-map/internal/bootstrap"
	"github.com/parkrun-map/internal/config"
	"github.com/parkrun-map/internal/mapsurface"
	"github.com/parkrun-map/internal/pkg/logger"
	"github.com/parkrun-map/internal/repository/cache"
	redisRepo "github.com/parkrun-map/internal/repository/redis"
	"github.com/parkrun-map/internal/usecase"
	"github.com/parkrun-map/internal/worker"
	"github.com/parkrun-map/internal/worker/session"
	"github.com/parkrun-map/internal/worker/viewport"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "parkrun-map-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Map Viewport Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("stream_read_timeout", cfg.Worker.StreamReadTimeout),
		zap.Float64("zoom_threshold", cfg.Map.ZoomThreshold))

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// Health checks
	if err := bootstrap.CheckHealth(context.Background(), log,
		bootstrap.Dependency{Name: "Redis", Checker: redisClient},
	); err != nil {
		log.Fatal("Startup health check failed", zap.Error(err))
	}
	log.Info("All connections healthy")

	// 4. Load site registry
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	registry, err := bootstrap.LoadRegistry(loadCtx, cfg, log)
	loadCancel()
	if err != nil {
		log.Fatal("Failed to load site registry", zap.Error(err))
	}

	// 5. Initialize repositories and use cases
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)
	sessionUC := usecase.NewSessionUseCase(registry, mapsurface.PolylineFactory{}, cfg.Map.ZoomThreshold, log)

	// 6. Initialize workers
	viewportWorker := viewport.NewViewportWorker(
		streamRepo,
		sessionUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	)
	reaperWorker := session.NewReaperWorker(sessionUC, cfg.Map.ReaperInterval, cfg.Map.SessionIdleTTL, log)

	// 7. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(viewportWorker)
	workerManager.Register(reaperWorker)

	// 8. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Cancel context to stop workers
	cancel()

	// Stop worker manager
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
