package main

// @title Parkrun Map API
// @version 1.0.0
// @description Сервис карты забегов parkrun. Отдаёт маркеры площадок, детали площадки
// @description с треками трассы и ведёт сессии карты, которые показывают треки
// @description только при достаточном приближении и только для площадок в видимой области.
// @description
// @description Основные возможности:
// @description - Список площадок со статусом и последним забегом
// @description - Детали площадки с треками трассы
// @description - Сессии карты: дельты оверлеев при изменении видимой области

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/parkrun-map/docs"
	"github.com/parkrun-map/internal/bootstrap"
	"github.com/parkrun-map/internal/config"
	httpDelivery "github.com/parkrun-map/internal/delivery/http"
	"github.com/parkrun-map/internal/delivery/http/handler"
	"github.com/parkrun-map/internal/mapsurface"
	"github.com/parkrun-map/internal/pkg/logger"
	"github.com/parkrun-map/internal/usecase"
	"github.com/parkrun-map/internal/worker"
	"github.com/parkrun-map/internal/worker/session"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "parkrun-map-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Parkrun Map API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("sites_source", cfg.Sites.Source),
		zap.Float64("zoom_threshold", cfg.Map.ZoomThreshold),
	)

	// 3. Load site registry
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	registry, err := bootstrap.LoadRegistry(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to load site registry", zap.Error(err))
	}

	// 4. Initialize Use Cases
	siteUC := usecase.NewSiteUseCase(registry, log)
	sessionUC := usecase.NewSessionUseCase(registry, mapsurface.PolylineFactory{}, cfg.Map.ZoomThreshold, log)

	log.Info("Use cases initialized")

	// 5. Initialize HTTP Handlers
	siteHandler := handler.NewSiteHandler(siteUC, log)
	sessionHandler := handler.NewSessionHandler(sessionUC, log)

	// 6. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, siteHandler, sessionHandler)

	// 7. Idle session reaper
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(session.NewReaperWorker(sessionUC, cfg.Map.ReaperInterval, cfg.Map.SessionIdleTTL, log))

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if err := workerManager.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 8. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

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

	workerCancel()
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
