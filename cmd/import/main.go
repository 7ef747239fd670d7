// Command import загружает реестр площадок из JSON-файла (с треками из KML)
// в PostgreSQL, чтобы api и worker могли работать с SITES_SOURCE=postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/parkrun-map/internal/bootstrap"
	"github.com/parkrun-map/internal/config"
	"github.com/parkrun-map/internal/pkg/logger"
	"github.com/parkrun-map/internal/repository/file"
	"github.com/parkrun-map/internal/repository/postgres"
	"github.com/parkrun-map/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	sitesFile := flag.String("file", cfg.Sites.File, "path to sites JSON file")
	kmlDir := flag.String("kml-dir", cfg.Sites.KMLDir, "directory with <site-id>.kml course files")
	migrationsDir := flag.String("migrations", "migrations", "directory with *.up.sql migrations")
	flag.Parse()

	log, err := logger.New(cfg.Log.Level, "parkrun-map-import")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	source := file.NewSiteRepository(*sitesFile, *kmlDir, bootstrap.KMLOptions(&cfg.Sites), log)
	sites, err := source.List(ctx)
	if err != nil {
		log.Fatal("Failed to read sites file", zap.String("file", *sitesFile), zap.Error(err))
	}

	// та же проверка, что и при загрузке реестра
	registry := usecase.NewSiteRegistry(sites, log)

	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	if err := bootstrap.CheckHealth(ctx, log, bootstrap.Dependency{Name: "PostgreSQL", Checker: db}); err != nil {
		log.Fatal("Startup health check failed", zap.Error(err))
	}

	if err := db.ApplyMigrations(ctx, *migrationsDir); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	repo := postgres.NewSiteRepository(db)
	imported := 0
	for _, site := range registry.All() {
		if err := repo.Upsert(ctx, site); err != nil {
			log.Error("Failed to import site", zap.String("id", site.ID), zap.Error(err))
			continue
		}
		imported++
	}

	log.Info("Import complete",
		zap.Int("records", len(sites)),
		zap.Int("imported", imported))
}
