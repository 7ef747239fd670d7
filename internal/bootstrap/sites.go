// Package bootstrap собирает зависимости, общие для api, worker и import.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/parkrun-map/internal/config"
	"github.com/parkrun-map/internal/domain/repository"
	"github.com/parkrun-map/internal/pkg/kml"
	"github.com/parkrun-map/internal/repository/cache"
	"github.com/parkrun-map/internal/repository/file"
	"github.com/parkrun-map/internal/repository/postgres"
	"github.com/parkrun-map/internal/usecase"
	"go.uber.org/zap"
)

// KMLOptions возвращает параметры упрощения треков из конфига
func KMLOptions(cfg *config.SitesConfig) kml.Options {
	return kml.Options{
		MaxPoints:     cfg.TrackMaxPoints,
		Precision:     cfg.SimplifyPrecision,
		PrecisionStep: cfg.SimplifyPrecisionStep,
	}
}

// OpenSiteRepository открывает источник площадок, выбранный SITES_SOURCE.
// Возвращаемая функция закрывает соединение с базой, если оно было открыто.
func OpenSiteRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.SiteRepository, func() error, error) {
	switch cfg.Sites.Source {
	case config.SitesSourceFile:
		logger.Info("Using file site source",
			zap.String("file", cfg.Sites.File),
			zap.String("kml_dir", cfg.Sites.KMLDir))
		repo := file.NewSiteRepository(cfg.Sites.File, cfg.Sites.KMLDir, KMLOptions(&cfg.Sites), logger)
		return repo, func() error { return nil }, nil

	case config.SitesSourcePostgres:
		db, err := postgres.New(&cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := CheckHealth(ctx, logger, Dependency{Name: "PostgreSQL", Checker: db}); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("Using postgres site source")
		return postgres.NewSiteRepository(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown site source %q", cfg.Sites.Source)
	}
}

// LoadRegistry открывает источник площадок и кеш, затем загружает реестр.
// Redis подключается только при REDIS_ENABLED; недоступный кеш не мешает загрузке.
func LoadRegistry(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*usecase.SiteRegistry, error) {
	siteRepo, closeRepo, err := OpenSiteRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Error("Failed to close site source", zap.Error(err))
		}
	}()

	var cacheRepo repository.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(&cfg.Redis, logger)
		if err == nil {
			if err = CheckHealth(ctx, logger, Dependency{Name: "Redis", Checker: redisClient}); err != nil {
				_ = redisClient.Close()
			}
		}
		if err != nil {
			logger.Warn("Redis unavailable, loading sites without cache", zap.Error(err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Error("Failed to close Redis connection", zap.Error(err))
				}
			}()
			cacheRepo = cache.NewCacheRepository(redisClient)
		}
	}

	return usecase.LoadSiteRegistry(ctx, siteRepo, cacheRepo, cfg.Cache.SitesCacheTTL, logger)
}
