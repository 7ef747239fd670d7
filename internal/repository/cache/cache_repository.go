package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parkrun-map/internal/domain"
	"github.com/parkrun-map/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SitesSnapshotKey - ключ снимка реестра площадок
const SitesSnapshotKey = "sites:snapshot"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetSites получает снимок реестра из кеша, nil при промахе
func (r *cacheRepository) GetSites(ctx context.Context) ([]*domain.Site, error) {
	data, err := r.Get(ctx, SitesSnapshotKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var sites []*domain.Site
	if err := json.Unmarshal(data, &sites); err != nil {
		r.logger.Error("Failed to unmarshal sites from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal sites: %w", err)
	}

	return sites, nil
}

// SetSites сохраняет снимок реестра в кеше
func (r *cacheRepository) SetSites(ctx context.Context, sites []*domain.Site, ttl time.Duration) error {
	data, err := json.Marshal(sites)
	if err != nil {
		r.logger.Error("Failed to marshal sites", zap.Error(err))
		return fmt.Errorf("marshal sites: %w", err)
	}

	return r.Set(ctx, SitesSnapshotKey, data, ttl)
}
