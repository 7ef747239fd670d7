package repository

import (
	"context"
	"time"

	"github.com/parkrun-map/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetSites получает снимок реестра площадок из кеша
	GetSites(ctx context.Context) ([]*domain.Site, error)

	// SetSites сохраняет снимок реестра площадок в кеше
	SetSites(ctx context.Context, sites []*domain.Site, ttl time.Duration) error
}
