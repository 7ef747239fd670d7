package repository

import (
	"context"

	"github.com/parkrun-map/internal/domain"
)

// SiteRepository - источник данных реестра площадок
type SiteRepository interface {
	// List возвращает все площадки, отсортированные по ID
	List(ctx context.Context) ([]*domain.Site, error)

	// GetByID возвращает площадку по ID
	GetByID(ctx context.Context, id string) (*domain.Site, error)
}

// SiteWriter - запись площадок (используется импортом)
type SiteWriter interface {
	// Upsert вставляет или обновляет площадку вместе с треками
	Upsert(ctx context.Context, site *domain.Site) error
}
