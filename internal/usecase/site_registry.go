package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/parkrun-map/internal/domain"
	"github.com/parkrun-map/internal/domain/repository"
	"github.com/parkrun-map/internal/metrics"
	"github.com/parkrun-map/internal/pkg/errors"
	"github.com/parkrun-map/internal/pkg/utils"
	"go.uber.org/zap"
)

// SiteCounts - количество площадок по статусам
type SiteCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Planned  int `json:"planned"`
	Archived int `json:"archived"`
}

// SiteRegistry - неизменяемый после загрузки список площадок
type SiteRegistry struct {
	sites []*domain.Site
	byID  map[string]*domain.Site
}

// NewSiteRegistry проверяет площадки и строит реестр.
// Некорректные записи и повторные ID пропускаются с предупреждением.
func NewSiteRegistry(sites []*domain.Site, logger *zap.Logger) *SiteRegistry {
	r := &SiteRegistry{
		sites: make([]*domain.Site, 0, len(sites)),
		byID:  make(map[string]*domain.Site, len(sites)),
	}

	for _, site := range sites {
		if err := validateSite(site); err != nil {
			logger.Warn("Skipping malformed site", zap.Error(err))
			continue
		}
		if _, dup := r.byID[site.ID]; dup {
			logger.Warn("Skipping duplicate site", zap.String("id", site.ID))
			continue
		}

		s := site
		if s.Planned() && s.Latest != nil {
			logger.Warn("Planned site carries latest event, dropping it", zap.String("id", s.ID))
			cp := *s
			cp.Latest = nil
			s = &cp
		}

		r.sites = append(r.sites, s)
		r.byID[s.ID] = s
	}

	metrics.RegistrySites.Set(float64(len(r.sites)))
	return r
}

// LoadSiteRegistry загружает реестр: сначала из кеша, затем из репозитория.
// cache может быть nil, ошибки кеша не прерывают загрузку.
func LoadSiteRegistry(
	ctx context.Context,
	siteRepo repository.SiteRepository,
	cacheRepo repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) (*SiteRegistry, error) {
	if cacheRepo != nil {
		cached, err := cacheRepo.GetSites(ctx)
		if err != nil {
			logger.Warn("Failed to get sites from cache", zap.Error(err))
		}
		if err == nil && cached != nil {
			logger.Info("Site registry loaded from cache", zap.Int("sites", len(cached)))
			return NewSiteRegistry(cached, logger), nil
		}
	}

	sites, err := siteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}

	registry := NewSiteRegistry(sites, logger)
	logger.Info("Site registry loaded",
		zap.Int("records", len(sites)),
		zap.Int("sites", len(registry.sites)))

	if cacheRepo != nil {
		if err := cacheRepo.SetSites(ctx, registry.sites, ttl); err != nil {
			logger.Warn("Failed to cache sites", zap.Error(err))
		}
	}

	return registry, nil
}

// All возвращает все площадки в порядке загрузки
func (r *SiteRegistry) All() []*domain.Site {
	return r.sites
}

// Get возвращает площадку по ID
func (r *SiteRegistry) Get(id string) (*domain.Site, error) {
	site, ok := r.byID[id]
	if !ok {
		return nil, errors.ErrSiteNotFound
	}
	return site, nil
}

// Select возвращает площадки, относящиеся к виду карты
func (r *SiteRegistry) Select(mode domain.ViewMode, siteID string) ([]*domain.Site, error) {
	switch mode {
	case domain.ViewModeOverview:
		return r.sites, nil
	case domain.ViewModeDetail:
		site, err := r.Get(siteID)
		if err != nil {
			return nil, err
		}
		return []*domain.Site{site}, nil
	default:
		return nil, errors.ErrInvalidViewMode
	}
}

// Counts считает площадки по статусам
func (r *SiteRegistry) Counts() SiteCounts {
	counts := SiteCounts{Total: len(r.sites)}
	for _, s := range r.sites {
		switch s.Status {
		case domain.SiteStatusActive:
			counts.Active++
		case domain.SiteStatusPlanned:
			counts.Planned++
		default:
			counts.Archived++
		}
	}
	return counts
}

func validateSite(site *domain.Site) error {
	if site == nil {
		return fmt.Errorf("%w: nil record", domain.ErrInvalidSite)
	}
	if site.ID == "" {
		return fmt.Errorf("%w: missing id", domain.ErrInvalidSite)
	}
	if !utils.ValidateCoordinates(site.Position.Lat, site.Position.Lon) {
		return fmt.Errorf("%w: %s has invalid position %v", domain.ErrInvalidSite, site.ID, site.Position)
	}
	switch site.Status {
	case domain.SiteStatusActive, domain.SiteStatusPlanned, domain.SiteStatusArchived:
	default:
		return fmt.Errorf("%w: %s has unknown status %q", domain.ErrInvalidSite, site.ID, site.Status)
	}
	return nil
}
