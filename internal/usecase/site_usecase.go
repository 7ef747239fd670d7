package usecase

import (
	"context"

	"github.com/parkrun-map/internal/domain"
	"github.com/parkrun-map/internal/pkg/utils"
	"github.com/parkrun-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// LatestDateLayout - формат даты последнего забега в ответах API
const LatestDateLayout = "2006-01-02"

type SiteUseCase struct {
	registry *SiteRegistry
	logger   *zap.Logger
}

func NewSiteUseCase(registry *SiteRegistry, logger *zap.Logger) *SiteUseCase {
	return &SiteUseCase{
		registry: registry,
		logger:   logger,
	}
}

// ListMarkers возвращает маркеры всех площадок для обзорной карты
func (uc *SiteUseCase) ListMarkers(ctx context.Context) ([]dto.SiteMarker, SiteCounts) {
	sites := uc.registry.All()
	markers := make([]dto.SiteMarker, 0, len(sites))
	for _, site := range sites {
		markers = append(markers, toMarker(site, domain.ViewModeOverview))
	}
	return markers, uc.registry.Counts()
}

// GetDetail возвращает площадку со сводкой по трекам
func (uc *SiteUseCase) GetDetail(ctx context.Context, id string) (*dto.SiteDetail, error) {
	site, err := uc.registry.Get(id)
	if err != nil {
		return nil, err
	}

	tracks := make([]dto.TrackSummary, 0, len(site.Tracks))
	for i, track := range site.Tracks {
		tracks = append(tracks, dto.TrackSummary{
			Index:    i,
			Points:   len(track),
			LengthKm: utils.TrackLengthKm(track),
		})
	}

	return &dto.SiteDetail{
		SiteMarker: toMarker(site, domain.ViewModeDetail),
		Tracks:     tracks,
	}, nil
}

func toMarker(site *domain.Site, mode domain.ViewMode) dto.SiteMarker {
	marker := dto.SiteMarker{
		ID:         site.ID,
		Name:       site.Name,
		Location:   site.Location,
		URL:        site.URL,
		Lat:        site.Position.Lat,
		Lon:        site.Position.Lon,
		Status:     site.Status,
		Style:      ResolveStyle(site, mode),
		TrackCount: len(site.Tracks),
	}
	if site.Latest != nil {
		marker.Latest = &dto.LatestEventDTO{
			Index:        site.Latest.Index,
			Date:         site.Latest.Date.Format(LatestDateLayout),
			Participants: site.Latest.Participants,
			URL:          site.Latest.URL,
		}
	}
	return marker
}
