package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/parkrun-map/internal/domain"
	"github.com/parkrun-map/internal/domain/repository"
	"github.com/parkrun-map/internal/pkg/errors"
	"go.uber.org/zap"
)

type SiteRepository struct {
	db     *DB
	logger *zap.Logger
}

// siteRow - строка таблицы sites, треки и последний забег хранятся в jsonb
type siteRow struct {
	ID       string         `db:"id"`
	Name     string         `db:"name"`
	Location string         `db:"location"`
	URL      string         `db:"url"`
	Lat      float64        `db:"lat"`
	Lon      float64        `db:"lon"`
	Status   string         `db:"status"`
	Latest   sql.NullString `db:"latest"`
	Tracks   string         `db:"tracks"`
}

const selectSites = `
	SELECT id, name, location, url, lat, lon, status, latest::text AS latest, tracks::text AS tracks
	FROM sites`

// NewSiteRepository создает репозиторий площадок в PostgreSQL
func NewSiteRepository(db *DB) *SiteRepository {
	return &SiteRepository{
		db:     db,
		logger: db.logger,
	}
}

var (
	_ repository.SiteRepository = (*SiteRepository)(nil)
	_ repository.SiteWriter     = (*SiteRepository)(nil)
)

func (r *SiteRepository) List(ctx context.Context) ([]*domain.Site, error) {
	var rows []siteRow
	if err := r.db.SelectContext(ctx, &rows, selectSites+` ORDER BY id`); err != nil {
		r.logger.Error("failed to list sites", zap.Error(err))
		return nil, errors.ErrDatabaseError.WithDetails(map[string]interface{}{"error": err.Error()})
	}

	sites := make([]*domain.Site, 0, len(rows))
	for _, row := range rows {
		site, err := row.toDomain()
		if err != nil {
			r.logger.Warn("skipping unreadable site row", zap.String("id", row.ID), zap.Error(err))
			continue
		}
		sites = append(sites, site)
	}

	r.logger.Debug("sites listed", zap.Int("count", len(sites)))
	return sites, nil
}

func (r *SiteRepository) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	var row siteRow
	err := r.db.GetContext(ctx, &row, selectSites+` WHERE id = $1`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrSiteNotFound
	}
	if err != nil {
		r.logger.Error("failed to get site", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError.WithDetails(map[string]interface{}{"error": err.Error()})
	}

	site, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("decode site %s: %w", id, err)
	}
	return site, nil
}

// Upsert вставляет площадку или полностью заменяет существующую
func (r *SiteRepository) Upsert(ctx context.Context, site *domain.Site) error {
	row, err := newSiteRow(site)
	if err != nil {
		return fmt.Errorf("encode site %s: %w", site.ID, err)
	}

	query := `
		INSERT INTO sites (id, name, location, url, lat, lon, status, latest, tracks, updated_at)
		VALUES (:id, :name, :location, :url, :lat, :lon, :status, CAST(:latest AS jsonb), CAST(:tracks AS jsonb), now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			location = EXCLUDED.location,
			url = EXCLUDED.url,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			status = EXCLUDED.status,
			latest = EXCLUDED.latest,
			tracks = EXCLUDED.tracks,
			updated_at = now()`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		r.logger.Error("failed to upsert site", zap.String("id", site.ID), zap.Error(err))
		return errors.ErrDatabaseError.WithDetails(map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func newSiteRow(site *domain.Site) (*siteRow, error) {
	tracks := site.Tracks
	if tracks == nil {
		tracks = []domain.Track{}
	}
	tracksJSON, err := json.Marshal(tracks)
	if err != nil {
		return nil, fmt.Errorf("marshal tracks: %w", err)
	}

	row := &siteRow{
		ID:       site.ID,
		Name:     site.Name,
		Location: site.Location,
		URL:      site.URL,
		Lat:      site.Position.Lat,
		Lon:      site.Position.Lon,
		Status:   string(site.Status),
		Tracks:   string(tracksJSON),
	}

	if site.Latest != nil {
		latestJSON, err := json.Marshal(site.Latest)
		if err != nil {
			return nil, fmt.Errorf("marshal latest: %w", err)
		}
		row.Latest = sql.NullString{String: string(latestJSON), Valid: true}
	}

	return row, nil
}

func (row *siteRow) toDomain() (*domain.Site, error) {
	site := &domain.Site{
		ID:       row.ID,
		Name:     row.Name,
		Location: row.Location,
		URL:      row.URL,
		Position: domain.Point{Lat: row.Lat, Lon: row.Lon},
		Status:   domain.SiteStatus(row.Status),
	}

	if err := json.Unmarshal([]byte(row.Tracks), &site.Tracks); err != nil {
		return nil, fmt.Errorf("unmarshal tracks: %w", err)
	}

	if row.Latest.Valid {
		var latest domain.LatestEvent
		if err := json.Unmarshal([]byte(row.Latest.String), &latest); err != nil {
			return nil, fmt.Errorf("unmarshal latest: %w", err)
		}
		site.Latest = &latest
	}

	return site, nil
}
