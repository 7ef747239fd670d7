package file

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parkrun-map/internal/domain"
	"github.com/parkrun-map/internal/pkg/errors"
	"github.com/parkrun-map/internal/pkg/kml"
	"github.com/parkrun-map/internal/pkg/validator"
	"go.uber.org/zap"
)

// latestDateLayouts - допустимые форматы даты последнего забега
var latestDateLayouts = []string{"2006-01-02", "02.01.2006", time.RFC3339}

// SiteRecord - запись площадки в JSON-файле
type SiteRecord struct {
	ID       string         `json:"id" validate:"required"`
	Name     string         `json:"name" validate:"required"`
	Location string         `json:"location"`
	URL      string         `json:"url" validate:"omitempty,url"`
	Lat      *float64       `json:"lat" validate:"required,min=-90,max=90"`
	Lon      *float64       `json:"lon" validate:"required,min=-180,max=180"`
	Status   string         `json:"status"`
	Latest   *LatestRecord  `json:"latest"`
	Tracks   [][][2]float64 `json:"tracks"`
}

// LatestRecord - последний забег, дата в формате YYYY-MM-DD или DD.MM.YYYY
type LatestRecord struct {
	Index        int    `json:"index" validate:"min=1"`
	Date         string `json:"date" validate:"required"`
	Participants int    `json:"participants" validate:"min=0"`
	URL          string `json:"url" validate:"omitempty,url"`
}

// SiteRepository читает площадки из JSON-файла. Треки площадки без
// встроенных треков берутся из <kmlDir>/<id>.kml, если такой файл есть.
type SiteRepository struct {
	path    string
	kmlDir  string
	options kml.Options
	logger  *zap.Logger
}

// NewSiteRepository создает файловый репозиторий площадок
func NewSiteRepository(path, kmlDir string, options kml.Options, logger *zap.Logger) *SiteRepository {
	return &SiteRepository{
		path:    path,
		kmlDir:  kmlDir,
		options: options,
		logger:  logger,
	}
}

// List читает файл целиком. Невалидные записи пропускаются с предупреждением.
func (r *SiteRepository) List(ctx context.Context) ([]*domain.Site, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}

	var records []SiteRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse sites file %s: %w", r.path, err)
	}

	sites := make([]*domain.Site, 0, len(records))
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		site, err := r.toDomain(&records[i])
		if err != nil {
			r.logger.Warn("Skipping invalid site record",
				zap.Int("index", i),
				zap.String("id", records[i].ID),
				zap.Error(err))
			continue
		}
		sites = append(sites, site)
	}

	// при повторных ID сохраняется порядок файла, первая запись остаётся первой
	sort.SliceStable(sites, func(i, j int) bool { return sites[i].ID < sites[j].ID })

	r.logger.Info("Sites file loaded",
		zap.String("path", r.path),
		zap.Int("records", len(records)),
		zap.Int("sites", len(sites)))

	return sites, nil
}

// GetByID ищет площадку в файле
func (r *SiteRepository) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	sites, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, site := range sites {
		if site.ID == id {
			return site, nil
		}
	}
	return nil, errors.ErrSiteNotFound
}

func (r *SiteRepository) toDomain(rec *SiteRecord) (*domain.Site, error) {
	if err := validator.Validate(rec); err != nil {
		return nil, err
	}

	site := &domain.Site{
		ID:       rec.ID,
		Name:     rec.Name,
		Location: rec.Location,
		URL:      rec.URL,
		Position: domain.Point{Lat: *rec.Lat, Lon: *rec.Lon},
		Status:   domain.ParseSiteStatus(rec.Status),
		Tracks:   make([]domain.Track, 0, len(rec.Tracks)),
	}

	if rec.Latest != nil {
		date, err := parseLatestDate(rec.Latest.Date)
		if err != nil {
			return nil, err
		}
		site.Latest = &domain.LatestEvent{
			Index:        rec.Latest.Index,
			Date:         date,
			Participants: rec.Latest.Participants,
			URL:          rec.Latest.URL,
		}
	}

	for _, pairs := range rec.Tracks {
		track := make(domain.Track, 0, len(pairs))
		for _, p := range pairs {
			track = append(track, domain.Point{Lat: p[0], Lon: p[1]})
		}
		if len(track) > 1 {
			site.Tracks = append(site.Tracks, kml.Simplify(track, r.options))
		}
	}

	if len(rec.Tracks) == 0 && r.kmlDir != "" {
		tracks, err := r.loadKML(rec.ID)
		if err != nil {
			return nil, err
		}
		site.Tracks = tracks
	}

	return site, nil
}

func (r *SiteRepository) loadKML(id string) ([]domain.Track, error) {
	tracks, err := kml.Load(filepath.Join(r.kmlDir, id+".kml"), r.options)
	if stderrors.Is(err, fs.ErrNotExist) {
		return []domain.Track{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load course tracks: %w", err)
	}
	return tracks, nil
}

func parseLatestDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range latestDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized latest event date %q", s)
}
