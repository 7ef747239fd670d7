package mapsurface

import (
	"fmt"

	"github.com/parkrun-map/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// TrackOverlay - полилиния одного маршрута площадки
type TrackOverlay struct {
	ID     string
	SiteID string
	Index  int
	Line   orb.LineString
}

func (t *TrackOverlay) OverlayID() string {
	return t.ID
}

// Feature возвращает оверлей как GeoJSON LineString
func (t *TrackOverlay) Feature() *geojson.Feature {
	f := geojson.NewFeature(t.Line)
	f.Properties["overlay_id"] = t.ID
	f.Properties["site_id"] = t.SiteID
	f.Properties["track_index"] = t.Index
	return f
}

// OverlayID формирует стабильный идентификатор оверлея трека
func OverlayID(siteID string, index int) string {
	return fmt.Sprintf("%s#%d", siteID, index)
}

// PolylineFactory строит TrackOverlay из трека
type PolylineFactory struct{}

func (PolylineFactory) NewTrackOverlay(siteID string, index int, track domain.Track) domain.Drawable {
	line := make(orb.LineString, 0, len(track))
	for _, p := range track {
		line = append(line, p.Orb())
	}
	return &TrackOverlay{
		ID:     OverlayID(siteID, index),
		SiteID: siteID,
		Index:  index,
		Line:   line,
	}
}
