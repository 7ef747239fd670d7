package dto

import (
	"github.com/google/uuid"
	"github.com/parkrun-map/internal/domain"
)

// LatestEventDTO - последний забег площадки
type LatestEventDTO struct {
	Index        int    `json:"index"`
	Date         string `json:"date"`
	Participants int    `json:"participants"`
	URL          string `json:"url,omitempty"`
}

// SiteMarker - маркер площадки на карте
type SiteMarker struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Location   string            `json:"location,omitempty"`
	URL        string            `json:"url,omitempty"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Status     domain.SiteStatus `json:"status"`
	Style      domain.StyleID    `json:"style"`
	Latest     *LatestEventDTO   `json:"latest"`
	TrackCount int               `json:"track_count"`
}

// TrackSummary - краткая информация о треке
type TrackSummary struct {
	Index    int     `json:"index"`
	Points   int     `json:"points"`
	LengthKm float64 `json:"length_km"`
}

// SiteDetail - площадка с описанием треков
type SiteDetail struct {
	SiteMarker
	Tracks []TrackSummary `json:"tracks"`
}

// SessionResponse - состояние сессии карты после обработки события
type SessionResponse struct {
	SessionID uuid.UUID            `json:"session_id"`
	Mode      domain.ViewMode      `json:"mode"`
	SiteID    string               `json:"site_id,omitempty"`
	Delta     *domain.OverlayDelta `json:"delta"`
}
