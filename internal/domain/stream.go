package domain

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

// Stream names
const (
	StreamMapViewport = "stream:map:viewport"
	StreamMapOverlay  = "stream:map:overlay"
)

// OverlayDelta - изменения набора отрисованных оверлеев за одно событие
type OverlayDelta struct {
	Added        *geojson.FeatureCollection `json:"added"`
	Removed      []string                   `json:"removed"`
	VisibleSites []string                   `json:"visible_sites"`
}

// Empty возвращает true, если событие ничего не изменило на карте
func (d *OverlayDelta) Empty() bool {
	return (d.Added == nil || len(d.Added.Features) == 0) && len(d.Removed) == 0
}

// ViewportEvent - входящее событие изменения видимой области карты
type ViewportEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	Mode      ViewMode  `json:"mode,omitempty"`
	SiteID    string    `json:"site_id,omitempty"`
	Zoom      float64   `json:"zoom"`
	Bounds    Bounds    `json:"bounds"`
}

// Viewport возвращает состояние карты из события
func (e *ViewportEvent) Viewport() Viewport {
	return Viewport{Zoom: e.Zoom, Bounds: e.Bounds}
}

// OverlayDeltaEvent - результат обработки ViewportEvent
type OverlayDeltaEvent struct {
	SessionID uuid.UUID     `json:"session_id"`
	Delta     *OverlayDelta `json:"delta,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
