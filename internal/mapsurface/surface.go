package mapsurface

import (
	"github.com/parkrun-map/internal/domain"
	"github.com/paulmach/orb/geojson"
)

type featurer interface {
	Feature() *geojson.Feature
}

// RecordingSurface - серверная поверхность карты. Хранит последнюю видимую
// область, присланную клиентом, набор отрисованных оверлеев и изменения
// с момента последнего Flush.
type RecordingSurface struct {
	viewport *domain.Viewport
	drawn    map[string]domain.Drawable
	added    []domain.Drawable
	removed  []string
}

func NewRecordingSurface() *RecordingSurface {
	return &RecordingSurface{
		drawn: make(map[string]domain.Drawable),
	}
}

// SetViewport запоминает состояние карты клиента
func (s *RecordingSurface) SetViewport(vp domain.Viewport) {
	s.viewport = &vp
}

func (s *RecordingSurface) Zoom() (float64, error) {
	if s.viewport == nil {
		return 0, domain.ErrViewportUnavailable
	}
	return s.viewport.Zoom, nil
}

func (s *RecordingSurface) Bounds() (domain.Bounds, error) {
	if s.viewport == nil {
		return domain.Bounds{}, domain.ErrViewportUnavailable
	}
	return s.viewport.Bounds, nil
}

// AddOverlay добавляет оверлей. Повторное добавление ничего не делает.
func (s *RecordingSurface) AddOverlay(d domain.Drawable) {
	id := d.OverlayID()
	if _, ok := s.drawn[id]; ok {
		return
	}
	s.drawn[id] = d

	if i := indexOf(s.removed, id); i >= 0 {
		s.removed = append(s.removed[:i], s.removed[i+1:]...)
		return
	}
	s.added = append(s.added, d)
}

// RemoveOverlay убирает оверлей. Удаление неотрисованного ничего не делает.
func (s *RecordingSurface) RemoveOverlay(d domain.Drawable) {
	id := d.OverlayID()
	if _, ok := s.drawn[id]; !ok {
		return
	}
	delete(s.drawn, id)

	for i, a := range s.added {
		if a.OverlayID() == id {
			s.added = append(s.added[:i], s.added[i+1:]...)
			return
		}
	}
	s.removed = append(s.removed, id)
}

// IsDrawn проверяет, отрисован ли оверлей
func (s *RecordingSurface) IsDrawn(id string) bool {
	_, ok := s.drawn[id]
	return ok
}

// DrawnCount возвращает число отрисованных оверлеев
func (s *RecordingSurface) DrawnCount() int {
	return len(s.drawn)
}

// Flush возвращает накопленные изменения и сбрасывает их
func (s *RecordingSurface) Flush(visibleSites []string) *domain.OverlayDelta {
	fc := geojson.NewFeatureCollection()
	for _, d := range s.added {
		if f, ok := d.(featurer); ok {
			fc.Append(f.Feature())
		}
	}

	removed := s.removed
	if removed == nil {
		removed = []string{}
	}
	if visibleSites == nil {
		visibleSites = []string{}
	}

	s.added = nil
	s.removed = nil

	return &domain.OverlayDelta{
		Added:        fc,
		Removed:      removed,
		VisibleSites: visibleSites,
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
