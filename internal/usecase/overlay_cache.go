package usecase

import (
	"github.com/parkrun-map/internal/domain"
	"github.com/parkrun-map/internal/metrics"
)

// DrawableFactory строит отрисовываемый оверлей из одного трека площадки
type DrawableFactory interface {
	NewTrackOverlay(siteID string, index int, track domain.Track) domain.Drawable
}

// OverlayCache хранит оверлеи площадок одной сессии карты.
// Оверлеи площадки строятся не более одного раза и не удаляются до конца сессии.
type OverlayCache struct {
	entries map[string]*domain.OverlayEntry
	factory DrawableFactory
	builds  int
}

func NewOverlayCache(factory DrawableFactory) *OverlayCache {
	return &OverlayCache{
		entries: make(map[string]*domain.OverlayEntry),
		factory: factory,
	}
}

// EnsureBuilt возвращает оверлеи площадки, при первом вызове строит их из треков
func (c *OverlayCache) EnsureBuilt(site *domain.Site) []domain.Drawable {
	e := c.entry(site.ID)
	if e.Built {
		return e.Drawables
	}

	drawables := make([]domain.Drawable, 0, len(site.Tracks))
	for i, track := range site.Tracks {
		drawables = append(drawables, c.factory.NewTrackOverlay(site.ID, i, track))
	}

	e.Drawables = drawables
	e.Built = true
	c.builds++
	metrics.OverlaysBuiltTotal.Add(float64(len(drawables)))

	return e.Drawables
}

// Entry возвращает копию состояния площадки
func (c *OverlayCache) Entry(siteID string) (domain.OverlayEntry, bool) {
	e, ok := c.entries[siteID]
	if !ok {
		return domain.OverlayEntry{}, false
	}
	return *e, true
}

// Len возвращает число созданных записей
func (c *OverlayCache) Len() int {
	return len(c.entries)
}

// BuildCount возвращает число выполненных построений
func (c *OverlayCache) BuildCount() int {
	return c.builds
}

func (c *OverlayCache) entry(siteID string) *domain.OverlayEntry {
	e, ok := c.entries[siteID]
	if !ok {
		e = &domain.OverlayEntry{SiteID: siteID}
		c.entries[siteID] = e
	}
	return e
}

func (c *OverlayCache) lookup(siteID string) (*domain.OverlayEntry, bool) {
	e, ok := c.entries[siteID]
	return e, ok
}
