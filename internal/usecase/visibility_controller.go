package usecase

import (
	"context"
	"fmt"

	"github.com/parkrun-map/internal/domain"
	"github.com/parkrun-map/internal/metrics"
	"go.uber.org/zap"
)

// DefaultZoomThreshold - на этом зуме и ниже треки не показываются
const DefaultZoomThreshold = 10.0

// VisibilityController после каждого изменения видимой области оставляет
// на карте оверлеи ровно тех площадок, которые видны при достаточном зуме.
// Не реентерабелен: события обрабатываются по одному, до конца.
type VisibilityController struct {
	sites     []*domain.Site
	cache     *OverlayCache
	surface   domain.MapSurface
	threshold float64
	logger    *zap.Logger
}

// NewVisibilityController создаёт контроллер для набора площадок текущего вида
// (все площадки для обзорной карты, одна - для карты площадки)
func NewVisibilityController(
	sites []*domain.Site,
	cache *OverlayCache,
	surface domain.MapSurface,
	threshold float64,
	logger *zap.Logger,
) *VisibilityController {
	return &VisibilityController{
		sites:     sites,
		cache:     cache,
		surface:   surface,
		threshold: threshold,
		logger:    logger,
	}
}

// OnViewportChanged приводит видимость оверлеев в соответствие с видимой областью
func (c *VisibilityController) OnViewportChanged(vp domain.Viewport) {
	if vp.Zoom <= c.threshold {
		metrics.ViewportEventsTotal.WithLabelValues("below").Inc()
		hidden := 0
		for _, site := range c.sites {
			if e, ok := c.cache.lookup(site.ID); ok && e.Visible {
				c.detach(e)
				hidden++
			}
		}
		c.logger.Debug("Zoom below threshold, overlays hidden",
			zap.Float64("zoom", vp.Zoom),
			zap.Int("hidden", hidden))
		return
	}

	metrics.ViewportEventsTotal.WithLabelValues("above").Inc()
	shown, hidden := 0, 0
	for _, site := range c.sites {
		want := vp.Bounds.Contains(site.Position)
		e := c.cache.entry(site.ID)

		switch {
		case want && !e.Visible:
			c.attach(site, e)
			shown++
		case !want && e.Visible:
			c.detach(e)
			hidden++
		}
	}

	c.logger.Debug("Viewport processed",
		zap.Float64("zoom", vp.Zoom),
		zap.Int("shown", shown),
		zap.Int("hidden", hidden))
}

// Refresh запрашивает зум и видимую область у поверхности карты и применяет их.
// Ошибка поверхности возвращается как есть, частичное обновление не выполняется.
func (c *VisibilityController) Refresh() error {
	zoom, err := c.surface.Zoom()
	if err != nil {
		return fmt.Errorf("get zoom: %w", err)
	}

	vp := domain.Viewport{Zoom: zoom}
	if zoom > c.threshold {
		bounds, err := c.surface.Bounds()
		if err != nil {
			return fmt.Errorf("get bounds: %w", err)
		}
		vp.Bounds = bounds
	}

	c.OnViewportChanged(vp)
	return nil
}

// Run обрабатывает события изменения видимой области в порядке поступления,
// пока канал не закрыт или не отменён контекст
func (c *VisibilityController) Run(ctx context.Context, events <-chan domain.Viewport) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case vp, ok := <-events:
			if !ok {
				return nil
			}
			c.OnViewportChanged(vp)
		}
	}
}

// VisibleSites возвращает ID площадок, оверлеи которых сейчас на карте
func (c *VisibilityController) VisibleSites() []string {
	ids := make([]string, 0)
	for _, site := range c.sites {
		if e, ok := c.cache.lookup(site.ID); ok && e.Visible {
			ids = append(ids, site.ID)
		}
	}
	return ids
}

func (c *VisibilityController) attach(site *domain.Site, e *domain.OverlayEntry) {
	for _, d := range c.cache.EnsureBuilt(site) {
		c.surface.AddOverlay(d)
	}
	e.Visible = true
	metrics.OverlayAttachTotal.Inc()
}

func (c *VisibilityController) detach(e *domain.OverlayEntry) {
	for _, d := range e.Drawables {
		c.surface.RemoveOverlay(d)
	}
	e.Visible = false
	metrics.OverlayDetachTotal.Inc()
}
