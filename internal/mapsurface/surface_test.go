package mapsurface

import (
	"testing"

	"github.com/parkrun-map/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOverlay(siteID string, index int) domain.Drawable {
	return PolylineFactory{}.NewTrackOverlay(siteID, index, domain.Track{
		{Lat: 50.77, Lon: 6.08},
		{Lat: 50.78, Lon: 6.09},
	})
}

func TestRecordingSurface_ViewportUnavailable(t *testing.T) {
	s := NewRecordingSurface()

	_, err := s.Zoom()
	assert.ErrorIs(t, err, domain.ErrViewportUnavailable)

	_, err = s.Bounds()
	assert.ErrorIs(t, err, domain.ErrViewportUnavailable)
}

func TestRecordingSurface_ReportsViewport(t *testing.T) {
	s := NewRecordingSurface()
	bounds := domain.NewBounds(domain.Point{Lat: 50, Lon: 6}, domain.Point{Lat: 51, Lon: 7})
	s.SetViewport(domain.Viewport{Zoom: 12, Bounds: bounds})

	zoom, err := s.Zoom()
	require.NoError(t, err)
	assert.Equal(t, 12.0, zoom)

	got, err := s.Bounds()
	require.NoError(t, err)
	assert.Equal(t, bounds, got)
}

func TestRecordingSurface_FlushReportsDelta(t *testing.T) {
	s := NewRecordingSurface()
	a0 := testOverlay("aachen", 0)
	a1 := testOverlay("aachen", 1)

	s.AddOverlay(a0)
	s.AddOverlay(a1)
	s.AddOverlay(a0) // duplicate add is ignored

	delta := s.Flush([]string{"aachen"})
	require.NotNil(t, delta.Added)
	require.Len(t, delta.Added.Features, 2)
	assert.Equal(t, "aachen#0", delta.Added.Features[0].Properties["overlay_id"])
	assert.Equal(t, "aachen", delta.Added.Features[1].Properties["site_id"])
	assert.Empty(t, delta.Removed)
	assert.Equal(t, []string{"aachen"}, delta.VisibleSites)
	assert.Equal(t, 2, s.DrawnCount())

	s.RemoveOverlay(a1)
	delta = s.Flush(nil)
	assert.Empty(t, delta.Added.Features)
	assert.Equal(t, []string{"aachen#1"}, delta.Removed)
	assert.Equal(t, []string{}, delta.VisibleSites)
	assert.True(t, s.IsDrawn("aachen#0"))
	assert.False(t, s.IsDrawn("aachen#1"))
}

func TestRecordingSurface_AddThenRemoveCancels(t *testing.T) {
	s := NewRecordingSurface()
	d := testOverlay("dessau", 0)

	s.AddOverlay(d)
	s.RemoveOverlay(d)
	s.RemoveOverlay(d) // not drawn any more

	assert.True(t, s.Flush(nil).Empty())
	assert.Zero(t, s.DrawnCount())

	s.AddOverlay(d)
	s.Flush(nil)
	s.RemoveOverlay(d)
	s.AddOverlay(d)
	assert.True(t, s.Flush(nil).Empty())
	assert.True(t, s.IsDrawn("dessau#0"))
}

func TestPolylineFactory_NewTrackOverlay(t *testing.T) {
	d := PolylineFactory{}.NewTrackOverlay("aachen", 3, domain.Track{
		{Lat: 50.1, Lon: 6.1},
		{Lat: 50.2, Lon: 6.2},
	})

	overlay, ok := d.(*TrackOverlay)
	require.True(t, ok)
	assert.Equal(t, "aachen#3", overlay.OverlayID())
	assert.Equal(t, 3, overlay.Index)
	require.Len(t, overlay.Line, 2)
	// orb keeps lon first
	assert.Equal(t, 6.1, overlay.Line[0][0])
	assert.Equal(t, 50.1, overlay.Line[0][1])
}
