package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/parkrun-map/internal/domain"
	"github.com/parkrun-map/internal/mapsurface"
)

// MockSiteRepository - мок для SiteRepository
type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) List(ctx context.Context) ([]*domain.Site, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Site), args.Error(1)
}

func (m *MockSiteRepository) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Site), args.Error(1)
}

// MockCacheRepository - мок для CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetSites(ctx context.Context) ([]*domain.Site, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Site), args.Error(1)
}

func (m *MockCacheRepository) SetSites(ctx context.Context, sites []*domain.Site, ttl time.Duration) error {
	args := m.Called(ctx, sites, ttl)
	return args.Error(0)
}

// MockMapSurface - мок поверхности карты
type MockMapSurface struct {
	mock.Mock
}

func (m *MockMapSurface) Zoom() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockMapSurface) Bounds() (domain.Bounds, error) {
	args := m.Called()
	return args.Get(0).(domain.Bounds), args.Error(1)
}

func (m *MockMapSurface) AddOverlay(d domain.Drawable) {
	m.Called(d)
}

func (m *MockMapSurface) RemoveOverlay(d domain.Drawable) {
	m.Called(d)
}

// countingSurface считает вызовы добавления и удаления по ID оверлея
type countingSurface struct {
	viewport domain.Viewport
	drawn    map[string]domain.Drawable
	adds     map[string]int
	removes  map[string]int
}

func newCountingSurface() *countingSurface {
	return &countingSurface{
		drawn:   make(map[string]domain.Drawable),
		adds:    make(map[string]int),
		removes: make(map[string]int),
	}
}

func (s *countingSurface) Zoom() (float64, error)         { return s.viewport.Zoom, nil }
func (s *countingSurface) Bounds() (domain.Bounds, error) { return s.viewport.Bounds, nil }

func (s *countingSurface) AddOverlay(d domain.Drawable) {
	s.adds[d.OverlayID()]++
	s.drawn[d.OverlayID()] = d
}

func (s *countingSurface) RemoveOverlay(d domain.Drawable) {
	s.removes[d.OverlayID()]++
	delete(s.drawn, d.OverlayID())
}

func (s *countingSurface) totalOps() int {
	total := 0
	for _, n := range s.adds {
		total += n
	}
	for _, n := range s.removes {
		total += n
	}
	return total
}

func (s *countingSurface) reset() {
	s.adds = make(map[string]int)
	s.removes = make(map[string]int)
}

// countingFactory считает построения оверлеев по площадкам
type countingFactory struct {
	inner mapsurface.PolylineFactory
	calls map[string]int
}

func newCountingFactory() *countingFactory {
	return &countingFactory{calls: make(map[string]int)}
}

func (f *countingFactory) NewTrackOverlay(siteID string, index int, track domain.Track) domain.Drawable {
	f.calls[siteID]++
	return f.inner.NewTrackOverlay(siteID, index, track)
}

func newSite(id string, lat, lon float64, tracks int) *domain.Site {
	site := &domain.Site{
		ID:       id,
		Name:     id,
		Position: domain.Point{Lat: lat, Lon: lon},
		Status:   domain.SiteStatusActive,
		Tracks:   make([]domain.Track, 0, tracks),
	}
	for i := 0; i < tracks; i++ {
		site.Tracks = append(site.Tracks, domain.Track{
			{Lat: lat, Lon: lon},
			{Lat: lat + 0.001*float64(i+1), Lon: lon + 0.001},
		})
	}
	return site
}

func around(lat, lon, delta float64) domain.Bounds {
	return domain.Bounds{MinLat: lat - delta, MinLon: lon - delta, MaxLat: lat + delta, MaxLon: lon + delta}
}
