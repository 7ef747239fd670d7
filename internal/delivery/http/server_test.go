package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parkrun-map/internal/config"
	httpDelivery "github.com/parkrun-map/internal/delivery/http"
	"github.com/parkrun-map/internal/delivery/http/handler"
	"github.com/parkrun-map/internal/domain"
	"github.com/parkrun-map/internal/mapsurface"
	"github.com/parkrun-map/internal/usecase"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type sessionData struct {
	SessionID string `json:"session_id"`
	Delta     struct {
		Added struct {
			Features []struct {
				Properties map[string]any `json:"properties"`
				Geometry   struct {
					Type string `json:"type"`
				} `json:"geometry"`
			} `json:"features"`
		} `json:"added"`
		Removed      []string `json:"removed"`
		VisibleSites []string `json:"visible_sites"`
	} `json:"delta"`
}

func newTestServer(t *testing.T) *httpDelivery.Server {
	t.Helper()
	logger := zap.NewNop()

	archived := &domain.Site{
		ID:       "wertwiesen",
		Name:     "Wertwiesen parkrun",
		Position: domain.Point{Lat: 49.13, Lon: 9.22},
		Status:   domain.SiteStatusArchived,
	}
	active := &domain.Site{
		ID:       "dietenbach",
		Name:     "Dietenbach parkrun",
		Position: domain.Point{Lat: 47.99301, Lon: 7.79923},
		Status:   domain.SiteStatusActive,
		Tracks: []domain.Track{
			{{Lat: 47.99301, Lon: 7.79923}, {Lat: 47.99412, Lon: 7.80101}},
		},
	}

	registry := usecase.NewSiteRegistry([]*domain.Site{active, archived}, logger)
	siteUC := usecase.NewSiteUseCase(registry, logger)
	sessionUC := usecase.NewSessionUseCase(registry, mapsurface.PolylineFactory{}, usecase.DefaultZoomThreshold, logger)

	return httpDelivery.NewServer(
		&config.Config{},
		logger,
		handler.NewSiteHandler(siteUC, logger),
		handler.NewSessionHandler(sessionUC, logger),
	)
}

func do(t *testing.T, s *httpDelivery.Server, method, path string, body any) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Sites(t *testing.T) {
	s := newTestServer(t)

	t.Run("list", func(t *testing.T) {
		resp, env := do(t, s, http.MethodGet, "/api/v1/sites", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var markers []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &markers))
		require.Len(t, markers, 2)
		assert.Equal(t, "dietenbach", markers[0]["id"])
		assert.Equal(t, "blue", markers[0]["style"])
		assert.Equal(t, "grey", markers[1]["style"])
		assert.EqualValues(t, 2, env.Meta["total"])
	})

	t.Run("detail", func(t *testing.T) {
		resp, env := do(t, s, http.MethodGet, "/api/v1/sites/wertwiesen", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var detail map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &detail))
		assert.Equal(t, "red", detail["style"])
	})

	t.Run("not found", func(t *testing.T) {
		resp, env := do(t, s, http.MethodGet, "/api/v1/sites/unknown", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "SITE_NOT_FOUND", env.Error.Code)
	})
}

func TestServer_SessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	resp, env := do(t, s, http.MethodPost, "/api/v1/sessions", map[string]any{
		"mode": "overview",
		"viewport": map[string]any{
			"zoom": 13, "sw_lat": 47.9, "sw_lon": 7.7, "ne_lat": 48.1, "ne_lon": 7.9,
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created sessionData
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.SessionID)
	require.Len(t, created.Delta.Added.Features, 1)
	assert.Equal(t, "dietenbach#0", created.Delta.Added.Features[0].Properties["overlay_id"])
	assert.Equal(t, "LineString", created.Delta.Added.Features[0].Geometry.Type)
	assert.Equal(t, []string{"dietenbach"}, created.Delta.VisibleSites)

	viewportPath := fmt.Sprintf("/api/v1/sessions/%s/viewport", created.SessionID)

	// мировой масштаб: долготы углов выходят за ±180
	resp, env = do(t, s, http.MethodPost, viewportPath, map[string]any{
		"zoom": 2, "sw_lat": -85, "sw_lon": -250, "ne_lat": 85, "ne_lon": 250,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var zoomedOut sessionData
	require.NoError(t, json.Unmarshal(env.Data, &zoomedOut))
	assert.Empty(t, zoomedOut.Delta.Added.Features)
	assert.Equal(t, []string{"dietenbach#0"}, zoomedOut.Delta.Removed)
	assert.Empty(t, zoomedOut.Delta.VisibleSites)

	resp, _ = do(t, s, http.MethodDelete, "/api/v1/sessions/"+created.SessionID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, env = do(t, s, http.MethodPost, viewportPath, map[string]any{
		"zoom": 12, "sw_lat": 47.9, "sw_lon": 7.7, "ne_lat": 48.1, "ne_lon": 7.9,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SESSION_NOT_FOUND", env.Error.Code)
}

func TestServer_SessionErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing viewport",
			method:   http.MethodPost,
			path:     "/api/v1/sessions",
			body:     map[string]any{"mode": "overview"},
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_REQUEST",
		},
		{
			name:     "unknown mode",
			method:   http.MethodPost,
			path:     "/api/v1/sessions",
			body:     map[string]any{"mode": "globe", "viewport": map[string]any{"zoom": 5}},
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_REQUEST",
		},
		{
			name:     "detail without site",
			method:   http.MethodPost,
			path:     "/api/v1/sessions",
			body:     map[string]any{"mode": "detail", "viewport": map[string]any{"zoom": 5}},
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_REQUEST",
		},
		{
			name:   "detail with unknown site",
			method: http.MethodPost,
			path:   "/api/v1/sessions",
			body: map[string]any{"mode": "detail", "site_id": "nope", "viewport": map[string]any{
				"zoom": 12, "sw_lat": 47, "sw_lon": 7, "ne_lat": 48, "ne_lon": 8,
			}},
			wantCode: http.StatusNotFound,
			wantErr:  "SITE_NOT_FOUND",
		},
		{
			name:   "inverted bounds",
			method: http.MethodPost,
			path:   "/api/v1/sessions",
			body: map[string]any{"viewport": map[string]any{
				"zoom": 12, "sw_lat": 48, "sw_lon": 8, "ne_lat": 47, "ne_lon": 7,
			}},
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_VIEWPORT",
		},
		{
			name:     "zoom out of range",
			method:   http.MethodPost,
			path:     "/api/v1/sessions/" + "7c9e6679-7425-40de-944b-e07fc1f90ae7" + "/viewport",
			body:     map[string]any{"zoom": 40},
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_REQUEST",
		},
		{
			name:     "malformed session id",
			method:   http.MethodPost,
			path:     "/api/v1/sessions/not-a-uuid/viewport",
			body:     map[string]any{"zoom": 4},
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_REQUEST",
		},
		{
			name:     "close unknown session",
			method:   http.MethodDelete,
			path:     "/api/v1/sessions/7c9e6679-7425-40de-944b-e07fc1f90ae7",
			wantCode: http.StatusNotFound,
			wantErr:  "SESSION_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := do(t, s, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantErr, env.Error.Code)
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "parkrunmap_registry_sites")
}
