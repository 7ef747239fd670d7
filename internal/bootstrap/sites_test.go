package bootstrap_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parkrun-map/internal/bootstrap"
	"github.com/parkrun-map/internal/config"
)

const sitesJSON = `[
  {"id": "dietenbach", "name": "Dietenbach parkrun", "location": "Freiburg", "lat": 47.98, "lon": 7.79,
   "status": "active", "tracks": [[[47.98, 7.79], [47.99, 7.80], [48.0, 7.81]]]},
  {"id": "seepark", "name": "Seepark parkrun", "location": "Freiburg", "lat": 48.01, "lon": 7.82,
   "status": "planned"}
]`

func fileConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "parkruns.json")
	require.NoError(t, os.WriteFile(path, []byte(sitesJSON), 0o600))

	return &config.Config{
		Sites: config.SitesConfig{
			Source:                config.SitesSourceFile,
			File:                  path,
			KMLDir:                dir,
			TrackMaxPoints:        100,
			SimplifyPrecision:     0.00001,
			SimplifyPrecisionStep: 0.000001,
		},
	}
}

func TestKMLOptions(t *testing.T) {
	opts := bootstrap.KMLOptions(&config.SitesConfig{TrackMaxPoints: 50, SimplifyPrecision: 0.1, SimplifyPrecisionStep: 0.01})

	assert.Equal(t, 50, opts.MaxPoints)
	assert.Equal(t, 0.1, opts.Precision)
	assert.Equal(t, 0.01, opts.PrecisionStep)
}

func TestOpenSiteRepository_Unknown(t *testing.T) {
	_, _, err := bootstrap.OpenSiteRepository(context.Background(), &config.Config{Sites: config.SitesConfig{Source: "s3"}}, zap.NewNop())

	assert.Error(t, err)
}

func TestLoadRegistry_File(t *testing.T) {
	registry, err := bootstrap.LoadRegistry(context.Background(), fileConfig(t), zap.NewNop())
	require.NoError(t, err)

	require.Len(t, registry.All(), 2)
	site, err := registry.Get("dietenbach")
	require.NoError(t, err)
	assert.Len(t, site.Tracks, 1)

	// без треков и без KML-файла площадка остаётся без оверлеев
	planned, err := registry.Get("seepark")
	require.NoError(t, err)
	assert.Empty(t, planned.Tracks)
}
