package utils

import (
	"math"
	"testing"

	"github.com/parkrun-map/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(50.77, 6.08))
	assert.True(t, ValidateCoordinates(-90, 180))
	assert.False(t, ValidateCoordinates(100, 0))
	assert.False(t, ValidateCoordinates(0, -181))
	assert.False(t, ValidateCoordinates(math.NaN(), 0))
}

func TestTrackLengthKm(t *testing.T) {
	assert.Zero(t, TrackLengthKm(nil))
	assert.Zero(t, TrackLengthKm(domain.Track{{Lat: 50, Lon: 6}}))

	// one degree of latitude is roughly 111.2 km
	length := TrackLengthKm(domain.Track{{Lat: 50, Lon: 6}, {Lat: 50.5, Lon: 6}, {Lat: 51, Lon: 6}})
	assert.InDelta(t, 111.2, length, 0.5)
}
