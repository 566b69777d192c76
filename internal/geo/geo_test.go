package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqiwatch/aqiwatch/internal/geo"
)

func TestDistanceKm_Symmetric(t *testing.T) {
	pune := geo.Coordinate{Lat: 18.5204, Lon: 73.8567}
	mumbai := geo.Coordinate{Lat: 19.0760, Lon: 72.8777}

	ab := geo.DistanceKm(pune, mumbai)
	ba := geo.DistanceKm(mumbai, pune)

	assert.InDelta(t, ab, ba, 1e-9)
	// Pune to Mumbai is roughly 120km as the crow flies.
	assert.InDelta(t, 120.0, ab, 5.0)
}

func TestDistanceKm_IdenticalPoints(t *testing.T) {
	p := geo.Coordinate{Lat: 28.6139, Lon: 77.2090}
	assert.Equal(t, 0.0, geo.DistanceKm(p, p))
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// Delhi to Bangalore, ~1740km.
	delhi := geo.Coordinate{Lat: 28.6139, Lon: 77.2090}
	bangalore := geo.Coordinate{Lat: 12.9716, Lon: 77.5946}

	d := geo.DistanceKm(delhi, bangalore)
	assert.InDelta(t, 1740.0, d, 20.0)
}

func TestBoundingBox(t *testing.T) {
	center := geo.Coordinate{Lat: 18.52, Lon: 73.85}
	sw, ne := geo.BoundingBox(center, 50)

	// 50km at 0.009 deg/km is 0.45 degrees each way.
	assert.InDelta(t, 18.52-0.45, sw.Lat, 1e-9)
	assert.InDelta(t, 73.85-0.45, sw.Lon, 1e-9)
	assert.InDelta(t, 18.52+0.45, ne.Lat, 1e-9)
	assert.InDelta(t, 73.85+0.45, ne.Lon, 1e-9)

	assert.Less(t, sw.Lat, ne.Lat)
	assert.Less(t, sw.Lon, ne.Lon)
}

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		coord   geo.Coordinate
		wantErr bool
	}{
		{"valid", geo.Coordinate{Lat: 18.52, Lon: 73.85}, false},
		{"lat edge", geo.Coordinate{Lat: 90, Lon: 0}, false},
		{"lon edge", geo.Coordinate{Lat: 0, Lon: -180}, false},
		{"lat too high", geo.Coordinate{Lat: 90.01, Lon: 0}, true},
		{"lat too low", geo.Coordinate{Lat: -91, Lon: 0}, true},
		{"lon too high", geo.Coordinate{Lat: 0, Lon: 180.5}, true},
		{"lon too low", geo.Coordinate{Lat: 0, Lon: -181}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.coord.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, geo.ErrInvalidCoordinate)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
