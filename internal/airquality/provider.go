package airquality

import (
	"context"

	"github.com/aqiwatch/aqiwatch/internal/geo"
)

// StationRecord is a normalized bounding-box search result before distance
// ranking. AQI may be AQIUnknown when the provider reported a placeholder.
type StationRecord struct {
	Name       string
	Coordinate geo.Coordinate
	AQI        int
}

// SearchHit is a normalized keyword search result. Coordinate is nil when the
// provider hit carried no geo data.
type SearchHit struct {
	StationID  int
	Name       string
	AQI        int
	Coordinate *geo.Coordinate
}

// Provider is the gateway to one external air quality data source. All calls
// are stateless; implementations must be safe for concurrent use.
type Provider interface {
	// FetchPointFeed returns the full reading for a coordinate. A provider
	// response without usable data yields ErrNoStation.
	FetchPointFeed(ctx context.Context, coord geo.Coordinate) (*Reading, error)

	// FetchNearbyStations returns stations within roughly radiusKm of the
	// coordinate. An empty result is a normal outcome, not an error.
	FetchNearbyStations(ctx context.Context, coord geo.Coordinate, radiusKm float64) ([]StationRecord, error)

	// SearchByKeyword returns ranked search hits for free text. No matches
	// yields an empty slice.
	SearchByKeyword(ctx context.Context, text string) ([]SearchHit, error)

	// FetchFeedByStation resolves a search hit's station ID to a reading.
	FetchFeedByStation(ctx context.Context, stationID int) (*Reading, error)
}
