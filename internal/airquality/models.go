// Package airquality defines the domain model for air quality readings and
// monitoring stations.
package airquality

import (
	"errors"
	"time"

	"github.com/aqiwatch/aqiwatch/internal/geo"
)

// Provider errors.
var (
	// ErrNoStation means the provider responded but has no usable data for
	// the requested point or query.
	ErrNoStation = errors.New("no station data for location")

	// ErrMissingToken means the provider access token is absent. Calls fail
	// fast before any network I/O.
	ErrMissingToken = errors.New("provider token not configured")
)

// AQIUnknown is the sentinel for a reading or station whose AQI value was a
// non-numeric placeholder upstream.
const AQIUnknown = -1

// UnknownStationName is used when the provider omits a station name.
const UnknownStationName = "Unknown Station"

// Pollutant is a provider pollutant code (pm25, pm10, no2, o3, co, so2) or a
// meteorological code (t, h, p, w) carried in the same map upstream.
type Pollutant string

const (
	PollutantPM25 Pollutant = "pm25"
	PollutantPM10 Pollutant = "pm10"
	PollutantNO2  Pollutant = "no2"
	PollutantO3   Pollutant = "o3"
	PollutantCO   Pollutant = "co"
	PollutantSO2  Pollutant = "so2"

	MetricTemperature Pollutant = "t"
	MetricHumidity    Pollutant = "h"
	MetricPressure    Pollutant = "p"
	MetricWind        Pollutant = "w"
)

// ForecastDay is one day of a pollutant forecast series.
type ForecastDay struct {
	Date    string
	Average int
	Max     int
	Min     int
}

// Reading is the resolved air quality state for one location. A new Reading
// fully replaces the previous one; it is never partially updated.
type Reading struct {
	// AQI is the overall index value, or AQIUnknown.
	AQI int

	// CityName is the provider's display name for the location. For keyword
	// resolutions with no match it holds the raw query text.
	CityName string

	// Coordinate is nil when the reading was resolved from a keyword match
	// that carried no geo data.
	Coordinate *geo.Coordinate

	// Pollutants maps pollutant/metric codes to their current values.
	Pollutants map[Pollutant]float64

	// DominantPollutant is the code contributing most to the AQI, if known.
	DominantPollutant string

	// Forecast holds daily series per pollutant, ordered by date.
	Forecast map[Pollutant][]ForecastDay

	// FetchedAt is when this reading was retrieved from the provider.
	FetchedAt time.Time
}

// HasCoordinate reports whether the reading carries geo data.
func (r *Reading) HasCoordinate() bool {
	return r != nil && r.Coordinate != nil
}

// StationSummary is one nearby monitoring station, ranked by distance from
// the query coordinate. Stations with placeholder AQI values are dropped
// before ranking and never appear here.
type StationSummary struct {
	Name       string
	Coordinate geo.Coordinate
	AQI        int

	// DistanceKm is relative to the query coordinate, rounded to 1 decimal.
	DistanceKm float64
}
