// Package locations manages the user's persisted list of saved locations.
package locations

import (
	"errors"
	"time"

	"github.com/aqiwatch/aqiwatch/internal/geo"
)

// Store errors.
var (
	// ErrDuplicateCity means a location with the same city name is already
	// saved. The existing entry is never overwritten.
	ErrDuplicateCity = errors.New("city already saved")

	// ErrMissingCoordinate means the reading has no geo data to save.
	ErrMissingCoordinate = errors.New("reading has no coordinate")

	// ErrMissingCity means the reading has no city name to key on.
	ErrMissingCity = errors.New("reading has no city name")
)

// SavedLocation is one persisted favorite. AQI and Level are snapshots taken
// at save time and are not refreshed afterwards.
type SavedLocation struct {
	ID         string         `json:"id"`
	City       string         `json:"city"`
	AQI        int            `json:"aqi"`
	Level      string         `json:"level"`
	Coordinate geo.Coordinate `json:"coordinate"`
	SavedAt    time.Time      `json:"savedAt"`
}
