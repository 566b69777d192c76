package models

import (
	"time"

	"github.com/aqiwatch/aqiwatch/internal/locations"
)

// SaveLocationRequest is the body for saving the current reading.
type SaveLocationRequest struct {
	City string  `json:"city"`
	AQI  int     `json:"aqi"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// SavedLocation is one entry in the saved-locations list.
type SavedLocation struct {
	ID      string    `json:"id"`
	City    string    `json:"city"`
	AQI     int       `json:"aqi"`
	Level   string    `json:"level"`
	Point   Point     `json:"point"`
	SavedAt time.Time `json:"savedAt"`
}

// SavedLocationList wraps the saved-locations collection.
type SavedLocationList struct {
	Items []SavedLocation `json:"items"`
}

// NewSavedLocation converts a domain saved location to its wire form.
func NewSavedLocation(loc locations.SavedLocation) SavedLocation {
	return SavedLocation{
		ID:      loc.ID,
		City:    loc.City,
		AQI:     loc.AQI,
		Level:   loc.Level,
		Point:   Point{Lat: loc.Coordinate.Lat, Lon: loc.Coordinate.Lon},
		SavedAt: loc.SavedAt,
	}
}

// NewSavedLocationList converts a domain list, preserving order.
func NewSavedLocationList(list []locations.SavedLocation) SavedLocationList {
	items := make([]SavedLocation, 0, len(list))
	for _, loc := range list {
		items = append(items, NewSavedLocation(loc))
	}
	return SavedLocationList{Items: items}
}
