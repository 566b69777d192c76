// Package models defines the wire types for the HTTP API.
package models

import (
	"time"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/aqi"
)

// Point is a wire-format coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ForecastDay is one day of a pollutant forecast series.
type ForecastDay struct {
	Date    string `json:"date"`
	Average int    `json:"avg"`
	Max     int    `json:"max"`
	Min     int    `json:"min"`
}

// Station is one nearby monitoring station in a report.
type Station struct {
	Name       string  `json:"name"`
	Point      Point   `json:"point"`
	AQI        int     `json:"aqi"`
	DistanceKm float64 `json:"distanceKm"`
}

// AirReport is the resolved reading for a location plus its ranked nearby
// stations, classified for display.
type AirReport struct {
	AQI               int                      `json:"aqi"`
	City              string                   `json:"city"`
	Level             string                   `json:"level"`
	Advice            string                   `json:"advice"`
	Color             string                   `json:"color"`
	DominantPollutant string                   `json:"dominantPollutant,omitempty"`
	Point             *Point                   `json:"point,omitempty"`
	Pollutants        map[string]float64       `json:"pollutants,omitempty"`
	Forecast          map[string][]ForecastDay `json:"forecast,omitempty"`
	FetchedAt         time.Time                `json:"fetchedAt"`
	Stations          []Station                `json:"stations"`
}

// NewAirReport builds the wire report from a domain reading and its ranked
// station list.
func NewAirReport(reading *airquality.Reading, stations []airquality.StationSummary, loc aqi.Locale) AirReport {
	report := AirReport{
		AQI:               reading.AQI,
		City:              reading.CityName,
		Level:             aqi.Level(reading.AQI, loc),
		Advice:            aqi.HealthAdvice(reading.AQI, loc),
		Color:             aqi.Bucket(reading.AQI).Hex(),
		DominantPollutant: reading.DominantPollutant,
		FetchedAt:         reading.FetchedAt,
		Stations:          make([]Station, 0, len(stations)),
	}

	if reading.HasCoordinate() {
		report.Point = &Point{Lat: reading.Coordinate.Lat, Lon: reading.Coordinate.Lon}
	}

	if len(reading.Pollutants) > 0 {
		report.Pollutants = make(map[string]float64, len(reading.Pollutants))
		for code, value := range reading.Pollutants {
			report.Pollutants[string(code)] = value
		}
	}

	if len(reading.Forecast) > 0 {
		report.Forecast = make(map[string][]ForecastDay, len(reading.Forecast))
		for code, days := range reading.Forecast {
			series := make([]ForecastDay, 0, len(days))
			for _, d := range days {
				series = append(series, ForecastDay{
					Date:    d.Date,
					Average: d.Average,
					Max:     d.Max,
					Min:     d.Min,
				})
			}
			report.Forecast[string(code)] = series
		}
	}

	for _, s := range stations {
		report.Stations = append(report.Stations, Station{
			Name:       s.Name,
			Point:      Point{Lat: s.Coordinate.Lat, Lon: s.Coordinate.Lon},
			AQI:        s.AQI,
			DistanceKm: s.DistanceKm,
		})
	}

	return report
}

// ShareText is the plain-text share message for a reading.
type ShareText struct {
	Text string `json:"text"`
}
