// Package geo provides coordinate types and distance calculations.
package geo

import (
	"errors"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// degreesPerKm approximates one kilometre in decimal degrees. It is only
// accurate enough to size a search box, not for precision display.
const degreesPerKm = 0.009

// ErrInvalidCoordinate is returned when a latitude or longitude is out of range.
var ErrInvalidCoordinate = errors.New("coordinate out of range")

// Coordinate is an immutable latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Validate checks that the coordinate is within the valid range
// (latitude [-90,90], longitude [-180,180]).
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// DistanceKm returns the great-circle distance between two coordinates in
// kilometres using the haversine formula.
func DistanceKm(a, b Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BoundingBox returns the southwest and northeast corners of a square box
// centred on the given coordinate, sized so that it covers roughly radiusKm
// in every direction.
func BoundingBox(center Coordinate, radiusKm float64) (sw, ne Coordinate) {
	delta := radiusKm * degreesPerKm
	sw = Coordinate{Lat: center.Lat - delta, Lon: center.Lon - delta}
	ne = Coordinate{Lat: center.Lat + delta, Lon: center.Lon + delta}
	return sw, ne
}
