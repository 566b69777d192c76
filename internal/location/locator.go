// Package location defines the device location provider contract.
package location

import (
	"context"
	"errors"

	"github.com/aqiwatch/aqiwatch/internal/geo"
)

// Locator errors.
var (
	// ErrPermissionDenied means the user refused the location permission.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrUnavailable means the platform could not produce a position.
	ErrUnavailable = errors.New("location provider unavailable")
)

// Locator yields the device's current position. Implementations live at the
// platform edge; this package only owns the contract.
type Locator interface {
	Current(ctx context.Context) (geo.Coordinate, error)
}

// Static is a Locator pinned to a fixed coordinate, for deployments and tests
// without a real location provider.
type Static struct {
	Coordinate geo.Coordinate
}

// Current returns the pinned coordinate.
func (s Static) Current(_ context.Context) (geo.Coordinate, error) {
	if err := s.Coordinate.Validate(); err != nil {
		return geo.Coordinate{}, ErrUnavailable
	}
	return s.Coordinate, nil
}

// None is a Locator that always fails, for contexts where device location is
// not wired up at all.
type None struct{}

// Current always reports the provider as unavailable.
func (None) Current(_ context.Context) (geo.Coordinate, error) {
	return geo.Coordinate{}, ErrUnavailable
}
