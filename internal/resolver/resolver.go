// Package resolver orchestrates air quality resolution: it turns a
// coordinate, a search query, or a refresh trigger into one authoritative
// reading plus a ranked list of nearby stations.
package resolver

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/geo"
	"github.com/aqiwatch/aqiwatch/internal/location"
)

const tracerName = "github.com/aqiwatch/aqiwatch/internal/resolver"

// Resolution errors.
var (
	// ErrEmptyQuery means the search text was empty after trimming.
	ErrEmptyQuery = errors.New("search text is empty")

	// ErrNoLocation means refresh was asked for without a prior coordinate
	// and the device locator failed.
	ErrNoLocation = errors.New("no location available")
)

// ruralCityLabel is shown when the provider has no station for the point.
const ruralCityLabel = "Rural area – limited data"

// State is the lifecycle state of the pipeline.
type State string

const (
	StateIdle      State = "IDLE"
	StateResolving State = "RESOLVING"
	StateResolved  State = "RESOLVED"
	StateFailed    State = "FAILED"
)

// Snapshot is the externally observed pipeline state. It is replaced as a
// whole on every completed attempt; consumers never see partial updates.
type Snapshot struct {
	State State

	// Reading is the most recent successful reading. It survives failed
	// attempts so a prior result stays displayable alongside the error.
	Reading *airquality.Reading

	// Stations are ranked ascending by distance, capped, with placeholder
	// AQI entries removed. Empty on keyword resolutions without geo data
	// and when the best-effort station fetch failed.
	Stations []airquality.StationSummary

	// CityLabel is the display label for the resolved place. On failures it
	// carries the raw query text or the rural-area label.
	CityLabel string

	// Err is the terminal error of the last attempt, nil when Resolved.
	Err error

	// Message is a human-readable description of Err.
	Message string
}

// Config holds configuration for the pipeline.
type Config struct {
	// Provider is the air quality data source (required).
	Provider airquality.Provider

	// Locator supplies the device position for Refresh without a prior
	// coordinate. Defaults to location.None.
	Locator location.Locator

	// Logger for pipeline operations.
	Logger zerolog.Logger

	// StationRadiusKm is the nearby-station search radius (default: 50).
	StationRadiusKm float64

	// StationLimit caps the ranked station list (default: 20).
	StationLimit int

	// AttemptTimeout bounds one whole resolution attempt (default: 10s).
	AttemptTimeout time.Duration
}

// Pipeline is the single owner of the current-reading slot. Each attempt gets
// a generation number and a cancelable context; starting a new attempt
// cancels the in-flight one, and a superseded completion is discarded so the
// last completed attempt is always authoritative.
type Pipeline struct {
	provider airquality.Provider
	locator  location.Locator
	logger   zerolog.Logger

	radiusKm float64
	limit    int
	timeout  time.Duration

	mu         sync.Mutex
	snapshot   Snapshot
	lastCoord  *geo.Coordinate
	generation uint64
	cancel     context.CancelFunc
}

// New creates a resolution pipeline in the Idle state.
func New(cfg Config) *Pipeline {
	locator := cfg.Locator
	if locator == nil {
		locator = location.None{}
	}
	radius := cfg.StationRadiusKm
	if radius <= 0 {
		radius = 50
	}
	limit := cfg.StationLimit
	if limit <= 0 {
		limit = 20
	}
	timeout := cfg.AttemptTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Pipeline{
		provider: cfg.Provider,
		locator:  locator,
		logger:   cfg.Logger,
		radiusKm: radius,
		limit:    limit,
		timeout:  timeout,
		snapshot: Snapshot{State: StateIdle},
	}
}

// Snapshot returns a copy of the current pipeline state.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// ResolveByCoordinate resolves the point feed for a coordinate and then
// fetches nearby stations best-effort. A station fetch failure degrades to an
// empty list and never fails the attempt.
func (p *Pipeline) ResolveByCoordinate(ctx context.Context, coord geo.Coordinate) (Snapshot, error) {
	if err := coord.Validate(); err != nil {
		return p.Snapshot(), err
	}

	actx, gen, cancel := p.begin(ctx)
	defer cancel()

	actx, span := otel.Tracer(tracerName).Start(actx, "resolver.ResolveByCoordinate")
	span.SetAttributes(
		attribute.Float64("location.lat", coord.Lat),
		attribute.Float64("location.lon", coord.Lon),
	)
	defer span.End()

	reading, err := p.provider.FetchPointFeed(actx, coord)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return p.fail(gen, err)
	}

	// The point feed is confirmed before the station query is issued; the
	// two calls are sequenced, not concurrent.
	stations := p.nearbyStations(actx, coord)
	span.SetAttributes(attribute.Int("stations.count", len(stations)))

	return p.succeed(gen, &coord, reading, stations, reading.CityName)
}

// ResolveByKeyword resolves free-text search input. Only the first provider
// hit is used; provider ranking is trusted. When the hit lacks geo data the
// station list is deliberately left empty.
func (p *Pipeline) ResolveByKeyword(ctx context.Context, text string) (Snapshot, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		return p.Snapshot(), ErrEmptyQuery
	}

	actx, gen, cancel := p.begin(ctx)
	defer cancel()

	actx, span := otel.Tracer(tracerName).Start(actx, "resolver.ResolveByKeyword")
	span.SetAttributes(attribute.String("search.query", query))
	defer span.End()

	hits, err := p.provider.SearchByKeyword(actx, query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return p.failWithLabel(gen, err, query)
	}
	if len(hits) == 0 {
		span.SetStatus(codes.Error, airquality.ErrNoStation.Error())
		return p.failWithLabel(gen, airquality.ErrNoStation, query)
	}

	hit := hits[0]

	var reading *airquality.Reading
	if hit.StationID != 0 {
		reading, err = p.provider.FetchFeedByStation(actx, hit.StationID)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return p.failWithLabel(gen, err, query)
		}
	} else {
		// A hit without a station ID still names a place and an AQI value.
		reading = &airquality.Reading{
			AQI:        hit.AQI,
			CityName:   hit.Name,
			Coordinate: hit.Coordinate,
			FetchedAt:  time.Now(),
		}
	}

	var stations []airquality.StationSummary
	var coord *geo.Coordinate
	if hit.Coordinate != nil {
		coord = hit.Coordinate
		stations = p.nearbyStations(actx, *hit.Coordinate)
	} else if reading.HasCoordinate() {
		coord = reading.Coordinate
	}

	return p.succeed(gen, coord, reading, stations, reading.CityName)
}

// Refresh re-resolves the last coordinate, falling back to the device locator
// when no resolution has succeeded yet.
func (p *Pipeline) Refresh(ctx context.Context) (Snapshot, error) {
	p.mu.Lock()
	last := p.lastCoord
	p.mu.Unlock()

	if last != nil {
		return p.ResolveByCoordinate(ctx, *last)
	}

	coord, err := p.locator.Current(ctx)
	if err != nil {
		return p.failNow(err)
	}

	return p.ResolveByCoordinate(ctx, coord)
}

// failNow records a failure that needs no provider call, such as a locator
// error, while still superseding any in-flight attempt.
func (p *Pipeline) failNow(err error) (Snapshot, error) {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	return p.fail(gen, err)
}

// begin starts a new attempt: it bumps the generation, cancels any in-flight
// attempt, and moves the pipeline to Resolving.
func (p *Pipeline) begin(ctx context.Context) (context.Context, uint64, context.CancelFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.generation++
	gen := p.generation

	if p.cancel != nil {
		p.cancel()
	}

	actx, cancel := context.WithTimeout(ctx, p.timeout)
	p.cancel = cancel
	p.snapshot.State = StateResolving

	return actx, gen, cancel
}

// succeed installs a fresh resolved snapshot unless a newer attempt has
// started since gen.
func (p *Pipeline) succeed(gen uint64, coord *geo.Coordinate, reading *airquality.Reading, stations []airquality.StationSummary, label string) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		p.logger.Debug().Uint64("generation", gen).Msg("discarding superseded resolution result")
		return p.snapshot, nil
	}

	if coord != nil {
		c := *coord
		p.lastCoord = &c
	}

	p.snapshot = Snapshot{
		State:     StateResolved,
		Reading:   reading,
		Stations:  stations,
		CityLabel: label,
	}

	p.logger.Info().
		Str("city", label).
		Int("aqi", reading.AQI).
		Int("stations", len(stations)).
		Msg("resolution completed")

	return p.snapshot, nil
}

// fail records a failed attempt, preserving the previous successful reading.
func (p *Pipeline) fail(gen uint64, err error) (Snapshot, error) {
	label := ""
	if errors.Is(err, airquality.ErrNoStation) {
		label = ruralCityLabel
	}
	return p.failWithLabel(gen, err, label)
}

func (p *Pipeline) failWithLabel(gen uint64, err error, label string) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		p.logger.Debug().Uint64("generation", gen).Msg("discarding superseded resolution failure")
		return p.snapshot, nil
	}

	if label == "" {
		label = p.snapshot.CityLabel
	}

	p.snapshot = Snapshot{
		State:     StateFailed,
		Reading:   p.snapshot.Reading,
		Stations:  nil,
		CityLabel: label,
		Err:       err,
		Message:   errorMessage(err),
	}

	p.logger.Warn().Err(err).Str("city", label).Msg("resolution failed")

	return p.snapshot, err
}

// nearbyStations fetches, filters, ranks, and caps the station list. Any
// failure is swallowed to an empty list; station data is best-effort.
func (p *Pipeline) nearbyStations(ctx context.Context, coord geo.Coordinate) []airquality.StationSummary {
	records, err := p.provider.FetchNearbyStations(ctx, coord, p.radiusKm)
	if err != nil {
		p.logger.Warn().Err(err).Msg("nearby station fetch failed")
		return nil
	}

	return RankStations(coord, records, p.limit)
}

// RankStations turns raw station records into the ranked summary list:
// placeholder-AQI stations are dropped, distances are computed from the query
// coordinate and rounded to one decimal, and the result is sorted ascending
// by distance (stable, so provider order breaks ties) and capped at limit.
func RankStations(origin geo.Coordinate, records []airquality.StationRecord, limit int) []airquality.StationSummary {
	summaries := make([]airquality.StationSummary, 0, len(records))
	for _, rec := range records {
		if rec.AQI == airquality.AQIUnknown {
			continue
		}
		d := geo.DistanceKm(origin, rec.Coordinate)
		summaries = append(summaries, airquality.StationSummary{
			Name:       rec.Name,
			Coordinate: rec.Coordinate,
			AQI:        rec.AQI,
			DistanceKm: math.Round(d*10) / 10,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].DistanceKm < summaries[j].DistanceKm
	})

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}

	return summaries
}

// errorMessage maps an attempt error to a display string.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, airquality.ErrNoStation):
		return "No monitoring station found for this location"
	case errors.Is(err, airquality.ErrMissingToken):
		return "Air quality provider is not configured"
	case errors.Is(err, location.ErrPermissionDenied), errors.Is(err, location.ErrUnavailable):
		return "Could not determine your location"
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out. Please try again"
	default:
		return "Network error. Please check your connection"
	}
}
