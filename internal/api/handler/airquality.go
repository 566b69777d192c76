// Package handler provides HTTP handlers for the aqiwatch API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/api/models"
	"github.com/aqiwatch/aqiwatch/internal/api/response"
	"github.com/aqiwatch/aqiwatch/internal/aqi"
	"github.com/aqiwatch/aqiwatch/internal/geo"
	"github.com/aqiwatch/aqiwatch/internal/provider/resilience"
	"github.com/aqiwatch/aqiwatch/internal/resolver"
	"github.com/aqiwatch/aqiwatch/internal/share"
)

// AirHandler handles air quality resolution endpoints. Each request runs its
// own one-shot resolution; no state is shared between callers.
type AirHandler struct {
	provider airquality.Provider
	logger   zerolog.Logger
}

// NewAirHandler creates a new AirHandler.
func NewAirHandler(provider airquality.Provider, logger zerolog.Logger) *AirHandler {
	return &AirHandler{provider: provider, logger: logger}
}

func (h *AirHandler) pipeline() *resolver.Pipeline {
	return resolver.New(resolver.Config{
		Provider: h.provider,
		Logger:   h.logger,
	})
}

// Current handles GET /v1/air/current?lat&lon - resolve a coordinate to a
// reading plus ranked nearby stations.
func (h *AirHandler) Current(w http.ResponseWriter, r *http.Request) {
	coord, fieldErrs := parseCoordinate(r)
	if fieldErrs != nil {
		response.BadRequest(w, r, "invalid coordinate", fieldErrs)
		return
	}

	snap, err := h.pipeline().ResolveByCoordinate(r.Context(), coord)
	if err != nil {
		writeResolutionError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewAirReport(snap.Reading, snap.Stations, localeFrom(r)))
}

// Search handles GET /v1/air/search?q= - resolve free-text search input.
func (h *AirHandler) Search(w http.ResponseWriter, r *http.Request) {
	snap, err := h.pipeline().ResolveByKeyword(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, resolver.ErrEmptyQuery) {
			response.BadRequest(w, r, "q is required", nil)
			return
		}
		writeResolutionError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewAirReport(snap.Reading, snap.Stations, localeFrom(r)))
}

// Share handles GET /v1/air/share?lat&lon - resolve a coordinate and return
// the plain-text share message for the reading.
func (h *AirHandler) Share(w http.ResponseWriter, r *http.Request) {
	coord, fieldErrs := parseCoordinate(r)
	if fieldErrs != nil {
		response.BadRequest(w, r, "invalid coordinate", fieldErrs)
		return
	}

	snap, err := h.pipeline().ResolveByCoordinate(r.Context(), coord)
	if err != nil {
		writeResolutionError(w, r, err)
		return
	}

	response.Text(w, r, http.StatusOK, share.Message(snap.Reading, localeFrom(r)))
}

// parseCoordinate reads and validates the lat/lon query parameters.
func parseCoordinate(r *http.Request) (geo.Coordinate, []models.FieldError) {
	var fieldErrs []models.FieldError

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "lat", Message: "must be a number"})
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "lon", Message: "must be a number"})
	}
	if fieldErrs != nil {
		return geo.Coordinate{}, fieldErrs
	}

	coord := geo.Coordinate{Lat: lat, Lon: lon}
	if err := coord.Validate(); err != nil {
		return geo.Coordinate{}, []models.FieldError{
			{Field: "lat,lon", Message: "out of range"},
		}
	}
	return coord, nil
}

// localeFrom reads the locale query parameter, defaulting to English.
func localeFrom(r *http.Request) aqi.Locale {
	if loc := r.URL.Query().Get("locale"); loc != "" {
		return aqi.Locale(loc)
	}
	return aqi.LocaleEnglish
}

// writeResolutionError maps a resolution error to its problem response.
func writeResolutionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, geo.ErrInvalidCoordinate):
		response.BadRequest(w, r, err.Error(), nil)
	case errors.Is(err, airquality.ErrNoStation):
		response.NotFound(w, r, "no monitoring station found for this location")
	case errors.Is(err, airquality.ErrMissingToken),
		errors.Is(err, resilience.ErrCircuitOpen):
		response.ServiceUnavailable(w, r, "air quality provider is unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		response.BadGateway(w, r, "air quality provider timed out")
	default:
		response.BadGateway(w, r, "air quality provider request failed")
	}
}
