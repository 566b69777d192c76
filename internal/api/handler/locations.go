package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/api/models"
	"github.com/aqiwatch/aqiwatch/internal/api/response"
	"github.com/aqiwatch/aqiwatch/internal/geo"
	"github.com/aqiwatch/aqiwatch/internal/locations"
)

// LocationsHandler handles saved-location endpoints.
type LocationsHandler struct {
	service *locations.Service
}

// NewLocationsHandler creates a new LocationsHandler.
func NewLocationsHandler(service *locations.Service) *LocationsHandler {
	return &LocationsHandler{service: service}
}

// List handles GET /v1/locations - list saved locations, most recent first.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "could not load saved locations")
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewSavedLocationList(list))
}

// Save handles POST /v1/locations - save the current reading as a location.
func (h *LocationsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var input models.SaveLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	coord := geo.Coordinate{Lat: input.Lat, Lon: input.Lon}
	if err := coord.Validate(); err != nil {
		response.BadRequest(w, r, "invalid coordinate", []models.FieldError{
			{Field: "lat,lon", Message: "out of range"},
		})
		return
	}

	reading := &airquality.Reading{
		AQI:        input.AQI,
		CityName:   input.City,
		Coordinate: &coord,
		FetchedAt:  time.Now(),
	}

	saved, err := h.service.Add(r.Context(), reading)
	if err != nil {
		switch {
		case errors.Is(err, locations.ErrDuplicateCity):
			response.Conflict(w, r, fmt.Sprintf("%q is already saved", input.City))
		case errors.Is(err, locations.ErrMissingCity), errors.Is(err, locations.ErrMissingCoordinate):
			response.BadRequest(w, r, err.Error(), nil)
		default:
			response.InternalError(w, r, "could not save location")
		}
		return
	}

	response.Created(w, r, "/v1/locations/"+saved.ID, models.NewSavedLocation(*saved))
}

// Delete handles DELETE /v1/locations/{city} - remove a saved location.
// Removal is idempotent; deleting an absent city still returns 204.
func (h *LocationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	if city == "" {
		response.BadRequest(w, r, "city is required", nil)
		return
	}

	if err := h.service.Remove(r.Context(), city); err != nil {
		response.InternalError(w, r, "could not remove location")
		return
	}

	response.NoContent(w, r)
}
