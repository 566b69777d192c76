// Package waqi provides a client for the World Air Quality Index API.
package waqi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/geo"
	"github.com/aqiwatch/aqiwatch/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the WAQI API.
	DefaultBaseURL = "https://api.waqi.info"

	// ProviderName identifies this provider.
	ProviderName = "waqi"

	statusOK = "ok"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the WAQI client.
type ClientConfig struct {
	// Token is the WAQI access token (required).
	Token string

	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client with
	// a 10s timeout is created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// Client is a WAQI API client. It is stateless and safe for concurrent use.
type Client struct {
	token      string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new WAQI client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:    ProviderName,
			Timeout: timeout,
		})
	}

	return &Client{
		token:      cfg.Token,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// API response types (from the WAQI API).

// flexAQI decodes WAQI's aqi field, which is a number on feed endpoints and a
// string (sometimes the "-" placeholder) on map and search endpoints.
type flexAQI int

func (f *flexAQI) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = airquality.AQIUnknown
		return nil
	}
	*f = flexAQI(n)
	return nil
}

type feedResponse struct {
	Status string   `json:"status"`
	Data   feedData `json:"data"`
}

type feedData struct {
	AQI         flexAQI                  `json:"aqi"`
	City        cityData                 `json:"city"`
	IAQI        map[string]measuredValue `json:"iaqi"`
	Forecast    forecastData             `json:"forecast"`
	DominentPol string                   `json:"dominentpol"`
}

type cityData struct {
	Name string    `json:"name"`
	Geo  []float64 `json:"geo"`
}

type measuredValue struct {
	V float64 `json:"v"`
}

type forecastData struct {
	Daily map[string][]dailyEntry `json:"daily"`
}

type dailyEntry struct {
	Day string `json:"day"`
	Avg int    `json:"avg"`
	Max int    `json:"max"`
	Min int    `json:"min"`
}

type boundsResponse struct {
	Status string          `json:"status"`
	Data   []boundsStation `json:"data"`
}

type boundsStation struct {
	Lat     float64     `json:"lat"`
	Lon     float64     `json:"lon"`
	AQI     flexAQI     `json:"aqi"`
	Station stationInfo `json:"station"`
}

type stationInfo struct {
	Name string    `json:"name"`
	Geo  []float64 `json:"geo"`
}

type searchResponse struct {
	Status string      `json:"status"`
	Data   []searchHit `json:"data"`
}

type searchHit struct {
	UID     int         `json:"uid"`
	AQI     flexAQI     `json:"aqi"`
	Station stationInfo `json:"station"`
}

// FetchPointFeed retrieves the full reading for a coordinate.
func (c *Client) FetchPointFeed(ctx context.Context, coord geo.Coordinate) (*airquality.Reading, error) {
	path := fmt.Sprintf("/feed/geo:%.6f;%.6f/", coord.Lat, coord.Lon)
	return c.fetchFeed(ctx, path)
}

// FetchFeedByStation retrieves the full reading for a station ID.
func (c *Client) FetchFeedByStation(ctx context.Context, stationID int) (*airquality.Reading, error) {
	path := fmt.Sprintf("/feed/@%d/", stationID)
	return c.fetchFeed(ctx, path)
}

func (c *Client) fetchFeed(ctx context.Context, path string) (*airquality.Reading, error) {
	var result feedResponse
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}

	if result.Status != statusOK {
		return nil, airquality.ErrNoStation
	}

	return c.toReading(&result.Data), nil
}

// FetchNearbyStations retrieves stations inside a bounding box sized to
// radiusKm around the coordinate. A non-ok provider status yields an empty
// slice; absence of stations is a normal outcome.
func (c *Client) FetchNearbyStations(ctx context.Context, coord geo.Coordinate, radiusKm float64) ([]airquality.StationRecord, error) {
	sw, ne := geo.BoundingBox(coord, radiusKm)
	path := fmt.Sprintf("/map/bounds/?latlng=%.6f,%.6f,%.6f,%.6f", sw.Lat, sw.Lon, ne.Lat, ne.Lon)

	var result boundsResponse
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}

	if result.Status != statusOK {
		return []airquality.StationRecord{}, nil
	}

	records := make([]airquality.StationRecord, 0, len(result.Data))
	for _, s := range result.Data {
		name := s.Station.Name
		if name == "" {
			name = airquality.UnknownStationName
		}
		records = append(records, airquality.StationRecord{
			Name:       name,
			Coordinate: geo.Coordinate{Lat: s.Lat, Lon: s.Lon},
			AQI:        int(s.AQI),
		})
	}

	return records, nil
}

// SearchByKeyword retrieves search hits for free text, in provider ranking
// order.
func (c *Client) SearchByKeyword(ctx context.Context, text string) ([]airquality.SearchHit, error) {
	path := "/search/?keyword=" + url.QueryEscape(text)

	var result searchResponse
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}

	if result.Status != statusOK {
		return []airquality.SearchHit{}, nil
	}

	hits := make([]airquality.SearchHit, 0, len(result.Data))
	for _, h := range result.Data {
		hit := airquality.SearchHit{
			StationID: h.UID,
			Name:      h.Station.Name,
			AQI:       int(h.AQI),
		}
		if coord := toCoordinate(h.Station.Geo); coord != nil {
			hit.Coordinate = coord
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// get performs one API call and decodes the response. Every call carries the
// access token and fails fast when it is missing.
func (c *Client) get(ctx context.Context, path string, out any) error {
	if c.token == "" {
		return airquality.ErrMissingToken
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	endpoint := c.baseURL + path + sep + "token=" + url.QueryEscape(c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("waqi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from waqi", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode waqi response: %w", err)
	}

	return nil
}

// toReading converts API feed data to the domain Reading.
func (c *Client) toReading(d *feedData) *airquality.Reading {
	reading := &airquality.Reading{
		AQI:               int(d.AQI),
		CityName:          d.City.Name,
		Coordinate:        toCoordinate(d.City.Geo),
		DominantPollutant: d.DominentPol,
		FetchedAt:         time.Now(),
	}

	if len(d.IAQI) > 0 {
		reading.Pollutants = make(map[airquality.Pollutant]float64, len(d.IAQI))
		for code, mv := range d.IAQI {
			reading.Pollutants[airquality.Pollutant(code)] = mv.V
		}
	}

	if len(d.Forecast.Daily) > 0 {
		reading.Forecast = make(map[airquality.Pollutant][]airquality.ForecastDay, len(d.Forecast.Daily))
		for code, days := range d.Forecast.Daily {
			series := make([]airquality.ForecastDay, 0, len(days))
			for _, day := range days {
				series = append(series, airquality.ForecastDay{
					Date:    day.Day,
					Average: day.Avg,
					Max:     day.Max,
					Min:     day.Min,
				})
			}
			reading.Forecast[airquality.Pollutant(code)] = series
		}
	}

	return reading
}

// toCoordinate converts a WAQI [lat, lon] geo array, returning nil when the
// array is absent or malformed.
func toCoordinate(g []float64) *geo.Coordinate {
	if len(g) < 2 {
		return nil
	}
	return &geo.Coordinate{Lat: g[0], Lon: g[1]}
}

// Ensure Client implements the provider interface.
var _ airquality.Provider = (*Client)(nil)
