package waqi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/airquality/waqi"
	"github.com/aqiwatch/aqiwatch/internal/geo"
)

func TestClient_FetchPointFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed/geo:18.520000;73.850000/", r.URL.Path)
		assert.Equal(t, "****", r.URL.Query().Get("token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"data": {
				"aqi": 87,
				"city": {"name": "Pune", "geo": [18.52, 73.85]},
				"iaqi": {
					"pm25": {"v": 87.0},
					"pm10": {"v": 54.0},
					"t": {"v": 28.5},
					"h": {"v": 61.2}
				},
				"dominentpol": "pm25",
				"forecast": {
					"daily": {
						"pm25": [
							{"day": "2024-06-01", "avg": 80, "max": 95, "min": 60},
							{"day": "2024-06-02", "avg": 90, "max": 110, "min": 70}
						]
					}
				}
			}
		}`))
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{
		Token:   "****",
		BaseURL: server.URL,
	})

	reading, err := client.FetchPointFeed(context.Background(), geo.Coordinate{Lat: 18.52, Lon: 73.85})
	require.NoError(t, err)
	require.NotNil(t, reading)

	assert.Equal(t, 87, reading.AQI)
	assert.Equal(t, "Pune", reading.CityName)
	require.True(t, reading.HasCoordinate())
	assert.InDelta(t, 18.52, reading.Coordinate.Lat, 1e-9)
	assert.InDelta(t, 73.85, reading.Coordinate.Lon, 1e-9)
	assert.Equal(t, "pm25", reading.DominantPollutant)
	assert.Equal(t, 87.0, reading.Pollutants[airquality.PollutantPM25])
	assert.Equal(t, 28.5, reading.Pollutants[airquality.MetricTemperature])

	pm25 := reading.Forecast[airquality.PollutantPM25]
	require.Len(t, pm25, 2)
	assert.Equal(t, "2024-06-01", pm25[0].Date)
	assert.Equal(t, 80, pm25[0].Average)
	assert.Equal(t, 110, pm25[1].Max)
}

func TestClient_FetchPointFeed_StringAQI(t *testing.T) {
	// Some feeds report aqi as a quoted number.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "ok", "data": {"aqi": "87", "city": {"name": "Pune"}}}`))
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{Token: "tok", BaseURL: server.URL})

	reading, err := client.FetchPointFeed(context.Background(), geo.Coordinate{Lat: 18.52, Lon: 73.85})
	require.NoError(t, err)
	assert.Equal(t, 87, reading.AQI)
	assert.Equal(t, "Pune", reading.CityName)
	assert.False(t, reading.HasCoordinate())
}

func TestClient_FetchPointFeed_NoStation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "error", "data": {}}`))
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{Token: "tok", BaseURL: server.URL})

	_, err := client.FetchPointFeed(context.Background(), geo.Coordinate{Lat: 0, Lon: 0})
	require.ErrorIs(t, err, airquality.ErrNoStation)
}

func TestClient_FetchPointFeed_MissingToken(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{BaseURL: server.URL})

	_, err := client.FetchPointFeed(context.Background(), geo.Coordinate{Lat: 18.52, Lon: 73.85})
	require.ErrorIs(t, err, airquality.ErrMissingToken)
	assert.False(t, called, "no network call should be made without a token")
}

func TestClient_FetchNearbyStations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/map/bounds/", r.URL.Path)
		// 50km radius at 0.009 deg/km: sw then ne, lat,lon pairs.
		assert.Equal(t, "18.070000,73.400000,18.970000,74.300000", r.URL.Query().Get("latlng"))

		w.Write([]byte(`{
			"status": "ok",
			"data": [
				{"lat": 18.53, "lon": 73.87, "aqi": "95", "station": {"name": "Shivajinagar"}},
				{"lat": 18.46, "lon": 73.86, "aqi": "-", "station": {"name": "Katraj"}},
				{"lat": 18.56, "lon": 73.91, "aqi": "102", "station": {}}
			]
		}`))
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{Token: "tok", BaseURL: server.URL})

	records, err := client.FetchNearbyStations(context.Background(), geo.Coordinate{Lat: 18.52, Lon: 73.85}, 50)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Shivajinagar", records[0].Name)
	assert.Equal(t, 95, records[0].AQI)
	assert.Equal(t, airquality.AQIUnknown, records[1].AQI)
	assert.Equal(t, airquality.UnknownStationName, records[2].Name)
}

func TestClient_FetchNearbyStations_NonOKStatusIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "error"}`))
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{Token: "tok", BaseURL: server.URL})

	records, err := client.FetchNearbyStations(context.Background(), geo.Coordinate{Lat: 18.52, Lon: 73.85}, 50)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_SearchByKeyword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/", r.URL.Path)
		assert.Equal(t, "New Delhi", r.URL.Query().Get("keyword"))

		w.Write([]byte(`{
			"status": "ok",
			"data": [
				{"uid": 2554, "aqi": "188", "station": {"name": "New Delhi US Embassy", "geo": [28.59, 77.18]}},
				{"uid": 2556, "aqi": "-", "station": {"name": "Anand Vihar, Delhi"}}
			]
		}`))
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{Token: "tok", BaseURL: server.URL})

	hits, err := client.SearchByKeyword(context.Background(), "New Delhi")
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, 2554, hits[0].StationID)
	assert.Equal(t, 188, hits[0].AQI)
	require.NotNil(t, hits[0].Coordinate)
	assert.InDelta(t, 28.59, hits[0].Coordinate.Lat, 1e-9)

	assert.Equal(t, airquality.AQIUnknown, hits[1].AQI)
	assert.Nil(t, hits[1].Coordinate)
}

func TestClient_SearchByKeyword_NoMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "ok", "data": []}`))
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{Token: "tok", BaseURL: server.URL})

	hits, err := client.SearchByKeyword(context.Background(), "Zzyzx")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestClient_FetchFeedByStation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed/@2554/", r.URL.Path)
		w.Write([]byte(`{"status": "ok", "data": {"aqi": 188, "city": {"name": "New Delhi US Embassy", "geo": [28.59, 77.18]}}}`))
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{Token: "tok", BaseURL: server.URL})

	reading, err := client.FetchFeedByStation(context.Background(), 2554)
	require.NoError(t, err)
	assert.Equal(t, 188, reading.AQI)
	assert.Equal(t, "New Delhi US Embassy", reading.CityName)
}
