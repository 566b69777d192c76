package locations_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqiwatch/aqiwatch/internal/geo"
	"github.com/aqiwatch/aqiwatch/internal/locations"
)

func TestFileRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_locations.json")
	repo := locations.NewFileRepository(path)
	ctx := context.Background()

	list := []locations.SavedLocation{
		{
			ID:         "loc_1",
			City:       "Mumbai",
			AQI:        120,
			Level:      "Poor",
			Coordinate: geo.Coordinate{Lat: 19.076, Lon: 72.8777},
			SavedAt:    time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:         "loc_2",
			City:       "Pune",
			AQI:        87,
			Level:      "Moderate",
			Coordinate: geo.Coordinate{Lat: 18.52, Lon: 73.85},
			SavedAt:    time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, repo.Save(ctx, list))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, list, loaded, "order and contents survive the round trip")
}

func TestFileRepository_MissingFileIsEmpty(t *testing.T) {
	repo := locations.NewFileRepository(filepath.Join(t.TempDir(), "nope.json"))

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_locations.json")
	require.NoError(t, os.WriteFile(path, []byte("not json {{{"), 0o644))

	repo := locations.NewFileRepository(path)

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, locations.ErrCorruptData)
}

func TestFileRepository_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_locations.json")
	repo := locations.NewFileRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []locations.SavedLocation{{ID: "loc_1", City: "Pune"}}))
	require.NoError(t, repo.Clear(ctx))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	// Clearing an already-missing file is fine.
	require.NoError(t, repo.Clear(ctx))
}
