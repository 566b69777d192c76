package locations_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/geo"
	"github.com/aqiwatch/aqiwatch/internal/locations"
)

func newService(repo locations.Repository) *locations.Service {
	return locations.NewService(locations.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
	})
}

func reading(city string, aqiValue int) *airquality.Reading {
	return &airquality.Reading{
		AQI:        aqiValue,
		CityName:   city,
		Coordinate: &geo.Coordinate{Lat: 18.52, Lon: 73.85},
	}
}

func TestService_AddAndList(t *testing.T) {
	svc := newService(locations.NewInMemoryRepository())
	ctx := context.Background()

	first, err := svc.Add(ctx, reading("Pune", 87))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "Pune", first.City)
	assert.Equal(t, 87, first.AQI)
	assert.Equal(t, "Moderate", first.Level)
	assert.False(t, first.SavedAt.IsZero())

	_, err = svc.Add(ctx, reading("Mumbai", 120))
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Most-recently-added first.
	assert.Equal(t, "Mumbai", list[0].City)
	assert.Equal(t, "Pune", list[1].City)
}

func TestService_Add_DuplicateCity(t *testing.T) {
	svc := newService(locations.NewInMemoryRepository())
	ctx := context.Background()

	saved, err := svc.Add(ctx, reading("Pune", 87))
	require.NoError(t, err)

	_, err = svc.Add(ctx, reading("Pune", 150))
	require.ErrorIs(t, err, locations.ErrDuplicateCity)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "store size unchanged after duplicate add")
	assert.Equal(t, saved.AQI, list[0].AQI, "existing entry not overwritten")
}

func TestService_Add_Validation(t *testing.T) {
	svc := newService(locations.NewInMemoryRepository())
	ctx := context.Background()

	_, err := svc.Add(ctx, &airquality.Reading{AQI: 87, CityName: "Pune"})
	require.ErrorIs(t, err, locations.ErrMissingCoordinate)

	_, err = svc.Add(ctx, &airquality.Reading{AQI: 87, Coordinate: &geo.Coordinate{Lat: 1, Lon: 1}})
	require.ErrorIs(t, err, locations.ErrMissingCity)

	_, err = svc.Add(ctx, nil)
	require.ErrorIs(t, err, locations.ErrMissingCoordinate)
}

func TestService_Remove(t *testing.T) {
	svc := newService(locations.NewInMemoryRepository())
	ctx := context.Background()

	_, err := svc.Add(ctx, reading("Pune", 87))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "Pune"))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Removing again is a no-op.
	require.NoError(t, svc.Remove(ctx, "Pune"))
}

func TestService_RemoveByID(t *testing.T) {
	svc := newService(locations.NewInMemoryRepository())
	ctx := context.Background()

	saved, err := svc.Add(ctx, reading("Pune", 87))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveByID(ctx, saved.ID))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.RemoveByID(ctx, "loc_does_not_exist"))
}

func TestService_IsSaved(t *testing.T) {
	svc := newService(locations.NewInMemoryRepository())
	ctx := context.Background()

	_, err := svc.Add(ctx, reading("Pune", 87))
	require.NoError(t, err)

	saved, err := svc.IsSaved(ctx, "Pune")
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.IsSaved(ctx, "Mumbai")
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestService_CorruptStoreRecovers(t *testing.T) {
	repo := locations.NewCorruptRepository()
	svc := newService(repo)
	ctx := context.Background()

	// Corruption is swallowed: the list comes back empty, no error.
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// The store is usable again after recovery.
	_, err = svc.Add(ctx, reading("Pune", 87))
	require.NoError(t, err)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
