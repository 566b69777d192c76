package locations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/aqi"
)

// ServiceConfig holds configuration for the saved locations service.
type ServiceConfig struct {
	// Repository is the persistence backend (required).
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// Locale used for the severity level snapshot taken at save time.
	Locale aqi.Locale
}

// Service manages the saved location list: an ordered, city-deduplicated
// set persisted in full on every mutation.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	locale aqi.Locale
}

// NewService creates a saved locations service.
func NewService(cfg ServiceConfig) *Service {
	locale := cfg.Locale
	if locale == "" {
		locale = aqi.LocaleEnglish
	}
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
		locale: locale,
	}
}

// List returns the saved locations, most-recently-added first.
func (s *Service) List(ctx context.Context) ([]SavedLocation, error) {
	return s.load(ctx)
}

// Add saves a snapshot of the reading. It fails when the reading lacks a
// coordinate or city name, and with ErrDuplicateCity when the city is
// already saved; the existing entry is left untouched in that case.
func (s *Service) Add(ctx context.Context, reading *airquality.Reading) (*SavedLocation, error) {
	if reading == nil || !reading.HasCoordinate() {
		return nil, ErrMissingCoordinate
	}
	city := strings.TrimSpace(reading.CityName)
	if city == "" {
		return nil, ErrMissingCity
	}

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, loc := range list {
		if loc.City == city {
			return nil, ErrDuplicateCity
		}
	}

	entry := SavedLocation{
		ID:         "loc_" + uuid.New().String()[:22],
		City:       city,
		AQI:        reading.AQI,
		Level:      aqi.Level(reading.AQI, s.locale),
		Coordinate: *reading.Coordinate,
		SavedAt:    time.Now(),
	}

	list = append([]SavedLocation{entry}, list...)
	if err := s.repo.Save(ctx, list); err != nil {
		return nil, err
	}

	s.logger.Info().Str("city", city).Int("aqi", entry.AQI).Msg("location saved")
	return &entry, nil
}

// Remove deletes every entry matching the city (0 or 1 given the add
// invariant). Removing an absent city is not an error.
func (s *Service) Remove(ctx context.Context, city string) error {
	return s.removeMatching(ctx, func(loc SavedLocation) bool {
		return loc.City == city
	})
}

// RemoveByID deletes the entry with the given ID. Idempotent.
func (s *Service) RemoveByID(ctx context.Context, id string) error {
	return s.removeMatching(ctx, func(loc SavedLocation) bool {
		return loc.ID == id
	})
}

// IsSaved reports whether a city is in the saved list, used to flag the
// current reading as saved.
func (s *Service) IsSaved(ctx context.Context, city string) (bool, error) {
	list, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for _, loc := range list {
		if loc.City == city {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) removeMatching(ctx context.Context, match func(SavedLocation) bool) error {
	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := list[:0]
	removed := 0
	for _, loc := range list {
		if match(loc) {
			removed++
			continue
		}
		kept = append(kept, loc)
	}

	if removed == 0 {
		return nil
	}

	return s.repo.Save(ctx, kept)
}

// load reads the persisted list, recovering from corruption by clearing the
// store and starting empty. Corruption is never surfaced to callers.
func (s *Service) load(ctx context.Context) ([]SavedLocation, error) {
	list, err := s.repo.Load(ctx)
	if err == nil {
		return list, nil
	}

	if errors.Is(err, ErrCorruptData) {
		s.logger.Error().Err(err).Msg("saved locations corrupt, resetting store")
		if clearErr := s.repo.Clear(ctx); clearErr != nil {
			s.logger.Error().Err(clearErr).Msg("failed to clear corrupt store")
		}
		return []SavedLocation{}, nil
	}

	return nil, err
}
