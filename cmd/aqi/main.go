// Package main provides the aqi command line tool: resolve a coordinate or a
// search keyword to an air quality reading, print nearby stations and a share
// message, and manage the saved-locations file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/airquality/waqi"
	"github.com/aqiwatch/aqiwatch/internal/aqi"
	"github.com/aqiwatch/aqiwatch/internal/geo"
	"github.com/aqiwatch/aqiwatch/internal/locations"
	"github.com/aqiwatch/aqiwatch/internal/provider/resilience"
	"github.com/aqiwatch/aqiwatch/internal/resolver"
	"github.com/aqiwatch/aqiwatch/internal/share"
)

// forecastDaysShown caps the forecast rows printed per pollutant.
const forecastDaysShown = 5

func main() {
	var (
		lat        = flag.Float64("lat", 0, "latitude to resolve")
		lon        = flag.Float64("lon", 0, "longitude to resolve")
		query      = flag.String("q", "", "search keyword to resolve instead of a coordinate")
		localeFlag = flag.String("locale", "en", "display locale (en, hi)")
		save       = flag.Bool("save", false, "save the resolved reading to the locations file")
		list       = flag.Bool("list", false, "list saved locations and exit")
		remove     = flag.String("remove", "", "remove a saved city and exit")
		file       = flag.String("file", "saved_locations.json", "saved locations file")
		timeout    = flag.Duration("timeout", 15*time.Second, "overall timeout")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc := locations.NewService(locations.ServiceConfig{
		Repository: locations.NewFileRepository(*file),
		Logger:     log,
	})

	switch {
	case *list:
		if err := printSavedLocations(ctx, svc); err != nil {
			fatal(err)
		}
		return
	case *remove != "":
		if err := svc.Remove(ctx, *remove); err != nil {
			fatal(err)
		}
		fmt.Printf("Removed %q\n", *remove)
		return
	}

	provider := waqi.NewClient(waqi.ClientConfig{
		Token: os.Getenv("WAQI_TOKEN"),
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name: waqi.ProviderName,
		}),
	})

	pipeline := resolver.New(resolver.Config{
		Provider: provider,
		Logger:   log,
	})

	loc := aqi.Locale(*localeFlag)

	var snap resolver.Snapshot
	var err error
	if *query != "" {
		snap, err = pipeline.ResolveByKeyword(ctx, *query)
	} else {
		snap, err = pipeline.ResolveByCoordinate(ctx, geo.Coordinate{Lat: *lat, Lon: *lon})
	}
	if err != nil {
		if snap.Message != "" {
			fmt.Fprintln(os.Stderr, snap.Message)
		}
		fatal(err)
	}

	printReading(snap, loc)

	if *save {
		saved, err := svc.Add(ctx, snap.Reading)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("\nSaved %q (%s)\n", saved.City, saved.ID)
	}
}

func printReading(snap resolver.Snapshot, loc aqi.Locale) {
	reading := snap.Reading

	aqiText := "-"
	if reading.AQI != airquality.AQIUnknown {
		aqiText = fmt.Sprintf("%d", reading.AQI)
	}

	fmt.Printf("%s\n", snap.CityLabel)
	fmt.Printf("AQI %s  %s\n", aqiText, aqi.Level(reading.AQI, loc))
	fmt.Printf("%s\n", aqi.HealthAdvice(reading.AQI, loc))
	if reading.DominantPollutant != "" {
		fmt.Printf("Dominant pollutant: %s\n", reading.DominantPollutant)
	}

	if len(snap.Stations) > 0 {
		fmt.Printf("\nNearby stations:\n")
		for _, s := range snap.Stations {
			fmt.Printf("  %6.1f km  AQI %-4d %s\n", s.DistanceKm, s.AQI, s.Name)
		}
	}

	if days, ok := reading.Forecast[airquality.PollutantPM25]; ok && len(days) > 0 {
		if len(days) > forecastDaysShown {
			days = days[:forecastDaysShown]
		}
		fmt.Printf("\nPM2.5 forecast:\n")
		for _, d := range days {
			fmt.Printf("  %s  avg %-4d min %-4d max %d\n", d.Date, d.Average, d.Min, d.Max)
		}
	}

	fmt.Printf("\n%s\n", share.Message(reading, loc))
}

func printSavedLocations(ctx context.Context, svc *locations.Service) error {
	saved, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		fmt.Println("No saved locations")
		return nil
	}
	for _, loc := range saved {
		fmt.Printf("%-20s AQI %-4d %-10s saved %s\n",
			loc.City, loc.AQI, loc.Level, loc.SavedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
