// Package main provides the entrypoint for the aqiwatch API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aqiwatch/aqiwatch/internal/airquality/waqi"
	"github.com/aqiwatch/aqiwatch/internal/api"
	"github.com/aqiwatch/aqiwatch/internal/api/handler"
	"github.com/aqiwatch/aqiwatch/internal/api/middleware"
	"github.com/aqiwatch/aqiwatch/internal/database"
	"github.com/aqiwatch/aqiwatch/internal/locations"
	"github.com/aqiwatch/aqiwatch/internal/provider/resilience"
	"github.com/aqiwatch/aqiwatch/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aqiwatch-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting aqiwatch API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := telemetry.ConfigFromEnv(serviceName, Version)
	tp, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()
	if tp.Active() {
		log.Info().
			Str("otlp_endpoint", telemetryCfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// WAQI provider with retries and a circuit breaker
	token := os.Getenv("WAQI_TOKEN")
	if token == "" {
		log.Warn().Msg("WAQI_TOKEN not set - resolution endpoints will fail")
	}
	provider := waqi.NewClient(waqi.ClientConfig{
		Token: token,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name: waqi.ProviderName,
		}),
	})

	// Saved locations: Postgres when configured, otherwise a local JSON file.
	repo, readiness, cleanup, err := buildLocationsRepository(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize saved locations store")
	}
	defer cleanup()

	locationService := locations.NewService(locations.ServiceConfig{
		Repository: repo,
		Logger:     log,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		Metrics:         metrics,
		Provider:        provider,
		LocationService: locationService,
		ReadinessChecks: readiness,
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// buildLocationsRepository picks the saved-locations backend. DATABASE_URL or
// DB_HOST selects Postgres; the fallback is a JSON file next to the binary.
func buildLocationsRepository(ctx context.Context, log zerolog.Logger) (locations.Repository, map[string]handler.ReadinessCheck, func(), error) {
	if os.Getenv("DATABASE_URL") == "" && os.Getenv("DB_HOST") == "" {
		path := os.Getenv("LOCATIONS_FILE")
		if path == "" {
			path = "saved_locations.json"
		}
		log.Info().Str("path", path).Msg("using file-backed saved locations")
		return locations.NewFileRepository(path), nil, func() {}, nil
	}

	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	readiness := map[string]handler.ReadinessCheck{
		"database": pool.Ping,
	}
	return locations.NewPostgresRepository(pool), readiness, pool.Close, nil
}
