// Package api provides the HTTP API for aqiwatch.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/api/handler"
	"github.com/aqiwatch/aqiwatch/internal/api/middleware"
	"github.com/aqiwatch/aqiwatch/internal/locations"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version         string
	BuildTime       string
	Logger          zerolog.Logger
	Metrics         *middleware.Metrics
	Provider        airquality.Provider
	LocationService *locations.Service
	ReadinessChecks map[string]handler.ReadinessCheck
}

// NewRouter creates a chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	airHandler := handler.NewAirHandler(cfg.Provider, cfg.Logger)
	locationsHandler := handler.NewLocationsHandler(cfg.LocationService)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadinessChecks)

	// Resolution endpoints fan out to the upstream provider; keep their rate
	// limit tighter than the saved-locations CRUD.
	providerRateLimit := middleware.RateLimitByIP(middleware.ProviderRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/air", func(r chi.Router) {
			r.Use(providerRateLimit)
			r.Get("/current", airHandler.Current)
			r.Get("/search", airHandler.Search)
			r.Get("/share", airHandler.Share)
		})

		r.Route("/locations", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", locationsHandler.List)
			r.Post("/", locationsHandler.Save)
			r.Delete("/{city}", locationsHandler.Delete)
		})

		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.Health)
			r.Get("/ready", opsHandler.Ready)
		})
	})

	return r
}
