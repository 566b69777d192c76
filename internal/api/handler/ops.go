package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aqiwatch/aqiwatch/internal/api/models"
	"github.com/aqiwatch/aqiwatch/internal/api/response"
)

// ReadinessCheck reports whether a dependency is ready to serve.
type ReadinessCheck func(ctx context.Context) error

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    map[string]ReadinessCheck
}

// NewOpsHandler creates a new OpsHandler. Checks run on every readiness
// probe; a nil map means the service is always ready.
func NewOpsHandler(version, buildTime string, checks map[string]ReadinessCheck) *OpsHandler {
	return &OpsHandler{version: version, buildTime: buildTime, checks: checks}
}

// Health handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// Ready handles GET /v1/ops/ready - readiness check against dependencies.
func (h *OpsHandler) Ready(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
	}

	details := make(map[string]interface{}, len(h.checks))
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			details[name] = err.Error()
			health.Status = models.HealthStatusDegraded
			status = http.StatusServiceUnavailable
		} else {
			details[name] = models.HealthStatusOK
		}
	}
	if len(details) > 0 {
		health.Details = details
	}

	response.JSON(w, r, status, health)
}
