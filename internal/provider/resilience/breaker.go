// Package resilience wraps outbound provider calls with timeouts, retry with
// exponential backoff, and a circuit breaker.
package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds circuit breaker settings for one provider.
type BreakerConfig struct {
	// Name identifies the breaker in logs and state callbacks.
	Name string

	// MaxRequests allowed through in half-open state. Default: 1.
	MaxRequests uint32

	// OpenTimeout is how long the breaker stays open before probing.
	// Default: 60 seconds.
	OpenTimeout time.Duration

	// ReadyToTrip decides when the breaker opens. The default trips at a
	// 50% failure rate once at least 5 requests have been seen.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// OnStateChange is invoked on state transitions, if set.
	OnStateChange func(name string, from, to gobreaker.State)
}

func defaultReadyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests < 5 {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
}

// newBreaker builds a gobreaker instance from the config, filling defaults.
func newBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[*httpResult] {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = defaultReadyToTrip
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: cfg.ReadyToTrip,
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = cfg.OnStateChange
	}

	return gobreaker.NewCircuitBreaker[*httpResult](settings)
}
