package resilience

import (
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// Client errors.
var (
	// ErrCircuitOpen is returned while the circuit breaker rejects calls.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// ClientConfig holds settings for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies the provider for breaker naming.
	Name string

	// Timeout per HTTP attempt. Default: 10s.
	Timeout time.Duration

	// MaxRetries after the first attempt. Default: 3.
	MaxRetries uint64

	// InitialInterval for exponential backoff. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval caps the backoff. Default: 5s.
	MaxInterval time.Duration

	// Breaker overrides the default circuit breaker settings.
	Breaker *BreakerConfig
}

// httpResult pairs a response with nothing else; it exists so the breaker's
// type parameter stays a pointer the caller owns (and must Close).
type httpResult struct {
	resp *http.Response
}

// Client executes HTTP requests with per-attempt timeouts, retry on transient
// failure, and circuit breaking. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*httpResult]
	cfg        ClientConfig
}

// NewClient creates a resilient HTTP client, filling config defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	breakerCfg := BreakerConfig{Name: cfg.Name}
	if cfg.Breaker != nil {
		breakerCfg = *cfg.Breaker
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    newBreaker(breakerCfg),
		cfg:        cfg,
	}
}

// serverError marks a 5xx response so it counts against the breaker and is
// retried.
type serverError struct {
	status int
}

func (e *serverError) Error() string {
	return "server error: " + http.StatusText(e.status)
}

// Do executes the request. Network errors and 5xx responses are retried with
// exponential backoff up to MaxRetries; an open breaker fails immediately
// with ErrCircuitOpen. The caller owns the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialInterval
	bo.MaxInterval = c.cfg.MaxInterval
	bo.MaxElapsedTime = 0 // retries bounded by MaxRetries, not wall time

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.cfg.MaxRetries), ctx)

	var last *http.Response

	attempt := func() error {
		result, err := c.breaker.Execute(func() (*httpResult, error) {
			resp, doErr := c.httpClient.Do(req.Clone(ctx))
			if doErr != nil {
				return nil, doErr
			}
			if resp.StatusCode >= 500 {
				return &httpResult{resp: resp}, &serverError{status: resp.StatusCode}
			}
			return &httpResult{resp: resp}, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if result != nil && result.resp != nil {
				if last != nil {
					last.Body.Close()
				}
				last = result.resp
			}
			return err
		}

		last = result.resp
		return nil
	}

	if err := backoff.Retry(attempt, policy); err != nil {
		// A 5xx that exhausted retries still yields the response so callers
		// can inspect the status.
		if last != nil {
			return last, nil
		}
		return nil, err
	}

	return last, nil
}

// BreakerState exposes the current circuit breaker state for ops endpoints.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}
