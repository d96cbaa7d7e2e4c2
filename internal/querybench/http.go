package querybench

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// newHTTPClient creates a resty client bound to the service base URL.
func newHTTPClient(config *Config) *resty.Client {
	return resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetHeader("Accept", "application/json")
}

// result is the outcome of one query.
type result struct {
	kind       Kind
	outcome    Outcome
	latency    time.Duration
	violations []string
}

// execute sends q and verifies the response.
func execute(ctx context.Context, client *resty.Client, requestID string, q Query) result {
	start := time.Now()
	resp, err := client.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID).
		SetQueryParamsFromValues(q.Params).
		Get(q.Path)
	r := result{kind: q.Kind, latency: time.Since(start)}
	if err != nil {
		r.outcome = OutcomeFailed
		r.violations = []string{fmt.Sprintf("%s %s: %v", q.Kind, requestID, err)}
		return r
	}

	switch resp.StatusCode() {
	case StatusOK:
		r.violations = Verify(q, resp.Body())
		if len(r.violations) > 0 {
			r.outcome = OutcomeViolation
			return r
		}
		r.outcome = OutcomeOK
	case StatusNotFound:
		r.outcome = OutcomeNotFound
	default:
		r.outcome = OutcomeFailed
		r.violations = []string{fmt.Sprintf("%s %s: status %d: %s", q.Kind, requestID, resp.StatusCode(), resp.String())}
	}
	return r
}

// checkServiceHealth verifies the service answers on /healthz.
func checkServiceHealth(ctx context.Context, client *resty.Client) error {
	resp, err := client.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode() != StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode())
	}
	return nil
}
