// Package overpass queries the Overpass API for points of interest.
package overpass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/jengzang/moodmap-backend-go/internal/config"
	"github.com/jengzang/moodmap-backend-go/internal/logging"
	"github.com/jengzang/moodmap-backend-go/internal/metrics"
	"github.com/jengzang/moodmap-backend-go/internal/models"
)

const breakerName = "overpass-api"

// Client sends circular-area amenity queries to an Overpass endpoint.
type Client struct {
	endpoint       string
	httpClient     *http.Client
	timeoutSeconds int
	clientTimeout  time.Duration
	maxResults     int
	userAgent      string
	limiter        *rate.Limiter
	cb             *gobreaker.CircuitBreaker[[]models.RawPlace]
}

// NewClient creates a client from configuration. The http.Client carries no
// timeout of its own; every request gets a context deadline instead.
func NewClient(cfg config.OverpassConfig) *Client {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	failures := cfg.BreakerFailures
	cb := gobreaker.NewCircuitBreaker[[]models.RawPlace](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		IsSuccessful: isSuccessful,
	})

	return &Client{
		endpoint:       cfg.Endpoint,
		httpClient:     &http.Client{},
		timeoutSeconds: cfg.TimeoutSeconds,
		clientTimeout:  cfg.ClientTimeout(),
		maxResults:     cfg.MaxResults,
		userAgent:      cfg.UserAgent,
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cb:             cb,
	}
}

// QueryPlaces returns the amenity nodes matching any of tags within radius
// meters of loc. Failures are *models.TimeoutError, *models.NetworkError or
// *models.APIError; a cancelled ctx is returned as ctx.Err().
func (c *Client) QueryPlaces(ctx context.Context, loc models.Location, tags []string, radius int) ([]models.RawPlace, error) {
	query := BuildQuery(tags, loc, radius, c.timeoutSeconds, c.maxResults)

	start := time.Now()
	places, err := c.cb.Execute(func() ([]models.RawPlace, error) {
		return c.do(ctx, query)
	})
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordOverpassRequest("rejected", elapsed)
			return nil, &models.NetworkError{Err: err}
		}
		metrics.RecordOverpassRequest(outcome(err), elapsed)
		logging.Ctx(ctx).Warn().Err(err).Strs("tags", tags).Int("radius", radius).Dur("elapsed", elapsed).Msg("Overpass query failed")
		return nil, err
	}

	metrics.RecordOverpassRequest("success", elapsed)
	logging.Ctx(ctx).Debug().
		Strs("tags", tags).
		Int("radius", radius).
		Int("elements", len(places)).
		Dur("elapsed", elapsed).
		Msg("Overpass query completed")

	return places, nil
}

func (c *Client) do(ctx context.Context, query string) ([]models.RawPlace, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &models.NetworkError{Err: fmt.Errorf("rate limiter: %w", err)}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.clientTimeout)
	defer cancel()

	body := url.Values{"data": {query}}.Encode()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build Overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.translate(ctx, reqCtx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &models.APIError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if reqCtx.Err() != nil {
			return nil, c.translate(ctx, reqCtx, err)
		}
		return nil, fmt.Errorf("failed to decode Overpass response: %w", err)
	}
	if payload.Remark != "" {
		logging.Ctx(ctx).Debug().Str("remark", payload.Remark).Msg("Overpass returned a remark")
	}

	places := make([]models.RawPlace, 0, len(payload.Elements))
	for _, el := range payload.Elements {
		places = append(places, el.toRawPlace())
	}
	return places, nil
}

// translate maps a transport failure onto the error taxonomy.
func (c *Client) translate(parent, reqCtx context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return models.NewTimeoutError(c.clientTimeout)
	}
	return &models.NetworkError{Err: err}
}

// isSuccessful keeps caller cancellations, caller deadlines and client-side
// 4xx answers from tripping the breaker. A client-side abort (TimeoutError)
// still counts as a failure.
func isSuccessful(err error) bool {
	if err == nil || isCallerContextError(err) {
		return true
	}
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		return !apiErr.Retryable()
	}
	return false
}

func isCallerContextError(err error) bool {
	var timeoutErr *models.TimeoutError
	if errors.As(err, &timeoutErr) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func outcome(err error) string {
	var (
		timeoutErr *models.TimeoutError
		netErr     *models.NetworkError
		apiErr     *models.APIError
	)
	switch {
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &netErr):
		return "network_error"
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "decode_error"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
