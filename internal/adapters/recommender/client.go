// Package recommender talks to the external recommendation service.
package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"travel_catalog/internal/adapters/observability"
	"travel_catalog/internal/domain"
)

const breakerName = "recommender"

var (
	ErrUnavailable = errors.New("recommender: unavailable")
	ErrRateLimited = errors.New("recommender: rate limited")
)

type Options struct {
	BaseURL string        // e.g. http://localhost:5000/api/ia
	Timeout time.Duration // default 10s
	RPS     int           // 0 disables client-side limiting
	// FailureThreshold consecutive failures open the breaker (default 5).
	FailureThreshold uint32
	CoolDown         time.Duration // open -> half-open (default 30s)
}

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
	cb   *gobreaker.CircuitBreaker[[]byte]
}

var _ domain.Recommender = (*Client)(nil)

func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.FailureThreshold == 0 {
		o.FailureThreshold = 5
	}
	if o.CoolDown <= 0 {
		o.CoolDown = 30 * time.Second
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if o.RPS > 0 {
		lim = rate.NewLimiter(rate.Limit(o.RPS), o.RPS)
	}

	observability.SetBreakerState(breakerName, 0)
	threshold := o.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1, // one probe in half-open
		Timeout:     o.CoolDown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			observability.SetBreakerState(name, stateValue(to))
		},
	})

	return &Client{
		base: strings.TrimRight(o.BaseURL, "/"),
		hc:   &http.Client{Timeout: o.Timeout},
		rl:   lim,
		cb:   cb,
	}
}

func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

type recommendRequest struct {
	Destination     domain.Destination `json:"destination"`
	UserPreferences string             `json:"userPreferences"`
}

type seasonalRequest struct {
	Destination domain.Destination `json:"destination"`
	Season      string             `json:"season"`
}

func (c *Client) Recommend(ctx context.Context, d domain.Destination, preferences string) (domain.Recommendation, error) {
	body, err := c.post(ctx, "/recommend", "recommend", recommendRequest{Destination: d, UserPreferences: preferences})
	if err != nil {
		return domain.Recommendation{}, err
	}
	var out domain.Recommendation
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.Recommendation{}, fmt.Errorf("%w: decode recommend: %v", ErrUnavailable, err)
	}
	if strings.TrimSpace(out.Recommendation) == "" {
		return domain.Recommendation{}, fmt.Errorf("%w: empty recommendation", ErrUnavailable)
	}
	return out, nil
}

func (c *Client) SeasonalAdvice(ctx context.Context, d domain.Destination, season string) (map[string]any, error) {
	body, err := c.post(ctx, "/seasonal-advice", "seasonal-advice", seasonalRequest{Destination: d, Season: season})
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode seasonal-advice: %v", ErrUnavailable, err)
	}
	return out, nil
}

// post is rate limited (fail fast, never waits) and guarded by the breaker.
func (c *Client) post(ctx context.Context, path, endpoint string, in any) ([]byte, error) {
	if !c.rl.Allow() {
		return nil, ErrRateLimited
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.send(ctx, path, endpoint, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return body, err
}

func (c *Client) send(ctx context.Context, path, endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "travel-web/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(breakerName, endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(breakerName, endpoint, resp.StatusCode, time.Since(start))

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return b, nil
}
