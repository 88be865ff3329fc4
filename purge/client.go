// Package purge issues cache purge requests to the Fastly API by surrogate
// key, full-service flush or URL.
package purge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/barlind/bleurgh/logutil"
	"github.com/barlind/bleurgh/urlutil"
)

// DefaultAPIBase is the Fastly API endpoint.
const DefaultAPIBase = "https://api.fastly.com"

// Client defaults. Purges are fire-once per service: no retries, but a
// circuit breaker trips fast when the API is down so a purge across many
// services fails quickly, and a client-side rate limiter keeps bursts
// within Fastly's expectations.
const (
	defaultTimeout         = 15 * time.Second
	defaultRateLimit       = rate.Limit(10) // requests per second
	defaultRateBurst       = 5
	defaultBreakerFailures = 3
	defaultBreakerTimeout  = 30 * time.Second
)

// Result is the Fastly API response for a single purge request.
type Result struct {
	Status    string `json:"status" yaml:"status"`
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	ServiceID string `json:"serviceId,omitempty" yaml:"serviceId,omitempty"`
	Key       string `json:"key,omitempty" yaml:"key,omitempty"`
}

// Client talks to the Fastly purge API.
type Client struct {
	apiBase    string
	token      string
	soft       bool
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithAPIBase overrides the Fastly API endpoint (used in tests).
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = strings.TrimSuffix(base, "/") }
}

// WithSoftPurge marks content stale instead of evicting it.
func WithSoftPurge(soft bool) Option {
	return func(c *Client) { c.soft = soft }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient builds a purge client for the given API token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		apiBase:    DefaultAPIBase,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(defaultRateLimit, defaultRateBurst),
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "fastly-purge",
		Timeout: defaultBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= defaultBreakerFailures
		},
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PurgeKey purges one surrogate key on one service.
func (c *Client) PurgeKey(ctx context.Context, serviceID, key string) (Result, error) {
	endpoint := fmt.Sprintf("%s/service/%s/purge/%s", c.apiBase, url.PathEscape(serviceID), url.PathEscape(key))
	result, err := c.send(ctx, http.MethodPost, endpoint)
	if err != nil {
		return Result{}, fmt.Errorf("purge key %q on service %s: %w", key, serviceID, err)
	}
	result.ServiceID = serviceID
	result.Key = key
	return result, nil
}

// PurgeAll flushes the entire cache of one service.
func (c *Client) PurgeAll(ctx context.Context, serviceID string) (Result, error) {
	endpoint := fmt.Sprintf("%s/service/%s/purge_all", c.apiBase, url.PathEscape(serviceID))
	result, err := c.send(ctx, http.MethodPost, endpoint)
	if err != nil {
		return Result{}, fmt.Errorf("purge all on service %s: %w", serviceID, err)
	}
	result.ServiceID = serviceID
	return result, nil
}

// PurgeURL purges a single URL. Fastly routes URL purges by the URL itself
// rather than a service path, using the PURGE method.
func (c *Client) PurgeURL(ctx context.Context, rawURL string) (Result, error) {
	if err := urlutil.Validate(rawURL); err != nil {
		return Result{}, fmt.Errorf("purge url: %w", err)
	}
	result, err := c.send(ctx, "PURGE", strings.TrimSpace(rawURL))
	if err != nil {
		return Result{}, fmt.Errorf("purge url %s: %w", rawURL, err)
	}
	result.Key = rawURL
	return result, nil
}

// send issues one request through the rate limiter and circuit breaker.
func (c *Client) send(ctx context.Context, method, endpoint string) (Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, method, endpoint)
	})
	if err != nil {
		return Result{}, err
	}

	var result Result
	if err := json.Unmarshal(body.([]byte), &result); err != nil {
		// Some purge endpoints reply with plain text; treat 2xx as ok.
		return Result{Status: "ok"}, nil
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Fastly-Key", c.token)
	req.Header.Set("Accept", "application/json")
	if c.soft {
		req.Header.Set("Fastly-Soft-Purge", "1")
	}

	logutil.Debug("purge request", "method", method, "endpoint", endpoint, "soft", c.soft)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fastly returned %s", resp.Status)
	}

	return body, nil
}
