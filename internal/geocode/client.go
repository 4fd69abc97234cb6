// Package geocode searches a Nominatim-compatible geocoding service for
// address candidates.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/homekey-labs/homekey/internal/logger"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// ErrCircuitOpen is returned while the breaker is refusing calls after
// repeated upstream failures.
var ErrCircuitOpen = errors.New("geocoder unavailable: circuit open")

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 1 << 20

// Searcher returns address candidates for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL       string
	UserAgent     string
	CountryCodes  string
	Limit         int
	Timeout       time.Duration
	RatePerSecond float64
	HTTPClient    *http.Client
}

// Client talks to the /search endpoint. It is safe for concurrent use; all
// callers share one rate limiter and one circuit breaker.
type Client struct {
	baseURL      string
	userAgent    string
	countryCodes string
	limit        int
	http         *http.Client
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[[]Candidate]
}

// NewClient creates a Client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("parsing geocoder base url: %w", err)
	}
	if opts.UserAgent == "" {
		return nil, errors.New("geocoder user agent is required")
	}
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 1
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	breaker := gobreaker.NewCircuitBreaker[[]Candidate](gobreaker.Settings{
		Name:        "geocoder",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker %s: %s -> %s", name, from, to)
		},
		// A cancelled lookup says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		userAgent:    opts.UserAgent,
		countryCodes: opts.CountryCodes,
		limit:        opts.Limit,
		http:         httpClient,
		limiter:      rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1),
		breaker:      breaker,
	}, nil
}

// SearchURL builds the request URL for query.
func (c *Client) SearchURL(query string) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(c.limit))
	if c.countryCodes != "" {
		params.Set("countrycodes", c.countryCodes)
	}
	params.Set("q", query)
	return c.baseURL + "/search?" + params.Encode()
}

// Search returns candidates in the order the service ranked them. A JSON
// response that is not an array yields no candidates and no error; transport
// failures, non-2xx statuses and bodies that are not JSON are errors.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	candidates, err := c.breaker.Execute(func() ([]Candidate, error) {
		return c.search(ctx, query)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return candidates, err
}

func (c *Client) search(ctx context.Context, query string) ([]Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	logger.Debug("Geocoder search: %q", query)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	candidates, err := ParseCandidates(body)
	if err != nil {
		return nil, err
	}
	logger.Debug("Geocoder returned %d candidates for %q", len(candidates), query)
	return candidates, nil
}
