// Package openlibrary looks up book metadata by ISBN through the Open Library
// Books API. Lookups are best-effort: intake never blocks on missing metadata.
package openlibrary

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/storyloop/storyloop-server/internal/logger"
)

const defaultBaseURL = "https://openlibrary.org"

// Client provides access to the Open Library Books API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	logger      *logger.Logger
}

// Options configures the client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// NewClient creates a new Open Library client.
// Open Library asks integrators to keep request rates modest.
func NewClient(log *logger.Logger, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		baseURL:     opts.BaseURL,
		logger:      log,
	}
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
