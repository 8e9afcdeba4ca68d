// Package fetch downloads the remote configuration document.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher retrieves the body at url as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError reports a failed download. StatusCode is set for non-2xx
// responses; Err is set for transport failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Logger is what resty needs for its own diagnostics; *log.Logger from
// charmbracelet/log satisfies it.
type Logger = resty.Logger

// HTTPFetcher performs one GET per call. It never retries; the scheduler's
// cadence is the retry policy.
type HTTPFetcher struct {
	client *resty.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// Option configures an HTTPFetcher.
type Option func(*resty.Client)

// WithTimeout bounds each request. Zero keeps the platform default (no limit).
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

// WithLogger routes resty warnings to l.
func WithLogger(l Logger) Option {
	return func(c *resty.Client) {
		c.SetLogger(l)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *resty.Client) {
		c.SetHeader("User-Agent", ua)
	}
}

// New creates an HTTPFetcher.
func New(opts ...Option) *HTTPFetcher {
	client := resty.New().SetRetryCount(0)
	for _, opt := range opts {
		opt(client)
	}
	return &HTTPFetcher{client: client}
}

// Fetch downloads url and returns the body verbatim. The url is not validated here.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	if !resp.IsSuccess() {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode()}
	}
	// resp.String() trims whitespace; the payload must stay byte-for-byte.
	return string(resp.Body()), nil
}
