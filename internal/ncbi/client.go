// Package ncbi provides the base HTTP client for NCBI E-utilities.
// The eutils client embeds it to share request pacing, common parameters,
// and response size guards.
package ncbi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the NCBI E-utilities base URL.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	// DefaultTool identifies this application to NCBI.
	DefaultTool = "papers-cli"
	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// Request pacing per NCBI usage policy.
	RateWithoutKey = 3  // requests per second without API key
	RateWithKey    = 10 // requests per second with API key

	// DefaultMaxResponseBytes is the maximum response body size (50 MB).
	DefaultMaxResponseBytes int64 = 50 * 1024 * 1024
)

// Recorder receives one observation per completed request.
// status is 0 when the request never produced a response.
type Recorder interface {
	RecordRequest(endpoint string, status int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordRequest(string, int, time.Duration) {}

// BaseClient is a shared HTTP client for NCBI E-utilities. Its
// configuration is fixed at construction.
type BaseClient struct {
	BaseURL    string
	APIKey     string
	Tool       string
	Email      string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	MaxBytes   int64
	Logger     zerolog.Logger
	Metrics    Recorder
}

// Option configures a BaseClient.
type Option func(*BaseClient)

// WithBaseURL sets the base URL for requests.
func WithBaseURL(u string) Option {
	return func(c *BaseClient) { c.BaseURL = u }
}

// WithAPIKey sets the NCBI API key and raises the request rate accordingly.
func WithAPIKey(key string) Option {
	return func(c *BaseClient) {
		c.APIKey = key
		if key != "" {
			c.Limiter = rate.NewLimiter(rate.Limit(RateWithKey), 1)
		}
	}
}

// WithTool sets the tool parameter for NCBI requests.
func WithTool(tool string) Option {
	return func(c *BaseClient) { c.Tool = tool }
}

// WithEmail sets the contact email parameter for NCBI requests.
func WithEmail(email string) Option {
	return func(c *BaseClient) { c.Email = email }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *BaseClient) { c.HTTPClient = hc }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *BaseClient) {
		if d > 0 {
			c.HTTPClient = &http.Client{Timeout: d}
		}
	}
}

// WithMaxResponseBytes sets the maximum allowed response body size.
func WithMaxResponseBytes(n int64) Option {
	return func(c *BaseClient) { c.MaxBytes = n }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *BaseClient) { c.Logger = l }
}

// WithMetrics sets the request recorder.
func WithMetrics(r Recorder) Option {
	return func(c *BaseClient) {
		if r != nil {
			c.Metrics = r
		}
	}
}

// NewBaseClient creates a new NCBI base client with the given options.
func NewBaseClient(opts ...Option) *BaseClient {
	c := &BaseClient{
		BaseURL:  DefaultBaseURL,
		Tool:     DefaultTool,
		MaxBytes: DefaultMaxResponseBytes,
		Limiter:  rate.NewLimiter(rate.Limit(RateWithoutKey), 1),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		Logger:  zerolog.Nop(),
		Metrics: nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DoGet performs a single paced GET request with common NCBI parameters
// and returns the response body. Network failures and non-2xx responses
// are returned as *TransportError. There is no retry.
func (c *BaseClient) DoGet(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}
	if c.Tool != "" {
		params.Set("tool", c.Tool)
	}
	if c.Email != "" {
		params.Set("email", c.Email)
	}

	u, err := url.JoinPath(c.BaseURL, endpoint)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}
	fullURL := u + "?" + params.Encode()

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Metrics.RecordRequest(endpoint, 0, time.Since(start))
		c.Logger.Debug().Str("endpoint", endpoint).Err(err).Msg("request failed")
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	c.Metrics.RecordRequest(endpoint, resp.StatusCode, elapsed)
	c.Logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	// Read up to MaxBytes+1 to detect oversized responses.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.MaxBytes+1))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	if int64(len(body)) > c.MaxBytes {
		return nil, fmt.Errorf("response exceeds maximum size of %d bytes", c.MaxBytes)
	}

	return body, nil
}
