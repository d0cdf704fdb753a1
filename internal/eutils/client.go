package eutils

import (
	"github.com/henrybloomingdale/papers-cli/internal/ncbi"
)

// Client is an HTTP client for the PubMed esearch and esummary endpoints.
// It embeds ncbi.BaseClient for shared pacing, common parameters, and
// response size guards.
type Client struct {
	*ncbi.BaseClient
}

// Option configures a Client (alias for ncbi.Option).
type Option = ncbi.Option

var (
	WithBaseURL    = ncbi.WithBaseURL
	WithAPIKey     = ncbi.WithAPIKey
	WithTool       = ncbi.WithTool
	WithEmail      = ncbi.WithEmail
	WithHTTPClient = ncbi.WithHTTPClient
	WithLogger     = ncbi.WithLogger
)

// NewClient creates a new E-utilities client with the given options.
func NewClient(opts ...Option) *Client {
	return &Client{BaseClient: ncbi.NewBaseClient(opts...)}
}

// NewClientWithBase creates a new E-utilities client around an existing
// base client.
func NewClientWithBase(base *ncbi.BaseClient) *Client {
	return &Client{BaseClient: base}
}
