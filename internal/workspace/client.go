// Package workspace is the HTTP client for the document-classification
// workspace API. One Client carries credential attachment, content-type
// negotiation and uniform 401 handling; typed service facets (auth,
// documents, chat, groups) share it.
package workspace

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ai4juris/juriscli/internal/core/ports"
	"github.com/ai4juris/juriscli/internal/observability/metrics"
)

const serviceName = "juriscli"

type Client struct {
	baseURL    string
	session    ports.SessionStore
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.ClientMetrics
}

// New builds the gateway client. The transport deliberately carries no
// request timeout: a hung request leaves the view in its last-known state
// and cancellation happens through the caller's context.
func New(baseURL string, session ports.SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    session,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}
