// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package yelp exchanges client credentials for a bearer token and runs
// authenticated business searches against the Yelp API.
//
// Every search fetches a fresh token; tokens are never cached or reused.
// Each call is a single attempt unless YelpConfig.MaxRetries enables
// backoff on HTTP 429.
package yelp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/pinmap/internal/httputil"
	"github.com/pdiddy/pinmap/internal/metrics"
	"github.com/pdiddy/pinmap/pkg/types"
)

const (
	// DefaultAPIHost is the production Yelp API.
	DefaultAPIHost = "https://api.yelp.com"

	// DefaultTimeout bounds each provider request when none is configured.
	DefaultTimeout = 5 * time.Second

	tokenPath  = "/oauth2/token"
	searchPath = "/v3/businesses/search"
	grantType  = "client_credentials"

	opToken  = "token"
	opSearch = "search"

	// maxBodyBytes caps how much of a provider response is read.
	maxBodyBytes = 4 << 20
)

// Client talks to the Yelp API. It holds no per-request state and is safe
// for concurrent use.
type Client struct {
	http        *http.Client
	credentials types.Credentials
	apiHost     string
	userAgent   string
	timeout     time.Duration
	maxRetries  int
	log         *zap.Logger
	metrics     *metrics.Metrics
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is kept
// as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithMetrics records provider calls on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient returns a Client for cfg. It fails when either credential is
// missing or the API host is not an http(s) URL, so that misconfiguration
// surfaces at startup.
func NewClient(cfg types.YelpConfig, opts ...Option) (*Client, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	host := strings.TrimRight(cfg.APIHost, "/")
	if host == "" {
		host = DefaultAPIHost
	}
	if u, err := url.Parse(host); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid api host %q: want http(s)://host[:port]", cfg.APIHost)
	}

	c := &Client{
		http:        &http.Client{Timeout: timeout},
		credentials: cfg.Credentials,
		apiHost:     host,
		userAgent:   cfg.UserAgent,
		timeout:     timeout,
		maxRetries:  cfg.MaxRetries,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c, nil
}

// do sends req and returns the body of a 2xx response. Transport failures,
// unreadable bodies and non-2xx statuses come back as *Error.
func (c *Client) do(ctx context.Context, op string, req *http.Request) ([]byte, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	log := c.log.With(zap.String("op", op), zap.String("url", req.URL.Redacted()))

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries, c.log)
	if err != nil {
		c.metrics.ObserveProvider(op, "connection", time.Since(start))
		log.Warn("provider request failed", zap.Error(err))
		return nil, &Error{Kind: ErrConnection, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.ObserveProvider(op, "connection", time.Since(start))
		log.Warn("reading provider response", zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, &Error{Kind: ErrConnection, Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	elapsed := time.Since(start)
	if resp.StatusCode/100 != 2 {
		e := statusError(op, resp.StatusCode, body)
		c.metrics.ObserveProvider(op, KindName(e), elapsed)
		log.Warn("provider returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("code", e.Code),
			zap.Duration("elapsed", elapsed),
		)
		return nil, e
	}

	c.metrics.ObserveProvider(op, "ok", elapsed)
	log.Debug("provider request complete", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", elapsed))
	return body, nil
}
