// Package httpclient provides the HTTP client used to talk to the EcoTachos
// backend, with context management, timeouts, request ids and observability hooks.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests if not specified.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a per-request id for correlating client and server logs.
	RequestIDHeader = "X-Request-ID"

	defaultMaxIdleConns        = 20
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second

	defaultTLSHandshakeTimeout   = 10 * time.Second
	defaultResponseHeaderTimeout = 15 * time.Second
	defaultDialTimeout           = 15 * time.Second
	defaultDialKeepAlive         = 30 * time.Second

	defaultUserAgent = "ecotachos-engine"
)

// Client wraps http.Client with per-request timeouts, default headers and hooks.
//
// Thread-safe for concurrent use.
type Client struct {
	client         *http.Client
	defaultTimeout time.Duration
	userAgent      string
	headers        http.Header

	hookMu        sync.RWMutex
	beforeRequest func(*http.Request)
	afterResponse func(*http.Request, *http.Response, time.Duration, error)
}

// Config holds configuration for creating an HTTP client.
type Config struct {
	// DefaultTimeout is the timeout applied if request context has no deadline
	DefaultTimeout time.Duration

	// UserAgent is added to all requests
	UserAgent string

	// Headers are added to every request that does not already set them,
	// e.g. Authorization
	Headers map[string]string

	// Transport overrides the pooled transport, used by tests
	Transport http.RoundTripper
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultTimeout: DefaultTimeout,
		UserAgent:      defaultUserAgent,
	}
}

// New creates a new HTTP client with the given configuration.
// Accepts nil cfg (falls back to DefaultConfig) and does not mutate the caller's config.
func New(cfg *Config) *Client {
	var c Config
	if cfg == nil {
		c = DefaultConfig()
	} else {
		c = *cfg
		if c.DefaultTimeout == 0 {
			c.DefaultTimeout = DefaultTimeout
		}
		if c.UserAgent == "" {
			c.UserAgent = defaultUserAgent
		}
	}

	transport := c.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   defaultDialTimeout,
				KeepAlive: defaultDialKeepAlive,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          defaultMaxIdleConns,
			MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
			ResponseHeaderTimeout: defaultResponseHeaderTimeout,
		}
	}

	headers := make(http.Header, len(c.Headers))
	for k, v := range c.Headers {
		if v != "" {
			headers.Set(k, v)
		}
	}

	return &Client{
		client:         &http.Client{Transport: transport},
		defaultTimeout: c.DefaultTimeout,
		userAgent:      c.UserAgent,
		headers:        headers,
	}
}

// HTTPClient exposes the underlying client so tests can intercept its transport.
func (c *Client) HTTPClient() *http.Client {
	return c.client
}

// Do executes an HTTP request with context management and timeout enforcement.
//
// If ctx has no deadline the default timeout is applied; the timeout stays
// active until the response body is closed. The response body must be closed
// by the caller if err is nil.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cancel := context.CancelFunc(func() {})
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.defaultTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.defaultTimeout)
	}
	req = req.WithContext(ctx)

	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, values := range c.headers {
		if req.Header.Get(key) == "" {
			req.Header[key] = values
		}
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	c.hookMu.RLock()
	beforeHook := c.beforeRequest
	afterHook := c.afterResponse
	c.hookMu.RUnlock()

	if beforeHook != nil {
		beforeHook(req)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)

	if afterHook != nil {
		afterHook(req, resp, elapsed, err)
	}

	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnClose releases the request timeout once the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// Get performs a GET request with context.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, url, "", nil)
}

// Post performs a POST request with context.
// Handles multiple body types:
//   - nil: uses http.NoBody
//   - io.Reader: uses directly
//   - []byte or string: wraps in appropriate reader
//   - other: marshals to JSON
func (c *Client) Post(ctx context.Context, url, contentType string, body any) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, url, contentType, body)
}

// Patch performs a PATCH request with context. Body handling matches Post.
func (c *Client) Patch(ctx context.Context, url, contentType string, body any) (*http.Response, error) {
	return c.send(ctx, http.MethodPatch, url, contentType, body)
}

func (c *Client) send(ctx context.Context, method, url, contentType string, body any) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var bodyReader io.Reader = http.NoBody
	var isJSON bool

	if body != nil {
		switch v := body.(type) {
		case io.Reader:
			bodyReader = v
		case []byte:
			bodyReader = bytes.NewReader(v)
		case string:
			bodyReader = strings.NewReader(v)
		default:
			data, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal body: %w", err)
			}
			bodyReader = bytes.NewReader(data)
			isJSON = true
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}

	switch {
	case contentType != "":
		req.Header.Set("Content-Type", contentType)
	case isJSON:
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.Do(ctx, req)
}

// SetBeforeRequestHook sets a function to be called before each request.
// Safe to call concurrently with Do() and other hook setters.
func (c *Client) SetBeforeRequestHook(fn func(*http.Request)) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.beforeRequest = fn
}

// SetAfterResponseHook sets a function to be called after each request with
// the round-trip duration. resp is nil when err is set.
// Safe to call concurrently with Do() and other hook setters.
func (c *Client) SetAfterResponseHook(fn func(*http.Request, *http.Response, time.Duration, error)) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.afterResponse = fn
}

// Close closes idle connections in the connection pool.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}
