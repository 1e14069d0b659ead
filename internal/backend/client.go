// Package backend is the client for the EcoTachos REST backend.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/httpclient"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/observability/metrics"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
)

const (
	maxRetries        = 3
	defaultRetryDelay = 500 * time.Millisecond
	maxErrorBody      = 64 * 1024
)

// Client provides methods for interacting with the backend API
type Client struct {
	config     Config
	baseURL    *url.URL
	http       *httpclient.Client
	cache      *cache.Cache
	log        logger.Logger
	metrics    *metrics.BackendMetrics
	retryDelay time.Duration
}

// NewClient creates a new backend client
func NewClient(config Config) (*Client, error) {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.LookupCacheTTL == 0 {
		config.LookupCacheTTL = defaults.LookupCacheTTL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	base, err := url.Parse(config.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.Newf("invalid backend base URL: %q", config.BaseURL).
			Component("backend").
			Category(errors.CategoryConfiguration).
			Build()
	}

	headers := map[string]string{}
	if config.Token != "" {
		headers["Authorization"] = "Token " + config.Token
	}

	c := &Client{
		config:  config,
		baseURL: base,
		http: httpclient.New(&httpclient.Config{
			DefaultTimeout: config.Timeout,
			UserAgent:      config.UserAgent,
			Headers:        headers,
		}),
		cache:      cache.New(config.LookupCacheTTL, config.LookupCacheTTL*2),
		log:        logger.Global().Module("backend"),
		retryDelay: defaultRetryDelay,
	}

	c.http.SetBeforeRequestHook(func(req *http.Request) {
		c.log.Debug("backend request",
			logger.String("method", req.Method),
			logger.String("path", req.URL.Path),
			logger.String("request_id", req.Header.Get(httpclient.RequestIDHeader)))
	})

	c.log.Info("backend client initialized",
		logger.String("base_url", config.BaseURL),
		logger.Duration("timeout", config.Timeout),
		logger.Duration("lookup_cache_ttl", config.LookupCacheTTL),
		logger.Bool("token_configured", config.Token != ""))

	return c, nil
}

// SetMetrics records request outcomes on m.
func (c *Client) SetMetrics(m *metrics.BackendMetrics) {
	c.metrics = m
	if m == nil {
		c.http.SetAfterResponseHook(nil)
		return
	}
	c.http.SetAfterResponseHook(func(req *http.Request, resp *http.Response, elapsed time.Duration, err error) {
		endpoint := c.endpointLabel(req.URL.Path)
		if err != nil {
			m.RecordError(endpoint, "network")
			return
		}
		m.RecordRequest(req.Method, endpoint, resp.StatusCode, elapsed.Seconds())
		switch {
		case resp.StatusCode >= 500:
			m.RecordError(endpoint, "http_5xx")
		case resp.StatusCode >= 400:
			m.RecordError(endpoint, "http_4xx")
		}
	})
}

// HTTPClient exposes the underlying http.Client so tests can mock its transport.
func (c *Client) HTTPClient() *http.Client {
	return c.http.HTTPClient()
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}

// ListContainers fetches all containers as raw records.
func (c *Client) ListContainers(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "/tachos/")
}

// ListDetections fetches all detections as raw records.
func (c *Client) ListDetections(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "/detecciones/")
}

// Lookup fetches an administrative hierarchy list. Results are cached in
// memory for the configured lookup TTL.
func (c *Client) Lookup(ctx context.Context, lookup Lookup) ([]map[string]any, error) {
	cacheKey := "lookup:" + string(lookup)
	if cached, found := c.cache.Get(cacheKey); found {
		if items, ok := cached.([]map[string]any); ok {
			if c.metrics != nil {
				c.metrics.RecordLookupCache(string(lookup), true)
			}
			c.log.Debug("lookup cache hit", logger.String("lookup", string(lookup)), logger.Int("entries", len(items)))
			return items, nil
		}
	}
	if c.metrics != nil {
		c.metrics.RecordLookupCache(string(lookup), false)
	}

	items, err := c.list(ctx, "/"+string(lookup)+"/")
	if err != nil {
		return nil, err
	}
	c.cache.Set(cacheKey, items, cache.DefaultExpiration)
	return items, nil
}

// list GETs a collection, retrying transient failures.
func (c *Client) list(ctx context.Context, path string) ([]map[string]any, error) {
	var lastErr error
	for attempt := range maxRetries {
		body, err := c.do(ctx, http.MethodGet, path, "", nil)
		if err == nil {
			items, decodeErr := record.DecodeList(body)
			if decodeErr != nil {
				return nil, errors.New(decodeErr).
					Component("backend").
					Category(errors.CategoryFileParsing).
					Context("path", path).
					Build()
			}
			return items, nil
		}

		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < maxRetries-1 {
			delay := time.Duration(attempt+1) * c.retryDelay
			c.log.Warn("backend request failed, retrying",
				logger.String("path", path),
				logger.Int("attempt", attempt+1),
				logger.Int("max_retries", maxRetries),
				logger.Duration("delay", delay),
				logger.Error(err))
			select {
			case <-ctx.Done():
				return nil, lastErr
			case <-time.After(delay):
			}
		}
	}
	return nil, lastErr
}

// retryable reports whether err is a network failure or a 5xx/429 response.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
	}
	return errors.IsCategory(err, errors.CategoryNetwork)
}

// CreateDetection uploads a new detection as multipart form data and returns
// the created record.
func (c *Client) CreateDetection(ctx context.Context, upload DetectionUpload) (map[string]any, error) {
	body, contentType, err := encodeUpload(upload)
	if err != nil {
		return nil, err
	}

	respBody, err := c.do(ctx, http.MethodPost, "/detecciones/", contentType, body)
	if err != nil {
		return nil, err
	}

	var created map[string]any
	if len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, &created); err != nil {
			c.log.Warn("created detection response is not an object", logger.Error(err))
		}
	}
	return created, nil
}

func encodeUpload(upload DetectionUpload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range upload.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", errors.New(err).Component("backend").Category(errors.CategoryFileIO).Build()
		}
	}

	if upload.ImagePath != "" {
		file, err := os.Open(upload.ImagePath)
		if err != nil {
			return nil, "", errors.New(err).
				Component("backend").
				Category(errors.CategoryFileIO).
				Context("operation", "open-image").
				Build()
		}
		defer file.Close()

		part, err := w.CreateFormFile("imagen", filepath.Base(upload.ImagePath))
		if err != nil {
			return nil, "", errors.New(err).Component("backend").Category(errors.CategoryFileIO).Build()
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, "", errors.New(err).
				Component("backend").
				Category(errors.CategoryFileIO).
				Context("operation", "copy-image").
				Build()
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.New(err).Component("backend").Category(errors.CategoryFileIO).Build()
	}
	return buf, w.FormDataContentType(), nil
}

// Deactivate soft-deletes a container or detection. The backend is asked to
// clear "activo" first; when it rejects that with 400 the request is repeated
// once with "estado" set to "inactivo".
func (c *Client) Deactivate(ctx context.Context, resource Resource, id int) error {
	path := fmt.Sprintf("/%s/%d/", resource, id)

	_, err := c.do(ctx, http.MethodPatch, path, "", map[string]any{"activo": false})
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		return err
	}

	c.log.Info("activo flag rejected, retrying with estado",
		logger.String("resource", string(resource)),
		logger.Int("id", id))
	_, err = c.do(ctx, http.MethodPatch, path, "", map[string]any{"estado": "inactivo"})
	return err
}

// do performs one request and returns the body of a 2xx response. Other
// statuses are returned as *APIError wrapped in an enhanced error.
func (c *Client) do(ctx context.Context, method, path, contentType string, body any) ([]byte, error) {
	target := c.config.BaseURL + path

	var (
		resp *http.Response
		err  error
	)
	switch method {
	case http.MethodGet:
		resp, err = c.http.Get(ctx, target)
	case http.MethodPost:
		resp, err = c.http.Post(ctx, target, contentType, body)
	case http.MethodPatch:
		resp, err = c.http.Patch(ctx, target, contentType, body)
	default:
		return nil, errors.Newf("unsupported method %s", method).
			Component("backend").
			Category(errors.CategoryValidation).
			Build()
	}
	if err != nil {
		category := errors.CategoryNetwork
		if ctx.Err() != nil {
			category = errors.CategoryCancellation
		}
		return nil, errors.Newf("backend request failed: %w", err).
			Component("backend").
			Category(category).
			Context("method", method).
			Context("path", path).
			Build()
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, errors.Newf("failed to read response body: %w", err).
			Component("backend").
			Category(errors.CategoryNetwork).
			Context("path", path).
			Context("status_code", resp.StatusCode).
			Build()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: data}
		category := errors.CategoryHTTP
		if resp.StatusCode == http.StatusNotFound {
			category = errors.CategoryNotFound
		}
		return nil, errors.New(apiErr).
			Component("backend").
			Category(category).
			Context("method", method).
			Context("path", path).
			Context("status_code", resp.StatusCode).
			Build()
	}
	return data, nil
}

// endpointLabel reduces a request path to its collection name for metrics.
func (c *Client) endpointLabel(path string) string {
	path = strings.TrimPrefix(path, c.baseURL.Path)
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
