// Package apiclient is the framework's HTTP client: one pooled client per
// test run, JSON request/response handling, and a fixed retry policy for
// flaky-environment status codes.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/gti/booking-qa/internal/logging"
	"github.com/gti/booking-qa/internal/report"
)

// Config controls a Client. Zero values take the defaults noted per field.
type Config struct {
	// BaseURL is prepended to every request path.
	BaseURL string

	// Timeout is the per-attempt request timeout (default 30s).
	Timeout time.Duration

	// RetryCount is how many times a failed attempt is retried (default 3).
	RetryCount int

	// RetryInitialInterval seeds the exponential backoff (default 1s).
	RetryInitialInterval time.Duration

	// Recorder, when set, receives response bodies as run attachments.
	Recorder *report.Recorder
}

// Response is the outcome of a completed HTTP exchange. Non-2xx statuses
// are delivered here, not as errors; only transport failures are errors.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// JSON decodes the response body into v.
func (r *Response) JSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// String returns the response body as text.
func (r *Response) String() string {
	return string(r.Body)
}

// IsSuccess reports whether the status is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client issues JSON requests against one base URL, sharing a pooled
// transport across all calls in the run. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryCount int
	retryStart time.Duration
	recorder   *report.Recorder
	log        zerolog.Logger

	mu      sync.RWMutex
	headers map[string]string
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	retryCount := cfg.RetryCount
	if retryCount == 0 {
		retryCount = 3
	}
	retryStart := cfg.RetryInitialInterval
	if retryStart == 0 {
		retryStart = time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retryCount: retryCount,
		retryStart: retryStart,
		recorder:   cfg.Recorder,
		log:        logging.Get("api"),
		headers:    make(map[string]string),
	}
}

// BaseURL returns the client's base URL without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetHeader sets a default header sent with every request.
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[key] = value
}

// DeleteHeader removes a default header.
func (c *Client) DeleteHeader(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.headers, key)
}

// CloseIdleConnections releases pooled connections (fixture teardown).
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post sends a POST request with body marshaled as JSON.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put sends a PUT request with body marshaled as JSON.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Patch sends a PATCH request with body marshaled as JSON.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// do performs one request under the retry policy. Attempts are retried on
// transport errors and on 429/500/502/503/504 responses. When retries
// exhaust on a retryable status, the last response is returned with a nil
// error; when they exhaust on transport errors, the last error is returned.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	url := c.baseURL + path

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	c.log.Debug().Str("method", method).Str("url", url).Int("body_bytes", len(payload)).Msg("sending request")

	var (
		resp          *Response
		lastWasStatus bool
		attempt       int
	)

	operation := func() error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		c.mu.RLock()
		for key, value := range c.headers {
			req.Header.Set(key, value)
		}
		c.mu.RUnlock()

		res, err := c.httpClient.Do(req)
		if err != nil {
			lastWasStatus = false
			c.log.Warn().Err(err).Int("attempt", attempt).Str("url", url).Msg("request attempt failed")
			return fmt.Errorf("request failed: %w", err)
		}
		defer res.Body.Close()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			lastWasStatus = false
			return fmt.Errorf("failed to read response body: %w", err)
		}

		resp = &Response{StatusCode: res.StatusCode, Body: data, Headers: res.Header}
		if retryableStatus(res.StatusCode) {
			lastWasStatus = true
			c.log.Warn().Int("status", res.StatusCode).Int("attempt", attempt).Str("url", url).Msg("retryable status")
			return fmt.Errorf("server returned %d", res.StatusCode)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryStart

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.retryCount)), ctx))
	if err != nil {
		if resp != nil && lastWasStatus {
			c.log.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("retries exhausted, returning last response")
			c.attach(method, path, resp)
			return resp, nil
		}
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}

	c.log.Debug().Int("status", resp.StatusCode).Int("attempts", attempt).Str("url", url).Msg("request completed")
	c.attach(method, path, resp)
	return resp, nil
}

func (c *Client) attach(method, path string, resp *Response) {
	if c.recorder == nil {
		return
	}

	ext := "txt"
	if strings.Contains(resp.Headers.Get("Content-Type"), "application/json") {
		ext = "json"
	}
	name := fmt.Sprintf("%s %s %d", method, path, resp.StatusCode)
	if _, err := c.recorder.Attach(name, ext, resp.Body); err != nil {
		c.log.Warn().Err(err).Msg("failed to attach response")
	}
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
