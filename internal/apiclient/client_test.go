package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gti/booking-qa/internal/logging"
	"github.com/gti/booking-qa/internal/report"
)

// newTestClient keeps the lazily initialized logging sinks in a temp dir and
// turns the backoff down so retry tests finish quickly.
func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	t.Setenv("LOGS_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "info")
	t.Cleanup(func() { logging.CloseAll() })

	if cfg.RetryInitialInterval == 0 {
		cfg.RetryInitialInterval = time.Millisecond
	}
	c := New(cfg)
	t.Cleanup(c.CloseIdleConnections)
	return c
}

func TestGetReturnsResponse(t *testing.T) {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	server := httptest.NewServer(httphelpers.HandlerWithResponse(http.StatusOK, headers, []byte(`{"status":"ok"}`)))
	defer server.Close()

	c := newTestClient(t, Config{BaseURL: server.URL})

	resp, err := c.Get(context.Background(), "/health")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"status":"ok"}`, resp.String())
	assert.Equal(t, "application/json", resp.Headers.Get("Content-Type"))
	assert.True(t, resp.IsSuccess())

	var body map[string]string
	require.NoError(t, resp.JSON(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestPostSendsJSONBody(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(http.StatusCreated))
	server := httptest.NewServer(handler)
	defer server.Close()

	c := newTestClient(t, Config{BaseURL: server.URL})

	resp, err := c.Post(context.Background(), "/api/bookings", map[string]interface{}{"firstname": "Jim"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	info := <-requests
	assert.Equal(t, http.MethodPost, info.Request.Method)
	assert.Equal(t, "/api/bookings", info.Request.URL.Path)
	assert.Equal(t, "application/json", info.Request.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"firstname":"Jim"}`, string(info.Body))
}

func TestDefaultHeadersSentOnEveryRequest(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(http.StatusOK))
	server := httptest.NewServer(handler)
	defer server.Close()

	c := newTestClient(t, Config{BaseURL: server.URL})
	c.SetHeader("X-API-Key", "qa-key")

	_, err := c.Get(context.Background(), "/api/bookings")
	require.NoError(t, err)
	info := <-requests
	assert.Equal(t, "qa-key", info.Request.Header.Get("X-API-Key"))

	c.DeleteHeader("X-API-Key")
	_, err = c.Get(context.Background(), "/api/bookings")
	require.NoError(t, err)
	info = <-requests
	assert.Empty(t, info.Request.Header.Get("X-API-Key"))
}

func TestRetriesRecoverFromServerErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("recovered"))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	c := newTestClient(t, Config{BaseURL: server.URL})

	resp, err := c.Get(context.Background(), "/flaky")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "recovered", resp.String())
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetriesExhaustedReturnLastResponse(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(http.StatusInternalServerError))
	server := httptest.NewServer(handler)
	defer server.Close()

	c := newTestClient(t, Config{BaseURL: server.URL, RetryCount: 3})

	resp, err := c.Get(context.Background(), "/broken")
	require.NoError(t, err, "a retryable status is data, not an error")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// initial attempt plus three retries
	assert.Len(t, requests, 4)
}

func TestNonRetryableStatusNotRetried(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(http.StatusNotFound))
	server := httptest.NewServer(handler)
	defer server.Close()

	c := newTestClient(t, Config{BaseURL: server.URL})

	resp, err := c.Get(context.Background(), "/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Len(t, requests, 1)
}

func TestRateLimitedStatusIsRetried(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	c := newTestClient(t, Config{BaseURL: server.URL})

	resp, err := c.Get(context.Background(), "/limited")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTransportErrorIsWrapped(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(http.StatusOK))
	url := server.URL
	server.Close()

	c := newTestClient(t, Config{BaseURL: url, RetryCount: 1})

	resp, err := c.Get(context.Background(), "/gone")
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorContains(t, err, "request failed")
	assert.ErrorContains(t, err, "GET")
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(http.StatusOK))
	defer server.Close()

	c := newTestClient(t, Config{BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "/health")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResponsesAttachedToRecorder(t *testing.T) {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	server := httptest.NewServer(httphelpers.HandlerWithResponse(http.StatusOK, headers, []byte(`{"id":"b-1"}`)))
	defer server.Close()

	reportsDir := t.TempDir()
	rec := report.NewRecorder(reportsDir)
	c := newTestClient(t, Config{BaseURL: server.URL, Recorder: rec})

	_, err := c.Get(context.Background(), "/api/bookings/b-1")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(reportsDir, "attachments"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))

	content, err := os.ReadFile(filepath.Join(reportsDir, "attachments", entries[0].Name()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b-1"}`, string(content))
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	c := newTestClient(t, Config{BaseURL: "http://localhost:9999/"})
	assert.Equal(t, "http://localhost:9999", c.BaseURL())
}

func TestResponseJSONDecodeError(t *testing.T) {
	resp := &Response{StatusCode: http.StatusOK, Body: []byte("<html>")}

	var v map[string]interface{}
	err := resp.JSON(&v)
	assert.ErrorContains(t, err, "failed to decode response body")
}

func TestRequestBodyResentOnRetry(t *testing.T) {
	var calls atomic.Int32
	var bodies []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	c := newTestClient(t, Config{BaseURL: server.URL})

	resp, err := c.Post(context.Background(), "/api/bookings", map[string]string{"firstname": "Eve"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, bodies, 2)
	assert.JSONEq(t, `{"firstname":"Eve"}`, bodies[0])
	assert.JSONEq(t, `{"firstname":"Eve"}`, bodies[1], "retry must resend the full body")
}
