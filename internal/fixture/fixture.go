// Package fixture wires settings, browser drivers, API clients and the run
// recorder into per-test lifecycles via t.Cleanup.
package fixture

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gti/booking-qa/internal/apiclient"
	"github.com/gti/booking-qa/internal/browser"
	"github.com/gti/booking-qa/internal/config"
	"github.com/gti/booking-qa/internal/helpers"
	"github.com/gti/booking-qa/internal/report"
)

var (
	recorderOnce sync.Once
	recorder     *report.Recorder
)

// Recorder returns the process-wide run recorder, created on first use with
// the given reports directory.
func Recorder(reportsDir string) *report.Recorder {
	recorderOnce.Do(func() {
		recorder = report.NewRecorder(reportsDir)
	})
	return recorder
}

// Settings loads the run configuration, failing the test on error.
func Settings(t *testing.T) *config.Settings {
	t.Helper()

	settings, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	return settings
}

// Driver starts a browser for this test and registers teardown: when the
// test failed, a screenshot is captured to
// <screenshots>/<test>_<timestamp>.png before the browser closes.
func Driver(t *testing.T, settings *config.Settings) *browser.Driver {
	t.Helper()

	d, err := browser.New(settings)
	if err != nil {
		t.Fatalf("failed to start browser: %v", err)
	}

	t.Cleanup(func() {
		if t.Failed() {
			name := fmt.Sprintf("%s_%s.png", helpers.SanitizeFilename(t.Name()), helpers.Timestamp())
			path := filepath.Join(settings.ScreenshotsDir, name)
			if err := d.Screenshot(path); err != nil {
				t.Logf("failed to capture failure screenshot: %v", err)
			} else {
				t.Logf("failure screenshot saved to %s", path)
			}
		}
		if err := d.Close(); err != nil {
			t.Logf("failed to close browser: %v", err)
		}
	})
	return d
}

// APIClient builds a booking API client for this test, attached to the run
// recorder, with idle connections released on teardown.
func APIClient(t *testing.T, settings *config.Settings) *apiclient.BookingClient {
	t.Helper()

	c := apiclient.New(apiclient.Config{
		BaseURL:    settings.APIBaseURL,
		Timeout:    settings.APITimeout,
		RetryCount: settings.APIRetryCount,
		Recorder:   Recorder(settings.ReportsDir),
	})
	t.Cleanup(c.CloseIdleConnections)
	return apiclient.NewBookingClient(c)
}

// Track records this test's outcome (pass/fail and duration) with the run
// recorder when it finishes.
func Track(t *testing.T, settings *config.Settings) {
	t.Helper()

	start := time.Now()
	t.Cleanup(func() {
		Recorder(settings.ReportsDir).Record(t.Name(), !t.Failed(), time.Since(start))
	})
}
