package fixture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gti/booking-qa/internal/logging"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LOGS_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("REPORTS_DIR", t.TempDir())
	t.Setenv("SCREENSHOTS_DIR", t.TempDir())
	t.Cleanup(func() { logging.CloseAll() })
}

func TestSettingsLoads(t *testing.T) {
	setupEnv(t)
	t.Setenv("ENVIRONMENT", "qa")

	settings := Settings(t)

	assert.Equal(t, "qa", settings.Environment)
	assert.NotEmpty(t, settings.APIBaseURL)
}

func TestAPIClientTalksToConfiguredBase(t *testing.T) {
	setupEnv(t)

	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(http.StatusOK))
	server := httptest.NewServer(handler)
	defer server.Close()

	t.Setenv("API_BASE_URL", server.URL)
	settings := Settings(t)

	client := APIClient(t, settings)
	resp, err := client.Health(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	info := <-requests
	assert.Equal(t, "/health", info.Request.URL.Path)
}

func TestTrackRecordsOutcome(t *testing.T) {
	setupEnv(t)
	settings := Settings(t)

	before := len(Recorder(settings.ReportsDir).Results())

	t.Run("tracked", func(t *testing.T) {
		Track(t, settings)
	})

	results := Recorder(settings.ReportsDir).Results()
	require.Len(t, results, before+1)
	last := results[len(results)-1]
	assert.Equal(t, "TestTrackRecordsOutcome/tracked", last.Name)
	assert.True(t, last.Passed)
}
