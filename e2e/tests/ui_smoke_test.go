//go:build e2e

package tests

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/gti/booking-qa/e2e/helpers"
	"github.com/gti/booking-qa/e2e/pages"
	"github.com/gti/booking-qa/internal/fixture"
	"github.com/gti/booking-qa/internal/models"
	"github.com/gti/booking-qa/internal/testdata"
)

// skipWithoutBrowser gates browser tests behind an explicit opt-in so the
// API suite stays runnable on machines without Chrome.
func skipWithoutBrowser(t *testing.T) {
	t.Helper()
	if os.Getenv("E2E_START_BROWSER") == "" {
		t.Skip("set E2E_START_BROWSER=1 to run browser tests")
	}
}

// TestUIBookingsFlow drives the HTMX UI end to end: log in, locate a
// booking created over the API, inspect its details, filter the table, and
// log out again.
func TestUIBookingsFlow(t *testing.T) {
	skipWithoutBrowser(t)

	ctx := context.Background()
	a := helpers.NewAssert(t)

	settings := fixture.Settings(t)
	settings.APIBaseURL = env.ServiceURL()
	fixture.Track(t, settings)

	if err := env.CleanupTestData(ctx); err != nil {
		t.Fatalf("failed to clean test data: %v", err)
	}

	// Booking the UI should render
	created, resp, err := env.API.CreateBooking(ctx, models.CreateBookingRequest{
		Firstname:       "Grace",
		Lastname:        "Hopper",
		TotalPrice:      300,
		DepositPaid:     true,
		CheckIn:         "2026-12-01",
		CheckOut:        "2026-12-04",
		AdditionalNeeds: "Sea view",
	})
	if err != nil || resp.StatusCode != 201 || created == nil {
		t.Fatalf("failed to create booking for UI test: err=%v status=%v", err, resp)
	}

	admin, err := testdata.NewReader(dataDir()).User("admin")
	if err != nil {
		t.Fatalf("failed to load admin credentials: %v", err)
	}

	d := fixture.Driver(t, settings)

	t.Log("Step 1: Logging in through the UI")
	login := pages.NewLoginPage(d, env.ServiceURL())
	if err := login.Open(); err != nil {
		t.Fatalf("failed to open login page: %v", err)
	}
	a.True(login.IsOpen(), "login form should be visible")
	if err := login.Login(admin.Username, admin.Password); err != nil {
		t.Fatalf("failed to submit login form: %v", err)
	}

	t.Log("Step 2: Checking the bookings table")
	bookings := pages.NewBookingsPage(d, env.ServiceURL())
	if err := bookings.Open(); err != nil {
		t.Fatalf("failed to open bookings page: %v", err)
	}
	a.True(bookings.IsLoggedIn(), "header should show the logged-in state")

	username, err := bookings.CurrentUser()
	a.NoError(err)
	a.Equal(admin.Username, username, "header should show the signed-in username")

	names, err := bookings.GuestNames()
	a.NoError(err)
	a.Contains(strings.Join(names, ", "), "Grace Hopper", "table should list the created booking")
	a.True(bookings.HasRow(created.ID), "row for the created booking should be present")

	t.Log("Step 3: Opening the details card")
	if err := bookings.OpenDetails(created.ID); err != nil {
		t.Fatalf("failed to open booking details: %v", err)
	}
	a.True(bookings.DetailsVisible(), "details card should appear")

	checkin, err := bookings.DetailCheckIn()
	a.NoError(err)
	a.Equal("2026-12-01", checkin)

	nights, err := bookings.DetailNights()
	a.NoError(err)
	a.Equal("3", nights)

	t.Log("Step 4: Filtering the table")
	if err := bookings.FilterByLastname("Hopper"); err != nil {
		t.Fatalf("failed to type into the filter: %v", err)
	}
	a.True(bookings.HasRow(created.ID), "matching filter should keep the row")

	if err := bookings.FilterByLastname("Nomatch"); err != nil {
		t.Fatalf("failed to type into the filter: %v", err)
	}
	a.True(bookings.ShowsNoBookings(), "non-matching filter should show the empty state")

	t.Log("Step 5: Logging out")
	if err := bookings.FilterByLastname(""); err != nil {
		t.Fatalf("failed to clear the filter: %v", err)
	}
	if err := bookings.Logout(); err != nil {
		t.Fatalf("failed to click logout: %v", err)
	}
	a.True(login.IsOpen(), "logout should land back on the login page")
}

// TestUILoginRejected checks that the login form surfaces an inline error
// for bad credentials instead of navigating away.
func TestUILoginRejected(t *testing.T) {
	skipWithoutBrowser(t)

	a := helpers.NewAssert(t)

	settings := fixture.Settings(t)
	settings.APIBaseURL = env.ServiceURL()
	fixture.Track(t, settings)

	d := fixture.Driver(t, settings)

	login := pages.NewLoginPage(d, env.ServiceURL())
	if err := login.Open(); err != nil {
		t.Fatalf("failed to open login page: %v", err)
	}
	if err := login.Login("admin", "not-the-password"); err != nil {
		t.Fatalf("failed to submit login form: %v", err)
	}

	if err := login.WaitForError(); err != nil {
		t.Fatalf("no inline error appeared: %v", err)
	}
	text, err := login.ErrorText()
	a.NoError(err)
	a.Contains(text, "Invalid username or password")
	a.True(login.IsOpen(), "failed login should stay on the login page")
}
