//go:build e2e

package tests

import (
	"context"
	"strings"
	"testing"

	"github.com/gti/booking-qa/e2e/helpers"
	"github.com/gti/booking-qa/internal/testdata"
)

// TestSeededUserLogins checks that every account in users.yaml can sign in
// against the running service.
func TestSeededUserLogins(t *testing.T) {
	track(t)
	ctx := context.Background()
	reader := testdata.NewReader(dataDir())

	for _, alias := range []string{"admin", "standard", "secondary"} {
		alias := alias
		t.Run(alias, func(t *testing.T) {
			a := helpers.NewAssert(t)

			creds, err := reader.User(alias)
			if err != nil {
				t.Fatalf("failed to load credentials: %v", err)
			}

			// Fresh client per account so session cookies don't leak
			// between subtests.
			api := env.NewAPIClient()

			token, resp, err := api.Login(ctx, creds.Username, creds.Password)
			a.NoError(err, "login should not return an error")
			a.Status(200, resp, "seeded account %q should be able to log in", creds.Username)
			a.NotEmpty(token, "login should issue a session token")

			resp, err = api.Logout(ctx)
			a.NoError(err)
			a.Status(200, resp)
		})
	}
}

// TestBookingKinds creates one booking per payload in booking_data.json and
// checks the round trip against both the API and the database.
func TestBookingKinds(t *testing.T) {
	env := track(t)
	ctx := context.Background()
	reader := testdata.NewReader(dataDir())

	iso := env.NewIsolatedEnv("kinds")
	t.Cleanup(func() {
		if err := iso.Cleanup(context.Background()); err != nil {
			t.Logf("cleanup failed: %v", err)
		}
	})

	for _, kind := range []string{"default", "weekend", "longstay"} {
		kind := kind
		t.Run(kind, func(t *testing.T) {
			a := helpers.NewAssert(t)

			payload, err := reader.Booking(kind)
			if err != nil {
				t.Fatalf("failed to load booking payload: %v", err)
			}

			req := *payload
			req.Lastname = iso.UniqueLastname(req.Lastname)

			created, resp, err := iso.API.CreateBooking(ctx, req)
			a.NoError(err, "create should not return an error")
			a.Status(201, resp)
			if created == nil {
				t.Fatal("no booking payload returned")
			}

			a.Equal(req.Firstname, created.Firstname)
			a.Equal(req.Lastname, created.Lastname)
			a.Equal(req.TotalPrice, created.TotalPrice)
			a.Equal(req.DepositPaid, created.DepositPaid)
			a.Equal(req.CheckIn, created.CheckIn)
			a.Equal(req.CheckOut, created.CheckOut)
			a.Equal(req.AdditionalNeeds, created.AdditionalNeeds)

			exists, err := iso.Verify.BookingExists(ctx, created.ID)
			a.NoError(err)
			a.True(exists, "created booking should be persisted")
		})
	}
}

// TestEndpointCatalog walks the GET rows of endpoints.csv and checks each
// one answers. Parameterized paths are skipped; they need ids the catalog
// cannot carry.
func TestEndpointCatalog(t *testing.T) {
	env := track(t)
	ctx := context.Background()
	a := helpers.NewAssert(t)

	rows, err := testdata.NewReader(dataDir()).ReadCSV("endpoints.csv")
	if err != nil {
		t.Fatalf("failed to read endpoint catalog: %v", err)
	}
	a.NotEmpty(rows, "endpoint catalog should not be empty")

	for _, row := range rows {
		if row["method"] != "GET" || strings.Contains(row["path"], "{") {
			continue
		}

		resp, err := env.API.Get(ctx, row["path"])
		a.NoError(err, "GET %s should not return a transport error", row["path"])
		a.Status(200, resp, "endpoint %q should answer", row["name"])
	}
}

// TestEnvironmentCatalog sanity-checks environments.toml so manual runs
// against deployed instances don't start from a broken file.
func TestEnvironmentCatalog(t *testing.T) {
	track(t)
	a := helpers.NewAssert(t)

	var envs map[string]struct {
		BaseURL string `toml:"base_url"`
	}
	if err := testdata.NewReader(dataDir()).ReadTOML("environments.toml", &envs); err != nil {
		t.Fatalf("failed to read environment catalog: %v", err)
	}

	for _, name := range []string{"dev", "qa", "staging", "prod"} {
		entry, ok := envs[name]
		a.True(ok, "environment %q should be defined", name)
		a.Contains(entry.BaseURL, "https://", "environment %q should use https", name)
	}
}
