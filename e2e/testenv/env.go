// Package testenv provides ephemeral test infrastructure using testcontainers.
//
// This package manages the complete E2E test environment including:
//   - Ephemeral PostgreSQL container via testcontainers-go
//   - Demo booking service subprocess
//   - Test isolation and cleanup utilities
//
// Example usage:
//
//	func TestMain(m *testing.M) {
//	    env, err := testenv.Setup(context.Background(), testenv.DefaultConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer env.Teardown()
//
//	    os.Exit(m.Run())
//	}
package testenv

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/gti/booking-qa/internal/apiclient"
	"github.com/gti/booking-qa/internal/database"
	"github.com/gti/booking-qa/internal/dbverify"
	"github.com/gti/booking-qa/internal/models"
)

// TestEnv holds all resources for E2E testing.
//
// This struct is safe for use across parallel tests when using
// proper isolation (separate data per test, cleanup between tests).
type TestEnv struct {
	// Postgres is the ephemeral PostgreSQL container.
	Postgres *PostgresContainer

	// Service is the running demo booking service.
	Service *Service

	// Verify provides database state checks for tests.
	Verify *dbverify.Verifier

	// API is the booking API client, pre-configured with the API key.
	API *apiclient.BookingClient

	// Pool provides direct database access.
	Pool *pgxpool.Pool

	// Config holds the environment configuration.
	Config EnvConfig

	// cleanupFuncs holds cleanup functions in reverse order.
	cleanupFuncs []func()
}

// EnvConfig holds configuration for the test environment.
type EnvConfig struct {
	// Postgres holds PostgreSQL container configuration.
	Postgres PostgresConfig

	// Service holds service configuration.
	Service ServiceConfig

	// SkipService skips starting the service (for DB-only tests).
	SkipService bool

	// ExternalDatabaseURL is an optional external database URL to use instead of testcontainers.
	// If set, testcontainers will be skipped. Useful for CI environments without Docker.
	ExternalDatabaseURL string
}

// DefaultConfig returns the default test environment configuration.
func DefaultConfig() EnvConfig {
	return EnvConfig{
		Postgres:            DefaultPostgresConfig(),
		Service:             DefaultServiceConfig(),
		SkipService:         false,
		ExternalDatabaseURL: os.Getenv("TEST_DATABASE_URL"),
	}
}

// Setup initializes the complete E2E test environment.
//
// This function:
//  1. Starts an ephemeral PostgreSQL container (or uses external database if provided)
//  2. Runs database migrations
//  3. Starts the booking service connected to the database
//  4. Initializes the database verifier and API client
//
// Always call Teardown() when done:
//
//	env, err := testenv.Setup(ctx, testenv.DefaultConfig())
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer env.Teardown()
func Setup(ctx context.Context, cfg EnvConfig) (*TestEnv, error) {
	env := &TestEnv{
		Config:       cfg,
		cleanupFuncs: make([]func(), 0),
	}

	var pool *pgxpool.Pool
	var dbURL string

	// Use external database if provided, otherwise start testcontainer
	if cfg.ExternalDatabaseURL != "" {
		// Connect to external database
		db, err := database.New(ctx, cfg.ExternalDatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to external database: %w", err)
		}

		// Run migrations
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations on external database: %w", err)
		}

		pool = db.Pool
		dbURL = cfg.ExternalDatabaseURL
		env.addCleanup(func() {
			if pool != nil {
				pool.Close()
			}
		})
	} else {
		// Start PostgreSQL container
		pg, pgCleanup, err := StartPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to start postgres: %w", err)
		}
		env.addCleanup(pgCleanup)
		env.Postgres = pg
		pool = pg.Pool
		dbURL = pg.ConnectionString
	}

	env.Pool = pool

	// Initialize database verifier
	env.Verify = dbverify.FromPool(pool)

	// Start service unless skipped
	if !cfg.SkipService {
		// Configure service with database URL
		svcCfg := cfg.Service
		svcCfg.DatabaseURL = dbURL

		svc, svcCleanup, err := StartService(ctx, svcCfg)
		if err != nil {
			env.Teardown()
			return nil, fmt.Errorf("failed to start service: %w", err)
		}
		env.addCleanup(svcCleanup)
		env.Service = svc

		// Initialize API client
		env.API = env.NewAPIClient()
	}

	return env, nil
}

// NewAPIClient builds a booking API client pointed at the running service,
// with the API key header installed. Each parallel test can take its own.
func (env *TestEnv) NewAPIClient() *apiclient.BookingClient {
	c := apiclient.New(apiclient.Config{
		BaseURL: env.ServiceURL(),
	})
	c.SetHeader("X-API-Key", env.Config.Service.APIKey)
	return apiclient.NewBookingClient(c)
}

// Teardown releases all test resources in reverse order.
//
// This function:
//  1. Stops the booking service
//  2. Closes database connections
//  3. Terminates the PostgreSQL container
func (env *TestEnv) Teardown() {
	// Run cleanup functions in reverse order
	for i := len(env.cleanupFuncs) - 1; i >= 0; i-- {
		env.cleanupFuncs[i]()
	}
}

// CleanupTestData removes all bookings and sessions.
//
// Seeded users are kept so logins keep working. Call this between tests
// for isolation:
//
//	func TestSomething(t *testing.T) {
//	    env.CleanupTestData(ctx)
//	    // ... test with clean state ...
//	}
func (env *TestEnv) CleanupTestData(ctx context.Context) error {
	return env.Verify.TruncateAll(ctx)
}

// ServiceURL returns the base URL of the running service.
func (env *TestEnv) ServiceURL() string {
	if env.Service == nil {
		return ""
	}
	return env.Service.URL
}

// SeedBooking inserts a booking directly into the database, returning its ID.
func (env *TestEnv) SeedBooking(ctx context.Context, b models.CreateBookingRequest) (string, error) {
	id := uuid.New().String()
	_, err := env.Pool.Exec(ctx,
		`INSERT INTO bookings (id, firstname, lastname, total_price, deposit_paid, checkin, checkout, additional_needs)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, b.Firstname, b.Lastname, b.TotalPrice, b.DepositPaid, b.CheckIn, b.CheckOut, b.AdditionalNeeds)
	if err != nil {
		return "", fmt.Errorf("failed to seed booking: %w", err)
	}
	return id, nil
}

// SeedUser inserts a user with a bcrypt-hashed password directly into the
// database, for tests that need accounts beyond the service's seed set.
func (env *TestEnv) SeedUser(ctx context.Context, username, password, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = env.Pool.Exec(ctx,
		"INSERT INTO users (id, username, password_hash, role) VALUES ($1, $2, $3, $4)",
		uuid.New().String(), username, string(hash), role)
	if err != nil {
		return fmt.Errorf("failed to seed user %s: %w", username, err)
	}
	return nil
}

// NewIsolatedEnv creates a new test environment for parallel test isolation.
//
// Each isolated environment shares the same PostgreSQL container but gets
// its own API client. Tests should use unique lastnames for their data.
//
// Example:
//
//	func TestParallel(t *testing.T) {
//	    t.Parallel()
//	    iso := env.NewIsolatedEnv(t.Name())
//	    // Use iso.API and iso.Verify with test-specific data
//	}
func (env *TestEnv) NewIsolatedEnv(testName string) *IsolatedEnv {
	return &IsolatedEnv{
		parent:   env,
		TestName: testName,
		Verify:   env.Verify,
		API:      env.NewAPIClient(),
		Pool:     env.Pool,
	}
}

// IsolatedEnv provides test isolation for parallel tests.
type IsolatedEnv struct {
	// parent is the shared test environment.
	parent *TestEnv

	// TestName identifies this test for unique data prefixes.
	TestName string

	// Verify provides database state checks.
	Verify *dbverify.Verifier

	// API provides a booking API client (separate instance per test).
	API *apiclient.BookingClient

	// Pool provides direct database access.
	Pool *pgxpool.Pool
}

// UniqueLastname creates a test-specific lastname.
//
// Use this so parallel tests never collide on booking data:
//
//	lastname := iso.UniqueLastname("Smith")
//	// Returns something like "TestParallel_Smith"
func (iso *IsolatedEnv) UniqueLastname(base string) string {
	return fmt.Sprintf("%s_%s", iso.TestName, base)
}

// Cleanup removes all bookings created by this test.
func (iso *IsolatedEnv) Cleanup(ctx context.Context) error {
	pattern := iso.TestName + "_%"

	_, err := iso.Pool.Exec(ctx, "DELETE FROM bookings WHERE lastname LIKE $1", pattern)
	return err
}

// addCleanup adds a cleanup function to be called during Teardown.
func (env *TestEnv) addCleanup(fn func()) {
	env.cleanupFuncs = append(env.cleanupFuncs, fn)
}
