// Package dbverify gives tests direct database access for verifying what
// the API reported against what was actually stored.
package dbverify

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gti/booking-qa/internal/logging"
)

// Verifier runs raw queries against the service's database.
type Verifier struct {
	pool     *pgxpool.Pool
	ownsPool bool
	log      zerolog.Logger
}

// New connects to databaseURL and pings it.
func New(ctx context.Context, databaseURL string) (*Verifier, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Verifier{pool: pool, ownsPool: true, log: logging.Get("db")}, nil
}

// FromPool wraps an existing pool without taking ownership of it.
func FromPool(pool *pgxpool.Pool) *Verifier {
	return &Verifier{pool: pool, log: logging.Get("db")}
}

// Close releases the pool if the Verifier created it.
func (v *Verifier) Close() {
	if v.ownsPool {
		v.pool.Close()
	}
}

// Pool exposes the underlying pool for queries this package has no helper
// for.
func (v *Verifier) Pool() *pgxpool.Pool {
	return v.pool
}

// QueryRow runs a single-row query.
func (v *Verifier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	v.log.Debug().Str("sql", sql).Msg("query")
	return v.pool.QueryRow(ctx, sql, args...)
}

// Exec runs a statement, discarding the result.
func (v *Verifier) Exec(ctx context.Context, sql string, args ...interface{}) error {
	v.log.Debug().Str("sql", sql).Msg("exec")

	if _, err := v.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to execute %q: %w", sql, err)
	}
	return nil
}

// CountBookings returns the number of rows in bookings.
func (v *Verifier) CountBookings(ctx context.Context) (int, error) {
	var count int
	err := v.pool.QueryRow(ctx, "SELECT COUNT(*) FROM bookings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// BookingExists reports whether a booking row with the given id exists.
func (v *Verifier) BookingExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := v.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check booking %s: %w", id, err)
	}
	return exists, nil
}

// UserExists reports whether a user row with the given username exists.
func (v *Verifier) UserExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := v.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", username, err)
	}
	return exists, nil
}

// TruncateAll clears booking and session data between tests. Users are kept
// so seeded logins keep working.
func (v *Verifier) TruncateAll(ctx context.Context) error {
	if err := v.Exec(ctx, "TRUNCATE TABLE bookings, sessions RESTART IDENTITY CASCADE"); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	v.log.Debug().Msg("test tables truncated")
	return nil
}
