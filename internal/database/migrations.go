package database

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RunMigrations creates the database schema
func (db *DB) RunMigrations(ctx context.Context) error {
	log.Println("Running database migrations...")

	// Create tables
	schema := `
	-- Create bookings table
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		firstname TEXT NOT NULL,
		lastname TEXT NOT NULL,
		total_price INTEGER NOT NULL DEFAULT 0,
		deposit_paid BOOLEAN NOT NULL DEFAULT FALSE,
		checkin DATE NOT NULL,
		checkout DATE NOT NULL,
		additional_needs TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	-- Create users table
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('admin', 'user')),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	-- Create sessions table
	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		username TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	-- Create indexes for lookups the handlers actually do
	CREATE INDEX IF NOT EXISTS idx_bookings_lastname ON bookings(lastname);
	CREATE INDEX IF NOT EXISTS idx_bookings_checkin ON bookings(checkin);
	CREATE INDEX IF NOT EXISTS idx_sessions_username ON sessions(username);
	`

	_, err := db.Pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedData populates the database with sample data if empty
func (db *DB) SeedData(ctx context.Context) error {
	// Check if data already exists
	var count int
	err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check user count: %w", err)
	}

	if count > 0 {
		log.Println("Database already has data, skipping seed")
		return nil
	}

	log.Println("Seeding database with sample data...")

	// Create sample users
	users := []struct {
		Username string
		Password string
		Role     string
	}{
		{"admin", "admin123", "admin"},
		{"alice", "wonderland", "user"},
		{"bob", "builder99", "user"},
	}

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}

		_, err = db.Pool.Exec(ctx,
			"INSERT INTO users (id, username, password_hash, role) VALUES ($1, $2, $3, $4)",
			uuid.New().String(), u.Username, string(hash), u.Role)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Username, err)
		}
	}

	// Create sample bookings
	sampleBookings := []struct {
		Firstname       string
		Lastname        string
		TotalPrice      int
		DepositPaid     bool
		CheckIn         string
		CheckOut        string
		AdditionalNeeds string
	}{
		{"Jim", "Brown", 111, true, "2026-09-01", "2026-09-05", "Breakfast"},
		{"Sally", "Jones", 250, false, "2026-09-04", "2026-09-06", ""},
		{"Mark", "Taylor", 480, true, "2026-09-10", "2026-09-20", "Late checkout"},
	}

	for _, b := range sampleBookings {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO bookings (id, firstname, lastname, total_price, deposit_paid, checkin, checkout, additional_needs)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New().String(), b.Firstname, b.Lastname, b.TotalPrice, b.DepositPaid, b.CheckIn, b.CheckOut, b.AdditionalNeeds)
		if err != nil {
			return fmt.Errorf("failed to create booking for %s %s: %w", b.Firstname, b.Lastname, err)
		}
	}

	log.Println("Database seeding completed successfully")
	return nil
}
