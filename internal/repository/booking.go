package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gti/booking-qa/internal/models"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// GetByID retrieves a booking by its ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	booking := &models.Booking{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, firstname, lastname, total_price, deposit_paid, checkin::text, checkout::text, additional_needs, created_at, updated_at
		 FROM bookings WHERE id = $1`, id).Scan(
		&booking.ID, &booking.Firstname, &booking.Lastname, &booking.TotalPrice, &booking.DepositPaid,
		&booking.CheckIn, &booking.CheckOut, &booking.AdditionalNeeds, &booking.CreatedAt, &booking.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// Create inserts a new booking and fills in the generated timestamps
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO bookings (id, firstname, lastname, total_price, deposit_paid, checkin, checkout, additional_needs)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		booking.ID, booking.Firstname, booking.Lastname, booking.TotalPrice, booking.DepositPaid,
		booking.CheckIn, booking.CheckOut, booking.AdditionalNeeds).Scan(
		&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// Update replaces all mutable fields of an existing booking
func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE bookings
		 SET firstname = $2, lastname = $3, total_price = $4, deposit_paid = $5, checkin = $6, checkout = $7, additional_needs = $8, updated_at = NOW()
		 WHERE id = $1`,
		booking.ID, booking.Firstname, booking.Lastname, booking.TotalPrice, booking.DepositPaid,
		booking.CheckIn, booking.CheckOut, booking.AdditionalNeeds)

	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// List returns all bookings, newest first
func (r *BookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, firstname, lastname, total_price, deposit_paid, checkin::text, checkout::text, additional_needs, created_at, updated_at
		 FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.Firstname, &b.Lastname, &b.TotalPrice, &b.DepositPaid,
			&b.CheckIn, &b.CheckOut, &b.AdditionalNeeds, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, nil
}

// Delete deletes a booking by ID
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Exists checks if a booking exists
func (r *BookingRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check booking existence: %w", err)
	}
	return exists, nil
}
