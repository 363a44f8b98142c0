package models

import (
	"time"
)

// Booking represents a room booking
type Booking struct {
	ID              string    `json:"id"`
	Firstname       string    `json:"firstname"`
	Lastname        string    `json:"lastname"`
	TotalPrice      int       `json:"totalprice"`
	DepositPaid     bool      `json:"depositpaid"`
	CheckIn         string    `json:"checkin"`  // Format: YYYY-MM-DD
	CheckOut        string    `json:"checkout"` // Format: YYYY-MM-DD
	AdditionalNeeds string    `json:"additionalneeds,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// User represents an account that can sign in to the booking UI
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // "admin" or "user"
	CreatedAt    time.Time `json:"created_at"`
}

// Session represents a user session
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// --- API Request/Response Types ---

// CreateBookingRequest is the request body for creating a booking
type CreateBookingRequest struct {
	Firstname       string `json:"firstname" validate:"required"`
	Lastname        string `json:"lastname" validate:"required"`
	TotalPrice      int    `json:"totalprice" validate:"min=0"`
	DepositPaid     bool   `json:"depositpaid"`
	CheckIn         string `json:"checkin" validate:"required,datetime=2006-01-02"`
	CheckOut        string `json:"checkout" validate:"required,datetime=2006-01-02"`
	AdditionalNeeds string `json:"additionalneeds,omitempty"`
}

// UpdateBookingRequest is the request body for replacing a booking
type UpdateBookingRequest struct {
	Firstname       string `json:"firstname" validate:"required"`
	Lastname        string `json:"lastname" validate:"required"`
	TotalPrice      int    `json:"totalprice" validate:"min=0"`
	DepositPaid     bool   `json:"depositpaid"`
	CheckIn         string `json:"checkin" validate:"required,datetime=2006-01-02"`
	CheckOut        string `json:"checkout" validate:"required,datetime=2006-01-02"`
	AdditionalNeeds string `json:"additionalneeds,omitempty"`
}

// PatchBookingRequest is the request body for partially updating a booking.
// Only non-nil fields are applied.
type PatchBookingRequest struct {
	Firstname       *string `json:"firstname,omitempty"`
	Lastname        *string `json:"lastname,omitempty"`
	TotalPrice      *int    `json:"totalprice,omitempty" validate:"omitempty,min=0"`
	DepositPaid     *bool   `json:"depositpaid,omitempty"`
	CheckIn         *string `json:"checkin,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CheckOut        *string `json:"checkout,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AdditionalNeeds *string `json:"additionalneeds,omitempty"`
}

// LoginRequest is the request body for password login
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResponse carries the session token issued on successful login
type LoginResponse struct {
	Token string `json:"token"`
}

// BookingEventPayload is sent to the webhook destination on booking changes
type BookingEventPayload struct {
	Event      string    `json:"event"` // booking.created, booking.updated, booking.deleted
	Booking    Booking   `json:"booking"`
	OccurredAt time.Time `json:"occurred_at"`
}
