package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gti/booking-qa/internal/models"
)

// BookingClient layers the booking API's endpoints over the generic Client.
// Methods decode the success payload and otherwise hand back the raw
// response so tests can assert on error statuses.
type BookingClient struct {
	*Client
}

// NewBookingClient wraps an existing Client.
func NewBookingClient(c *Client) *BookingClient {
	return &BookingClient{Client: c}
}

// Health calls the readiness endpoint.
func (b *BookingClient) Health(ctx context.Context) (*Response, error) {
	return b.Get(ctx, "/health")
}

// Login authenticates with username/password. On success the session token
// is returned and installed as a cookie for subsequent requests.
func (b *BookingClient) Login(ctx context.Context, username, password string) (string, *Response, error) {
	resp, err := b.Post(ctx, "/auth/login", models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", resp, nil
	}

	var login models.LoginResponse
	if err := resp.JSON(&login); err != nil {
		return "", resp, err
	}
	b.SetHeader("Cookie", "session_token="+login.Token)
	return login.Token, resp, nil
}

// Logout ends the current session and drops the session cookie.
func (b *BookingClient) Logout(ctx context.Context) (*Response, error) {
	resp, err := b.Post(ctx, "/auth/logout", nil)
	if err != nil {
		return nil, err
	}
	b.DeleteHeader("Cookie")
	return resp, nil
}

// CreateBooking creates a booking and decodes it on 201.
func (b *BookingClient) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, *Response, error) {
	resp, err := b.Post(ctx, "/api/bookings", req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, resp, nil
	}
	return decodeBooking(resp)
}

// Booking fetches one booking by id.
func (b *BookingClient) Booking(ctx context.Context, id string) (*models.Booking, *Response, error) {
	resp, err := b.Get(ctx, "/api/bookings/"+id)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp, nil
	}
	return decodeBooking(resp)
}

// ListBookings fetches all bookings.
func (b *BookingClient) ListBookings(ctx context.Context) ([]models.Booking, *Response, error) {
	resp, err := b.Get(ctx, "/api/bookings")
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp, nil
	}

	var bookings []models.Booking
	if err := resp.JSON(&bookings); err != nil {
		return nil, resp, err
	}
	return bookings, resp, nil
}

// UpdateBooking replaces a booking and decodes the result on 200.
func (b *BookingClient) UpdateBooking(ctx context.Context, id string, req models.UpdateBookingRequest) (*models.Booking, *Response, error) {
	resp, err := b.Put(ctx, "/api/bookings/"+id, req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp, nil
	}
	return decodeBooking(resp)
}

// PatchBooking applies a partial update and decodes the result on 200.
func (b *BookingClient) PatchBooking(ctx context.Context, id string, req models.PatchBookingRequest) (*models.Booking, *Response, error) {
	resp, err := b.Patch(ctx, "/api/bookings/"+id, req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp, nil
	}
	return decodeBooking(resp)
}

// DeleteBooking removes a booking.
func (b *BookingClient) DeleteBooking(ctx context.Context, id string) (*Response, error) {
	return b.Delete(ctx, "/api/bookings/"+id)
}

func decodeBooking(resp *Response) (*models.Booking, *Response, error) {
	var booking models.Booking
	if err := resp.JSON(&booking); err != nil {
		return nil, resp, fmt.Errorf("unexpected booking payload: %w", err)
	}
	return &booking, resp, nil
}
