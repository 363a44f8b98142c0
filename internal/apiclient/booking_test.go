package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gti/booking-qa/internal/models"
)

// fakeBookingAPI is just enough of the booking service to drive the typed
// client: a login endpoint and an in-memory booking store.
func fakeBookingAPI(t *testing.T) *httptest.Server {
	t.Helper()

	bookings := map[string]models.Booking{
		"b-1": {ID: "b-1", Firstname: "Jim", Lastname: "Brown", TotalPrice: 111, DepositPaid: true, CheckIn: "2026-09-01", CheckOut: "2026-09-05"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username != "admin" || req.Password != "admin123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, models.LoginResponse{Token: "tok-123"})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	})
	mux.HandleFunc("GET /api/bookings", func(w http.ResponseWriter, r *http.Request) {
		list := make([]models.Booking, 0, len(bookings))
		for _, b := range bookings {
			list = append(list, b)
		}
		writeJSON(w, http.StatusOK, list)
	})
	mux.HandleFunc("POST /api/bookings", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateBookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		b := models.Booking{ID: "b-2", Firstname: req.Firstname, Lastname: req.Lastname, TotalPrice: req.TotalPrice, DepositPaid: req.DepositPaid, CheckIn: req.CheckIn, CheckOut: req.CheckOut}
		bookings[b.ID] = b
		writeJSON(w, http.StatusCreated, b)
	})
	mux.HandleFunc("GET /api/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		b, ok := bookings[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "booking not found"})
			return
		}
		writeJSON(w, http.StatusOK, b)
	})
	mux.HandleFunc("PUT /api/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := bookings[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "booking not found"})
			return
		}
		var req models.UpdateBookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		b := models.Booking{ID: id, Firstname: req.Firstname, Lastname: req.Lastname, TotalPrice: req.TotalPrice, DepositPaid: req.DepositPaid, CheckIn: req.CheckIn, CheckOut: req.CheckOut}
		bookings[id] = b
		writeJSON(w, http.StatusOK, b)
	})
	mux.HandleFunc("PATCH /api/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		b, ok := bookings[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "booking not found"})
			return
		}
		var req models.PatchBookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Firstname != nil {
			b.Firstname = *req.Firstname
		}
		if req.TotalPrice != nil {
			b.TotalPrice = *req.TotalPrice
		}
		bookings[id] = b
		writeJSON(w, http.StatusOK, b)
	})
	mux.HandleFunc("DELETE /api/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := bookings[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "booking not found"})
			return
		}
		delete(bookings, id)
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newBookingClient(t *testing.T, baseURL string) *BookingClient {
	t.Helper()
	return NewBookingClient(newTestClient(t, Config{BaseURL: baseURL}))
}

func TestBookingClientHealth(t *testing.T) {
	server := fakeBookingAPI(t)
	c := newBookingClient(t, server.URL)

	resp, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBookingClientLoginInstallsSessionCookie(t *testing.T) {
	bookings := fakeBookingAPI(t)

	var gotCookie string
	echo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.WriteHeader(http.StatusOK)
	}))
	defer echo.Close()

	c := newBookingClient(t, bookings.URL)

	token, resp, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "tok-123", token)

	// the generic client carries the cookie to every later request
	c.Client.baseURL = echo.URL
	_, err = c.Get(context.Background(), "/anything")
	require.NoError(t, err)
	assert.Equal(t, "session_token=tok-123", gotCookie)
}

func TestBookingClientLoginRejected(t *testing.T) {
	server := fakeBookingAPI(t)
	c := newBookingClient(t, server.URL)

	token, resp, err := c.Login(context.Background(), "admin", "wrong")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBookingClientCRUD(t *testing.T) {
	server := fakeBookingAPI(t)
	c := newBookingClient(t, server.URL)
	ctx := context.Background()

	created, resp, err := c.CreateBooking(ctx, models.CreateBookingRequest{
		Firstname: "Sally", Lastname: "Jones", TotalPrice: 250,
		CheckIn: "2026-09-04", CheckOut: "2026-09-06",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Sally", created.Firstname)

	got, _, err := c.Booking(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	list, _, err := c.ListBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	updated, _, err := c.UpdateBooking(ctx, created.ID, models.UpdateBookingRequest{
		Firstname: "Sally", Lastname: "Jones-Smith", TotalPrice: 300,
		CheckIn: "2026-09-04", CheckOut: "2026-09-07",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Jones-Smith", updated.Lastname)

	price := 275
	patched, _, err := c.PatchBooking(ctx, created.ID, models.PatchBookingRequest{TotalPrice: &price})
	require.NoError(t, err)
	require.NotNil(t, patched)
	assert.Equal(t, 275, patched.TotalPrice)
	assert.Equal(t, "Sally", patched.Firstname)

	delResp, err := c.DeleteBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	missing, getResp, err := c.Booking(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestBookingClientNotFoundIsData(t *testing.T) {
	server := fakeBookingAPI(t)
	c := newBookingClient(t, server.URL)

	booking, resp, err := c.Booking(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, booking)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.String(), "booking not found")
}
