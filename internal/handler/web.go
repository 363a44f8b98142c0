package handler

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gti/booking-qa/internal/middleware"
	"github.com/gti/booking-qa/internal/models"
	"github.com/gti/booking-qa/internal/service"
)

type WebHandler struct {
	bookingService *service.BookingService
	templates      *template.Template
}

func NewWebHandler(bookingService *service.BookingService, templates *template.Template) *WebHandler {
	return &WebHandler{
		bookingService: bookingService,
		templates:      templates,
	}
}

// Index renders the main bookings page
func (h *WebHandler) Index(c echo.Context) error {
	lastname := c.QueryParam("lastname")

	bookings, err := h.bookingService.ListBookings(c.Request().Context())
	if err != nil {
		return c.String(http.StatusInternalServerError, "Failed to load bookings")
	}

	rows := toBookingRows(bookings, lastname)

	data := map[string]interface{}{
		"Rows":            rows,
		"Filter":          lastname,
		"Total":           len(rows),
		"IsAuthenticated": middleware.IsAuthenticated(c),
		"Username":        middleware.GetUsername(c),
	}

	return h.templates.ExecuteTemplate(c.Response().Writer, "bookings", data)
}

// GetBookingRows returns the filtered booking table body as an HTMX partial
func (h *WebHandler) GetBookingRows(c echo.Context) error {
	lastname := c.QueryParam("lastname")

	bookings, err := h.bookingService.ListBookings(c.Request().Context())
	if err != nil {
		return c.String(http.StatusInternalServerError, "Failed to load bookings")
	}

	data := map[string]interface{}{
		"Rows": toBookingRows(bookings, lastname),
	}

	return h.templates.ExecuteTemplate(c.Response().Writer, "booking_rows.html", data)
}

// GetBookingDetails returns a single booking card (HTMX partial)
func (h *WebHandler) GetBookingDetails(c echo.Context) error {
	id := c.Param("id")

	booking, err := h.bookingService.GetBooking(c.Request().Context(), id)
	if err != nil {
		return c.String(http.StatusNotFound, "Booking not found")
	}

	data := map[string]interface{}{
		"Row": toBookingRow(*booking),
	}

	return h.templates.ExecuteTemplate(c.Response().Writer, "booking_details", data)
}

// BookingRow is the template view of a booking with display dates and
// the computed length of stay
type BookingRow struct {
	ID              string
	Guest           string
	TotalPrice      int
	DepositPaid     bool
	CheckIn         string
	CheckOut        string
	CheckInDisplay  string
	CheckOutDisplay string
	Nights          int
	AdditionalNeeds string
}

// toBookingRows converts bookings for template rendering, keeping only
// those whose lastname matches the filter (empty filter keeps all)
func toBookingRows(bookings []models.Booking, lastname string) []BookingRow {
	rows := make([]BookingRow, 0, len(bookings))
	for _, b := range bookings {
		if lastname != "" && !strings.EqualFold(b.Lastname, lastname) {
			continue
		}
		rows = append(rows, toBookingRow(b))
	}
	return rows
}

func toBookingRow(b models.Booking) BookingRow {
	row := BookingRow{
		ID:              b.ID,
		Guest:           b.Firstname + " " + b.Lastname,
		TotalPrice:      b.TotalPrice,
		DepositPaid:     b.DepositPaid,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		CheckInDisplay:  b.CheckIn,
		CheckOutDisplay: b.CheckOut,
		AdditionalNeeds: b.AdditionalNeeds,
	}

	in, errIn := time.Parse("2006-01-02", b.CheckIn)
	out, errOut := time.Parse("2006-01-02", b.CheckOut)
	if errIn == nil {
		row.CheckInDisplay = in.Format("Jan 2, 2006")
	}
	if errOut == nil {
		row.CheckOutDisplay = out.Format("Jan 2, 2006")
	}
	if errIn == nil && errOut == nil {
		row.Nights = int(out.Sub(in).Hours() / 24)
	}

	return row
}
