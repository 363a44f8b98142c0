package pages

import (
	"fmt"

	"github.com/gti/booking-qa/internal/browser"
)

// BookingsPage drives the main bookings list.
type BookingsPage struct {
	d       *browser.Driver
	baseURL string
}

// NewBookingsPage returns a bookings page object for the service at baseURL.
func NewBookingsPage(d *browser.Driver, baseURL string) *BookingsPage {
	return &BookingsPage{d: d, baseURL: baseURL}
}

// Open navigates to the bookings page and waits for the table.
func (p *BookingsPage) Open() error {
	if err := p.d.Navigate(p.baseURL + "/"); err != nil {
		return err
	}
	return p.d.WaitVisible("#bookings-table")
}

// GuestNames returns the guest column of every visible row.
func (p *BookingsPage) GuestNames() ([]string, error) {
	els, err := p.d.FindAll(".guest-name")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, fmt.Errorf("failed to read guest name: %w", err)
		}
		names = append(names, text)
	}
	return names, nil
}

// FilterByLastname types into the search box, triggering the HTMX filter.
func (p *BookingsPage) FilterByLastname(lastname string) error {
	return p.d.Type("#search-lastname", lastname)
}

// HasRow reports whether a row for the booking is on screen.
func (p *BookingsPage) HasRow(bookingID string) bool {
	return p.d.Present(fmt.Sprintf("tr[data-booking-id=%q]", bookingID))
}

// ShowsNoBookings reports whether the empty-state row is displayed.
func (p *BookingsPage) ShowsNoBookings() bool {
	return p.d.Present("#no-bookings")
}

// OpenDetails clicks the details button of the given booking's row.
func (p *BookingsPage) OpenDetails(bookingID string) error {
	return p.d.Click(fmt.Sprintf("tr[data-booking-id=%q] .details-button", bookingID))
}

// DetailsVisible reports whether the details card is on screen.
func (p *BookingsPage) DetailsVisible() bool {
	return p.d.Present("#booking-details-card")
}

// DetailCheckIn returns the check-in date shown on the details card.
func (p *BookingsPage) DetailCheckIn() (string, error) {
	return p.d.Text("#detail-checkin")
}

// DetailNights returns the nights count shown on the details card.
func (p *BookingsPage) DetailNights() (string, error) {
	return p.d.Text("#detail-nights")
}

// IsLoggedIn reports whether the header shows a logged-in user.
func (p *BookingsPage) IsLoggedIn() bool {
	return p.d.Present("#logout-button")
}

// CurrentUser returns the username shown in the header.
func (p *BookingsPage) CurrentUser() (string, error) {
	return p.d.Text("#current-user")
}

// Logout clicks the logout button.
func (p *BookingsPage) Logout() error {
	return p.d.Click("#logout-button")
}
