// Package pages holds page objects for the demo service UI. Each page wraps
// a browser driver with the selectors and interactions for one screen, so
// tests read as user actions instead of CSS queries.
package pages

import (
	"github.com/gti/booking-qa/internal/browser"
)

// LoginPage drives the login form.
type LoginPage struct {
	d       *browser.Driver
	baseURL string
}

// NewLoginPage returns a login page object for the service at baseURL.
func NewLoginPage(d *browser.Driver, baseURL string) *LoginPage {
	return &LoginPage{d: d, baseURL: baseURL}
}

// Open navigates to the login page.
func (p *LoginPage) Open() error {
	return p.d.Navigate(p.baseURL + "/login")
}

// IsOpen reports whether the login form is on screen.
func (p *LoginPage) IsOpen() bool {
	return p.d.Present("#login-form")
}

// Login fills in the credentials and submits the form.
func (p *LoginPage) Login(username, password string) error {
	if err := p.d.Type("#username", username); err != nil {
		return err
	}
	if err := p.d.Type("#password", password); err != nil {
		return err
	}
	return p.d.Click("#login-button")
}

// WaitForError waits until an inline login error is shown.
func (p *LoginPage) WaitForError() error {
	return p.d.WaitVisible("#login-error .text-red-500")
}

// ErrorText returns the inline error shown after a rejected login.
func (p *LoginPage) ErrorText() (string, error) {
	return p.d.Text("#login-error")
}
