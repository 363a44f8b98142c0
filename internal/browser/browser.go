// Package browser wraps go-rod behind the explicit-wait operations page
// objects are built from. Each Driver owns one browser process and one page;
// tests get their own Driver from the fixture layer.
package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/gti/booking-qa/internal/config"
	"github.com/gti/booking-qa/internal/helpers"
	"github.com/gti/booking-qa/internal/logging"
)

// presentWait is the short wait Present uses to answer "is it there right
// now" without stalling a test for the full explicit wait.
const presentWait = 5 * time.Second

// Driver drives a single browser page. Operations wait for their element up
// to the configured explicit wait and wrap failures with the selector.
type Driver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
	pageLoad time.Duration
	log      zerolog.Logger
}

// New launches a browser per the settings (headless mode, window size,
// timeouts) and opens a blank page.
func New(settings *config.Settings) (*Driver, error) {
	log := logging.Get("browser")

	l := launcher.New().Headless(settings.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             settings.BrowserWidth,
		Height:            settings.BrowserHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	log.Info().
		Str("browser", settings.Browser).
		Bool("headless", settings.Headless).
		Int("width", settings.BrowserWidth).
		Int("height", settings.BrowserHeight).
		Msg("browser started")

	return &Driver{
		launcher: l,
		browser:  b,
		page:     page,
		timeout:  settings.ExplicitWait,
		pageLoad: settings.PageLoadTimeout,
		log:      log,
	}, nil
}

// SetTimeout changes the explicit wait applied to element lookups.
func (d *Driver) SetTimeout(timeout time.Duration) {
	d.timeout = timeout
}

// Navigate loads url and waits for the load event.
func (d *Driver) Navigate(url string) error {
	d.log.Debug().Str("url", url).Msg("navigating")

	page := d.page.Timeout(d.pageLoad)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

// Find waits for the first element matching selector.
func (d *Driver) Find(selector string) (*rod.Element, error) {
	el, err := d.page.Timeout(d.timeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to find %q within %s: %w", selector, d.timeout, err)
	}
	return el.CancelTimeout(), nil
}

// FindAll waits for at least one match, then returns all current matches.
func (d *Driver) FindAll(selector string) (rod.Elements, error) {
	if _, err := d.Find(selector); err != nil {
		return nil, err
	}
	els, err := d.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to collect %q: %w", selector, err)
	}
	return els, nil
}

// Click waits for the element and clicks it.
func (d *Driver) Click(selector string) error {
	d.log.Debug().Str("selector", selector).Msg("clicking")

	el, err := d.Find(selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click %q: %w", selector, err)
	}
	return nil
}

// Type waits for the element, clears it and types text into it.
func (d *Driver) Type(selector, text string) error {
	d.log.Debug().Str("selector", selector).Msg("typing")

	el, err := d.Find(selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("failed to clear %q: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("failed to type into %q: %w", selector, err)
	}
	return nil
}

// Text waits for the element and returns its visible text.
func (d *Driver) Text(selector string) (string, error) {
	el, err := d.Find(selector)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("failed to read text of %q: %w", selector, err)
	}
	return text, nil
}

// Attribute waits for the element and returns the named attribute, or ""
// when the attribute is absent.
func (d *Driver) Attribute(selector, name string) (string, error) {
	el, err := d.Find(selector)
	if err != nil {
		return "", err
	}
	value, err := el.Attribute(name)
	if err != nil {
		return "", fmt.Errorf("failed to read attribute %q of %q: %w", name, selector, err)
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

// Hover waits for the element and moves the mouse over it.
func (d *Driver) Hover(selector string) error {
	el, err := d.Find(selector)
	if err != nil {
		return err
	}
	if err := el.Hover(); err != nil {
		return fmt.Errorf("failed to hover %q: %w", selector, err)
	}
	return nil
}

// ScrollTo waits for the element and scrolls it into view.
func (d *Driver) ScrollTo(selector string) error {
	el, err := d.Find(selector)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("failed to scroll to %q: %w", selector, err)
	}
	return nil
}

// WaitVisible waits until the element exists and is visible.
func (d *Driver) WaitVisible(selector string) error {
	d.log.Debug().Str("selector", selector).Msg("waiting for visibility")

	el, err := d.Find(selector)
	if err != nil {
		return err
	}
	if err := el.Timeout(d.timeout).WaitVisible(); err != nil {
		return fmt.Errorf("element %q not visible within %s: %w", selector, d.timeout, err)
	}
	return nil
}

// Visible reports whether the element is currently visible.
func (d *Driver) Visible(selector string) (bool, error) {
	el, err := d.Find(selector)
	if err != nil {
		return false, err
	}
	visible, err := el.Visible()
	if err != nil {
		return false, fmt.Errorf("failed to check visibility of %q: %w", selector, err)
	}
	return visible, nil
}

// Present reports whether the element appears within a short fixed wait.
// Absence is an answer, not an error.
func (d *Driver) Present(selector string) bool {
	_, err := d.page.Timeout(presentWait).Element(selector)
	return err == nil
}

// URL returns the page's current URL.
func (d *Driver) URL() (string, error) {
	info, err := d.page.Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page info: %w", err)
	}
	return info.URL, nil
}

// Title returns the page's current title.
func (d *Driver) Title() (string, error) {
	info, err := d.page.Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page info: %w", err)
	}
	return info.Title, nil
}

// Screenshot captures the full page as PNG at path, creating parent
// directories as needed.
func (d *Driver) Screenshot(path string) error {
	data, err := d.page.Screenshot(true, nil)
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := helpers.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot %s: %w", path, err)
	}

	d.log.Info().Str("path", path).Msg("screenshot saved")
	return nil
}

// Close shuts the browser down and cleans up the launcher's temp profile.
func (d *Driver) Close() error {
	err := d.browser.Close()
	d.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
