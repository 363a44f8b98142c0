// Package helpers provides small utilities shared across the test framework:
// condition polling, retries, random test data, and file round-trips.
package helpers

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultWaitTimeout is the default timeout for WaitFor.
	DefaultWaitTimeout = 10 * time.Second

	// DefaultPollInterval is the default poll interval for WaitFor.
	DefaultPollInterval = 500 * time.Millisecond
)

const randomChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// WaitFor polls cond until it returns true or the timeout elapses.
//
//	err := helpers.WaitFor(func() bool { return server.Ready() }, 10*time.Second, 500*time.Millisecond)
func WaitFor(cond func() bool, timeout, poll time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("condition not met within %v", timeout)
		}
		time.Sleep(poll)
	}
}

// Retry runs fn up to attempts times with exponential backoff starting at initial.
//
// The last error is returned when all attempts fail.
func Retry(attempts int, initial time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	if initial <= 0 {
		initial = time.Second
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initial

	return backoff.Retry(fn, backoff.WithMaxRetries(policy, uint64(attempts-1)))
}

// RandomString returns a random alphanumeric string of length n.
func RandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randomChars[rand.IntN(len(randomChars))]
	}
	return string(b)
}

// RandomEmail returns a random email address under the given domain.
// An empty domain defaults to test.com.
func RandomEmail(domain string) string {
	if domain == "" {
		domain = "test.com"
	}
	return fmt.Sprintf("%s@%s", strings.ToLower(RandomString(10)), domain)
}

// Timestamp returns the current time formatted for filenames (YYYYMMDD_HHMMSS).
func Timestamp() string {
	return time.Now().Format("20060102_150405")
}

// EnsureDir creates the directory (and parents) if it does not exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// SanitizeFilename replaces characters that are unsafe in filenames with underscores.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, name)
}

// ProjectRoot walks up from the working directory until it finds go.mod.
func ProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// MergeMaps returns a new map containing all keys of base overlaid with override.
// Neither input is modified.
func MergeMaps(base, override map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// ReadJSONFile reads the file and unmarshals it into v.
func ReadJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// WriteJSONFile marshals v with indentation and writes it to path.
func WriteJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadYAMLFile reads the file and unmarshals it into v.
func ReadYAMLFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// WriteYAMLFile marshals v and writes it to path.
func WriteYAMLFile(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
