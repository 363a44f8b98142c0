// Package report collects per-test outcomes and file attachments for a run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/gti/booking-qa/internal/helpers"
)

// Result is one recorded test outcome.
type Result struct {
	Name     string
	Passed   bool
	Duration time.Duration
}

// Recorder accumulates results and writes attachments for a single run.
// It is safe for concurrent use from parallel tests.
type Recorder struct {
	mu      sync.Mutex
	dir     string
	started time.Time
	seq     int
	results []Result
}

// NewRecorder returns a Recorder writing attachments under
// reportsDir/attachments.
func NewRecorder(reportsDir string) *Recorder {
	return &Recorder{dir: reportsDir, started: time.Now()}
}

// Record stores one test outcome.
func (r *Recorder) Record(name string, passed bool, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, Result{Name: name, Passed: passed, Duration: duration})
}

// Results returns a copy of the recorded outcomes.
func (r *Recorder) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

// Attach writes data as an attachment file and returns its path. The name is
// sanitized and suffixed with a timestamp and sequence number so repeated
// attachments never overwrite each other.
func (r *Recorder) Attach(name, ext string, data []byte) (string, error) {
	dir := filepath.Join(r.dir, "attachments")
	if err := helpers.EnsureDir(dir); err != nil {
		return "", err
	}

	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	filename := fmt.Sprintf("%s_%s_%03d.%s",
		helpers.SanitizeFilename(name), helpers.Timestamp(), seq, strings.TrimPrefix(ext, "."))
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write attachment %s: %w", path, err)
	}
	return path, nil
}

// AttachJSON pretty-prints v and attaches it as a .json file.
func (r *Recorder) AttachJSON(name string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal attachment %s: %w", name, err)
	}
	return r.Attach(name, "json", data)
}

// Dump prints a colorized summary of the run to w.
func (r *Recorder) Dump(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Test Run Summary")
	fmt.Fprintln(w, "================")

	var passed, failed int
	var total time.Duration
	for _, res := range r.results {
		total += res.Duration
		if res.Passed {
			passed++
			pass.Fprint(w, "PASS")
		} else {
			failed++
			fail.Fprint(w, "FAIL")
		}
		fmt.Fprintf(w, "  %s (%s)\n", res.Name, res.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(w, "\n%d tests, %d passed, %d failed in %s\n",
		len(r.results), passed, failed, total.Round(time.Millisecond))
}

// WriteJSON persists the run report to path, creating parent directories.
func (r *Recorder) WriteJSON(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	type resultJSON struct {
		Name       string `json:"name"`
		Passed     bool   `json:"passed"`
		DurationMS int64  `json:"duration_ms"`
	}

	out := struct {
		StartedAt time.Time    `json:"started_at"`
		Total     int          `json:"total"`
		Passed    int          `json:"passed"`
		Failed    int          `json:"failed"`
		Results   []resultJSON `json:"results"`
	}{
		StartedAt: r.started,
		Total:     len(r.results),
		Results:   make([]resultJSON, 0, len(r.results)),
	}

	for _, res := range r.results {
		if res.Passed {
			out.Passed++
		} else {
			out.Failed++
		}
		out.Results = append(out.Results, resultJSON{
			Name:       res.Name,
			Passed:     res.Passed,
			DurationMS: res.Duration.Milliseconds(),
		})
	}

	if err := helpers.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run report %s: %w", path, err)
	}
	return nil
}
