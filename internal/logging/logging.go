// Package logging provides named, cached loggers for the test framework.
//
// Every logger writes to two sinks: a severity-colorized console stream and a
// shared run log file created once per process under the logs directory
// (test_run_YYYYMMDD_HHMMSS.log). The console sink honors the configured
// level; the file sink always records down to debug.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02 15:04:05"

// Options configures the logging sinks. Zero values fall back to the
// LOGS_DIR and LOG_LEVEL environment variables, then to "logs" and "info".
type Options struct {
	// Dir is the directory for the run log file.
	Dir string

	// Level is the console level (trace, debug, info, warn, error, disabled).
	Level string

	// ConsoleOut overrides the console destination (default os.Stdout).
	ConsoleOut io.Writer
}

var (
	mu      sync.RWMutex
	loggers = make(map[string]zerolog.Logger)
	root    zerolog.Logger
	logFile *os.File
	logPath string
	ready   bool
)

// Init sets up the sinks explicitly. The first initialization wins; call
// CloseAll to tear down and allow re-initialization (tests do this).
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	if ready {
		return nil
	}
	return initLocked(opts)
}

// Get returns the logger registered under name, creating and caching it on
// first use. Loggers carry a "logger" field with the given name.
//
// If the sinks were never initialized, Get initializes them from the
// environment. When the log file cannot be opened, logging degrades to
// console only rather than failing the caller.
func Get(name string) zerolog.Logger {
	mu.RLock()
	if ready {
		if l, ok := loggers[name]; ok {
			mu.RUnlock()
			return l
		}
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	if !ready {
		if err := initLocked(Options{}); err != nil {
			fmt.Fprintf(os.Stderr, "logging: falling back to console only: %v\n", err)
			root = zerolog.New(consoleWriter(os.Stdout)).Level(zerolog.DebugLevel).With().Timestamp().Logger()
			ready = true
		}
	}

	if l, ok := loggers[name]; ok {
		return l
	}

	l := root.With().Str("logger", name).Logger()
	loggers[name] = l
	return l
}

// FilePath returns the path of the current run log file, or "" when logging
// runs console-only.
func FilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

// CloseAll closes the run log file and clears the registry so the next Get
// or Init starts fresh.
func CloseAll() error {
	mu.Lock()
	defer mu.Unlock()

	var err error
	if logFile != nil {
		err = logFile.Close()
	}

	logFile = nil
	logPath = ""
	loggers = make(map[string]zerolog.Logger)
	ready = false
	return err
}

// ParseLevel converts a level name to a zerolog level. It accepts the
// zerolog spellings plus "warning" and "off".
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warning":
		return zerolog.WarnLevel, nil
	case "off":
		return zerolog.Disabled, nil
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q: %w", s, err)
	}
	return level, nil
}

func initLocked(opts Options) error {
	dir := opts.Dir
	if dir == "" {
		dir = envOr("LOGS_DIR", "logs")
	}

	levelName := opts.Level
	if levelName == "" {
		levelName = envOr("LOG_LEVEL", "info")
	}
	level, err := ParseLevel(levelName)
	if err != nil {
		return err
	}

	out := opts.ConsoleOut
	if out == nil {
		out = os.Stdout
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("test_run_%s.log", time.Now().Format("20060102_150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	sinks := zerolog.MultiLevelWriter(
		levelWriter{w: consoleWriter(out), min: level},
		levelWriter{w: f, min: zerolog.DebugLevel},
	)

	root = zerolog.New(sinks).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	logFile = f
	logPath = path
	ready = true
	return nil
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: consoleTimeFormat}
}

// levelWriter drops events below min before they reach the wrapped writer.
type levelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (lw levelWriter) Write(p []byte) (int, error) {
	return lw.w.Write(p)
}

func (lw levelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < lw.min {
		return len(p), nil
	}
	return lw.w.Write(p)
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
