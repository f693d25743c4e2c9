// Package logging writes a structured per-run log file for scan, plan,
// and apply events. Console output stays on the table and verbose paths;
// the run log is file-only.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	logger  = zerolog.New(io.Discard)
	logFile *os.File
	logPath string
)

// Setup opens a per-run log file and installs it as the package logger.
//
// It performs the following operations:
//   - Resolves the log directory (XDG state dir when dir is empty)
//   - Creates the directory and a timestamped run log file inside it
//   - Builds a zerolog logger at the requested level writing to that file
//   - Closes any previously opened run log file
//
// Parameters:
//   - dir: Directory for run logs; empty selects the platform state directory
//   - level: Log level name (trace, debug, info, warn, error); empty means info
//
// Returns:
//   - string: The path of the created log file
//   - error: If the directory or file could not be created
func Setup(dir, level string) (string, error) {
	if dir == "" {
		dir = filepath.Join(xdg.StateHome, "modup", "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("modup_%s.log", time.Now().Format("20060102_150405"))
	p := filepath.Join(dir, name)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	logPath = p
	logger = zerolog.New(f).Level(ParseLevel(level)).With().Timestamp().Logger()
	return p, nil
}

// Close flushes and closes the run log file, reverting to a discard logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	logPath = ""
	logger = zerolog.New(io.Discard)
}

// Path returns the path of the current run log file, or empty if none is open.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

// Logger returns a child logger tagged with the given component name.
//
// Parameters:
//   - component: Component name recorded on every event (scan, plan, apply)
//
// Returns:
//   - zerolog.Logger: A logger writing to the run log file
func Logger(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.With().Str("component", component).Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
//
// Parameters:
//   - level: Level name; matching is case-insensitive
//
// Returns:
//   - zerolog.Level: The mapped level, InfoLevel for empty or unknown names
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "", "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// TimedOperation logs the start of an operation and returns a function that
// logs its completion with the elapsed duration.
//
// Parameters:
//   - l: The logger to write both events to
//   - operation: Operation name recorded on both events
//
// Returns:
//   - func(): Completion callback, usually deferred
func TimedOperation(l zerolog.Logger, operation string) func() {
	start := time.Now()
	l.Debug().Str("operation", operation).Msg("operation started")
	return func() {
		l.Debug().Str("operation", operation).Dur("duration", time.Since(start)).Msg("operation completed")
	}
}
