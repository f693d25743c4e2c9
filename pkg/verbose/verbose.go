// Package verbose provides debug logging with documentation references.
package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	enabled bool
	writer  io.Writer = os.Stderr
)

// Enable turns on verbose logging and allows debug messages to be printed.
//
// It performs the following operations:
//   - Acquires a write lock to ensure thread-safe modification
//   - Sets the enabled flag to true
//   - Releases the write lock
//
// Returns:
//   - None
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Disable turns off verbose logging and prevents debug messages from being printed.
//
// It performs the following operations:
//   - Acquires a write lock to ensure thread-safe modification
//   - Sets the enabled flag to false
//   - Releases the write lock
//
// Returns:
//   - None
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// IsEnabled returns whether verbose logging is currently enabled.
//
// It performs the following operations:
//   - Acquires a read lock to ensure thread-safe access
//   - Reads the enabled flag value
//   - Releases the read lock
//
// Returns:
//   - bool: true if verbose logging is enabled, false otherwise
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetWriter sets the output writer for verbose messages.
//
// It performs the following operations:
//   - Acquires a write lock to ensure thread-safe modification
//   - Updates the writer if the provided writer is not nil
//   - Releases the write lock
//
// Parameters:
//   - w: The io.Writer to use for output; if nil, the writer remains unchanged
//
// Returns:
//   - None
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		writer = w
	}
}

// getWriter returns the current writer with proper locking for internal use.
//
// It performs the following operations:
//   - Acquires a read lock to ensure thread-safe access
//   - Reads the writer value
//   - Releases the read lock
//
// Returns:
//   - io.Writer: The currently configured output writer
func getWriter() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return writer
}

// isEnabled returns whether verbose is enabled with proper locking for internal use.
//
// It performs the following operations:
//   - Acquires a read lock to ensure thread-safe access
//   - Reads the enabled flag value
//   - Releases the read lock
//
// Returns:
//   - bool: true if verbose logging is enabled, false otherwise
func isEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Printf prints a formatted verbose message if enabled.
//
// It performs the following operations:
//   - Checks if verbose logging is enabled
//   - Formats and prints the message with [DEBUG] prefix to the configured writer
//   - Does nothing if verbose logging is disabled
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
//
// Returns:
//   - None
func Printf(format string, args ...any) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] "+format+"\n", args...)
	}
}

// Info prints an informational verbose message if enabled.
//
// It performs the following operations:
//   - Checks if verbose logging is enabled
//   - Prints the message with [DEBUG] prefix to the configured writer
//   - Does nothing if verbose logging is disabled
//
// Parameters:
//   - msg: The message string to print
//
// Returns:
//   - None
func Info(msg string) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] %s\n", msg)
	}
}

// Infof prints a formatted informational verbose message if enabled.
//
// It performs the following operations:
//   - Checks if verbose logging is enabled
//   - Formats and prints the message with [DEBUG] prefix to the configured writer
//   - Does nothing if verbose logging is disabled
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
//
// Returns:
//   - None
func Infof(format string, args ...any) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] "+format+"\n", args...)
	}
}

// DocRef represents a documentation reference for a specific topic.
//
// It contains information to help users find relevant documentation
// when troubleshooting issues or configuring the tool.
//
// Fields:
//   - Topic: A human-readable name for the documentation topic
//   - DocPath: The relative path to the documentation file or section
//   - Hint: A brief description of what the documentation covers
type DocRef struct {
	Topic   string
	DocPath string
	Hint    string
}

// Common documentation references.
var docRefs = map[string]DocRef{
	"config": {
		Topic:   "Configuration",
		DocPath: "docs/configuration.md",
		Hint:    "See configuration guide for the .modup.yml schema and options",
	},
	"exclusions": {
		Topic:   "Mod Exclusions",
		DocPath: "docs/configuration.md#exclusions",
		Hint:    "List mods to leave untouched by file name or mod id",
	},
	"backups": {
		Topic:   "Backup Retention",
		DocPath: "docs/configuration.md#backups",
		Hint:    "Tune the backup directory and how many generations to keep",
	},
	"target": {
		Topic:   "Target Game Version",
		DocPath: "docs/configuration.md#game-version",
		Hint:    "Pin a game version, track the latest stable, or run unconstrained",
	},
	"cli": {
		Topic:   "CLI Reference",
		DocPath: "docs/cli.md",
		Hint:    "See all available commands and flags",
	},
}

// WithDocRef prints a verbose message with a documentation reference if enabled.
//
// It performs the following operations:
//   - Checks if verbose logging is enabled
//   - Prints the message with [DEBUG] prefix
//   - If the topic is found in docRefs, appends documentation reference and hint
//   - Does nothing if verbose logging is disabled
//
// Parameters:
//   - topic: The documentation topic key (e.g., "config", "exclusions", "backups")
//   - message: The main message to print
//
// Returns:
//   - None
func WithDocRef(topic, message string) {
	if !isEnabled() {
		return
	}
	w := getWriter()
	ref, ok := docRefs[strings.ToLower(topic)]
	if ok {
		_, _ = fmt.Fprintf(w, "[DEBUG] %s\n", message)
		_, _ = fmt.Fprintf(w, "        📖 %s: %s\n", ref.Topic, ref.DocPath)
		_, _ = fmt.Fprintf(w, "        💡 %s\n", ref.Hint)
	} else {
		_, _ = fmt.Fprintf(w, "[DEBUG] %s\n", message)
	}
}

// ConfigLoaded logs which config file was loaded if enabled.
//
// It performs the following operations:
//   - Checks if verbose logging is enabled
//   - Prints the path to the loaded configuration file
//   - Does nothing if verbose logging is disabled
//
// Parameters:
//   - path: The file path to the configuration file that was loaded
//
// Returns:
//   - None
func ConfigLoaded(path string) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Config loaded: %s\n", path)
	}
}

// ModScanned logs a scanned local mod if enabled.
//
// It performs the following operations:
//   - Checks if verbose logging is enabled
//   - Prints the mod's file name, detected kind, and extracted version
//   - Does nothing if verbose logging is disabled
//
// Parameters:
//   - name: The mod's file or directory name
//   - kind: The detected artifact kind (zip, cs, dir)
//   - version: The extracted version string, may be empty
//
// Returns:
//   - None
func ModScanned(name, kind, version string) {
	if isEnabled() {
		if version == "" {
			version = "unknown"
		}
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Scanned '%s' (%s): version %s\n", name, kind, version)
	}
}

// ModFiltered logs when a mod is filtered out if enabled.
//
// It performs the following operations:
//   - Checks if verbose logging is enabled
//   - Prints the mod name and the reason it was filtered
//   - Does nothing if verbose logging is disabled
//
// Parameters:
//   - name: The name of the mod that was filtered
//   - reason: The reason why the mod was filtered out
//
// Returns:
//   - None
func ModFiltered(name, reason string) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Mod '%s' filtered: %s\n", name, reason)
	}
}

// CatalogQuery logs a catalog lookup if enabled.
//
// It performs the following operations:
//   - Checks if verbose logging is enabled
//   - Prints the mod id and the number of releases returned
//   - Does nothing if verbose logging is disabled
//
// Parameters:
//   - modID: The catalog identifier that was queried
//   - releases: How many releases the catalog returned
//
// Returns:
//   - None
func CatalogQuery(modID string, releases int) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Catalog: '%s' has %d releases\n", modID, releases)
	}
}

// FetchAttempt logs a download attempt if enabled.
//
// It performs the following operations:
//   - Checks if verbose logging is enabled
//   - Prints the attempt counter and the (truncated) URL
//   - Does nothing if verbose logging is disabled
//
// Parameters:
//   - url: The artifact URL being fetched
//   - attempt: The 1-based attempt number
//   - max: The maximum number of attempts
//
// Returns:
//   - None
func FetchAttempt(url string, attempt, max int) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Fetch attempt %d/%d: %s\n", attempt, max, truncate(url, 100))
	}
}

// VersionSelected logs release selection details if enabled.
//
// It performs the following operations:
//   - Checks if verbose logging is enabled
//   - Prints the mod name, installed version, selected version, and reason
//   - Does nothing if verbose logging is disabled
//
// Parameters:
//   - mod: The name of the mod
//   - installed: The installed version of the mod
//   - selected: The release version selected for the mod
//   - reason: The reason why this release was selected
//
// Returns:
//   - None
func VersionSelected(mod, installed, selected, reason string) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Version selected for '%s': %s → %s (%s)\n", mod, installed, selected, reason)
	}
}

// BackupCreated logs a created backup archive if enabled.
//
// It performs the following operations:
//   - Checks if verbose logging is enabled
//   - Prints the mod name and the archive path
//   - Does nothing if verbose logging is disabled
//
// Parameters:
//   - mod: The mod that was backed up
//   - archive: The path of the created archive
//
// Returns:
//   - None
func BackupCreated(mod, archive string) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Backup for '%s': %s\n", mod, archive)
	}
}

// truncate shortens a string to the specified maximum length.
//
// It performs the following operations:
//   - Returns the original string if it's within the maxLen limit
//   - Truncates the string to maxLen-3 and appends "..." if it exceeds maxLen
//
// Parameters:
//   - s: The string to truncate
//   - maxLen: The maximum length for the returned string (must be at least 3)
//
// Returns:
//   - string: The original or truncated string with "..." suffix if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
