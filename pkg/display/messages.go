package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/bruneval/modup/pkg/constants"
)

// PrintWarnings prints warning messages to the writer.
//
// Formats each warning on its own line with a warning icon prefix.
// Does nothing if warnings slice is empty.
// Prints a blank line before the warnings for separation.
//
// Parameters:
//   - w: Writer to output to (typically os.Stderr)
//   - warnings: Slice of warning messages
//
// Example output:
//
//	<blank line>
//	⚠️ Warning: catalog unreachable for chisel
//	⚠️ Warning: could not parse installed version for oldmod
func PrintWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w)
	for _, warning := range warnings {
		_, _ = fmt.Fprintf(w, "%s %s\n", constants.IconWarn, warning)
	}
}

// PrintWarningsInline prints warning messages without a leading blank line.
//
// Same as PrintWarnings but without the leading blank line.
//
// Parameters:
//   - w: Writer to output to
//   - warnings: Slice of warning messages
func PrintWarningsInline(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}

	for _, warning := range warnings {
		_, _ = fmt.Fprintf(w, "%s %s\n", constants.IconWarn, warning)
	}
}

// FlaggedMod represents a mod surfaced for user attention before execution.
//
// Fields:
//   - Name: Mod name
//   - Installed: Installed version
//   - Reason: Why the mod needs attention
type FlaggedMod struct {
	// Name is the mod name.
	Name string

	// Installed is the installed version.
	Installed string

	// Reason explains why this mod was flagged.
	Reason string
}

// PrintFlagged prints mods that need user attention with their reasons.
//
// Formats each flagged mod on its own line. Does nothing if the slice is
// empty. Prints a blank line before the messages for separation.
//
// Parameters:
//   - w: Writer to output to
//   - mods: Slice of flagged mods
//   - verbose: If true, includes the installed version
//
// Example output:
//
//	<blank line>
//	worldedit: no release for game version 1.20.7
//	oldmod: not listed in the catalog
func PrintFlagged(w io.Writer, mods []FlaggedMod, verbose bool) {
	if len(mods) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w)
	for _, mod := range mods {
		if verbose && mod.Installed != "" {
			_, _ = fmt.Fprintf(w, "%s (%s): %s\n", mod.Name, mod.Installed, mod.Reason)
		} else {
			_, _ = fmt.Fprintf(w, "%s: %s\n", mod.Name, mod.Reason)
		}
	}
}

// Summary holds run summary data.
//
// Fields:
//   - Total: Total mods considered
//   - Applied: Mods successfully replaced
//   - Failed: Mods whose replacement failed
//   - Skipped: Mods left untouched
//   - Bytes: Total artifact bytes downloaded
type Summary struct {
	// Total is the total number of mods considered.
	Total int

	// Applied is the number of successful replacements.
	Applied int

	// Failed is the number of failed replacements.
	Failed int

	// Skipped is the number of mods left untouched.
	Skipped int

	// Bytes is the total artifact bytes downloaded.
	Bytes int64
}

// PrintSummary prints a run summary.
//
// Parameters:
//   - w: Writer to output to
//   - summary: Summary data to display
//
// Example output:
//
//	Summary: 10 total, 8 applied, 1 failed, 1 skipped (1.2 MB fetched)
func PrintSummary(w io.Writer, summary Summary) {
	_, _ = fmt.Fprintf(w, "Summary: %d total", summary.Total)
	if summary.Applied > 0 {
		_, _ = fmt.Fprintf(w, ", %d applied", summary.Applied)
	}
	if summary.Failed > 0 {
		_, _ = fmt.Fprintf(w, ", %d failed", summary.Failed)
	}
	if summary.Skipped > 0 {
		_, _ = fmt.Fprintf(w, ", %d skipped", summary.Skipped)
	}
	if summary.Bytes > 0 {
		_, _ = fmt.Fprintf(w, " (%s fetched)", FormatBytes(summary.Bytes))
	}
	_, _ = fmt.Fprintln(w)
}

// PrintNoModsMessage prints a "no mods found" message.
//
// Parameters:
//   - w: Writer to output to
//   - context: Context string describing the situation (optional)
//
// Example output:
//
//	No mods found
//	No mods found matching exclusions
func PrintNoModsMessage(w io.Writer, context string) {
	if context != "" {
		_, _ = fmt.Fprintf(w, "No mods found %s\n", context)
	} else {
		_, _ = fmt.Fprintln(w, "No mods found")
	}
}

// WarningCollector captures warnings for deferred output.
//
// Implements io.Writer so it can be used as a warning sink.
// Warnings are collected and can be printed later using Messages().
//
// Example:
//
//	collector := display.NewWarningCollector()
//	restore := warnings.SetWarningWriter(collector)
//	defer restore()
//	// ... operations that may produce warnings ...
//	display.PrintWarnings(os.Stderr, collector.Messages())
type WarningCollector struct {
	messages []string
}

// Write implements io.Writer for capturing warning messages.
//
// Splits input on newlines and stores non-empty trimmed lines.
//
// Parameters:
//   - p: Byte slice containing warning message data
//
// Returns:
//   - int: Number of bytes written (always len(p))
//   - error: Always nil, never returns an error
func (c *WarningCollector) Write(p []byte) (int, error) {
	lines := strings.Split(string(p), "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			c.messages = append(c.messages, trimmed)
		}
	}
	return len(p), nil
}

// Messages returns a copy of all collected warning messages.
//
// Creates a defensive copy to prevent external modification of the internal slice.
//
// Returns:
//   - []string: Copy of all collected warning messages
func (c *WarningCollector) Messages() []string {
	copied := make([]string, len(c.messages))
	copy(copied, c.messages)
	return copied
}

// Reset clears all collected messages.
//
// Use this when you want to reuse the same collector for a new batch of warnings.
func (c *WarningCollector) Reset() {
	c.messages = nil
}

// NewWarningCollector creates a new WarningCollector.
//
// Returns:
//   - *WarningCollector: A new empty warning collector ready for use
func NewWarningCollector() *WarningCollector {
	return &WarningCollector{}
}
