package display

import (
	"fmt"
	"strings"

	"github.com/bruneval/modup/pkg/constants"
)

// SafeInstalledValue returns a display-safe installed version.
//
// If the value is empty or whitespace-only, returns "#N/A" for consistent display.
// Otherwise returns the trimmed value.
//
// Parameters:
//   - val: The installed version string, may be empty
//
// Returns:
//   - string: The value or "#N/A" if empty
//
// Example:
//
//	display.SafeInstalledValue("")      // Returns "#N/A"
//	display.SafeInstalledValue("1.2.3") // Returns "1.2.3"
func SafeInstalledValue(val string) string {
	val = strings.TrimSpace(val)
	if val == "" {
		return constants.PlaceholderNA
	}
	return val
}

// SafeTargetValue returns a display-safe target game version.
//
// If the value is empty, whitespace-only, or "#N/A", returns "*" for an
// unconstrained target. Otherwise returns the trimmed value.
//
// Parameters:
//   - val: The target version string, may be empty
//
// Returns:
//   - string: The value or "*" if empty/placeholder
//
// Example:
//
//	display.SafeTargetValue("")       // Returns "*"
//	display.SafeTargetValue("#N/A")   // Returns "*"
//	display.SafeTargetValue("1.20.7") // Returns "1.20.7"
func SafeTargetValue(val string) string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" || strings.EqualFold(trimmed, constants.PlaceholderNA) {
		return constants.PlaceholderUnconstrained
	}
	return trimmed
}

// SafeVersionValue returns a display-safe version string.
//
// If the value is empty or whitespace-only, returns the provided placeholder.
//
// Parameters:
//   - val: The version string, may be empty
//   - placeholder: The placeholder to use if val is empty
//
// Returns:
//   - string: The trimmed value or placeholder if empty
//
// Example:
//
//	display.SafeVersionValue("", "#N/A")   // Returns "#N/A"
//	display.SafeVersionValue("1.2.3", "-") // Returns "1.2.3"
func SafeVersionValue(val, placeholder string) string {
	val = strings.TrimSpace(val)
	if val == "" {
		return placeholder
	}
	return val
}

// TruncateWithEllipsis truncates a string and adds "..." if too long.
//
// If the string is shorter than or equal to maxLen, returns unchanged.
// Otherwise truncates and appends "..." (total length = maxLen).
//
// Parameters:
//   - s: The string to truncate
//   - maxLen: Maximum length including ellipsis (minimum 4)
//
// Returns:
//   - string: Original string if shorter than maxLen, or truncated with "..."
//
// Example:
//
//	display.TruncateWithEllipsis("a-very-long-changelog-line", 20)
//	// Returns "a-very-long-chang..."
func TruncateWithEllipsis(s string, maxLen int) string {
	if maxLen < 4 {
		maxLen = 4
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatBytes formats a byte count for human display.
//
// Uses binary units (KiB boundaries at 1024) with one decimal place
// above the byte range.
//
// Parameters:
//   - n: Byte count
//
// Returns:
//   - string: Formatted size (e.g., "512 B", "1.2 KB", "3.4 MB")
//
// Example:
//
//	display.FormatBytes(512)     // Returns "512 B"
//	display.FormatBytes(204800)  // Returns "200.0 KB"
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// IsValidVersion returns true if the version string is a valid, non-placeholder value.
//
// Parameters:
//   - version: The version string to check
//
// Returns:
//   - bool: true if version is non-empty and not a placeholder
//
// Example:
//
//	display.IsValidVersion("1.2.3")  // Returns true
//	display.IsValidVersion("#N/A")   // Returns false
//	display.IsValidVersion("")       // Returns false
//	display.IsValidVersion("*")      // Returns false
func IsValidVersion(version string) bool {
	v := strings.TrimSpace(version)
	return v != "" && v != constants.PlaceholderNA && v != constants.PlaceholderUnconstrained
}
