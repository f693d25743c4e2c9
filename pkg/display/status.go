package display

import (
	"fmt"

	"github.com/bruneval/modup/pkg/constants"
	"github.com/bruneval/modup/pkg/resolve"
)

// Status constants re-exported for convenience.
const (
	// StatusUpToDate indicates the installed mod already matches the best release.
	StatusUpToDate = constants.StatusUpToDate

	// StatusApplied indicates the mod was successfully replaced.
	StatusApplied = constants.StatusApplied

	// StatusPlanned indicates the replacement is planned (dry-run mode).
	StatusPlanned = constants.StatusPlanned

	// StatusFailed indicates the download or replacement failed.
	StatusFailed = constants.StatusFailed

	// StatusSkipped indicates the mod was deliberately not processed.
	StatusSkipped = constants.StatusSkipped

	// StatusExcluded indicates the mod was excluded by configuration.
	StatusExcluded = constants.StatusExcluded

	// StatusIncompatible indicates no release fits the target game version.
	StatusIncompatible = constants.StatusIncompatible
)

// statusIconMap maps run statuses to their display icons.
var statusIconMap = map[string]string{
	constants.StatusApplied:      constants.IconSuccess,
	constants.StatusUpToDate:     constants.IconSuccess,
	constants.StatusPlanned:      constants.IconPending,
	constants.StatusFailed:       constants.IconError,
	constants.StatusSkipped:      constants.IconInfo,
	constants.StatusExcluded:     constants.IconIgnored,
	constants.StatusLocalOnly:    constants.IconInfo,
	constants.StatusIncompatible: constants.IconBlocked,
	constants.StatusDowngrade:    constants.IconWarning,
	constants.StatusConfigError:  constants.IconError,
}

// FormatStatus formats a status string with the appropriate icon.
//
// Parameters:
//   - status: The status string (e.g., "Applied", "Failed", "Planned")
//
// Returns:
//   - string: Formatted status with icon prefix (e.g., "🟢 Applied")
//
// Example:
//
//	display.FormatStatus("Applied")  // Returns "🟢 Applied"
//	display.FormatStatus("Failed")   // Returns "❌ Failed"
//	display.FormatStatus("Planned")  // Returns "🟡 Planned"
func FormatStatus(status string) string {
	if icon, ok := statusIconMap[status]; ok {
		return fmt.Sprintf("%s %s", icon, status)
	}
	return status
}

// StatusIcon returns the icon for a status without the status text.
//
// Parameters:
//   - status: The status string
//
// Returns:
//   - string: The icon, or the info icon for unknown statuses
func StatusIcon(status string) string {
	if icon, ok := statusIconMap[status]; ok {
		return icon
	}
	return constants.IconInfo
}

// IsSuccessStatus returns whether a status indicates success.
//
// Parameters:
//   - status: Status string to check
//
// Returns:
//   - bool: true for Applied and UpToDate
func IsSuccessStatus(status string) bool {
	return status == constants.StatusApplied || status == constants.StatusUpToDate
}

// IsFailureStatus returns whether a status indicates failure.
//
// Parameters:
//   - status: Status string to check
//
// Returns:
//   - bool: true for Failed and ConfigError
func IsFailureStatus(status string) bool {
	return status == constants.StatusFailed || status == constants.StatusConfigError
}

// IsPendingStatus returns whether a status indicates planned work.
//
// Parameters:
//   - status: Status string to check
//
// Returns:
//   - bool: true for Planned
func IsPendingStatus(status string) bool {
	return status == constants.StatusPlanned
}

// verdictLabels maps resolution verdicts to their lowercase display labels.
var verdictLabels = map[resolve.Verdict]string{
	resolve.UpToDate:          "up-to-date",
	resolve.UpgradeAvailable:  "upgrade",
	resolve.DowngradeRequired: "downgrade",
	resolve.Incompatible:      "incompatible",
	resolve.LocalOnly:         "local-only",
	resolve.Excluded:          "excluded",
}

// verdictIcons maps resolution verdicts to their display icons.
var verdictIcons = map[resolve.Verdict]string{
	resolve.UpToDate:          constants.IconSuccess,
	resolve.UpgradeAvailable:  constants.IconPending,
	resolve.DowngradeRequired: constants.IconWarning,
	resolve.Incompatible:      constants.IconBlocked,
	resolve.LocalOnly:         constants.IconInfo,
	resolve.Excluded:          constants.IconIgnored,
}

// VerdictLabel returns the lowercase display label for a verdict.
//
// Parameters:
//   - v: The resolution verdict
//
// Returns:
//   - string: Display label (e.g., "upgrade", "up-to-date")
func VerdictLabel(v resolve.Verdict) string {
	if label, ok := verdictLabels[v]; ok {
		return label
	}
	return string(v)
}

// FormatVerdict formats a verdict with the appropriate icon.
//
// Parameters:
//   - v: The resolution verdict
//
// Returns:
//   - string: Formatted verdict with icon prefix (e.g., "🟡 upgrade")
//
// Example:
//
//	display.FormatVerdict(resolve.UpgradeAvailable)  // Returns "🟡 upgrade"
//	display.FormatVerdict(resolve.Incompatible)      // Returns "⛔ incompatible"
func FormatVerdict(v resolve.Verdict) string {
	if icon, ok := verdictIcons[v]; ok {
		return fmt.Sprintf("%s %s", icon, VerdictLabel(v))
	}
	return VerdictLabel(v)
}
