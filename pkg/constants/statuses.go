// Package constants provides centralized string constants used throughout the application.
// This eliminates magic strings and provides a single source of truth for status values.
package constants

// Run status constants represent the state of a mod during an update run.
const (
	// StatusUpToDate indicates the installed mod already matches the best release.
	StatusUpToDate = "UpToDate"

	// StatusApplied indicates the mod was successfully replaced on disk.
	StatusApplied = "Applied"

	// StatusPlanned indicates the update is planned but not executed (dry-run mode).
	StatusPlanned = "Planned"

	// StatusFailed indicates the download or replacement failed.
	StatusFailed = "Failed"

	// StatusSkipped indicates the mod was deliberately not processed.
	StatusSkipped = "Skipped"

	// StatusExcluded indicates the mod was excluded by user configuration.
	StatusExcluded = "Excluded"

	// StatusLocalOnly indicates no usable catalog data exists for the mod.
	StatusLocalOnly = "LocalOnly"

	// StatusIncompatible indicates no release is compatible with the target game version.
	StatusIncompatible = "Incompatible"

	// StatusDowngrade indicates the installed mod is newer than the best compatible release.
	StatusDowngrade = "Downgrade"

	// StatusConfigError indicates a configuration error prevented processing.
	StatusConfigError = "ConfigError"
)

// Placeholder values for display when data is not available.
const (
	// PlaceholderNA is used when a value is not available.
	PlaceholderNA = "#N/A"

	// PlaceholderUnconstrained is used when the target game version is unconstrained.
	PlaceholderUnconstrained = "*"
)

// Icon constants for status display.
// These provide visual indicators for mod states in CLI output.
const (
	// IconSuccess indicates a successful or positive state (green circle).
	IconSuccess = "🟢"

	// IconWarning indicates a warning or caution state (orange circle).
	IconWarning = "🟠"

	// IconError indicates an error or failed state (red X).
	IconError = "❌"

	// IconInfo indicates informational or neutral state (blue circle).
	IconInfo = "🔵"

	// IconBlocked indicates an incompatible state (stop sign).
	IconBlocked = "⛔"

	// IconPending indicates a pending or planned state (yellow circle).
	IconPending = "🟡"

	// IconIgnored indicates a mod is excluded from processing (no entry).
	IconIgnored = "🚫"

	// IconCheckmark indicates a passed check (checkmark).
	IconCheckmark = "✓"

	// IconCross indicates a failed check (cross).
	IconCross = "✗"

	// IconWarn is the warning prefix for messages.
	IconWarn = "⚠️"

	// IconLightbulb indicates a hint or suggestion.
	IconLightbulb = "💡"
)
