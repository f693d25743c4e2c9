package errors

import (
	"strings"
)

// ErrorHint provides actionable resolution hints for common errors.
//
// Fields:
//   - Pattern: Substring to match in error message (case-insensitive)
//   - Hint: Brief description of the issue
//   - Resolution: Command or action to resolve the issue
type ErrorHint struct {
	// Pattern is a substring to match in error messages (case-insensitive).
	Pattern string

	// Hint is a brief description of the problem.
	Hint string

	// Resolution is a command or action to fix the problem.
	Resolution string
}

// CommonErrorHints maps error patterns to actionable hints.
// These are used by EnhanceErrorWithHint to add context to errors.
var CommonErrorHints = []ErrorHint{
	{
		Pattern:    "failed to load config",
		Hint:       "Configuration file is invalid or not found",
		Resolution: "Run 'modup config show' to inspect the effective config, or 'modup config init' to create one",
	},
	{
		Pattern:    "invalid YAML",
		Hint:       "Check config file syntax",
		Resolution: "Validate the YAML syntax of .modup.yml using a linter",
	},
	{
		Pattern:    "no such file or directory",
		Hint:       "File or directory not found",
		Resolution: "Verify the path exists and you have read permissions",
	},
	{
		Pattern:    "permission denied",
		Hint:       "Insufficient permissions",
		Resolution: "Check file permissions on the mods and backup directories",
	},
	{
		Pattern:    "catalog unreachable",
		Hint:       "The mod database could not be contacted",
		Resolution: "Check internet connection and proxy settings; affected mods are treated as local-only",
	},
	{
		Pattern:    "context deadline exceeded",
		Hint:       "A download took too long",
		Resolution: "Increase timeout_seconds in the config or pass --timeout",
	},
	{
		Pattern:    "timeout",
		Hint:       "A download took too long",
		Resolution: "Increase timeout_seconds in the config or pass --timeout",
	},
	{
		Pattern:    "connection refused",
		Hint:       "Connection refused by server",
		Resolution: "Check if the mod database is accessible and not blocked",
	},
	{
		Pattern:    "status 404",
		Hint:       "Artifact not found on the server",
		Resolution: "The release file may have been removed; re-run 'modup check' for fresh release data",
	},
	{
		Pattern:    "not a valid zip",
		Hint:       "Downloaded file is not a readable archive",
		Resolution: "The server may have returned an error page; retry or report the mod's download link",
	},
	{
		Pattern:    "unparsable",
		Hint:       "A version string could not be understood",
		Resolution: "The affected candidate is skipped; report malformed versions to the mod author",
	},
	{
		Pattern:    "no manifest",
		Hint:       "Mod carries no readable mod info",
		Resolution: "Verify the archive contains a modinfo.json; the mod is skipped otherwise",
	},
}

// GetHint returns an actionable hint for the given error.
//
// It searches the error message for known patterns in CommonErrorHints
// and returns a formatted hint if one matches.
//
// Parameters:
//   - err: The error to get a hint for
//
// Returns:
//   - string: The hint with resolution, or empty string if no hint found
//
// Example:
//
//	hint := errors.GetHint(err)
//	if hint != "" {
//	    fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
//	}
func GetHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())
	for _, hint := range CommonErrorHints {
		if strings.Contains(errStr, strings.ToLower(hint.Pattern)) {
			return hint.Hint + ": " + hint.Resolution
		}
	}

	return ""
}

// RegisterHint adds a custom hint to the registry.
//
// This allows extending the hint system with project-specific patterns.
//
// Parameters:
//   - pattern: Lowercase substring to match in error messages
//   - hint: Brief description of the issue
//   - resolution: Actionable suggestion for fixing the error
func RegisterHint(pattern, hint, resolution string) {
	CommonErrorHints = append(CommonErrorHints, ErrorHint{
		Pattern:    pattern,
		Hint:       hint,
		Resolution: resolution,
	})
}

// EnhanceErrorWithHint adds actionable hints to an error message if a matching pattern is found.
//
// Parameters:
//   - err: The error to enhance
//
// Returns:
//   - string: Error message with hint appended if found, otherwise just the error message
//
// Example:
//
//	enhanced := errors.EnhanceErrorWithHint(err)
//	fmt.Fprintf(os.Stderr, "Error: %s\n", enhanced)
func EnhanceErrorWithHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()
	for _, hint := range CommonErrorHints {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(hint.Pattern)) {
			return errStr + "\n  \U0001F4A1 " + hint.Hint + ": " + hint.Resolution
		}
	}

	return errStr
}
