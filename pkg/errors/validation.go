package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationCategory identifies the source of a validation error.
//
// This type distinguishes between different validation contexts to enable
// appropriate formatting and handling of validation failures.
type ValidationCategory string

const (
	// ValidationCategoryConfig indicates a configuration file validation error.
	ValidationCategoryConfig ValidationCategory = "config"

	// ValidationCategoryPreflight indicates a preflight check failure (unusable path).
	ValidationCategoryPreflight ValidationCategory = "preflight"

	// ValidationCategoryMod indicates a mod-level validation error.
	ValidationCategoryMod ValidationCategory = "mod"
)

// ValidationError represents a configuration or preflight validation failure.
//
// The Category field distinguishes config-file problems from environment
// problems found before a run (mods directory missing, backup dir not
// writable) and from per-mod problems.
//
// Fields:
//   - Category: Source of validation ("config", "preflight", "mod")
//   - Field: Name of the invalid setting or mod
//   - Message: Description of what's wrong
//   - Expected: What the valid value should look like
//   - ValidKeys: List of valid options (for enum-like fields)
//   - Path: For preflight errors, the filesystem path that failed
//   - Hint: Actionable hint for fixing the error
//
// Example:
//
//	return &ValidationError{
//	    Category:  ValidationCategoryConfig,
//	    Field:     "on_incompatible",
//	    Message:   "invalid behavior",
//	    Expected:  "one of: ask, abort, ignore",
//	    ValidKeys: []string{"ask", "abort", "ignore"},
//	}
type ValidationError struct {
	// Category identifies the validation source.
	// Values: "config", "preflight", "mod"
	Category ValidationCategory

	// Field is the name of the field that failed validation.
	Field string

	// Message describes what is wrong with the field.
	Message string

	// Expected describes what a valid value should look like.
	Expected string

	// ValidKeys lists valid options for enum-like fields.
	ValidKeys []string

	// Path is the filesystem path that failed (preflight only).
	Path string

	// Hint provides an actionable suggestion for fixing the error.
	Hint string
}

// Error implements the error interface.
//
// Formats the error message based on the Category. For preflight errors,
// includes the path and resolution. For config errors, includes field and message.
//
// Returns:
//   - string: Formatted error message appropriate for the validation category
func (e *ValidationError) Error() string {
	var sb strings.Builder

	switch e.Category {
	case ValidationCategoryPreflight:
		if e.Path != "" {
			sb.WriteString(fmt.Sprintf("%s: %s", e.Path, e.Message))
			if e.Hint != "" {
				sb.WriteString(fmt.Sprintf("\n  Resolution: %s", e.Hint))
			}
			return sb.String()
		}
	case ValidationCategoryConfig:
		if e.Field != "" {
			sb.WriteString(fmt.Sprintf("%s: %s", e.Field, e.Message))
		} else {
			sb.WriteString(e.Message)
		}
		return sb.String()
	}

	// Default format
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf("%s: %s", e.Field, e.Message))
	} else if e.Message != "" {
		sb.WriteString(e.Message)
	} else if e.Path != "" {
		sb.WriteString(fmt.Sprintf("invalid path: %s", e.Path))
	}

	return sb.String()
}

// VerboseError returns a detailed error message with schema hints.
//
// Returns:
//   - string: Detailed error with expected values and hints
func (e *ValidationError) VerboseError() string {
	var sb strings.Builder

	// Base error
	sb.WriteString(e.Error())

	// Add expected value hint
	if e.Expected != "" {
		sb.WriteString(fmt.Sprintf("\n    Expected: %s", e.Expected))
	}

	// Add valid keys hint
	if len(e.ValidKeys) > 0 {
		sb.WriteString(fmt.Sprintf("\n    Valid keys: %s", strings.Join(e.ValidKeys, ", ")))
	}

	// Add resolution hint
	if e.Hint != "" && e.Category != ValidationCategoryPreflight {
		sb.WriteString(fmt.Sprintf("\n    Hint: %s", e.Hint))
	}

	return sb.String()
}

// IsValidationError checks if err is a ValidationError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *ValidationError: The ValidationError if err is one, nil otherwise
//   - bool: true if err is a ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// NewConfigValidationError creates a ValidationError for configuration issues.
//
// Parameters:
//   - field: The field name that failed validation
//   - message: Description of the error
//
// Returns:
//   - *ValidationError: New validation error with config category
//
// Example:
//
//	err := errors.NewConfigValidationError("backup.keep", "must not be negative")
func NewConfigValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Category: ValidationCategoryConfig,
		Field:    field,
		Message:  message,
	}
}

// NewPreflightValidationError creates a ValidationError for preflight check failures.
//
// Parameters:
//   - path: The filesystem path that failed the check
//   - message: Description of the failure
//   - hint: Resolution hint
//
// Returns:
//   - *ValidationError: New validation error with preflight category
//
// Example:
//
//	err := errors.NewPreflightValidationError(modsDir, "not a directory", "point mods_dir at your game's Mods folder")
func NewPreflightValidationError(path, message, hint string) *ValidationError {
	return &ValidationError{
		Category: ValidationCategoryPreflight,
		Path:     path,
		Message:  message,
		Hint:     hint,
	}
}

// NewModValidationError creates a ValidationError for mod-level issues.
//
// Parameters:
//   - mod: The mod name that failed validation
//   - message: Description of the error
//   - hint: Resolution hint
//
// Returns:
//   - *ValidationError: New validation error with mod category
//
// Example:
//
//	err := errors.NewModValidationError("broken.zip", "no manifest found", "the archive needs a modinfo.json")
func NewModValidationError(mod, message, hint string) *ValidationError {
	return &ValidationError{
		Category: ValidationCategoryMod,
		Field:    mod,
		Message:  message,
		Hint:     hint,
	}
}
