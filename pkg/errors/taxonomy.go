package errors

import (
	"errors"
	"fmt"
)

// UnparsableVersionError indicates a version string could not be parsed.
//
// This is never fatal: the resolver drops the affected candidate (or treats
// the installed version as unknown) and continues with the rest.
//
// Fields:
//   - Subject: What carried the version ("installed", "release", mod name)
//   - Raw: The version string that failed to parse
type UnparsableVersionError struct {
	// Subject describes which version failed ("installed" or a release label).
	Subject string

	// Raw is the offending version string.
	Raw string
}

// Error implements the error interface.
//
// Returns:
//   - string: Formatted message naming the subject and the raw string
func (e *UnparsableVersionError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("unparsable %s version %q", e.Subject, e.Raw)
	}
	return fmt.Sprintf("unparsable version %q", e.Raw)
}

// IsUnparsableVersion reports whether err is an UnparsableVersionError.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if err is an UnparsableVersionError
func IsUnparsableVersion(err error) bool {
	var uv *UnparsableVersionError
	return errors.As(err, &uv)
}

// CatalogUnreachableError indicates the catalog could not be contacted for a mod.
//
// The affected mod is treated as local-only for the run and a warning is
// recorded; the run continues for every other mod.
//
// Fields:
//   - ModID: Identifier the query was made for
//   - Err: Underlying transport error
type CatalogUnreachableError struct {
	// ModID is the catalog identifier the failed query targeted.
	ModID string

	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
//
// Returns:
//   - string: Formatted message naming the mod and the transport failure
func (e *CatalogUnreachableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog unreachable for %s: %v", e.ModID, e.Err)
	}
	return fmt.Sprintf("catalog unreachable for %s", e.ModID)
}

// Unwrap returns the underlying error for errors.Is/As support.
//
// Returns:
//   - error: The underlying transport error, or nil
func (e *CatalogUnreachableError) Unwrap() error {
	return e.Err
}

// IsCatalogUnreachable reports whether err indicates an unreachable catalog.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if err is a CatalogUnreachableError
func IsCatalogUnreachable(err error) bool {
	var cu *CatalogUnreachableError
	return errors.As(err, &cu)
}

// ModNotFoundError indicates the catalog answered but does not list the mod.
//
// This is a normal condition for private or self-built mods: the mod becomes
// local-only for the run without a warning.
//
// Fields:
//   - ModID: Identifier that was queried
type ModNotFoundError struct {
	// ModID is the identifier the catalog does not know.
	ModID string
}

// Error implements the error interface.
//
// Returns:
//   - string: Formatted message naming the missing mod
func (e *ModNotFoundError) Error() string {
	return fmt.Sprintf("%s: not listed in the catalog", e.ModID)
}

// IsModNotFound reports whether err indicates a mod absent from the catalog.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if err is a ModNotFoundError
func IsModNotFound(err error) bool {
	var nf *ModNotFoundError
	return errors.As(err, &nf)
}

// FetchError indicates an artifact download failed.
//
// Transient failures (connection errors, timeouts, 5xx responses) are retried
// up to the configured bound; permanent failures (4xx responses, malformed
// URLs) are reported immediately without retrying.
//
// Fields:
//   - URL: The download URL that failed
//   - StatusCode: HTTP status when the server answered, 0 otherwise
//   - Transient: Whether the retry policy applies
//   - Err: Underlying error, may be nil when StatusCode explains the failure
type FetchError struct {
	// URL is the artifact URL the fetch targeted.
	URL string

	// StatusCode is the HTTP status code, or 0 for transport-level failures.
	StatusCode int

	// Transient reports whether the failure is worth retrying.
	Transient bool

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
//
// Returns:
//   - string: Formatted message with URL and status or underlying error
func (e *FetchError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s fetch failure for %s: status %d", kind, e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s fetch failure for %s: %v", kind, e.URL, e.Err)
	}
	return fmt.Sprintf("%s fetch failure for %s", kind, e.URL)
}

// Unwrap returns the underlying error for errors.Is/As support.
//
// Returns:
//   - error: The underlying error, or nil
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsTransientFetch reports whether err is a fetch failure eligible for retry.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if err is a FetchError with Transient set
func IsTransientFetch(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Transient
}

// IsPermanentFetch reports whether err is a fetch failure that must not be retried.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if err is a FetchError with Transient unset
func IsPermanentFetch(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && !fe.Transient
}

// TimestampAnomalyError records a file timestamp outside the range the backup
// archive format supports.
//
// The backup normalizes the timestamp and continues; this error only surfaces
// as a warning, never as a failure.
//
// Fields:
//   - Path: File whose timestamp was out of range
type TimestampAnomalyError struct {
	// Path is the file with the anomalous timestamp.
	Path string
}

// Error implements the error interface.
//
// Returns:
//   - string: Formatted message naming the file
func (e *TimestampAnomalyError) Error() string {
	return fmt.Sprintf("%s: file timestamp outside archive range, normalized", e.Path)
}

// IncompatibilityAbortError is raised during planning when the policy says to
// abort on the first mod with no compatible release.
//
// Planning stops before any download is attempted, leaving the filesystem
// untouched.
//
// Fields:
//   - ModID: The mod that triggered the abort
//   - Reason: The verdict reason explaining the incompatibility
type IncompatibilityAbortError struct {
	// ModID is the mod with no compatible release.
	ModID string

	// Reason is the resolver's explanation.
	Reason string
}

// Error implements the error interface.
//
// Returns:
//   - string: Formatted message naming the mod and the incompatibility
func (e *IncompatibilityAbortError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("aborted: %s is incompatible (%s)", e.ModID, e.Reason)
	}
	return fmt.Sprintf("aborted: %s is incompatible with the target game version", e.ModID)
}

// IsIncompatibilityAbort reports whether err aborted planning on incompatibility.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if err is an IncompatibilityAbortError
func IsIncompatibilityAbort(err error) bool {
	var ia *IncompatibilityAbortError
	return errors.As(err, &ia)
}
