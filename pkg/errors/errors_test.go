package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExitCodes tests the exit code constants.
//
// It verifies that:
//   - ExitSuccess equals 0
//   - ExitPartialFailure equals 1
//   - ExitFailure equals 2
//   - ExitConfigError equals 3
func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitPartialFailure)
	assert.Equal(t, 2, ExitFailure)
	assert.Equal(t, 3, ExitConfigError)
}

// TestExitError tests the ExitError struct and its methods.
//
// It verifies that:
//   - Error() returns the Message field when set
//   - Error() returns wrapped error message when Err is set
//   - Error() returns "exit code N" when neither is set
//   - Unwrap() returns the wrapped error
func TestExitError(t *testing.T) {
	t.Run("with message", func(t *testing.T) {
		err := &ExitError{Code: ExitFailure, Message: "test message"}
		assert.Equal(t, "test message", err.Error())
		assert.Equal(t, ExitFailure, err.Code)
	})

	t.Run("with wrapped error", func(t *testing.T) {
		innerErr := stderrors.New("inner error")
		err := &ExitError{Code: ExitConfigError, Err: innerErr}
		assert.Equal(t, "inner error", err.Error())
		assert.Equal(t, ExitConfigError, err.Code)
		assert.Equal(t, innerErr, err.Unwrap())
	})

	t.Run("with neither", func(t *testing.T) {
		err := &ExitError{Code: ExitPartialFailure}
		assert.Contains(t, err.Error(), "exit code 1")
	})
}

// TestGetExitCode tests the GetExitCode function.
//
// It verifies that:
//   - Nil error returns ExitSuccess
//   - ExitError returns its Code
//   - Wrapped ExitError returns its Code
//   - Plain error returns ExitFailure
func TestGetExitCode(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Equal(t, ExitSuccess, GetExitCode(nil))
	})

	t.Run("ExitError", func(t *testing.T) {
		err := NewExitError(ExitConfigError, stderrors.New("test"))
		assert.Equal(t, ExitConfigError, GetExitCode(err))
	})

	t.Run("wrapped ExitError", func(t *testing.T) {
		inner := NewExitError(ExitPartialFailure, stderrors.New("test"))
		wrapped := fmt.Errorf("wrapper: %w", inner)
		assert.Equal(t, ExitPartialFailure, GetExitCode(wrapped))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.Equal(t, ExitFailure, GetExitCode(stderrors.New("plain")))
	})
}

// TestIsExitError tests the IsExitError helper.
//
// It verifies that:
//   - ExitError values are detected and returned
//   - Plain errors are not detected
func TestIsExitError(t *testing.T) {
	exitErr := NewExitErrorf(ExitFailure, "boom")

	found, ok := IsExitError(exitErr)
	assert.True(t, ok)
	assert.Equal(t, exitErr, found)

	_, ok = IsExitError(stderrors.New("plain"))
	assert.False(t, ok)
}

// TestPartialSuccessError tests the PartialSuccessError type.
//
// It verifies that:
//   - Error() summarizes applied and failed counts
//   - IsPartialSuccess detects the type through wrapping
func TestPartialSuccessError(t *testing.T) {
	errs := []error{stderrors.New("mod-a failed"), stderrors.New("mod-b failed")}
	pse := NewPartialSuccessError(5, 2, errs)

	assert.Equal(t, "5 updated, 2 failed", pse.Error())
	assert.Len(t, pse.Errors, 2)

	found, ok := IsPartialSuccess(fmt.Errorf("run: %w", pse))
	assert.True(t, ok)
	assert.Equal(t, 5, found.Applied)
	assert.Equal(t, 2, found.Failed)
}

// TestUnparsableVersionError tests the UnparsableVersionError type.
//
// It verifies that:
//   - The message names the subject and the raw string
//   - IsUnparsableVersion detects the type
func TestUnparsableVersionError(t *testing.T) {
	err := &UnparsableVersionError{Subject: "installed", Raw: "banana"}
	assert.Equal(t, `unparsable installed version "banana"`, err.Error())
	assert.True(t, IsUnparsableVersion(err))
	assert.False(t, IsUnparsableVersion(stderrors.New("other")))

	bare := &UnparsableVersionError{Raw: "??"}
	assert.Equal(t, `unparsable version "??"`, bare.Error())
}

// TestCatalogErrors tests catalog unreachable and not-found errors.
//
// It verifies that:
//   - CatalogUnreachableError carries the mod id and the cause
//   - ModNotFoundError reads as a non-fatal condition
//   - Classification helpers distinguish the two
func TestCatalogErrors(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	unreachable := &CatalogUnreachableError{ModID: "carrycapacity", Err: cause}

	assert.Contains(t, unreachable.Error(), "carrycapacity")
	assert.Contains(t, unreachable.Error(), "connection refused")
	assert.Equal(t, cause, unreachable.Unwrap())
	assert.True(t, IsCatalogUnreachable(unreachable))
	assert.False(t, IsModNotFound(unreachable))

	notFound := &ModNotFoundError{ModID: "myprivatemod"}
	assert.Equal(t, "myprivatemod: not listed in the catalog", notFound.Error())
	assert.True(t, IsModNotFound(notFound))
	assert.False(t, IsCatalogUnreachable(notFound))
}

// TestFetchErrorClassification tests the transient/permanent split on FetchError.
//
// It verifies that:
//   - Transient fetch errors are detected by IsTransientFetch
//   - Permanent fetch errors are detected by IsPermanentFetch
//   - Classification survives error wrapping
//   - Messages include the failure kind and the URL
func TestFetchErrorClassification(t *testing.T) {
	transient := &FetchError{URL: "https://example.com/mod.zip", StatusCode: 503, Transient: true}
	permanent := &FetchError{URL: "https://example.com/mod.zip", StatusCode: 404, Transient: false}

	assert.True(t, IsTransientFetch(transient))
	assert.False(t, IsPermanentFetch(transient))
	assert.True(t, IsPermanentFetch(permanent))
	assert.False(t, IsTransientFetch(permanent))

	wrapped := fmt.Errorf("download: %w", transient)
	assert.True(t, IsTransientFetch(wrapped))

	assert.Contains(t, transient.Error(), "transient")
	assert.Contains(t, transient.Error(), "status 503")
	assert.Contains(t, permanent.Error(), "permanent")
	assert.Contains(t, permanent.Error(), "https://example.com/mod.zip")
}

// TestFetchErrorWithCause tests FetchError formatting for transport failures.
//
// It verifies that:
//   - Transport-level failures (no status) include the underlying error
//   - Unwrap exposes the cause
func TestFetchErrorWithCause(t *testing.T) {
	cause := stderrors.New("context deadline exceeded")
	err := &FetchError{URL: "https://example.com/a.zip", Transient: true, Err: cause}

	assert.Contains(t, err.Error(), "context deadline exceeded")
	assert.Equal(t, cause, err.Unwrap())
}

// TestTimestampAnomalyError tests the TimestampAnomalyError type.
//
// It verifies that:
//   - The message names the file and states normalization happened
func TestTimestampAnomalyError(t *testing.T) {
	err := &TimestampAnomalyError{Path: "mods/old.zip"}
	assert.Contains(t, err.Error(), "mods/old.zip")
	assert.Contains(t, err.Error(), "normalized")
}

// TestIncompatibilityAbortError tests the IncompatibilityAbortError type.
//
// It verifies that:
//   - The message names the mod and the reason
//   - IsIncompatibilityAbort detects the type through wrapping
func TestIncompatibilityAbortError(t *testing.T) {
	err := &IncompatibilityAbortError{ModID: "primitivesurvival", Reason: "needs game >= 1.21.4"}

	assert.Contains(t, err.Error(), "primitivesurvival")
	assert.Contains(t, err.Error(), "needs game >= 1.21.4")
	assert.True(t, IsIncompatibilityAbort(fmt.Errorf("plan: %w", err)))
	assert.False(t, IsIncompatibilityAbort(stderrors.New("other")))

	bare := &IncompatibilityAbortError{ModID: "x"}
	assert.Contains(t, bare.Error(), "incompatible with the target game version")
}

// TestValidationError tests ValidationError formatting per category.
//
// It verifies that:
//   - Config errors format as "field: message"
//   - Preflight errors include path and resolution
//   - VerboseError appends expected values and valid keys
func TestValidationError(t *testing.T) {
	t.Run("config category", func(t *testing.T) {
		err := NewConfigValidationError("backup.keep", "must not be negative")
		assert.Equal(t, "backup.keep: must not be negative", err.Error())
	})

	t.Run("preflight category", func(t *testing.T) {
		err := NewPreflightValidationError("/tmp/mods", "not a directory", "point mods_dir at your Mods folder")
		assert.Contains(t, err.Error(), "/tmp/mods: not a directory")
		assert.Contains(t, err.Error(), "Resolution: point mods_dir")
	})

	t.Run("verbose output", func(t *testing.T) {
		err := &ValidationError{
			Category:  ValidationCategoryConfig,
			Field:     "on_incompatible",
			Message:   "invalid behavior",
			Expected:  "one of: ask, abort, ignore",
			ValidKeys: []string{"ask", "abort", "ignore"},
		}
		verbose := err.VerboseError()
		assert.Contains(t, verbose, "Expected: one of: ask, abort, ignore")
		assert.Contains(t, verbose, "Valid keys: ask, abort, ignore")
	})

	t.Run("detection", func(t *testing.T) {
		err := NewModValidationError("broken.zip", "no manifest found", "")
		found, ok := IsValidationError(fmt.Errorf("scan: %w", err))
		assert.True(t, ok)
		assert.Equal(t, "broken.zip", found.Field)
	})
}

// TestValidationResult tests the ValidationResult accumulator.
//
// It verifies that:
//   - HasErrors and HasWarnings reflect added entries
//   - ErrorMessage lists every error
//   - PrintTo writes warnings then errors
func TestValidationResult(t *testing.T) {
	result := NewValidationResult()
	assert.False(t, result.HasErrors())
	assert.False(t, result.HasWarnings())

	result.AddError(NewConfigValidationError("max_workers", "must be between 1 and 10"))
	result.AddWarning("backup directory will be created")

	assert.True(t, result.HasErrors())
	assert.True(t, result.HasWarnings())
	assert.Contains(t, result.ErrorMessage(), "max_workers: must be between 1 and 10")

	var buf bytes.Buffer
	result.PrintTo(&buf, false)
	out := buf.String()
	assert.Contains(t, out, "Warning: backup directory will be created")
	assert.Contains(t, out, "Validation failed:")
}

// TestGetHint tests hint lookup for common error patterns.
//
// It verifies that:
//   - Known patterns produce a hint with resolution
//   - Unknown errors produce no hint
//   - Nil errors produce no hint
func TestGetHint(t *testing.T) {
	hint := GetHint(stderrors.New("catalog unreachable for xmod: dial tcp"))
	assert.Contains(t, hint, "mod database")

	hint = GetHint(stderrors.New("Get \"https://x\": context deadline exceeded"))
	assert.Contains(t, hint, "timeout_seconds")

	assert.Empty(t, GetHint(stderrors.New("something entirely novel happened")))
	assert.Empty(t, GetHint(nil))
}

// TestEnhanceErrorWithHint tests hint enhancement of error messages.
//
// It verifies that:
//   - Matching errors gain an appended hint line
//   - Non-matching errors are returned unchanged
func TestEnhanceErrorWithHint(t *testing.T) {
	enhanced := EnhanceErrorWithHint(stderrors.New("open /x/mods: permission denied"))
	assert.Contains(t, enhanced, "permission denied")
	assert.Contains(t, enhanced, "Check file permissions")

	plain := EnhanceErrorWithHint(stderrors.New("entirely novel"))
	assert.Equal(t, "entirely novel", plain)
}

// TestRegisterHint tests extending the hint registry.
//
// It verifies that:
//   - Registered patterns are matched afterwards
func TestRegisterHint(t *testing.T) {
	RegisterHint("zzz-custom-pattern", "Custom hint", "Do the custom thing")
	hint := GetHint(stderrors.New("failure: zzz-custom-pattern hit"))
	assert.Contains(t, hint, "Do the custom thing")
}

// TestPrintErrorWithHints tests the top-level error printer.
//
// It verifies that:
//   - Validation errors print with the Validation Error prefix
//   - Partial success errors print counts, with details in verbose mode
//   - Abort errors print with the Aborted prefix
//   - Plain errors print with the Error prefix
func TestPrintErrorWithHints(t *testing.T) {
	t.Run("mixed errors", func(t *testing.T) {
		var buf bytes.Buffer
		errs := []error{
			NewConfigValidationError("game_version", "not a version"),
			&IncompatibilityAbortError{ModID: "xskills", Reason: "needs game >= 1.21.0"},
			stderrors.New("plain failure"),
		}
		PrintErrorWithHints(&buf, errs, false)

		out := buf.String()
		assert.Contains(t, out, "Validation Error: game_version: not a version")
		assert.Contains(t, out, "Aborted: ")
		assert.Contains(t, out, "Error: plain failure")
	})

	t.Run("partial success verbose", func(t *testing.T) {
		var buf bytes.Buffer
		pse := NewPartialSuccessError(3, 1, []error{stderrors.New("mod-x: status 404")})
		PrintErrorWithHints(&buf, []error{pse}, true)

		out := buf.String()
		assert.Contains(t, out, "Partial Success: 3 updated, 1 failed")
		assert.Contains(t, out, "Failed updates:")
		assert.Contains(t, out, "mod-x: status 404")
	})

	t.Run("no errors", func(t *testing.T) {
		var buf bytes.Buffer
		PrintErrorWithHints(&buf, nil, false)
		assert.Empty(t, buf.String())
	})
}

// TestFormatErrorsWithHints tests the aggregate error formatter.
//
// It verifies that:
//   - Each error appears on its own line with an error marker
//   - Empty input yields an empty string
func TestFormatErrorsWithHints(t *testing.T) {
	out := FormatErrorsWithHints([]error{
		stderrors.New("first failure"),
		stderrors.New("second failure"),
	})
	assert.Contains(t, out, "first failure")
	assert.Contains(t, out, "second failure")

	assert.Empty(t, FormatErrorsWithHints(nil))
}
