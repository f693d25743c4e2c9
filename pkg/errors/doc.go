// Package errors provides unified error types and display for modup.
//
// This package consolidates all error handling into a single location:
//   - ExitError: Command exit with specific exit code
//   - PartialSuccessError: Some updates applied, some failed
//   - ValidationError: Configuration or preflight validation failures
//   - UnparsableVersionError: A version string that could not be read
//   - CatalogUnreachableError / ModNotFoundError: Catalog query failures
//   - FetchError: Artifact download failures, transient or permanent
//   - TimestampAnomalyError: Backup input timestamps outside archive range
//   - IncompatibilityAbortError: Planning aborted by the incompatibility policy
//
// Error Display:
//
// The package provides consistent error formatting with actionable hints:
//
//	errors.PrintErrorWithHints(os.Stderr, errs, verbose)
//
// Error Checking:
//
// Use the Is* functions to check error types:
//
//	if errors.IsTransientFetch(err) {
//	    // retry
//	}
//
// Exit Codes:
//
// Standard exit codes are defined for scripting integration:
//   - ExitSuccess (0): All operations completed successfully
//   - ExitPartialFailure (1): Some updates failed
//   - ExitFailure (2): All operations failed or critical error
//   - ExitConfigError (3): Configuration or validation error
package errors
