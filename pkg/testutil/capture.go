// Package testutil provides shared test utilities for modup packages.
package testutil

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// capturePipe swaps a standard stream for a pipe during fn and returns
// everything written to it. The original stream is restored before the
// captured content is read, so fn's writes never deadlock the pipe.
func capturePipe(t *testing.T, stream **os.File, fn func()) string {
	t.Helper()

	old := *stream
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("create capture pipe: %v", err)
	}
	*stream = w

	fn()

	_ = w.Close()
	*stream = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()

	return buf.String()
}

// CaptureStdout returns everything fn writes to stdout.
//
// Command run functions print tables and summaries to stdout; tests
// capture them here and assert on the rendered content.
//
// Parameters:
//   - t: Testing instance for helper marking
//   - fn: Function to execute while capturing stdout
//
// Returns:
//   - string: All content written to stdout during fn execution
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()
	return capturePipe(t, &os.Stdout, fn)
}

// CaptureStderr returns everything fn writes to stderr.
//
// Progress lines and warnings go to stderr so structured stdout stays
// parseable; tests assert on them through this helper.
//
// Parameters:
//   - t: Testing instance for helper marking
//   - fn: Function to execute while capturing stderr
//
// Returns:
//   - string: All content written to stderr during fn execution
func CaptureStderr(t *testing.T, fn func()) string {
	t.Helper()
	return capturePipe(t, &os.Stderr, fn)
}

// CaptureOutput captures both streams during fn.
//
// Parameters:
//   - t: Testing instance for helper marking
//   - fn: Function to execute while capturing both streams
//
// Returns:
//   - stdout: All content written to stdout during fn execution
//   - stderr: All content written to stderr during fn execution
func CaptureOutput(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()

	stderr = capturePipe(t, &os.Stderr, func() {
		stdout = capturePipe(t, &os.Stdout, fn)
	})
	return stdout, stderr
}
