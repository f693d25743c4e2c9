package display

import (
	"io"
	"os"

	"github.com/bruneval/modup/pkg/output"
)

// Progress re-exports output.Progress for convenience.
// Use NewProgress or NewStderrProgress to create instances.
type Progress = output.Progress

// NewProgress creates a progress indicator for long-running operations.
//
// Progress indicators show the current state of batch operations,
// updating in place on the terminal. They are thread-safe and can
// be updated from concurrent goroutines.
//
// Parameters:
//   - w: Writer to output progress to (typically os.Stderr)
//   - total: Total number of items to process
//   - message: Message prefix shown before the progress (e.g., "Resolving")
//
// Returns:
//   - *Progress: A new progress indicator ready for use
//
// Example:
//
//	progress := display.NewProgress(os.Stderr, len(mods), "Resolving mods")
//	for range mods {
//	    // ... do work ...
//	    progress.Increment()
//	}
//	progress.Done()
func NewProgress(w io.Writer, total int, message string) *Progress {
	return output.NewProgress(w, total, message)
}

// NewStderrProgress creates a progress indicator that writes to stderr.
//
// This is a convenience wrapper around NewProgress that uses os.Stderr
// as the output writer, which is the most common use case.
//
// Parameters:
//   - total: Total number of items to process
//   - message: Message prefix shown before the progress
//
// Returns:
//   - *Progress: A new progress indicator writing to stderr
func NewStderrProgress(total int, message string) *Progress {
	return output.NewProgress(os.Stderr, total, message)
}

// NewDisabledProgress creates a progress indicator that produces no output.
//
// Use this when progress output should be suppressed, such as when
// running in non-interactive mode, structured output mode, or during tests.
//
// Parameters:
//   - total: Total number of items (still tracked internally)
//   - message: Message (unused but kept for call-site symmetry)
//
// Returns:
//   - *Progress: A disabled progress indicator
func NewDisabledProgress(total int, message string) *Progress {
	p := output.NewProgress(io.Discard, total, message)
	p.SetEnabled(false)
	return p
}

// WithProgress executes a function while showing progress.
//
// This is a convenience wrapper that creates a progress indicator,
// passes it to the function, and ensures Done() is called on completion.
//
// Parameters:
//   - w: Writer for progress output
//   - total: Total items to process
//   - message: Progress message prefix
//   - fn: Function to execute, receives progress indicator
//
// Returns:
//   - error: Any error returned by the function
//
// Example:
//
//	err := display.WithProgress(os.Stderr, len(mods), "Downloading", func(p *display.Progress) error {
//	    for _, mod := range mods {
//	        if err := apply(mod); err != nil {
//	            return err
//	        }
//	        p.Increment()
//	    }
//	    return nil
//	})
func WithProgress(w io.Writer, total int, message string, fn func(*Progress) error) error {
	p := NewProgress(w, total, message)
	defer p.Done()
	return fn(p)
}

// WithProgressConditional executes a function with optional progress.
//
// If enabled is true, shows progress; otherwise uses a disabled progress
// indicator that still tracks counts but produces no output.
//
// Parameters:
//   - w: Writer for progress output
//   - total: Total items to process
//   - message: Progress message prefix
//   - enabled: Whether to show progress output
//   - fn: Function to execute
//
// Returns:
//   - error: Any error returned by the function
func WithProgressConditional(w io.Writer, total int, message string, enabled bool, fn func(*Progress) error) error {
	var p *Progress
	if enabled {
		p = NewProgress(w, total, message)
	} else {
		p = NewDisabledProgress(total, message)
	}
	defer p.Done()
	return fn(p)
}
