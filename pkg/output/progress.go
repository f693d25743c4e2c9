package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Progress is an in-place progress line for batch operations.
//
// Planning and execution resolve many mods concurrently, so all methods
// are safe for concurrent use. The line rewrites itself with a carriage
// return; Done finishes it with a newline.
//
// Fields:
//   - writer: Destination for progress output (typically os.Stderr)
//   - total: Total number of mods in the operation
//   - current: Mods completed so far
//   - message: Prefix shown before the counter
//   - mu: Protects the counters and the rendered width
//   - enabled: Whether anything is written at all
//   - lastWidth: Width of the last rendered line, for clearing
type Progress struct {
	writer    io.Writer
	total     int
	current   int
	message   string
	mu        sync.Mutex
	enabled   bool
	lastWidth int
}

// NewProgress creates an enabled progress line.
//
// Parameters:
//   - writer: Destination for progress output (typically os.Stderr)
//   - total: Total number of mods in the operation
//   - message: Prefix to display (e.g., "Checking mods")
//
// Returns:
//   - *Progress: A new progress line, enabled
func NewProgress(writer io.Writer, total int, message string) *Progress {
	return &Progress{
		writer:  writer,
		total:   total,
		message: message,
		enabled: true,
	}
}

// SetEnabled enables or disables progress output.
//
// Structured output modes disable the line so the document on stdout is
// the only thing a consumer has to parse.
//
// Parameters:
//   - enabled: true to render, false to suppress all output
func (p *Progress) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

// Increment advances the progress by one mod and re-renders.
func (p *Progress) Increment() {
	p.mu.Lock()
	p.current++
	current, total, enabled := p.current, p.total, p.enabled
	p.mu.Unlock()

	if enabled && total > 0 {
		p.renderValues(current, total)
	}
}

// SetCurrent moves the progress to a specific count and re-renders.
//
// Planning callbacks report an absolute position rather than a delta,
// since resolutions complete out of order.
//
// Parameters:
//   - current: Mods completed (0 to total)
func (p *Progress) SetCurrent(current int) {
	p.mu.Lock()
	p.current = current
	total, enabled := p.total, p.enabled
	p.mu.Unlock()

	if enabled && total > 0 {
		p.renderValues(current, total)
	}
}

// Done renders the completed state and moves past the progress line.
//
// Call it once the operation finishes, before printing any table or
// summary, so later output starts on a fresh line.
func (p *Progress) Done() {
	p.mu.Lock()
	p.current = p.total
	current, total, enabled := p.current, p.total, p.enabled
	p.mu.Unlock()

	if enabled && total > 0 {
		p.renderValues(current, total)
		_, _ = fmt.Fprintln(p.writer)
	}
}

// Clear overwrites the progress line with spaces.
//
// Use it before interleaving other output, such as a confirmation
// prompt, with an unfinished progress line.
func (p *Progress) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled && p.lastWidth > 0 {
		_, _ = fmt.Fprintf(p.writer, "\r%s\r", strings.Repeat(" ", p.lastWidth))
	}
}

// renderValues writes one progress line for the given counts.
//
// The counters are passed in rather than read under the lock, so the
// write happens outside the critical section; only lastWidth is locked,
// to pad over a previously longer line.
//
// Parameters:
//   - current: Mods completed
//   - total: Total mods
func (p *Progress) renderValues(current, total int) {
	percentage := float64(current) / float64(total) * 100
	line := fmt.Sprintf("\r%s: %d/%d (%.0f%%)", p.message, current, total, percentage)

	p.mu.Lock()
	if len(line) < p.lastWidth {
		line += strings.Repeat(" ", p.lastWidth-len(line))
	}
	p.lastWidth = len(line)
	p.mu.Unlock()

	_, _ = fmt.Fprint(p.writer, line)

	// Flush so the line shows up immediately on a real terminal.
	if f, ok := p.writer.(*os.File); ok {
		_ = f.Sync()
	}
}
