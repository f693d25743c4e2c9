package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestProgressSetCurrent tests absolute position updates.
//
// It verifies:
//   - Each update renders the count and percentage
//   - Out-of-order completion still shows the reported position
func TestProgressSetCurrent(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 4, "Checking mods")

	p.SetCurrent(1)
	assert.Contains(t, buf.String(), "Checking mods: 1/4 (25%)")

	p.SetCurrent(3)
	assert.Contains(t, buf.String(), "Checking mods: 3/4 (75%)")
}

// TestProgressIncrement tests delta updates.
//
// It verifies:
//   - Increments accumulate across calls
func TestProgressIncrement(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 2, "Planning updates")

	p.Increment()
	p.Increment()

	assert.Contains(t, buf.String(), "Planning updates: 2/2 (100%)")
}

// TestProgressDone tests the completion render.
//
// It verifies:
//   - Done forces the count to the total and ends the line
func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 3, "Checking mods")

	p.SetCurrent(1)
	p.Done()

	out := buf.String()
	assert.Contains(t, out, "Checking mods: 3/3 (100%)")
	assert.Contains(t, out, "\n")
}

// TestProgressDisabled tests the suppressed state.
//
// It verifies:
//   - A disabled progress line writes nothing at all
func TestProgressDisabled(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 5, "Checking mods")
	p.SetEnabled(false)

	p.Increment()
	p.SetCurrent(3)
	p.Done()

	assert.Empty(t, buf.String())
}

// TestProgressZeroTotal tests an empty operation.
//
// It verifies:
//   - Nothing renders when there is nothing to count
func TestProgressZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 0, "Checking mods")

	p.Increment()
	p.Done()

	assert.Empty(t, buf.String())
}

// TestProgressClear tests clearing the line.
//
// It verifies:
//   - Clear pads over the previously rendered width
//   - Clear before any render writes nothing
func TestProgressClear(t *testing.T) {
	t.Run("after render", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewProgress(&buf, 2, "Checking mods")

		p.SetCurrent(1)
		before := buf.Len()
		p.Clear()

		assert.Greater(t, buf.Len(), before)
		assert.Contains(t, buf.String(), "\r")
	})

	t.Run("before render", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewProgress(&buf, 2, "Checking mods")

		p.Clear()

		assert.Empty(t, buf.String())
	})
}

// TestProgressShrinkingLinePads tests width tracking.
//
// It verifies:
//   - A shorter line pads over the previous, wider render
func TestProgressShrinkingLinePads(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 100, "Checking mods")

	p.SetCurrent(99)
	wide := buf.Len()
	buf.Reset()
	p.SetCurrent(1)

	assert.GreaterOrEqual(t, buf.Len(), wide, "shorter render must pad to the previous width")
}
