// Package report accumulates per-mod execution outcomes.
//
// A single Report instance is shared by all executor workers for one run.
// Appends are mutex-protected; readers consult the report only after the
// worker pool has joined, so the snapshot methods copy without locking
// concerns beyond the same mutex.
package report

import (
	"sort"
	"strings"
	"sync"

	"github.com/bruneval/modup/pkg/constants"
)

// Result classifies how one mod's execution ended.
type Result string

const (
	// ResultApplied means the artifact was replaced on disk.
	ResultApplied Result = "applied"

	// ResultFailed means the download or replacement failed and the
	// pre-existing artifact was left untouched.
	ResultFailed Result = "failed"

	// ResultSkipped means the entry was deliberately not processed.
	ResultSkipped Result = "skipped"
)

// Outcome is one mod's execution record.
//
// Fields:
//   - ModID: Catalog identifier of the mod
//   - Name: Display name of the mod
//   - Result: How the execution ended
//   - OldVersion: Installed version before the run
//   - NewVersion: Version of the applied release, empty unless applied
//   - Bytes: Artifact size fetched, 0 unless applied
//   - ErrorKind: Short failure classification, empty unless failed
//   - Reason: Human-readable explanation for failed and skipped results
type Outcome struct {
	ModID      string
	Name       string
	Result     Result
	OldVersion string
	NewVersion string
	Bytes      int64
	ErrorKind  string
	Reason     string
}

// StatusString maps the outcome to the display status constant.
//
// Returns:
//   - string: One of the constants.Status* values
func (o Outcome) StatusString() string {
	switch o.Result {
	case ResultApplied:
		return constants.StatusApplied
	case ResultFailed:
		return constants.StatusFailed
	default:
		return constants.StatusSkipped
	}
}

// Report collects outcomes from concurrent executor workers.
//
// The zero value is not usable; call New.
type Report struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// New creates an empty report.
//
// Returns:
//   - *Report: Report ready for concurrent appends
func New() *Report {
	return &Report{}
}

// Append records one outcome.
//
// Safe for concurrent use by executor workers.
//
// Parameters:
//   - outcome: The outcome to record
func (r *Report) Append(outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

// Outcomes returns the recorded outcomes sorted by mod name.
//
// Workers finish in no guaranteed order, so the report sorts for stable
// display instead of preserving arrival order.
//
// Returns:
//   - []Outcome: Copy of all outcomes, sorted by lowercase name
func (r *Report) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Counts returns how many outcomes ended with each result.
//
// Returns:
//   - applied: Number of applied outcomes
//   - failed: Number of failed outcomes
//   - skipped: Number of skipped outcomes
func (r *Report) Counts() (applied, failed, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.outcomes {
		switch o.Result {
		case ResultApplied:
			applied++
		case ResultFailed:
			failed++
		default:
			skipped++
		}
	}
	return applied, failed, skipped
}

// TotalBytes returns the byte count summed over applied outcomes.
//
// Returns:
//   - int64: Total bytes fetched for applied entries
func (r *Report) TotalBytes() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total int64
	for _, o := range r.outcomes {
		if o.Result == ResultApplied {
			total += o.Bytes
		}
	}
	return total
}

// FailureReasons returns one line per failed outcome.
//
// Returns:
//   - []string: "name: reason" lines sorted by lowercase name
func (r *Report) FailureReasons() []string {
	var lines []string
	for _, o := range r.Outcomes() {
		if o.Result != ResultFailed {
			continue
		}
		lines = append(lines, o.Name+": "+o.Reason)
	}
	return lines
}
