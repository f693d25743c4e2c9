// Package plan builds the per-run decision snapshot.
//
// Planning fully completes before any execution starts: exclusions are
// applied first without touching the network, catalog listings are fetched
// under the worker cap, and every mod ends up with exactly one resolution.
// The resulting Plan is a stable snapshot that commands can print, confirm
// against, or hand to the executor.
package plan

import (
	"github.com/bruneval/modup/pkg/catalog"
	"github.com/bruneval/modup/pkg/modinfo"
	"github.com/bruneval/modup/pkg/resolve"
)

// Entry is one mod's slot in the plan.
//
// Fields:
//   - Mod: The installed mod
//   - Resolution: The run's decision for it
//   - Listing: Catalog record, nil when the catalog was not consulted
//     or not reachable
//   - Accepted: Whether the executor should act on the entry
//   - NeedsConfirmation: Whether the entry waits on an interactive answer
type Entry struct {
	Mod               modinfo.LocalMod
	Resolution        resolve.Resolution
	Listing           *catalog.Listing
	Accepted          bool
	NeedsConfirmation bool
}

// Plan is the full set of resolutions for one run.
//
// Fields:
//   - Entries: One entry per scanned mod, in scan order
//   - Policy: The policy the plan was built under
type Plan struct {
	Entries []Entry
	Policy  resolve.Policy
}

// Accepted returns the entries the executor should act on.
//
// Returns:
//   - []Entry: Accepted entries in plan order
func (p *Plan) Accepted() []Entry {
	var accepted []Entry
	for _, entry := range p.Entries {
		if entry.Accepted {
			accepted = append(accepted, entry)
		}
	}
	return accepted
}

// Flagged returns pointers to entries waiting on interactive confirmation.
//
// Callers flip Accepted on a flagged entry once the user confirms it.
//
// Returns:
//   - []*Entry: Flagged entries in plan order
func (p *Plan) Flagged() []*Entry {
	var flagged []*Entry
	for i := range p.Entries {
		if p.Entries[i].NeedsConfirmation {
			flagged = append(flagged, &p.Entries[i])
		}
	}
	return flagged
}

// Counts returns how many entries carry each verdict.
//
// Returns:
//   - map[resolve.Verdict]int: Verdict counts
func (p *Plan) Counts() map[resolve.Verdict]int {
	counts := make(map[resolve.Verdict]int)
	for _, entry := range p.Entries {
		counts[entry.Resolution.Verdict]++
	}
	return counts
}
