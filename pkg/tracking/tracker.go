// Package tracking collects the non-fatal events of a run so the final
// summary can group them instead of scattering them through the output.
package tracking

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bruneval/modup/pkg/constants"
)

// Category classifies a tracked run event.
type Category string

const (
	// CategoryExcluded groups mods removed from the run by configuration.
	CategoryExcluded Category = "excluded"

	// CategoryLocalOnly groups mods the catalog has no usable data for.
	CategoryLocalOnly Category = "local-only"

	// CategoryUnreachable groups mods whose catalog query failed.
	CategoryUnreachable Category = "catalog-unreachable"

	// CategoryUnparsable groups releases dropped for unparsable versions.
	CategoryUnparsable Category = "unparsable-version"

	// CategoryTimestamp groups files whose timestamps were normalized
	// during backup.
	CategoryTimestamp Category = "timestamp-anomaly"

	// CategoryIncompatible groups mods with no release for the target
	// game version.
	CategoryIncompatible Category = "incompatible"
)

// categoryIcons maps each category to its summary icon.
var categoryIcons = map[Category]string{
	CategoryExcluded:     constants.IconIgnored,
	CategoryLocalOnly:    constants.IconInfo,
	CategoryUnreachable:  constants.IconWarn,
	CategoryUnparsable:   constants.IconWarn,
	CategoryTimestamp:    constants.IconWarn,
	CategoryIncompatible: constants.IconBlocked,
}

// GroupInfo holds one grouped run event.
//
// Fields:
//   - Category: Event classification
//   - Reason: Shared human-readable reason
//   - Mods: Names of the affected mods, in insertion order
type GroupInfo struct {
	Category Category
	Reason   string
	Mods     []string
}

// RunTracker collects unique reasons grouped by category.
//
// It is safe for concurrent use: planning workers and the executor add
// events while they run, and the summary reads them after the run joins.
type RunTracker struct {
	mu     sync.RWMutex
	groups map[string]*GroupInfo
}

// NewRunTracker creates a RunTracker.
//
// Returns:
//   - *RunTracker: Initialized tracker ready for use
func NewRunTracker() *RunTracker {
	return &RunTracker{groups: make(map[string]*GroupInfo)}
}

// Add tracks one event.
//
// Events are grouped by category and reason; the same mod may appear in
// several groups. Empty reasons are ignored.
//
// Parameters:
//   - category: Event classification
//   - mod: Affected mod name
//   - reason: Human-readable reason shared by the group
func (t *RunTracker) Add(category Category, mod, reason string) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}

	key := fmt.Sprintf("%s|%s", category, reason)

	t.mu.Lock()
	defer t.mu.Unlock()

	if group, exists := t.groups[key]; exists {
		group.Mods = append(group.Mods, mod)
		return
	}

	t.groups[key] = &GroupInfo{
		Category: category,
		Reason:   reason,
		Mods:     []string{mod},
	}
}

// Groups returns the tracked groups sorted by category, then reason.
//
// Returns:
//   - []GroupInfo: Sorted copies of the tracked groups, nil when empty
func (t *RunTracker) Groups() []GroupInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.groups) == 0 {
		return nil
	}

	groups := make([]GroupInfo, 0, len(t.groups))
	for _, group := range t.groups {
		copied := *group
		copied.Mods = append([]string(nil), group.Mods...)
		groups = append(groups, copied)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Category != groups[j].Category {
			return groups[i].Category < groups[j].Category
		}
		return groups[i].Reason < groups[j].Reason
	})

	return groups
}

// Messages returns formatted summary lines for all tracked groups.
//
// Lines are sorted by category, then reason. A group of one names the
// mod; larger groups report the count.
//
// Returns:
//   - []string: Formatted messages, or nil if nothing was tracked
func (t *RunTracker) Messages() []string {
	groups := t.Groups()
	if len(groups) == 0 {
		return nil
	}

	messages := make([]string, 0, len(groups))
	for _, group := range groups {
		icon := categoryIcons[group.Category]
		if icon == "" {
			icon = constants.IconInfo
		}

		var suffix string
		if len(group.Mods) == 1 {
			suffix = fmt.Sprintf("(1 mod: %s)", group.Mods[0])
		} else {
			suffix = fmt.Sprintf("(%d mods)", len(group.Mods))
		}

		messages = append(messages, fmt.Sprintf("%s %s: %s %s", icon, group.Category, group.Reason, suffix))
	}

	return messages
}

// Count returns the number of unique category/reason groups.
//
// Returns:
//   - int: Number of tracked groups
func (t *RunTracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.groups)
}

// TotalMods returns the total number of tracked events across all groups.
//
// Returns:
//   - int: Sum of all group sizes
func (t *RunTracker) TotalMods() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := 0
	for _, group := range t.groups {
		total += len(group.Mods)
	}
	return total
}
