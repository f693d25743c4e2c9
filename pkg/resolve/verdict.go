package resolve

import (
	"github.com/bruneval/modup/pkg/catalog"
	"github.com/bruneval/modup/pkg/version"
)

// Verdict is the per-mod decision for one run.
type Verdict string

const (
	// UpToDate means the installed version already matches the best
	// compatible release.
	UpToDate Verdict = "UpToDate"

	// UpgradeAvailable means a newer compatible release exists.
	UpgradeAvailable Verdict = "UpgradeAvailable"

	// DowngradeRequired means the installed version is newer than every
	// compatible release, so matching the target game version means
	// installing an older release.
	DowngradeRequired Verdict = "DowngradeRequired"

	// Incompatible means releases exist but none supports the target game
	// version.
	Incompatible Verdict = "Incompatible"

	// LocalOnly means the catalog offers no usable data for the mod.
	LocalOnly Verdict = "LocalOnly"

	// Excluded means user configuration removed the mod from the run.
	Excluded Verdict = "Excluded"
)

// ExclusionReason is the reason string attached to every excluded mod.
const ExclusionReason = "excluded by user configuration"

// Resolution is the immutable outcome of resolving one mod.
//
// Exactly one Resolution exists per mod per run. The chosen release is set
// for actionable verdicts, and for Incompatible it carries the release
// whose game requirement sits closest above the target so reports can say
// which game version would unlock it.
//
// Fields:
//   - Verdict: The decision
//   - Chosen: The selected or carried release, nil when none applies
//   - ChosenVersion: Parsed version of Chosen
//   - RequiredPlatform: Game version Chosen needs, zero when unknown
//   - Reason: Human-readable explanation shown in reports
//   - Dropped: Raw release versions skipped as unparsable
type Resolution struct {
	Verdict          Verdict
	Chosen           *catalog.Release
	ChosenVersion    version.Version
	RequiredPlatform version.Version
	Reason           string
	Dropped          []string
}

// Actionable reports whether the resolution calls for replacing the
// installed artifact.
//
// Returns:
//   - bool: true for UpgradeAvailable and DowngradeRequired
func (r Resolution) Actionable() bool {
	return r.Verdict == UpgradeAvailable || r.Verdict == DowngradeRequired
}

// ExcludedResolution builds the resolution for a mod the user excluded.
//
// Returns:
//   - Resolution: Excluded verdict with the standard reason
func ExcludedResolution() Resolution {
	return Resolution{Verdict: Excluded, Reason: ExclusionReason}
}

// LocalOnlyResolution builds the resolution for a mod without catalog data.
//
// Parameters:
//   - reason: Why the mod is local-only
//
// Returns:
//   - Resolution: LocalOnly verdict carrying the reason
func LocalOnlyResolution(reason string) Resolution {
	return Resolution{Verdict: LocalOnly, Reason: reason}
}
