// Package resolve decides, per mod, what a run should do.
//
// The decision weighs the installed artifact, the catalog's releases, and
// the run policy: which releases can run under the target game version,
// which of those is best, and how it compares to what is installed. Every
// mod gets exactly one Resolution per run; resolution never touches the
// network or the filesystem.
package resolve

import (
	"fmt"

	"github.com/bruneval/modup/pkg/catalog"
	"github.com/bruneval/modup/pkg/constants"
	"github.com/bruneval/modup/pkg/logging"
	"github.com/bruneval/modup/pkg/modinfo"
	"github.com/bruneval/modup/pkg/verbose"
	"github.com/bruneval/modup/pkg/version"
	"github.com/bruneval/modup/pkg/warnings"
)

// candidate pairs a release with its parsed mod version and game requirement.
type candidate struct {
	release     catalog.Release
	version     version.Version
	platform    version.Version
	hasPlatform bool
}

// Resolve computes the verdict for one mod.
//
// It performs the following operations:
//   - Step 1: Drops candidates whose version does not parse (recorded)
//   - Step 2: Drops pre-release candidates when the policy excludes them
//   - Step 3: Partitions candidates by whether their game requirement is
//     within the target game version
//   - Step 4: Selects the best compatible candidate, highest mod version
//     first, ties broken by the game requirement closest to the target
//   - Step 5: Compares the selection against the installed version
//
// When nothing is compatible but incompatible releases exist, the verdict
// carries the release whose game requirement sits closest above the target.
// When no candidate survives at all, the mod is local-only.
//
// Parameters:
//   - local: The installed mod
//   - candidates: The catalog's releases for the mod
//   - policy: Run policy flags
//
// Returns:
//   - Resolution: The decision, with chosen release and reason
func Resolve(local modinfo.LocalMod, candidates []catalog.Release, policy Policy) Resolution {
	l := logging.Logger("resolve")

	parsed, dropped := parseCandidates(local, candidates, policy)
	compatible, incompatible := partition(parsed, policy)

	var res Resolution
	switch {
	case len(compatible) > 0:
		res = compareInstalled(local, selectBest(compatible), policy)
	case len(incompatible) > 0:
		res = carryIncompatible(incompatible)
	case len(candidates) > 0:
		res = LocalOnlyResolution("no usable release in the catalog")
	default:
		res = LocalOnlyResolution("no releases listed in the catalog")
	}
	res.Dropped = dropped

	l.Debug().
		Str("mod", local.ModID).
		Str("installed", local.Version).
		Str("verdict", string(res.Verdict)).
		Str("reason", res.Reason).
		Msg("mod resolved")
	return res
}

// parseCandidates parses release versions and applies the pre-release filter.
//
// Unparsable versions are dropped and recorded, never fatal.
func parseCandidates(local modinfo.LocalMod, releases []catalog.Release, policy Policy) ([]candidate, []string) {
	parsed := make([]candidate, 0, len(releases))
	var dropped []string

	for _, release := range releases {
		v, err := version.Parse(release.ModVersion)
		if err != nil {
			dropped = append(dropped, release.ModVersion)
			warnings.UnparsableRelease(local.Name, release.ModVersion)
			continue
		}
		if policy.ExcludePreReleases && v.IsPreRelease() {
			continue
		}
		platform, ok := release.RequiredPlatform()
		parsed = append(parsed, candidate{
			release:     release,
			version:     v,
			platform:    platform,
			hasPlatform: ok,
		})
	}

	return parsed, dropped
}

// partition splits candidates into those runnable under the target game
// version and those that are not.
//
// Without a constraint every candidate is compatible. Under a concrete
// target, a candidate with no parseable game requirement cannot prove
// compatibility and lands in the incompatible set.
func partition(parsed []candidate, policy Policy) (compatible, incompatible []candidate) {
	if policy.Unconstrained || policy.Target.IsZero() {
		return parsed, nil
	}

	for _, c := range parsed {
		if c.hasPlatform && version.Compare(c.platform, policy.Target) <= 0 {
			compatible = append(compatible, c)
		} else {
			incompatible = append(incompatible, c)
		}
	}
	return compatible, incompatible
}

// selectBest picks the compatible candidate to offer.
//
// The highest mod version wins. On version ties the candidate whose game
// requirement is closest to the target wins, so a backport built for an
// old game version never shadows the same release built for the target.
func selectBest(compatible []candidate) candidate {
	best := compatible[0]
	for _, c := range compatible[1:] {
		switch cmp := version.Compare(c.version, best.version); {
		case cmp > 0:
			best = c
		case cmp == 0 && c.hasPlatform && (!best.hasPlatform || version.Compare(c.platform, best.platform) > 0):
			best = c
		}
	}
	return best
}

// compareInstalled turns the best compatible candidate into a verdict by
// comparing it against the installed version.
//
// An installed version that is missing or unreadable counts as older than
// anything, so the candidate is still offered.
func compareInstalled(local modinfo.LocalMod, best candidate, policy Policy) Resolution {
	res := Resolution{
		Chosen:           &best.release,
		ChosenVersion:    best.version,
		RequiredPlatform: best.platform,
	}

	installed, err := version.Parse(local.Version)
	if err != nil {
		res.Verdict = UpgradeAvailable
		if local.Version == "" {
			res.Reason = fmt.Sprintf("no installed version recorded, %s available", best.version)
		} else {
			res.Reason = fmt.Sprintf("installed version %q is unreadable, %s available", local.Version, best.version)
		}
		verbose.VersionSelected(local.ModID, constants.PlaceholderNA, best.version.String(), "installed version unknown")
		return res
	}

	switch cmp := version.Compare(best.version, installed); {
	case cmp > 0:
		res.Verdict = UpgradeAvailable
		res.Reason = fmt.Sprintf("newer release %s available", best.version)
		verbose.VersionSelected(local.ModID, installed.String(), best.version.String(), "newest compatible release")
	case cmp < 0:
		res.Verdict = DowngradeRequired
		res.Reason = fmt.Sprintf("installed %s is too new for the target game, best compatible is %s", installed, best.version)
		verbose.VersionSelected(local.ModID, installed.String(), best.version.String(), "downgrade to match the target game")
	case policy.ForceUpdate:
		res.Verdict = UpgradeAvailable
		res.Reason = fmt.Sprintf("re-fetch of %s forced", best.version)
		verbose.VersionSelected(local.ModID, installed.String(), best.version.String(), "re-fetch forced")
	default:
		res.Verdict = UpToDate
		res.Reason = "already at the newest compatible release"
	}
	return res
}

// carryIncompatible builds the verdict for a mod whose every release needs
// a newer game than the target.
//
// The carried release is the one whose game requirement sits closest above
// the target; on requirement ties the higher mod version is carried. The
// reason names that requirement so reports show which game version would
// unlock the mod.
func carryIncompatible(incompatible []candidate) Resolution {
	var carry *candidate
	for i := range incompatible {
		c := &incompatible[i]
		if !c.hasPlatform {
			continue
		}
		if carry == nil {
			carry = c
			continue
		}
		switch cmp := version.Compare(c.platform, carry.platform); {
		case cmp < 0:
			carry = c
		case cmp == 0 && version.Compare(c.version, carry.version) > 0:
			carry = c
		}
	}

	if carry == nil {
		return Resolution{Verdict: Incompatible, Reason: "no release declares a supported game version"}
	}

	release := carry.release
	return Resolution{
		Verdict:          Incompatible,
		Chosen:           &release,
		ChosenVersion:    carry.version,
		RequiredPlatform: carry.platform,
		Reason:           fmt.Sprintf("needs game ≥ %s", carry.platform),
	}
}
