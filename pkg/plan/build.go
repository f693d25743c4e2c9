package plan

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bruneval/modup/pkg/catalog"
	"github.com/bruneval/modup/pkg/errors"
	"github.com/bruneval/modup/pkg/logging"
	"github.com/bruneval/modup/pkg/modinfo"
	"github.com/bruneval/modup/pkg/resolve"
	"github.com/bruneval/modup/pkg/tracking"
	"github.com/bruneval/modup/pkg/utils"
	"github.com/bruneval/modup/pkg/verbose"
	"github.com/bruneval/modup/pkg/version"
	"github.com/bruneval/modup/pkg/warnings"
)

// unreadableReason is the resolution reason for mods whose catalog query
// failed at the transport level.
const unreadableReason = "catalog unreachable"

// Options holds optional planning hooks.
//
// Fields:
//   - OnModPlanned: Called after each mod's resolution, for progress output
//   - Tracker: Collects grouped run events for the summary, may be nil
type Options struct {
	OnModPlanned func(entry *Entry, current, total int)
	Tracker      *tracking.RunTracker
}

// fetched holds one mod's catalog query outcome.
type fetched struct {
	listing *catalog.Listing
	err     error
}

// Build plans one run.
//
// It performs the following operations:
//   - Step 1: Marks excluded mods without any catalog call
//   - Step 2: Fetches catalog listings for the rest, in parallel under
//     the policy's worker cap
//   - Step 3: Resolves every mod to a verdict, classifying catalog
//     failures as local-only
//   - Step 4: Applies the acceptance rule and the incompatibility behavior
//
// Planning completes before execution starts; an abort on incompatibility
// happens here, before any download is attempted.
//
// Parameters:
//   - ctx: Context for cancellation
//   - mods: Scanned mods, in scan order
//   - client: Catalog client
//   - policy: Run policy
//   - opts: Optional hooks
//
// Returns:
//   - *Plan: The completed plan
//   - error: IncompatibilityAbortError under abort behavior, or the
//     context's error on cancellation
func Build(ctx context.Context, mods []modinfo.LocalMod, client catalog.Client, policy resolve.Policy, opts Options) (*Plan, error) {
	l := logging.Logger("plan")
	done := logging.TimedOperation(l, "plan")
	defer done()

	entries := make([]Entry, len(mods))
	excluded := make([]bool, len(mods))

	for i, mod := range mods {
		entries[i] = Entry{Mod: mod}
		if !matchesExclusion(mod, policy.Exclusions) {
			continue
		}
		excluded[i] = true
		entries[i].Resolution = resolve.ExcludedResolution()
		verbose.ModFiltered(mod.Name, resolve.ExclusionReason)
		if opts.Tracker != nil {
			opts.Tracker.Add(tracking.CategoryExcluded, mod.Name, resolve.ExclusionReason)
		}
	}

	results, err := fetchListings(ctx, mods, excluded, client, policy)
	if err != nil {
		return nil, err
	}

	total := len(mods)
	for i := range entries {
		if !excluded[i] {
			if err := resolveEntry(&entries[i], results[i], policy, opts.Tracker); err != nil {
				return nil, err
			}
		}
		if opts.OnModPlanned != nil {
			opts.OnModPlanned(&entries[i], i+1, total)
		}
	}

	plan := &Plan{Entries: entries, Policy: policy}
	l.Info().
		Int("mods", total).
		Int("accepted", len(plan.Accepted())).
		Int("flagged", len(plan.Flagged())).
		Bool("dry_run", policy.DryRun).
		Msg("plan built")
	return plan, nil
}

// fetchListings queries the catalog for every non-excluded mod.
//
// Queries run in parallel under the worker cap. Each goroutine owns its
// result slot, so no lock is needed; failures are stored for per-mod
// classification rather than failing the group.
func fetchListings(ctx context.Context, mods []modinfo.LocalMod, excluded []bool, client catalog.Client, policy resolve.Policy) ([]fetched, error) {
	results := make([]fetched, len(mods))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(policy.Workers())

	for i := range mods {
		if excluded[i] {
			continue
		}
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}
			listing, err := client.FetchReleases(gCtx, mods[i].ModID)
			results[i] = fetched{listing: listing, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resolveEntry fills in one entry's resolution and acceptance.
func resolveEntry(entry *Entry, result fetched, policy resolve.Policy, tracker *tracking.RunTracker) error {
	l := logging.Logger("plan")
	mod := entry.Mod

	switch {
	case errors.IsModNotFound(result.err):
		entry.Resolution = resolve.LocalOnlyResolution("not listed in the catalog")
		if tracker != nil {
			tracker.Add(tracking.CategoryLocalOnly, mod.Name, "not listed in the catalog")
		}
		return nil
	case result.err != nil:
		entry.Resolution = resolve.LocalOnlyResolution(unreadableReason)
		warnings.CatalogUnreachable(mod.Name, result.err)
		if tracker != nil {
			tracker.Add(tracking.CategoryUnreachable, mod.Name, unreadableReason)
		}
		return nil
	}

	entry.Listing = result.listing
	entry.Resolution = resolve.Resolve(mod, result.listing.Releases, policy)

	if tracker != nil && len(entry.Resolution.Dropped) > 0 {
		tracker.Add(tracking.CategoryUnparsable, mod.Name, "unparsable release versions skipped")
	}

	switch entry.Resolution.Verdict {
	case resolve.Incompatible:
		if tracker != nil {
			tracker.Add(tracking.CategoryIncompatible, mod.Name, entry.Resolution.Reason)
		}
		switch policy.EffectiveBehavior() {
		case resolve.BehaviorAbort:
			return &errors.IncompatibilityAbortError{ModID: mod.ModID, Reason: entry.Resolution.Reason}
		case resolve.BehaviorAsk:
			if !policy.DryRun && entry.Resolution.Chosen != nil {
				entry.NeedsConfirmation = true
			}
		default:
			l.Info().Str("mod", mod.ModID).Str("reason", entry.Resolution.Reason).Msg("incompatible mod ignored")
		}
	case resolve.LocalOnly:
		if tracker != nil {
			tracker.Add(tracking.CategoryLocalOnly, mod.Name, entry.Resolution.Reason)
		}
	}

	entry.Accepted = entry.Resolution.Actionable() && !policy.DryRun
	return nil
}

// matchesExclusion reports whether a mod is in the exclusion set.
//
// Patterns match the artifact file name or the mod identifier,
// case-insensitively, with glob support.
func matchesExclusion(mod modinfo.LocalMod, exclusions []string) bool {
	if utils.ContainsIgnoreCase(exclusions, mod.ModID) {
		return true
	}
	for _, pattern := range exclusions {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if utils.MatchGlob(strings.ToLower(mod.FileName), pattern) || utils.MatchGlob(strings.ToLower(mod.ModID), pattern) {
			return true
		}
	}
	return false
}

// ResolveTarget turns the configured game version into a concrete target.
//
// It performs the following operations:
//   - "unconstrained" (or the * placeholder) lifts the constraint entirely
//   - empty and "latest" resolve to the newest stable game version the
//     catalog lists, once per run
//   - anything else must parse as a concrete version
//
// Parameters:
//   - ctx: Context for cancellation
//   - client: Catalog client, consulted only for the latest-stable case
//   - configured: The configured game version string
//
// Returns:
//   - version.Version: The concrete target, zero when unconstrained
//   - bool: true when the target is unconstrained
//   - error: If the catalog cannot be reached or the version is invalid
func ResolveTarget(ctx context.Context, client catalog.Client, configured string) (version.Version, bool, error) {
	switch strings.ToLower(strings.TrimSpace(configured)) {
	case "unconstrained", "*":
		return version.Version{}, true, nil
	case "", "latest":
		target, err := client.LatestStablePlatform(ctx)
		if err != nil {
			return version.Version{}, false, err
		}
		verbose.WithDocRef("target", "Target game version resolved to "+target.String())
		return target, false, nil
	default:
		target, err := version.Parse(configured)
		if err != nil {
			return version.Version{}, false, err
		}
		return target, false, nil
	}
}
