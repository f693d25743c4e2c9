// Package execute applies the accepted entries of a plan.
//
// Each accepted entry runs independently inside a bounded worker pool:
// back up the installed artifact, fetch the chosen release into a fully
// staged temp file, verify it, then atomically supersede the old
// artifact. One entry's failure never cancels its siblings, and no
// partial download ever becomes the live artifact.
package execute

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bruneval/modup/pkg/backup"
	"github.com/bruneval/modup/pkg/catalog"
	"github.com/bruneval/modup/pkg/errors"
	"github.com/bruneval/modup/pkg/logging"
	"github.com/bruneval/modup/pkg/modinfo"
	"github.com/bruneval/modup/pkg/plan"
	"github.com/bruneval/modup/pkg/report"
	"github.com/bruneval/modup/pkg/tracking"
	"github.com/bruneval/modup/pkg/verbose"
)

const defaultRetryDelay = 1500 * time.Millisecond

// Error kinds recorded on failed outcomes.
const (
	errKindBackup    = "backup"
	errKindTransient = "transient-fetch"
	errKindPermanent = "permanent-fetch"
	errKindStage     = "staging"
	errKindReplace   = "replace"
)

// Callbacks holds optional execution hooks.
//
// Fields:
//   - OnOutcome: Called as each outcome is recorded, for live output
type Callbacks struct {
	OnOutcome func(outcome report.Outcome, current, total int)
}

// Executor downloads and applies accepted plan entries.
type Executor struct {
	client     catalog.Client
	backups    *backup.Manager
	baseURL    string
	maxBackups int
	retryDelay time.Duration
	tracker    *tracking.RunTracker
}

// ExecutorOptions configures an Executor.
//
// Fields:
//   - Client: Catalog client artifacts are fetched through
//   - Backups: Backup manager consulted before every replacement
//   - BaseURL: Catalog root for resolving relative download paths,
//     catalog.DefaultBaseURL when empty
//   - MaxBackups: Retention limit passed to rotation, 0 for unlimited
//   - RetryDelay: Flat delay between fetch attempts, 1.5s when zero
//   - Tracker: Optional tracker for non-fatal run events
type ExecutorOptions struct {
	Client     catalog.Client
	Backups    *backup.Manager
	BaseURL    string
	MaxBackups int
	RetryDelay time.Duration
	Tracker    *tracking.RunTracker
}

// NewExecutor builds an executor with defaults applied to zero options.
//
// Parameters:
//   - opts: Executor options
//
// Returns:
//   - *Executor: The configured executor
func NewExecutor(opts ExecutorOptions) *Executor {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = catalog.DefaultBaseURL
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	return &Executor{
		client:     opts.Client,
		backups:    opts.Backups,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxBackups: opts.MaxBackups,
		retryDelay: retryDelay,
		tracker:    opts.Tracker,
	}
}

// Execute applies every accepted entry of the plan.
//
// It performs the following operations:
//   - Runs accepted entries in parallel under the policy's worker cap
//   - Isolates failures: a failed entry records its outcome and the
//     rest of the pool keeps going
//   - Collects all outcomes in a single shared report
//
// Parameters:
//   - ctx: Context for cancellation
//   - p: The completed plan
//   - callbacks: Optional execution hooks
//
// Returns:
//   - *report.Report: One outcome per accepted entry
//   - error: Only the context's error on cancellation
func (e *Executor) Execute(ctx context.Context, p *plan.Plan, callbacks Callbacks) (*report.Report, error) {
	l := logging.Logger("execute")
	done := logging.TimedOperation(l, "execute")
	defer done()

	accepted := p.Accepted()
	rep := report.New()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.Policy.Workers())

	total := len(accepted)
	for i, entry := range accepted {
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}
			outcome := e.applyEntry(gCtx, entry, p.Policy.FetchRetries())
			rep.Append(outcome)
			if callbacks.OnOutcome != nil {
				callbacks.OnOutcome(outcome, i+1, total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return rep, err
	}

	applied, failed, skipped := rep.Counts()
	l.Info().
		Int("applied", applied).
		Int("failed", failed).
		Int("skipped", skipped).
		Int64("bytes", rep.TotalBytes()).
		Msg("execution finished")
	return rep, nil
}

// applyEntry runs the full backup/fetch/replace sequence for one entry.
//
// The installed artifact is only superseded after the new content is
// fully staged and verified; any earlier failure leaves it untouched.
func (e *Executor) applyEntry(ctx context.Context, entry plan.Entry, retries int) report.Outcome {
	l := logging.Logger("execute")
	mod := entry.Mod
	release := entry.Resolution.Chosen

	outcome := report.Outcome{
		ModID:      mod.ModID,
		Name:       mod.Name,
		OldVersion: mod.Version,
	}
	if release == nil {
		outcome.Result = report.ResultSkipped
		outcome.Reason = "no release selected"
		return outcome
	}
	outcome.NewVersion = entry.Resolution.ChosenVersion.String()

	rec, err := e.backups.Backup(mod.ModID, mod.Path)
	if err != nil {
		l.Error().Str("mod", mod.ModID).Err(err).Msg("backup failed, artifact left untouched")
		outcome.Result = report.ResultFailed
		outcome.ErrorKind = errKindBackup
		outcome.Reason = err.Error()
		return outcome
	}
	if e.tracker != nil && len(rec.Normalized) > 0 {
		e.tracker.Add(tracking.CategoryTimestamp, mod.Name, "file timestamps outside the archive range were normalized")
	}
	if _, err := e.backups.Rotate(mod.ModID, e.maxBackups); err != nil {
		// Retention overflow is not worth failing the update over.
		l.Warn().Str("mod", mod.ModID).Err(err).Msg("backup rotation failed")
	}

	artifactURL := e.resolveURL(release.MainFile)
	staged, bytes, err := e.fetchStaged(ctx, mod, artifactURL, retries)
	if err != nil {
		outcome.Result = report.ResultFailed
		outcome.ErrorKind = classifyFetch(err)
		outcome.Reason = err.Error()
		return outcome
	}
	defer staged.discard()
	outcome.Bytes = bytes

	if err := staged.verify(); err != nil {
		l.Error().Str("mod", mod.ModID).Err(err).Msg("staged artifact failed verification")
		outcome.Result = report.ResultFailed
		outcome.ErrorKind = errKindStage
		outcome.Reason = err.Error()
		return outcome
	}

	if err := staged.supersede(mod); err != nil {
		l.Error().Str("mod", mod.ModID).Err(err).Msg("replacement failed, artifact left untouched")
		outcome.Result = report.ResultFailed
		outcome.ErrorKind = errKindReplace
		outcome.Reason = err.Error()
		return outcome
	}

	verbose.VersionSelected(mod.Name, mod.Version, outcome.NewVersion, "applied")
	l.Info().
		Str("mod", mod.ModID).
		Str("from", mod.Version).
		Str("to", outcome.NewVersion).
		Int64("bytes", bytes).
		Msg("mod updated")
	outcome.Result = report.ResultApplied
	return outcome
}

// fetchStaged downloads the artifact into a temp_ sibling of the mod.
//
// Transient failures are retried with a flat delay up to the bound;
// permanent failures return immediately. The staged file is removed on
// failure so no partial download survives.
func (e *Executor) fetchStaged(ctx context.Context, mod modinfo.LocalMod, artifactURL string, retries int) (*stagedArtifact, int64, error) {
	targetName := artifactName(artifactURL, mod)
	staged, err := newStagedArtifact(mod, targetName)
	if err != nil {
		return nil, 0, err
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				staged.discard()
				return nil, 0, ctx.Err()
			case <-time.After(e.retryDelay):
			}
			if err := staged.reset(); err != nil {
				staged.discard()
				return nil, 0, err
			}
		}

		verbose.FetchAttempt(artifactURL, attempt, retries)
		bytes, err := staged.download(ctx, e.client, artifactURL)
		if err == nil {
			return staged, bytes, nil
		}

		lastErr = err
		l := logging.Logger("execute")
		l.Warn().
			Str("mod", mod.ModID).
			Str("url", artifactURL).
			Int("attempt", attempt).
			Int("max", retries).
			Err(err).
			Msg("artifact fetch failed")
		if !errors.IsTransientFetch(err) {
			break
		}
	}

	staged.discard()
	return nil, 0, lastErr
}

// resolveURL turns a catalog download path into an absolute URL.
func (e *Executor) resolveURL(mainFile string) string {
	if strings.Contains(mainFile, "://") {
		return mainFile
	}
	return e.baseURL + "/" + strings.TrimLeft(mainFile, "/")
}

// classifyFetch maps a fetch error to the outcome's error kind.
func classifyFetch(err error) string {
	if errors.IsTransientFetch(err) {
		return errKindTransient
	}
	if errors.IsPermanentFetch(err) {
		return errKindPermanent
	}
	return errKindTransient
}

// artifactName derives the on-disk name for a downloaded artifact.
//
// The catalog encodes the canonical file name in the dl query parameter;
// when absent, the URL's basename is used, and as a last resort the
// installed artifact keeps its current name.
func artifactName(artifactURL string, mod modinfo.LocalMod) string {
	if parsed, err := url.Parse(artifactURL); err == nil {
		if dl := parsed.Query().Get("dl"); dl != "" {
			return path.Base(dl)
		}
		if base := path.Base(parsed.Path); base != "" && base != "." && base != "/" {
			return base
		}
	}
	return mod.FileName
}
