package resolve

import (
	"runtime"
	"time"

	"github.com/bruneval/modup/pkg/constants"
	"github.com/bruneval/modup/pkg/version"
)

// MaxWorkerCap bounds the worker pool regardless of configuration.
const MaxWorkerCap = 10

const (
	defaultTimeoutSeconds = 10
	defaultRetries        = 3
)

// IncompatibilityBehavior selects what a run does with mods that have no
// release compatible with the target game version.
type IncompatibilityBehavior string

const (
	// BehaviorAsk surfaces incompatible mods for interactive confirmation.
	BehaviorAsk IncompatibilityBehavior = "ask"

	// BehaviorAbort fails the run before any download is attempted.
	BehaviorAbort IncompatibilityBehavior = "abort"

	// BehaviorIgnore proceeds and only logs the incompatibility.
	BehaviorIgnore IncompatibilityBehavior = "ignore"
)

// Policy carries the run-scoped decision flags. It is built once from the
// configuration and command line and never mutated during a run.
//
// Fields:
//   - Target: Effective target game version, zero when unconstrained
//   - Unconstrained: No game version constraint applies
//   - ExcludePreReleases: Drop pre-release candidates before resolution
//   - ForceUpdate: Re-fetch even when the installed version already matches
//   - DryRun: Resolve verdicts without accepting anything for execution
//   - Behavior: What to do with incompatible mods
//   - Exclusions: Mod identifiers and file names the run must not touch
//   - MaxWorkers: Requested worker pool size, clamped by Workers
//   - TimeoutSeconds: Per-fetch deadline in seconds
//   - Retries: Attempts per transient-failing fetch
type Policy struct {
	Target             version.Version
	Unconstrained      bool
	ExcludePreReleases bool
	ForceUpdate        bool
	DryRun             bool
	Behavior           IncompatibilityBehavior
	Exclusions         []string
	MaxWorkers         int
	TimeoutSeconds     int
	Retries            int
}

// Workers returns the effective worker pool size.
//
// A zero value falls back to the CPU count; the result is always clamped
// to the range 1..MaxWorkerCap.
//
// Returns:
//   - int: Worker count in the range 1..MaxWorkerCap
func (p Policy) Workers() int {
	workers := p.MaxWorkers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if workers > MaxWorkerCap {
		workers = MaxWorkerCap
	}
	return workers
}

// FetchTimeout returns the per-fetch deadline.
//
// Returns:
//   - time.Duration: Configured timeout, 10s when unset
func (p Policy) FetchTimeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// FetchRetries returns the attempt bound for transient fetch failures.
//
// Returns:
//   - int: Configured retries, 3 when unset
func (p Policy) FetchRetries() int {
	if p.Retries <= 0 {
		return defaultRetries
	}
	return p.Retries
}

// EffectiveBehavior returns the incompatibility behavior with the default
// applied.
//
// Returns:
//   - IncompatibilityBehavior: Configured behavior, BehaviorAsk when unset
func (p Policy) EffectiveBehavior() IncompatibilityBehavior {
	switch p.Behavior {
	case BehaviorAsk, BehaviorAbort, BehaviorIgnore:
		return p.Behavior
	default:
		return BehaviorAsk
	}
}

// TargetLabel returns the target game version for display.
//
// Returns:
//   - string: The target version, or the unconstrained placeholder
func (p Policy) TargetLabel() string {
	if p.Unconstrained || p.Target.IsZero() {
		return constants.PlaceholderUnconstrained
	}
	return p.Target.String()
}
