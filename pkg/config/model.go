package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/bruneval/modup/pkg/resolve"
	"github.com/bruneval/modup/pkg/utils"
)

// Default values applied by the accessor methods.
const (
	// DefaultMaxBackups keeps the three newest archives per mod.
	DefaultMaxBackups = 3

	// DefaultMaxWorkers bounds the worker pool when not configured.
	DefaultMaxWorkers = 4

	// DefaultTimeoutSeconds is the per-fetch deadline.
	DefaultTimeoutSeconds = 10

	// DefaultRetries is the attempt bound for transient fetch failures.
	DefaultRetries = 3

	// DefaultLogLevel is the run log file's level.
	DefaultLogLevel = "info"
)

// Channel selects which release channel mod candidates come from.
const (
	// ChannelStable drops pre-release candidates before resolution.
	ChannelStable = "stable"

	// ChannelAny considers pre-release candidates too.
	ChannelAny = "any"
)

// Config is the root configuration structure backing .modup.yml.
//
// The zero value is usable: every accessor method applies the documented
// default, so commands read configuration exclusively through accessors.
type Config struct {
	// ModsDir is the directory holding the installed mods.
	ModsDir string `yaml:"mods_dir,omitempty"`

	// BackupDir is where replacement backups are archived.
	// Defaults to <mods_dir>/backups.
	BackupDir string `yaml:"backup_dir,omitempty"`

	// CatalogURL overrides the mod database root, for mirrors and tests.
	CatalogURL string `yaml:"catalog_url,omitempty"`

	// GameVersion is the target game version: a concrete version,
	// "latest" (resolve the newest stable from the catalog, the default),
	// or "unconstrained".
	GameVersion string `yaml:"game_version,omitempty"`

	// Channel is "stable" (default) or "any"; stable drops pre-release
	// mod candidates.
	Channel string `yaml:"channel,omitempty"`

	// OnIncompatible is what a run does with mods that have no release
	// for the target game version: ask (default), abort, or ignore.
	OnIncompatible string `yaml:"on_incompatible,omitempty"`

	// Exclusions lists mods the run must never touch, by file name or
	// mod id, with glob support.
	Exclusions []string `yaml:"exclusions,omitempty"`

	// MaxBackups is how many backup generations to keep per mod.
	// 0 means unlimited retention; nil applies the default of 3.
	MaxBackups *int `yaml:"max_backups,omitempty"`

	// MaxWorkers bounds the worker pool, clamped to 1..10.
	MaxWorkers int `yaml:"max_workers,omitempty"`

	// TimeoutSeconds is the per-fetch deadline in seconds.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// Retries is the attempt bound for transient fetch failures.
	Retries int `yaml:"retries,omitempty"`

	// LogDir is where per-run log files are written.
	// Defaults to the platform state directory.
	LogDir string `yaml:"log_dir,omitempty"`

	// LogLevel is the run log level: trace, debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// sourcePath remembers which file the config was loaded from.
	// Empty for the built-in defaults. Not persisted to YAML.
	sourcePath string `yaml:"-"`
}

// SourcePath returns the file the config was loaded from.
//
// Returns:
//   - string: The config file path, empty for built-in defaults
func (c *Config) SourcePath() string {
	return c.sourcePath
}

// GetModsDir returns the mods directory with the platform default applied.
//
// The default follows the game's data layout under the XDG config home,
// which is where the game installs mods on every supported platform.
//
// Returns:
//   - string: Configured mods directory, or the platform default
func (c *Config) GetModsDir() string {
	if c.ModsDir != "" {
		return utils.NormalizePath(c.ModsDir)
	}
	return filepath.Join(xdg.ConfigHome, "VintagestoryData", "Mods")
}

// GetBackupDir returns the backup directory.
//
// Returns:
//   - string: Configured backup directory, or <mods_dir>/backups
func (c *Config) GetBackupDir() string {
	if c.BackupDir != "" {
		return utils.NormalizePath(c.BackupDir)
	}
	return filepath.Join(c.GetModsDir(), "backups")
}

// GetGameVersion returns the target game version setting.
//
// Returns:
//   - string: Configured value, "latest" when unset
func (c *Config) GetGameVersion() string {
	if strings.TrimSpace(c.GameVersion) == "" {
		return "latest"
	}
	return strings.TrimSpace(c.GameVersion)
}

// GetChannel returns the release channel with the default applied.
//
// Returns:
//   - string: ChannelStable or ChannelAny
func (c *Config) GetChannel() string {
	if strings.EqualFold(strings.TrimSpace(c.Channel), ChannelAny) {
		return ChannelAny
	}
	return ChannelStable
}

// ExcludePreReleases reports whether pre-release candidates are dropped.
//
// Returns:
//   - bool: true on the stable channel
func (c *Config) ExcludePreReleases() bool {
	return c.GetChannel() == ChannelStable
}

// GetOnIncompatible returns the incompatibility behavior.
//
// Returns:
//   - resolve.IncompatibilityBehavior: Configured behavior, ask when
//     unset or unrecognized
func (c *Config) GetOnIncompatible() resolve.IncompatibilityBehavior {
	switch strings.ToLower(strings.TrimSpace(c.OnIncompatible)) {
	case string(resolve.BehaviorAbort):
		return resolve.BehaviorAbort
	case string(resolve.BehaviorIgnore):
		return resolve.BehaviorIgnore
	default:
		return resolve.BehaviorAsk
	}
}

// GetMaxBackups returns the retention limit with the default applied.
//
// An explicit 0 means unlimited retention and is preserved; only an
// absent setting falls back to the default.
//
// Returns:
//   - int: Configured limit, DefaultMaxBackups when unset
func (c *Config) GetMaxBackups() int {
	if c.MaxBackups == nil {
		return DefaultMaxBackups
	}
	return *c.MaxBackups
}

// GetMaxWorkers returns the worker pool size, clamped to 1..10.
//
// Returns:
//   - int: Effective worker count
func (c *Config) GetMaxWorkers() int {
	workers := c.MaxWorkers
	if workers == 0 {
		workers = DefaultMaxWorkers
	}
	if workers < 1 {
		workers = 1
	}
	if workers > resolve.MaxWorkerCap {
		workers = resolve.MaxWorkerCap
	}
	return workers
}

// GetTimeoutSeconds returns the per-fetch deadline in seconds.
//
// Returns:
//   - int: Configured timeout, DefaultTimeoutSeconds when unset
func (c *Config) GetTimeoutSeconds() int {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds
	}
	return c.TimeoutSeconds
}

// GetRetries returns the transient-failure attempt bound.
//
// Returns:
//   - int: Configured retries, DefaultRetries when unset
func (c *Config) GetRetries() int {
	if c.Retries <= 0 {
		return DefaultRetries
	}
	return c.Retries
}

// GetLogDir returns the log directory with the platform default applied.
//
// Returns:
//   - string: Configured log directory, or the XDG state directory
func (c *Config) GetLogDir() string {
	if c.LogDir != "" {
		return c.LogDir
	}
	return filepath.Join(xdg.StateHome, "modup", "logs")
}

// GetLogLevel returns the run log level.
//
// Returns:
//   - string: Configured level, DefaultLogLevel when unset
func (c *Config) GetLogLevel() string {
	if strings.TrimSpace(c.LogLevel) == "" {
		return DefaultLogLevel
	}
	return strings.ToLower(strings.TrimSpace(c.LogLevel))
}
