package testutil

import (
	"github.com/bruneval/modup/pkg/config"
)

// ConfigBuilder provides a fluent API for building test configurations.
//
// Use this builder to construct Config objects for testing purposes
// without needing to set all fields manually.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfig creates a new ConfigBuilder with empty values.
//
// The zero-value configuration is valid; accessor defaults apply to
// any field left unset.
//
// Returns:
//   - *ConfigBuilder: New builder instance ready for method chaining
func NewConfig() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithModsDir sets the mods directory for the configuration.
//
// Parameters:
//   - dir: Path to the mods directory
//
// Returns:
//   - *ConfigBuilder: Self for method chaining
func (b *ConfigBuilder) WithModsDir(dir string) *ConfigBuilder {
	b.cfg.ModsDir = dir
	return b
}

// WithBackupDir sets the backup directory for the configuration.
//
// Parameters:
//   - dir: Path to the backup directory
//
// Returns:
//   - *ConfigBuilder: Self for method chaining
func (b *ConfigBuilder) WithBackupDir(dir string) *ConfigBuilder {
	b.cfg.BackupDir = dir
	return b
}

// WithGameVersion pins the game version the run resolves against.
//
// Parameters:
//   - v: Game version string, or "latest" / "unconstrained"
//
// Returns:
//   - *ConfigBuilder: Self for method chaining
func (b *ConfigBuilder) WithGameVersion(v string) *ConfigBuilder {
	b.cfg.GameVersion = v
	return b
}

// WithChannel sets the release channel for the configuration.
//
// Parameters:
//   - channel: "stable" or "any"
//
// Returns:
//   - *ConfigBuilder: Self for method chaining
func (b *ConfigBuilder) WithChannel(channel string) *ConfigBuilder {
	b.cfg.Channel = channel
	return b
}

// WithExclusions sets the exclusion patterns for the configuration.
//
// Parameters:
//   - patterns: Glob patterns matched against mod identifiers
//
// Returns:
//   - *ConfigBuilder: Self for method chaining
func (b *ConfigBuilder) WithExclusions(patterns ...string) *ConfigBuilder {
	b.cfg.Exclusions = patterns
	return b
}

// WithMaxBackups sets the backup retention count.
//
// Parameters:
//   - n: Backups to keep per mod; 0 means unlimited
//
// Returns:
//   - *ConfigBuilder: Self for method chaining
func (b *ConfigBuilder) WithMaxBackups(n int) *ConfigBuilder {
	b.cfg.MaxBackups = &n
	return b
}

// WithMaxWorkers sets the concurrent worker count.
//
// Parameters:
//   - n: Number of concurrent workers
//
// Returns:
//   - *ConfigBuilder: Self for method chaining
func (b *ConfigBuilder) WithMaxWorkers(n int) *ConfigBuilder {
	b.cfg.MaxWorkers = n
	return b
}

// WithOnIncompatible sets the incompatibility behavior.
//
// Parameters:
//   - behavior: "ask", "abort", or "ignore"
//
// Returns:
//   - *ConfigBuilder: Self for method chaining
func (b *ConfigBuilder) WithOnIncompatible(behavior string) *ConfigBuilder {
	b.cfg.OnIncompatible = behavior
	return b
}

// WithCatalogURL overrides the catalog base URL.
//
// Parameters:
//   - url: Catalog base URL, typically a test server address
//
// Returns:
//   - *ConfigBuilder: Self for method chaining
func (b *ConfigBuilder) WithCatalogURL(url string) *ConfigBuilder {
	b.cfg.CatalogURL = url
	return b
}

// Build returns the built configuration.
//
// Returns a pointer to the constructed Config. The builder can be
// reused after calling Build.
//
// Returns:
//   - *config.Config: Pointer to the built configuration
func (b *ConfigBuilder) Build() *config.Config {
	return &b.cfg
}
