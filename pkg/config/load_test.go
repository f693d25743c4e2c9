package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config file into dir and returns its path.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadConfigExplicitPath tests loading from an explicit path.
//
// It verifies:
//   - Settings from the file are applied
//   - The source path is recorded
func TestLoadConfigExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
mods_dir: /srv/game/Mods
game_version: 1.20.7
channel: any
max_workers: 6
exclusions:
  - carrycapacity
  - "mappack-*"
`)

	cfg, err := LoadConfig(path, "")
	require.NoError(t, err)

	assert.Equal(t, "/srv/game/Mods", cfg.GetModsDir())
	assert.Equal(t, "1.20.7", cfg.GetGameVersion())
	assert.Equal(t, ChannelAny, cfg.GetChannel())
	assert.Equal(t, 6, cfg.GetMaxWorkers())
	assert.Equal(t, []string{"carrycapacity", "mappack-*"}, cfg.Exclusions)
	assert.Equal(t, path, cfg.SourcePath())
}

// TestLoadConfigExplicitMissing tests a missing explicit path.
//
// It verifies:
//   - An explicit path that does not exist is an error, not a fallback
func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"), "")
	assert.Error(t, err)
}

// TestLoadConfigWorkDirSearch tests the working-directory lookup.
//
// It verifies:
//   - .modup.yml in the working directory is found without a flag
func TestLoadConfigWorkDirSearch(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "game_version: 1.19.8\n")

	cfg, err := LoadConfig("", dir)
	require.NoError(t, err)
	assert.Equal(t, "1.19.8", cfg.GetGameVersion())
}

// TestLoadConfigDefaultsWithoutFile tests the no-file case.
//
// It verifies:
//   - A missing config is not an error
//   - The built-in defaults apply
func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "latest", cfg.GetGameVersion())
	assert.Empty(t, cfg.SourcePath())
}

// TestLoadConfigUnknownKey tests strict decoding.
//
// It verifies:
//   - A typoed key is rejected instead of silently ignored
func TestLoadConfigUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "mod_dir: /srv/game/Mods\n")

	_, err := LoadConfig(path, "")
	assert.Error(t, err)
}

// TestLoadConfigInvalidValues tests validation on load.
//
// It verifies:
//   - A negative retention limit fails the load
func TestLoadConfigInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "max_backups: -1\n")

	_, err := LoadConfig(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_backups")
}

// TestWriteStarterConfig tests starter config creation.
//
// It verifies:
//   - The template is written and loads cleanly
//   - An existing file is never overwritten
func TestWriteStarterConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	require.NoError(t, WriteStarterConfig(path))
	_, err := LoadConfig(path, "")
	assert.NoError(t, err)

	assert.Error(t, WriteStarterConfig(path))
}

// TestRenderEffectiveConfig tests effective-config rendering.
//
// It verifies:
//   - Defaults are materialized in the output
func TestRenderEffectiveConfig(t *testing.T) {
	out, err := Render(&Config{ModsDir: "/srv/game/Mods"})
	require.NoError(t, err)

	assert.Contains(t, out, "mods_dir: /srv/game/Mods")
	assert.Contains(t, out, "game_version: latest")
	assert.Contains(t, out, "max_backups: 3")
	assert.Contains(t, out, "on_incompatible: ask")
}
