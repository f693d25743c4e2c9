package verbose

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEnableDisable tests the behavior of Enable and Disable functions.
//
// It verifies:
//   - Disable sets enabled state to false
//   - Enable sets enabled state to true
//   - IsEnabled returns correct state
func TestEnableDisable(t *testing.T) {
	// Reset state
	Disable()
	assert.False(t, IsEnabled())

	Enable()
	assert.True(t, IsEnabled())

	Disable()
	assert.False(t, IsEnabled())
}

// TestSetWriter tests the behavior of SetWriter.
//
// It verifies:
//   - Writer can be set and messages are written to it
//   - nil writer parameter is ignored
//   - Verbose messages include [DEBUG] prefix
func TestSetWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	Enable()
	Printf("test message")
	Disable()

	assert.Contains(t, buf.String(), "[DEBUG] test message")

	// Test nil writer is ignored
	SetWriter(nil)
	buf.Reset()
	Enable()
	Printf("another message")
	Disable()
	assert.Contains(t, buf.String(), "[DEBUG] another message")
}

// TestPrintf tests the behavior of Printf.
//
// It verifies:
//   - No output when verbose is disabled
//   - Formatted output appears when verbose is enabled
//   - Format string and arguments are properly interpolated
func TestPrintf(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	Printf("should not appear")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	Printf("test %s %d", "arg", 42)
	Disable()

	assert.Contains(t, buf.String(), "[DEBUG] test arg 42")
}

// TestInfo tests the behavior of Info.
//
// It verifies:
//   - No output when verbose is disabled
//   - Message appears with [DEBUG] prefix when enabled
func TestInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	Info("should not appear")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	Info("info message")
	Disable()

	assert.Contains(t, buf.String(), "[DEBUG] info message")
}

// TestInfof tests the behavior of Infof.
//
// It verifies:
//   - No output when verbose is disabled
//   - Formatted message appears when enabled
func TestInfof(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	Infof("should not %s", "appear")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	Infof("info %s %d", "formatted", 123)
	Disable()

	assert.Contains(t, buf.String(), "[DEBUG] info formatted 123")
}

func TestWithDocRef(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	WithDocRef("config", "should not appear")
	assert.Empty(t, buf.String())

	// Known topic
	Enable()
	WithDocRef("config", "config issue")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] config issue")
	assert.Contains(t, output, "Configuration")
	assert.Contains(t, output, "docs/configuration.md")

	// Unknown topic - just prints message
	buf.Reset()
	Enable()
	WithDocRef("unknown-topic", "unknown topic message")
	output = buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] unknown topic message")
	assert.NotContains(t, output, "📖")
}

func TestWithDocRefAllTopics(t *testing.T) {
	topics := []string{"config", "exclusions", "backups", "target", "cli"}

	for _, topic := range topics {
		buf := &bytes.Buffer{}
		SetWriter(buf)
		Enable()
		WithDocRef(topic, "test message")
		Disable()

		assert.Contains(t, buf.String(), "[DEBUG] test message", "topic: %s", topic)
		assert.Contains(t, buf.String(), "📖", "topic: %s should have doc reference", topic)
	}
}

func TestConfigLoaded(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	ConfigLoaded("/path/to/.modup.yml")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	ConfigLoaded("/path/to/.modup.yml")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Config loaded: /path/to/.modup.yml")
}

func TestModScanned(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	ModScanned("carrycapacity.zip", "zip", "1.8.0")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	ModScanned("carrycapacity.zip", "zip", "1.8.0")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Scanned 'carrycapacity.zip' (zip): version 1.8.0")

	// Empty version is reported as unknown
	buf.Reset()
	Enable()
	ModScanned("mystery.zip", "zip", "")
	output = buf.String()
	Disable()

	assert.Contains(t, output, "version unknown")
}

func TestModFiltered(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	ModFiltered("carrycapacity", "excluded by user configuration")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	ModFiltered("carrycapacity", "excluded by user configuration")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Mod 'carrycapacity' filtered: excluded by user configuration")
}

func TestCatalogQuery(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	CatalogQuery("carrycapacity", 12)
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	CatalogQuery("carrycapacity", 12)
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Catalog: 'carrycapacity' has 12 releases")
}

func TestFetchAttempt(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	FetchAttempt("https://mods.example.com/files/carry_1.8.0.zip", 1, 3)
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	FetchAttempt("https://mods.example.com/files/carry_1.8.0.zip", 2, 3)
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Fetch attempt 2/3: https://mods.example.com/files/carry_1.8.0.zip")
}

func TestVersionSelected(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	VersionSelected("carrycapacity", "1.7.0", "1.8.0", "newest compatible release")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	VersionSelected("carrycapacity", "1.7.0", "1.8.0", "newest compatible release")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Version selected for 'carrycapacity': 1.7.0 → 1.8.0 (newest compatible release)")
}

func TestBackupCreated(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	// When disabled, no output
	Disable()
	BackupCreated("carrycapacity", "/backups/backup_carrycapacity_20260101120000.zip")
	assert.Empty(t, buf.String())

	// When enabled, output appears
	Enable()
	BackupCreated("carrycapacity", "/backups/backup_carrycapacity_20260101120000.zip")
	output := buf.String()
	Disable()

	assert.Contains(t, output, "[DEBUG] Backup for 'carrycapacity': /backups/backup_carrycapacity_20260101120000.zip")
}

func TestTruncate(t *testing.T) {
	// Short string - no truncation
	assert.Equal(t, "short", truncate("short", 10))

	// Exact length - no truncation
	assert.Equal(t, "exact", truncate("exact", 5))

	// Long string - truncated
	assert.Equal(t, "this is a l...", truncate("this is a long string", 14))

	// Very short maxLen
	assert.Equal(t, "...", truncate("test", 3))
}
