package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteListResult_JSON tests the behavior of WriteListResult with JSON format.
//
// It verifies:
//   - Produces valid JSON that round-trips
//   - Summary and mod entries survive the encoding
func TestWriteListResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	result := &ListResult{
		Summary: ListSummary{
			Directory: "/srv/game/Mods",
			TotalMods: 2,
		},
		Mods: []ListMod{
			{ModID: "carrycapacity", Name: "Carry Capacity", Version: "1.8.0", Side: "universal", Kind: "zip", File: "carrycapacity_1.8.0.zip"},
			{ModID: "medievalmap", Name: "Medieval Map", Version: "1.0.5", Side: "client", Kind: "dir", File: "medievalmap"},
		},
	}

	err := WriteListResult(&buf, FormatJSON, result)
	require.NoError(t, err)

	var parsed ListResult
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	assert.Equal(t, 2, parsed.Summary.TotalMods)
	require.Len(t, parsed.Mods, 2)
	assert.Equal(t, "carrycapacity", parsed.Mods[0].ModID)
	assert.Equal(t, "dir", parsed.Mods[1].Kind)
}

// TestWriteListResult_XML tests the behavior of WriteListResult with XML format.
//
// It verifies:
//   - Output carries the XML header and root element
//   - Mod entries are nested under mods
func TestWriteListResult_XML(t *testing.T) {
	var buf bytes.Buffer
	result := &ListResult{
		Summary: ListSummary{Directory: "/srv/game/Mods", TotalMods: 1},
		Mods: []ListMod{
			{ModID: "hudclock", Name: "HUD Clock", Version: "3.4.0", Side: "client", Kind: "zip", File: "hudclock_3.4.0.zip"},
		},
	}

	err := WriteListResult(&buf, FormatXML, result)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "<?xml version=")
	assert.Contains(t, output, "<listResult>")
	assert.Contains(t, output, "<modid>hudclock</modid>")
}

// TestWriteListResult_CSV tests the behavior of WriteListResult with CSV format.
//
// It verifies:
//   - Header row and data rows are emitted
func TestWriteListResult_CSV(t *testing.T) {
	var buf bytes.Buffer
	result := &ListResult{
		Mods: []ListMod{
			{ModID: "hudclock", Name: "HUD Clock", Version: "3.4.0", Side: "client", Kind: "zip", File: "hudclock_3.4.0.zip"},
		},
	}

	err := WriteListResult(&buf, FormatCSV, result)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "MODID,NAME,VERSION,SIDE,KIND,FILE", lines[0])
	assert.Contains(t, lines[1], "hudclock")
}

// TestWriteCheckResult_JSON tests the behavior of WriteCheckResult with JSON format.
//
// It verifies:
//   - Verdicts and summary counters round-trip
//   - Empty optional fields are omitted
func TestWriteCheckResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	result := &CheckResult{
		Summary: CheckSummary{
			GameVersion: "1.20.7",
			TotalMods:   3,
			Upgrades:    1,
			UpToDate:    1,
			LocalOnly:   1,
		},
		Mods: []CheckMod{
			{ModID: "chisel", Name: "Chisel Tools", Installed: "1.0.0", Available: "1.0.5", GameVersion: "1.20.7", Verdict: "upgrade"},
			{ModID: "hudclock", Name: "HUD Clock", Installed: "3.4.0", Available: "3.4.0", Verdict: "up-to-date"},
			{ModID: "homebrew", Name: "Homebrew Tweaks", Installed: "0.1.0", Verdict: "local-only", Reason: "not listed in the catalog"},
		},
	}

	err := WriteCheckResult(&buf, FormatJSON, result)
	require.NoError(t, err)

	var parsed CheckResult
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	assert.Equal(t, "1.20.7", parsed.Summary.GameVersion)
	assert.Equal(t, 1, parsed.Summary.Upgrades)
	require.Len(t, parsed.Mods, 3)
	assert.Equal(t, "upgrade", parsed.Mods[0].Verdict)
	assert.Equal(t, "not listed in the catalog", parsed.Mods[2].Reason)

	assert.NotContains(t, buf.String(), `"available":""`)
}

// TestWriteCheckResult_CSV tests the behavior of WriteCheckResult with CSV format.
//
// It verifies:
//   - One row per mod with verdict and reason columns
func TestWriteCheckResult_CSV(t *testing.T) {
	var buf bytes.Buffer
	result := &CheckResult{
		Mods: []CheckMod{
			{ModID: "chisel", Name: "Chisel Tools", Installed: "1.0.0", Available: "1.0.5", GameVersion: "1.20.7", Verdict: "upgrade"},
			{ModID: "worldedit", Name: "World Edit", Installed: "2.0.0", Verdict: "incompatible", Reason: "no release for game version 1.20.7"},
		},
	}

	err := WriteCheckResult(&buf, FormatCSV, result)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "MODID,NAME,INSTALLED,AVAILABLE,GAME VERSION,VERDICT,REASON", lines[0])
	assert.Contains(t, lines[2], "no release for game version 1.20.7")
}

// TestWriteUpdateResult_JSON tests the behavior of WriteUpdateResult with JSON format.
//
// It verifies:
//   - Outcome statuses and byte totals round-trip
//   - Warnings and errors are carried when present
func TestWriteUpdateResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	result := &UpdateResult{
		Summary: UpdateSummary{
			GameVersion:  "1.20.7",
			TotalMods:    2,
			Applied:      1,
			Failed:       1,
			BytesFetched: 204800,
		},
		Mods: []UpdateMod{
			{ModID: "chisel", Name: "Chisel Tools", OldVersion: "1.0.0", NewVersion: "1.0.5", Status: "applied"},
			{ModID: "worldedit", Name: "World Edit", OldVersion: "2.0.0", Status: "failed", Reason: "catalog unreachable"},
		},
		Warnings: []string{"backup rotation skipped for worldedit"},
		Errors:   []string{"worldedit: catalog unreachable"},
	}

	err := WriteUpdateResult(&buf, FormatJSON, result)
	require.NoError(t, err)

	var parsed UpdateResult
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	assert.Equal(t, 1, parsed.Summary.Applied)
	assert.Equal(t, int64(204800), parsed.Summary.BytesFetched)
	require.Len(t, parsed.Mods, 2)
	assert.Equal(t, "applied", parsed.Mods[0].Status)
	assert.Len(t, parsed.Warnings, 1)
	assert.Len(t, parsed.Errors, 1)
}

// TestWriteUpdateResult_XML tests the behavior of WriteUpdateResult with XML format.
//
// It verifies:
//   - Root element and nested mod entries are present
func TestWriteUpdateResult_XML(t *testing.T) {
	var buf bytes.Buffer
	result := &UpdateResult{
		Summary: UpdateSummary{TotalMods: 1, Applied: 1, DryRun: false},
		Mods: []UpdateMod{
			{ModID: "chisel", Name: "Chisel Tools", OldVersion: "1.0.0", NewVersion: "1.0.5", Status: "applied"},
		},
	}

	err := WriteUpdateResult(&buf, FormatXML, result)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "<updateResult>")
	assert.Contains(t, output, "<newVersion>1.0.5</newVersion>")
}

// TestWriteUpdateResult_CSV tests the behavior of WriteUpdateResult with CSV format.
//
// It verifies:
//   - One row per mod with status and reason columns
func TestWriteUpdateResult_CSV(t *testing.T) {
	var buf bytes.Buffer
	result := &UpdateResult{
		Mods: []UpdateMod{
			{ModID: "chisel", Name: "Chisel Tools", OldVersion: "1.0.0", NewVersion: "1.0.5", Status: "applied"},
		},
	}

	err := WriteUpdateResult(&buf, FormatCSV, result)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "MODID,NAME,OLD VERSION,NEW VERSION,STATUS,REASON", lines[0])
	assert.Contains(t, lines[1], "applied")
}

// TestWriteBackupsResult_JSON tests the behavior of WriteBackupsResult with JSON format.
//
// It verifies:
//   - Archive entries round-trip with sizes and timestamps
func TestWriteBackupsResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	result := &BackupsResult{
		Summary: BackupsSummary{Directory: "/srv/game/Mods/backups", TotalBackups: 1},
		Backups: []BackupEntry{
			{ModID: "chisel", File: "backup_chisel_20260830120000.zip", Size: 51200, Created: "2026-08-30T12:00:00Z"},
		},
	}

	err := WriteBackupsResult(&buf, FormatJSON, result)
	require.NoError(t, err)

	var parsed BackupsResult
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	assert.Equal(t, 1, parsed.Summary.TotalBackups)
	require.Len(t, parsed.Backups, 1)
	assert.Equal(t, int64(51200), parsed.Backups[0].Size)
}

// TestWriteBackupsResult_CSV tests the behavior of WriteBackupsResult with CSV format.
//
// It verifies:
//   - Sizes are rendered as decimal byte counts
func TestWriteBackupsResult_CSV(t *testing.T) {
	var buf bytes.Buffer
	result := &BackupsResult{
		Backups: []BackupEntry{
			{ModID: "chisel", File: "backup_chisel_20260830120000.zip", Size: 51200, Created: "2026-08-30T12:00:00Z"},
		},
	}

	err := WriteBackupsResult(&buf, FormatCSV, result)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "MODID,FILE,SIZE,CREATED", lines[0])
	assert.Contains(t, lines[1], "51200")
}

// TestWriteResult_UnsupportedFormat tests the writers with the table format.
//
// It verifies:
//   - Table format is rejected by every structured writer
func TestWriteResult_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer

	assert.Error(t, WriteListResult(&buf, FormatTable, &ListResult{}))
	assert.Error(t, WriteCheckResult(&buf, FormatTable, &CheckResult{}))
	assert.Error(t, WriteUpdateResult(&buf, FormatTable, &UpdateResult{}))
	assert.Error(t, WriteBackupsResult(&buf, FormatTable, &BackupsResult{}))
}
