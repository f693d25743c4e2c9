package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruneval/modup/pkg/modinfo"
	"github.com/bruneval/modup/pkg/output"
	"github.com/bruneval/modup/pkg/plan"
	"github.com/bruneval/modup/pkg/resolve"
	"github.com/bruneval/modup/pkg/testutil"
	"github.com/bruneval/modup/pkg/utils"
)

// TestRunCheckTable tests the check command's verdict table.
//
// It verifies:
//   - Each mod is reported under its resolved verdict
//   - The target game version and counts line are printed
func TestRunCheckTable(t *testing.T) {
	run := setupTestRun(t)
	resetCheckFlags(t)

	testutil.WriteModZip(t, run.ModsDir, "carrycapacity", "Carry Capacity", "1.0.0")
	testutil.WriteModZip(t, run.ModsDir, "hudclock", "HUD Clock", "3.4.0")
	testutil.WriteModZip(t, run.ModsDir, "homestead", "Homestead", "2.1.0")
	testutil.WriteModZip(t, run.ModsDir, "privaterelay", "Private Relay", "0.9.0")

	run.Catalog.AddListing("carrycapacity",
		testutil.StableRelease("1.0.0", "/files/carrycapacity_1.0.0.zip", "1.19.8"),
		testutil.StableRelease("1.2.0", "/files/carrycapacity_1.2.0.zip", "1.20.0"),
	)
	run.Catalog.AddListing("hudclock",
		testutil.StableRelease("3.4.0", "/files/hudclock_3.4.0.zip", "1.20.0"),
	)
	run.Catalog.AddListing("homestead",
		testutil.StableRelease("3.0.0", "/files/homestead_3.0.0.zip", "1.21.0"),
	)

	out := captureStdout(t, func() {
		err := runCheck(nil, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, out, "Target game version: 1.20.0")
	assert.Contains(t, out, "carrycapacity")
	assert.Contains(t, out, "upgrade")
	assert.Contains(t, out, "1.2.0")
	assert.Contains(t, out, "up-to-date")
	assert.Contains(t, out, "incompatible")
	assert.Contains(t, out, "local-only")
	assert.Contains(t, out, "Total mods: 4")
	assert.Contains(t, out, "1 upgrade")
	assert.Contains(t, out, "1 up-to-date")
}

// TestRunCheckExclusions tests that configured exclusions skip the catalog.
//
// It verifies:
//   - An excluded mod is reported without a catalog query
func TestRunCheckExclusions(t *testing.T) {
	run := setupTestRun(t)
	resetCheckFlags(t)

	testutil.WriteModZip(t, run.ModsDir, "chisel", "Chisel Tools", "1.0.4")

	configPath := filepath.Join(t.TempDir(), ".modup.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("exclusions:\n  - chisel\n"), 0o644))
	configFlag = configPath

	out := captureStdout(t, func() {
		err := runCheck(nil, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, out, "excluded")
	assert.Equal(t, 0, run.Catalog.QueryCount("chisel"))
}

// TestRunCheckExcludeFlag tests the --exclude flag.
//
// It verifies:
//   - Comma-separated patterns extend the configured exclusions
//   - Whitespace around patterns is ignored
func TestRunCheckExcludeFlag(t *testing.T) {
	run := setupTestRun(t)
	resetCheckFlags(t)
	checkExcludeFlag = " chisel , hudclock "

	testutil.WriteModZip(t, run.ModsDir, "chisel", "Chisel Tools", "1.0.4")
	testutil.WriteModZip(t, run.ModsDir, "hudclock", "HUD Clock", "2.1.0")

	out := captureStdout(t, func() {
		err := runCheck(nil, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, out, "2 excluded")
	assert.Equal(t, 0, run.Catalog.QueryCount("chisel"))
	assert.Equal(t, 0, run.Catalog.QueryCount("hudclock"))
}

// TestBuildCheckRowsReasonCap tests reason cell truncation.
//
// It verifies:
//   - A reason longer than the cap is shortened with an ellipsis
//   - The shortened cell fits within the capped width
func TestBuildCheckRowsReasonCap(t *testing.T) {
	longReason := strings.Repeat("requires a newer game version ", 4)
	p := &plan.Plan{Entries: []plan.Entry{{
		Mod:        modinfo.LocalMod{ModID: "homestead", Name: "Homestead"},
		Resolution: resolve.Resolution{Verdict: resolve.Incompatible, Reason: longReason},
	}}}

	rows, showReason := buildCheckRows(p)
	require.Len(t, rows, 1)
	assert.True(t, showReason)

	cell := rows[0].values[len(rows[0].values)-1]
	assert.True(t, strings.HasSuffix(cell, "..."))
	assert.LessOrEqual(t, utils.DisplayWidth(cell), maxReasonWidth)
}

// TestRunCheckJSON tests the check command's structured output.
//
// It verifies:
//   - The summary carries the verdict counts and target label
//   - Per-mod records include the available version
func TestRunCheckJSON(t *testing.T) {
	run := setupTestRun(t)
	resetCheckFlags(t)
	checkOutputFlag = "json"

	testutil.WriteModZip(t, run.ModsDir, "carrycapacity", "Carry Capacity", "1.0.0")
	run.Catalog.AddListing("carrycapacity",
		testutil.StableRelease("1.2.0", "/files/carrycapacity_1.2.0.zip", "1.20.0"),
	)

	out := captureStdout(t, func() {
		err := runCheck(nil, nil)
		assert.NoError(t, err)
	})

	var result output.CheckResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "1.20.0", result.Summary.GameVersion)
	assert.Equal(t, 1, result.Summary.TotalMods)
	assert.Equal(t, 1, result.Summary.Upgrades)
	require.Len(t, result.Mods, 1)
	assert.Equal(t, "carrycapacity", result.Mods[0].ModID)
	assert.Equal(t, "1.2.0", result.Mods[0].Available)
	assert.Equal(t, "upgrade", result.Mods[0].Verdict)
}

// TestRunCheckChangelog tests the --changelog flag.
//
// It verifies:
//   - Release notes for available upgrades are printed as plain text
//   - Mods without an upgrade contribute no changelog section
func TestRunCheckChangelog(t *testing.T) {
	run := setupTestRun(t)
	resetCheckFlags(t)
	checkChangelogFlag = true

	testutil.WriteModZip(t, run.ModsDir, "carrycapacity", "Carry Capacity", "1.0.0")
	testutil.WriteModZip(t, run.ModsDir, "hudclock", "HUD Clock", "3.4.0")

	upgrade := testutil.StableRelease("1.2.0", "/files/carrycapacity_1.2.0.zip", "1.20.0")
	upgrade.Changelog = "<p>Fixed crash when dropping baskets.</p>"
	run.Catalog.AddListing("carrycapacity", upgrade)

	current := testutil.StableRelease("3.4.0", "/files/hudclock_3.4.0.zip", "1.20.0")
	current.Changelog = "<p>Old notes.</p>"
	run.Catalog.AddListing("hudclock", current)

	out := captureStdout(t, func() {
		err := runCheck(nil, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, out, "Carry Capacity 1.2.0:")
	assert.Contains(t, out, "Fixed crash when dropping baskets.")
	assert.NotContains(t, out, "Old notes.")
}

// TestRunCheckIgnoresAbortConfig tests check under an abort configuration.
//
// It verifies:
//   - An incompatible mod never fails the check command
func TestRunCheckIgnoresAbortConfig(t *testing.T) {
	run := setupTestRun(t)
	resetCheckFlags(t)

	testutil.WriteModZip(t, run.ModsDir, "homestead", "Homestead", "2.1.0")
	run.Catalog.AddListing("homestead",
		testutil.StableRelease("3.0.0", "/files/homestead_3.0.0.zip", "1.21.0"),
	)

	configPath := filepath.Join(t.TempDir(), ".modup.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("on_incompatible: abort\n"), 0o644))
	configFlag = configPath

	out := captureStdout(t, func() {
		err := runCheck(nil, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, out, "incompatible")
}

// TestRunCheckGameVersionOverride tests the --game-version flag.
//
// It verifies:
//   - A concrete override replaces the catalog's platform version
//   - unconstrained drops the compatibility filter entirely
func TestRunCheckGameVersionOverride(t *testing.T) {
	run := setupTestRun(t)

	testutil.WriteModZip(t, run.ModsDir, "homestead", "Homestead", "2.1.0")
	run.Catalog.AddListing("homestead",
		testutil.StableRelease("3.0.0", "/files/homestead_3.0.0.zip", "1.21.0"),
	)

	t.Run("concrete version", func(t *testing.T) {
		resetCheckFlags(t)
		checkGameVersionFlag = "1.21.0"

		out := captureStdout(t, func() {
			err := runCheck(nil, nil)
			assert.NoError(t, err)
		})

		assert.Contains(t, out, "Target game version: 1.21.0")
		assert.Contains(t, out, "upgrade")
	})

	t.Run("unconstrained", func(t *testing.T) {
		resetCheckFlags(t)
		checkGameVersionFlag = "unconstrained"

		out := captureStdout(t, func() {
			err := runCheck(nil, nil)
			assert.NoError(t, err)
		})

		assert.Contains(t, out, "upgrade")
		assert.NotContains(t, out, "incompatible")
	})
}
