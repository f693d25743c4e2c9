package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruneval/modup/pkg/backup"
	"github.com/bruneval/modup/pkg/output"
	"github.com/bruneval/modup/pkg/testutil"
)

// resetBackupsFlags restores the backups command flags on cleanup.
func resetBackupsFlags(t *testing.T) {
	t.Helper()
	old := backupsOutputFlag
	t.Cleanup(func() { backupsOutputFlag = old })
	backupsOutputFlag = ""
}

// seedBackup writes one backup archive through the manager.
func seedBackup(t *testing.T, run *testRun, modID string) {
	t.Helper()

	artifact := testutil.WriteModZip(t, t.TempDir(), modID, modID, "1.0.0")
	manager := backup.NewManager(filepath.Join(run.ModsDir, "backups"))
	_, err := manager.Backup(modID, artifact)
	require.NoError(t, err)
}

// TestRunBackupsListEmpty tests listing with no archives.
//
// It verifies:
//   - A no-backups message names the backup directory
func TestRunBackupsListEmpty(t *testing.T) {
	run := setupTestRun(t)
	resetBackupsFlags(t)

	out := captureStdout(t, func() {
		err := runBackupsList(nil, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, out, "No backups in")
	assert.Contains(t, out, filepath.Join(run.ModsDir, "backups"))
}

// TestRunBackupsListTable tests the archive table.
//
// It verifies:
//   - Each archive appears with its mod and the total is printed
func TestRunBackupsListTable(t *testing.T) {
	run := setupTestRun(t)
	resetBackupsFlags(t)

	seedBackup(t, run, "carrycapacity")
	seedBackup(t, run, "hudclock")

	out := captureStdout(t, func() {
		err := runBackupsList(nil, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, out, "carrycapacity")
	assert.Contains(t, out, "hudclock")
	assert.Contains(t, out, "Total backups: 2")
}

// TestRunBackupsListJSON tests the structured archive list.
//
// It verifies:
//   - The document carries the directory, total, and per-archive records
func TestRunBackupsListJSON(t *testing.T) {
	run := setupTestRun(t)
	resetBackupsFlags(t)
	backupsOutputFlag = "json"

	seedBackup(t, run, "carrycapacity")

	out := captureStdout(t, func() {
		err := runBackupsList(nil, nil)
		assert.NoError(t, err)
	})

	var result output.BackupsResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, filepath.Join(run.ModsDir, "backups"), result.Summary.Directory)
	assert.Equal(t, 1, result.Summary.TotalBackups)
	require.Len(t, result.Backups, 1)
	assert.Equal(t, "carrycapacity", result.Backups[0].ModID)
	assert.NotZero(t, result.Backups[0].Size)
}

// TestRunBackupsPrune tests rotation down to the retention limit.
//
// It verifies:
//   - Older archives beyond max_backups are deleted per mod
//   - The removal count is reported
func TestRunBackupsPrune(t *testing.T) {
	run := setupTestRun(t)
	resetBackupsFlags(t)

	for i := 0; i < 3; i++ {
		seedBackup(t, run, "carrycapacity")
	}

	configPath := filepath.Join(t.TempDir(), ".modup.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("max_backups: 1\n"), 0o644))
	configFlag = configPath

	out := captureStdout(t, func() {
		err := runBackupsPrune(nil, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, out, "Pruned 2 backup(s), keeping up to 1 per mod.")

	remaining, err := backup.NewManager(filepath.Join(run.ModsDir, "backups")).ListAll()
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

// TestRunBackupsPruneUnlimited tests prune under unlimited retention.
//
// It verifies:
//   - An explicit max_backups of 0 deletes nothing
func TestRunBackupsPruneUnlimited(t *testing.T) {
	run := setupTestRun(t)
	resetBackupsFlags(t)

	seedBackup(t, run, "carrycapacity")
	seedBackup(t, run, "carrycapacity")

	configPath := filepath.Join(t.TempDir(), ".modup.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("max_backups: 0\n"), 0o644))
	configFlag = configPath

	out := captureStdout(t, func() {
		err := runBackupsPrune(nil, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, out, "Retention is unlimited (max_backups: 0), nothing to prune.")

	remaining, err := backup.NewManager(filepath.Join(run.ModsDir, "backups")).ListAll()
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}
