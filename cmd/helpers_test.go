package cmd

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bruneval/modup/pkg/catalog"
	"github.com/bruneval/modup/pkg/config"
	"github.com/bruneval/modup/pkg/testutil"
)

// captureStdout captures stdout during fn and returns it as a string.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()

	return buf.String()
}

// testRun holds the fixture state for one command test.
type testRun struct {
	ModsDir string
	Catalog *testutil.FakeCatalog
}

// setupTestRun points the persistent flags at a temp mods directory and
// swaps the catalog client for an in-memory fake. All globals are
// restored on test cleanup.
func setupTestRun(t *testing.T) *testRun {
	t.Helper()

	modsDir := t.TempDir()
	fake := testutil.NewFakeCatalog()

	oldConfig := configFlag
	oldDir := dirFlag
	oldVerbose := verboseFlag
	oldOutputFile := outputFileFlag
	oldClient := newClientFunc
	t.Cleanup(func() {
		configFlag = oldConfig
		dirFlag = oldDir
		verboseFlag = oldVerbose
		outputFileFlag = oldOutputFile
		newClientFunc = oldClient
	})

	configFlag = ""
	dirFlag = modsDir
	verboseFlag = false
	outputFileFlag = ""
	newClientFunc = func(cfg *config.Config) catalog.Client { return fake }

	return &testRun{ModsDir: modsDir, Catalog: fake}
}

// resetListFlags restores the list command flags on cleanup.
func resetListFlags(t *testing.T) {
	t.Helper()
	old := listOutputFlag
	t.Cleanup(func() { listOutputFlag = old })
	listOutputFlag = ""
}

// resetCheckFlags restores the check command flags on cleanup.
func resetCheckFlags(t *testing.T) {
	t.Helper()
	oldOutput := checkOutputFlag
	oldGameVersion := checkGameVersionFlag
	oldChangelog := checkChangelogFlag
	oldExclude := checkExcludeFlag
	t.Cleanup(func() {
		checkOutputFlag = oldOutput
		checkGameVersionFlag = oldGameVersion
		checkChangelogFlag = oldChangelog
		checkExcludeFlag = oldExclude
	})
	checkOutputFlag = ""
	checkGameVersionFlag = ""
	checkChangelogFlag = false
	checkExcludeFlag = ""
}

// resetUpdateFlags restores the update command flags on cleanup.
func resetUpdateFlags(t *testing.T) {
	t.Helper()
	oldOutput := updateOutputFlag
	oldGameVersion := updateGameVersionFlag
	oldDryRun := updateDryRunFlag
	oldYes := updateYesFlag
	oldForce := updateForceFlag
	oldExclude := updateExcludeFlag
	t.Cleanup(func() {
		updateOutputFlag = oldOutput
		updateGameVersionFlag = oldGameVersion
		updateDryRunFlag = oldDryRun
		updateYesFlag = oldYes
		updateForceFlag = oldForce
		updateExcludeFlag = oldExclude
	})
	updateOutputFlag = ""
	updateGameVersionFlag = ""
	updateDryRunFlag = false
	updateYesFlag = false
	updateForceFlag = false
	updateExcludeFlag = ""
}

// artifactURL builds the absolute artifact URL the executor will resolve
// a catalog download path to.
func artifactURL(mainFile string) string {
	return catalog.DefaultBaseURL + mainFile
}

// writeJunkZip writes a zip archive without a modinfo.json manifest so
// scanning records it as invalid.
func writeJunkZip(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "junk.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create junk zip: %v", err)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	entry, err := zw.Create("readme.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := entry.Write([]byte("not a mod")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}

	return path
}
