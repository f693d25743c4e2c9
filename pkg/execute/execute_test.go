package execute

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruneval/modup/pkg/backup"
	"github.com/bruneval/modup/pkg/catalog"
	"github.com/bruneval/modup/pkg/errors"
	"github.com/bruneval/modup/pkg/modinfo"
	"github.com/bruneval/modup/pkg/plan"
	"github.com/bruneval/modup/pkg/report"
	"github.com/bruneval/modup/pkg/resolve"
	"github.com/bruneval/modup/pkg/tracking"
	"github.com/bruneval/modup/pkg/version"
)

// fakeClient serves canned artifact bytes and scripted failures.
type fakeClient struct {
	mu        sync.Mutex
	artifacts map[string][]byte
	failures  map[string][]error
	attempts  map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		artifacts: make(map[string][]byte),
		failures:  make(map[string][]error),
		attempts:  make(map[string]int),
	}
}

func (c *fakeClient) FetchReleases(ctx context.Context, modID string) (*catalog.Listing, error) {
	return nil, &errors.ModNotFoundError{ModID: modID}
}

func (c *fakeClient) LatestStablePlatform(ctx context.Context) (version.Version, error) {
	return version.MustParse("1.20.7"), nil
}

func (c *fakeClient) FetchArtifact(ctx context.Context, artifactURL string, dst io.Writer) (int64, error) {
	c.mu.Lock()
	c.attempts[artifactURL]++
	var scripted error
	if queue := c.failures[artifactURL]; len(queue) > 0 {
		scripted = queue[0]
		c.failures[artifactURL] = queue[1:]
	}
	data := c.artifacts[artifactURL]
	c.mu.Unlock()

	if scripted != nil {
		return 0, scripted
	}
	n, err := dst.Write(data)
	return int64(n), err
}

func (c *fakeClient) attemptCount(artifactURL string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts[artifactURL]
}

// zipBytes builds an in-memory zip archive from entry name to content.
func zipBytes(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// acceptedEntry builds an accepted upgrade entry for a mod on disk.
func acceptedEntry(mod modinfo.LocalMod, newVersion, mainFile string) plan.Entry {
	release := catalog.Release{ModVersion: newVersion, MainFile: mainFile}
	return plan.Entry{
		Mod: mod,
		Resolution: resolve.Resolution{
			Verdict:       resolve.UpgradeAvailable,
			Chosen:        &release,
			ChosenVersion: version.MustParse(newVersion),
		},
		Accepted: true,
	}
}

// installZipMod writes a zip mod artifact into the mods directory.
func installZipMod(t *testing.T, modsDir, fileName string) modinfo.LocalMod {
	t.Helper()
	path := filepath.Join(modsDir, fileName)
	require.NoError(t, os.WriteFile(path, zipBytes(t, map[string]string{"modinfo.json": "{}"}), 0o644))
	id := fileName[:len(fileName)-len(filepath.Ext(fileName))]
	return modinfo.LocalMod{
		ModID:    id,
		Name:     id,
		Version:  "1.0.0",
		Kind:     modinfo.KindZip,
		Path:     path,
		FileName: fileName,
	}
}

// newTestExecutor wires an executor with fast retries against a temp
// backup directory.
func newTestExecutor(t *testing.T, client catalog.Client, maxBackups int) (*Executor, *backup.Manager) {
	t.Helper()
	backups := backup.NewManager(filepath.Join(t.TempDir(), "backups"))
	return NewExecutor(ExecutorOptions{
		Client:     client,
		Backups:    backups,
		BaseURL:    "https://catalog.test",
		MaxBackups: maxBackups,
		RetryDelay: time.Millisecond,
	}), backups
}

// testPolicy builds the execution policy used across these tests.
func testPolicy() resolve.Policy {
	return resolve.Policy{MaxWorkers: 10, Retries: 3}
}

// TestExecuteAppliesZipMod tests the happy path for a zip mod.
//
// It verifies:
//   - The new artifact lands under the catalog's canonical file name
//   - The previously installed file is gone
//   - A backup of the old artifact exists
//   - The outcome is applied with the byte count recorded
func TestExecuteAppliesZipMod(t *testing.T) {
	modsDir := t.TempDir()
	mod := installZipMod(t, modsDir, "carrycapacity_1.0.0.zip")

	payload := zipBytes(t, map[string]string{"modinfo.json": `{"version":"1.1.0"}`})
	client := newFakeClient()
	client.artifacts["https://catalog.test/files/123?dl=carrycapacity_1.1.0.zip"] = payload

	exec, backups := newTestExecutor(t, client, 0)
	p := &plan.Plan{
		Entries: []plan.Entry{acceptedEntry(mod, "1.1.0", "/files/123?dl=carrycapacity_1.1.0.zip")},
		Policy:  testPolicy(),
	}

	rep, err := exec.Execute(context.Background(), p, Callbacks{})
	require.NoError(t, err)

	outcomes := rep.Outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, report.ResultApplied, outcomes[0].Result)
	assert.Equal(t, int64(len(payload)), outcomes[0].Bytes)
	assert.Equal(t, "1.1.0", outcomes[0].NewVersion)

	assert.FileExists(t, filepath.Join(modsDir, "carrycapacity_1.1.0.zip"))
	assert.NoFileExists(t, mod.Path)

	records, err := backups.List(mod.ModID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// TestExecuteFailureIsolation tests partial-failure tolerance.
//
// It verifies:
//   - With 10 independent entries and one scripted permanent failure,
//     exactly 9 apply and 1 fails
//   - The failed mod's installed artifact is untouched
func TestExecuteFailureIsolation(t *testing.T) {
	modsDir := t.TempDir()
	client := newFakeClient()

	var entries []plan.Entry
	var failedMod modinfo.LocalMod
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("mod%02d.zip", i)
		mod := installZipMod(t, modsDir, name)
		url := fmt.Sprintf("/files/%d?dl=%s", i, name)
		full := "https://catalog.test" + url
		if i == 7 {
			client.failures[full] = []error{&errors.FetchError{URL: full, StatusCode: 404}}
			failedMod = mod
		} else {
			client.artifacts[full] = zipBytes(t, map[string]string{"modinfo.json": "{}"})
		}
		entries = append(entries, acceptedEntry(mod, "2.0.0", url))
	}

	exec, _ := newTestExecutor(t, client, 0)
	rep, err := exec.Execute(context.Background(), &plan.Plan{Entries: entries, Policy: testPolicy()}, Callbacks{})
	require.NoError(t, err)

	applied, failed, skipped := rep.Counts()
	assert.Equal(t, 9, applied)
	assert.Equal(t, 1, failed)
	assert.Zero(t, skipped)

	assert.FileExists(t, failedMod.Path)
}

// TestExecuteRetriesTransientFailures tests the bounded retry loop.
//
// It verifies:
//   - Two transient failures followed by success still apply the mod
//   - Exactly three fetch attempts were made
func TestExecuteRetriesTransientFailures(t *testing.T) {
	modsDir := t.TempDir()
	mod := installZipMod(t, modsDir, "flaky.zip")

	full := "https://catalog.test/files/flaky?dl=flaky.zip"
	client := newFakeClient()
	client.failures[full] = []error{
		&errors.FetchError{URL: full, StatusCode: 503, Transient: true},
		&errors.FetchError{URL: full, Transient: true, Err: fmt.Errorf("connection reset")},
	}
	client.artifacts[full] = zipBytes(t, map[string]string{"modinfo.json": "{}"})

	exec, _ := newTestExecutor(t, client, 0)
	p := &plan.Plan{Entries: []plan.Entry{acceptedEntry(mod, "1.1.0", "/files/flaky?dl=flaky.zip")}, Policy: testPolicy()}

	rep, err := exec.Execute(context.Background(), p, Callbacks{})
	require.NoError(t, err)

	outcomes := rep.Outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, report.ResultApplied, outcomes[0].Result)
	assert.Equal(t, 3, client.attemptCount(full))
}

// TestExecutePermanentFailureNotRetried tests the permanent classification.
//
// It verifies:
//   - A 4xx response is reported after a single attempt
//   - The outcome carries the permanent error kind and a reason
func TestExecutePermanentFailureNotRetried(t *testing.T) {
	modsDir := t.TempDir()
	mod := installZipMod(t, modsDir, "gone.zip")

	full := "https://catalog.test/files/gone?dl=gone.zip"
	client := newFakeClient()
	client.failures[full] = []error{&errors.FetchError{URL: full, StatusCode: 410}}

	exec, _ := newTestExecutor(t, client, 0)
	p := &plan.Plan{Entries: []plan.Entry{acceptedEntry(mod, "1.1.0", "/files/gone?dl=gone.zip")}, Policy: testPolicy()}

	rep, err := exec.Execute(context.Background(), p, Callbacks{})
	require.NoError(t, err)

	outcomes := rep.Outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, report.ResultFailed, outcomes[0].Result)
	assert.Equal(t, "permanent-fetch", outcomes[0].ErrorKind)
	assert.NotEmpty(t, outcomes[0].Reason)
	assert.Equal(t, 1, client.attemptCount(full))
	assert.FileExists(t, mod.Path)
}

// TestExecuteDirectoryModKeepsName tests directory replacement.
//
// It verifies:
//   - The mod directory keeps its on-disk name after the update
//   - The directory's contents come from the fetched archive
//   - An archive-internal root folder is stripped on extraction
func TestExecuteDirectoryModKeepsName(t *testing.T) {
	modsDir := t.TempDir()
	modDir := filepath.Join(modsDir, "fancysails")
	require.NoError(t, os.MkdirAll(modDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(modDir, "modinfo.json"), []byte(`{"version":"1.0.0"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(modDir, "old.txt"), []byte("old"), 0o644))

	mod := modinfo.LocalMod{
		ModID:    "fancysails",
		Name:     "fancysails",
		Version:  "1.0.0",
		Kind:     modinfo.KindDir,
		Path:     modDir,
		FileName: "fancysails",
	}

	full := "https://catalog.test/files/fs?dl=fancysails_1.1.0.zip"
	client := newFakeClient()
	client.artifacts[full] = zipBytes(t, map[string]string{
		"fancysails-1.1.0/modinfo.json": `{"version":"1.1.0"}`,
		"fancysails-1.1.0/new.txt":      "new",
	})

	exec, _ := newTestExecutor(t, client, 0)
	p := &plan.Plan{Entries: []plan.Entry{acceptedEntry(mod, "1.1.0", "/files/fs?dl=fancysails_1.1.0.zip")}, Policy: testPolicy()}

	rep, err := exec.Execute(context.Background(), p, Callbacks{})
	require.NoError(t, err)

	outcomes := rep.Outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, report.ResultApplied, outcomes[0].Result)

	assert.DirExists(t, modDir)
	assert.FileExists(t, filepath.Join(modDir, "new.txt"))
	assert.NoFileExists(t, filepath.Join(modDir, "old.txt"))

	data, err := os.ReadFile(filepath.Join(modDir, "modinfo.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "1.1.0")
}

// TestExecuteRejectsCorruptDownload tests staged verification.
//
// It verifies:
//   - A downloaded zip that does not open as an archive never becomes
//     the live artifact
//   - No temp_ staging file is left behind
func TestExecuteRejectsCorruptDownload(t *testing.T) {
	modsDir := t.TempDir()
	mod := installZipMod(t, modsDir, "corrupt.zip")

	full := "https://catalog.test/files/c?dl=corrupt.zip"
	client := newFakeClient()
	client.artifacts[full] = []byte("<html>error page</html>")

	exec, _ := newTestExecutor(t, client, 0)
	p := &plan.Plan{Entries: []plan.Entry{acceptedEntry(mod, "1.1.0", "/files/c?dl=corrupt.zip")}, Policy: testPolicy()}

	rep, err := exec.Execute(context.Background(), p, Callbacks{})
	require.NoError(t, err)

	outcomes := rep.Outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, report.ResultFailed, outcomes[0].Result)
	assert.Equal(t, "staging", outcomes[0].ErrorKind)

	entries, err := os.ReadDir(modsDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, len(e.Name()) > 5 && e.Name()[:5] == tempPrefix, "staging file left behind: %s", e.Name())
	}
	assert.FileExists(t, mod.Path)
}

// TestExecuteRotatesBackups tests retention wiring during execution.
//
// It verifies:
//   - With maxBackups=1, repeated updates of the same mod keep a single
//     backup archive
func TestExecuteRotatesBackups(t *testing.T) {
	modsDir := t.TempDir()

	full := "https://catalog.test/files/r?dl=rotating.zip"
	client := newFakeClient()
	client.artifacts[full] = zipBytes(t, map[string]string{"modinfo.json": "{}"})

	exec, backups := newTestExecutor(t, client, 1)

	for i := 0; i < 3; i++ {
		mod := installZipMod(t, modsDir, "rotating.zip")
		p := &plan.Plan{Entries: []plan.Entry{acceptedEntry(mod, "1.1.0", "/files/r?dl=rotating.zip")}, Policy: testPolicy()}
		_, err := exec.Execute(context.Background(), p, Callbacks{})
		require.NoError(t, err)
	}

	records, err := backups.List("rotating")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// TestExecuteTracksNormalizedTimestamps tests run-event tracking.
//
// It verifies:
//   - An applied mod whose artifact carried an out-of-range mtime is
//     grouped under the timestamp anomaly category
func TestExecuteTracksNormalizedTimestamps(t *testing.T) {
	modsDir := t.TempDir()
	mod := installZipMod(t, modsDir, "oddmod_1.0.0.zip")
	epoch := time.Unix(1, 0)
	require.NoError(t, os.Chtimes(mod.Path, epoch, epoch))

	full := "https://catalog.test/files/oddmod_1.1.0.zip"
	client := newFakeClient()
	client.artifacts[full] = zipBytes(t, map[string]string{"modinfo.json": `{"version":"1.1.0"}`})

	tracker := tracking.NewRunTracker()
	exec := NewExecutor(ExecutorOptions{
		Client:     client,
		Backups:    backup.NewManager(filepath.Join(t.TempDir(), "backups")),
		BaseURL:    "https://catalog.test",
		RetryDelay: time.Millisecond,
		Tracker:    tracker,
	})

	p := &plan.Plan{
		Entries: []plan.Entry{acceptedEntry(mod, "1.1.0", "/files/oddmod_1.1.0.zip")},
		Policy:  testPolicy(),
	}
	rep, err := exec.Execute(context.Background(), p, Callbacks{})
	require.NoError(t, err)
	require.Len(t, rep.Outcomes(), 1)
	assert.Equal(t, report.ResultApplied, rep.Outcomes()[0].Result)

	groups := tracker.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, tracking.CategoryTimestamp, groups[0].Category)
	assert.Equal(t, []string{mod.Name}, groups[0].Mods)
}
