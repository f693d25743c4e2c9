package testutil

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteModZip creates a packed mod archive in dir and returns its path.
//
// The archive carries a modinfo.json manifest built from the given
// identity plus one dummy asset entry, matching the layout of real
// packed mods.
//
// Parameters:
//   - t: Testing instance for helper marking and assertions
//   - dir: Directory to create the archive in
//   - modID: Catalog identifier written to the manifest
//   - name: Display name written to the manifest
//   - version: Version string written to the manifest
//
// Returns:
//   - string: Path of the created archive (<modid>_<version>.zip)
func WriteModZip(t *testing.T, dir, modID, name, version string) string {
	t.Helper()

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.zip", modID, version))
	manifest := fmt.Sprintf(
		`{"modid": %q, "name": %q, "version": %q, "side": "universal"}`,
		modID, name, version,
	)

	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	entry, err := w.Create("modinfo.json")
	require.NoError(t, err)
	_, err = entry.Write([]byte(manifest))
	require.NoError(t, err)

	asset, err := w.Create("assets/blocks.json")
	require.NoError(t, err)
	_, err = asset.Write([]byte("{}"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

// WriteModDir creates an unpacked mod directory in dir and returns its path.
//
// Parameters:
//   - t: Testing instance for helper marking and assertions
//   - dir: Directory to create the mod directory in
//   - modID: Catalog identifier written to the manifest
//   - name: Display name written to the manifest
//   - version: Version string written to the manifest
//
// Returns:
//   - string: Path of the created mod directory
func WriteModDir(t *testing.T, dir, modID, name, version string) string {
	t.Helper()

	path := filepath.Join(dir, modID)
	require.NoError(t, os.MkdirAll(path, 0o755))

	manifest := fmt.Sprintf(
		`{"modid": %q, "name": %q, "version": %q, "side": "universal"}`,
		modID, name, version,
	)
	require.NoError(t, os.WriteFile(filepath.Join(path, "modinfo.json"), []byte(manifest), 0o644))
	return path
}

// WriteModCS creates a single-file C# source mod in dir and returns its path.
//
// Source mods carry their identity through the Version attribute and
// the namespace declaration; the mod identifier is the lowercased
// namespace, so modID must be a valid identifier.
//
// Parameters:
//   - t: Testing instance for helper marking and assertions
//   - dir: Directory to create the file in
//   - modID: Catalog identifier (also used as the file name and namespace)
//   - version: Version string written to the ModInfo attribute
//
// Returns:
//   - string: Path of the created source file
func WriteModCS(t *testing.T, dir, modID, version string) string {
	t.Helper()

	path := filepath.Join(dir, modID+".cs")
	content := fmt.Sprintf(
		"[assembly: ModInfo(%q, Version = %q, Side = \"universal\")]\nnamespace %s {}\n",
		modID, version, modID,
	)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ZipArtifact builds an in-memory mod archive suitable for catalog fakes.
//
// Parameters:
//   - t: Testing instance for helper marking and assertions
//   - modID: Catalog identifier written to the manifest
//   - version: Version string written to the manifest
//
// Returns:
//   - []byte: The archive content
func ZipArtifact(t *testing.T, modID, version string) []byte {
	t.Helper()

	dir := t.TempDir()
	path := WriteModZip(t, dir, modID, modID, version)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
