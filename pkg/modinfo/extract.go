package modinfo

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bruneval/modup/pkg/utils"
	"github.com/bruneval/modup/pkg/verbose"
)

// errNoManifest marks an artifact without a modinfo.json manifest.
var errNoManifest = errors.New("no modinfo.json manifest")

const (
	csVersionPattern     = `Version\s*=\s*"(?P<version>[^"]+)"`
	csSidePattern        = `Side\s*=\s*"(?P<side>[^"]+)"`
	csNamespacePattern   = `namespace\s+(?P<namespace>[A-Za-z0-9_]+)`
	csDescriptionPattern = `Description\s*=\s*"(?P<description>[^"]+)"`
)

// FromZip extracts mod metadata from a packed mod archive.
//
// It performs the following operations:
//   - Step 1: Opens the archive, rejecting files that are not valid zips
//   - Step 2: Locates modinfo.json, preferring the topmost entry
//   - Step 3: Parses the manifest and validates required fields
//
// Parameters:
//   - zipPath: Path of the mod archive
//
// Returns:
//   - *LocalMod: The extracted mod metadata
//   - error: If the archive is corrupt, has no manifest, or the manifest is unusable
func FromZip(zipPath string) (*LocalMod, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("not a valid zip file")
	}
	defer func() { _ = r.Close() }()

	entry := findManifestEntry(r.File)
	if entry == nil {
		return nil, errNoManifest
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", entry.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", entry.Name, err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	return modFromManifest(manifest, KindZip, zipPath)
}

// FromCS extracts mod metadata from a single C# source file.
//
// It performs the following operations:
//   - Step 1: Reads the source file
//   - Step 2: Extracts Version, Side, namespace, and Description via regex
//   - Step 3: Derives the mod identifier from the lowercased namespace
//
// Parameters:
//   - csPath: Path of the .cs file
//
// Returns:
//   - *LocalMod: The extracted mod metadata
//   - error: If the file cannot be read or lacks a version or namespace
func FromCS(csPath string) (*LocalMod, error) {
	content, err := os.ReadFile(csPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(csPath), err)
	}

	text := string(content)
	ver := csGroup(text, csVersionPattern, "version")
	side := csGroup(text, csSidePattern, "side")
	namespace := csGroup(text, csNamespacePattern, "namespace")
	description := csGroup(text, csDescriptionPattern, "description")

	if ver == "" || namespace == "" {
		return nil, fmt.Errorf("source file declares no Version or namespace")
	}

	modID := strings.ReplaceAll(strings.ToLower(namespace), " ", "")

	return &LocalMod{
		ModID:       modID,
		Name:        namespace,
		Version:     ver,
		Description: description,
		Side:        side,
		Kind:        KindCS,
		Path:        csPath,
		FileName:    filepath.Base(csPath),
	}, nil
}

// FromDir extracts mod metadata from an unpacked mod directory.
//
// It performs the following operations:
//   - Step 1: Looks for a modinfo.json at the directory's top level
//   - Step 2: Parses the manifest and validates required fields
//
// Directories without a manifest are not mods; callers skip them.
//
// Parameters:
//   - dirPath: Path of the mod directory
//
// Returns:
//   - *LocalMod: The extracted mod metadata
//   - error: errNoManifest when no manifest exists, otherwise parse errors
func FromDir(dirPath string) (*LocalMod, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mod directory: %w", err)
	}

	manifestName := ""
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), "modinfo.json") {
			manifestName = entry.Name()
			break
		}
	}
	if manifestName == "" {
		return nil, errNoManifest
	}

	data, err := os.ReadFile(filepath.Join(dirPath, manifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", manifestName, err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	return modFromManifest(manifest, KindDir, dirPath)
}

// findManifestEntry locates the modinfo.json entry of an archive.
//
// The root entry wins; otherwise the entry with the fewest path segments
// does. Entry name matching is case-insensitive.
//
// Parameters:
//   - files: The archive's file entries
//
// Returns:
//   - *zip.File: The manifest entry, or nil if none exists
func findManifestEntry(files []*zip.File) *zip.File {
	var best *zip.File
	bestDepth := -1

	for _, f := range files {
		name := filepath.ToSlash(f.Name)
		if !strings.EqualFold(path.Base(name), "modinfo.json") {
			continue
		}
		depth := strings.Count(name, "/")
		if bestDepth == -1 || depth < bestDepth {
			best = f
			bestDepth = depth
		}
	}

	return best
}

// modFromManifest builds a LocalMod from a parsed manifest.
//
// Parameters:
//   - m: The parsed manifest
//   - kind: The artifact kind the manifest came from
//   - artifactPath: Path of the artifact
//
// Returns:
//   - *LocalMod: The mod metadata
//   - error: If modid, name, or version is missing
func modFromManifest(m *Manifest, kind Kind, artifactPath string) (*LocalMod, error) {
	if m.ModID == "" || m.Name == "" || m.Version == "" {
		return nil, fmt.Errorf("modinfo.json is missing modid, name, or version")
	}

	if verbose.IsEnabled() {
		if normalized, err := m.Encode(); err == nil {
			verbose.Infof("Manifest for %s (repaired, key order preserved):\n%s", m.ModID, normalized)
		}
	}

	return &LocalMod{
		ModID:       m.ModID,
		Name:        m.Name,
		Version:     m.Version,
		Description: m.Description,
		Side:        m.Side,
		Kind:        kind,
		Path:        artifactPath,
		FileName:    filepath.Base(artifactPath),
	}, nil
}

// csGroup extracts one named group from source text, ignoring match failures.
func csGroup(text, pattern, group string) string {
	groups, err := utils.ExtractNamedGroups(pattern, text)
	if err != nil || groups == nil {
		return ""
	}
	return groups[group]
}
