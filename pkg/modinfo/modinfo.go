// Package modinfo discovers installed mods and extracts their metadata.
//
// A mods directory is scanned non-recursively. Three artifact kinds are
// recognized: zip archives carrying a modinfo.json manifest, single .cs
// source files with metadata in code, and unpacked directories with a
// modinfo.json at their top level. Anything else is ignored; artifacts
// that look like mods but cannot be read are reported, never fatal.
package modinfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bruneval/modup/pkg/logging"
	"github.com/bruneval/modup/pkg/verbose"
)

// Kind identifies the artifact form of an installed mod.
type Kind string

const (
	// KindZip is a packed mod archive.
	KindZip Kind = "zip"

	// KindCS is a single C# source file mod.
	KindCS Kind = "cs"

	// KindDir is an unpacked mod directory.
	KindDir Kind = "dir"
)

// LocalMod describes one installed mod found in the mods directory.
//
// Fields:
//   - ModID: Catalog identifier extracted from the manifest or source
//   - Name: Human-readable mod name
//   - Version: Installed version string as written by the author
//   - Description: Short description, may be empty
//   - Side: Declared game side (client, server, universal), may be empty
//   - Kind: Artifact form (zip, cs, dir)
//   - Path: Absolute or scan-relative path of the artifact
//   - FileName: Base name of the artifact
type LocalMod struct {
	ModID       string
	Name        string
	Version     string
	Description string
	Side        string
	Kind        Kind
	Path        string
	FileName    string
}

// InvalidFile records an artifact that looked like a mod but was unusable.
//
// Fields:
//   - Name: Base name of the rejected file
//   - Reason: Why it was rejected
type InvalidFile struct {
	Name   string
	Reason string
}

// Result holds the outcome of scanning a mods directory.
//
// Fields:
//   - Mods: Valid mods sorted by name
//   - Invalid: Artifacts rejected during extraction
type Result struct {
	Mods    []LocalMod
	Invalid []InvalidFile
}

// Scan discovers mods in a directory.
//
// It performs the following operations:
//   - Lists the directory entries without descending into subdirectories
//   - Extracts metadata from zip, .cs, and directory artifacts
//   - Records unusable artifacts with the reason they were rejected
//   - Sorts valid mods by lowercase name
//
// Parameters:
//   - dir: The mods directory to scan
//
// Returns:
//   - *Result: Valid mods and rejected artifacts
//   - error: If the directory itself cannot be read
func Scan(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read mods directory %s: %w", dir, err)
	}

	l := logging.Logger("scan")
	result := &Result{}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(dir, name)

		var mod *LocalMod
		var extractErr error

		switch {
		case entry.IsDir():
			mod, extractErr = FromDir(path)
		case strings.EqualFold(filepath.Ext(name), ".zip"):
			mod, extractErr = FromZip(path)
		case strings.EqualFold(filepath.Ext(name), ".cs"):
			mod, extractErr = FromCS(path)
		default:
			continue
		}

		if extractErr != nil {
			if entry.IsDir() && errors.Is(extractErr, errNoManifest) {
				continue
			}
			verbose.ModFiltered(name, extractErr.Error())
			l.Warn().Str("file", name).Err(extractErr).Msg("artifact rejected")
			result.Invalid = append(result.Invalid, InvalidFile{Name: name, Reason: extractErr.Error()})
			continue
		}

		verbose.ModScanned(name, string(mod.Kind), mod.Version)
		l.Debug().Str("file", name).Str("modid", mod.ModID).Str("version", mod.Version).Msg("mod scanned")
		result.Mods = append(result.Mods, *mod)
	}

	sort.SliceStable(result.Mods, func(i, j int) bool {
		return strings.ToLower(result.Mods[i].Name) < strings.ToLower(result.Mods[j].Name)
	})

	l.Info().Int("mods", len(result.Mods)).Int("invalid", len(result.Invalid)).Str("dir", dir).Msg("scan completed")
	return result, nil
}
