package execute

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bruneval/modup/pkg/catalog"
	"github.com/bruneval/modup/pkg/modinfo"
)

// tempPrefix marks in-flight downloads in the mods directory. A crashed
// run leaves temp_ files behind instead of corrupt live artifacts.
const tempPrefix = "temp_"

// stagedArtifact is a fully downloaded artifact waiting to supersede the
// installed one.
//
// The staged file lives next to the artifact it replaces so the final
// rename stays on one filesystem.
type stagedArtifact struct {
	path       string
	dir        string
	targetName string
}

// newStagedArtifact creates the empty staging file for a download.
func newStagedArtifact(mod modinfo.LocalMod, targetName string) (*stagedArtifact, error) {
	dir := filepath.Dir(mod.Path)
	staged := &stagedArtifact{
		path:       filepath.Join(dir, tempPrefix+targetName),
		dir:        dir,
		targetName: targetName,
	}
	f, err := os.Create(staged.path)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file %s: %w", staged.path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close staging file %s: %w", staged.path, err)
	}
	return staged, nil
}

// download streams the artifact into the staging file.
func (s *stagedArtifact) download(ctx context.Context, client catalog.Client, artifactURL string) (int64, error) {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to open staging file %s: %w", s.path, err)
	}

	bytes, fetchErr := client.FetchArtifact(ctx, artifactURL, f)
	if closeErr := f.Close(); fetchErr == nil {
		fetchErr = closeErr
	}
	return bytes, fetchErr
}

// reset truncates the staging file between fetch attempts.
func (s *stagedArtifact) reset() error {
	if err := os.Truncate(s.path, 0); err != nil {
		return fmt.Errorf("failed to reset staging file %s: %w", s.path, err)
	}
	return nil
}

// verify checks the staged content before it may supersede anything.
//
// Every artifact must be non-empty; zip artifacts must additionally open
// as archives, catching truncated and HTML-error-page downloads.
func (s *stagedArtifact) verify() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("failed to stat staged artifact: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("staged artifact %s is empty", s.targetName)
	}
	if strings.EqualFold(filepath.Ext(s.targetName), ".zip") {
		zr, err := zip.OpenReader(s.path)
		if err != nil {
			return fmt.Errorf("staged artifact %s is not a valid archive: %w", s.targetName, err)
		}
		_ = zr.Close()
	}
	return nil
}

// supersede atomically replaces the installed artifact with the staged one.
//
// File artifacts are renamed into place; when the catalog's canonical
// name differs from the installed one, the old file is removed only
// after the new one is live. Directory artifacts have their contents
// replaced while keeping the directory's own name, since external
// tooling keys off that name.
func (s *stagedArtifact) supersede(mod modinfo.LocalMod) error {
	if mod.Kind == modinfo.KindDir {
		return s.supersedeDir(mod)
	}

	finalPath := filepath.Join(s.dir, s.targetName)
	if err := os.Rename(s.path, finalPath); err != nil {
		return fmt.Errorf("failed to move staged artifact into place: %w", err)
	}
	if !sameFilePath(finalPath, mod.Path) {
		if err := os.Remove(mod.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("new artifact installed but old one could not be removed: %w", err)
		}
	}
	return nil
}

// supersedeDir replaces a directory mod's contents in place.
//
// The staged archive is extracted into a sibling temp directory first;
// the installed directory is moved aside and the extracted tree takes
// its name. Only after the new tree is live is the old one deleted, so
// a failure at any step leaves a complete tree under the mod's name.
func (s *stagedArtifact) supersedeDir(mod modinfo.LocalMod) error {
	extractDir := filepath.Join(s.dir, tempPrefix+strings.TrimSuffix(s.targetName, filepath.Ext(s.targetName))+".extract")
	if err := extractArchive(s.path, extractDir); err != nil {
		_ = os.RemoveAll(extractDir)
		return err
	}

	asideDir := mod.Path + ".replaced"
	if err := os.Rename(mod.Path, asideDir); err != nil {
		_ = os.RemoveAll(extractDir)
		return fmt.Errorf("failed to move old directory aside: %w", err)
	}
	if err := os.Rename(extractDir, mod.Path); err != nil {
		// Put the old tree back; the mod directory must never vanish.
		_ = os.Rename(asideDir, mod.Path)
		_ = os.RemoveAll(extractDir)
		return fmt.Errorf("failed to install new directory: %w", err)
	}
	_ = os.RemoveAll(asideDir)
	return nil
}

// discard removes the staging file if it still exists.
func (s *stagedArtifact) discard() {
	_ = os.Remove(s.path)
}

// extractArchive unpacks a zip archive into dstDir.
//
// A single shared top-level directory in the archive is stripped, so
// archives packed as name/contents and archives packed flat both land
// the same way.
func extractArchive(archivePath, dstDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open staged archive: %w", err)
	}
	defer zr.Close()

	strip := sharedRoot(zr.File)

	for _, f := range zr.File {
		name := f.Name
		if strip != "" {
			name = strings.TrimPrefix(name, strip)
			if name == "" {
				continue
			}
		}
		cleaned := filepath.Clean(filepath.FromSlash(name))
		if cleaned == "." || strings.HasPrefix(cleaned, "..") {
			return fmt.Errorf("archive entry %q escapes the target directory", f.Name)
		}
		target := filepath.Join(dstDir, cleaned)

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

// extractFile writes one archive entry to disk.
func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(out, rc)
	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	return copyErr
}

// sharedRoot returns the single top-level directory all entries share,
// with a trailing slash, or empty when entries are mixed at the root.
func sharedRoot(files []*zip.File) string {
	root := ""
	for _, f := range files {
		parts := strings.SplitN(f.Name, "/", 2)
		if len(parts) < 2 {
			return ""
		}
		switch root {
		case "":
			root = parts[0]
		case parts[0]:
		default:
			return ""
		}
	}
	if root == "" {
		return ""
	}
	return root + "/"
}

// sameFilePath compares two paths after cleaning.
func sameFilePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
