// Package backup archives mod artifacts before they are replaced.
//
// Every destructive replacement is preceded by one archive per mod per
// run, named after the mod and the run timestamp. Rotation keeps the
// newest maxBackups archives per mod; a limit of 0 means unlimited
// retention, never "delete everything". Rotation for one mod never runs
// concurrently with another rotation for the same mod.
package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bruneval/modup/pkg/logging"
	"github.com/bruneval/modup/pkg/utils"
	"github.com/bruneval/modup/pkg/verbose"
	"github.com/bruneval/modup/pkg/warnings"
)

const archivePrefix = "backup_"

// timestampLayout names archives down to the second; same-second
// collisions get a numeric suffix.
const timestampLayout = "20060102150405"

// The zip format stores MS-DOS times, which cannot represent dates
// before 1980 or after 2107. Entries outside that range are normalized
// to zipEpoch instead of failing the archive.
var (
	zipEpoch   = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	zipHorizon = time.Date(2107, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// Record describes one archive created for a mod.
//
// Fields:
//   - ModID: Identifier the archive belongs to
//   - ArchivePath: Absolute path of the zip archive
//   - Created: Archive file modification time, used for rotation order
//   - Size: Archive size in bytes
//   - Normalized: Files whose timestamps were clamped while archiving;
//     always empty for records read back from disk
type Record struct {
	ModID       string
	ArchivePath string
	Created     time.Time
	Size        int64
	Normalized  []string
}

// Manager creates and rotates backup archives under one directory.
//
// Safe for concurrent use: archives for different mods are created and
// rotated independently, operations on the same mod serialize on a
// per-mod lock.
type Manager struct {
	dir string

	mu     sync.Mutex
	perMod map[string]*sync.Mutex
}

// NewManager creates a manager rooted at dir.
//
// The directory is created on first use, not here, so a dry-run never
// touches the filesystem.
//
// Parameters:
//   - dir: Directory all archives live in
//
// Returns:
//   - *Manager: Manager ready for use
func NewManager(dir string) *Manager {
	return &Manager{dir: dir, perMod: make(map[string]*sync.Mutex)}
}

// Dir returns the backup directory.
//
// Returns:
//   - string: The directory all archives live in
func (m *Manager) Dir() string {
	return m.dir
}

// Backup archives the current artifact of a mod.
//
// It performs the following operations:
//   - Creates the backup directory if missing
//   - Zips the artifact (a directory is zipped recursively, a file
//     becomes a single-entry archive)
//   - Normalizes file timestamps outside the archive format's range
//   - Picks a collision-free archive name for the run timestamp
//
// Parameters:
//   - modID: Identifier the archive is filed under
//   - artifactPath: File or directory to archive
//
// Returns:
//   - *Record: The created archive
//   - error: If the artifact cannot be read or the archive written
func (m *Manager) Backup(modID, artifactPath string) (*Record, error) {
	lock := m.lockFor(modID)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", m.dir, err)
	}

	info, err := os.Stat(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat artifact %s: %w", artifactPath, err)
	}

	archivePath, err := m.nextArchivePath(modID)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive %s: %w", archivePath, err)
	}

	zw := zip.NewWriter(out)
	var normalized []string
	if info.IsDir() {
		normalized, err = addDir(zw, artifactPath)
	} else {
		var clamped bool
		clamped, err = addFile(zw, artifactPath, filepath.Base(artifactPath), info)
		if clamped {
			normalized = append(normalized, artifactPath)
		}
	}
	if err == nil {
		err = zw.Close()
	} else {
		_ = zw.Close()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(archivePath)
		return nil, fmt.Errorf("failed to archive %s: %w", artifactPath, err)
	}

	archiveInfo, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive %s: %w", archivePath, err)
	}

	verbose.BackupCreated(modID, archivePath)
	l := logging.Logger("backup")
	l.Info().
		Str("mod", modID).
		Str("archive", archivePath).
		Int64("bytes", archiveInfo.Size()).
		Msg("backup created")

	return &Record{
		ModID:       modID,
		ArchivePath: archivePath,
		Created:     archiveInfo.ModTime(),
		Size:        archiveInfo.Size(),
		Normalized:  normalized,
	}, nil
}

// Rotate deletes the oldest archives of a mod beyond the retention limit.
//
// A maxBackups of 0 means unlimited retention: nothing is ever deleted.
// Negative limits are rejected by config validation before a manager
// sees them; Rotate treats them as unlimited as a safety net.
//
// Parameters:
//   - modID: Identifier whose archives are rotated
//   - maxBackups: Newest archives to keep, 0 for unlimited
//
// Returns:
//   - int: Number of archives deleted
//   - error: First deletion failure, remaining archives untouched
func (m *Manager) Rotate(modID string, maxBackups int) (int, error) {
	if maxBackups <= 0 {
		return 0, nil
	}

	lock := m.lockFor(modID)
	lock.Lock()
	defer lock.Unlock()

	records, err := m.list(modID)
	if err != nil {
		return 0, err
	}
	if len(records) <= maxBackups {
		return 0, nil
	}

	l := logging.Logger("backup")
	removed := 0
	for _, record := range records[:len(records)-maxBackups] {
		if err := os.Remove(record.ArchivePath); err != nil {
			return removed, fmt.Errorf("failed to rotate backup %s: %w", record.ArchivePath, err)
		}
		l.Debug().Str("mod", modID).Str("archive", record.ArchivePath).Msg("backup rotated out")
		removed++
	}
	return removed, nil
}

// List returns the archives of one mod, oldest first.
//
// Parameters:
//   - modID: Identifier whose archives are listed
//
// Returns:
//   - []Record: Archives ordered by creation time, oldest first
//   - error: If the backup directory cannot be read
func (m *Manager) List(modID string) ([]Record, error) {
	lock := m.lockFor(modID)
	lock.Lock()
	defer lock.Unlock()
	return m.list(modID)
}

// ListAll returns every archive in the backup directory, oldest first.
//
// Returns:
//   - []Record: All archives ordered by creation time
//   - error: If the backup directory cannot be read
func (m *Manager) ListAll() ([]Record, error) {
	return m.scan(func(string) bool { return true })
}

// list is List without the per-mod lock; callers hold it already.
func (m *Manager) list(modID string) ([]Record, error) {
	prefix := archivePrefix + utils.SanitizeName(modID) + "_"
	return m.scan(func(name string) bool {
		return strings.HasPrefix(name, prefix)
	})
}

// scan walks the backup directory for archives accepted by match.
func (m *Manager) scan(match func(name string) bool) ([]Record, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory %s: %w", m.dir, err)
	}

	var records []Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, archivePrefix) || !strings.EqualFold(filepath.Ext(name), ".zip") {
			continue
		}
		if !match(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		records = append(records, Record{
			ModID:       modIDFromArchive(name),
			ArchivePath: filepath.Join(m.dir, name),
			Created:     info.ModTime(),
			Size:        info.Size(),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Created.Equal(records[j].Created) {
			si := archiveSeq(filepath.Base(records[i].ArchivePath))
			sj := archiveSeq(filepath.Base(records[j].ArchivePath))
			if si != sj {
				return si < sj
			}
			return records[i].ArchivePath < records[j].ArchivePath
		}
		return records[i].Created.Before(records[j].Created)
	})
	return records, nil
}

// archiveSeq extracts the collision suffix from an archive name.
//
// "backup_x_TS.zip" is sequence 0 and "backup_x_TS.3.zip" is 3; within
// one timestamp second a higher sequence was created later, so creation
// order survives even when file times tie.
func archiveSeq(name string) int {
	base := name[:len(name)-len(filepath.Ext(name))]
	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// nextArchivePath picks a collision-free archive name for the run.
func (m *Manager) nextArchivePath(modID string) (string, error) {
	stem := archivePrefix + utils.SanitizeName(modID) + "_" + time.Now().Format(timestampLayout)
	path := filepath.Join(m.dir, stem+".zip")
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		} else if err != nil {
			return "", fmt.Errorf("failed to stat archive name %s: %w", path, err)
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s.%d.zip", stem, n))
	}
}

// lockFor returns the per-mod rotation lock, creating it on first use.
func (m *Manager) lockFor(modID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.perMod[modID]
	if !ok {
		lock = &sync.Mutex{}
		m.perMod[modID] = lock
	}
	return lock
}

// modIDFromArchive recovers the sanitized mod id from an archive name.
func modIDFromArchive(name string) string {
	trimmed := strings.TrimPrefix(name, archivePrefix)
	idx := strings.LastIndex(trimmed, "_")
	if idx <= 0 {
		return trimmed
	}
	return trimmed[:idx]
}

// addDir zips a directory recursively, rooted at its own name.
//
// Returns the files whose timestamps had to be clamped.
func addDir(zw *zip.Writer, dirPath string) ([]string, error) {
	root := filepath.Base(dirPath)
	var normalized []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dirPath, path)
		if err != nil {
			return err
		}
		clamped, err := addFile(zw, path, filepath.ToSlash(filepath.Join(root, rel)), info)
		if clamped {
			normalized = append(normalized, path)
		}
		return err
	})
	return normalized, err
}

// addFile writes one file into the archive under entryName.
//
// Reports whether the file's timestamp had to be clamped.
func addFile(zw *zip.Writer, path, entryName string, info os.FileInfo) (bool, error) {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return false, err
	}
	header.Name = entryName
	header.Method = zip.Deflate
	modified, clamped := normalizeTimestamp(path, header.Modified)
	header.Modified = modified

	w, err := zw.CreateHeader(header)
	if err != nil {
		return clamped, err
	}

	f, err := os.Open(path)
	if err != nil {
		return clamped, err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return clamped, err
}

// normalizeTimestamp clamps mtimes the archive format cannot store.
//
// Epoch-adjacent and far-future mtimes show up on mods unpacked by
// broken tooling; the archive must never fail because of them.
func normalizeTimestamp(path string, mtime time.Time) (time.Time, bool) {
	if mtime.Before(zipEpoch) || mtime.After(zipHorizon) {
		warnings.TimestampNormalized(path)
		l := logging.Logger("backup")
		l.Warn().Str("file", path).Time("mtime", mtime).Msg("timestamp outside archive range, normalized")
		return zipEpoch, true
	}
	return mtime, false
}
