// Package preflight validates the environment before a check or update run.
package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bruneval/modup/pkg/config"
	"github.com/bruneval/modup/pkg/errors"
	"github.com/bruneval/modup/pkg/verbose"
)

// ValidateEnvironment checks that a run can operate on the configured directories.
//
// It performs the following operations:
//   - Verifies the mods directory exists and is a readable directory
//   - Verifies the mods directory is writable (replacements happen in place)
//   - Verifies the backup directory exists or can be created
//
// Each failed check is recorded as a preflight validation error carrying
// the offending path and a resolution hint.
//
// Parameters:
//   - cfg: Configuration providing the mods and backup directories
//
// Returns:
//   - *errors.ValidationResult: Result containing any failed checks; never nil
func ValidateEnvironment(cfg *config.Config) *errors.ValidationResult {
	result := errors.NewValidationResult()

	modsDir := cfg.GetModsDir()
	verbose.Infof("Preflight: checking mods directory %s", modsDir)

	info, err := os.Stat(modsDir)
	switch {
	case os.IsNotExist(err):
		result.AddError(errors.NewPreflightValidationError(modsDir,
			"mods directory does not exist",
			"Point mods_dir at your game's Mods directory, or pass --dir."))
	case err != nil:
		result.AddError(errors.NewPreflightValidationError(modsDir,
			fmt.Sprintf("cannot access mods directory: %v", err), ""))
	case !info.IsDir():
		result.AddError(errors.NewPreflightValidationError(modsDir,
			"mods path is not a directory",
			"mods_dir must be the directory holding your installed mods."))
	default:
		if err := checkWritable(modsDir); err != nil {
			result.AddError(errors.NewPreflightValidationError(modsDir,
				"mods directory is not writable",
				"Replacements happen in place, so the mods directory must be writable."))
		}
	}

	backupDir := cfg.GetBackupDir()
	verbose.Infof("Preflight: checking backup directory %s", backupDir)

	if err := checkBackupDir(backupDir); err != nil {
		result.AddError(errors.NewPreflightValidationError(backupDir,
			err.Error(),
			"Backups are written before any mod is replaced; pick a writable backup_dir."))
	}

	verbose.Infof("Preflight: validation complete - %d errors", len(result.Errors))
	return result
}

// checkWritable checks a directory for write access by creating a temp file.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".modup-write-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// checkBackupDir verifies the backup directory exists or can be created.
//
// The directory itself is not created here; the backup manager creates it
// lazily on first use. Only the parent needs to be writable.
func checkBackupDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("backup path is not a directory")
		}
		return checkWritable(dir)
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access backup directory: %v", err)
	}

	parent := filepath.Dir(dir)
	parentInfo, err := os.Stat(parent)
	if err != nil {
		return fmt.Errorf("backup directory parent does not exist: %s", parent)
	}
	if !parentInfo.IsDir() {
		return fmt.Errorf("backup directory parent is not a directory: %s", parent)
	}
	return checkWritable(parent)
}
