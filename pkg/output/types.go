package output

import "encoding/xml"

// ListResult represents the output data for the list command.
//
// Fields:
//   - XMLName: XML root element name (used only for XML marshaling)
//   - Summary: Aggregate statistics about the installed mods
//   - Mods: List of installed mod entries
//   - Warnings: Warning messages generated during the scan (omitted if empty)
type ListResult struct {
	XMLName  xml.Name    `json:"-" xml:"listResult"`
	Summary  ListSummary `json:"summary" xml:"summary"`
	Mods     []ListMod   `json:"mods" xml:"mods>mod"`
	Warnings []string    `json:"warnings,omitempty" xml:"warnings>warning,omitempty"`
}

// ListSummary holds summary statistics for list results.
//
// Fields:
//   - Directory: The mods directory that was scanned
//   - TotalMods: Total number of installed mods found
type ListSummary struct {
	Directory string `json:"directory" xml:"directory"`
	TotalMods int    `json:"total_mods" xml:"totalMods"`
}

// ListMod represents an installed mod entry in the list output.
//
// Fields:
//   - ModID: Mod identifier from the manifest
//   - Name: Human-readable mod name
//   - Version: Installed version
//   - Side: Which side the mod runs on (e.g., "client", "server", "universal")
//   - Kind: Artifact kind (e.g., "zip", "cs", "dir")
//   - File: File or directory name inside the mods directory
type ListMod struct {
	ModID   string `json:"modid" xml:"modid"`
	Name    string `json:"name" xml:"name"`
	Version string `json:"version" xml:"version"`
	Side    string `json:"side" xml:"side"`
	Kind    string `json:"kind" xml:"kind"`
	File    string `json:"file" xml:"file"`
}

// CheckResult represents the output data for the check command.
//
// Fields:
//   - XMLName: XML root element name (used only for XML marshaling)
//   - Summary: Aggregate statistics about the resolution
//   - Mods: List of mod entries with their resolved verdicts
//   - Warnings: Warning messages generated during resolution (omitted if empty)
type CheckResult struct {
	XMLName  xml.Name     `json:"-" xml:"checkResult"`
	Summary  CheckSummary `json:"summary" xml:"summary"`
	Mods     []CheckMod   `json:"mods" xml:"mods>mod"`
	Warnings []string     `json:"warnings,omitempty" xml:"warnings>warning,omitempty"`
}

// CheckSummary holds summary statistics for check results.
//
// Fields:
//   - GameVersion: The target game version the check resolved against
//   - TotalMods: Total number of mods checked
//   - Upgrades: Number of mods with an upgrade available
//   - Downgrades: Number of mods requiring a downgrade for the target
//   - UpToDate: Number of mods already at their resolved version
//   - Incompatible: Number of mods with no release for the target
//   - LocalOnly: Number of mods not listed in the catalog
//   - Excluded: Number of mods excluded by configuration
type CheckSummary struct {
	GameVersion  string `json:"game_version" xml:"gameVersion"`
	TotalMods    int    `json:"total_mods" xml:"totalMods"`
	Upgrades     int    `json:"upgrades" xml:"upgrades"`
	Downgrades   int    `json:"downgrades" xml:"downgrades"`
	UpToDate     int    `json:"uptodate" xml:"uptodate"`
	Incompatible int    `json:"incompatible" xml:"incompatible"`
	LocalOnly    int    `json:"local_only" xml:"localOnly"`
	Excluded     int    `json:"excluded" xml:"excluded"`
}

// CheckMod represents a mod entry in the check output.
//
// Fields:
//   - ModID: Mod identifier from the manifest
//   - Name: Human-readable mod name
//   - Installed: Installed version
//   - Available: Resolved candidate version (omitted when none)
//   - GameVersion: Game version the candidate requires (omitted when none)
//   - Verdict: Resolution verdict (e.g., "upgrade", "up-to-date", "incompatible")
//   - Reason: Explanation for non-actionable verdicts (omitted if empty)
type CheckMod struct {
	ModID       string `json:"modid" xml:"modid"`
	Name        string `json:"name" xml:"name"`
	Installed   string `json:"installed" xml:"installed"`
	Available   string `json:"available,omitempty" xml:"available,omitempty"`
	GameVersion string `json:"game_version,omitempty" xml:"gameVersion,omitempty"`
	Verdict     string `json:"verdict" xml:"verdict"`
	Reason      string `json:"reason,omitempty" xml:"reason,omitempty"`
}

// UpdateResult represents the output data for the update command.
//
// Fields:
//   - XMLName: XML root element name (used only for XML marshaling)
//   - Summary: Aggregate statistics about the update run
//   - Mods: List of mod entries with their outcomes
//   - Warnings: Warning messages generated during the run (omitted if empty)
//   - Errors: Error messages generated during the run (omitted if empty)
type UpdateResult struct {
	XMLName  xml.Name      `json:"-" xml:"updateResult"`
	Summary  UpdateSummary `json:"summary" xml:"summary"`
	Mods     []UpdateMod   `json:"mods" xml:"mods>mod"`
	Warnings []string      `json:"warnings,omitempty" xml:"warnings>warning,omitempty"`
	Errors   []string      `json:"errors,omitempty" xml:"errors>error,omitempty"`
}

// UpdateSummary holds summary statistics for update results.
//
// Fields:
//   - GameVersion: The target game version the run resolved against
//   - TotalMods: Total number of mods considered
//   - Applied: Number of mods successfully replaced
//   - Failed: Number of mods whose replacement failed
//   - Skipped: Number of mods left untouched
//   - BytesFetched: Total artifact bytes downloaded
//   - DryRun: Whether this was a dry-run (no files were changed)
type UpdateSummary struct {
	GameVersion  string `json:"game_version" xml:"gameVersion"`
	TotalMods    int    `json:"total_mods" xml:"totalMods"`
	Applied      int    `json:"applied" xml:"applied"`
	Failed       int    `json:"failed" xml:"failed"`
	Skipped      int    `json:"skipped" xml:"skipped"`
	BytesFetched int64  `json:"bytes_fetched" xml:"bytesFetched"`
	DryRun       bool   `json:"dry_run" xml:"dryRun"`
}

// UpdateMod represents a mod entry in the update output.
//
// Fields:
//   - ModID: Mod identifier from the manifest
//   - Name: Human-readable mod name
//   - OldVersion: Installed version before the run
//   - NewVersion: Version after the run (omitted when unchanged)
//   - Status: Outcome status (e.g., "applied", "failed", "skipped")
//   - Reason: Failure or skip explanation (omitted if empty)
type UpdateMod struct {
	ModID      string `json:"modid" xml:"modid"`
	Name       string `json:"name" xml:"name"`
	OldVersion string `json:"old_version" xml:"oldVersion"`
	NewVersion string `json:"new_version,omitempty" xml:"newVersion,omitempty"`
	Status     string `json:"status" xml:"status"`
	Reason     string `json:"reason,omitempty" xml:"reason,omitempty"`
}

// BackupsResult represents the output data for the backups command.
//
// Fields:
//   - XMLName: XML root element name (used only for XML marshaling)
//   - Summary: Aggregate statistics about the backup directory
//   - Backups: List of backup archive entries
type BackupsResult struct {
	XMLName xml.Name       `json:"-" xml:"backupsResult"`
	Summary BackupsSummary `json:"summary" xml:"summary"`
	Backups []BackupEntry  `json:"backups" xml:"backups>backup"`
}

// BackupsSummary holds summary statistics for backups results.
//
// Fields:
//   - Directory: The backup directory that was listed
//   - TotalBackups: Total number of backup archives found
type BackupsSummary struct {
	Directory    string `json:"directory" xml:"directory"`
	TotalBackups int    `json:"total_backups" xml:"totalBackups"`
}

// BackupEntry represents a backup archive in the backups output.
//
// Fields:
//   - ModID: Mod the archive was taken from
//   - File: Archive file name inside the backup directory
//   - Size: Archive size in bytes
//   - Created: Archive timestamp in RFC 3339 format
type BackupEntry struct {
	ModID   string `json:"modid" xml:"modid"`
	File    string `json:"file" xml:"file"`
	Size    int64  `json:"size" xml:"size"`
	Created string `json:"created" xml:"created"`
}
