package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bruneval/modup/pkg/backup"
	"github.com/bruneval/modup/pkg/display"
	"github.com/bruneval/modup/pkg/output"
	"github.com/bruneval/modup/pkg/verbose"
)

// CLI flags
var backupsOutputFlag string

// Testable function variables
var writeBackupsResultFunc = output.WriteBackupsResult

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Inspect and prune backup archives",
	Long:  `List the backup archives created before replacements, or prune them down to the configured retention.`,
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backup archives",
	Long:  `List every backup archive with its mod, size, and creation time.`,
	RunE:  runBackupsList,
}

var backupsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prune backup archives to the retention limit",
	Long:  `Delete the oldest archives of each mod until the configured max_backups remain.`,
	RunE:  runBackupsPrune,
}

func init() {
	backupsListCmd.Flags().StringVarP(&backupsOutputFlag, "output", "o", "", "Output format: json, csv, xml (default: table)")

	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsPruneCmd)
}

// runBackupsList executes the backups list command.
//
// Lists every archive under the backup directory, newest first within
// each mod, as a table or structured output.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Returns error on listing or output failure
func runBackupsList(cmd *cobra.Command, args []string) error {
	outputFormat := output.ParseFormat(backupsOutputFlag)
	if err := output.ValidateStructuredOutputFlags(outputFormat, verboseFlag); err != nil {
		return err
	}

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	manager := backup.NewManager(cfg.GetBackupDir())
	records, err := manager.ListAll()
	if err != nil {
		return err
	}

	if output.IsStructuredFormat(outputFormat) {
		return printBackupsStructuredOutput(manager.Dir(), records, outputFormat)
	}

	if len(records) == 0 {
		fmt.Printf("No backups in %s\n", manager.Dir())
		return nil
	}

	table := display.NewBackupsTable()
	for _, record := range records {
		table.UpdateWidths(record.ModID, filepath.Base(record.ArchivePath), strconv.FormatInt(record.Size, 10), record.Created.Format(time.RFC3339))
	}

	fmt.Println(table.HeaderRow())
	fmt.Println(table.SeparatorRow())
	for _, record := range records {
		fmt.Println(table.FormatRow(record.ModID, filepath.Base(record.ArchivePath), strconv.FormatInt(record.Size, 10), record.Created.Format(time.RFC3339)))
	}
	fmt.Printf("\nTotal backups: %d\n", len(records))
	return nil
}

// runBackupsPrune executes the backups prune command.
//
// Rotates every mod's archives down to the configured retention. A
// retention of 0 means unlimited, so nothing is deleted.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Returns error on listing or rotation failure
func runBackupsPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	maxBackups := cfg.GetMaxBackups()
	if maxBackups == 0 {
		fmt.Println("Retention is unlimited (max_backups: 0), nothing to prune.")
		return nil
	}

	manager := backup.NewManager(cfg.GetBackupDir())
	records, err := manager.ListAll()
	if err != nil {
		return err
	}

	modIDs := make(map[string]bool)
	for _, record := range records {
		modIDs[record.ModID] = true
	}
	sorted := make([]string, 0, len(modIDs))
	for modID := range modIDs {
		sorted = append(sorted, modID)
	}
	sort.Strings(sorted)

	removed := 0
	for _, modID := range sorted {
		n, err := manager.Rotate(modID, maxBackups)
		if err != nil {
			return fmt.Errorf("failed to prune backups for %s: %w", modID, err)
		}
		if n > 0 {
			verbose.Infof("Pruned %d backup(s) of %s", n, modID)
		}
		removed += n
	}

	fmt.Fprintf(os.Stdout, "Pruned %d backup(s), keeping up to %d per mod.\n", removed, maxBackups)
	return nil
}

// printBackupsStructuredOutput outputs the archive list in structured format.
//
// Parameters:
//   - dir: The backup directory
//   - records: Archives to output
//   - format: Output format (JSON, CSV, XML)
//
// Returns:
//   - error: Returns error on output failure
func printBackupsStructuredOutput(dir string, records []backup.Record, format output.Format) error {
	result := &output.BackupsResult{
		Summary: output.BackupsSummary{
			Directory:    dir,
			TotalBackups: len(records),
		},
	}
	for _, record := range records {
		result.Backups = append(result.Backups, output.BackupEntry{
			ModID:   record.ModID,
			File:    filepath.Base(record.ArchivePath),
			Size:    record.Size,
			Created: record.Created.Format(time.RFC3339),
		})
	}
	dst, closeDst, err := structuredDestination()
	if err != nil {
		return err
	}
	defer closeDst()
	return writeBackupsResultFunc(dst, format, result)
}
