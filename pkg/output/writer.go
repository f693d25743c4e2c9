package output

import (
	"fmt"
	"io"
	"strconv"
)

// WriteListResult writes list results in the specified format.
//
// It performs the following operations:
//   - Step 1: Creates a formatter for the requested format
//   - Step 2: Writes the list result using format-specific logic
//
// Parameters:
//   - w: Destination writer for the output
//   - format: Output format (FormatJSON, FormatXML, or FormatCSV)
//   - result: List result data to write
//
// Returns:
//   - error: When format is unsupported, returns an error; when write fails, returns the underlying error; otherwise returns nil
func WriteListResult(w io.Writer, format Format, result *ListResult) error {
	formatter := NewFormatter(format, w)

	switch format {
	case FormatJSON:
		return formatter.WriteJSON(result)
	case FormatXML:
		return formatter.WriteXML(result)
	case FormatCSV:
		return writeListCSV(formatter, result)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// writeListCSV writes list results in CSV format using the formatter.
//
// Parameters:
//   - f: The formatter instance to use for CSV writing
//   - result: List result data containing installed mod entries
//
// Returns:
//   - error: When CSV write fails; returns nil on success
func writeListCSV(f *Formatter, result *ListResult) error {
	headers := []string{"MODID", "NAME", "VERSION", "SIDE", "KIND", "FILE"}
	rows := make([][]string, 0, len(result.Mods))
	for _, mod := range result.Mods {
		rows = append(rows, []string{mod.ModID, mod.Name, mod.Version, mod.Side, mod.Kind, mod.File})
	}
	return f.WriteCSV(headers, rows)
}

// WriteCheckResult writes check results in the specified format.
//
// It performs the following operations:
//   - Step 1: Creates a formatter for the requested format
//   - Step 2: Writes the check result using format-specific logic
//
// Parameters:
//   - w: Destination writer for the output
//   - format: Output format (FormatJSON, FormatXML, or FormatCSV)
//   - result: Check result data to write
//
// Returns:
//   - error: When format is unsupported, returns an error; when write fails, returns the underlying error; otherwise returns nil
func WriteCheckResult(w io.Writer, format Format, result *CheckResult) error {
	formatter := NewFormatter(format, w)

	switch format {
	case FormatJSON:
		return formatter.WriteJSON(result)
	case FormatXML:
		return formatter.WriteXML(result)
	case FormatCSV:
		return writeCheckCSV(formatter, result)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// writeCheckCSV writes check results in CSV format using the formatter.
//
// Parameters:
//   - f: The formatter instance to use for CSV writing
//   - result: Check result data containing resolved verdicts
//
// Returns:
//   - error: When CSV write fails; returns nil on success
func writeCheckCSV(f *Formatter, result *CheckResult) error {
	headers := []string{"MODID", "NAME", "INSTALLED", "AVAILABLE", "GAME VERSION", "VERDICT", "REASON"}
	rows := make([][]string, 0, len(result.Mods))
	for _, mod := range result.Mods {
		rows = append(rows, []string{
			mod.ModID,
			mod.Name,
			mod.Installed,
			mod.Available,
			mod.GameVersion,
			mod.Verdict,
			mod.Reason,
		})
	}
	return f.WriteCSV(headers, rows)
}

// WriteUpdateResult writes update results in the specified format.
//
// It performs the following operations:
//   - Step 1: Creates a formatter for the requested format
//   - Step 2: Writes the update result using format-specific logic
//
// Parameters:
//   - w: Destination writer for the output
//   - format: Output format (FormatJSON, FormatXML, or FormatCSV)
//   - result: Update result data to write
//
// Returns:
//   - error: When format is unsupported, returns an error; when write fails, returns the underlying error; otherwise returns nil
func WriteUpdateResult(w io.Writer, format Format, result *UpdateResult) error {
	formatter := NewFormatter(format, w)

	switch format {
	case FormatJSON:
		return formatter.WriteJSON(result)
	case FormatXML:
		return formatter.WriteXML(result)
	case FormatCSV:
		return writeUpdateCSV(formatter, result)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// writeUpdateCSV writes update results in CSV format using the formatter.
//
// Parameters:
//   - f: The formatter instance to use for CSV writing
//   - result: Update result data containing outcome entries
//
// Returns:
//   - error: When CSV write fails; returns nil on success
func writeUpdateCSV(f *Formatter, result *UpdateResult) error {
	headers := []string{"MODID", "NAME", "OLD VERSION", "NEW VERSION", "STATUS", "REASON"}
	rows := make([][]string, 0, len(result.Mods))
	for _, mod := range result.Mods {
		rows = append(rows, []string{
			mod.ModID,
			mod.Name,
			mod.OldVersion,
			mod.NewVersion,
			mod.Status,
			mod.Reason,
		})
	}
	return f.WriteCSV(headers, rows)
}

// WriteBackupsResult writes backups results in the specified format.
//
// It performs the following operations:
//   - Step 1: Creates a formatter for the requested format
//   - Step 2: Writes the backups result using format-specific logic
//
// Parameters:
//   - w: Destination writer for the output
//   - format: Output format (FormatJSON, FormatXML, or FormatCSV)
//   - result: Backups result data to write
//
// Returns:
//   - error: When format is unsupported, returns an error; when write fails, returns the underlying error; otherwise returns nil
func WriteBackupsResult(w io.Writer, format Format, result *BackupsResult) error {
	formatter := NewFormatter(format, w)

	switch format {
	case FormatJSON:
		return formatter.WriteJSON(result)
	case FormatXML:
		return formatter.WriteXML(result)
	case FormatCSV:
		return writeBackupsCSV(formatter, result)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// writeBackupsCSV writes backups results in CSV format using the formatter.
//
// Parameters:
//   - f: The formatter instance to use for CSV writing
//   - result: Backups result data containing archive entries
//
// Returns:
//   - error: When CSV write fails; returns nil on success
func writeBackupsCSV(f *Formatter, result *BackupsResult) error {
	headers := []string{"MODID", "FILE", "SIZE", "CREATED"}
	rows := make([][]string, 0, len(result.Backups))
	for _, entry := range result.Backups {
		rows = append(rows, []string{
			entry.ModID,
			entry.File,
			strconv.FormatInt(entry.Size, 10),
			entry.Created,
		})
	}
	return f.WriteCSV(headers, rows)
}
