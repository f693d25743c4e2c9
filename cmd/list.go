package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bruneval/modup/pkg/display"
	"github.com/bruneval/modup/pkg/modinfo"
	"github.com/bruneval/modup/pkg/output"
	"github.com/bruneval/modup/pkg/verbose"
	"github.com/bruneval/modup/pkg/warnings"
)

// CLI flags
var listOutputFlag string

// Testable function variables
var scanModsFunc = modinfo.Scan
var writeListResultFunc = output.WriteListResult

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed mods",
	Long:  `Scan the mods directory and list every installed mod with its version, side, and artifact kind.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listOutputFlag, "output", "o", "", "Output format: json, csv, xml (default: table)")
}

// runList executes the list command to show the installed collection.
//
// It performs the following operations:
//   - Scans the mods directory without touching the catalog
//   - Records unusable artifacts as warnings
//   - Renders the collection as a table or structured output
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Returns error on scan or output failure
func runList(cmd *cobra.Command, args []string) error {
	outputFormat := output.ParseFormat(listOutputFlag)
	if err := output.ValidateStructuredOutputFlags(outputFormat, verboseFlag); err != nil {
		return err
	}

	collector := display.NewWarningCollector()
	restoreWarnings := warnings.SetWarningWriter(collector)
	defer restoreWarnings()

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	modsDir := cfg.GetModsDir()
	scanResult, err := scanModsFunc(modsDir)
	if err != nil {
		return err
	}
	reportInvalidMods(scanResult.Invalid)
	verbose.Infof("Scanned %s: %d mods, %d rejected", modsDir, len(scanResult.Mods), len(scanResult.Invalid))

	if output.IsStructuredFormat(outputFormat) {
		return printListStructuredOutput(modsDir, scanResult, collector.Messages(), outputFormat)
	}

	if len(scanResult.Mods) == 0 {
		display.PrintNoModsMessage(os.Stdout, "in "+modsDir)
		display.PrintWarnings(os.Stdout, collector.Messages())
		return nil
	}

	table := display.NewListTable()
	for _, mod := range scanResult.Mods {
		table.UpdateWidths(mod.ModID, mod.Name, display.SafeInstalledValue(mod.Version), mod.Side, string(mod.Kind), mod.FileName)
	}

	fmt.Println(table.HeaderRow())
	fmt.Println(table.SeparatorRow())
	for _, mod := range scanResult.Mods {
		fmt.Println(table.FormatRow(mod.ModID, mod.Name, display.SafeInstalledValue(mod.Version), mod.Side, string(mod.Kind), mod.FileName))
	}
	fmt.Printf("\nTotal mods: %d\n", len(scanResult.Mods))

	display.PrintWarnings(os.Stdout, collector.Messages())
	return nil
}

// printListStructuredOutput outputs the scanned collection in structured format.
//
// Parameters:
//   - modsDir: Directory the collection was scanned from
//   - scanResult: Scan result to output
//   - warningMessages: Warning messages to include
//   - format: Output format (JSON, CSV, XML)
//
// Returns:
//   - error: Returns error on output failure
func printListStructuredOutput(modsDir string, scanResult *modinfo.Result, warningMessages []string, format output.Format) error {
	result := &output.ListResult{
		Summary: output.ListSummary{
			Directory: modsDir,
			TotalMods: len(scanResult.Mods),
		},
		Warnings: warningMessages,
	}
	for _, mod := range scanResult.Mods {
		result.Mods = append(result.Mods, output.ListMod{
			ModID:   mod.ModID,
			Name:    mod.Name,
			Version: mod.Version,
			Side:    mod.Side,
			Kind:    string(mod.Kind),
			File:    mod.FileName,
		})
	}
	dst, closeDst, err := structuredDestination()
	if err != nil {
		return err
	}
	defer closeDst()
	return writeListResultFunc(dst, format, result)
}
