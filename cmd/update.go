package cmd

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bruneval/modup/pkg/backup"
	"github.com/bruneval/modup/pkg/constants"
	"github.com/bruneval/modup/pkg/display"
	"github.com/bruneval/modup/pkg/errors"
	"github.com/bruneval/modup/pkg/execute"
	"github.com/bruneval/modup/pkg/output"
	"github.com/bruneval/modup/pkg/plan"
	"github.com/bruneval/modup/pkg/report"
	"github.com/bruneval/modup/pkg/resolve"
	"github.com/bruneval/modup/pkg/tracking"
	"github.com/bruneval/modup/pkg/utils"
	"github.com/bruneval/modup/pkg/verbose"
	"github.com/bruneval/modup/pkg/warnings"
)

// CLI flags
var (
	updateOutputFlag      string
	updateGameVersionFlag string
	updateDryRunFlag      bool
	updateYesFlag         bool
	updateForceFlag       bool
	updateExcludeFlag     string
)

// Testable function variables
var stdinReaderFunc = func() *bufio.Reader { return bufio.NewReader(os.Stdin) }
var writeUpdateResultFunc = output.WriteUpdateResult

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Apply compatible mod updates",
	Long:  `Plan updates against the catalog, back up every affected artifact, and replace it with the selected release.`,
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateOutputFlag, "output", "o", "", "Output format: json, csv, xml (default: table)")
	updateCmd.Flags().StringVar(&updateGameVersionFlag, "game-version", "", "Target game version (overrides config): latest, unconstrained, or a concrete version")
	updateCmd.Flags().BoolVar(&updateDryRunFlag, "dry-run", false, "Plan updates without writing files")
	updateCmd.Flags().BoolVarP(&updateYesFlag, "yes", "y", false, "Skip confirmation prompts")
	updateCmd.Flags().BoolVar(&updateForceFlag, "force", false, "Re-fetch mods that are already up to date")
	updateCmd.Flags().StringVar(&updateExcludeFlag, "exclude", "", "Comma-separated exclusion patterns added to the configured ones")
}

// runUpdate executes the update command to apply mod updates.
//
// It performs the following operations:
//   - Validates the environment and plans the run
//   - Confirms flagged and pending entries unless --yes or --dry-run
//   - Backs up and replaces each accepted artifact concurrently
//   - Reports per-mod outcomes and an aggregate summary
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Returns ExitError with appropriate code on failure
func runUpdate(cmd *cobra.Command, args []string) error {
	// Validate flag compatibility before proceeding
	outputFormat := output.ParseFormat(updateOutputFlag)
	if err := output.ValidateStructuredOutputFlags(outputFormat, verboseFlag); err != nil {
		return err
	}
	if err := output.ValidateUpdateStructuredFlags(outputFormat, updateYesFlag, updateDryRunFlag); err != nil {
		return err
	}

	collector := display.NewWarningCollector()
	restoreWarnings := warnings.SetWarningWriter(collector)
	defer restoreWarnings()

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	closeLog := setupRunLog(cfg)
	defer closeLog()

	if err := runPreflight(cfg); err != nil {
		return err
	}

	modsDir := cfg.GetModsDir()
	scanResult, err := scanModsFunc(modsDir)
	if err != nil {
		return err
	}
	reportInvalidMods(scanResult.Invalid)

	useStructuredOutput := output.IsStructuredFormat(outputFormat)

	if len(scanResult.Mods) == 0 {
		if useStructuredOutput {
			return printUpdateStructuredOutput(resolve.Policy{}, nil, collector.Messages(), nil, outputFormat)
		}
		display.PrintNoModsMessage(os.Stdout, "in "+modsDir)
		display.PrintWarnings(os.Stdout, collector.Messages())
		return nil
	}

	ctx := commandContext(cmd)
	client := newClientFunc(cfg)

	policy, err := buildPolicy(ctx, client, cfg, updateGameVersionFlag, updateDryRunFlag, updateForceFlag)
	if err != nil {
		return err
	}
	policy.Exclusions = append(policy.Exclusions, utils.TrimAndSplit(updateExcludeFlag, ",")...)

	tracker := tracking.NewRunTracker()
	progress := display.NewStderrProgress(len(scanResult.Mods), "Planning updates")
	progress.SetEnabled(!useStructuredOutput)

	p, err := plan.Build(ctx, scanResult.Mods, client, policy, plan.Options{
		Tracker: tracker,
		OnModPlanned: func(entry *plan.Entry, current, total int) {
			progress.SetCurrent(current)
		},
	})
	progress.Done()
	if err != nil {
		if errors.IsIncompatibilityAbort(err) {
			verbose.Infof("Exit code %d (failure): planning aborted on incompatibility", errors.ExitFailure)
			return errors.NewExitError(errors.ExitFailure, err)
		}
		return err
	}

	// Flagged entries wait on a per-mod answer. --yes covers the batch
	// confirmation only; it never opts into an incompatible release.
	if !updateDryRunFlag && !updateYesFlag && !useStructuredOutput {
		confirmFlaggedEntries(p)
	}

	if updateDryRunFlag {
		return printDryRun(p, policy, tracker, collector, outputFormat)
	}

	accepted := p.Accepted()
	if len(accepted) == 0 {
		if useStructuredOutput {
			return printUpdateStructuredOutput(policy, p, collector.Messages(), report.New(), outputFormat)
		}
		fmt.Println("All mods are up to date.")
		display.PrintWarnings(os.Stdout, collector.Messages())
		for _, msg := range tracker.Messages() {
			fmt.Println(msg)
		}
		return nil
	}

	if !useStructuredOutput && !confirmUpdate(len(accepted)) {
		return nil
	}

	table := buildUpdateTable(p)
	if !useStructuredOutput {
		fmt.Println(table.HeaderRow())
		fmt.Println(table.SeparatorRow())
	}

	executor := execute.NewExecutor(execute.ExecutorOptions{
		Client:     client,
		Backups:    backup.NewManager(cfg.GetBackupDir()),
		BaseURL:    cfg.CatalogURL,
		MaxBackups: cfg.GetMaxBackups(),
		Tracker:    tracker,
	})

	callbacks := execute.Callbacks{}
	if !useStructuredOutput {
		callbacks.OnOutcome = func(outcome report.Outcome, current, total int) {
			fmt.Println(formatOutcomeRow(table, outcome))
		}
	}

	rep, err := executor.Execute(ctx, p, callbacks)
	if err != nil {
		return err
	}

	if useStructuredOutput {
		if err := printUpdateStructuredOutput(policy, p, collector.Messages(), rep, outputFormat); err != nil {
			return err
		}
	} else {
		applied, failed, skipped := rep.Counts()
		display.PrintSummary(os.Stdout, display.Summary{
			Total:   len(rep.Outcomes()),
			Applied: applied,
			Failed:  failed,
			Skipped: skipped,
			Bytes:   rep.TotalBytes(),
		})
		display.PrintWarnings(os.Stdout, collector.Messages())
		for _, msg := range tracker.Messages() {
			fmt.Println(msg)
		}
		if failures := failureErrors(rep); len(failures) > 0 {
			fmt.Println()
			errors.PrintErrorWithHints(os.Stdout, failures, verboseFlag)
		}
	}

	return handleUpdateResult(rep)
}

// confirmFlaggedEntries asks the user about each incompatible entry.
//
// A confirmed entry becomes accepted; a declined one keeps its verdict
// and is skipped by the executor.
func confirmFlaggedEntries(p *plan.Plan) {
	for _, entry := range p.Flagged() {
		res := entry.Resolution
		fmt.Printf("\n%s %s is incompatible: %s\n", entry.Mod.Name, res.ChosenVersion.String(), res.Reason)
		if res.Chosen != nil {
			if text := res.Chosen.ChangelogText(); text != "" {
				fmt.Println(display.TruncateWithEllipsis(text, 200))
			}
		}
		fmt.Print("Update anyway? [y/N]: ")
		if readConfirmation() {
			entry.Accepted = true
		}
	}
}

// confirmUpdate prompts the user to confirm the update.
//
// Skips the prompt if the --yes flag is set. Reads user input from stdin.
//
// Parameters:
//   - pending: Number of mods pending update
//
// Returns:
//   - bool: True if user confirms or --yes flag is set
func confirmUpdate(pending int) bool {
	if updateYesFlag {
		fmt.Printf("\n%d mod(s) will be updated. Proceeding (--yes)...\n\n", pending)
		return true
	}

	fmt.Printf("\n%d mod(s) will be updated. Continue? [y/N]: ", pending)
	if !readConfirmation() {
		fmt.Println("Update cancelled.")
		return false
	}
	fmt.Println()
	return true
}

// readConfirmation reads one y/n answer from stdin.
//
// Returns:
//   - bool: true for "y" or "yes", false for anything else or no input
func readConfirmation() bool {
	reader := stdinReaderFunc()
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// buildUpdateTable builds the outcome table sized for the whole plan.
//
// Widths are computed up front from every entry so live rows line up
// regardless of completion order.
func buildUpdateTable(p *plan.Plan) *output.Table {
	reasons := make([]string, 0, len(p.Entries))
	for _, entry := range p.Entries {
		reasons = append(reasons, entry.Resolution.Reason)
	}
	table := display.NewUpdateTable(output.ShouldShowReasonColumn(reasons))

	for _, entry := range p.Entries {
		res := entry.Resolution
		target := constants.PlaceholderNA
		if res.Chosen != nil {
			target = res.ChosenVersion.String()
		}
		table.UpdateWidths(
			entry.Mod.ModID,
			entry.Mod.Name,
			display.SafeInstalledValue(entry.Mod.Version),
			target,
			display.FormatStatus(constants.StatusApplied),
			utils.TruncateToWidth(res.Reason, maxReasonWidth),
		)
	}
	return table
}

// formatOutcomeRow renders one execution outcome as a table row.
func formatOutcomeRow(table *output.Table, outcome report.Outcome) string {
	target := display.SafeTargetValue(outcome.NewVersion)
	return table.FormatRow(
		outcome.ModID,
		outcome.Name,
		display.SafeInstalledValue(outcome.OldVersion),
		target,
		display.FormatStatus(outcome.StatusString()),
		utils.TruncateToWidth(outcome.Reason, maxReasonWidth),
	)
}

// printDryRun reports what the run would do without touching anything.
//
// Actionable entries print with a planned status; nothing is accepted,
// downloaded, or backed up.
func printDryRun(p *plan.Plan, policy resolve.Policy, tracker *tracking.RunTracker, collector *display.WarningCollector, format output.Format) error {
	if output.IsStructuredFormat(format) {
		return printUpdateStructuredOutput(policy, p, collector.Messages(), nil, format)
	}

	table := buildUpdateTable(p)
	planned := 0

	fmt.Printf("Dry run - target game version: %s\n\n", policy.TargetLabel())
	fmt.Println(table.HeaderRow())
	fmt.Println(table.SeparatorRow())
	for _, entry := range p.Entries {
		fmt.Println(formatPlannedRow(table, entry))
		if entry.Resolution.Actionable() {
			planned++
		}
	}

	fmt.Printf("\nTotal mods: %d, %d planned\n", len(p.Entries), planned)
	display.PrintWarnings(os.Stdout, collector.Messages())
	for _, msg := range tracker.Messages() {
		fmt.Println(msg)
	}
	return nil
}

// formatPlannedRow renders one plan entry as a dry-run table row.
func formatPlannedRow(table *output.Table, entry plan.Entry) string {
	res := entry.Resolution
	target := constants.PlaceholderNA
	if res.Chosen != nil && res.Verdict != resolve.Incompatible {
		target = res.ChosenVersion.String()
	}

	status := plannedStatus(res.Verdict)
	return table.FormatRow(
		entry.Mod.ModID,
		entry.Mod.Name,
		display.SafeInstalledValue(entry.Mod.Version),
		target,
		display.FormatStatus(status),
		utils.TruncateToWidth(res.Reason, maxReasonWidth),
	)
}

// plannedStatus maps a verdict to the dry-run status column value.
func plannedStatus(v resolve.Verdict) string {
	switch v {
	case resolve.UpgradeAvailable, resolve.DowngradeRequired:
		return constants.StatusPlanned
	case resolve.UpToDate:
		return constants.StatusUpToDate
	case resolve.Incompatible:
		return constants.StatusIncompatible
	case resolve.Excluded:
		return constants.StatusExcluded
	default:
		return constants.StatusLocalOnly
	}
}

// printUpdateStructuredOutput outputs the run in structured format.
//
// Plan-only runs (dry run, nothing accepted) pass a nil or empty report;
// their mods list comes from the plan with planned statuses.
//
// Parameters:
//   - policy: The run policy, used for the target label
//   - p: The completed plan, nil when nothing was scanned
//   - warningMessages: Warning messages to include
//   - rep: Execution report, nil for plan-only runs
//   - format: Output format (JSON, CSV, XML)
//
// Returns:
//   - error: Returns error on output failure
func printUpdateStructuredOutput(policy resolve.Policy, p *plan.Plan, warningMessages []string, rep *report.Report, format output.Format) error {
	dst, closeDst, err := structuredDestination()
	if err != nil {
		return err
	}
	defer closeDst()

	result := &output.UpdateResult{Warnings: warningMessages}
	if p != nil {
		result.Summary.GameVersion = policy.TargetLabel()
		result.Summary.TotalMods = len(p.Entries)
	}

	if rep != nil {
		applied, failed, skipped := rep.Counts()
		result.Summary.Applied = applied
		result.Summary.Failed = failed
		result.Summary.Skipped = skipped
		result.Summary.BytesFetched = rep.TotalBytes()
		result.Errors = rep.FailureReasons()
		for _, outcome := range rep.Outcomes() {
			result.Mods = append(result.Mods, output.UpdateMod{
				ModID:      outcome.ModID,
				Name:       outcome.Name,
				OldVersion: outcome.OldVersion,
				NewVersion: outcome.NewVersion,
				Status:     outcome.StatusString(),
				Reason:     outcome.Reason,
			})
		}
		return writeUpdateResultFunc(dst, format, result)
	}

	// Dry run: the plan is the result.
	result.Summary.DryRun = true
	if p != nil {
		for _, entry := range p.Entries {
			res := entry.Resolution
			mod := output.UpdateMod{
				ModID:      entry.Mod.ModID,
				Name:       entry.Mod.Name,
				OldVersion: entry.Mod.Version,
				Status:     plannedStatus(res.Verdict),
				Reason:     res.Reason,
			}
			if res.Chosen != nil && res.Actionable() {
				mod.NewVersion = res.ChosenVersion.String()
			}
			result.Mods = append(result.Mods, mod)
		}
	}
	return writeUpdateResultFunc(dst, format, result)
}

// failureErrors converts failed outcomes to error values.
//
// The same errors feed the hint display and the exit-state mapping.
//
// Parameters:
//   - rep: Execution report
//
// Returns:
//   - []error: One error per failed outcome, nil when none failed
func failureErrors(rep *report.Report) []error {
	var errs []error
	for _, reason := range rep.FailureReasons() {
		errs = append(errs, stderrors.New(reason))
	}
	return errs
}

// handleUpdateResult maps the execution report to the process exit state.
//
// Parameters:
//   - rep: Execution report
//
// Returns:
//   - error: nil on full success, ExitError on any failures
func handleUpdateResult(rep *report.Report) error {
	applied, failed, _ := rep.Counts()
	if failed == 0 {
		verbose.Infof("Exit code %d (success): %d mods applied", errors.ExitSuccess, applied)
		return nil
	}

	errs := failureErrors(rep)

	if applied > 0 {
		verbose.Infof("Exit code %d (partial failure): %d applied, %d failed", errors.ExitPartialFailure, applied, failed)
		return errors.NewExitError(errors.ExitPartialFailure, errors.NewPartialSuccessError(applied, failed, errs))
	}

	verbose.Infof("Exit code %d (failure): %d mods failed", errors.ExitFailure, failed)
	return errors.NewExitError(errors.ExitFailure, stderrors.Join(errs...))
}
