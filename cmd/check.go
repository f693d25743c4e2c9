package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bruneval/modup/pkg/constants"
	"github.com/bruneval/modup/pkg/display"
	"github.com/bruneval/modup/pkg/output"
	"github.com/bruneval/modup/pkg/plan"
	"github.com/bruneval/modup/pkg/resolve"
	"github.com/bruneval/modup/pkg/tracking"
	"github.com/bruneval/modup/pkg/utils"
	"github.com/bruneval/modup/pkg/warnings"
)

// CLI flags
var (
	checkOutputFlag      string
	checkGameVersionFlag string
	checkChangelogFlag   bool
	checkExcludeFlag     string
)

// maxReasonWidth caps the reason cell so one long message cannot
// stretch the whole table.
const maxReasonWidth = 60

// Testable function variables
var writeCheckResultFunc = output.WriteCheckResult

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the catalog for compatible updates",
	Long:  `Resolve every installed mod against the catalog and report its verdict without changing anything.`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkOutputFlag, "output", "o", "", "Output format: json, csv, xml (default: table)")
	checkCmd.Flags().StringVar(&checkGameVersionFlag, "game-version", "", "Target game version (overrides config): latest, unconstrained, or a concrete version")
	checkCmd.Flags().BoolVar(&checkChangelogFlag, "changelog", false, "Show changelog excerpts for available upgrades")
	checkCmd.Flags().StringVar(&checkExcludeFlag, "exclude", "", "Comma-separated exclusion patterns added to the configured ones")
}

// runCheck executes the check command to report verdicts.
//
// It performs the following operations:
//   - Scans the mods directory and resolves the target game version
//   - Plans the run without accepting anything for execution
//   - Renders a verdict table or structured output
//
// Check is an information command: updates being available is not a
// failure, so a completed run always exits 0.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Returns error on scan, catalog, or output failure
func runCheck(cmd *cobra.Command, args []string) error {
	outputFormat := output.ParseFormat(checkOutputFlag)
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
	closeLog := setupRunLog(cfg)
	defer closeLog()

	modsDir := cfg.GetModsDir()
	scanResult, err := scanModsFunc(modsDir)
	if err != nil {
		return err
	}
	reportInvalidMods(scanResult.Invalid)

	useStructuredOutput := output.IsStructuredFormat(outputFormat)

	if len(scanResult.Mods) == 0 {
		if useStructuredOutput {
			return printCheckStructuredOutput(nil, resolve.Policy{}, collector.Messages(), outputFormat)
		}
		display.PrintNoModsMessage(os.Stdout, "in "+modsDir)
		display.PrintWarnings(os.Stdout, collector.Messages())
		return nil
	}

	ctx := commandContext(cmd)
	client := newClientFunc(cfg)

	policy, err := buildPolicy(ctx, client, cfg, checkGameVersionFlag, true, false)
	if err != nil {
		return err
	}
	// Check only reports; an abort configuration must not fail it.
	policy.Behavior = resolve.BehaviorIgnore
	policy.Exclusions = append(policy.Exclusions, utils.TrimAndSplit(checkExcludeFlag, ",")...)

	tracker := tracking.NewRunTracker()
	progress := display.NewStderrProgress(len(scanResult.Mods), "Checking mods")
	progress.SetEnabled(!useStructuredOutput)

	p, err := plan.Build(ctx, scanResult.Mods, client, policy, plan.Options{
		Tracker: tracker,
		OnModPlanned: func(entry *plan.Entry, current, total int) {
			progress.SetCurrent(current)
		},
	})
	progress.Done()
	if err != nil {
		return err
	}

	if useStructuredOutput {
		return printCheckStructuredOutput(p, policy, collector.Messages(), outputFormat)
	}

	printCheckTable(p, policy)

	if checkChangelogFlag {
		printUpgradeChangelogs(p)
	}

	display.PrintWarnings(os.Stdout, collector.Messages())
	for _, msg := range tracker.Messages() {
		fmt.Println(msg)
	}
	return nil
}

// checkRow holds the rendered values for one verdict table row.
type checkRow struct {
	values []string
}

// buildCheckRows renders the plan entries into table row values.
//
// Row order follows the scan order. The reason column value is empty
// for entries whose verdict needs no explanation.
//
// Parameters:
//   - p: The completed plan
//
// Returns:
//   - []checkRow: One row per entry
//   - bool: Whether any row carries a reason
func buildCheckRows(p *plan.Plan) ([]checkRow, bool) {
	rows := make([]checkRow, 0, len(p.Entries))
	reasons := make([]string, 0, len(p.Entries))

	for _, entry := range p.Entries {
		res := entry.Resolution
		available := constants.PlaceholderNA
		if res.Chosen != nil {
			available = res.ChosenVersion.String()
		}
		gameVersion := constants.PlaceholderNA
		if !res.RequiredPlatform.IsZero() {
			gameVersion = res.RequiredPlatform.String()
		}

		rows = append(rows, checkRow{values: []string{
			entry.Mod.ModID,
			entry.Mod.Name,
			display.SafeInstalledValue(entry.Mod.Version),
			available,
			gameVersion,
			display.FormatVerdict(res.Verdict),
			utils.TruncateToWidth(res.Reason, maxReasonWidth),
		}})
		reasons = append(reasons, res.Reason)
	}

	return rows, output.ShouldShowReasonColumn(reasons)
}

// printCheckTable prints the verdict table and counts for a plan.
func printCheckTable(p *plan.Plan, policy resolve.Policy) {
	rows, showReason := buildCheckRows(p)

	table := display.NewCheckTable(showReason)
	for _, row := range rows {
		table.UpdateWidths(row.values...)
	}

	fmt.Printf("Target game version: %s\n\n", policy.TargetLabel())
	fmt.Println(table.HeaderRow())
	fmt.Println(table.SeparatorRow())
	for _, row := range rows {
		fmt.Println(table.FormatRow(row.values...))
	}

	counts := p.Counts()
	fmt.Printf("\nTotal mods: %d", len(p.Entries))
	printVerdictCount(counts, resolve.UpgradeAvailable)
	printVerdictCount(counts, resolve.DowngradeRequired)
	printVerdictCount(counts, resolve.UpToDate)
	printVerdictCount(counts, resolve.Incompatible)
	printVerdictCount(counts, resolve.LocalOnly)
	printVerdictCount(counts, resolve.Excluded)
	fmt.Println()
}

// printVerdictCount appends one ", N <label>" segment when the count is non-zero.
func printVerdictCount(counts map[resolve.Verdict]int, v resolve.Verdict) {
	if counts[v] > 0 {
		fmt.Printf(", %d %s", counts[v], display.VerdictLabel(v))
	}
}

// printUpgradeChangelogs prints changelog excerpts for available upgrades.
//
// Only entries with an upgrade verdict and a non-empty changelog are
// shown; the HTML release notes are rendered as indented plain text.
func printUpgradeChangelogs(p *plan.Plan) {
	for _, entry := range p.Entries {
		res := entry.Resolution
		if res.Verdict != resolve.UpgradeAvailable || res.Chosen == nil {
			continue
		}
		text := res.Chosen.ChangelogText()
		if text == "" {
			continue
		}
		fmt.Printf("\n%s %s:\n", entry.Mod.Name, res.ChosenVersion.String())
		for _, line := range strings.Split(text, "\n") {
			fmt.Printf("  %s\n", line)
		}
	}
}

// printCheckStructuredOutput outputs the plan in structured format.
//
// Parameters:
//   - p: The completed plan, nil when nothing was scanned
//   - policy: The run policy, used for the target label
//   - warningMessages: Warning messages to include
//   - format: Output format (JSON, CSV, XML)
//
// Returns:
//   - error: Returns error on output failure
func printCheckStructuredOutput(p *plan.Plan, policy resolve.Policy, warningMessages []string, format output.Format) error {
	result := &output.CheckResult{Warnings: warningMessages}
	if p != nil {
		counts := p.Counts()
		result.Summary = output.CheckSummary{
			GameVersion:  policy.TargetLabel(),
			TotalMods:    len(p.Entries),
			Upgrades:     counts[resolve.UpgradeAvailable],
			Downgrades:   counts[resolve.DowngradeRequired],
			UpToDate:     counts[resolve.UpToDate],
			Incompatible: counts[resolve.Incompatible],
			LocalOnly:    counts[resolve.LocalOnly],
			Excluded:     counts[resolve.Excluded],
		}
		for _, entry := range p.Entries {
			res := entry.Resolution
			mod := output.CheckMod{
				ModID:     entry.Mod.ModID,
				Name:      entry.Mod.Name,
				Installed: entry.Mod.Version,
				Verdict:   display.VerdictLabel(res.Verdict),
				Reason:    res.Reason,
			}
			if res.Chosen != nil {
				mod.Available = res.ChosenVersion.String()
			}
			if !res.RequiredPlatform.IsZero() {
				mod.GameVersion = res.RequiredPlatform.String()
			}
			result.Mods = append(result.Mods, mod)
		}
	}
	dst, closeDst, err := structuredDestination()
	if err != nil {
		return err
	}
	defer closeDst()
	return writeCheckResultFunc(dst, format, result)
}
