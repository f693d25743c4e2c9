// Package cmd implements the command-line interface for modup.
// It provides commands for listing installed mods, checking the catalog
// for compatible updates, applying them with backups, and inspecting
// retention state.
package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bruneval/modup/pkg/catalog"
	"github.com/bruneval/modup/pkg/config"
	"github.com/bruneval/modup/pkg/errors"
	"github.com/bruneval/modup/pkg/logging"
	"github.com/bruneval/modup/pkg/modinfo"
	"github.com/bruneval/modup/pkg/plan"
	"github.com/bruneval/modup/pkg/preflight"
	"github.com/bruneval/modup/pkg/resolve"
	"github.com/bruneval/modup/pkg/verbose"
	"github.com/bruneval/modup/pkg/warnings"
)

var exitFunc = os.Exit
var configFlag string
var dirFlag string
var verboseFlag bool
var versionFlag bool
var outputFileFlag string

// Testable function variables
var loadConfigFunc = config.LoadConfig
var newClientFunc = newCatalogClient

var rootCmd = &cobra.Command{
	Use:   "modup",
	Short: "Mod collection scanner and updater",
	Long:  `Scan an installed mod collection, resolve compatible updates against the mod database, and apply them with backups.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseFlag {
			verbose.Enable()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if versionFlag {
			printVersionOutput()
			return
		}
		_ = cmd.Help()
	},
}

// Execute runs the root command and exits with appropriate code:
//   - 0: Success
//   - 1: Partial failure (some mods applied, some failed)
//   - 2: Complete failure
//   - 3: Configuration or validation error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := errors.GetExitCode(err)

		// Check for partial success
		var partialErr *errors.PartialSuccessError
		if stderrors.As(err, &partialErr) {
			code = errors.ExitPartialFailure
			verbose.Infof("Exit code %d: partial success - %d applied, %d failed", code, partialErr.Applied, partialErr.Failed)
		} else {
			verbose.Infof("Exit code %d: %v", code, err)
		}

		exitFunc(code)
	}
}

// ExecuteTest runs the root command for testing (returns error instead of exiting).
//
// Unlike Execute(), this function returns the error directly without calling
// os.Exit, making it suitable for use in test suites.
//
// Returns:
//   - error: Command execution error, or nil on success
func ExecuteTest() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "Mods directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&outputFileFlag, "output-file", "", "Write structured output to a file instead of stdout")

	// Add -v/--version as a LOCAL flag (not persistent) so it only works on root command
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version information")

	// Commands ordered logically: info → config → workflow (list → check → update → backups)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(backupsCmd)
}

// loadRunConfig loads the configuration and applies the --dir override.
//
// Load and validation failures are configuration errors and map to
// exit code 3.
//
// Returns:
//   - *config.Config: Loaded configuration
//   - error: ExitError with ExitConfigError on load or validation failure
func loadRunConfig() (*config.Config, error) {
	cfg, err := loadConfigFunc(configFlag, workingDir())
	if err != nil {
		verbose.Infof("Exit code %d (config error): %v", errors.ExitConfigError, err)
		return nil, errors.NewExitError(errors.ExitConfigError, fmt.Errorf("failed to load config: %w", err))
	}
	if dirFlag != "" {
		cfg.ModsDir = dirFlag
	}
	return cfg, nil
}

// structuredDestination opens the writer structured output goes to.
//
// Without --output-file the destination is stdout; with it, the file is
// created (truncating any previous content) and the returned closer
// must run after the document is written.
//
// Returns:
//   - io.Writer: Destination for the structured document
//   - func(): Closer, a no-op for stdout
//   - error: Returns error when the output file cannot be created
func structuredDestination() (io.Writer, func(), error) {
	if outputFileFlag == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFileFlag)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %s: %w", outputFileFlag, err)
	}
	return f, func() { _ = f.Close() }, nil
}

// workingDir returns the current directory, falling back to ".".
func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// setupRunLog opens the per-run log file and returns its close function.
//
// A log setup failure never blocks the run; the run proceeds without a
// file log.
//
// Parameters:
//   - cfg: Configuration providing the log directory and level
//
// Returns:
//   - func(): Close function for the run log, safe to call always
func setupRunLog(cfg *config.Config) func() {
	if _, err := logging.Setup(cfg.GetLogDir(), cfg.GetLogLevel()); err != nil {
		verbose.Infof("Run log disabled: %v", err)
	}
	return logging.Close
}

// newCatalogClient builds the catalog client from the configuration.
//
// Parameters:
//   - cfg: Configuration providing base URL, timeout, and retry count
//
// Returns:
//   - catalog.Client: HTTP client against the mod database
func newCatalogClient(cfg *config.Config) catalog.Client {
	return catalog.NewHTTPClient(catalog.Options{
		BaseURL: cfg.CatalogURL,
		Timeout: time.Duration(cfg.GetTimeoutSeconds()) * time.Second,
		Retries: cfg.GetRetries(),
	})
}

// buildPolicy resolves the target game version and assembles the run policy.
//
// Parameters:
//   - ctx: Context for the target resolution query
//   - client: Catalog client, consulted when the target is "latest"
//   - cfg: Configuration providing the policy knobs
//   - gameVersion: Target override from the command line, empty to use the config
//   - dryRun: Whether the run resolves without accepting anything
//   - force: Whether up-to-date mods are re-fetched anyway
//
// Returns:
//   - resolve.Policy: The assembled policy
//   - error: If the target version cannot be resolved
func buildPolicy(ctx context.Context, client catalog.Client, cfg *config.Config, gameVersion string, dryRun, force bool) (resolve.Policy, error) {
	configured := gameVersion
	if configured == "" {
		configured = cfg.GetGameVersion()
	}

	target, unconstrained, err := plan.ResolveTarget(ctx, client, configured)
	if err != nil {
		return resolve.Policy{}, fmt.Errorf("failed to resolve target game version: %w", err)
	}

	return resolve.Policy{
		Target:             target,
		Unconstrained:      unconstrained,
		ExcludePreReleases: cfg.ExcludePreReleases(),
		ForceUpdate:        force,
		DryRun:             dryRun,
		Behavior:           cfg.GetOnIncompatible(),
		Exclusions:         cfg.Exclusions,
		MaxWorkers:         cfg.GetMaxWorkers(),
		TimeoutSeconds:     cfg.GetTimeoutSeconds(),
		Retries:            cfg.GetRetries(),
	}, nil
}

// runPreflight validates the environment before a run touches anything.
//
// Parameters:
//   - cfg: Configuration providing the checked directories
//
// Returns:
//   - error: ExitError with ExitConfigError when a check fails
func runPreflight(cfg *config.Config) error {
	validation := preflight.ValidateEnvironment(cfg)
	if validation.HasErrors() {
		verbose.Infof("Exit code %d (config error): preflight validation failed", errors.ExitConfigError)
		return errors.NewExitError(errors.ExitConfigError, fmt.Errorf("%s", validation.ErrorMessage()))
	}
	return nil
}

// reportInvalidMods records one warning per rejected artifact.
//
// Each rejection is wrapped as a mod validation error so all commands
// report scan problems in the same shape.
//
// Parameters:
//   - invalid: Artifacts the scan rejected
func reportInvalidMods(invalid []modinfo.InvalidFile) {
	for _, file := range invalid {
		verr := errors.NewModValidationError(file.Name, file.Reason, "")
		warnings.Warnf("skipped %s", verr.Error())
	}
}

// commandContext returns the command's context, falling back to background.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// printVersionOutput prints version and runtime information to stdout.
func printVersionOutput() {
	printVersionInfo()
}
