package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bruneval/modup/pkg/config"
	"github.com/bruneval/modup/pkg/errors"
	"github.com/bruneval/modup/pkg/verbose"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, create, or validate configuration",
	Long:  `Show the effective configuration, create a starter config file, or validate an existing one.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration after defaults are applied, with the file it was loaded from.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	Long:  `Write a commented starter config file into the current directory.`,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long:  `Load the configuration strictly and report unknown fields, invalid values, and warnings.`,
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}

// runConfigShow prints the effective configuration.
//
// Defaults are materialized so the output shows what a run would
// actually use, not just what the file sets.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Returns ExitError with ExitConfigError on load failure
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	if source := cfg.SourcePath(); source != "" {
		fmt.Printf("# loaded from %s\n", source)
	} else {
		fmt.Println("# built-in defaults (no config file found)")
	}

	rendered, err := config.Render(cfg)
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}

// runConfigInit writes a starter config file.
//
// Refuses to overwrite an existing file.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Returns error when the file exists or cannot be written
func runConfigInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(workingDir(), config.ConfigFileName)
	if err := config.WriteStarterConfig(path); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

// runConfigValidate validates the configuration file strictly.
//
// Unknown fields and invalid values are errors (exit 3); suspicious but
// legal values print as warnings.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Returns ExitError with ExitConfigError on validation failure
func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Loading already rejects unknown fields and invalid values.
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	result := config.Validate(cfg)
	if result.HasErrors() {
		verbose.Infof("Exit code %d (config error): configuration invalid", errors.ExitConfigError)
		return errors.NewExitError(errors.ExitConfigError, fmt.Errorf("%s", result.ErrorMessage()))
	}
	result.PrintTo(os.Stdout, verboseFlag)

	if source := cfg.SourcePath(); source != "" {
		fmt.Printf("Configuration valid: %s\n", source)
	} else {
		fmt.Println("No config file found; built-in defaults are valid.")
	}
	return nil
}
