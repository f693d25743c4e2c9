package config

import (
	"fmt"
	"strings"

	"github.com/bruneval/modup/pkg/errors"
	"github.com/bruneval/modup/pkg/resolve"
	"github.com/bruneval/modup/pkg/utils"
	"github.com/bruneval/modup/pkg/version"
)

// validLogLevels are the level names accepted by the log_level setting.
var validLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// Validate checks a configuration for errors and suspicious settings.
//
// It performs the following operations:
//   - Rejects negative counts (max_backups, max_workers, timeouts,
//     retries); a negative retention limit is never reinterpreted as
//     "delete everything"
//   - Rejects unknown channel, behavior, and log level values
//   - Rejects a game_version that is neither a keyword nor parseable
//   - Warns about settings that will be silently clamped
//
// Parameters:
//   - cfg: Configuration to check
//
// Returns:
//   - *errors.ValidationResult: Errors and warnings found
func Validate(cfg *Config) *errors.ValidationResult {
	result := errors.NewValidationResult()

	if cfg.MaxBackups != nil && *cfg.MaxBackups < 0 {
		result.AddError(errors.NewConfigValidationError("max_backups",
			fmt.Sprintf("must be 0 (unlimited) or positive, got %d", *cfg.MaxBackups)))
	}
	if cfg.MaxWorkers < 0 {
		result.AddError(errors.NewConfigValidationError("max_workers",
			fmt.Sprintf("must be positive, got %d", cfg.MaxWorkers)))
	}
	if cfg.MaxWorkers > resolve.MaxWorkerCap {
		result.AddWarning(fmt.Sprintf("max_workers %d exceeds the cap of %d and will be clamped", cfg.MaxWorkers, resolve.MaxWorkerCap))
	}
	if cfg.TimeoutSeconds < 0 {
		result.AddError(errors.NewConfigValidationError("timeout_seconds",
			fmt.Sprintf("must be positive, got %d", cfg.TimeoutSeconds)))
	}
	if cfg.Retries < 0 {
		result.AddError(errors.NewConfigValidationError("retries",
			fmt.Sprintf("must be positive, got %d", cfg.Retries)))
	}

	if channel := strings.ToLower(strings.TrimSpace(cfg.Channel)); channel != "" && !utils.Contains([]string{ChannelStable, ChannelAny}, channel) {
		result.AddError(errors.NewConfigValidationError("channel",
			fmt.Sprintf("must be %q or %q, got %q", ChannelStable, ChannelAny, cfg.Channel)))
	}

	if behavior := strings.ToLower(strings.TrimSpace(cfg.OnIncompatible)); behavior != "" {
		switch resolve.IncompatibilityBehavior(behavior) {
		case resolve.BehaviorAsk, resolve.BehaviorAbort, resolve.BehaviorIgnore:
		default:
			result.AddError(errors.NewConfigValidationError("on_incompatible",
				fmt.Sprintf("must be ask, abort, or ignore, got %q", cfg.OnIncompatible)))
		}
	}

	if err := validateGameVersion(cfg.GameVersion); err != nil {
		result.AddError(errors.NewConfigValidationError("game_version", err.Error()))
	}

	if level := strings.ToLower(strings.TrimSpace(cfg.LogLevel)); level != "" && !utils.Contains(validLogLevels, level) {
		result.AddError(errors.NewConfigValidationError("log_level",
			fmt.Sprintf("must be one of %s, got %q", strings.Join(validLogLevels, ", "), cfg.LogLevel)))
	}

	for _, pattern := range cfg.Exclusions {
		if strings.TrimSpace(pattern) == "" {
			result.AddWarning("empty exclusion pattern is ignored")
		}
	}

	return result
}

// validateGameVersion checks the game_version setting.
//
// Keywords pass through; anything else must parse as a version.
func validateGameVersion(raw string) error {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "latest", "unconstrained", "*":
		return nil
	}
	if _, err := version.Parse(raw); err != nil {
		return fmt.Errorf("must be a version, \"latest\", or \"unconstrained\", got %q", raw)
	}
	return nil
}
