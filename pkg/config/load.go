// Package config handles configuration loading, validation, and defaults
// for modup. Configuration lives in a single YAML file (.modup.yml);
// every setting has a built-in default so the tool runs without one.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/adrg/xdg"

	"github.com/bruneval/modup/pkg/verbose"
)

// ConfigFileName is the config file looked up when no path is given.
const ConfigFileName = ".modup.yml"

// maxConfigFileSize rejects config files large enough to suggest the
// wrong file was pointed at.
const maxConfigFileSize = 1 * 1024 * 1024

// LoadConfig loads configuration from the specified path or defaults.
//
// It performs the following operations:
//   - Step 1: An explicit path is loaded and must exist
//   - Step 2: Otherwise workDir/.modup.yml is tried, then the XDG config
//     location for modup
//   - Step 3: When no file exists anywhere, the built-in defaults apply
//   - Step 4: The loaded config is validated
//
// Parameters:
//   - configPath: Path to the config file, or empty to search
//   - workDir: Directory searched for a local .modup.yml
//
// Returns:
//   - *Config: The loaded and validated configuration
//   - error: If an explicit file is missing, unreadable, or invalid
func LoadConfig(configPath, workDir string) (*Config, error) {
	var cfg *Config

	if configPath != "" {
		loaded, err := loadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		cfg = loaded
		verbose.ConfigLoaded(configPath)
	} else {
		for _, candidate := range searchPaths(workDir) {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			loaded, err := loadConfigFile(candidate)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			cfg = loaded
			verbose.ConfigLoaded(candidate)
			break
		}
	}

	if cfg == nil {
		verbose.Info("Using built-in default configuration")
		cfg = &Config{}
	}

	if result := Validate(cfg); result.HasErrors() {
		return nil, fmt.Errorf("%s", result.ErrorMessage())
	}
	return cfg, nil
}

// searchPaths returns the config locations tried in order.
func searchPaths(workDir string) []string {
	if workDir == "" {
		workDir = "."
	}
	return []string{
		filepath.Join(workDir, ConfigFileName),
		filepath.Join(xdg.ConfigHome, "modup", "config.yml"),
	}
}

// loadConfigFile reads and decodes one YAML config file.
//
// Unknown keys are rejected so typos surface as errors instead of
// silently applying defaults.
func loadConfigFile(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d bytes)", info.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	cfg.sourcePath = path
	return &cfg, nil
}

// WriteStarterConfig writes the commented template config to path.
//
// Parameters:
//   - path: Destination file, must not already exist
//
// Returns:
//   - error: If the file exists or cannot be written
func WriteStarterConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.WriteFile(path, []byte(GetTemplateConfig()), 0o644); err != nil {
		return fmt.Errorf("failed to write starter config: %w", err)
	}
	return nil
}

// Render returns the effective configuration as YAML.
//
// Accessor defaults are materialized so the output shows what the run
// will actually use, not just what the file says.
//
// Parameters:
//   - cfg: Configuration to render
//
// Returns:
//   - string: YAML document of the effective settings
//   - error: If marshaling fails
func Render(cfg *Config) (string, error) {
	maxBackups := cfg.GetMaxBackups()
	effective := Config{
		ModsDir:        cfg.GetModsDir(),
		BackupDir:      cfg.GetBackupDir(),
		CatalogURL:     cfg.CatalogURL,
		GameVersion:    cfg.GetGameVersion(),
		Channel:        cfg.GetChannel(),
		OnIncompatible: string(cfg.GetOnIncompatible()),
		Exclusions:     cfg.Exclusions,
		MaxBackups:     &maxBackups,
		MaxWorkers:     cfg.GetMaxWorkers(),
		TimeoutSeconds: cfg.GetTimeoutSeconds(),
		Retries:        cfg.GetRetries(),
		LogDir:         cfg.GetLogDir(),
		LogLevel:       cfg.GetLogLevel(),
	}
	out, err := yaml.Marshal(&effective)
	if err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	return string(out), nil
}
