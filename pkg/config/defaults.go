package config

import (
	_ "embed"
)

//go:embed template.yml
var templateConfigYAML string

// GetTemplateConfig returns the commented starter configuration YAML.
//
// Useful for generating a .modup.yml for users to edit; every setting
// is present but commented out at its default.
//
// Returns:
//   - string: the template configuration as YAML
func GetTemplateConfig() string {
	return templateConfigYAML
}
