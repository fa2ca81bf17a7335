package config

import (
	"gopkg.in/yaml.v3"
)

// Config represents the full resolver configuration document.
type Config struct {
	Version           string   `yaml:"version" validate:"required,semver"`
	Name              string   `yaml:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Settings          Settings `yaml:"settings,omitempty"`
	PluginSearchPaths []string `yaml:"plugin_search_paths,omitempty" validate:"omitempty,dive,min=1"`
}

// Settings holds resolver execution parameters.
type Settings struct {
	// Lazy makes every algorithm call return a placeholder instead of a
	// value; the task DAG materializes on demand.
	Lazy bool `yaml:"lazy,omitempty"`

	// StrictReturnTypeCheck makes a return-type mismatch fatal rather than a
	// warning.
	StrictReturnTypeCheck bool `yaml:"strict_return_type_check,omitempty"`

	// Parallel bounds the scheduler worker pool.
	Parallel int `yaml:"parallel,omitempty" validate:"omitempty,min=1,max=32"`

	LogLevel  string `yaml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error"`
	LogFormat string `yaml:"log_format,omitempty" validate:"omitempty,oneof=json console"`
}

// UnmarshalYAML applies defaults for settings.
func (s *Settings) UnmarshalYAML(value *yaml.Node) error {
	type rawSettings Settings
	var temp rawSettings
	if err := value.Decode(&temp); err != nil {
		return err
	}

	if temp.Parallel == 0 {
		temp.Parallel = 4
	}
	if temp.LogLevel == "" {
		temp.LogLevel = "info"
	}
	if temp.LogFormat == "" {
		temp.LogFormat = "json"
	}
	if !hasYAMLKey(value, "strict_return_type_check") {
		temp.StrictReturnTypeCheck = true
	}

	*s = Settings(temp)
	return nil
}

// Default returns the configuration used when no document is supplied.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Settings: Settings{
			StrictReturnTypeCheck: true,
			Parallel:              4,
			LogLevel:              "info",
			LogFormat:             "json",
		},
	}
}

func hasYAMLKey(node *yaml.Node, key string) bool {
	if node == nil || node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
