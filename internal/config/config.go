// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for node2spec.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the node2spec configuration.
type Config struct {
	// Source contains source file discovery configuration
	Source SourceConfig `mapstructure:"source" yaml:"source" json:"source"`

	// Output contains output document configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Dispatch contains versioned wrapper resolution configuration
	Dispatch DispatchConfig `mapstructure:"dispatch" yaml:"dispatch" json:"dispatch"`

	// Extraction contains extraction behavior configuration
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction" json:"extraction"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// SourceConfig contains source file discovery configuration.
type SourceConfig struct {
	// Paths is a list of paths to scan
	Paths []string `mapstructure:"paths" yaml:"paths" json:"paths"`

	// Include is a list of glob patterns selecting node root files
	Include []string `mapstructure:"include" yaml:"include" json:"include"`

	// Exclude is a list of glob patterns to exclude
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}

// OutputConfig contains output document configuration.
type OutputConfig struct {
	// Path is the full database output path
	Path string `mapstructure:"path" yaml:"path" json:"path"`

	// FilteredPath is the high+medium quality projection output path
	FilteredPath string `mapstructure:"filteredPath" yaml:"filteredPath" json:"filteredPath"`

	// Format is the output format (json, yaml)
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// DispatchConfig contains versioned wrapper resolution configuration.
type DispatchConfig struct {
	// BaseTypes are the supertypes marking a dispatching wrapper
	BaseTypes []string `mapstructure:"baseTypes" yaml:"baseTypes" json:"baseTypes"`

	// DefaultVersionKey is the description key holding the default version
	DefaultVersionKey string `mapstructure:"defaultVersionKey" yaml:"defaultVersionKey" json:"defaultVersionKey"`

	// Overrides remap default versions of nodes with non-linear version layouts
	Overrides []OverrideConfig `mapstructure:"overrides" yaml:"overrides" json:"overrides"`
}

// OverrideConfig maps "default version >= MinVersion" to implementation UseVersion for Node.
type OverrideConfig struct {
	// Node is the wrapper base name
	Node string `mapstructure:"node" yaml:"node" json:"node"`

	// MinVersion is the lowest default version the rule applies to
	MinVersion float64 `mapstructure:"minVersion" yaml:"minVersion" json:"minVersion"`

	// UseVersion is the implementation version to use
	UseVersion int `mapstructure:"useVersion" yaml:"useVersion" json:"useVersion"`
}

// ExtractionConfig contains extraction behavior configuration.
type ExtractionConfig struct {
	// ExpandConditionals enables derived parameters for show conditions
	ExpandConditionals bool `mapstructure:"expandConditionals" yaml:"expandConditionals" json:"expandConditionals"`

	// Dedupe removes repeated parameters after extraction
	Dedupe bool `mapstructure:"dedupe" yaml:"dedupe" json:"dedupe"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"node2spec.yaml",
	"node2spec.json",
	".node2spec.yaml",
	".node2spec.json",
}

// supportedFormats is the list of supported output formats.
var supportedFormats = []string{
	"json",
	"yaml",
}

var (
	defaultInclude = []string{"**/*.node.ts", "**/*.node.js"}
	defaultExclude = []string{
		"**/node_modules/**",
		"**/dist/**",
		"**/*.test.ts",
		"**/*.spec.ts",
		"**/test/**",
		"**/__tests__/**",
		"**/__mocks__/**",
	}
	defaultBaseTypes = []string{"VersionedNodeType"}
)

// ErrConfigNotFound is returned when no config file is found.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Paths:   []string{"."},
			Include: slices.Clone(defaultInclude),
			Exclude: slices.Clone(defaultExclude),
		},
		Output: OutputConfig{
			Path:         "nodes.json",
			FilteredPath: "nodes.quality.json",
			Format:       "json",
		},
		Dispatch: DispatchConfig{
			BaseTypes:         slices.Clone(defaultBaseTypes),
			DefaultVersionKey: "defaultVersion",
		},
		Extraction: ExtractionConfig{
			ExpandConditionals: true,
			Dedupe:             false,
		},
		Watch: WatchConfig{
			Debounce: 500,
		},
	}
}

// Load loads the configuration from a file.
// It searches for config files in the following order:
// 1. node2spec.yaml
// 2. node2spec.json
// 3. .node2spec.yaml
// 4. .node2spec.json
//
// If configPath is provided, it will use that path instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		found := false
		for _, name := range configFileNames {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				found = true
				break
			}
		}
		if !found {
			return Default(), nil
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads the configuration from a specific directory.
func LoadFromPath(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// setDefaults sets the default values for viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.paths", []string{"."})
	v.SetDefault("source.include", defaultInclude)
	v.SetDefault("source.exclude", defaultExclude)
	v.SetDefault("output.path", "nodes.json")
	v.SetDefault("output.filteredPath", "nodes.quality.json")
	v.SetDefault("output.format", "json")
	v.SetDefault("dispatch.baseTypes", defaultBaseTypes)
	v.SetDefault("dispatch.defaultVersionKey", "defaultVersion")
	v.SetDefault("extraction.expandConditionals", true)
	v.SetDefault("extraction.dedupe", false)
	v.SetDefault("watch.debounce", 500)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Output.Format != "" && !slices.Contains(supportedFormats, c.Output.Format) {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Output.Format, strings.Join(supportedFormats, ", ")),
		})
	}

	if c.Output.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "output.path",
			Message: "path is required",
		})
	}

	if c.Output.FilteredPath == "" {
		errs = append(errs, ValidationError{
			Field:   "output.filteredPath",
			Message: "filtered path is required",
		})
	}

	if c.Output.Path != "" && c.Output.Path == c.Output.FilteredPath {
		errs = append(errs, ValidationError{
			Field:   "output.filteredPath",
			Message: "must differ from output.path",
		})
	}

	if len(c.Source.Include) == 0 {
		errs = append(errs, ValidationError{
			Field:   "source.include",
			Message: "at least one include pattern is required",
		})
	}

	for i, o := range c.Dispatch.Overrides {
		field := fmt.Sprintf("dispatch.overrides[%d]", i)
		if o.Node == "" {
			errs = append(errs, ValidationError{Field: field + ".node", Message: "node is required"})
		}
		if o.UseVersion < 1 {
			errs = append(errs, ValidationError{Field: field + ".useVersion", Message: "useVersion must be positive"})
		}
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ConfigFilePath returns the path of the config file in the working directory, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
