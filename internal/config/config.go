// Package config loads the analysis settings from a YAML file. Fields
// omitted from the file fall back to defaults via the Get* accessors, so
// partial configs are safe.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults used when a field is absent from the config file.
const (
	DefaultCSVPath  = "ev_charging_patterns.csv"
	DefaultListen   = ":8080"
	DefaultChartDir = "charts"
)

// Config is the root configuration for the analysis tool. Pointer fields
// distinguish "not set" from an explicit zero value.
type Config struct {
	// CSVPath is the charging-session export to analyse.
	CSVPath *string `yaml:"csv_path,omitempty"`
	// Listen is the dashboard listen address, host:port.
	Listen *string `yaml:"listen,omitempty"`
	// ChartDir is where static chart PNGs are written.
	ChartDir *string `yaml:"chart_dir,omitempty"`
}

// Empty returns a Config with all fields unset.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a YAML file. The path must have a .yaml or .yml
// extension and the file must be under 1MB.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.CSVPath != nil && *c.CSVPath == "" {
		return fmt.Errorf("csv_path must not be empty when set")
	}
	if c.Listen != nil && *c.Listen == "" {
		return fmt.Errorf("listen must not be empty when set")
	}
	return nil
}

// GetCSVPath returns the csv_path value or the default.
func (c *Config) GetCSVPath() string {
	if c.CSVPath == nil {
		return DefaultCSVPath
	}
	return *c.CSVPath
}

// GetListen returns the listen value or the default.
func (c *Config) GetListen() string {
	if c.Listen == nil {
		return DefaultListen
	}
	return *c.Listen
}

// GetChartDir returns the chart_dir value or the default.
func (c *Config) GetChartDir() string {
	if c.ChartDir == nil {
		return DefaultChartDir
	}
	return *c.ChartDir
}
