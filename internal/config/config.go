// Package config loads analyzer configuration from an HCL file.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete analyzer configuration
type Config struct {
	Analyzer AnalyzerSettings `hcl:"analyzer,block"`
	Checks   *ChecksConfig    `hcl:"checks,block"`
	Merge    *MergeConfig     `hcl:"merge,block"`
}

// AnalyzerSettings contains top-level analyzer configuration
type AnalyzerSettings struct {
	OutputDir string `hcl:"output_dir,optional"`
	Ledger    string `hcl:"ledger,optional"`
	LogLevel  string `hcl:"log_level,optional"`
}

// ChecksConfig tunes the stack consistency check thresholds
type ChecksConfig struct {
	AbsTolerance float64 `hcl:"abs_tolerance,optional"`
	PctTolerance float64 `hcl:"pct_tolerance,optional"`
}

// MergeConfig controls cross-session identity merging
type MergeConfig struct {
	Enabled     bool   `hcl:"enabled,optional"`
	DefaultYear string `hcl:"default_year,optional"`
}

// Default returns the default analyzer configuration
func Default() *Config {
	return &Config{
		Analyzer: AnalyzerSettings{
			OutputDir: "analysis",
			LogLevel:  "info",
		},
		Checks: &ChecksConfig{
			AbsTolerance: 10,
			PctTolerance: 1,
		},
		Merge: &MergeConfig{
			Enabled:     true,
			DefaultYear: "2025",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Analyzer.OutputDir == "" {
		config.Analyzer.OutputDir = "analysis"
	}
	if config.Analyzer.LogLevel == "" {
		config.Analyzer.LogLevel = "info"
	}
	if config.Checks == nil {
		config.Checks = &ChecksConfig{}
	}
	if config.Checks.AbsTolerance == 0 {
		config.Checks.AbsTolerance = 10
	}
	if config.Checks.PctTolerance == 0 {
		config.Checks.PctTolerance = 1
	}
	if config.Merge == nil {
		config.Merge = &MergeConfig{Enabled: true}
	}
	if config.Merge.DefaultYear == "" {
		config.Merge.DefaultYear = "2025"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Checks.AbsTolerance < 0 {
		return fmt.Errorf("checks.abs_tolerance must not be negative")
	}
	if c.Checks.PctTolerance < 0 {
		return fmt.Errorf("checks.pct_tolerance must not be negative")
	}
	switch c.Analyzer.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.Analyzer.LogLevel)
	}
	return nil
}
