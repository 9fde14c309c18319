package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analyzer.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "analysis", cfg.Analyzer.OutputDir)
	assert.Equal(t, 10.0, cfg.Checks.AbsTolerance)
	assert.Equal(t, 1.0, cfg.Checks.PctTolerance)
	assert.True(t, cfg.Merge.Enabled)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
analyzer {
  output_dir = "out"
  ledger     = "ledger.csv"
  log_level  = "debug"
}

checks {
  abs_tolerance = 5
  pct_tolerance = 0.5
}

merge {
  enabled      = false
  default_year = "2024"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Analyzer.OutputDir)
	assert.Equal(t, "ledger.csv", cfg.Analyzer.Ledger)
	assert.Equal(t, "debug", cfg.Analyzer.LogLevel)
	assert.Equal(t, 5.0, cfg.Checks.AbsTolerance)
	assert.Equal(t, 0.5, cfg.Checks.PctTolerance)
	assert.False(t, cfg.Merge.Enabled)
	assert.Equal(t, "2024", cfg.Merge.DefaultYear)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := writeConfig(t, `
analyzer {
  output_dir = "out"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Analyzer.LogLevel)
	assert.Equal(t, 10.0, cfg.Checks.AbsTolerance)
	assert.Equal(t, "2025", cfg.Merge.DefaultYear)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	path := writeConfig(t, `analyzer {`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, `
analyzer {
  log_level = "loud"
}
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsNegativeTolerance(t *testing.T) {
	cfg := Default()
	cfg.Checks.AbsTolerance = -1
	assert.Error(t, cfg.Validate())
}
