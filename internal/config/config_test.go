package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	f := cfg.Engine.Financial
	assert.Equal(t, 25, f.Years)
	assert.InDelta(t, 0.05, f.DiscountRate, 1e-12)
	assert.InDelta(t, 0.70, f.DebtRatio, 1e-12)
	assert.InDelta(t, 0.045, f.InterestRate, 1e-12)
	assert.Equal(t, 15, f.LoanTermYears)
	assert.InDelta(t, 0.25, f.TaxRate, 1e-12)

	assert.InDelta(t, 2.0, cfg.Engine.Wind.WeibullK, 1e-12)
	assert.InDelta(t, 35.0, cfg.Engine.Solar.OptimalTiltDeg, 1e-12)
	assert.InDelta(t, 0.6, cfg.Engine.Solar.MinOrientation, 1e-12)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(mapLookup(map[string]string{
		"FINANCIAL_WACC":     "0.07",
		"DEFAULT_DEBT_RATIO": "0.5",
		"SIMULATION_YEARS":   "30",
		"HTTP_ADDR":          ":9999",
		"CACHE_TTL":          "15m",
		"TAX_RATE":           "",
	}))
	require.NoError(t, err)

	assert.InDelta(t, 0.07, cfg.Engine.Financial.DiscountRate, 1e-12)
	assert.InDelta(t, 0.5, cfg.Engine.Financial.DebtRatio, 1e-12)
	assert.Equal(t, 30, cfg.Engine.Financial.Years)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 15*time.Minute, cfg.Server.CacheTTL)
	assert.InDelta(t, 0.25, cfg.Engine.Financial.TaxRate, 1e-12, "empty values are ignored")
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"float", map[string]string{"FINANCIAL_WACC": "abc"}},
		{"int", map[string]string{"SIMULATION_YEARS": "1.5"}},
		{"duration", map[string]string{"CACHE_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			assert.Error(t, cfg.applyEnv(mapLookup(tt.env)))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero years", func(c *Config) { c.Engine.Financial.Years = 0 }},
		{"debt ratio above one", func(c *Config) { c.Engine.Financial.DebtRatio = 1.2 }},
		{"negative loan term", func(c *Config) { c.Engine.Financial.LoanTermYears = -1 }},
		{"bad tax rate", func(c *Config) { c.Engine.Financial.TaxRate = 25 }},
		{"cut-in above rated", func(c *Config) { c.Engine.Wind.CutInMS = 14 }},
		{"zero step", func(c *Config) { c.Engine.Wind.IntegrationStep = 0 }},
		{"orientation floor", func(c *Config) { c.Engine.Solar.MinOrientation = 1.5 }},
		{"no workers", func(c *Config) { c.Server.Workers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  addr: ":7070"
  cache_ttl: 30m
engine:
  financial:
    years: 20
    debt_ratio: 0.6
  solar:
    base_specific_yield_kwh_kwp: 1450
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Server.CacheTTL)
	assert.Equal(t, 20, cfg.Engine.Financial.Years)
	assert.InDelta(t, 0.6, cfg.Engine.Financial.DebtRatio, 1e-12)
	assert.InDelta(t, 1450, cfg.Engine.Solar.BaseSpecificYield, 1e-12)
	// Untouched defaults survive.
	assert.InDelta(t, 0.045, cfg.Engine.Financial.InterestRate, 1e-12)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
