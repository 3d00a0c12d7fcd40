package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/budget-analyzer/internal/analysiserror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty temporary directory so no stray
// config.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("YNAB_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "last-used", cfg.YNAB.BudgetID)
	assert.Equal(t, "https://api.ynab.com/v1", cfg.YNAB.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 3, cfg.YNAB.MaxRetries)
	assert.Equal(t, 14, cfg.Analysis.LookbackDays)
	assert.Equal(t, []string{"Transfer"}, cfg.Analysis.ExcludedPayeePrefixes)
	assert.Equal(t, 3, cfg.Analysis.ForecastMonthsHistory)
	assert.Equal(t, 5, cfg.Report.TopN)
	assert.Equal(t, 15, cfg.Report.ChartLimit)
	assert.True(t, cfg.Report.Charts)

	threshold, err := cfg.AdjustmentThreshold()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(threshold))

	target, err := cfg.TargetTotal()
	require.NoError(t, err)
	assert.False(t, target.Valid)

	assert.Error(t, cfg.RequireCredentials(), "token is not set")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	chdirTemp(t)
	t.Setenv("BUDGET_LOG_LEVEL", "debug")
	t.Setenv("BUDGET_LOG_FORMAT", "json")
	t.Setenv("YNAB_API_KEY", "secret-token")
	t.Setenv("YNAB_BUDGET_ID", "budget-123")
	t.Setenv("BUDGET_ANALYSIS_START_DATE", "2024-01-01")
	t.Setenv("BUDGET_ANALYSIS_END_DATE", "2024-01-31")
	t.Setenv("BUDGET_ANALYSIS_EXCLUDED_PAYEES", "payee 1,payee 2")
	t.Setenv("BUDGET_ANALYSIS_FORECAST_MONTHS_HISTORY", "6")
	t.Setenv("BUDGET_ANALYSIS_TARGET_TOTAL", "2500.50")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "secret-token", cfg.YNAB.APIKey)
	assert.Equal(t, "budget-123", cfg.YNAB.BudgetID)
	assert.Equal(t, []string{"payee 1", "payee 2"}, cfg.Analysis.ExcludedPayees)
	assert.Equal(t, 6, cfg.Analysis.ForecastMonthsHistory)
	assert.NoError(t, cfg.RequireCredentials())

	target, err := cfg.TargetTotal()
	require.NoError(t, err)
	assert.True(t, target.Valid)
	assert.True(t, decimal.RequireFromString("2500.50").Equal(target.Decimal))

	policy, err := cfg.FilterPolicy(time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), policy.StartDate)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), policy.EndDate)
}

func TestLoad_ConfigFileAndPrecedence(t *testing.T) {
	dir := chdirTemp(t)
	configFile := filepath.Join(dir, "analyzer.yaml")

	content := `
log:
  level: warn
ynab:
  budget_id: from-file
  max_retries: 5
analysis:
  excluded_payees:
    - payee 1
    - payee n
  excluded_payee_prefixes:
    - Transfer
    - Starting Balance
  excluded_categories:
    - Reimbursement Acct
  excluded_accounts:
    - American Express - Business
  significant_adjustment_threshold: 75
report:
  charts: false
  snapshot_format: yaml
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))
	t.Setenv("BUDGET_LOG_LEVEL", "error")

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level, "env var wins over file")
	assert.Equal(t, "from-file", cfg.YNAB.BudgetID)
	assert.Equal(t, 5, cfg.YNAB.MaxRetries)
	assert.Equal(t, []string{"payee 1", "payee n"}, cfg.Analysis.ExcludedPayees)
	assert.Equal(t, []string{"Transfer", "Starting Balance"}, cfg.Analysis.ExcludedPayeePrefixes)
	assert.Equal(t, []string{"Reimbursement Acct"}, cfg.Analysis.ExcludedCategories)
	assert.Equal(t, []string{"American Express - Business"}, cfg.Analysis.ExcludedAccounts)
	assert.False(t, cfg.Report.Charts)
	assert.Equal(t, "yaml", cfg.Report.SnapshotFormat)

	threshold, err := cfg.AdjustmentThreshold()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(75).Equal(threshold))
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		key    string
	}{
		{name: "log level", modify: func(c *Config) { c.Log.Level = "loud" }, key: "log.level"},
		{name: "log format", modify: func(c *Config) { c.Log.Format = "xml" }, key: "log.format"},
		{name: "timeout", modify: func(c *Config) { c.YNAB.TimeoutSeconds = 0 }, key: "ynab.timeout_seconds"},
		{name: "retries", modify: func(c *Config) { c.YNAB.MaxRetries = -1 }, key: "ynab.max_retries"},
		{name: "forecast months", modify: func(c *Config) { c.Analysis.ForecastMonthsHistory = 0 }, key: "analysis.forecast_months_history"},
		{name: "threshold", modify: func(c *Config) { c.Analysis.SignificantAdjustmentThreshold = "-5" }, key: "analysis.significant_adjustment_threshold"},
		{name: "target", modify: func(c *Config) { c.Analysis.TargetTotal = "lots" }, key: "analysis.target_total"},
		{name: "bad date", modify: func(c *Config) { c.Analysis.EndDate = "tomorrow" }, key: "analysis.end_date"},
		{name: "inverted range", modify: func(c *Config) {
			c.Analysis.StartDate = "2024-02-01"
			c.Analysis.EndDate = "2024-01-01"
		}, key: "analysis.start_date"},
		{name: "snapshot format", modify: func(c *Config) { c.Report.SnapshotFormat = "xml" }, key: "report.snapshot_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			var cfgErr *analysiserror.ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.key, cfgErr.Key)
		})
	}
}

func TestFilterPolicy_DefaultsToLookback(t *testing.T) {
	cfg := validConfig()
	now := time.Date(2024, 3, 20, 17, 45, 0, 0, time.UTC)

	policy, err := cfg.FilterPolicy(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), policy.EndDate)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), policy.StartDate)
}

func validConfig() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.YNAB.BudgetID = "last-used"
	cfg.YNAB.TimeoutSeconds = 30
	cfg.YNAB.MaxRetries = 3
	cfg.YNAB.RequestsPerMinute = 60
	cfg.Analysis.LookbackDays = 14
	cfg.Analysis.ForecastMonthsHistory = 3
	cfg.Report.TopN = 5
	cfg.Report.ChartLimit = 15
	return cfg
}
