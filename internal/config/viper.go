package config

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/budget-analyzer/internal/analysiserror"
	"fjacquet/budget-analyzer/internal/dateutils"
	"fjacquet/budget-analyzer/internal/forecast"
	"fjacquet/budget-analyzer/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BUDGET_LOG_LEVEL.
const EnvPrefix = "BUDGET"

// Config is the complete, read-once configuration of a run.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	YNAB struct {
		APIKey            string `mapstructure:"api_key" yaml:"-"` // never serialized
		BudgetID          string `mapstructure:"budget_id" yaml:"budget_id"`
		BaseURL           string `mapstructure:"base_url" yaml:"base_url"`
		TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		MaxRetries        int    `mapstructure:"max_retries" yaml:"max_retries"`
		RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	} `mapstructure:"ynab" yaml:"ynab"`

	Analysis struct {
		StartDate                      string   `mapstructure:"start_date" yaml:"start_date"`
		EndDate                        string   `mapstructure:"end_date" yaml:"end_date"`
		LookbackDays                   int      `mapstructure:"lookback_days" yaml:"lookback_days"`
		ExcludedPayees                 []string `mapstructure:"excluded_payees" yaml:"excluded_payees"`
		ExcludedPayeePrefixes          []string `mapstructure:"excluded_payee_prefixes" yaml:"excluded_payee_prefixes"`
		ExcludedCategories             []string `mapstructure:"excluded_categories" yaml:"excluded_categories"`
		ExcludedAccounts               []string `mapstructure:"excluded_accounts" yaml:"excluded_accounts"`
		ForecastMonthsHistory          int      `mapstructure:"forecast_months_history" yaml:"forecast_months_history"`
		SignificantAdjustmentThreshold string   `mapstructure:"significant_adjustment_threshold" yaml:"significant_adjustment_threshold"`
		TargetTotal                    string   `mapstructure:"target_total" yaml:"target_total"`
	} `mapstructure:"analysis" yaml:"analysis"`

	Report struct {
		TopN           int    `mapstructure:"top_n" yaml:"top_n"`
		ChartLimit     int    `mapstructure:"chart_limit" yaml:"chart_limit"`
		Charts         bool   `mapstructure:"charts" yaml:"charts"`
		OutputDir      string `mapstructure:"output_dir" yaml:"output_dir"`
		SnapshotFormat string `mapstructure:"snapshot_format" yaml:"snapshot_format"`
	} `mapstructure:"report" yaml:"report"`
}

// Load builds the configuration: defaults, then the YAML file (configFile, or
// config.yaml searched in $HOME/.budget-analyzer, .budget-analyzer and the working
// directory), then environment variables. The API token is read from YNAB_API_KEY.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.budget-analyzer")
		v.AddConfigPath(".budget-analyzer")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.BindEnv("ynab.api_key", "YNAB_API_KEY", EnvPrefix+"_YNAB_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind YNAB_API_KEY: %w", err)
	}
	if err := v.BindEnv("ynab.budget_id", EnvPrefix+"_YNAB_BUDGET_ID", "YNAB_BUDGET_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind YNAB_BUDGET_ID: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ynab.api_key", "")
	v.SetDefault("ynab.budget_id", "last-used")
	v.SetDefault("ynab.base_url", "https://api.ynab.com/v1")
	v.SetDefault("ynab.timeout_seconds", 30)
	v.SetDefault("ynab.max_retries", 3)
	v.SetDefault("ynab.requests_per_minute", 60)

	v.SetDefault("analysis.start_date", "")
	v.SetDefault("analysis.end_date", "")
	v.SetDefault("analysis.lookback_days", 14)
	v.SetDefault("analysis.excluded_payees", []string{})
	v.SetDefault("analysis.excluded_payee_prefixes", []string{"Transfer"})
	v.SetDefault("analysis.excluded_categories", []string{})
	v.SetDefault("analysis.excluded_accounts", []string{})
	v.SetDefault("analysis.forecast_months_history", forecast.DefaultMonths)
	v.SetDefault("analysis.significant_adjustment_threshold", "50")
	v.SetDefault("analysis.target_total", "")

	v.SetDefault("report.top_n", 5)
	v.SetDefault("report.chart_limit", 15)
	v.SetDefault("report.charts", true)
	v.SetDefault("report.output_dir", "")
	v.SetDefault("report.snapshot_format", "")
}

// Validate checks every value that can be checked without the network.
// The API token is checked separately by RequireCredentials.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return &analysiserror.ConfigError{Key: "log.level", Reason: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return &analysiserror.ConfigError{Key: "log.format", Reason: fmt.Sprintf("%q must be 'text' or 'json'", c.Log.Format)}
	}
	if c.YNAB.TimeoutSeconds < 1 || c.YNAB.TimeoutSeconds > 300 {
		return &analysiserror.ConfigError{Key: "ynab.timeout_seconds", Reason: fmt.Sprintf("must be between 1 and 300, got %d", c.YNAB.TimeoutSeconds)}
	}
	if c.YNAB.MaxRetries < 0 || c.YNAB.MaxRetries > 10 {
		return &analysiserror.ConfigError{Key: "ynab.max_retries", Reason: fmt.Sprintf("must be between 0 and 10, got %d", c.YNAB.MaxRetries)}
	}
	if c.YNAB.RequestsPerMinute < 1 {
		return &analysiserror.ConfigError{Key: "ynab.requests_per_minute", Reason: "must be at least 1"}
	}
	if c.Analysis.LookbackDays < 0 {
		return &analysiserror.ConfigError{Key: "analysis.lookback_days", Reason: "must not be negative"}
	}
	if c.Analysis.ForecastMonthsHistory < 1 {
		return &analysiserror.ConfigError{Key: "analysis.forecast_months_history", Reason: "must be at least 1"}
	}
	if _, err := c.AdjustmentThreshold(); err != nil {
		return err
	}
	if _, err := c.TargetTotal(); err != nil {
		return err
	}
	if _, err := c.FilterPolicy(time.Now()); err != nil {
		return err
	}
	if c.Report.TopN < 1 {
		return &analysiserror.ConfigError{Key: "report.top_n", Reason: "must be at least 1"}
	}
	if c.Report.ChartLimit < 1 {
		return &analysiserror.ConfigError{Key: "report.chart_limit", Reason: "must be at least 1"}
	}
	switch c.Report.SnapshotFormat {
	case "", "json", "yaml":
	default:
		return &analysiserror.ConfigError{Key: "report.snapshot_format", Reason: fmt.Sprintf("%q must be 'json' or 'yaml'", c.Report.SnapshotFormat)}
	}
	return nil
}

// RequireCredentials fails when the token or the budget id is missing.
func (c *Config) RequireCredentials() error {
	if strings.TrimSpace(c.YNAB.APIKey) == "" {
		return &analysiserror.ConfigError{Key: "ynab.api_key", Reason: "YNAB_API_KEY is required"}
	}
	if strings.TrimSpace(c.YNAB.BudgetID) == "" {
		return &analysiserror.ConfigError{Key: "ynab.budget_id", Reason: "a budget id is required"}
	}
	return nil
}

// FilterPolicy builds the run's filter policy. An unset end date means today
// (relative to now); an unset start date means lookback_days before the end.
func (c *Config) FilterPolicy(now time.Time) (models.FilterPolicy, error) {
	end := dateutils.TruncateToDay(now)
	if c.Analysis.EndDate != "" {
		parsed, err := dateutils.ParseDate(c.Analysis.EndDate)
		if err != nil {
			return models.FilterPolicy{}, &analysiserror.ConfigError{Key: "analysis.end_date", Reason: err.Error()}
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -c.Analysis.LookbackDays)
	if c.Analysis.StartDate != "" {
		parsed, err := dateutils.ParseDate(c.Analysis.StartDate)
		if err != nil {
			return models.FilterPolicy{}, &analysiserror.ConfigError{Key: "analysis.start_date", Reason: err.Error()}
		}
		start = parsed
	}

	if start.After(end) {
		return models.FilterPolicy{}, &analysiserror.ConfigError{
			Key:    "analysis.start_date",
			Reason: fmt.Sprintf("%s is after end date %s", dateutils.ToISODate(start), dateutils.ToISODate(end)),
		}
	}

	return models.FilterPolicy{
		StartDate:             start,
		EndDate:               end,
		ExcludedPayees:        c.Analysis.ExcludedPayees,
		ExcludedPayeePrefixes: c.Analysis.ExcludedPayeePrefixes,
		ExcludedCategories:    c.Analysis.ExcludedCategories,
		ExcludedAccounts:      c.Analysis.ExcludedAccounts,
	}, nil
}

// AdjustmentThreshold returns the amount from which a recommended budget change
// is highlighted in reports.
func (c *Config) AdjustmentThreshold() (decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Analysis.SignificantAdjustmentThreshold)
	if raw == "" {
		return decimal.NewFromInt(50), nil
	}
	threshold, err := decimal.NewFromString(raw)
	if err != nil || threshold.IsNegative() {
		return decimal.Zero, &analysiserror.ConfigError{Key: "analysis.significant_adjustment_threshold", Reason: fmt.Sprintf("%q is not a non-negative amount", raw)}
	}
	return threshold, nil
}

// TargetTotal returns the configured allocation target, invalid when unset.
func (c *Config) TargetTotal() (decimal.NullDecimal, error) {
	return ParseTarget(c.Analysis.TargetTotal)
}

// ParseTarget parses an allocation target amount. An empty string means unset.
func ParseTarget(raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	target, err := decimal.NewFromString(raw)
	if err != nil || target.IsNegative() {
		return decimal.NullDecimal{}, &analysiserror.ConfigError{Key: "analysis.target_total", Reason: fmt.Sprintf("%q is not a non-negative amount", raw)}
	}
	return decimal.NewNullDecimal(target), nil
}

// RequestTimeout is the per-request timeout for the budgeting service.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.YNAB.TimeoutSeconds) * time.Second
}
