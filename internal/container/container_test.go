package container

import (
	"bytes"
	"context"
	"testing"
	"time"

	"fjacquet/budget-analyzer/internal/analysiserror"
	"fjacquet/budget-analyzer/internal/config"
	"fjacquet/budget-analyzer/internal/logging"
	"fjacquet/budget-analyzer/internal/models"
	"fjacquet/budget-analyzer/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct{}

func (stubSource) FetchTransactions(context.Context, string, time.Time) ([]models.RawTransaction, error) {
	return nil, nil
}

func (stubSource) FetchCategoryBudgets(context.Context, string) ([]models.RawCategoryGroup, error) {
	return nil, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.YNAB.BudgetID = "budget-1"
	cfg.YNAB.TimeoutSeconds = 10
	cfg.YNAB.MaxRetries = 2
	cfg.YNAB.RequestsPerMinute = 60
	cfg.Analysis.LookbackDays = 14
	cfg.Analysis.ExcludedPayeePrefixes = []string{"Transfer"}
	cfg.Analysis.ForecastMonthsHistory = 6
	cfg.Analysis.SignificantAdjustmentThreshold = "25"
	cfg.Report.TopN = 3
	cfg.Report.ChartLimit = 10
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      func() *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      func() *config.Config { return nil },
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:        "missing token",
			config:      testConfig,
			expectError: true,
			errorMsg:    "YNAB_API_KEY is required",
		},
		{
			name: "valid config",
			config: func() *config.Config {
				cfg := testConfig()
				cfg.YNAB.APIKey = "token"
				return cfg
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(tt.config())
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c.GetLogger())
			assert.NotNil(t, c.GetPipeline())
			assert.NotNil(t, c.GetSnapshotGenerator())
			assert.Equal(t, "budget-1", c.GetConfig().YNAB.BudgetID)
			assert.NoError(t, c.Close())
		})
	}
}

func TestNewContainerWithSource_NilSource(t *testing.T) {
	_, err := NewContainerWithSource(testConfig(), nil, logging.NewMockLogger())
	assert.EqualError(t, err, "source cannot be nil")
}

func TestAnalysisOptions(t *testing.T) {
	c, err := NewContainerWithSource(testConfig(), stubSource{}, logging.NewMockLogger())
	require.NoError(t, err)

	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	opts, err := c.AnalysisOptions(pipeline.Stages{Forecast: true}, decimal.NullDecimal{}, now)
	require.NoError(t, err)

	assert.Equal(t, "budget-1", opts.BudgetID)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), opts.Policy.EndDate)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), opts.Policy.StartDate)
	assert.Equal(t, []string{"Transfer"}, opts.Policy.ExcludedPayeePrefixes)
	assert.True(t, opts.Stages.Forecast)
	assert.Equal(t, 6, opts.ForecastMonths)
	assert.False(t, opts.Target.Valid)
	assert.True(t, decimal.NewFromInt(25).Equal(opts.AdjustmentThreshold))
	assert.Equal(t, 60*time.Second, opts.FetchTimeout)
}

func TestAnalysisOptions_TargetOverride(t *testing.T) {
	cfg := testConfig()
	cfg.Analysis.TargetTotal = "1000"
	c, err := NewContainerWithSource(cfg, stubSource{}, logging.NewMockLogger())
	require.NoError(t, err)

	opts, err := c.AnalysisOptions(pipeline.Stages{Allocation: true}, decimal.NullDecimal{}, time.Now())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(opts.Target.Decimal))

	opts, err = c.AnalysisOptions(pipeline.Stages{Allocation: true}, decimal.NewNullDecimal(decimal.NewFromInt(2500)), time.Now())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2500).Equal(opts.Target.Decimal))
}

func TestAnalysisOptions_InvalidDates(t *testing.T) {
	cfg := testConfig()
	cfg.Analysis.StartDate = "not a date"
	c, err := NewContainerWithSource(cfg, stubSource{}, logging.NewMockLogger())
	require.NoError(t, err)

	_, err = c.AnalysisOptions(pipeline.Stages{}, decimal.NullDecimal{}, time.Now())
	var cfgErr *analysiserror.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestContainer_RunsPipelineAndReports(t *testing.T) {
	c, err := NewContainerWithSource(testConfig(), stubSource{}, logging.NewMockLogger())
	require.NoError(t, err)

	opts, err := c.AnalysisOptions(pipeline.Stages{}, decimal.NullDecimal{}, time.Now())
	require.NoError(t, err)

	result, err := c.GetPipeline().Run(context.Background(), opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.NewConsole(&buf).Render(result))
	assert.Contains(t, buf.String(), "Top 3 Over-Budget Categories")

	paths, err := c.NewExporter(t.TempDir()).Export(result)
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}
