// Package container wires the application's dependencies from a loaded
// configuration so commands receive them explicitly.
package container

import (
	"fmt"
	"io"
	"time"

	"fjacquet/budget-analyzer/internal/config"
	"fjacquet/budget-analyzer/internal/logging"
	"fjacquet/budget-analyzer/internal/pipeline"
	"fjacquet/budget-analyzer/internal/report"
	"fjacquet/budget-analyzer/internal/ynab"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies. It is immutable after creation;
// fields are reached through getters.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	pipeline  *pipeline.Pipeline
	snapshots *report.SnapshotGenerator
}

// NewContainer creates and wires all dependencies against the YNAB API.
// The API token must be configured.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	client := ynab.NewClient(cfg.YNAB.APIKey, ynab.Options{
		BaseURL:           cfg.YNAB.BaseURL,
		Timeout:           cfg.RequestTimeout(),
		MaxRetries:        cfg.YNAB.MaxRetries,
		RequestsPerMinute: cfg.YNAB.RequestsPerMinute,
	}, logger)

	return NewContainerWithSource(cfg, client, logger)
}

// NewContainerWithSource wires the dependencies around an existing source and
// logger.
func NewContainerWithSource(cfg *config.Config, source pipeline.Source, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if source == nil {
		return nil, fmt.Errorf("source cannot be nil")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	logger.Debug("Container initialized",
		logging.F(logging.FieldBudgetID, cfg.YNAB.BudgetID))

	return &Container{
		logger:    logger,
		config:    cfg,
		pipeline:  pipeline.New(source, logger),
		snapshots: report.NewSnapshotGenerator(logger),
	}, nil
}

// AnalysisOptions builds the options of a run from the configuration. A valid
// target overrides the configured one.
func (c *Container) AnalysisOptions(stages pipeline.Stages, target decimal.NullDecimal, now time.Time) (pipeline.Options, error) {
	policy, err := c.config.FilterPolicy(now)
	if err != nil {
		return pipeline.Options{}, err
	}
	threshold, err := c.config.AdjustmentThreshold()
	if err != nil {
		return pipeline.Options{}, err
	}
	if !target.Valid {
		if target, err = c.config.TargetTotal(); err != nil {
			return pipeline.Options{}, err
		}
	}

	return pipeline.Options{
		BudgetID:            c.config.YNAB.BudgetID,
		Policy:              policy,
		Stages:              stages,
		ForecastMonths:      c.config.Analysis.ForecastMonthsHistory,
		Target:              target,
		AdjustmentThreshold: threshold,
		FetchTimeout:        c.fetchTimeout(),
	}, nil
}

// fetchTimeout bounds one read including its retries.
func (c *Container) fetchTimeout() time.Duration {
	return c.config.RequestTimeout() * time.Duration(c.config.YNAB.MaxRetries+1) * 2
}

// NewConsole creates a console reporter writing to out with the configured
// report options.
func (c *Container) NewConsole(out io.Writer) *report.Console {
	return report.NewConsole(out, report.ConsoleOptions{
		TopN:       c.config.Report.TopN,
		ChartLimit: c.config.Report.ChartLimit,
		Charts:     c.config.Report.Charts,
	}, c.logger)
}

// NewExporter creates a CSV exporter writing into dir.
func (c *Container) NewExporter(dir string) *report.Exporter {
	return report.NewExporter(dir, c.logger)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetPipeline returns the analysis pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetSnapshotGenerator returns the snapshot generator.
func (c *Container) GetSnapshotGenerator() *report.SnapshotGenerator {
	return c.snapshots
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
