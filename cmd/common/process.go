// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/budget-analyzer/internal/config"
	"fjacquet/budget-analyzer/internal/container"
	"fjacquet/budget-analyzer/internal/logging"
	"fjacquet/budget-analyzer/internal/pipeline"
)

// AnalysisFlags are the flags shared by the analysis commands.
type AnalysisFlags struct {
	Target    string
	OutputDir string
	Snapshot  string
}

// RunAnalysis runs the pipeline with the given stages, prints the console report
// and writes the CSV exports and the snapshot when requested.
func RunAnalysis(ctx context.Context, c *container.Container, out io.Writer, stages pipeline.Stages, flags AnalysisFlags) error {
	log := c.GetLogger()
	cfg := c.GetConfig()

	target, err := config.ParseTarget(flags.Target)
	if err != nil {
		return err
	}

	opts, err := c.AnalysisOptions(stages, target, time.Now())
	if err != nil {
		return err
	}

	result, err := c.GetPipeline().Run(ctx, opts)
	if err != nil {
		log.WithError(err).Error("Analysis failed", logging.F(logging.FieldBudgetID, opts.BudgetID))
		return err
	}

	if err := c.NewConsole(out).Render(result); err != nil {
		return err
	}

	outputDir := flags.OutputDir
	if outputDir == "" {
		outputDir = cfg.Report.OutputDir
	}
	if outputDir != "" {
		if _, err := c.NewExporter(outputDir).Export(result); err != nil {
			return err
		}
	}

	snapshot := flags.Snapshot
	if snapshot == "" && outputDir != "" && cfg.Report.SnapshotFormat != "" {
		snapshot = filepath.Join(outputDir, "analysis."+cfg.Report.SnapshotFormat)
	}
	if snapshot != "" {
		format := SnapshotFormat(snapshot, cfg.Report.SnapshotFormat)
		if err := c.GetSnapshotGenerator().WriteFile(result, format, snapshot); err != nil {
			return err
		}
	}
	return nil
}

// SnapshotFormat picks the snapshot format from the file extension, falling back
// to the configured format and then to json.
func SnapshotFormat(path, configured string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	}
	if configured != "" {
		return configured
	}
	return "json"
}
