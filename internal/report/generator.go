package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/budget-analyzer/internal/logging"
	"fjacquet/budget-analyzer/internal/models"

	"gopkg.in/yaml.v3"
)

// SnapshotGenerator renders a complete analysis result in a machine-readable format.
type SnapshotGenerator struct {
	logger logging.Logger
}

// NewSnapshotGenerator creates a new instance of SnapshotGenerator.
func NewSnapshotGenerator(logger logging.Logger) *SnapshotGenerator {
	return &SnapshotGenerator{
		logger: logger.WithField(logging.FieldComponent, "snapshot"),
	}
}

// Generate renders result as json or yaml.
func (g *SnapshotGenerator) Generate(result *models.AnalysisResult, format string) ([]byte, error) {
	switch format {
	case "json":
		return g.generateJSON(result)
	case "yaml", "yml":
		return g.generateYAML(result)
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s", format)
	}
}

// WriteFile renders result and writes it to path, creating parent directories.
func (g *SnapshotGenerator) WriteFile(result *models.AnalysisResult, format, path string) error {
	data, err := g.Generate(result, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		g.logger.WithError(err).Error("Failed to write snapshot", logging.F(logging.FieldOutputFile, path))
		return fmt.Errorf("error writing snapshot: %w", err)
	}
	g.logger.Info("Wrote snapshot", logging.F(logging.FieldOutputFile, path))
	return nil
}

func (g *SnapshotGenerator) generateJSON(result *models.AnalysisResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON snapshot")
		return nil, fmt.Errorf("failed to marshal JSON snapshot: %w", err)
	}
	return data, nil
}

func (g *SnapshotGenerator) generateYAML(result *models.AnalysisResult) ([]byte, error) {
	data, err := yaml.Marshal(result)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML snapshot")
		return nil, fmt.Errorf("failed to marshal YAML snapshot: %w", err)
	}
	return data, nil
}
