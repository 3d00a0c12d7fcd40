package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/budget-analyzer/internal/logging"
	"fjacquet/budget-analyzer/internal/models"

	"github.com/gocarina/gocsv"
)

// Export file names inside the output directory.
const (
	VarianceFile   = "variance.csv"
	ForecastFile   = "forecast.csv"
	AllocationFile = "allocation.csv"
)

type varianceCSVRow struct {
	Category string `csv:"Category"`
	Budgeted string `csv:"Budgeted"`
	Outflow  string `csv:"Outflow"`
	Variance string `csv:"Variance"`
	Status   string `csv:"Status"`
}

type forecastCSVRow struct {
	Category       string `csv:"Category"`
	Forecasted     string `csv:"Forecasted"`
	LowerBound     string `csv:"LowerBound"`
	UpperBound     string `csv:"UpperBound"`
	Budgeted       string `csv:"Budgeted"`
	Gap            string `csv:"Gap"`
	ObservedMonths int    `csv:"ObservedMonths"`
}

type allocationCSVRow struct {
	Category          string `csv:"Category"`
	TotalOutflow      string `csv:"TotalOutflow"`
	PercentageOfTotal string `csv:"PercentageOfTotal"`
	RecommendedBudget string `csv:"RecommendedBudget"`
	Budgeted          string `csv:"Budgeted"`
	Adjustment        string `csv:"Adjustment"`
	Significant       bool   `csv:"Significant"`
}

// Exporter writes the result tables as CSV files into a directory.
type Exporter struct {
	dir       string
	delimiter rune
	logger    logging.Logger
}

// NewExporter creates an exporter writing into dir.
func NewExporter(dir string, logger logging.Logger) *Exporter {
	return &Exporter{
		dir:       dir,
		delimiter: ',',
		logger:    logger.WithField(logging.FieldComponent, "exporter"),
	}
}

// Export writes every table present in result and returns the written paths.
// Amounts are written with two decimals, percentages with four.
func (e *Exporter) Export(result *models.AnalysisResult) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0750); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	var written []string

	path, err := e.write(VarianceFile, varianceRows(result.Variance.Rows))
	if err != nil {
		return written, err
	}
	written = append(written, path)

	if result.Forecast != nil {
		path, err := e.write(ForecastFile, forecastRows(result.Forecast))
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if result.Allocation != nil {
		path, err := e.write(AllocationFile, allocationRows(result.Allocation.Comparison))
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func (e *Exporter) write(name string, rows interface{}) (string, error) {
	path := filepath.Join(e.dir, name)

	file, err := os.Create(path)
	if err != nil {
		e.logger.WithError(err).Error("Failed to create CSV file", logging.F(logging.FieldOutputFile, path))
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close file", logging.F(logging.FieldOutputFile, path))
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = e.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		e.logger.WithError(err).Error("Failed to marshal CSV", logging.F(logging.FieldOutputFile, path))
		return "", fmt.Errorf("error writing CSV data: %w", err)
	}

	e.logger.Info("Wrote CSV export", logging.F(logging.FieldOutputFile, path))
	return path, nil
}

func varianceRows(rows []models.VarianceRow) []varianceCSVRow {
	out := make([]varianceCSVRow, 0, len(rows))
	for _, r := range rows {
		status := "on budget"
		switch r.Variance.Sign() {
		case -1:
			status = "over"
		case 1:
			status = "under"
		}
		out = append(out, varianceCSVRow{
			Category: r.Category,
			Budgeted: r.Budgeted.StringFixed(2),
			Outflow:  r.Outflow.StringFixed(2),
			Variance: r.Variance.StringFixed(2),
			Status:   status,
		})
	}
	return out
}

func forecastRows(f *models.ForecastResult) []forecastCSVRow {
	observed := make(map[string]int, len(f.Stats))
	for _, s := range f.Stats {
		observed[s.Category] = s.ObservedMonths
	}

	out := make([]forecastCSVRow, 0, len(f.Comparison))
	for _, r := range f.Comparison {
		out = append(out, forecastCSVRow{
			Category:       r.Category,
			Forecasted:     r.Forecasted.StringFixed(2),
			LowerBound:     r.LowerBound.StringFixed(2),
			UpperBound:     r.UpperBound.StringFixed(2),
			Budgeted:       r.Budgeted.StringFixed(2),
			Gap:            r.Gap.StringFixed(2),
			ObservedMonths: observed[r.Category],
		})
	}
	return out
}

func allocationRows(rows []models.AllocationComparison) []allocationCSVRow {
	out := make([]allocationCSVRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, allocationCSVRow{
			Category:          r.Category,
			TotalOutflow:      r.TotalOutflow.StringFixed(2),
			PercentageOfTotal: r.PercentageOfTotal.StringFixed(4),
			RecommendedBudget: r.RecommendedBudget.StringFixed(2),
			Budgeted:          r.Budgeted.StringFixed(2),
			Adjustment:        r.Adjustment.StringFixed(2),
			Significant:       r.Significant,
		})
	}
	return out
}
