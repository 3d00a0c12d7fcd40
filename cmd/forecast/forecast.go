// Package forecast implements the forecast and allocation command.
package forecast

import (
	"fjacquet/budget-analyzer/cmd/common"
	"fjacquet/budget-analyzer/cmd/root"
	"fjacquet/budget-analyzer/internal/pipeline"

	"github.com/spf13/cobra"
)

var flags common.AnalysisFlags

// Cmd represents the forecast command
var Cmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast next month's spending and recommend a budget allocation",
	Long: `Run the variance analysis together with the forecast and allocation stages.
The forecast uses the trailing analysis.forecast_months_history complete months;
the allocation splits the target total by each category's share of that history.`,
	RunE: forecastFunc,
}

func init() {
	Cmd.Flags().StringVar(&flags.Target, "target", "", "Total amount to allocate (default: observed spending)")
	Cmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "o", "", "Directory for CSV exports")
	Cmd.Flags().StringVar(&flags.Snapshot, "snapshot", "", "Write the full result to this .json or .yaml file")
}

func forecastFunc(cmd *cobra.Command, args []string) error {
	c, err := root.LoadContainer()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	stages := pipeline.Stages{Forecast: true, Allocation: true}
	return common.RunAnalysis(cmd.Context(), c, cmd.OutOrStdout(), stages, flags)
}
