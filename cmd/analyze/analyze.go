// Package analyze implements the budget variance command.
package analyze

import (
	"fjacquet/budget-analyzer/cmd/common"
	"fjacquet/budget-analyzer/cmd/root"
	"fjacquet/budget-analyzer/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	withForecast   bool
	withAllocation bool
	flags          common.AnalysisFlags
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare spending with budgets and list over- and under-budget categories",
	Long: `Fetch transactions and category budgets, drop excluded payees, categories and
accounts, then compare each category's spending in the date range with its
budgeted amount. Forecast and allocation sections are added on request.`,
	RunE: analyzeFunc,
}

func init() {
	Cmd.Flags().BoolVar(&withForecast, "forecast", false, "Add the spending forecast section")
	Cmd.Flags().BoolVar(&withAllocation, "allocate", false, "Add the budget allocation section")
	Cmd.Flags().StringVar(&flags.Target, "target", "", "Total amount to allocate (default: observed spending)")
	Cmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "o", "", "Directory for CSV exports")
	Cmd.Flags().StringVar(&flags.Snapshot, "snapshot", "", "Write the full result to this .json or .yaml file")
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.LoadContainer()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	stages := pipeline.Stages{Forecast: withForecast, Allocation: withAllocation}
	return common.RunAnalysis(cmd.Context(), c, cmd.OutOrStdout(), stages, flags)
}
