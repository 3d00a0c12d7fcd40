// Package categories implements the command listing the budget's categories.
package categories

import (
	"fjacquet/budget-analyzer/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List the budget's categories with their budgeted, activity and balance amounts",
	RunE:  categoriesFunc,
}

func categoriesFunc(cmd *cobra.Command, args []string) error {
	c, err := root.LoadContainer()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	budgets, err := c.GetPipeline().CategoryBudgets(cmd.Context(), c.GetConfig().YNAB.BudgetID)
	if err != nil {
		return err
	}
	return c.NewConsole(cmd.OutOrStdout()).RenderCategories(budgets)
}
