// Package allocation recommends a budget per category proportional to the
// category's share of total historical spending.
package allocation

import (
	"sort"

	"fjacquet/budget-analyzer/internal/aggregator"
	"fjacquet/budget-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Recommend computes each category's percentage of total outflow and scales it
// against target. An invalid (unset) target defaults to the total outflow. When
// nothing was spent every percentage and recommendation is zero. Rows are sorted
// by percentage, largest first, ties by category.
func Recommend(totals []models.CategoryTotal, target decimal.NullDecimal) []models.AllocationRow {
	total := aggregator.Total(totals)
	targetTotal := total
	if target.Valid {
		targetTotal = target.Decimal
	}

	out := make([]models.AllocationRow, 0, len(totals))
	for _, t := range totals {
		pct := decimal.Zero
		if !total.IsZero() {
			pct = t.Outflow.Div(total).Mul(hundred)
		}
		out = append(out, models.AllocationRow{
			Category:          t.Category,
			TotalOutflow:      t.Outflow,
			PercentageOfTotal: pct,
			RecommendedBudget: pct.Div(hundred).Mul(targetTotal),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].PercentageOfTotal.Cmp(out[j].PercentageOfTotal); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TargetOrTotal returns the effective target total used by Recommend.
func TargetOrTotal(totals []models.CategoryTotal, target decimal.NullDecimal) decimal.Decimal {
	if target.Valid {
		return target.Decimal
	}
	return aggregator.Total(totals)
}

// CompareToBudget joins recommendations with the current budgeted amounts.
// Adjustment is recommended minus budgeted; Significant flags adjustments whose
// absolute value reaches threshold. The input order is kept.
func CompareToBudget(rows []models.AllocationRow, budgets []models.CategoryBudget, threshold decimal.Decimal) []models.AllocationComparison {
	budgeted := models.BudgetedByCategory(budgets)

	out := make([]models.AllocationComparison, 0, len(rows))
	for _, r := range rows {
		b := budgeted[r.Category]
		adjustment := r.RecommendedBudget.Sub(b)
		out = append(out, models.AllocationComparison{
			AllocationRow: r,
			Budgeted:      b,
			Adjustment:    adjustment,
			Significant:   adjustment.Abs().GreaterThanOrEqual(threshold),
		})
	}
	return out
}
