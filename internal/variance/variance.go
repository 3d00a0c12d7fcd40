// Package variance compares budgeted amounts with actual spending per category.
package variance

import (
	"sort"

	"fjacquet/budget-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// Analyze left-joins budgets with the aggregated outflow. Categories without
// spending get an outflow of zero; rows where both budgeted and outflow are zero
// are dropped. Rows keep the budget order. Spending in a category absent from the
// budget list does not produce a row.
func Analyze(budgets []models.CategoryBudget, totals []models.CategoryTotal) models.VarianceReport {
	outflow := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		outflow[t.Category] = outflow[t.Category].Add(t.Outflow)
	}

	rows := make([]models.VarianceRow, 0, len(budgets))
	for _, b := range budgets {
		spent := outflow[b.Category]
		if b.Budgeted.IsZero() && spent.IsZero() {
			continue
		}
		rows = append(rows, models.VarianceRow{
			Category: b.Category,
			Budgeted: b.Budgeted,
			Outflow:  spent,
			Variance: b.Budgeted.Sub(spent),
		})
	}

	return models.VarianceReport{
		Rows:        rows,
		OverBudget:  OverBudget(rows),
		UnderBudget: UnderBudget(rows),
	}
}

// OverBudget returns the rows with negative variance, most negative first.
func OverBudget(rows []models.VarianceRow) []models.VarianceRow {
	out := selectRows(rows, func(v decimal.Decimal) bool { return v.IsNegative() })
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Variance.Cmp(out[j].Variance); c != 0 {
			return c < 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// UnderBudget returns the rows with positive variance, largest surplus first.
func UnderBudget(rows []models.VarianceRow) []models.VarianceRow {
	out := selectRows(rows, func(v decimal.Decimal) bool { return v.IsPositive() })
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Variance.Cmp(out[j].Variance); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func selectRows(rows []models.VarianceRow, keep func(decimal.Decimal) bool) []models.VarianceRow {
	out := make([]models.VarianceRow, 0)
	for _, r := range rows {
		if keep(r.Variance) {
			out = append(out, r)
		}
	}
	return out
}
