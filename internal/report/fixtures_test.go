package report

import (
	"time"

	"fjacquet/budget-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		BudgetID:    "budget-1",
		GeneratedAt: time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC),
		Policy: models.FilterPolicy{
			StartDate:             time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			EndDate:               time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			ExcludedPayeePrefixes: []string{"Transfer"},
		},
		TransactionCount: 5,
		FilteredCount:    2,
		Budgets: []models.CategoryBudget{
			{Category: "Groceries", Group: "Monthly", Budgeted: d("250"), Activity: d("-300"), Balance: d("-50")},
			{Category: "Rent", Group: "Monthly", Budgeted: d("900"), Activity: d("-1000"), Balance: d("-100")},
			{Category: "Fun", Group: "Wants", Budgeted: d("50"), Activity: d("0"), Balance: d("50")},
		},
		SpendingByCategory: []models.CategoryTotal{
			{Category: "Groceries", Outflow: d("300")},
			{Category: "Rent", Outflow: d("1000")},
		},
		Variance: models.VarianceReport{
			Rows: []models.VarianceRow{
				{Category: "Groceries", Budgeted: d("250"), Outflow: d("300"), Variance: d("-50")},
				{Category: "Rent", Budgeted: d("900"), Outflow: d("1000"), Variance: d("-100")},
				{Category: "Fun", Budgeted: d("50"), Outflow: d("0"), Variance: d("50")},
			},
			OverBudget: []models.VarianceRow{
				{Category: "Rent", Budgeted: d("900"), Outflow: d("1000"), Variance: d("-100")},
				{Category: "Groceries", Budgeted: d("250"), Outflow: d("300"), Variance: d("-50")},
			},
			UnderBudget: []models.VarianceRow{
				{Category: "Fun", Budgeted: d("50"), Outflow: d("0"), Variance: d("50")},
			},
		},
		Forecast: &models.ForecastResult{
			WindowStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			WindowEnd:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			Monthly: []models.MonthlyAggregate{
				{Month: models.Month{Year: 2024, Month: time.January}, Category: "Groceries", OutflowSum: d("100")},
			},
			Stats: []models.CategoryStats{
				{Category: "Groceries", Average: d("200"), StdDev: d("100"), Min: d("100"), Max: d("300"), ObservedMonths: 3},
				{Category: "Rent", Average: d("1000"), StdDev: d("0"), Min: d("1000"), Max: d("1000"), ObservedMonths: 1},
			},
			Comparison: []models.ForecastComparison{
				{ForecastRow: models.ForecastRow{Category: "Rent", Forecasted: d("1000"), LowerBound: d("1000"), UpperBound: d("1000")}, Budgeted: d("900"), Gap: d("-100")},
				{ForecastRow: models.ForecastRow{Category: "Groceries", Forecasted: d("200"), LowerBound: d("100"), UpperBound: d("300")}, Budgeted: d("250"), Gap: d("50")},
			},
		},
		Allocation: &models.AllocationResult{
			TargetTotal: d("1600"),
			Comparison: []models.AllocationComparison{
				{AllocationRow: models.AllocationRow{Category: "Rent", TotalOutflow: d("1000"), PercentageOfTotal: d("62.5"), RecommendedBudget: d("1000")}, Budgeted: d("900"), Adjustment: d("100"), Significant: true},
				{AllocationRow: models.AllocationRow{Category: "Groceries", TotalOutflow: d("600"), PercentageOfTotal: d("37.5"), RecommendedBudget: d("600")}, Budgeted: d("250"), Adjustment: d("350"), Significant: true},
			},
		},
	}
}
