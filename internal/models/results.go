package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the summed outflow of one category.
type CategoryTotal struct {
	Category string          `json:"category" yaml:"category"`
	Outflow  decimal.Decimal `json:"outflow" yaml:"outflow"`
}

// MonthlyAggregate is the summed outflow of one category in one month.
type MonthlyAggregate struct {
	Month      Month           `json:"month" yaml:"month"`
	Category   string          `json:"category" yaml:"category"`
	OutflowSum decimal.Decimal `json:"outflow_sum" yaml:"outflow_sum"`
}

// VarianceRow compares budgeted and actual spending. Negative Variance means the
// category is over budget.
type VarianceRow struct {
	Category string          `json:"category" yaml:"category"`
	Budgeted decimal.Decimal `json:"budgeted" yaml:"budgeted"`
	Outflow  decimal.Decimal `json:"outflow" yaml:"outflow"`
	Variance decimal.Decimal `json:"variance" yaml:"variance"`
}

// VarianceReport holds all variance rows plus the over- and under-budget views.
type VarianceReport struct {
	Rows        []VarianceRow `json:"rows" yaml:"rows"`
	OverBudget  []VarianceRow `json:"over_budget" yaml:"over_budget"`
	UnderBudget []VarianceRow `json:"under_budget" yaml:"under_budget"`
}

// CategoryStats summarises the monthly outflow history of a category.
type CategoryStats struct {
	Category       string          `json:"category" yaml:"category"`
	Average        decimal.Decimal `json:"average" yaml:"average"`
	StdDev         decimal.Decimal `json:"std_dev" yaml:"std_dev"`
	Min            decimal.Decimal `json:"min" yaml:"min"`
	Max            decimal.Decimal `json:"max" yaml:"max"`
	ObservedMonths int             `json:"observed_months" yaml:"observed_months"`
}

// ForecastRow is the next-period spending forecast of a category.
type ForecastRow struct {
	Category   string          `json:"category" yaml:"category"`
	Forecasted decimal.Decimal `json:"forecasted" yaml:"forecasted"`
	LowerBound decimal.Decimal `json:"lower_bound" yaml:"lower_bound"`
	UpperBound decimal.Decimal `json:"upper_bound" yaml:"upper_bound"`
}

// ForecastComparison sets a forecast against the current budget. Gap is
// Budgeted - Forecasted; negative means the budget will likely fall short.
type ForecastComparison struct {
	ForecastRow `yaml:",inline"`
	Budgeted    decimal.Decimal `json:"budgeted" yaml:"budgeted"`
	Gap         decimal.Decimal `json:"gap" yaml:"gap"`
}

// AllocationRow is the recommended budget of a category derived from its share
// of total historical spending.
type AllocationRow struct {
	Category          string          `json:"category" yaml:"category"`
	TotalOutflow      decimal.Decimal `json:"total_outflow" yaml:"total_outflow"`
	PercentageOfTotal decimal.Decimal `json:"percentage_of_total" yaml:"percentage_of_total"`
	RecommendedBudget decimal.Decimal `json:"recommended_budget" yaml:"recommended_budget"`
}

// AllocationComparison sets a recommendation against the current budget.
// Adjustment is RecommendedBudget - Budgeted; Significant marks adjustments at or
// above the configured reporting threshold.
type AllocationComparison struct {
	AllocationRow `yaml:",inline"`
	Budgeted      decimal.Decimal `json:"budgeted" yaml:"budgeted"`
	Adjustment    decimal.Decimal `json:"adjustment" yaml:"adjustment"`
	Significant   bool            `json:"significant" yaml:"significant"`
}

// ForecastResult is the output of the optional forecast stage.
type ForecastResult struct {
	WindowStart time.Time            `json:"window_start" yaml:"window_start"`
	WindowEnd   time.Time            `json:"window_end" yaml:"window_end"`
	Monthly     []MonthlyAggregate   `json:"monthly" yaml:"monthly"`
	Stats       []CategoryStats      `json:"stats" yaml:"stats"`
	Rows        []ForecastRow        `json:"rows" yaml:"rows"`
	Comparison  []ForecastComparison `json:"comparison" yaml:"comparison"`
}

// AllocationResult is the output of the optional allocation stage.
type AllocationResult struct {
	TargetTotal decimal.Decimal        `json:"target_total" yaml:"target_total"`
	Rows        []AllocationRow        `json:"rows" yaml:"rows"`
	Comparison  []AllocationComparison `json:"comparison" yaml:"comparison"`
}

// AnalysisResult is everything a single run produced. Forecast and Allocation are
// nil when their stage was not requested.
type AnalysisResult struct {
	BudgetID           string            `json:"budget_id" yaml:"budget_id"`
	GeneratedAt        time.Time         `json:"generated_at" yaml:"generated_at"`
	Policy             FilterPolicy      `json:"policy" yaml:"policy"`
	TransactionCount   int               `json:"transaction_count" yaml:"transaction_count"`
	FilteredCount      int               `json:"filtered_count" yaml:"filtered_count"`
	Budgets            []CategoryBudget  `json:"budgets" yaml:"budgets"`
	SpendingByCategory []CategoryTotal   `json:"spending_by_category" yaml:"spending_by_category"`
	Variance           VarianceReport    `json:"variance" yaml:"variance"`
	Forecast           *ForecastResult   `json:"forecast,omitempty" yaml:"forecast,omitempty"`
	Allocation         *AllocationResult `json:"allocation,omitempty" yaml:"allocation,omitempty"`
}
