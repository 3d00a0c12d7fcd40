// Package models contains the value types flowing through the analysis pipeline.
// Every value is built once per run and never mutated afterwards.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a normalized transaction. Exactly one of Outflow and Inflow is
// non-zero (both are zero for a zero amount) and neither is ever negative.
type Transaction struct {
	Date     time.Time       `json:"date" yaml:"date"`
	Payee    string          `json:"payee" yaml:"payee"`
	Category string          `json:"category" yaml:"category"`
	Account  string          `json:"account" yaml:"account"`
	Outflow  decimal.Decimal `json:"outflow" yaml:"outflow"`
	Inflow   decimal.Decimal `json:"inflow" yaml:"inflow"`
}

// Month returns the year-month the transaction belongs to.
func (t Transaction) Month() Month {
	return MonthOf(t.Date)
}

// CategoryBudget holds the current budget period amounts of one category.
type CategoryBudget struct {
	Category string          `json:"category" yaml:"category"`
	Group    string          `json:"group" yaml:"group"`
	Budgeted decimal.Decimal `json:"budgeted" yaml:"budgeted"`
	Activity decimal.Decimal `json:"activity" yaml:"activity"`
	Balance  decimal.Decimal `json:"balance" yaml:"balance"`
}

// BudgetedByCategory indexes budgets by category name. When a name appears in
// several groups the budgeted amounts are summed.
func BudgetedByCategory(budgets []CategoryBudget) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		out[b.Category] = out[b.Category].Add(b.Budgeted)
	}
	return out
}
