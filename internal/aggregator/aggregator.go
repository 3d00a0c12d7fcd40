// Package aggregator sums transaction outflows per category and per
// (month, category) pair.
package aggregator

import (
	"sort"

	"fjacquet/budget-analyzer/internal/logging"
	"fjacquet/budget-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// Aggregator groups filtered transactions. It holds no state besides its logger.
type Aggregator struct {
	logger logging.Logger
}

// New creates an Aggregator.
func New(logger logging.Logger) *Aggregator {
	return &Aggregator{
		logger: logger.WithField(logging.FieldComponent, "aggregator"),
	}
}

// ByCategory sums outflow per category, one row per category present in txs,
// sorted by category name. Uncategorised transactions are not attributed to any
// category.
func (a *Aggregator) ByCategory(txs []models.Transaction) []models.CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	uncategorised := 0

	for _, tx := range txs {
		if tx.Category == "" {
			uncategorised++
			continue
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.Outflow)
	}

	out := make([]models.CategoryTotal, 0, len(sums))
	for category, sum := range sums {
		out = append(out, models.CategoryTotal{Category: category, Outflow: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})

	a.logger.Debug("Aggregated outflow by category",
		logging.F(logging.FieldCount, len(out)),
		logging.F(logging.FieldSkipped, uncategorised))
	return out
}

type monthCategory struct {
	month    models.Month
	category string
}

// ByMonthCategory sums outflow per (month, category), sorted by month then
// category.
func (a *Aggregator) ByMonthCategory(txs []models.Transaction) []models.MonthlyAggregate {
	sums := make(map[monthCategory]decimal.Decimal)

	for _, tx := range txs {
		if tx.Category == "" {
			continue
		}
		key := monthCategory{month: tx.Month(), category: tx.Category}
		sums[key] = sums[key].Add(tx.Outflow)
	}

	out := make([]models.MonthlyAggregate, 0, len(sums))
	for key, sum := range sums {
		out = append(out, models.MonthlyAggregate{
			Month:      key.month,
			Category:   key.category,
			OutflowSum: sum,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month.Before(out[j].Month)
		}
		return out[i].Category < out[j].Category
	})

	a.logger.Debug("Aggregated outflow by month and category", logging.F(logging.FieldCount, len(out)))
	return out
}

// Total sums the outflow of all category totals. An empty input sums to zero.
func Total(totals []models.CategoryTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Outflow)
	}
	return sum
}
