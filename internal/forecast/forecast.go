// Package forecast derives per-category spending statistics from monthly
// aggregates and turns them into a next-period forecast with confidence bounds.
//
// The forecast is the historical mean; the bounds are one sample standard
// deviation either side, with the lower bound clamped at zero. The caller limits
// the history to the trailing window (see Window) before aggregating.
package forecast

import (
	"math"
	"sort"
	"time"

	"fjacquet/budget-analyzer/internal/dateutils"
	"fjacquet/budget-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultMonths is the default trailing-window length.
const DefaultMonths = 3

// Window returns the inclusive date range covering the trailing window of months
// complete calendar months that end at end. When end is the last day of its month
// that month is part of the window, otherwise the window stops at the end of the
// previous month. months below one is treated as one.
func Window(end time.Time, months int) (time.Time, time.Time) {
	if months < 1 {
		months = 1
	}
	end = dateutils.TruncateToDay(end)
	last := models.MonthOf(end)
	if !end.Equal(last.End()) {
		last = last.AddMonths(-1)
	}
	first := last.AddMonths(-(months - 1))
	return first.Start(), last.End()
}

// Stats computes mean, sample standard deviation, min, max and observed month
// count per category, sorted by category. A category observed in a single month
// has a standard deviation of zero.
func Stats(monthly []models.MonthlyAggregate) []models.CategoryStats {
	series := make(map[string][]decimal.Decimal)
	for _, m := range monthly {
		series[m.Category] = append(series[m.Category], m.OutflowSum)
	}

	out := make([]models.CategoryStats, 0, len(series))
	for category, values := range series {
		out = append(out, statsOf(category, values))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}

func statsOf(category string, values []decimal.Decimal) models.CategoryStats {
	n := int64(len(values))
	minV, maxV := values[0], values[0]
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
		minV = decimal.Min(minV, v)
		maxV = decimal.Max(maxV, v)
	}
	mean := sum.Div(decimal.NewFromInt(n))

	return models.CategoryStats{
		Category:       category,
		Average:        mean,
		StdDev:         sampleStdDev(values, mean),
		Min:            minV,
		Max:            maxV,
		ObservedMonths: len(values),
	}
}

// sampleStdDev uses the N-1 divisor and returns zero for fewer than two values.
func sampleStdDev(values []decimal.Decimal, mean decimal.Decimal) decimal.Decimal {
	if len(values) < 2 {
		return decimal.Zero
	}
	squares := decimal.Zero
	for _, v := range values {
		diff := v.Sub(mean)
		squares = squares.Add(diff.Mul(diff))
	}
	variance, _ := squares.Div(decimal.NewFromInt(int64(len(values) - 1))).Float64()
	sd := math.Sqrt(variance)
	if math.IsNaN(sd) || math.IsInf(sd, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(sd)
}

// Forecast turns statistics into forecast rows, keeping the input order.
func Forecast(stats []models.CategoryStats) []models.ForecastRow {
	out := make([]models.ForecastRow, 0, len(stats))
	for _, s := range stats {
		out = append(out, models.ForecastRow{
			Category:   s.Category,
			Forecasted: s.Average,
			LowerBound: decimal.Max(decimal.Zero, s.Average.Sub(s.StdDev)),
			UpperBound: s.Average.Add(s.StdDev),
		})
	}
	return out
}

// CompareToBudget joins forecasts with the current budgeted amounts and sorts the
// result by forecast, largest first. Categories without a budget compare against
// zero.
func CompareToBudget(rows []models.ForecastRow, budgets []models.CategoryBudget) []models.ForecastComparison {
	budgeted := models.BudgetedByCategory(budgets)

	out := make([]models.ForecastComparison, 0, len(rows))
	for _, r := range rows {
		b := budgeted[r.Category]
		out = append(out, models.ForecastComparison{
			ForecastRow: r,
			Budgeted:    b,
			Gap:         b.Sub(r.Forecasted),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Forecasted.Cmp(out[j].Forecasted); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
