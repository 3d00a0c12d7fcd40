// Package report renders analysis results: styled terminal tables and charts,
// CSV exports and JSON/YAML snapshots. Nothing here feeds back into the analysis.
package report

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/budget-analyzer/internal/dateutils"
	"fjacquet/budget-analyzer/internal/logging"
	"fjacquet/budget-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

const chartWidth = 40

// ConsoleOptions controls what the console report shows.
type ConsoleOptions struct {
	TopN       int
	ChartLimit int
	Charts     bool
}

// Console writes the human-readable report.
type Console struct {
	out    io.Writer
	opts   ConsoleOptions
	logger logging.Logger
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer, opts ConsoleOptions, logger logging.Logger) *Console {
	if opts.TopN < 1 {
		opts.TopN = 5
	}
	if opts.ChartLimit < 1 {
		opts.ChartLimit = 15
	}
	return &Console{
		out:    out,
		opts:   opts,
		logger: logger.WithField(logging.FieldComponent, "console"),
	}
}

// Render writes the summary, the variance tables and, when present, the forecast
// and allocation sections.
func (c *Console) Render(result *models.AnalysisResult) error {
	var b strings.Builder

	b.WriteString(RenderTitle("Budget Analysis Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s   %s %s to %s   %s %d of %d transactions\n\n",
		mutedStyle.Render("Budget:"), valueStyle.Render(result.BudgetID),
		mutedStyle.Render("Period:"), dateutils.ToISODate(result.Policy.StartDate), dateutils.ToISODate(result.Policy.EndDate),
		mutedStyle.Render("Counted:"), result.FilteredCount, result.TransactionCount)

	c.writeVariance(&b, result.Variance)
	if result.Forecast != nil {
		c.writeForecast(&b, result.Forecast)
	}
	if result.Allocation != nil {
		c.writeAllocation(&b, result.Allocation)
	}

	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	c.logger.Debug("Console report written")
	return nil
}

// RenderCategories lists the budget's categories with their current amounts.
func (c *Console) RenderCategories(budgets []models.CategoryBudget) error {
	var b strings.Builder

	b.WriteString(RenderTitle("Budget Categories"))
	b.WriteString("\n")
	if len(budgets) == 0 {
		b.WriteString(RenderNotice("No categories found."))
	} else {
		t := Table{Headers: []string{"Category", "Group", "Budgeted", "Activity", "Balance"}}
		for _, cb := range budgets {
			t.Rows = append(t.Rows, []string{
				cb.Category, cb.Group,
				models.FormatCurrency(cb.Budgeted),
				models.FormatCurrency(cb.Activity),
				models.FormatCurrency(cb.Balance),
			})
		}
		b.WriteString(RenderTable(t))
	}

	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return fmt.Errorf("failed to write categories: %w", err)
	}
	return nil
}

func (c *Console) writeVariance(b *strings.Builder, v models.VarianceReport) {
	sections := []struct {
		title  string
		rows   []models.VarianceRow
		notice string
	}{
		{fmt.Sprintf("Top %d Over-Budget Categories", c.opts.TopN), v.OverBudget, "No categories are over budget. Great job!"},
		{fmt.Sprintf("Top %d Under-Budget Categories", c.opts.TopN), v.UnderBudget, "No categories are under budget."},
	}

	for _, s := range sections {
		if len(s.rows) == 0 {
			b.WriteString("  ")
			b.WriteString(headerStyle.Render(s.title))
			b.WriteString("\n")
			b.WriteString(RenderNotice(s.notice))
			b.WriteString("\n")
			continue
		}
		b.WriteString(RenderTable(varianceTable(s.title, head(s.rows, c.opts.TopN))))
		b.WriteString("\n")
	}

	if !c.opts.Charts {
		return
	}
	if len(v.OverBudget) > 0 {
		b.WriteString(RenderBarChart("Categories Over Budget", varianceBars(head(v.OverBudget, c.opts.ChartLimit)), ColorRed, chartWidth))
		b.WriteString("\n")
	}
	if len(v.UnderBudget) > 0 {
		b.WriteString(RenderBarChart("Categories Under Budget", varianceBars(head(v.UnderBudget, c.opts.ChartLimit)), ColorGreen, chartWidth))
		b.WriteString("\n")
	}
}

func varianceTable(title string, rows []models.VarianceRow) Table {
	t := Table{Title: title, Headers: []string{"Category", "Budgeted", "Outflow", "Variance"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Category,
			models.FormatCurrency(r.Budgeted),
			models.FormatCurrency(r.Outflow),
			models.FormatCurrency(r.Variance),
		})
	}
	return t
}

func varianceBars(rows []models.VarianceRow) []BarEntry {
	entries := make([]BarEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, BarEntry{
			Label: r.Category,
			Value: r.Variance.InexactFloat64(),
			Text:  models.FormatCurrency(r.Variance),
		})
	}
	return entries
}

func (c *Console) writeForecast(b *strings.Builder, f *models.ForecastResult) {
	title := fmt.Sprintf("Spending Forecast (history %s to %s)", dateutils.ToISODate(f.WindowStart), dateutils.ToISODate(f.WindowEnd))
	if len(f.Comparison) == 0 {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(title))
		b.WriteString("\n")
		b.WriteString(RenderNotice("No spending history in the forecast window."))
		b.WriteString("\n")
		return
	}

	t := Table{
		Title:     title,
		Headers:   []string{"Category", "Forecast", "Low", "High", "Budgeted", "Gap"},
		Highlight: map[int]bool{},
	}
	for i, r := range f.Comparison {
		t.Rows = append(t.Rows, []string{
			r.Category,
			models.FormatCurrency(r.Forecasted),
			models.FormatCurrency(r.LowerBound),
			models.FormatCurrency(r.UpperBound),
			models.FormatCurrency(r.Budgeted),
			models.FormatCurrency(r.Gap),
		})
		if r.Gap.IsNegative() {
			t.Highlight[i] = true
		}
	}
	b.WriteString(RenderTable(t))
	b.WriteString("\n")

	if !c.opts.Charts {
		return
	}
	entries := make([]GroupedEntry, 0, c.opts.ChartLimit)
	for _, r := range head(f.Comparison, c.opts.ChartLimit) {
		entries = append(entries, GroupedEntry{
			Label:      r.Category,
			First:      r.Forecasted.InexactFloat64(),
			Second:     r.Budgeted.InexactFloat64(),
			FirstText:  models.FormatCurrency(r.Forecasted),
			SecondText: models.FormatCurrency(r.Budgeted),
		})
	}
	b.WriteString(RenderGroupedBarChart("Forecast vs Budget", "forecast", "budgeted", entries, chartWidth))
	b.WriteString("\n")
}

func (c *Console) writeAllocation(b *strings.Builder, a *models.AllocationResult) {
	title := fmt.Sprintf("Recommended Allocation (target %s)", models.FormatCurrency(a.TargetTotal))
	if len(a.Comparison) == 0 {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(title))
		b.WriteString("\n")
		b.WriteString(RenderNotice("No spending to base an allocation on."))
		b.WriteString("\n")
		return
	}

	t := Table{
		Title:     title,
		Headers:   []string{"Category", "Spent", "Share", "Recommended", "Budgeted", "Adjustment"},
		Highlight: map[int]bool{},
	}
	for i, r := range a.Comparison {
		t.Rows = append(t.Rows, []string{
			r.Category,
			models.FormatCurrency(r.TotalOutflow),
			models.FormatPercent(r.PercentageOfTotal),
			models.FormatCurrency(r.RecommendedBudget),
			models.FormatCurrency(r.Budgeted),
			models.FormatCurrency(r.Adjustment),
		})
		if r.Significant {
			t.Highlight[i] = true
		}
	}
	b.WriteString(RenderTable(t))
	b.WriteString("\n")

	if !c.opts.Charts {
		return
	}

	top := head(a.Comparison, c.opts.ChartLimit)
	entries := make([]GroupedEntry, 0, len(top))
	labels := make([]string, 0, len(top)+1)
	shares := make([]float64, 0, len(top)+1)
	rest := decimal.NewFromInt(100)
	for _, r := range top {
		entries = append(entries, GroupedEntry{
			Label:      r.Category,
			First:      r.RecommendedBudget.InexactFloat64(),
			Second:     r.Budgeted.InexactFloat64(),
			FirstText:  models.FormatCurrency(r.RecommendedBudget),
			SecondText: models.FormatCurrency(r.Budgeted),
		})
		labels = append(labels, r.Category)
		shares = append(shares, r.PercentageOfTotal.InexactFloat64())
		rest = rest.Sub(r.PercentageOfTotal)
	}
	if len(a.Comparison) > len(top) && rest.IsPositive() {
		labels = append(labels, "Other")
		shares = append(shares, rest.InexactFloat64())
	}

	b.WriteString(RenderGroupedBarChart("Recommended vs Budgeted", "recommended", "budgeted", entries, chartWidth))
	b.WriteString("\n")
	if rest.LessThan(decimal.NewFromInt(100)) {
		b.WriteString(RenderShareBar("Share of Spending", labels, shares, chartWidth+20))
		b.WriteString("\n")
	}
}

// head returns at most n leading elements.
func head[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
