// Package pipeline runs one analysis: fetch, normalize, filter, then the
// variance stage and the optional forecast and allocation stages.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"fjacquet/budget-analyzer/internal/aggregator"
	"fjacquet/budget-analyzer/internal/allocation"
	"fjacquet/budget-analyzer/internal/dateutils"
	"fjacquet/budget-analyzer/internal/filter"
	"fjacquet/budget-analyzer/internal/forecast"
	"fjacquet/budget-analyzer/internal/logging"
	"fjacquet/budget-analyzer/internal/models"
	"fjacquet/budget-analyzer/internal/normalizer"
	"fjacquet/budget-analyzer/internal/variance"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Source is the budgeting data source. Implementations must be safe for
// concurrent use; both reads are issued in parallel.
type Source interface {
	FetchTransactions(ctx context.Context, budgetID string, since time.Time) ([]models.RawTransaction, error)
	FetchCategoryBudgets(ctx context.Context, budgetID string) ([]models.RawCategoryGroup, error)
}

// Stages selects the optional stages of a run. Variance always runs.
type Stages struct {
	Forecast   bool
	Allocation bool
}

// Options describes one run.
type Options struct {
	BudgetID string
	Policy   models.FilterPolicy
	Stages   Stages

	// ForecastMonths is the trailing history window of the forecast and
	// allocation stages.
	ForecastMonths      int
	Target              decimal.NullDecimal
	AdjustmentThreshold decimal.Decimal

	// FetchTimeout bounds each read. Zero leaves the reads bounded only by ctx.
	FetchTimeout time.Duration
}

// Pipeline wires the analysis components around a Source.
type Pipeline struct {
	source     Source
	logger     logging.Logger
	normalizer *normalizer.Normalizer
	aggregator *aggregator.Aggregator
	now        func() time.Time
}

// New creates a Pipeline reading from source.
func New(source Source, logger logging.Logger) *Pipeline {
	return &Pipeline{
		source:     source,
		logger:     logger.WithField(logging.FieldComponent, "pipeline"),
		normalizer: normalizer.New(logger),
		aggregator: aggregator.New(logger),
		now:        time.Now,
	}
}

// Run executes the analysis. Any source or malformed-record error aborts the run
// and no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*models.AnalysisResult, error) {
	policy := opts.Policy
	months := opts.ForecastMonths
	if months < 1 {
		months = forecast.DefaultMonths
	}

	windowEnd := policy.EndDate
	if windowEnd.IsZero() {
		windowEnd = p.now()
	}
	windowStart, windowEnd := forecast.Window(windowEnd, months)
	historical := opts.Stages.Forecast || opts.Stages.Allocation

	since := policy.StartDate
	if historical && !since.IsZero() && windowStart.Before(since) {
		since = windowStart
	}

	p.logger.Info("Starting analysis",
		logging.F(logging.FieldBudgetID, opts.BudgetID),
		logging.F(logging.FieldStartDate, dateutils.ToISODate(policy.StartDate)),
		logging.F(logging.FieldEndDate, dateutils.ToISODate(policy.EndDate)),
		logging.F("forecast", opts.Stages.Forecast),
		logging.F("allocation", opts.Stages.Allocation))

	rawTxs, rawGroups, err := p.fetch(ctx, opts.BudgetID, since, opts.FetchTimeout)
	if err != nil {
		return nil, err
	}

	txs, err := p.normalizer.Transactions(rawTxs)
	if err != nil {
		return nil, fmt.Errorf("normalizing transactions: %w", err)
	}
	budgets, err := p.normalizer.CategoryBudgets(rawGroups)
	if err != nil {
		return nil, fmt.Errorf("normalizing categories: %w", err)
	}

	filtered := filter.Apply(txs, policy)
	p.logger.Debug("Filtered transactions",
		logging.F(logging.FieldStage, "filter"),
		logging.F(logging.FieldCount, len(filtered)),
		logging.F(logging.FieldSkipped, len(txs)-len(filtered)))

	spending := p.aggregator.ByCategory(filtered)

	result := &models.AnalysisResult{
		BudgetID:           opts.BudgetID,
		GeneratedAt:        p.now().UTC(),
		Policy:             policy,
		TransactionCount:   len(txs),
		FilteredCount:      len(filtered),
		Budgets:            budgets,
		SpendingByCategory: spending,
		Variance:           variance.Analyze(budgets, spending),
	}

	if historical {
		history := filter.Apply(txs, policy.WithRange(windowStart, windowEnd))
		p.logger.Debug("Selected history window",
			logging.F(logging.FieldStartDate, dateutils.ToISODate(windowStart)),
			logging.F(logging.FieldEndDate, dateutils.ToISODate(windowEnd)),
			logging.F(logging.FieldCount, len(history)))

		if opts.Stages.Forecast {
			result.Forecast = p.runForecast(history, budgets, windowStart, windowEnd)
		}
		if opts.Stages.Allocation {
			result.Allocation = p.runAllocation(history, budgets, opts.Target, opts.AdjustmentThreshold)
		}
	}

	p.logger.Info("Analysis complete",
		logging.F(logging.FieldCount, len(filtered)),
		logging.F("over_budget", len(result.Variance.OverBudget)),
		logging.F("under_budget", len(result.Variance.UnderBudget)))
	return result, nil
}

// CategoryBudgets fetches and normalizes the budget's categories only.
func (p *Pipeline) CategoryBudgets(ctx context.Context, budgetID string) ([]models.CategoryBudget, error) {
	groups, err := p.source.FetchCategoryBudgets(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	return p.normalizer.CategoryBudgets(groups)
}

// fetch issues both reads concurrently and waits for both. The first failure
// cancels the other read.
func (p *Pipeline) fetch(ctx context.Context, budgetID string, since time.Time, timeout time.Duration) ([]models.RawTransaction, []models.RawCategoryGroup, error) {
	var (
		rawTxs    []models.RawTransaction
		rawGroups []models.RawCategoryGroup
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		readCtx, cancel := withOptionalTimeout(gctx, timeout)
		defer cancel()
		var err error
		rawTxs, err = p.source.FetchTransactions(readCtx, budgetID, since)
		return err
	})
	g.Go(func() error {
		readCtx, cancel := withOptionalTimeout(gctx, timeout)
		defer cancel()
		var err error
		rawGroups, err = p.source.FetchCategoryBudgets(readCtx, budgetID)
		return err
	})

	if err := g.Wait(); err != nil {
		p.logger.WithError(err).Error("Failed to fetch budget data",
			logging.F(logging.FieldBudgetID, budgetID))
		return nil, nil, err
	}

	p.logger.Debug("Fetched budget data",
		logging.F(logging.FieldCount, len(rawTxs)),
		logging.F("category_groups", len(rawGroups)))
	return rawTxs, rawGroups, nil
}

func (p *Pipeline) runForecast(history []models.Transaction, budgets []models.CategoryBudget, start, end time.Time) *models.ForecastResult {
	monthly := p.aggregator.ByMonthCategory(history)
	stats := forecast.Stats(monthly)
	rows := forecast.Forecast(stats)

	p.logger.Debug("Forecast computed",
		logging.F(logging.FieldStage, "forecast"),
		logging.F(logging.FieldCount, len(rows)))

	return &models.ForecastResult{
		WindowStart: start,
		WindowEnd:   end,
		Monthly:     monthly,
		Stats:       stats,
		Rows:        rows,
		Comparison:  forecast.CompareToBudget(rows, budgets),
	}
}

func (p *Pipeline) runAllocation(history []models.Transaction, budgets []models.CategoryBudget, target decimal.NullDecimal, threshold decimal.Decimal) *models.AllocationResult {
	totals := p.aggregator.ByCategory(history)
	rows := allocation.Recommend(totals, target)

	p.logger.Debug("Allocation computed",
		logging.F(logging.FieldStage, "allocation"),
		logging.F(logging.FieldCount, len(rows)))

	return &models.AllocationResult{
		TargetTotal: allocation.TargetOrTotal(totals, target),
		Rows:        rows,
		Comparison:  allocation.CompareToBudget(rows, budgets, threshold),
	}
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
