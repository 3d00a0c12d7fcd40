// Package normalizer converts raw budgeting-service records into the canonical
// Transaction and CategoryBudget values used by the rest of the pipeline.
package normalizer

import (
	"errors"

	"fjacquet/budget-analyzer/internal/analysiserror"
	"fjacquet/budget-analyzer/internal/dateutils"
	"fjacquet/budget-analyzer/internal/logging"
	"fjacquet/budget-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// Normalizer turns raw records into normalized ones. A single malformed record
// rejects the whole batch.
type Normalizer struct {
	logger logging.Logger
}

// New creates a Normalizer.
func New(logger logging.Logger) *Normalizer {
	return &Normalizer{
		logger: logger.WithField(logging.FieldComponent, "normalizer"),
	}
}

// Transactions normalizes raw transactions. Deleted records are skipped; a record
// without amount or with an unparsable date yields a *MalformedRecordError.
func (n *Normalizer) Transactions(raw []models.RawTransaction) ([]models.Transaction, error) {
	out := make([]models.Transaction, 0, len(raw))
	skipped := 0

	for i, r := range raw {
		if r.Deleted {
			skipped++
			continue
		}
		tx, err := Transaction(i, r)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}

	n.logger.Debug("Normalized transactions",
		logging.F(logging.FieldCount, len(out)),
		logging.F(logging.FieldSkipped, skipped))
	return out, nil
}

// Transaction normalizes one raw transaction found at position index of its batch.
func Transaction(index int, r models.RawTransaction) (models.Transaction, error) {
	if r.Amount == nil {
		return models.Transaction{}, &analysiserror.MalformedRecordError{
			Kind: "transaction", Index: index, ID: r.ID, Field: "amount",
		}
	}
	if r.Date == "" {
		return models.Transaction{}, &analysiserror.MalformedRecordError{
			Kind: "transaction", Index: index, ID: r.ID, Field: "date",
		}
	}
	date, err := dateutils.ParseDate(r.Date)
	if err != nil {
		return models.Transaction{}, &analysiserror.MalformedRecordError{
			Kind: "transaction", Index: index, ID: r.ID, Field: "date", Value: r.Date, Err: err,
		}
	}

	inflow, outflow := SplitAmount(models.FromMilliunits(*r.Amount))

	return models.Transaction{
		Date:     date,
		Payee:    deref(r.PayeeName),
		Category: deref(r.CategoryName),
		Account:  r.AccountName,
		Outflow:  outflow,
		Inflow:   inflow,
	}, nil
}

// SplitAmount splits a signed amount into non-negative inflow and outflow parts.
func SplitAmount(amount decimal.Decimal) (inflow, outflow decimal.Decimal) {
	switch amount.Sign() {
	case 1:
		return amount, decimal.Zero
	case -1:
		return decimal.Zero, amount.Neg()
	default:
		return decimal.Zero, decimal.Zero
	}
}

// CategoryBudgets flattens category groups into one CategoryBudget per category.
// Deleted groups and categories are skipped.
func (n *Normalizer) CategoryBudgets(groups []models.RawCategoryGroup) ([]models.CategoryBudget, error) {
	var out []models.CategoryBudget
	skipped := 0
	index := 0

	for _, g := range groups {
		if g.Deleted {
			skipped += len(g.Categories)
			index += len(g.Categories)
			continue
		}
		for _, c := range g.Categories {
			i := index
			index++
			if c.Deleted {
				skipped++
				continue
			}
			budget, err := categoryBudget(i, g.Name, c)
			if err != nil {
				return nil, err
			}
			out = append(out, budget)
		}
	}

	n.logger.Debug("Normalized category budgets",
		logging.F(logging.FieldCount, len(out)),
		logging.F(logging.FieldSkipped, skipped))
	return out, nil
}

func categoryBudget(index int, group string, c models.RawCategory) (models.CategoryBudget, error) {
	malformed := func(field string) error {
		return &analysiserror.MalformedRecordError{Kind: "category", Index: index, ID: c.ID, Field: field}
	}

	if c.Name == "" {
		return models.CategoryBudget{}, malformed("name")
	}
	if c.Budgeted == nil {
		return models.CategoryBudget{}, malformed("budgeted")
	}
	if c.Activity == nil {
		return models.CategoryBudget{}, malformed("activity")
	}
	if c.Balance == nil {
		return models.CategoryBudget{}, malformed("balance")
	}

	return models.CategoryBudget{
		Category: c.Name,
		Group:    group,
		Budgeted: models.FromMilliunits(*c.Budgeted),
		Activity: models.FromMilliunits(*c.Activity),
		Balance:  models.FromMilliunits(*c.Balance),
	}, nil
}

// IsMalformed reports whether err was caused by a malformed record.
func IsMalformed(err error) bool {
	var malformed *analysiserror.MalformedRecordError
	return errors.As(err, &malformed)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
