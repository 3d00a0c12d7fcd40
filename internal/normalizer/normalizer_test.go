package normalizer

import (
	"errors"
	"testing"
	"time"

	"fjacquet/budget-analyzer/internal/analysiserror"
	"fjacquet/budget-analyzer/internal/logging"
	"fjacquet/budget-analyzer/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestTransactions_SplitsSignedAmount(t *testing.T) {
	n := New(logging.NewMockLogger())

	raw := []models.RawTransaction{
		{ID: "a", Date: "2024-01-05", Amount: ptr(int64(-50000)), PayeeName: ptr("Store"), CategoryName: ptr("Groceries"), AccountName: "Checking"},
		{ID: "b", Date: "2024-01-06", Amount: ptr(int64(2500000)), PayeeName: ptr("Employer"), CategoryName: ptr("Inflow: Ready to Assign")},
		{ID: "c", Date: "2024-01-07", Amount: ptr(int64(0))},
	}

	txs, err := n.Transactions(raw)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.Equal(t, "Store", txs[0].Payee)
	assert.Equal(t, "Checking", txs[0].Account)
	assert.True(t, decimal.NewFromInt(50).Equal(txs[0].Outflow))
	assert.True(t, txs[0].Inflow.IsZero())

	assert.True(t, decimal.NewFromInt(2500).Equal(txs[1].Inflow))
	assert.True(t, txs[1].Outflow.IsZero())

	assert.True(t, txs[2].Inflow.IsZero())
	assert.True(t, txs[2].Outflow.IsZero())
	assert.Equal(t, "", txs[2].Payee, "missing payee becomes empty string")
	assert.Equal(t, "", txs[2].Category)
}

func TestTransactions_OneSidedInvariant(t *testing.T) {
	n := New(logging.NewMockLogger())

	var raw []models.RawTransaction
	for amount := int64(-5005); amount <= 5005; amount += 77 {
		raw = append(raw, models.RawTransaction{Date: "2024-03-01", Amount: ptr(amount)})
	}

	txs, err := n.Transactions(raw)
	require.NoError(t, err)
	for i, tx := range txs {
		assert.False(t, tx.Inflow.IsNegative(), "row %d inflow negative", i)
		assert.False(t, tx.Outflow.IsNegative(), "row %d outflow negative", i)
		assert.False(t, !tx.Inflow.IsZero() && !tx.Outflow.IsZero(), "row %d has both sides", i)
		signed := tx.Inflow.Sub(tx.Outflow)
		assert.True(t, models.FromMilliunits(*raw[i].Amount).Equal(signed), "row %d lost precision", i)
	}
}

func TestTransactions_SkipsDeleted(t *testing.T) {
	logger := logging.NewMockLogger()
	n := New(logger)

	txs, err := n.Transactions([]models.RawTransaction{
		{ID: "gone", Deleted: true},
		{ID: "kept", Date: "2024-01-01", Amount: ptr(int64(-1000))},
	})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.True(t, logger.HasEntry("DEBUG", "Normalized transactions"))
}

func TestTransactions_MalformedFailsBatch(t *testing.T) {
	tests := []struct {
		name  string
		raw   models.RawTransaction
		field string
	}{
		{name: "missing amount", raw: models.RawTransaction{ID: "x", Date: "2024-01-01"}, field: "amount"},
		{name: "missing date", raw: models.RawTransaction{ID: "x", Amount: ptr(int64(-1))}, field: "date"},
		{name: "unparsable date", raw: models.RawTransaction{ID: "x", Date: "2024-02-30", Amount: ptr(int64(-1))}, field: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(logging.NewMockLogger())
			good := models.RawTransaction{ID: "ok", Date: "2024-01-01", Amount: ptr(int64(-1000))}

			txs, err := n.Transactions([]models.RawTransaction{good, tt.raw})
			require.Error(t, err)
			assert.Nil(t, txs, "no partial batch is returned")
			assert.True(t, IsMalformed(err))

			var malformed *analysiserror.MalformedRecordError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.field, malformed.Field)
			assert.Equal(t, 1, malformed.Index)
			assert.Equal(t, "transaction", malformed.Kind)
		})
	}
}

func TestCategoryBudgets(t *testing.T) {
	n := New(logging.NewMockLogger())

	groups := []models.RawCategoryGroup{
		{
			Name: "Everyday",
			Categories: []models.RawCategory{
				{Name: "Groceries", Budgeted: ptr(int64(200000)), Activity: ptr(int64(-250000)), Balance: ptr(int64(-50000))},
				{Name: "Old", Deleted: true},
			},
		},
		{Name: "Retired", Deleted: true, Categories: []models.RawCategory{{Name: "Legacy"}}},
		{
			Name: "Fun",
			Categories: []models.RawCategory{
				{Name: "Dining", Budgeted: ptr(int64(100500)), Activity: ptr(int64(0)), Balance: ptr(int64(100500))},
			},
		},
	}

	budgets, err := n.CategoryBudgets(groups)
	require.NoError(t, err)
	require.Len(t, budgets, 2)

	assert.Equal(t, "Groceries", budgets[0].Category)
	assert.Equal(t, "Everyday", budgets[0].Group)
	assert.True(t, decimal.NewFromInt(200).Equal(budgets[0].Budgeted))
	assert.True(t, decimal.NewFromInt(-250).Equal(budgets[0].Activity))
	assert.True(t, decimal.NewFromInt(-50).Equal(budgets[0].Balance))

	assert.Equal(t, "Dining", budgets[1].Category)
	assert.True(t, decimal.RequireFromString("100.5").Equal(budgets[1].Budgeted))
}

func TestCategoryBudgets_Malformed(t *testing.T) {
	n := New(logging.NewMockLogger())

	_, err := n.CategoryBudgets([]models.RawCategoryGroup{{
		Name:       "Everyday",
		Categories: []models.RawCategory{{Name: "Groceries", Budgeted: ptr(int64(1)), Activity: ptr(int64(1))}},
	}})

	var malformed *analysiserror.MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "category", malformed.Kind)
	assert.Equal(t, "balance", malformed.Field)
}

func TestSplitAmount(t *testing.T) {
	in, out := SplitAmount(decimal.RequireFromString("-0.001"))
	assert.True(t, in.IsZero())
	assert.True(t, decimal.RequireFromString("0.001").Equal(out))
}
