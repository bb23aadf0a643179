package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"gitlab.com/yelinaung/expense-manager/internal/models"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name       string
		year       int
		month      int
		start, end string
	}{
		{"january", 2024, 1, "2024-01-01", "2024-01-31"},
		{"leap february", 2024, 2, "2024-02-01", "2024-02-29"},
		{"common february", 2023, 2, "2023-02-01", "2023-02-28"},
		{"century february", 1900, 2, "1900-02-01", "1900-02-28"},
		{"april", 2024, 4, "2024-04-01", "2024-04-30"},
		{"december", 2024, 12, "2024-12-01", "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := MonthRange(tt.year, tt.month)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}

	t.Run("rejects out of range month", func(t *testing.T) {
		for _, m := range []int{0, 13, -1} {
			_, _, err := MonthRange(2024, m)
			assert.Error(t, err)
		}
	})

	t.Run("rejects out of range year", func(t *testing.T) {
		_, _, err := MonthRange(0, 5)
		assert.Error(t, err)
		_, _, err = MonthRange(10000, 5)
		assert.Error(t, err)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("empty list is all zeros", func(t *testing.T) {
		s := Summarize(nil)
		assert.True(t, s.TotalExpense.IsZero())
		assert.True(t, s.TotalIncome.IsZero())
		assert.True(t, s.Balance.IsZero())
	})

	t.Run("balance can go negative", func(t *testing.T) {
		s := Summarize([]models.Expense{
			{Amount: decimal.RequireFromString("100.25"), Type: models.TypeExpense},
			{Amount: decimal.RequireFromString("40"), Type: models.TypeIncome},
		})
		assert.Equal(t, "100.25", s.TotalExpense.String())
		assert.Equal(t, "40", s.TotalIncome.String())
		assert.Equal(t, "-60.25", s.Balance.String())
	})
}

func TestSummarize_BalanceProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(rt, "n")
		expenses := make([]models.Expense, n)
		wantExpense, wantIncome := decimal.Zero, decimal.Zero
		for i := range n {
			typ := rapid.SampledFrom([]models.TransactionType{models.TypeExpense, models.TypeIncome}).Draw(rt, "type")
			amount := decimal.New(rapid.Int64Range(1, 100_000_000).Draw(rt, "cents"), -2)
			expenses[i] = models.Expense{Amount: amount, Type: typ}
			if typ == models.TypeExpense {
				wantExpense = wantExpense.Add(amount)
			} else {
				wantIncome = wantIncome.Add(amount)
			}
		}

		s := Summarize(expenses)
		if !s.TotalExpense.Equal(wantExpense) || !s.TotalIncome.Equal(wantIncome) {
			rt.Fatalf("totals %s/%s, want %s/%s", s.TotalExpense, s.TotalIncome, wantExpense, wantIncome)
		}
		if !s.Balance.Equal(s.TotalIncome.Sub(s.TotalExpense)) {
			rt.Fatalf("balance %s != %s - %s", s.Balance, s.TotalIncome, s.TotalExpense)
		}
	})
}

func TestCategoryBreakdown(t *testing.T) {
	expenses := []models.Expense{
		{Amount: decimal.RequireFromString("30"), Category: models.CategoryFood, Type: models.TypeExpense},
		{Amount: decimal.RequireFromString("20"), Category: models.CategoryFood, Type: models.TypeExpense},
		{Amount: decimal.RequireFromString("25"), Category: models.CategoryBills, Type: models.TypeExpense},
		{Amount: decimal.RequireFromString("25"), Category: models.CategoryTransport, Type: models.TypeExpense},
		{Amount: decimal.RequireFromString("500"), Category: models.CategorySalary, Type: models.TypeIncome},
	}

	shares := CategoryBreakdown(expenses, models.TypeExpense)
	require.Len(t, shares, 3)

	assert.Equal(t, models.CategoryFood, shares[0].Category)
	assert.Equal(t, "50", shares[0].Amount.String())
	assert.Equal(t, "50", shares[0].Percent.String())

	// Equal amounts fall back to name order.
	assert.Equal(t, models.CategoryBills, shares[1].Category)
	assert.Equal(t, models.CategoryTransport, shares[2].Category)
	assert.Equal(t, "25", shares[1].Percent.String())

	t.Run("only the requested type", func(t *testing.T) {
		shares := CategoryBreakdown(expenses, models.TypeIncome)
		require.Len(t, shares, 1)
		assert.Equal(t, models.CategorySalary, shares[0].Category)
		assert.Equal(t, "100", shares[0].Percent.String())
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, CategoryBreakdown(nil, models.TypeExpense))
	})
}
