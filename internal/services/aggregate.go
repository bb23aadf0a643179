package services

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/yelinaung/expense-manager/internal/models"
)

var hundred = decimal.NewFromInt(100)

// MonthRange returns the first and last calendar day of a month as
// inclusive YYYY-MM-DD bounds.
func MonthRange(year, month int) (start, end string, err error) {
	if month < 1 || month > 12 {
		return "", "", fmt.Errorf("month %d out of range", month)
	}
	if year < 1 || year > 9999 {
		return "", "", fmt.Errorf("year %d out of range", year)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(models.DateLayout), last.Format(models.DateLayout), nil
}

// Summarize derives totals and balance from an already loaded list.
func Summarize(expenses []models.Expense) models.Summary {
	totalExpense, totalIncome := decimal.Zero, decimal.Zero
	for _, e := range expenses {
		switch e.Type {
		case models.TypeExpense:
			totalExpense = totalExpense.Add(e.Amount)
		case models.TypeIncome:
			totalIncome = totalIncome.Add(e.Amount)
		}
	}
	return models.NewSummary(totalExpense, totalIncome)
}

// CategoryBreakdown groups the entries of one type by category and sums
// them. Shares are ordered by amount, largest first, then by name.
func CategoryBreakdown(expenses []models.Expense, typ models.TransactionType) []models.CategoryShare {
	totals := make(map[string]decimal.Decimal)
	grand := decimal.Zero
	for _, e := range expenses {
		if e.Type != typ {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
		grand = grand.Add(e.Amount)
	}

	shares := make([]models.CategoryShare, 0, len(totals))
	for category, amount := range totals {
		share := models.CategoryShare{Category: category, Amount: amount, Percent: decimal.Zero}
		if grand.IsPositive() {
			share.Percent = amount.Mul(hundred).DivRound(grand, 2)
		}
		shares = append(shares, share)
	}

	slices.SortFunc(shares, func(a, b models.CategoryShare) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return shares
}
