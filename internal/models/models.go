// Package models defines the domain entities for the expense manager.
package models

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage format of every date column.
const DateLayout = "2006-01-02"

// AmountScale is the number of fractional digits an amount may carry.
const AmountScale = 2

// Password length limits. bcrypt ignores input beyond 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// TransactionType distinguishes outflows from inflows.
type TransactionType string

// Canonical transaction types. These are the only values stored or compared.
const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

// Valid reports whether t is one of the canonical types.
func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// ParseTransactionType converts a canonical code into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// Expense categories.
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryEntertainment = "Entertainment"
	CategoryHealth        = "Health"
	CategoryEducation     = "Education"
	CategoryBills         = "Bills"
	CategoryOther         = "Other"
)

// Income categories. CategoryOther is shared with expenses.
const (
	CategorySalary     = "Salary"
	CategoryBonus      = "Bonus"
	CategoryInvestment = "Investment"
	CategoryBusiness   = "Business"
)

var (
	expenseCategories = []string{
		CategoryFood, CategoryTransport, CategoryShopping, CategoryEntertainment,
		CategoryHealth, CategoryEducation, CategoryBills, CategoryOther,
	}
	incomeCategories = []string{
		CategorySalary, CategoryBonus, CategoryInvestment, CategoryBusiness, CategoryOther,
	}
)

// CategoriesFor returns a copy of the category set allowed for t.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case TypeExpense:
		return slices.Clone(expenseCategories)
	case TypeIncome:
		return slices.Clone(incomeCategories)
	default:
		return nil
	}
}

// IsValidCategory reports whether category belongs to the set of t.
func IsValidCategory(t TransactionType, category string) bool {
	switch t {
	case TypeExpense:
		return slices.Contains(expenseCategories, category)
	case TypeIncome:
		return slices.Contains(incomeCategories, category)
	default:
		return false
	}
}

// User represents an account on this device.
type User struct {
	ID           int64
	Username     string `validate:"required,max=64"`
	PasswordHash string
	FullName     string `validate:"required,max=128"`
	DateOfBirth  string `validate:"required,iso_date"`
	Address      string `validate:"max=256"`
	Occupation   string `validate:"max=128"`
}

// Expense represents a single transaction, either an expense or an income.
type Expense struct {
	ID          int64
	UserID      int64           `validate:"gt=0"`
	Amount      decimal.Decimal `validate:"gt=0"`
	Category    string          `validate:"required"`
	Description string          `validate:"max=512"`
	Date        string          `validate:"required,iso_date"`
	Type        TransactionType `validate:"required,transaction_type"`
}

// Summary holds the derived totals for a scope (all-time or a month).
type Summary struct {
	TotalExpense decimal.Decimal
	TotalIncome  decimal.Decimal
	Balance      decimal.Decimal
}

// NewSummary derives the balance from the two totals.
func NewSummary(totalExpense, totalIncome decimal.Decimal) Summary {
	return Summary{
		TotalExpense: totalExpense,
		TotalIncome:  totalIncome,
		Balance:      totalIncome.Sub(totalExpense),
	}
}

// CategoryShare is one slice of a category breakdown.
type CategoryShare struct {
	Category string
	Amount   decimal.Decimal
	// Percent of the breakdown total, rounded to two places.
	Percent decimal.Decimal
}
