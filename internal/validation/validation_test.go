package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	apperrors "gitlab.com/yelinaung/expense-manager/internal/errors"
	"gitlab.com/yelinaung/expense-manager/internal/models"
)

func validExpense() models.Expense {
	return models.Expense{
		UserID:      1,
		Amount:      decimal.RequireFromString("25.50"),
		Category:    models.CategoryFood,
		Description: "Lunch",
		Date:        "2024-02-29",
		Type:        models.TypeExpense,
	}
}

func TestValidator_Expense(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(e *models.Expense)
		wantErr string
	}{
		{name: "valid expense", mutate: func(*models.Expense) {}},
		{name: "valid income", mutate: func(e *models.Expense) {
			e.Type = models.TypeIncome
			e.Category = models.CategorySalary
		}},
		{name: "empty description allowed", mutate: func(e *models.Expense) { e.Description = "" }},
		{name: "zero amount", mutate: func(e *models.Expense) { e.Amount = decimal.Zero }, wantErr: "Amount must be greater than 0"},
		{name: "negative amount", mutate: func(e *models.Expense) { e.Amount = decimal.NewFromInt(-5) }, wantErr: "Amount must be greater than 0"},
		{name: "too many decimals", mutate: func(e *models.Expense) { e.Amount = decimal.RequireFromString("1.005") }, wantErr: "decimal places"},
		{name: "trailing zeros are fine", mutate: func(e *models.Expense) { e.Amount = decimal.RequireFromString("1.500") }},
		{name: "missing user", mutate: func(e *models.Expense) { e.UserID = 0 }, wantErr: "UserID"},
		{name: "missing category", mutate: func(e *models.Expense) { e.Category = "" }, wantErr: "Category is required"},
		{name: "category of other type", mutate: func(e *models.Expense) { e.Category = models.CategorySalary }, wantErr: "not allowed"},
		{name: "legacy type literal", mutate: func(e *models.Expense) { e.Type = "chi" }, wantErr: "must be expense or income"},
		{name: "bad date format", mutate: func(e *models.Expense) { e.Date = "2024-2-1" }, wantErr: "YYYY-MM-DD"},
		{name: "impossible date", mutate: func(e *models.Expense) { e.Date = "2023-02-29" }, wantErr: "YYYY-MM-DD"},
		{name: "long description", mutate: func(e *models.Expense) { e.Description = strings.Repeat("x", 513) }, wantErr: "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(&e)

			err := v.Expense(&e)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, errors.Is(err, apperrors.ErrInvalidInput))
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidator_User(t *testing.T) {
	v := New()

	valid := models.User{
		Username:    "alice",
		FullName:    "Alice Nguyen",
		DateOfBirth: "1995-06-15",
	}

	t.Run("accepts optional fields empty", func(t *testing.T) {
		u := valid
		require.NoError(t, v.User(&u))
	})

	t.Run("requires username", func(t *testing.T) {
		u := valid
		u.Username = ""
		err := v.User(&u)
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
		require.Contains(t, err.Error(), "Username is required")
	})

	t.Run("requires full name", func(t *testing.T) {
		u := valid
		u.FullName = ""
		require.ErrorIs(t, v.User(&u), apperrors.ErrInvalidInput)
	})

	t.Run("checks date of birth format", func(t *testing.T) {
		u := valid
		u.DateOfBirth = "15/06/1995"
		err := v.User(&u)
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
		require.Contains(t, err.Error(), "DateOfBirth")
	})
}

func TestValidator_Password(t *testing.T) {
	v := New()

	require.NoError(t, v.Password("secret"))
	require.ErrorIs(t, v.Password("12345"), apperrors.ErrInvalidInput)
	require.ErrorIs(t, v.Password(strings.Repeat("a", 73)), apperrors.ErrInvalidInput)
	require.NoError(t, v.Password(strings.Repeat("a", 72)))
}
