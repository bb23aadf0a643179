// Package services orchestrates the data-access layer: it validates input,
// derives totals and balances, and turns storage failures into typed
// application errors.
package services

import (
	"context"

	"github.com/shopspring/decimal"

	"gitlab.com/yelinaung/expense-manager/internal/models"
	"gitlab.com/yelinaung/expense-manager/internal/repository"
)

// UserStore is the data access the user service depends on.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) (int64, error)
	Update(ctx context.Context, user *models.User) (int64, error)
	UpdatePassword(ctx context.Context, id int64, hash string) (int64, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// ExpenseStore is the data access the expense service depends on.
type ExpenseStore interface {
	Insert(ctx context.Context, expense *models.Expense) (int64, error)
	Update(ctx context.Context, expense *models.Expense) (int64, error)
	Delete(ctx context.Context, expense *models.Expense) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	GetAll(ctx context.Context, userID int64) ([]models.Expense, error)
	GetByDateRange(ctx context.Context, userID int64, startDate, endDate string) ([]models.Expense, error)
	GetTotalByType(ctx context.Context, userID int64, typ models.TransactionType) (decimal.NullDecimal, error)
	GetTotalByTypeInRange(ctx context.Context, userID int64, typ models.TransactionType, startDate, endDate string) (decimal.NullDecimal, error)
	GetByID(ctx context.Context, id int64) (*models.Expense, error)
}

var (
	_ UserStore    = (*repository.UserRepository)(nil)
	_ ExpenseStore = (*repository.ExpenseRepository)(nil)
)
