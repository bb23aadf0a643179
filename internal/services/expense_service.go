package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"gitlab.com/yelinaung/expense-manager/internal/logger"
	"gitlab.com/yelinaung/expense-manager/internal/models"
	"gitlab.com/yelinaung/expense-manager/internal/validation"
)

// SummaryField names one of the three derived values of a summary.
type SummaryField int

// Summary fields in the order they become available.
const (
	FieldTotalExpense SummaryField = iota
	FieldTotalIncome
	FieldBalance
)

func (f SummaryField) String() string {
	switch f {
	case FieldTotalExpense:
		return "total_expense"
	case FieldTotalIncome:
		return "total_income"
	case FieldBalance:
		return "balance"
	default:
		return fmt.Sprintf("SummaryField(%d)", int(f))
	}
}

// ReportFunc receives each summary value as soon as it is known. It may be
// called from more than one goroutine.
type ReportFunc func(field SummaryField, value decimal.Decimal)

// ExpenseService manages transactions and derives their totals.
type ExpenseService struct {
	expenses ExpenseStore
	validate *validation.Validator
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenses ExpenseStore, validate *validation.Validator) *ExpenseService {
	return &ExpenseService{expenses: expenses, validate: validate}
}

// LoadSummary computes the all-time totals and balance for a user. Both
// totals are queried concurrently; report, when non-nil, sees each total as
// it arrives and the balance last. A user with no rows gets zeros.
func (s *ExpenseService) LoadSummary(ctx context.Context, userID int64, report ReportFunc) (models.Summary, error) {
	return s.loadSummary(ctx, report, func(ctx context.Context, typ models.TransactionType) (decimal.NullDecimal, error) {
		return s.expenses.GetTotalByType(ctx, userID, typ)
	})
}

// LoadMonthSummary is LoadSummary restricted to one calendar month.
func (s *ExpenseService) LoadMonthSummary(ctx context.Context, userID int64, year, month int, report ReportFunc) (models.Summary, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return models.Summary{}, invalidInput(err)
	}
	return s.loadSummary(ctx, report, func(ctx context.Context, typ models.TransactionType) (decimal.NullDecimal, error) {
		return s.expenses.GetTotalByTypeInRange(ctx, userID, typ, start, end)
	})
}

type totalFunc func(ctx context.Context, typ models.TransactionType) (decimal.NullDecimal, error)

func (s *ExpenseService) loadSummary(ctx context.Context, report ReportFunc, total totalFunc) (models.Summary, error) {
	if report == nil {
		report = func(SummaryField, decimal.Decimal) {}
	}

	var totalExpense, totalIncome decimal.Decimal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := total(gctx, models.TypeExpense)
		if err != nil {
			return fmt.Errorf("failed to total expenses: %w", err)
		}
		totalExpense = orZero(v)
		report(FieldTotalExpense, totalExpense)
		return nil
	})
	g.Go(func() error {
		v, err := total(gctx, models.TypeIncome)
		if err != nil {
			return fmt.Errorf("failed to total income: %w", err)
		}
		totalIncome = orZero(v)
		report(FieldTotalIncome, totalIncome)
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load summary")
		return models.Summary{}, storageError(err)
	}

	summary := models.NewSummary(totalExpense, totalIncome)
	report(FieldBalance, summary.Balance)
	return summary, nil
}

// AllExpenses returns every transaction of a user, newest first.
func (s *ExpenseService) AllExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	expenses, err := s.expenses.GetAll(ctx, userID)
	if err != nil {
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(userID)).Msg("Failed to list expenses")
		return nil, storageError(err)
	}
	return expenses, nil
}

// ExpensesByMonth returns the transactions dated within one calendar month.
func (s *ExpenseService) ExpensesByMonth(ctx context.Context, userID int64, year, month int) ([]models.Expense, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return nil, invalidInput(err)
	}
	expenses, err := s.expenses.GetByDateRange(ctx, userID, start, end)
	if err != nil {
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(userID)).Msg("Failed to list expenses by month")
		return nil, storageError(err)
	}
	return expenses, nil
}

// MonthBreakdown groups a month's transactions of one type by category.
func (s *ExpenseService) MonthBreakdown(ctx context.Context, userID int64, year, month int, typ models.TransactionType) ([]models.CategoryShare, error) {
	if !typ.Valid() {
		return nil, invalidInput(fmt.Errorf("unknown transaction type %q", typ))
	}
	expenses, err := s.ExpensesByMonth(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	return CategoryBreakdown(expenses, typ), nil
}

// InsertExpense validates and stores a transaction. A zero ID creates a new
// row and sets expense.ID; a non-zero ID replaces that row.
func (s *ExpenseService) InsertExpense(ctx context.Context, expense *models.Expense) (bool, error) {
	if err := s.validate.Expense(expense); err != nil {
		return false, err
	}
	id, err := s.expenses.Insert(ctx, expense)
	if err != nil {
		logger.Log.Error().Err(err).
			Str("user", logger.HashUserID(expense.UserID)).
			Str("description", logger.SanitizeDescription(expense.Description)).
			Msg("Failed to insert expense")
		return false, storageError(err)
	}
	return id > 0, nil
}

// UpdateExpense saves changes to an existing transaction. It reports false
// when no row has the given ID.
func (s *ExpenseService) UpdateExpense(ctx context.Context, expense *models.Expense) (bool, error) {
	if err := s.validate.Expense(expense); err != nil {
		return false, err
	}
	n, err := s.expenses.Update(ctx, expense)
	if err != nil {
		logger.Log.Error().Err(err).Int64("expense_id", expense.ID).Msg("Failed to update expense")
		return false, storageError(err)
	}
	return n > 0, nil
}

// DeleteExpense removes the row with expense.ID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expense *models.Expense) (bool, error) {
	n, err := s.expenses.Delete(ctx, expense)
	if err != nil {
		logger.Log.Error().Err(err).Int64("expense_id", expense.ID).Msg("Failed to delete expense")
		return false, storageError(err)
	}
	return n > 0, nil
}

// DeleteExpenseByID removes the row with id.
func (s *ExpenseService) DeleteExpenseByID(ctx context.Context, id int64) (bool, error) {
	n, err := s.expenses.DeleteByID(ctx, id)
	if err != nil {
		logger.Log.Error().Err(err).Int64("expense_id", id).Msg("Failed to delete expense")
		return false, storageError(err)
	}
	return n > 0, nil
}

// GetExpenseByID returns the transaction with id, or nil when there is none.
func (s *ExpenseService) GetExpenseByID(ctx context.Context, id int64) (*models.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	return expense, nil
}

// CurrentMonth returns the year and month of now in local time.
func CurrentMonth(now time.Time) (year, month int) {
	return now.Year(), int(now.Month())
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
