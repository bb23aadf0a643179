// Package repository holds the typed data-access operations over the local
// store. It contains no business rules: absent rows come back as nil and
// storage failures are returned wrapped.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"gitlab.com/yelinaung/expense-manager/internal/database"
	apperrors "gitlab.com/yelinaung/expense-manager/internal/errors"
	"gitlab.com/yelinaung/expense-manager/internal/models"
)

const expenseColumns = `id, userId, amount, category, description, date, type`

// ExpenseRepository handles expense database operations.
type ExpenseRepository struct {
	db database.DBTX
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db database.DBTX) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Insert adds an expense and sets expense.ID. When expense.ID is already
// set, the row with that id is overwritten, or created if absent. Overwriting
// a row that belongs to another user is refused with ErrConstraintViolation.
func (r *ExpenseRepository) Insert(ctx context.Context, expense *models.Expense) (int64, error) {
	if expense.ID != 0 {
		return r.replace(ctx, expense)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (userId, amount, category, description, date, type)
		VALUES (?, ?, ?, ?, ?, ?)
	`, expense.UserID, expense.Amount, expense.Category, expense.Description, expense.Date, string(expense.Type))
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense: %w", classify(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read expense id: %w", err)
	}
	expense.ID = id
	return id, nil
}

func (r *ExpenseRepository) replace(ctx context.Context, expense *models.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, userId, amount, category, description, date, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount = excluded.amount,
			category = excluded.category,
			description = excluded.description,
			date = excluded.date,
			type = excluded.type
		WHERE expenses.userId = excluded.userId
	`, expense.ID, expense.UserID, expense.Amount, expense.Category, expense.Description, expense.Date, string(expense.Type))
	if err != nil {
		return 0, fmt.Errorf("failed to replace expense: %w", classify(err))
	}

	n, err := rowsAffected(res)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrConstraintViolation,
			fmt.Sprintf("expense %d belongs to another user", expense.ID))
	}
	return expense.ID, nil
}

// Update replaces category, amount, description, date and type of the
// expense with expense.ID. The owner is never changed.
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET
			amount = ?,
			category = ?,
			description = ?,
			date = ?,
			type = ?
		WHERE id = ?
	`, expense.Amount, expense.Category, expense.Description, expense.Date, string(expense.Type), expense.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update expense: %w", classify(err))
	}
	return rowsAffected(res)
}

// Delete removes the given expense.
func (r *ExpenseRepository) Delete(ctx context.Context, expense *models.Expense) (int64, error) {
	return r.DeleteByID(ctx, expense.ID)
}

// DeleteByID removes an expense by ID.
func (r *ExpenseRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expense: %w", err)
	}
	return rowsAffected(res)
}

// GetAll retrieves every expense of a user, newest date first.
func (r *ExpenseRepository) GetAll(ctx context.Context, userID int64) ([]models.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE userId = ?
		ORDER BY date DESC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// GetByDateRange retrieves a user's expenses dated within [startDate, endDate].
// Dates are compared as YYYY-MM-DD strings.
func (r *ExpenseRepository) GetByDateRange(ctx context.Context, userID int64, startDate, endDate string) ([]models.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE userId = ? AND date >= ? AND date <= ?
		ORDER BY date DESC, id ASC
	`, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by date range: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// GetTotalByType sums a user's amounts of one type. The result is invalid
// (not zero) when the user has no matching rows.
func (r *ExpenseRepository) GetTotalByType(ctx context.Context, userID int64, typ models.TransactionType) (decimal.NullDecimal, error) {
	var total decimal.NullDecimal
	err := r.db.QueryRowContext(ctx, `
		SELECT ROUND(SUM(amount), 2) FROM expenses
		WHERE userId = ? AND type = ?
	`, userID, string(typ)).Scan(&total)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to get total by type: %w", err)
	}
	return total, nil
}

// GetTotalByTypeInRange is GetTotalByType restricted to [startDate, endDate].
func (r *ExpenseRepository) GetTotalByTypeInRange(
	ctx context.Context,
	userID int64,
	typ models.TransactionType,
	startDate, endDate string,
) (decimal.NullDecimal, error) {
	var total decimal.NullDecimal
	err := r.db.QueryRowContext(ctx, `
		SELECT ROUND(SUM(amount), 2) FROM expenses
		WHERE userId = ? AND type = ? AND date >= ? AND date <= ?
	`, userID, string(typ), startDate, endDate).Scan(&total)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to get total by type in range: %w", err)
	}
	return total, nil
}

// GetByID retrieves an expense by ID. Returns nil when no expense matches.
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*models.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ? LIMIT 1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, nil
	}
	return &expenses[0], nil
}

// scanExpenses is a helper to scan expense rows.
func scanExpenses(rows *sql.Rows) ([]models.Expense, error) {
	expenses := []models.Expense{}
	for rows.Next() {
		var exp models.Expense
		var typ string
		if err := rows.Scan(
			&exp.ID, &exp.UserID, &exp.Amount, &exp.Category, &exp.Description, &exp.Date, &typ,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		exp.Type = models.TransactionType(typ)
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}
