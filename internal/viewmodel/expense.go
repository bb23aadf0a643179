package viewmodel

import (
	"context"

	"github.com/shopspring/decimal"

	"gitlab.com/yelinaung/expense-manager/internal/models"
	"gitlab.com/yelinaung/expense-manager/internal/services"
	"gitlab.com/yelinaung/expense-manager/internal/viewstate"
)

// ExpenseViewModel backs the list, summary and edit screens.
type ExpenseViewModel struct {
	// Expense is the entry being edited, or nil.
	Expense  viewstate.Stream[*models.Expense]
	Expenses viewstate.Stream[[]models.Expense]

	TotalExpense viewstate.Stream[decimal.Decimal]
	TotalIncome  viewstate.Stream[decimal.Decimal]
	Balance      viewstate.Stream[decimal.Decimal]

	OperationResult viewstate.Event[viewstate.Result[bool]]

	expenses ExpenseManager
	runner
}

// NewExpenseViewModel creates an ExpenseViewModel.
func NewExpenseViewModel(expenses ExpenseManager, dispatch viewstate.Dispatcher) *ExpenseViewModel {
	vm := &ExpenseViewModel{expenses: expenses}
	vm.use(dispatch)
	return vm
}

// LoadAllExpenses publishes every entry of the user on Expenses.
func (vm *ExpenseViewModel) LoadAllExpenses(ctx context.Context, userID int64) {
	vm.background(func() func() {
		list, err := vm.expenses.AllExpenses(ctx, userID)
		if err != nil {
			logQueryFailure(err, "all_expenses", userID)
			list = []models.Expense{}
		}
		return func() { vm.Expenses.Set(list) }
	})
}

// LoadExpensesByMonth publishes the entries of one month on Expenses.
func (vm *ExpenseViewModel) LoadExpensesByMonth(ctx context.Context, userID int64, year, month int) {
	vm.background(func() func() {
		list, err := vm.expenses.ExpensesByMonth(ctx, userID, year, month)
		if err != nil {
			logQueryFailure(err, "expenses_by_month", userID)
			list = []models.Expense{}
		}
		return func() { vm.Expenses.Set(list) }
	})
}

// LoadSummary publishes the all-time totals and balance. Each total is
// published as soon as it is known; the balance follows both.
func (vm *ExpenseViewModel) LoadSummary(ctx context.Context, userID int64) {
	vm.background(func() func() {
		_, err := vm.expenses.LoadSummary(ctx, userID, vm.reportSummary)
		if err != nil {
			logQueryFailure(err, "summary", userID)
			return func() { setAll(decimal.Zero, &vm.TotalExpense, &vm.TotalIncome, &vm.Balance) }
		}
		return nil
	})
}

// LoadMonthSummary is LoadSummary restricted to one calendar month.
func (vm *ExpenseViewModel) LoadMonthSummary(ctx context.Context, userID int64, year, month int) {
	vm.background(func() func() {
		_, err := vm.expenses.LoadMonthSummary(ctx, userID, year, month, vm.reportSummary)
		if err != nil {
			logQueryFailure(err, "month_summary", userID)
			return func() { setAll(decimal.Zero, &vm.TotalExpense, &vm.TotalIncome, &vm.Balance) }
		}
		return nil
	})
}

func (vm *ExpenseViewModel) reportSummary(field services.SummaryField, value decimal.Decimal) {
	var target *viewstate.Stream[decimal.Decimal]
	switch field {
	case services.FieldTotalExpense:
		target = &vm.TotalExpense
	case services.FieldTotalIncome:
		target = &vm.TotalIncome
	case services.FieldBalance:
		target = &vm.Balance
	default:
		return
	}
	vm.dispatch.Post(func() { target.Set(value) })
}

// InsertExpense stores a new entry and publishes the outcome.
func (vm *ExpenseViewModel) InsertExpense(ctx context.Context, expense *models.Expense) {
	vm.mutate(func() (bool, error) { return vm.expenses.InsertExpense(ctx, expense) })
}

// UpdateExpense saves an edited entry and publishes the outcome.
func (vm *ExpenseViewModel) UpdateExpense(ctx context.Context, expense *models.Expense) {
	vm.mutate(func() (bool, error) { return vm.expenses.UpdateExpense(ctx, expense) })
}

// DeleteExpense removes an entry and publishes the outcome.
func (vm *ExpenseViewModel) DeleteExpense(ctx context.Context, expense *models.Expense) {
	vm.mutate(func() (bool, error) { return vm.expenses.DeleteExpense(ctx, expense) })
}

func (vm *ExpenseViewModel) mutate(op func() (bool, error)) {
	vm.background(func() func() {
		ok, err := op()
		return func() {
			if err != nil {
				vm.OperationResult.Publish(viewstate.Fail[bool](err))
				return
			}
			vm.OperationResult.Publish(viewstate.Ok(ok))
		}
	})
}

// SetExpenseForEdit selects the entry shown on the edit screen.
func (vm *ExpenseViewModel) SetExpenseForEdit(expense *models.Expense) {
	vm.dispatch.Post(func() { vm.Expense.Set(expense) })
}

// ClearExpenseForEdit drops the edit selection.
func (vm *ExpenseViewModel) ClearExpenseForEdit() {
	vm.dispatch.Post(func() { vm.Expense.Set(nil) })
}

// GetExpenseByID looks an entry up directly, bypassing the streams.
func (vm *ExpenseViewModel) GetExpenseByID(ctx context.Context, id int64) (*models.Expense, error) {
	return vm.expenses.GetExpenseByID(ctx, id)
}
