// Package viewmodel exposes per-screen state for the expense manager.
//
// Each view model runs storage work on background goroutines, posts the
// outcome to its Dispatcher, and only then touches its observable state.
// Queries that fail leave empty values behind; mutations that fail publish
// a failed Result.
package viewmodel

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"gitlab.com/yelinaung/expense-manager/internal/logger"
	"gitlab.com/yelinaung/expense-manager/internal/models"
	"gitlab.com/yelinaung/expense-manager/internal/services"
	"gitlab.com/yelinaung/expense-manager/internal/viewstate"
)

// Authenticator is what the auth screen needs from the user service.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	RegisterUser(ctx context.Context, user *models.User, password string) (int64, error)
}

// ProfileManager is what the profile screen needs from the user service.
type ProfileManager interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) (bool, error)
}

// ExpenseManager is what the expense screens need from the expense service.
type ExpenseManager interface {
	LoadSummary(ctx context.Context, userID int64, report services.ReportFunc) (models.Summary, error)
	LoadMonthSummary(ctx context.Context, userID int64, year, month int, report services.ReportFunc) (models.Summary, error)
	AllExpenses(ctx context.Context, userID int64) ([]models.Expense, error)
	ExpensesByMonth(ctx context.Context, userID int64, year, month int) ([]models.Expense, error)
	InsertExpense(ctx context.Context, expense *models.Expense) (bool, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) (bool, error)
	DeleteExpense(ctx context.Context, expense *models.Expense) (bool, error)
	GetExpenseByID(ctx context.Context, id int64) (*models.Expense, error)
}

// SessionWriter records which user is logged in.
type SessionWriter interface {
	Save(userID int64) error
}

var (
	_ Authenticator  = (*services.UserService)(nil)
	_ ProfileManager = (*services.UserService)(nil)
	_ ExpenseManager = (*services.ExpenseService)(nil)
)

// runner tracks background work so callers can wait for it.
type runner struct {
	wg       sync.WaitGroup
	dispatch viewstate.Dispatcher
}

// use sets the dispatcher results are posted to. nil means Immediate.
func (r *runner) use(dispatch viewstate.Dispatcher) {
	if dispatch == nil {
		dispatch = viewstate.Immediate
	}
	r.dispatch = dispatch
}

// background runs work on its own goroutine. The func work returns, if
// any, is posted to the dispatcher.
func (r *runner) background(work func() func()) {
	r.wg.Go(func() {
		if apply := work(); apply != nil {
			r.dispatch.Post(apply)
		}
	})
}

// Wait blocks until all background work started so far has finished.
func (r *runner) Wait() {
	r.wg.Wait()
}

func setAll(value decimal.Decimal, streams ...*viewstate.Stream[decimal.Decimal]) {
	for _, s := range streams {
		s.Set(value)
	}
}

func logQueryFailure(err error, query string, userID int64) {
	logger.Log.Error().Err(err).Str("query", query).Str("user", logger.HashUserID(userID)).Msg("Query failed, showing empty state")
}
