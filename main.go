// Package main is the entry point for the expense manager.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/yelinaung/expense-manager/internal/auth"
	"gitlab.com/yelinaung/expense-manager/internal/chart"
	"gitlab.com/yelinaung/expense-manager/internal/config"
	"gitlab.com/yelinaung/expense-manager/internal/database"
	"gitlab.com/yelinaung/expense-manager/internal/logger"
	"gitlab.com/yelinaung/expense-manager/internal/models"
	"gitlab.com/yelinaung/expense-manager/internal/repository"
	"gitlab.com/yelinaung/expense-manager/internal/services"
	"gitlab.com/yelinaung/expense-manager/internal/session"
	"gitlab.com/yelinaung/expense-manager/internal/validation"
	"gitlab.com/yelinaung/expense-manager/internal/viewmodel"
	"gitlab.com/yelinaung/expense-manager/internal/viewstate"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type app struct {
	users    *services.UserService
	expenses *services.ExpenseService
	session  *session.Store
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("expense-manager %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	if cfg.JSONLogs() {
		logger.SetJSON()
	}
	logger.SetLevel(cfg.LogLevel)
	logger.InitHashSalt()

	provider := database.NewProvider(cfg.DatabasePath, database.MigrationOptions{
		AllowDestructive: cfg.AllowDestructiveMigration,
	})
	defer provider.Close()

	db, err := provider.DB(ctx)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open database")
	}

	store, err := session.Open(cfg.SessionPath)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open session")
	}

	a := newApp(db, store, cfg.BcryptCost)

	logger.Log.Info().Msg("Database initialized successfully")

	cmd := "summary"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "login":
		err = a.login(ctx, os.Args[2:])
	case "summary":
		err = a.summary(ctx)
	case "chart":
		err = a.chart(ctx, os.Args[2:])
	case "logout":
		err = a.session.Clear()
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		logger.Log.Error().Err(err).Str("command", cmd).Msg("Command failed")
		_ = provider.Close()
		os.Exit(1)
	}
}

func newApp(db *sql.DB, store *session.Store, bcryptCost int) *app {
	validate := validation.New()
	return &app{
		users:    services.NewUserService(repository.NewUserRepository(db), auth.NewHasher(bcryptCost), validate),
		expenses: services.NewExpenseService(repository.NewExpenseRepository(db), validate),
		session:  store,
	}
}

// login checks the credentials and remembers the user in the session.
func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <username> <password>")
	}

	vm := viewmodel.NewAuthViewModel(a.users, a.session, viewstate.Immediate)
	vm.Login(ctx, args[0], args[1])
	vm.Wait()

	var res viewstate.Result[*models.User]
	cancel := vm.LoginResult.Subscribe(ctx, func(r viewstate.Result[*models.User]) { res = r })
	cancel()
	if res.Err != nil {
		return res.Err
	}

	logger.Log.Info().Str("user", logger.HashUserID(res.Value.ID)).Msg("Logged in")
	return nil
}

// currentUser returns the logged-in user, or nil when nobody is.
func (a *app) currentUser(ctx context.Context) (*models.User, error) {
	id, ok := a.session.CurrentUserID()
	if !ok {
		return nil, nil
	}
	user, err := a.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// The stored id no longer matches a user.
		if err := a.session.Clear(); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (a *app) summary(ctx context.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		logger.Log.Info().Msg("No user logged in")
		return nil
	}

	vm := viewmodel.NewExpenseViewModel(a.expenses, viewstate.Immediate)
	fields := map[string]*viewstate.Stream[decimal.Decimal]{
		"total_expense": &vm.TotalExpense,
		"total_income":  &vm.TotalIncome,
		"balance":       &vm.Balance,
	}
	for name, s := range fields {
		s.Subscribe(ctx, func(v decimal.Decimal) {
			logger.Log.Info().Str("user", logger.HashUserID(user.ID)).Str(name, v.StringFixed(models.AmountScale)).Msg("Summary updated")
		})
	}

	vm.LoadSummary(ctx, user.ID)
	vm.Wait()
	return nil
}

func (a *app) chart(ctx context.Context, args []string) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no user logged in")
	}

	year, month := services.CurrentMonth(time.Now())
	if len(args) == 2 {
		if year, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("invalid year %q", args[0])
		}
		if month, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("invalid month %q", args[1])
		}
	}

	shares, err := a.expenses.MonthBreakdown(ctx, user.ID, year, month, models.TypeExpense)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Expenses - %s %d", time.Month(month), year)
	png, err := chart.RenderBreakdown(title, shares)
	if err != nil {
		return err
	}

	name := chart.Filename(models.TypeExpense, year, month)
	if err := os.WriteFile(name, png, 0o600); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	logger.Log.Info().Str("file", name).Int("categories", len(shares)).Msg("Chart written")
	return nil
}
