package viewmodel

import (
	"context"

	"gitlab.com/yelinaung/expense-manager/internal/logger"
	"gitlab.com/yelinaung/expense-manager/internal/models"
	"gitlab.com/yelinaung/expense-manager/internal/viewstate"
)

// AuthViewModel backs the login and registration screens.
type AuthViewModel struct {
	LoginResult    viewstate.Event[viewstate.Result[*models.User]]
	RegisterResult viewstate.Event[viewstate.Result[int64]]

	users   Authenticator
	session SessionWriter
	runner
}

// NewAuthViewModel creates an AuthViewModel. session may be nil.
func NewAuthViewModel(users Authenticator, session SessionWriter, dispatch viewstate.Dispatcher) *AuthViewModel {
	vm := &AuthViewModel{users: users, session: session}
	vm.use(dispatch)
	return vm
}

// Login checks the credentials and publishes the outcome on LoginResult.
// A successful login is remembered in the session.
func (vm *AuthViewModel) Login(ctx context.Context, username, password string) {
	vm.background(func() func() {
		user, err := vm.users.Login(ctx, username, password)
		if err == nil && vm.session != nil {
			if serr := vm.session.Save(user.ID); serr != nil {
				logger.Log.Warn().Err(serr).Str("user", logger.HashUserID(user.ID)).Msg("Failed to save session")
			}
		}
		return func() {
			if err != nil {
				vm.LoginResult.Publish(viewstate.Fail[*models.User](err))
				return
			}
			vm.LoginResult.Publish(viewstate.Ok(user))
		}
	})
}

// Register creates an account and publishes its id on RegisterResult.
func (vm *AuthViewModel) Register(ctx context.Context, user *models.User, password string) {
	vm.background(func() func() {
		id, err := vm.users.RegisterUser(ctx, user, password)
		return func() {
			if err != nil {
				vm.RegisterResult.Publish(viewstate.Fail[int64](err))
				return
			}
			vm.RegisterResult.Publish(viewstate.Ok(id))
		}
	})
}
