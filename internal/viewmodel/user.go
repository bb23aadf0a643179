package viewmodel

import (
	"context"

	"gitlab.com/yelinaung/expense-manager/internal/models"
	"gitlab.com/yelinaung/expense-manager/internal/viewstate"
)

// UserViewModel backs the profile screen.
type UserViewModel struct {
	User viewstate.Stream[*models.User]
	// AvatarIndex is the avatar picked on this screen. It is not persisted.
	AvatarIndex  viewstate.Stream[int]
	UpdateResult viewstate.Event[viewstate.Result[bool]]

	users ProfileManager
	runner
}

// NewUserViewModel creates a UserViewModel.
func NewUserViewModel(users ProfileManager, dispatch viewstate.Dispatcher) *UserViewModel {
	vm := &UserViewModel{users: users}
	vm.use(dispatch)
	return vm
}

// LoadUser publishes the user with id, or nil when it cannot be loaded.
func (vm *UserViewModel) LoadUser(ctx context.Context, id int64) {
	vm.background(func() func() {
		user, err := vm.users.GetUser(ctx, id)
		if err != nil {
			logQueryFailure(err, "user", id)
			user = nil
		}
		return func() { vm.User.Set(user) }
	})
}

// UpdateUser saves the profile and, on success, publishes the new values.
func (vm *UserViewModel) UpdateUser(ctx context.Context, user *models.User) {
	vm.background(func() func() {
		ok, err := vm.users.UpdateUser(ctx, user)
		return func() {
			if err != nil {
				vm.UpdateResult.Publish(viewstate.Fail[bool](err))
				return
			}
			if ok {
				updated := *user
				vm.User.Set(&updated)
			}
			vm.UpdateResult.Publish(viewstate.Ok(ok))
		}
	})
}

// SelectAvatar records the avatar the user picked.
func (vm *UserViewModel) SelectAvatar(index int) {
	vm.dispatch.Post(func() { vm.AvatarIndex.Set(index) })
}
