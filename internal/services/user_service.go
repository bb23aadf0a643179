package services

import (
	"context"
	"errors"
	"strings"

	"gitlab.com/yelinaung/expense-manager/internal/auth"
	apperrors "gitlab.com/yelinaung/expense-manager/internal/errors"
	"gitlab.com/yelinaung/expense-manager/internal/logger"
	"gitlab.com/yelinaung/expense-manager/internal/models"
	"gitlab.com/yelinaung/expense-manager/internal/validation"
)

// UserService handles registration, login and profile changes.
type UserService struct {
	users    UserStore
	hasher   *auth.Hasher
	validate *validation.Validator
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, hasher *auth.Hasher, validate *validation.Validator) *UserService {
	return &UserService{users: users, hasher: hasher, validate: validate}
}

// RegisterUser creates an account and returns its id. The password is
// stored as a bcrypt hash; user.PasswordHash is ignored on input.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User, password string) (int64, error) {
	user.Username = strings.TrimSpace(user.Username)
	if err := s.validate.User(user); err != nil {
		return 0, err
	}
	if err := s.validate.Password(password); err != nil {
		return 0, err
	}

	exists, err := s.CheckUsernameExists(ctx, user.Username)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, apperrors.ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrStorageFailure, err)
	}
	user.PasswordHash = hash

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		// Lost a race with another registration of the same name.
		if errors.Is(err, apperrors.ErrConstraintViolation) {
			return 0, apperrors.Wrap(apperrors.ErrDuplicateUsername, err)
		}
		logger.Log.Error().Err(err).Str("username", logger.HashUsername(user.Username)).Msg("Failed to register user")
		return 0, storageError(err)
	}
	if id <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrStorageFailure, "registration did not create a user")
	}

	logger.Log.Info().Str("user", logger.HashUserID(id)).Msg("User registered")
	return id, nil
}

// Login returns the user matching username and password, or
// ErrInvalidCredentials. A plain-text password left by an older schema is
// replaced with a hash on success.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Login lookup failed")
		return nil, storageError(err)
	}
	if user == nil {
		logger.Log.Info().Str("username", logger.HashUsername(username)).Msg("Login rejected")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.IsHash(user.PasswordHash) {
		s.upgradeLegacyPassword(ctx, user, password)
	}

	return user, nil
}

func (s *UserService) upgradeLegacyPassword(ctx context.Context, user *models.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		_, err = s.users.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		logger.Log.Warn().Err(err).Str("user", logger.HashUserID(user.ID)).Msg("Failed to upgrade legacy password")
		return
	}
	user.PasswordHash = hash
	logger.Log.Info().Str("user", logger.HashUserID(user.ID)).Msg("Upgraded legacy plain-text password")
}

// CheckUsernameExists reports whether username is already registered.
func (s *UserService) CheckUsernameExists(ctx context.Context, username string) (bool, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false, storageError(err)
	}
	return user != nil, nil
}

// GetUser returns the user with id, or nil when there is none.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	return user, nil
}

// UpdateUser saves profile changes. It reports whether a row was changed.
func (s *UserService) UpdateUser(ctx context.Context, user *models.User) (bool, error) {
	user.Username = strings.TrimSpace(user.Username)
	if err := s.validate.User(user); err != nil {
		return false, err
	}

	n, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrConstraintViolation) {
			return false, apperrors.Wrap(apperrors.ErrDuplicateUsername, err)
		}
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(user.ID)).Msg("Failed to update user")
		return false, storageError(err)
	}
	return n > 0, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	if err := s.validate.Password(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return storageError(err)
	}
	if user == nil {
		return apperrors.ErrNotFound
	}
	if match, _ := auth.Verify(user.PasswordHash, oldPassword); !match {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageFailure, err)
	}
	if _, err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return storageError(err)
	}
	return nil
}
