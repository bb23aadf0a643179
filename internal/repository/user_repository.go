package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gitlab.com/yelinaung/expense-manager/internal/auth"
	"gitlab.com/yelinaung/expense-manager/internal/database"
	apperrors "gitlab.com/yelinaung/expense-manager/internal/errors"
	"gitlab.com/yelinaung/expense-manager/internal/models"
)

const userColumns = `id, username, password, fullName, dateOfBirth, address, occupation`

// UserRepository handles user database operations.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Insert creates a user and sets user.ID. A taken username is reported as
// ErrConstraintViolation.
func (r *UserRepository) Insert(ctx context.Context, user *models.User) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password, fullName, dateOfBirth, address, occupation)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.Username, user.PasswordHash, user.FullName, user.DateOfBirth, user.Address, user.Occupation)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", classify(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	return id, nil
}

// Update replaces the profile fields of the user with user.ID.
// The stored password is left untouched. Returns the number of rows changed.
func (r *UserRepository) Update(ctx context.Context, user *models.User) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			username = ?,
			fullName = ?,
			dateOfBirth = ?,
			address = ?,
			occupation = ?
		WHERE id = ?
	`, user.Username, user.FullName, user.DateOfBirth, user.Address, user.Occupation, user.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update user: %w", classify(err))
	}
	return rowsAffected(res)
}

// UpdatePassword stores a new password hash for the user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, hash, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update password: %w", err)
	}
	return rowsAffected(res)
}

// Login returns the user whose username and password both match, or nil.
func (r *UserRepository) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}
	if match, _ := auth.Verify(user.PasswordHash, password); !match {
		return nil, nil
	}
	return user, nil
}

// GetByID retrieves a user by ID. Returns nil when no user matches.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by login name. Returns nil when no user matches.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// Delete removes a user; the user's expenses are removed by the foreign key cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return rowsAffected(res)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.DateOfBirth, &u.Address, &u.Occupation)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// classify tags constraint failures so callers can match them with errors.Is.
func classify(err error) error {
	if database.IsConstraintViolation(err) {
		return apperrors.Wrap(apperrors.ErrConstraintViolation, err)
	}
	return err
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
