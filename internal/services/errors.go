package services

import (
	"errors"

	apperrors "gitlab.com/yelinaung/expense-manager/internal/errors"
)

// storageError passes typed errors through and tags anything else as a
// storage failure.
func storageError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrStorageFailure, err)
}

func invalidInput(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}
