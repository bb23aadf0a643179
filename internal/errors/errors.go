// Package errors provides the typed failure outcomes surfaced by the
// data and aggregation layers. Callers match them with errors.Is, which
// compares by Code so wrapped copies still match their sentinel.
package errors

// AppError represents a structured application error with an error code,
// a human-readable message and an optional internal cause.
type AppError struct {
	Code     string
	Message  string
	Internal error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  sentinel.Message,
		Internal: internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  message,
		Internal: sentinel.Internal,
	}
}

// Storage errors.
var (
	ErrConstraintViolation = &AppError{Code: "CONSTRAINT_VIOLATION", Message: "Storage constraint violated"}
	ErrNotFound            = &AppError{Code: "NOT_FOUND", Message: "Record not found"}
	ErrStorageFailure      = &AppError{Code: "STORAGE_FAILURE", Message: "Storage operation failed"}
)

// User errors.
var (
	ErrDuplicateUsername  = &AppError{Code: "DUPLICATE_USERNAME", Message: "Username already exists"}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password"}
)

// Input errors.
var (
	ErrInvalidInput = &AppError{Code: "INVALID_INPUT", Message: "Invalid input"}
)
