// Package validation checks domain models before they reach storage.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "gitlab.com/yelinaung/expense-manager/internal/errors"
	"gitlab.com/yelinaung/expense-manager/internal/models"
)

// Validator wraps a configured go-playground validator.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the domain rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Amounts are compared as floats by the numeric tags; the exact scale
	// check happens in the struct-level rule.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("iso_date", validateISODate)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	v.RegisterStructValidation(validateExpense, models.Expense{})

	return &Validator{v: v}
}

// Expense validates a transaction before it is written.
func (v *Validator) Expense(e *models.Expense) error {
	return v.check(e)
}

// User validates the profile fields of an account.
func (v *Validator) User(u *models.User) error {
	return v.check(u)
}

// Password checks the length limits of a plain-text password.
func (v *Validator) Password(password string) error {
	switch {
	case len(password) < models.MinPasswordLength:
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("password must be at least %d characters", models.MinPasswordLength))
	case len(password) > models.MaxPasswordLength:
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("password must be at most %d bytes", models.MaxPasswordLength))
	}
	return nil
}

func (v *Validator) check(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "max":
		return fe.Field() + " is too long"
	case "iso_date":
		return fe.Field() + " must be a YYYY-MM-DD date"
	case "transaction_type":
		return fe.Field() + " must be expense or income"
	case "category":
		return fe.Field() + " is not allowed for this transaction type"
	case "scale":
		return fmt.Sprintf("%s must have at most %d decimal places", fe.Field(), models.AmountScale)
	default:
		return fe.Field() + " is invalid"
	}
}

func validateISODate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != len(models.DateLayout) {
		return false
	}
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

func validateExpense(sl validator.StructLevel) {
	e, ok := sl.Current().Interface().(models.Expense)
	if !ok {
		return
	}

	if !e.Amount.Equal(e.Amount.Round(models.AmountScale)) {
		sl.ReportError(e.Amount, "Amount", "Amount", "scale", "")
	}

	if e.Type.Valid() && e.Category != "" && !models.IsValidCategory(e.Type, e.Category) {
		sl.ReportError(e.Category, "Category", "Category", "category", "")
	}
}
