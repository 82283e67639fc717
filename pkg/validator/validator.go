// Package validator wraps go-playground/validator with the wire-format
// rules this app binds request DTOs against. Ordered business rules (the
// workshop create checklist) live in the domain layer, not here.
package validator

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

var global *validator.Validate

const (
	ErrFieldRequired    = "Field is required"
	ErrFieldBelowMinLen = "Field is below minimum length"
	ErrFieldAboveMaxLen = "Field exceeds maximum length"
	ErrInvalidEmail     = "Invalid email address"
	ErrInvalidDate      = "Date must use YYYY-MM-DD"
	ErrInvalidTime      = "Time must use HH:MM"
	ErrNotPositive      = "Value must be positive"
	ErrUnknown          = "Invalid value"
)

func init() {
	SetValidator(New())
}

// New builds a Validate instance with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ymd", validateYMD)
	_ = v.RegisterValidation("hhmm", validateHHMM)
	return v
}

// SetValidator replaces the package-level instance (tests only).
func SetValidator(v *validator.Validate) {
	global = v
}

func validateYMD(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validateHHMM(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

// Validate checks a struct against its validate tags and flattens the
// first violation into a single user-facing error.
func Validate(structure any) error {
	return parseValidationErrors(global.Struct(structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) {
		// Not a field violation (e.g. a non-struct argument): the
		// caller must still see the failure.
		return err
	}
	if len(vErrors) == 0 {
		return nil
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "min":
		msg = ErrFieldBelowMinLen
	case "max":
		msg = ErrFieldAboveMaxLen
	case "email":
		msg = ErrInvalidEmail
	case "ymd":
		msg = ErrInvalidDate
	case "hhmm":
		msg = ErrInvalidTime
	case "gt", "gte":
		msg = ErrNotPositive
	default:
		msg = ErrUnknown
	}
	return errors.New(msg + ": " + ve.Field())
}
