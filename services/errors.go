package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/yeremiapane/tuber-treats/store"
)

// Callers match these with errors.Is; the wrapped message names the entity
// and id involved.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// notFoundOr turns store.ErrNotFound into ErrNotFound and wraps anything else
// with the same context.
func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, store.ErrNotFound) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}

var validate = validator.New()

// validateInput runs the struct's validate tags and reports the first failing
// field as ErrInvalidInput.
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return errors.Wrap(ErrInvalidInput, msg)
}
