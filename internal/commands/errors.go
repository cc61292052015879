package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to categorised command errors.
const (
	CodeInvalidMessage = "PRESS_COMMAND_INVALID"
	CodeCanceled       = "PRESS_COMMAND_CANCELED"
	CodeTimeout        = "PRESS_COMMAND_TIMEOUT"
	CodeFailed         = "PRESS_COMMAND_FAILED"
)

// wrapInvalid categorises a message validation failure. Errors already
// carrying a category pass through untouched.
func wrapInvalid(err error) error {
	return categorise(err, goerrors.CategoryValidation, CodeInvalidMessage, "command message invalid")
}

// wrapFailure categorises an execution error, telling cancellation and
// deadlines apart from ordinary failures.
func wrapFailure(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return categorise(err, goerrors.CategoryCommand, CodeCanceled, "command cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return categorise(err, goerrors.CategoryCommand, CodeTimeout, "command deadline exceeded")
	default:
		return categorise(err, goerrors.CategoryCommand, CodeFailed, "command failed")
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func categorise(err error, category goerrors.Category, code, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}
