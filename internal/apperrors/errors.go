package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidStateTransition indicates an operation that is not legal for the
// entity's current status (e.g. posting a voided journal entry).
var ErrInvalidStateTransition = errors.New("invalid state transition")

// ErrParse indicates that an external input (e.g. a bank statement export)
// could not be parsed. The user must fix the file and retry.
var ErrParse = errors.New("parse error")

// ErrNotReconcilable indicates an operation on a reconciliation session that
// its lifecycle no longer permits (e.g. completing a completed session).
var ErrNotReconcilable = errors.New("session is not reconcilable")

// ErrStorage indicates a storage-layer failure. Reads are safe to retry.
var ErrStorage = errors.New("storage error")

// ErrStorageTimeout indicates that a storage call exceeded its deadline.
var ErrStorageTimeout = errors.New("storage timeout")

// ErrForbidden indicates that the authenticated user may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure (a bug, not user input).
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and an optional
// wrapped cause. Repositories use it to classify failures for the handler layer.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
