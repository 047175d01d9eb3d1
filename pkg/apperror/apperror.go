// Package apperror defines the caller-recoverable error taxonomy shared by
// every workflow operation. Each error carries a stable machine-readable kind
// plus a human message; none represent programmer bugs.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds
const (
	KindValidation      = "validation"
	KindNotFound        = "not_found"
	KindForbidden       = "forbidden"
	KindInvalidState    = "invalid_state"
	KindConflict        = "conflict"
	KindPrecondition    = "precondition"
	KindOutOfHours      = "out_of_hours"
	KindAlreadyAssigned = "already_assigned"
)

// Error is a machine-readable workflow error.
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// Is matches two apperrors by kind so errors.Is(err, apperror.InvalidState(""))
// style comparisons work in tests.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func newf(kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newf(KindForbidden, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return newf(KindInvalidState, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

func Precondition(format string, args ...interface{}) *Error {
	return newf(KindPrecondition, format, args...)
}

func OutOfHours(format string, args ...interface{}) *Error {
	return newf(KindOutOfHours, format, args...)
}

func AlreadyAssigned(format string, args ...interface{}) *Error {
	return newf(KindAlreadyAssigned, format, args...)
}

// KindOf returns the kind of err, or empty string for non-apperrors.
func KindOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps an error to the status code handlers should respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindOutOfHours:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidState, KindConflict, KindAlreadyAssigned:
		return http.StatusConflict
	case KindPrecondition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
