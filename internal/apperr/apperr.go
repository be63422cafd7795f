// Package apperr defines the error taxonomy shared by every layer of the
// service. Handlers translate these kinds to HTTP statuses; callers use the
// predicate helpers instead of matching message strings.
package apperr

import (
	"fmt"
	"net/http"
	"strings"

	"workflow-board-api/internal/models"
)

// Code identifies an error kind on the wire.
type Code string

const (
	CodeNotFound               Code = "NOT_FOUND"
	CodeForbidden              Code = "FORBIDDEN"
	CodeInvalidArgument        Code = "INVALID_ARGUMENT"
	CodeInvalidStateTransition Code = "INVALID_STATE_TRANSITION"
	CodeConflict               Code = "CONFLICT"
	CodeUnavailable            Code = "UNAVAILABLE"
)

// Error is the single error type the service layers return.
type Error struct {
	Code    Code
	Message string

	// Current and Allowed are populated only for invalid state transitions.
	Current models.TaskStatus
	Allowed []models.TaskStatus

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the error kind to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInvalidArgument, CodeInvalidStateTransition:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a storage/transport failure.
func Unavailable(cause error, format string, args ...any) *Error {
	return &Error{Code: CodeUnavailable, Message: fmt.Sprintf(format, args...), cause: cause}
}

// InvalidStateTransition reports a workflow violation. The message spells out
// the allowed-next set so a terminal state reads differently from an
// unrecognized requested status.
func InvalidStateTransition(current, requested models.TaskStatus, allowed []models.TaskStatus) *Error {
	msg := fmt.Sprintf("cannot transition from %s to %s; allowed: %s",
		current, requested, formatAllowed(current, allowed))
	return &Error{
		Code:    CodeInvalidStateTransition,
		Message: msg,
		Current: current,
		Allowed: allowed,
	}
}

func formatAllowed(current models.TaskStatus, allowed []models.TaskStatus) string {
	if len(allowed) == 0 {
		if models.ValidStatus(current) {
			return "none (terminal state)"
		}
		return "none (unrecognized status)"
	}
	parts := make([]string, len(allowed))
	for i, s := range allowed {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// CodeOf extracts the taxonomy code from err, or empty when err is not ours.
func CodeOf(err error) Code {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// AsError unwraps err to the taxonomy type.
func AsError(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

func IsNotFound(err error) bool  { return CodeOf(err) == CodeNotFound }
func IsForbidden(err error) bool { return CodeOf(err) == CodeForbidden }
func IsConflict(err error) bool  { return CodeOf(err) == CodeConflict }
func IsInvalidStateTransition(err error) bool {
	return CodeOf(err) == CodeInvalidStateTransition
}
