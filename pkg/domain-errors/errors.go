// Package domainerrors provides coded domain errors shared across bounded
// contexts. Import as dErrors.
//
// Services and domain models return these so transport layers can translate
// them into HTTP responses without inspecting error strings. Infrastructure
// facts (not found, conflict in a store) use pkg/platform/sentinel instead;
// services translate sentinels into coded errors at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and tests.
type Code string

const (
	// CodeValidation marks construction-time validation failures:
	// a value object rejected its input.
	CodeValidation Code = "validation_error"
	// CodeInvariantViolation marks a guard failure on an aggregate:
	// the operation is known but not legal in the current state.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInvalidInput marks malformed external input (bad UUID, unknown enum).
	CodeInvalidInput Code = "invalid_input"
	CodeBadRequest   Code = "bad_request"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal_error"
)

// Error is a coded domain error. It may wrap an underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
		de = nil
	}
	return false
}

// Is is a convenience alias for HasCode, matching call sites that read
// dErrors.Is(err, dErrors.CodeBadRequest).
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the outermost code, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto an HTTP status for the transport layer.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeInvariantViolation, CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
