// Package errors is the project error type
//
// An *Error carries a machine code that goes on the wire, a human message,
// an optional offending field and a private cause that never leaves the
// process. Import it as perr.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure, numeric values are internal only
type ErrorCode uint16

// codes in use across services, see the codes table for wire names and statuses
const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeTimeout
	ErrorCodeInvalidInput
	ErrorCodeNotFound
	ErrorCodeQueryFailed
	ErrorCodeStaleCursor
	ErrorCodeCanceled
)

// StatusClientClosed is the non standard status for a request its client abandoned
const StatusClientClosed = 499

type codeInfo struct {
	name   string
	status int
}

// panics report as INTERNAL so a crash looks like any other server fault
var codes = map[ErrorCode]codeInfo{
	ErrorCodeUnknown:      {"INTERNAL", http.StatusInternalServerError},
	ErrorCodePanic:        {"INTERNAL", http.StatusInternalServerError},
	ErrorCodeUnavailable:  {"UNAVAILABLE", http.StatusServiceUnavailable},
	ErrorCodeTimeout:      {"TIMEOUT", http.StatusGatewayTimeout},
	ErrorCodeInvalidInput: {"INVALID_INPUT", http.StatusBadRequest},
	ErrorCodeNotFound:     {"NOT_FOUND", http.StatusNotFound},
	ErrorCodeQueryFailed:  {"QUERY_FAILED", http.StatusBadGateway},
	ErrorCodeStaleCursor:  {"STALE_CURSOR", http.StatusConflict},
	ErrorCodeCanceled:     {"CANCELED", StatusClientClosed},
}

func (c ErrorCode) info() codeInfo {
	if ci, ok := codes[c]; ok {
		return ci
	}
	return codes[ErrorCodeUnknown]
}

// String is the stable wire name
func (c ErrorCode) String() string { return c.info().name }

// Status is the HTTP status a failure with this code answers with
func (c ErrorCode) Status() int { return c.info().status }

// MarshalText writes the wire name
func (c ErrorCode) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText reads a wire name, unknown names and INTERNAL decode as ErrorCodeUnknown
func (c *ErrorCode) UnmarshalText(b []byte) error {
	*c = ErrorCodeUnknown
	for code, ci := range codes {
		if ci.name == string(b) && code != ErrorCodePanic {
			*c = code
			break
		}
	}
	return nil
}

// Error is the structured project error
type Error struct {
	code  ErrorCode
	msg   string
	field string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Code is the machine code
func (e *Error) Code() ErrorCode { return e.code }

// Field names the offending input, empty when the error is not about one field
func (e *Error) Field() string { return e.field }

// Message is the human text without the cause
func (e *Error) Message() string { return e.msg }

// New returns an error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Wrap returns an error with code and msg whose cause is err
func Wrap(err error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: err}
}

// InvalidInputf is New(ErrorCodeInvalidInput, ...) with formatting
func InvalidInputf(format string, a ...any) error {
	return New(ErrorCodeInvalidInput, fmt.Sprintf(format, a...))
}

// NotFoundf is New(ErrorCodeNotFound, ...) with formatting
func NotFoundf(format string, a ...any) error {
	return New(ErrorCodeNotFound, fmt.Sprintf(format, a...))
}

// StaleCursorf is New(ErrorCodeStaleCursor, ...) with formatting
func StaleCursorf(format string, a ...any) error {
	return New(ErrorCodeStaleCursor, fmt.Sprintf(format, a...))
}

// PanicErrf is New(ErrorCodePanic, ...) with formatting
func PanicErrf(format string, a ...any) error {
	return New(ErrorCodePanic, fmt.Sprintf(format, a...))
}

// WithField returns a copy of err naming field, foreign errors pass through untouched
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf is err's code, ErrorCodeUnknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is the status err answers with
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// Public is the part of err a client may see
// foreign errors read "internal error" so driver text never leaks
func Public(err error) (code ErrorCode, msg, field string) {
	if e, ok := As(err); ok {
		return e.code, e.msg, e.field
	}
	return ErrorCodeUnknown, "internal error", ""
}
