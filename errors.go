package geogate

import (
	"errors"
	"fmt"
)

// Application error codes. These map failures onto caller-visible
// categories: EINVALID is a client error rejected before any I/O,
// EUNPROCESSABLE means the page yielded no usable content, and
// EUNAVAILABLE is an upstream failure surfaced after retries exhaust.
const (
	EINVALID       = "invalid"       // malformed input (URL, IR payload)
	ENOTFOUND      = "not_found"     // upstream resource does not exist
	EUNPROCESSABLE = "unprocessable" // content insufficient for extraction
	EUNAVAILABLE   = "unavailable"   // upstream fetch failed after retries
	EINTERNAL      = "internal"      // unexpected internal error
)

// Error represents an application error with a machine-readable code and
// a human-readable message.
type Error struct {
	// Code is one of the application error codes above.
	Code string

	// Message is safe to show to an end user.
	Message string

	// Err is the wrapped underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("geogate error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf constructs an Error with a formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapErrorf is like Errorf but preserves err as the wrapped cause.
func WrapErrorf(err error, code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// ErrorCode returns the code of the error, or EINTERNAL if the error is
// not an application error. Returns the empty string for a nil error.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the human-readable message of the error, or a
// generic message if the error is not an application error. Returns the
// empty string for a nil error.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
