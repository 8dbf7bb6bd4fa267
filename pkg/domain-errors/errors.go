// Package domainerrors defines the error taxonomy shared by services and the
// HTTP boundary. Services create or wrap errors with a Code; the transport
// layer maps codes to HTTP statuses and never leaks internal detail.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for boundary handling.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation_error"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"
)

// Error carries a code plus a caller-facing message. An optional wrapped cause
// is kept for logging but never rendered to clients.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e Error) Unwrap() error { return e.cause }

// Is matches on code and message so sentinel-style comparisons with
// errors.Is(err, New(code, msg)) work for wrapped errors too.
func (e Error) Is(target error) bool {
	var t Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// Is is a readability alias for HasCode, matching call sites like
// dErrors.Is(err, dErrors.CodeNotFound).
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in a service.
func CodeOf(err error) Code {
	var e Error
	if !errors.As(err, &e) {
		return CodeInternal
	}
	return e.Code
}

// MessageOf extracts the caller-facing message from err. Internal errors get a
// generic message so persistence detail stays server-side.
func MessageOf(err error) string {
	var e Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Message
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
