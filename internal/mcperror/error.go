// Package mcperror defines the single error taxonomy used end to end by this
// service. Every package other than internal/gateway returns or wraps a
// *Error; internal/gateway is the sole place that translates a Kind into a
// JSON-RPC error code.
package mcperror

import (
	"errors"
	"fmt"
)

// Kind names one of the nine error categories this service distinguishes.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindNotInitialized Kind = "not_initialized"
	KindNotFound       Kind = "not_found"
	KindUpstream       Kind = "upstream"
	KindRateLimited    Kind = "rate_limited"
	KindConfig         Kind = "config"
	KindInternal       Kind = "internal"
	KindParse          Kind = "parse"
	KindMethodNotFound Kind = "method_not_found"
)

// Error is an operator-facing error carrying a Kind, a safe message, and an
// optional structured Data payload. Message must never contain secrets
// (API keys, auth tokens) — callers are responsible for redacting before
// constructing one.
type Error struct {
	Kind    Kind
	Message string
	Field   string // offending argument/field name, when applicable
	Data    any    // additional structured detail, safe to surface
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %q)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind that carries cause as its
// underlying error (available via errors.Unwrap) without leaking cause's
// text into Message — callers supply an operator-safe message explicitly.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// WithField returns a copy of e with Field set, for validation errors that
// name the offending argument.
func (e *Error) WithField(field string) *Error {
	cp := *e
	cp.Field = field
	return &cp
}

// WithData returns a copy of e with Data set.
func (e *Error) WithData(data any) *Error {
	cp := *e
	cp.Data = data
	return &cp
}

// Validation, NotFound, etc. are constructors for the common kinds, kept
// short since handler code reaches for these constantly.
func Validation(format string, args ...any) *Error { return New(KindValidation, format, args...) }
func NotFound(format string, args ...any) *Error    { return New(KindNotFound, format, args...) }
func Upstream(format string, args ...any) *Error    { return New(KindUpstream, format, args...) }
func RateLimited(format string, args ...any) *Error {
	return New(KindRateLimited, "rate limit "+format, args...)
}
func Config(format string, args ...any) *Error  { return New(KindConfig, format, args...) }
func Internal(format string, args ...any) *Error { return New(KindInternal, format, args...) }
func Parse(format string, args ...any) *Error    { return New(KindParse, format, args...) }

// NotInitialized returns a new NotInitialized error, for a tool called
// before the session has completed the initialize handshake.
func NotInitialized() *Error {
	return New(KindNotInitialized, "session has not been initialized")
}

// MethodNotFound reports an unrecognized JSON-RPC method.
func MethodNotFound(method string) *Error {
	return New(KindMethodNotFound, "unknown method %q", method).WithField(method)
}

// As extracts a *Error from err, following the standard errors.As contract.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
