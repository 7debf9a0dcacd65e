package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error for transport-layer mapping.
type ErrorKind string

const (
	KindValidation       ErrorKind = "VALIDATION"
	KindInvalidRange     ErrorKind = "INVALID_RANGE"
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindConflict         ErrorKind = "CONFLICT"
	KindForbidden        ErrorKind = "FORBIDDEN"
	KindAlreadyCancelled ErrorKind = "ALREADY_CANCELLED"
	KindInvalidState     ErrorKind = "INVALID_STATE"
	KindUnauthorized     ErrorKind = "UNAUTHORIZED"
	KindStorage          ErrorKind = "STORAGE"
)

// Error is the domain error type carried across service boundaries. Every
// failure a service returns is one of these; raw storage errors are wrapped
// as KindStorage before they leave the repository layer.
type Error struct {
	Kind    ErrorKind
	Message string
	Details interface{}
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// WithDetails attaches structured context (e.g. conflicting bookings) to the error.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// NewValidationError reports malformed or missing input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewInvalidRangeError reports a date range where start is not before end.
func NewInvalidRangeError(message string) *Error {
	return &Error{Kind: KindInvalidRange, Message: message}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

// NewConflictError reports a state collision, such as an interval overlap
// or a lost compare-and-swap.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewForbiddenError reports an authorization failure for an authenticated principal.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewAlreadyCancelledError reports a redundant cancellation attempt.
func NewAlreadyCancelledError(message string) *Error {
	return &Error{Kind: KindAlreadyCancelled, Message: message}
}

// NewInvalidStateError reports a disallowed status transition.
func NewInvalidStateError(from, to string) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewUnauthorizedError reports a missing or invalid principal.
func NewUnauthorizedError(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NewStorageError wraps an underlying persistence failure. Storage errors
// are fatal for the current request and never retried here.
func NewStorageError(message string, cause error) *Error {
	return &Error{Kind: KindStorage, Message: message, cause: cause}
}

// KindOf returns the kind of err if it is (or wraps) a domain Error,
// and the empty kind otherwise.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind && kind != ""
}

func IsNotFound(err error) bool  { return IsKind(err, KindNotFound) }
func IsConflict(err error) bool  { return IsKind(err, KindConflict) }
func IsForbidden(err error) bool { return IsKind(err, KindForbidden) }
