package service

import (
	"errors"
	"fmt"
)

// Kind is the machine-checkable category of a use-case failure. Every
// failure a service returns carries exactly one Kind plus a human-readable
// message; callers branch on the Kind, never on the message.
type Kind string

const (
	// KindValidation reports malformed input. Carries field-level
	// messages and guarantees no side effects occurred.
	KindValidation Kind = "validation_failed"

	// KindNotFound reports a missing account or refresh token.
	KindNotFound Kind = "not_found"

	// KindForbidden reports a locked account.
	KindForbidden Kind = "forbidden"

	// KindUnauthorized reports bad credentials or an unusable refresh
	// token.
	KindUnauthorized Kind = "unauthorized"

	// KindConflict reports a uniqueness clash, e.g. email already taken.
	KindConflict Kind = "conflict"

	// KindPersistence reports a failed store commit. Transient: the
	// caller may retry the whole use case.
	KindPersistence Kind = "persistence_error"
)

// Error is the typed failure returned across the use-case boundary.
type Error struct {
	Kind    Kind
	Message string
	// Fields carries per-field validation messages for KindValidation.
	Fields map[string]string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// AsError extracts the typed failure from err, if there is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func validationFailed(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "request validation failed", Fields: fields}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func persistence(cause error) *Error {
	return &Error{Kind: KindPersistence, Message: "store operation failed", cause: cause}
}
