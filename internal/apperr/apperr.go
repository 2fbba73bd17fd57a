// Package apperr defines the error kinds shared by the applicant workflow layers.
// Lower layers wrap causes; handlers map a Kind to an HTTP status.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindStorage      Kind = "storage"
	KindNotification Kind = "notification"
)

// Error carries a Kind, a human-readable message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Conflict(message string, err error) *Error {
	return New(KindConflict, message, err)
}

func Storage(message string, err error) *Error {
	return New(KindStorage, message, err)
}

func Notification(message string, err error) *Error {
	return New(KindNotification, message, err)
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the safe, user-facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
