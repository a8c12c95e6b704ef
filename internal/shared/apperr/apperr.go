// Package apperr defines the error taxonomy shared by every feature.
// Usecases declare sentinel errors built from these kinds and the HTTP layer
// maps a kind to a status code in one place.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindValidation
	KindTooManyRequests
)

// String returns the human readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds field-level violations for KindValidation.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap classifies err under kind with a message. A nil err yields nil.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// NotFound is a shortcut for New(KindNotFound, ...).
func NotFound(msg string) *Error { return New(KindNotFound, msg) }

// Conflict is a shortcut for New(KindConflict, ...).
func Conflict(msg string) *Error { return New(KindConflict, msg) }

// BadRequest is a shortcut for New(KindBadRequest, ...).
func BadRequest(msg string) *Error { return New(KindBadRequest, msg) }

// Unauthorized is a shortcut for New(KindUnauthorized, ...).
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }

// Forbidden is a shortcut for New(KindForbidden, ...).
func Forbidden(msg string) *Error { return New(KindForbidden, msg) }

// Validation returns a KindValidation error carrying field violations.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Input validation failed", Fields: fields}
}

// KindOf reports the kind of the first *Error in err's chain.
// Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// FieldsOf returns the validation fields of err, if any.
func FieldsOf(err error) map[string]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
