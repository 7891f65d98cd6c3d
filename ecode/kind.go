package ecode

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the API boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindState
	KindUnavailable
)

var kindNames = [...]string{
	KindInternal:     "internal",
	KindValidation:   "validation",
	KindUnauthorized: "unauthorized",
	KindForbidden:    "forbidden",
	KindNotFound:     "not_found",
	KindConflict:     "conflict",
	KindState:        "state",
	KindUnavailable:  "unavailable",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindInternal]
}

// Code returns the business code of the kind.
func (k Kind) Code() int {
	switch k {
	case KindValidation:
		return ParamErr
	case KindUnauthorized:
		return Unauthorized
	case KindForbidden:
		return AccessDenied
	case KindNotFound:
		return NothingFound
	case KindConflict:
		return Conflict
	case KindState:
		return StateErr
	case KindUnavailable:
		return ServiceUnavailable
	default:
		return ServerErr
	}
}

// Error is a classified error. Message is safe to show to clients,
// Err carries the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err []error) *Error {
	e := &Error{Kind: kind, Message: msg}
	if len(err) > 0 {
		e.Err = err[0]
	}
	return e
}

// Validation reports malformed or missing input.
func Validation(msg string, err ...error) *Error { return newError(KindValidation, msg, err) }

// ValidationFields reports field level validation failures.
func ValidationFields(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// Unauthenticated reports a missing or invalid identity.
func Unauthenticated(msg string, err ...error) *Error { return newError(KindUnauthorized, msg, err) }

// Forbidden reports a caller lacking permission for the requested operation.
func Forbidden(msg string, err ...error) *Error { return newError(KindForbidden, msg, err) }

// NotFound reports a missing job or referenced user.
func NotFound(msg string, err ...error) *Error { return newError(KindNotFound, msg, err) }

// Conflicted reports a duplicate request or a lost concurrent write.
func Conflicted(msg string, err ...error) *Error { return newError(KindConflict, msg, err) }

// State reports a transition that is invalid from the current status.
func State(msg string, err ...error) *Error { return newError(KindState, msg, err) }

// Unavailable reports a storage timeout or outage.
func Unavailable(msg string, err ...error) *Error { return newError(KindUnavailable, msg, err) }

// Internal reports an unclassified failure.
func Internal(msg string, err ...error) *Error { return newError(KindInternal, msg, err) }

// KindOf returns the kind of err, KindInternal if err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
