package contract

import (
	"errors"
	"fmt"
)

// ErrorKind is the shared failure taxonomy used across the executor, the
// gateway, and the domain services. Every failure that crosses a component
// boundary is classified as exactly one kind.
type ErrorKind string

const (
	KindInvalidArgument       ErrorKind = "INVALID_ARGUMENT"
	KindNotAuthorized         ErrorKind = "NOT_AUTHORIZED"
	KindNotFound              ErrorKind = "NOT_FOUND"
	KindBusinessRuleViolation ErrorKind = "BUSINESS_RULE_VIOLATION"
	KindTransientUnavailable  ErrorKind = "TRANSIENT_UNAVAILABLE"
	KindInternal              ErrorKind = "INTERNAL"
)

// Retryable reports whether a failure of this kind may be retried by the
// caller. Only transient gateway failures qualify.
func (k ErrorKind) Retryable() bool {
	return k == KindTransientUnavailable
}

// Error carries a taxonomy kind alongside a human-oriented message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the taxonomy kind from err. Unclassified errors map to
// INTERNAL so unexpected faults are never silently downgraded.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

var (
	ErrEmptyUtterance = errors.New("utterance is empty")
	ErrEmptySessionID = errors.New("session id is empty")
)
