package truth

import (
	"errors"
	"fmt"
)

// Kind classifies failures so the request boundary can pick a message.
type Kind string

const (
	KindDecode            Kind = "decode"
	KindUnsupportedFormat Kind = "unsupported_format"
	KindNetwork           Kind = "network"
	KindFormat            Kind = "format"
	KindEmptyInput        Kind = "empty_input"
	KindConfig            Kind = "config"
)

// Error is the error type returned by every scorer and the text verifier.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error without an underlying cause.
func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// Wrap attaches a kind to err. An err that already carries a kind is returned as is,
// so the innermost classification wins.
func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

// IsKind reports whether the first *Error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or "" when err is not classified.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return ""
}
