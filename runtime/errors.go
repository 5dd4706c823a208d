package runtime

import (
	"fmt"

	"github.com/rendergo/jinja/nodes"
)

// ErrorKind classifies a runtime error the way spec.md §7 enumerates
// them. Illustrative, not a language-level type hierarchy — mirrors
// the teacher's ErrorType enum in runtime/errors.go but with this
// spec's vocabulary instead of gojinja's inheritance-flavored kinds.
type ErrorKind string

const (
	KindSyntax  ErrorKind = "syntax_error"
	KindType    ErrorKind = "type_error"
	KindArity   ErrorKind = "arity_error"
	KindValue   ErrorKind = "value_error"
	KindUnknown ErrorKind = "unknown_error"
)

// Error is a runtime error carrying a kind and the node it occurred
// at, wrapping an underlying cause where one exists.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     nodes.Position
	Cause   error
}

func (e *Error) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s at line %d: %s", e.Kind, e.Pos.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind ErrorKind, pos nodes.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func wrapError(kind ErrorKind, pos nodes.Position, cause error) *Error {
	return &Error{Kind: kind, Message: cause.Error(), Pos: pos, Cause: cause}
}

// classify maps an internal sentinel error (TypeError, ArityError,
// ValueError) to its ErrorKind, defaulting to KindUnknown for
// anything else (e.g. a bare fmt.Errorf from deep inside a filter).
func classify(err error) ErrorKind {
	switch err.(type) {
	case *TypeError:
		return KindType
	case *ArityError:
		return KindArity
	case *ValueError:
		return KindValue
	}
	return KindUnknown
}

// ArityError is returned when a macro call or destructuring pattern
// receives the wrong number of items.
type ArityError struct{ Message string }

func (e *ArityError) Error() string { return e.Message }

func arityErrorf(format string, args ...interface{}) error {
	return &ArityError{Message: fmt.Sprintf(format, args...)}
}

// ValueError is returned for well-typed but semantically invalid
// arguments, e.g. an empty split separator.
type ValueError struct{ Message string }

func (e *ValueError) Error() string { return e.Message }

func valueErrorf(format string, args ...interface{}) error {
	return &ValueError{Message: fmt.Sprintf(format, args...)}
}
