package script

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrManifestDecode = NewError("failed to decode manifest")
	ErrNoScopes       = NewError("manifest declares no scopes")
	ErrDuplicateScope = NewError("duplicate scope name")
	ErrUnknownScope   = NewError("unknown scope name")
	ErrUnknownParent  = NewError("parent scope not declared")
	ErrEmptyStep      = NewError("step declares no operation")
	ErrAmbiguousStep  = NewError("step declares more than one operation")
	ErrMergeFailed    = NewError("merge failed")
	ErrScopeClosed    = NewError("scope is closed")
	ErrExprParse      = NewError("expression parse failed")
	ErrExprCompile    = NewError("expression compilation failed")
	ErrExprEvaluate   = NewError("expression evaluation failed")
	ErrValueType      = NewError("unsupported value type")
)

// Error represents a harness error with optional structured logging
// attributes. It implements both error and slog.LogValuer.
type Error struct {
	err   error
	msg   string
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel this error was derived
// from, matching by message so wrapped and attributed copies still compare
// equal under errors.Is.
func (e *Error) Is(target error) bool {
	t := &Error{}

	return errors.As(target, &t) && t.msg == e.msg
}

// LogValue implements slog.LogValuer for structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // share attrs
	}
}

// With adds attributes to the error for structured logging. It returns a
// new Error to keep sentinels immutable.
func (e *Error) With(attrs ...slog.Attr) *Error {
	merged := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(merged, e.attrs)
	copy(merged[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: merged,
	}
}
