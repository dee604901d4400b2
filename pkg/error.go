package pkg

// Sentinel errors shared by the CLI and its subpackages.
// All can be tested with errors.Is.

import (
	"fmt"
	"slices"
	"strings"
)

// Error represents a chain of errors, innermost first.
type Error []error

// ErrReadInput is returned when reading an input manifest fails.
//
// It should be wrapped with the underlying I/O error to preserve the chain.
var ErrReadInput = MakeErrorf("failed to read input")

// ErrManifest is returned when a manifest cannot be decoded or validated.
var ErrManifest = MakeErrorf("invalid manifest")

// ErrUnusedBindings is returned by the check command when one or more
// scopes exit with never-read bindings.
var ErrUnusedBindings = MakeErrorf("unused bindings")

// ErrYAMLMarshal is returned when YAML report encoding fails.
var ErrYAMLMarshal = MakeErrorf("YAML marshal error")

// MakeError constructs an Error from the given errors, innermost first.
// Nil is returned if no non-nil errors are provided.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error returns all errors in the chain joined with ": ", innermost to
// outermost.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range slices.All(e) {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap appends one or more errors to the receiver and returns the result.
func (e Error) Wrap(err ...error) Error {
	return append(e, err...)
}

// Wrapf appends a formatted error to the receiver and returns the result.
func (e Error) Wrapf(format string, args ...any) Error {
	return append(e, fmt.Errorf(format, args...))
}

// Unwrap returns the slice of errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// Is reports whether target is a sentinel this chain was derived from,
// matching on the sentinel's innermost message. Sentinels are slices, so
// identity comparison alone would never match a wrapped copy.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(e) == 0 {
		return false
	}

	return e[0].Error() == t[0].Error()
}

// UnwrapErrors recursively unwraps an error chain and returns a slice of
// all errors in the chain, starting from the innermost.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	} else if e, ok := err.(interface{ Unwrap() error }); ok {
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
