package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrBottomScope = errors.New("cannot pop the root scope")
)
