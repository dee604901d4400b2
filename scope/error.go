package scope

import (
	"errors"
	"fmt"
	"log/slog"
)

// CollisionError reports a clobber-disallowed merge of two differently
// valued bindings sharing one name. It identifies both definition sites and
// the construct that requested the merge.
type CollisionError struct {
	SourceOrigin Origin
	TargetOrigin Origin
	Blame        Origin
	Name         string
	Desc         string
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf(
		"%s: conflicting values for %q (defined at %s, previously at %s)",
		e.Desc, e.Name, e.SourceOrigin, e.TargetOrigin,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (e *CollisionError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", "binding collision"),
		slog.String("name", e.Name),
		slog.String("desc", e.Desc),
		slog.String("source", e.SourceOrigin.String()),
		slog.String("target", e.TargetOrigin.String()),
		slog.String("blame", e.Blame.String()),
	)
}

// UnusedVariableError reports a local binding that was never read before
// its scope closed.
type UnusedVariableError struct {
	Origin Origin
	Name   string
}

// Error implements the error interface.
func (e *UnusedVariableError) Error() string {
	return fmt.Sprintf("unused binding %q (defined at %s)", e.Name, e.Origin)
}

// LogValue implements slog.LogValuer for structured logging.
func (e *UnusedVariableError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", "unused binding"),
		slog.String("name", e.Name),
		slog.String("origin", e.Origin.String()),
	)
}

// joinErrors folds per-binding diagnostics into one error tree so callers
// can match individual offenders with errors.As.
func joinErrors(errs []error) error {
	return errors.Join(errs...)
}
