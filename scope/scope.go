package scope

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/benv/log"
)

// Kind distinguishes ordinary block scopes from read-only boundaries.
type Kind int

const (
	// KindMutable is an ordinary block scope. Descendants may obtain
	// mutable access to its bindings.
	KindMutable Kind = iota

	// KindBoundary is a read-only boundary. Its bindings, and those of
	// every scope above it, are readable by descendants but never
	// mutably accessible to them.
	KindBoundary
)

// String returns the string representation of a scope kind.
func (k Kind) String() string {
	switch k {
	case KindMutable:
		return "mutable"
	case KindBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// Access describes the outcome of a mutable lookup.
type Access int

const (
	// AccessFound means the binding was found and is mutable from the
	// invoking scope.
	AccessFound Access = iota

	// AccessAbsent means the name is not bound anywhere in the chain.
	AccessAbsent

	// AccessDenied means the name is bound, but only at or above a
	// read-only boundary relative to the invoking scope. This is a
	// capability signal, not an error: the same name still resolves
	// through [Scope.GetValue].
	AccessDenied
)

// String returns the string representation of an access outcome.
func (a Access) String() string {
	switch a {
	case AccessFound:
		return "found"
	case AccessAbsent:
		return "absent"
	case AccessDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Provider supplies values programmatically when a lookup misses a scope's
// local store. The evaluator uses providers for names computed on demand
// rather than stored. Provider results bypass usage tracking.
type Provider interface {
	ProgrammaticValue(name string) (Value, bool)
}

// Scope is one lexical binding context. The zero value is not usable;
// construct scopes with [New].
type Scope struct {
	parent   *Scope // borrowed reference; must outlive this scope
	vals     map[string]*Binding
	props    map[any]any
	provider Provider
	logger   log.Logger
	kind     Kind
	closed   bool
}

// Option applies a configuration option to a scope under construction.
type Option func(*Scope)

// WithParent returns an option parenting the new scope to p. The parent
// reference is non-owning: the caller must keep p alive for as long as the
// child (or any closure captured from it) may perform lookups.
func WithParent(p *Scope) Option {
	return func(s *Scope) { s.parent = p }
}

// WithKind returns an option setting the new scope's kind.
func WithKind(k Kind) Option {
	return func(s *Scope) { s.kind = k }
}

// WithProvider returns an option attaching a programmatic value provider.
func WithProvider(p Provider) Option {
	return func(s *Scope) { s.provider = p }
}

// WithLogger returns an option attaching a logger for trace-level
// diagnostics of scope operations. Without it, scopes are silent.
func WithLogger(l log.Logger) Option {
	return func(s *Scope) { s.logger = l }
}

// New creates a scope. With no options the result is a parentless mutable
// root.
func New(opts ...Option) *Scope {
	s := &Scope{
		vals: make(map[string]*Binding),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Kind returns the scope's kind.
func (s *Scope) Kind() Kind { return s.kind }

// Parent returns the parent scope, or nil for a root.
func (s *Scope) Parent() *Scope { return s.parent }

// Closed reports whether the scope has passed its unused-binding check and
// is read-only from here on.
func (s *Scope) Closed() bool { return s.closed }

// GetValue resolves name against this scope and then each ancestor in turn,
// nearest first, returning the first match. When markUsed is set and a
// match is found in a local store, that binding's used flag is set
// regardless of which level owns it. Values supplied by a [Provider] are
// consulted after the owning level's local store misses; they carry no
// used flag.
func (s *Scope) GetValue(name string, markUsed bool) (Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.vals[name]; ok {
			if markUsed {
				b.used = true
			}

			return b.value, true
		}

		if cur.provider != nil {
			if v, ok := cur.provider.ProgrammaticValue(name); ok {
				return v, true
			}
		}
	}

	return nil, false
}

// GetMutableValue resolves name like [Scope.GetValue] but yields a handle
// for in-place mutation. The outcome is [AccessDenied] when the first match
// is owned by a scope at or above a read-only boundary relative to this
// scope; the invoking scope's own store is always mutable to itself, even
// when the scope is itself a boundary. Denied lookups never mark the
// binding used. Provider values are never mutable.
func (s *Scope) GetMutableValue(name string, markUsed bool) (*Binding, Access) {
	denied := false

	for cur := s; cur != nil; cur = cur.parent {
		if cur != s && cur.kind == KindBoundary {
			denied = true
		}

		b, ok := cur.vals[name]
		if !ok {
			continue
		}

		if denied {
			return nil, AccessDenied
		}

		if markUsed {
			b.used = true
		}

		return b, AccessFound
	}

	return nil, AccessAbsent
}

// SetValue inserts or overwrites a binding in this scope's local store only;
// it never writes through to a parent. Overwriting resets the used flag and
// replaces the origin. SetValue panics if the scope has already been closed
// by a passing [Scope.CheckForUnusedVars].
func (s *Scope) SetValue(name string, v Value, origin Origin) {
	if s.closed {
		panic("scope: SetValue " + name + " on closed scope")
	}

	s.logger.Trace("set value",
		slog.String("name", name),
		slog.String("type", v.Type()),
		slog.Any("origin", origin),
	)

	s.vals[name] = &Binding{
		value:  v,
		origin: origin,
	}
}

// MarkUsed sets the used flag on the nearest binding of name, reporting
// whether one was found. It is equivalent to a GetValue with markUsed that
// discards the value.
func (s *Scope) MarkUsed(name string) bool {
	_, ok := s.GetValue(name, true)

	return ok
}

// MarkAllUsed sets the used flag on every binding in this scope's local
// store. Evaluators use it for scopes whose contents are consumed wholesale,
// where per-name tracking would produce false positives.
func (s *Scope) MarkAllUsed() {
	for _, b := range s.vals {
		b.used = true
	}
}

// IsSetButUnused reports whether name is bound in this scope's local store
// with its used flag still clear.
func (s *Scope) IsSetButUnused(name string) bool {
	b, ok := s.vals[name]

	return ok && !b.used
}

// CurrentValues returns a copy of the local binding store as a name→value
// map. Parent scopes are not consulted.
func (s *Scope) CurrentValues() map[string]Value {
	out := make(map[string]Value, len(s.vals))

	for name, b := range s.vals {
		out[name] = b.value
	}

	return out
}

// Names returns the locally bound names in sorted order.
func (s *Scope) Names() []string {
	return slices.Sorted(maps.Keys(s.vals))
}

// CheckForUnusedVars scans this scope's local bindings and fails if any was
// never read, naming each offender and its origin. Offenders are reported
// in name order, joined into one error whose tree contains one
// [UnusedVariableError] per binding. A nil return closes the scope: it is
// read-only from then on. A failing check leaves the scope open so the
// evaluator may downgrade the diagnostic, mark stragglers used, and check
// again.
func (s *Scope) CheckForUnusedVars() error {
	var errs []error

	for _, name := range s.Names() {
		if b := s.vals[name]; !b.used {
			errs = append(errs, &UnusedVariableError{
				Name:   name,
				Origin: b.origin,
			})
		}
	}

	if len(errs) > 0 {
		s.logger.Trace("unused bindings at scope exit",
			slog.Int("count", len(errs)),
		)

		return joinErrors(errs)
	}

	s.closed = true

	return nil
}
