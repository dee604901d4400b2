package scope

import "log/slog"

// MakeClosure captures everything visible from this scope as a new
// standalone scope with no live, mutable link back to it.
//
// The walk collects the run of scopes from here up to, and excluding, the
// first read-only boundary (or the chain's end). The collected local
// bindings are flattened into the new scope from farthest to nearest, so
// nearer scopes win name collisions and shadowing is preserved. The new
// scope's parent is the boundary ancestor itself, by reference — its
// bindings stay reachable through the parent link rather than being
// duplicated — or nil if the chain ended without one.
//
// Calling MakeClosure on a boundary scope yields a parentless flat copy of
// that scope's own local bindings.
//
// Values are copied by content and origins carried through unchanged. Every
// copied binding starts with a clear used flag: closures re-open usage
// tracking independently of the scopes they captured. The result is itself
// a [KindBoundary] scope, since a captured environment is read-only to the
// invocation scopes later parented beneath it. Properties and providers
// are not captured.
func (s *Scope) MakeClosure() *Scope {
	var run []*Scope

	cur := s
	for cur != nil && cur.kind != KindBoundary {
		run = append(run, cur)
		cur = cur.parent
	}

	if len(run) == 0 {
		// s is itself a boundary: flat copy, no parent.
		flat := New(WithKind(KindBoundary), WithLogger(s.logger))

		for name, b := range s.vals {
			flat.vals[name] = &Binding{value: b.value, origin: b.origin}
		}

		return flat
	}

	result := New(
		WithKind(KindBoundary),
		WithParent(cur),
		WithLogger(s.logger),
	)

	// Apply farthest-from-s first so nearer scopes override.
	for i := len(run) - 1; i >= 0; i-- {
		for name, b := range run[i].vals {
			result.vals[name] = &Binding{value: b.value, origin: b.origin}
		}
	}

	s.logger.Trace("make closure",
		slog.Int("levels", len(run)),
		slog.Int("bindings", len(result.vals)),
		slog.Bool("bounded", cur != nil),
	)

	return result
}
