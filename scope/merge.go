package scope

import "log/slog"

// NonRecursiveMergeTo copies this scope's local bindings into dest. The
// source's parent chain is never followed, hence non-recursive. For each
// local name:
//
//   - absent from dest: added, preserving the source binding's origin
//   - present in dest with an equal value: a no-op under either clobber
//     setting; dest keeps its own origin, which already blames the
//     surrounding context
//   - present with a differing value and clobber set: overwritten with the
//     source's value and origin
//   - present with a differing value and clobber clear: the merge fails
//     with a [CollisionError] and dest is left entirely unmodified
//
// Collisions are detected before anything is written, so a failed merge is
// atomic. When several names collide, the error blames the first in name
// order. The blame origin is the caller's token for the construct that
// requested the merge (a template invocation, an import, a branch); desc
// names that construct in the error message. Bindings copied into dest
// start with a clear used flag.
func (s *Scope) NonRecursiveMergeTo(
	dest *Scope,
	clobber bool,
	blame Origin,
	desc string,
) error {
	if dest.closed {
		panic("scope: merge into closed scope")
	}

	names := s.Names()

	if !clobber {
		for _, name := range names {
			existing, ok := dest.vals[name]
			if !ok {
				continue
			}

			src := s.vals[name]
			if existing.value.Equal(src.value) {
				continue
			}

			return &CollisionError{
				Name:         name,
				SourceOrigin: src.origin,
				TargetOrigin: existing.origin,
				Blame:        blame,
				Desc:         desc,
			}
		}
	}

	for _, name := range names {
		src := s.vals[name]

		if existing, ok := dest.vals[name]; ok && existing.value.Equal(src.value) {
			continue
		}

		dest.vals[name] = &Binding{
			value:  src.value,
			origin: src.origin,
		}
	}

	s.logger.Trace("merge",
		slog.Int("bindings", len(names)),
		slog.Bool("clobber", clobber),
		slog.String("desc", desc),
	)

	return nil
}
