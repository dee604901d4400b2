package scope

// SetProperty stores an opaque key/value slot on this scope, outside the
// binding namespace. Evaluators use properties to stash collaborator state
// (collectors, per-block modes) where descendants can reach it through the
// chain. A nil value deletes the slot. Keys follow the context-key
// convention: use unexported types to avoid collisions between packages.
func (s *Scope) SetProperty(key, value any) {
	if value == nil {
		delete(s.props, key)

		return
	}

	if s.props == nil {
		s.props = make(map[any]any)
	}

	s.props[key] = value
}

// GetProperty resolves key against this scope and then each ancestor,
// nearest first, returning the stored value and the scope that owns it.
// A nil owner means the key is unset along the whole chain. Properties are
// not copied by merges or closures.
func (s *Scope) GetProperty(key any) (any, *Scope) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.props[key]; ok {
			return v, cur
		}
	}

	return nil, nil
}
