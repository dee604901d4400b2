package scope

// Binding is one (value, origin, used) entry in a scope's local store.
// A binding lives in exactly one scope; handles returned by
// [Scope.GetMutableValue] alias the owning scope's entry.
type Binding struct {
	value  Value
	origin Origin
	used   bool
}

// Value returns the bound value.
func (b *Binding) Value() Value { return b.value }

// Origin returns the blame token recorded when the binding was last stored.
func (b *Binding) Origin() Origin { return b.origin }

// Used reports whether the binding has been read since it was last stored.
func (b *Binding) Used() bool { return b.used }

// Set replaces the bound value in place, keeping the recorded origin and
// used flag. This is the mutation path for compound assignment operators,
// which already blame the original definition site. A full re-definition
// goes through [Scope.SetValue] instead, which also resets the used flag
// and replaces the origin.
func (b *Binding) Set(v Value) { b.value = v }
