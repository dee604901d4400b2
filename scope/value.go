package scope

// Value is the opaque unit stored in a binding. Implementations are supplied
// by the evaluator and must have value semantics: a Value copied into a merge
// target or a closure is an independent copy of content, so implementations
// must not share mutable state between copies.
type Value interface {
	// Type returns a short tag naming the value's type. The engine carries
	// it into diagnostics but never interprets it.
	Type() string

	// Equal reports value-equality (not identity) with another Value.
	// Comparing values of different dynamic types must report false,
	// not panic.
	Equal(other Value) bool
}

// Origin is an opaque blame token tying a binding to the source text that
// produced it. The engine carries origins through stores, merges, and
// closures unchanged, and surfaces them in diagnostics; it never interprets
// them beyond rendering with String.
type Origin interface {
	String() string
}
