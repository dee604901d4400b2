package script

import "fmt"

// Origin is the blame token this evaluator attaches to bindings: the
// manifest source name plus a path locating the declaration or step that
// produced the value. It satisfies [scope.Origin] and is never interpreted
// by the engine.
type Origin struct {
	Source string
	Path   string
}

// String implements [scope.Origin].
func (o Origin) String() string {
	if o.Source == "" {
		return o.Path
	}

	return o.Source + ":" + o.Path
}

// originBind locates an initial binding in a scope declaration.
func originBind(source, scopeName, bindName string) Origin {
	return Origin{
		Source: source,
		Path:   fmt.Sprintf("scopes.%s.bind.%s", scopeName, bindName),
	}
}

// originStep locates an operation in the step list.
func originStep(source string, index int, op string) Origin {
	return Origin{
		Source: source,
		Path:   fmt.Sprintf("steps[%d].%s", index, op),
	}
}
