package scope

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMakeClosure_FlattensToBoundary(t *testing.T) {
	root := New(WithKind(KindBoundary))
	root.SetValue("z", intVal(0), testOrigin("root"))

	outer := New(WithParent(root))
	outer.SetValue("x", intVal(1), testOrigin("outer"))
	outer.SetValue("y", intVal(3), testOrigin("outer"))

	inner := New(WithParent(outer))
	inner.SetValue("x", intVal(2), testOrigin("inner"))

	c := inner.MakeClosure()

	// Nearer scopes win the flattening.
	if v, _ := c.GetValue("x", false); v != intVal(2) {
		t.Errorf("expected shadowing value 2, got %v", v)
	}

	if v, _ := c.GetValue("y", false); v != intVal(3) {
		t.Errorf("expected flattened value 3, got %v", v)
	}

	// Boundary bindings stay reachable through the parent link rather
	// than being copied in.
	if v, _ := c.GetValue("z", false); v != intVal(0) {
		t.Errorf("expected boundary value 0, got %v", v)
	}

	if c.Parent() != root {
		t.Error("expected closure parented to the boundary ancestor")
	}

	if c.Kind() != KindBoundary {
		t.Errorf("expected closure to be a boundary, got %v", c.Kind())
	}

	want := map[string]Value{"x": intVal(2), "y": intVal(3)}
	if diff := cmp.Diff(want, c.CurrentValues()); diff != "" {
		t.Errorf("flattened store mismatch (-want +got):\n%s", diff)
	}
}

func TestMakeClosure_UnboundedChainHasNoParent(t *testing.T) {
	root := New()
	root.SetValue("a", intVal(1), testOrigin("root"))

	child := New(WithParent(root))
	child.SetValue("b", intVal(2), testOrigin("child"))

	c := child.MakeClosure()

	if c.Parent() != nil {
		t.Error("expected parentless closure from an unbounded chain")
	}

	want := map[string]Value{"a": intVal(1), "b": intVal(2)}
	if diff := cmp.Diff(want, c.CurrentValues()); diff != "" {
		t.Errorf("flattened store mismatch (-want +got):\n%s", diff)
	}
}

func TestMakeClosure_OfBoundaryIsFlatCopy(t *testing.T) {
	root := New()
	root.SetValue("above", intVal(1), testOrigin("root"))

	b := New(WithParent(root), WithKind(KindBoundary))
	b.SetValue("own", intVal(2), testOrigin("b"))

	c := b.MakeClosure()

	if c.Parent() != nil {
		t.Error("expected flat copy with no parent")
	}

	if _, ok := c.GetValue("above", false); ok {
		t.Error("expected ancestor bindings excluded from flat copy")
	}

	if v, _ := c.GetValue("own", false); v != intVal(2) {
		t.Errorf("expected own binding copied, got %v", v)
	}
}

func TestMakeClosure_DetachedFromSource(t *testing.T) {
	s := New()
	s.SetValue("x", intVal(1), testOrigin("s"))

	c := s.MakeClosure()

	// Later mutation of the source must not leak into the capture.
	s.SetValue("x", intVal(99), testOrigin("s"))

	if v, _ := c.GetValue("x", false); v != intVal(1) {
		t.Errorf("expected captured value 1, got %v", v)
	}
}

func TestMakeClosure_CopiesStartUnused(t *testing.T) {
	s := New()
	s.SetValue("x", intVal(1), testOrigin("s"))
	s.GetValue("x", true)

	c := s.MakeClosure()

	if !c.IsSetButUnused("x") {
		t.Error("expected captured binding to start unused")
	}
}

func TestMakeClosure_ReadOnlyToDescendants(t *testing.T) {
	s := New()
	s.SetValue("x", intVal(1), testOrigin("s"))

	c := s.MakeClosure()
	invocation := New(WithParent(c))

	if _, access := invocation.GetMutableValue("x", false); access != AccessDenied {
		t.Errorf("expected captured binding denied to invocation scope, got %v", access)
	}

	if _, ok := invocation.GetValue("x", false); !ok {
		t.Error("expected captured binding readable from invocation scope")
	}
}
