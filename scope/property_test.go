package scope

import "testing"

type collectorKey struct{}

func TestProperty_WalksChain(t *testing.T) {
	root := New()
	root.SetProperty(collectorKey{}, "root-collector")

	child := New(WithParent(root))

	v, owner := child.GetProperty(collectorKey{})
	if v != "root-collector" {
		t.Errorf("expected root-collector, got %v", v)
	}

	if owner != root {
		t.Error("expected owner to be the root scope")
	}
}

func TestProperty_NearestWins(t *testing.T) {
	root := New()
	root.SetProperty(collectorKey{}, "outer")

	child := New(WithParent(root))
	child.SetProperty(collectorKey{}, "inner")

	v, owner := child.GetProperty(collectorKey{})
	if v != "inner" || owner != child {
		t.Errorf("expected inner from child, got %v from %p", v, owner)
	}
}

func TestProperty_NilDeletes(t *testing.T) {
	s := New()
	s.SetProperty(collectorKey{}, "set")
	s.SetProperty(collectorKey{}, nil)

	if v, owner := s.GetProperty(collectorKey{}); owner != nil {
		t.Errorf("expected deleted property, got %v", v)
	}
}

func TestProperty_NotCapturedByClosure(t *testing.T) {
	s := New()
	s.SetProperty(collectorKey{}, "live")

	c := s.MakeClosure()

	if v, owner := c.GetProperty(collectorKey{}); owner != nil {
		t.Errorf("expected closure without properties, got %v", v)
	}
}
