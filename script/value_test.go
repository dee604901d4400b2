package script

import (
	"errors"
	"testing"
)

func TestValue_EqualDeep(t *testing.T) {
	a := Map(map[string]Value{
		"flags": List(String("-O2"), String("-Wall")),
		"jobs":  Int(8),
	})
	b := Map(map[string]Value{
		"flags": List(String("-O2"), String("-Wall")),
		"jobs":  Int(8),
	})

	if !a.Equal(b) {
		t.Error("expected deep-equal maps to compare equal")
	}

	c := Map(map[string]Value{
		"flags": List(String("-O2")),
		"jobs":  Int(8),
	})

	if a.Equal(c) {
		t.Error("expected differing lists to compare unequal")
	}
}

func TestValue_EqualKindMismatch(t *testing.T) {
	if Int(1).Equal(Float(1)) {
		t.Error("expected int and float to compare unequal")
	}

	if Null().Equal(Bool(false)) {
		t.Error("expected null and false to compare unequal")
	}
}

func TestValue_String(t *testing.T) {
	v := Map(map[string]Value{
		"b": Bool(true),
		"a": List(Int(1), String("x")),
	})

	want := `{a: [1, "x"], b: true}`
	if got := v.String(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestFromNative_Roundtrip(t *testing.T) {
	v, err := FromNative(map[string]any{
		"name":  "release",
		"jobs":  int64(8),
		"debug": false,
		"dirs":  []any{"out", "gen"},
	})
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}

	if v.Kind() != KindMap {
		t.Fatalf("expected map, got %v", v.Kind())
	}

	native, ok := v.Native().(map[string]any)
	if !ok {
		t.Fatalf("expected native map, got %T", v.Native())
	}

	if native["jobs"] != int64(8) {
		t.Errorf("expected jobs=8, got %v (%T)", native["jobs"], native["jobs"])
	}

	dirs, ok := native["dirs"].([]any)
	if !ok || len(dirs) != 2 || dirs[0] != "out" {
		t.Errorf("expected dirs list preserved, got %v", native["dirs"])
	}
}

func TestFromNative_Unsupported(t *testing.T) {
	_, err := FromNative(struct{}{})
	if !errors.Is(err, ErrValueType) {
		t.Errorf("expected ErrValueType, got %v", err)
	}
}
