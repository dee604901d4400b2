package script

import (
	"errors"
	"testing"

	"github.com/ardnew/benv/scope"
)

func TestEval_Literal(t *testing.T) {
	sc := scope.New()

	v, err := Eval(`"hello"`, sc)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if !v.Equal(String("hello")) {
		t.Errorf("expected hello, got %v", v)
	}
}

func TestEval_BindingArithmetic(t *testing.T) {
	sc := scope.New()
	sc.SetValue("a", Int(10), Origin{Path: "a"})
	sc.SetValue("b", Int(5), Origin{Path: "b"})

	v, err := Eval("a + b", sc)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if !v.Equal(Int(15)) {
		t.Errorf("expected 15, got %v", v)
	}

	// Evaluation reads count as uses.
	if sc.IsSetButUnused("a") || sc.IsSetButUnused("b") {
		t.Error("expected referenced bindings marked used")
	}
}

func TestEval_ChainShadowing(t *testing.T) {
	root := scope.New()
	root.SetValue("x", Int(1), Origin{Path: "root"})

	child := scope.New(scope.WithParent(root))
	child.SetValue("x", Int(2), Origin{Path: "child"})

	v, err := Eval("x * 10", child)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if !v.Equal(Int(20)) {
		t.Errorf("expected nearest binding to win, got %v", v)
	}
}

func TestEval_BuiltinPlatform(t *testing.T) {
	sc := scope.New()

	v, err := Eval("platform.os", sc)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if v.Kind() != KindString {
		t.Errorf("expected string, got %v", v.Kind())
	}
}

func TestEval_BindingShadowsBuiltin(t *testing.T) {
	sc := scope.New()
	sc.SetValue("platform", String("custom"), Origin{Path: "platform"})

	v, err := Eval("platform", sc)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if !v.Equal(String("custom")) {
		t.Errorf("expected binding to shadow builtin, got %v", v)
	}
}

func TestEval_ListPrepend(t *testing.T) {
	sc := scope.New()
	sc.SetValue("path", String("/usr/bin:/bin"), Origin{Path: "path"})

	v, err := Eval(`list.prepend(path, ":", "/opt/bin")`, sc)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if !v.Equal(String("/opt/bin:/usr/bin:/bin")) {
		t.Errorf("unexpected result %v", v)
	}
}

func TestEval_ListUnique(t *testing.T) {
	sc := scope.New()

	v, err := Eval(`list.unique("a:b:a:c:b", ":")`, sc)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if !v.Equal(String("a:b:c")) {
		t.Errorf("unexpected result %v", v)
	}
}

func TestEval_ParseError(t *testing.T) {
	_, err := Eval("1 +", scope.New())
	if !errors.Is(err, ErrExprParse) {
		t.Errorf("expected ErrExprParse, got %v", err)
	}
}

func TestEval_UnknownIdentifier(t *testing.T) {
	_, err := Eval("undefined_name + 1", scope.New())
	if err == nil {
		t.Error("expected unknown identifier to fail")
	}
}
