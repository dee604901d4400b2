package script

import (
	"errors"
	"testing"

	"github.com/ardnew/benv/scope"
)

func mustLoad(t *testing.T, src string) *Manifest {
	t.Helper()

	m, err := LoadString(src)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	return m
}

func TestRunner_EndToEnd(t *testing.T) {
	src := `
scopes:
  - name: defaults
    boundary: true
    bind:
      cflags: '"-O2"'
      jobs: "4"
  - name: build
    parent: defaults
    bind:
      jobs: "8"
steps:
  - set:
      scope: build
      name: total
      expr: "jobs * 2"
  - get:
      scope: build
      name: total
  - get:
      scope: build
      name: cflags
  - mark:
      scope: defaults
      all: true
  - check:
      scope: defaults
  - check:
      scope: build
`

	r := NewRunner(WithSource("test.yaml"))

	result, err := r.Run(t.Context(), mustLoad(t, src))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if len(result.Gets) != 2 {
		t.Fatalf("expected 2 gets, got %d", len(result.Gets))
	}

	// Shadowing: build.jobs=8 wins over defaults.jobs=4.
	if !result.Gets[0].Value.Equal(Int(16)) {
		t.Errorf("expected total=16, got %v", result.Gets[0].Value)
	}

	if !result.Gets[1].Value.Equal(String("-O2")) {
		t.Errorf("expected cflags=-O2, got %v", result.Gets[1].Value)
	}

	if result.Failed() {
		t.Errorf("expected all checks to pass: %+v", result.Checks)
	}

	// Every binding was read or marked: build.jobs by the set expression,
	// build.total and defaults.cflags by gets, defaults.* by mark.
	for _, c := range result.Checks {
		if c.Err != nil {
			t.Errorf("check %s failed: %v", c.Scope, c.Err)
		}
	}
}

func TestRunner_CheckFailureCollected(t *testing.T) {
	src := `
scopes:
  - name: a
    bind:
      unread: "1"
steps:
  - check:
      scope: a
`

	r := NewRunner()

	result, err := r.Run(t.Context(), mustLoad(t, src))
	if err != nil {
		t.Fatalf("expected check failures collected, not fatal: %v", err)
	}

	if !result.Failed() {
		t.Fatal("expected failed check in result")
	}

	var unused *scope.UnusedVariableError
	if !errors.As(result.Checks[0].Err, &unused) {
		t.Fatalf("unexpected error type %T", result.Checks[0].Err)
	}

	if unused.Name != "unread" {
		t.Errorf("expected offender unread, got %s", unused.Name)
	}

	if unused.Origin.String() != "scopes.a.bind.unread" {
		t.Errorf("unexpected origin %s", unused.Origin)
	}
}

func TestRunner_MergeCollisionAborts(t *testing.T) {
	src := `
scopes:
  - name: a
    bind:
      x: "1"
  - name: b
    bind:
      x: "2"
steps:
  - merge:
      from: a
      into: b
      desc: import of a
`

	r := NewRunner()

	_, err := r.Run(t.Context(), mustLoad(t, src))
	if !errors.Is(err, ErrMergeFailed) {
		t.Fatalf("expected ErrMergeFailed, got %v", err)
	}

	var collision *scope.CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected CollisionError in chain, got %v", err)
	}

	if collision.Name != "x" || collision.Desc != "import of a" {
		t.Errorf("unexpected collision detail %+v", collision)
	}
}

func TestRunner_MergeClobber(t *testing.T) {
	src := `
scopes:
  - name: a
    bind:
      x: "1"
  - name: b
    bind:
      x: "2"
steps:
  - merge:
      from: a
      into: b
      clobber: true
  - get:
      scope: b
      name: x
`

	r := NewRunner()

	result, err := r.Run(t.Context(), mustLoad(t, src))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if !result.Gets[0].Value.Equal(Int(1)) {
		t.Errorf("expected clobbered value 1, got %v", result.Gets[0].Value)
	}
}

func TestRunner_MutableGetAcrossBoundary(t *testing.T) {
	src := `
scopes:
  - name: defaults
    boundary: true
    bind:
      cflags: '"-O2"'
  - name: build
    parent: defaults
    bind:
      jobs: "8"
steps:
  - get:
      scope: build
      name: cflags
      mutable: true
  - get:
      scope: build
      name: jobs
      mutable: true
  - get:
      scope: build
      name: missing
      mutable: true
`

	r := NewRunner()

	result, err := r.Run(t.Context(), mustLoad(t, src))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	want := []scope.Access{
		scope.AccessDenied,
		scope.AccessFound,
		scope.AccessAbsent,
	}

	for i, access := range want {
		if result.Gets[i].Access != access {
			t.Errorf("get %d: expected %v, got %v", i, access, result.Gets[i].Access)
		}
	}

	if !result.Gets[1].Value.Equal(Int(8)) {
		t.Errorf("expected jobs=8, got %v", result.Gets[1].Value)
	}
}

func TestRunner_ClosureStep(t *testing.T) {
	src := `
scopes:
  - name: outer
    bind:
      x: "1"
  - name: inner
    parent: outer
    bind:
      x: "2"
      y: "3"
steps:
  - closure:
      of: inner
      as: captured
  - set:
      scope: outer
      name: x
      expr: "99"
  - get:
      scope: captured
      name: x
  - get:
      scope: captured
      name: y
`

	r := NewRunner()

	result, err := r.Run(t.Context(), mustLoad(t, src))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	// The capture flattened inner over outer and detached from both.
	if !result.Gets[0].Value.Equal(Int(2)) {
		t.Errorf("expected captured x=2, got %v", result.Gets[0].Value)
	}

	if !result.Gets[1].Value.Equal(Int(3)) {
		t.Errorf("expected captured y=3, got %v", result.Gets[1].Value)
	}

	captured, ok := r.Scope("captured")
	if !ok {
		t.Fatal("expected captured scope registered")
	}

	if captured.Kind() != scope.KindBoundary {
		t.Errorf("expected closure to be a boundary, got %v", captured.Kind())
	}
}

func TestRunner_BindExpressionError(t *testing.T) {
	src := `
scopes:
  - name: a
    bind:
      bad: "1 +"
`

	r := NewRunner()

	_, err := r.Run(t.Context(), mustLoad(t, src))
	if !errors.Is(err, ErrExprParse) {
		t.Errorf("expected ErrExprParse, got %v", err)
	}
}

func TestRunner_SetUsesVisibleBindings(t *testing.T) {
	src := `
scopes:
  - name: a
    bind:
      base: '"x"'
steps:
  - set:
      scope: a
      name: derived
      expr: 'base + "y"'
  - get:
      scope: a
      name: derived
  - check:
      scope: a
`

	r := NewRunner()

	result, err := r.Run(t.Context(), mustLoad(t, src))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if !result.Gets[0].Value.Equal(String("xy")) {
		t.Errorf("expected derived=xy, got %v", result.Gets[0].Value)
	}

	// The set expression read base; the get read derived.
	if result.Failed() {
		t.Errorf("expected check to pass: %+v", result.Checks)
	}
}

func TestRunner_SetIntoCheckedScope(t *testing.T) {
	src := `
scopes:
  - name: build
    bind:
      jobs: "4"
steps:
  - mark:
      scope: build
      all: true
  - check:
      scope: build
  - set:
      scope: build
      name: extra
      expr: "1"
`

	r := NewRunner(WithSource("test.yaml"))

	_, err := r.Run(t.Context(), mustLoad(t, src))
	if !errors.Is(err, ErrScopeClosed) {
		t.Fatalf("expected ErrScopeClosed, got %v", err)
	}
}

func TestRunner_MergeIntoCheckedScope(t *testing.T) {
	src := `
scopes:
  - name: defaults
    bind:
      jobs: "4"
  - name: overlay
    bind:
      jobs: "8"
steps:
  - mark:
      scope: defaults
      all: true
  - check:
      scope: defaults
  - merge:
      from: overlay
      into: defaults
      clobber: true
      desc: "overlay import"
`

	r := NewRunner(WithSource("test.yaml"))

	_, err := r.Run(t.Context(), mustLoad(t, src))
	if !errors.Is(err, ErrScopeClosed) {
		t.Fatalf("expected ErrScopeClosed, got %v", err)
	}
}

func TestRunner_SetAfterFailedCheckSucceeds(t *testing.T) {
	// A failing check leaves the scope open, so a later set is legal.
	src := `
scopes:
  - name: build
    bind:
      jobs: "4"
steps:
  - check:
      scope: build
  - set:
      scope: build
      name: extra
      expr: "1"
`

	r := NewRunner(WithSource("test.yaml"))

	result, err := r.Run(t.Context(), mustLoad(t, src))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if !result.Failed() {
		t.Error("expected the collected check to have failed")
	}
}
