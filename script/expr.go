package script

import (
	"log/slog"
	"maps"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/benv/scope"
)

// identCollector gathers the identifiers an expression references so reads
// made inside expressions participate in usage tracking.
type identCollector struct {
	names map[string]struct{}
}

// Visit implements ast.Visitor for identCollector.
func (c *identCollector) Visit(node *ast.Node) {
	if id, ok := (*node).(*ast.IdentifierNode); ok {
		c.names[id.Value] = struct{}{}
	}
}

// evalExpr evaluates one expression against the bindings visible from sc.
// The environment is the chain-flattened binding set (nearest level wins)
// over the builtin environment. Identifiers the expression references are
// resolved through [scope.Scope.GetValue] with usage marking before the
// program runs.
func evalExpr(src string, sc *scope.Scope) (Value, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return Null(), ErrExprParse.Wrap(err).
			With(slog.String("source", src))
	}

	collector := &identCollector{names: make(map[string]struct{})}
	ast.Walk(&tree.Node, collector)

	// Bindings shadow builtins, and nearer levels shadow farther ones.
	visible := make(map[string]any)

	for cur := sc; cur != nil; cur = cur.Parent() {
		for name, v := range cur.CurrentValues() {
			if _, ok := visible[name]; ok {
				continue
			}

			if sv, ok := v.(Value); ok {
				visible[name] = sv.Native()
			}
		}
	}

	env := maps.Clone(builtinEnv())
	maps.Copy(env, visible)

	// Mark every referenced binding used, wherever it lives in the chain.
	for name := range collector.names {
		sc.GetValue(name, true)
	}

	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return Null(), ErrExprCompile.Wrap(err).
			With(slog.String("source", src))
	}

	out, err := vm.Run(program, env)
	if err != nil {
		return Null(), ErrExprEvaluate.Wrap(err).
			With(slog.String("source", src))
	}

	return FromNative(out)
}
