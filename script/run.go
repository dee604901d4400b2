package script

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/benv/log"
	"github.com/ardnew/benv/scope"
)

// Runner owns the scopes built while executing a manifest. The scopes
// outlive the run so callers can inspect results, and so closures captured
// during the run keep their boundary ancestors alive.
type Runner struct {
	scopes map[string]*scope.Scope
	logger log.Logger
	source string
	order  []string
}

// Option applies a configuration option to a Runner.
type Option func(*Runner)

// WithLogger attaches a logger used for step tracing and handed to every
// scope the runner creates.
func WithLogger(l log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithSource sets the manifest display name used in blame tokens.
func WithSource(name string) Option {
	return func(r *Runner) { r.source = name }
}

// NewRunner creates an empty runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		scopes: make(map[string]*scope.Scope),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// GetResult records the outcome of one get step.
type GetResult struct {
	Value   Value
	Scope   string
	Name    string
	Access  scope.Access
	Mutable bool
}

// CheckResult records the outcome of one check step. Err is nil when every
// local binding of the scope had been read.
type CheckResult struct {
	Err   error
	Scope string
}

// Result collects the observable outcomes of a run. Check failures are
// collected rather than aborting: whether an unused binding is fatal is
// policy for the caller, not the engine or the runner.
type Result struct {
	Gets   []GetResult
	Checks []CheckResult
}

// Failed reports whether any collected check failed.
func (r *Result) Failed() bool {
	for _, c := range r.Checks {
		if c.Err != nil {
			return true
		}
	}

	return false
}

// Scope returns a scope (or registered closure) by name.
func (r *Runner) Scope(name string) (*scope.Scope, bool) {
	s, ok := r.scopes[name]

	return s, ok
}

// Names returns scope names in declaration/registration order.
func (r *Runner) Names() []string {
	return slices.Clone(r.order)
}

// Run executes the manifest: declares its scopes, applies initial bindings,
// then performs each step in order. Expression and merge failures abort the
// run; check failures are collected into the result.
func (r *Runner) Run(ctx context.Context, m *Manifest) (*Result, error) {
	for _, d := range m.Scopes {
		if err := r.declare(ctx, d); err != nil {
			return nil, err
		}
	}

	result := &Result{}

	for i := range m.Steps {
		if err := r.step(ctx, i, &m.Steps[i], result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// declare creates one scope and applies its initial bindings in name order.
func (r *Runner) declare(ctx context.Context, d Decl) error {
	opts := []scope.Option{scope.WithLogger(r.logger)}

	if d.Boundary {
		opts = append(opts, scope.WithKind(scope.KindBoundary))
	}

	if d.Parent != "" {
		// Validation guaranteed the parent was declared first.
		opts = append(opts, scope.WithParent(r.scopes[d.Parent]))
	}

	sc := scope.New(opts...)
	r.scopes[d.Name] = sc
	r.order = append(r.order, d.Name)

	r.logger.TraceContext(ctx, "declare scope",
		slog.String("name", d.Name),
		slog.String("kind", sc.Kind().String()),
		slog.String("parent", d.Parent),
	)

	for _, name := range slices.Sorted(maps.Keys(d.Bind)) {
		v, err := evalExpr(d.Bind[name], sc)
		if err != nil {
			return WrapError(err).With(
				slog.String("scope", d.Name),
				slog.String("name", name),
			)
		}

		sc.SetValue(name, v, originBind(r.source, d.Name, name))
	}

	return nil
}

//nolint:cyclop
func (r *Runner) step(
	ctx context.Context,
	index int,
	s *Step,
	result *Result,
) error {
	attrs := func(op string) []slog.Attr {
		return []slog.Attr{
			slog.Int("step", index),
			slog.String("op", op),
		}
	}

	switch {
	case s.Set != nil:
		sc := r.scopes[s.Set.Scope]

		// A passing check closes the scope; manifests can reach this
		// state with valid input, so surface it as an error rather
		// than tripping the engine's closed-scope panic.
		if sc.Closed() {
			return ErrScopeClosed.With(
				slog.Int("step", index),
				slog.String("scope", s.Set.Scope),
				slog.String("name", s.Set.Name),
			)
		}

		v, err := evalExpr(s.Set.Expr, sc)
		if err != nil {
			return WrapError(err).With(
				slog.Int("step", index),
				slog.String("scope", s.Set.Scope),
				slog.String("name", s.Set.Name),
			)
		}

		sc.SetValue(
			s.Set.Name, v,
			originStep(r.source, index, "set."+s.Set.Name),
		)
		r.logger.TraceContext(ctx, "step", attrs("set")...)

	case s.Get != nil:
		result.Gets = append(result.Gets, r.get(s.Get))
		r.logger.TraceContext(ctx, "step", attrs("get")...)

	case s.Merge != nil:
		if r.scopes[s.Merge.Into].Closed() {
			return ErrScopeClosed.With(
				slog.Int("step", index),
				slog.String("scope", s.Merge.Into),
			)
		}

		err := r.scopes[s.Merge.From].NonRecursiveMergeTo(
			r.scopes[s.Merge.Into],
			s.Merge.Clobber,
			originStep(r.source, index, "merge"),
			s.Merge.Desc,
		)
		if err != nil {
			return ErrMergeFailed.Wrap(err).With(
				slog.Int("step", index),
				slog.String("from", s.Merge.From),
				slog.String("into", s.Merge.Into),
			)
		}

		r.logger.TraceContext(ctx, "step", attrs("merge")...)

	case s.Closure != nil:
		r.scopes[s.Closure.As] = r.scopes[s.Closure.Of].MakeClosure()
		r.order = append(r.order, s.Closure.As)
		r.logger.TraceContext(ctx, "step", attrs("closure")...)

	case s.Mark != nil:
		sc := r.scopes[s.Mark.Scope]
		if s.Mark.All {
			sc.MarkAllUsed()
		} else {
			sc.MarkUsed(s.Mark.Name)
		}

		r.logger.TraceContext(ctx, "step", attrs("mark")...)

	case s.Check != nil:
		err := r.scopes[s.Check.Scope].CheckForUnusedVars()
		result.Checks = append(result.Checks, CheckResult{
			Scope: s.Check.Scope,
			Err:   err,
		})

		r.logger.TraceContext(ctx, "step",
			append(attrs("check"), slog.Bool("ok", err == nil))...)
	}

	return nil
}

// get performs one lookup step against the live scopes.
func (r *Runner) get(g *GetStep) GetResult {
	sc := r.scopes[g.Scope]

	res := GetResult{
		Scope:   g.Scope,
		Name:    g.Name,
		Mutable: g.Mutable,
	}

	if g.Mutable {
		b, access := sc.GetMutableValue(g.Name, true)

		res.Access = access
		if access == scope.AccessFound {
			if v, ok := b.Value().(Value); ok {
				res.Value = v
			}
		}

		return res
	}

	v, ok := sc.GetValue(g.Name, true)
	if !ok {
		res.Access = scope.AccessAbsent

		return res
	}

	res.Access = scope.AccessFound
	if sv, ok := v.(Value); ok {
		res.Value = sv
	}

	return res
}

// Eval evaluates one expression against the bindings visible from sc,
// marking every referenced binding used. It is the expression entry point
// for interactive callers; manifest execution uses it internally.
func Eval(src string, sc *scope.Scope) (Value, error) {
	return evalExpr(src, sc)
}
