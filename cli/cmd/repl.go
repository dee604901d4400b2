package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/benv/cli/cmd/repl"
	"github.com/ardnew/benv/log"
	"github.com/ardnew/benv/pkg"
	"github.com/ardnew/benv/scope"
	"github.com/ardnew/benv/script"
)

// Repl starts an interactive session on a fresh scope, optionally seeded by
// executing a manifest first.
type Repl struct {
	Manifest string `help:"Manifest to execute before starting the session" optional:"" short:"m" type:"existingfile"`
	Scope    string `help:"Manifest scope to use as the parent environment" short:"s"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var base *scope.Scope

	if r.Manifest != "" {
		base, err = r.seed(ctx)
		if err != nil {
			return err
		}
	}

	return repl.Run(ctx, base, cacheDirFrom(ctx), log.Default())
}

// seed executes the manifest and returns the scope named by the --scope
// flag, defaulting to the last declared scope.
func (r *Repl) seed(ctx context.Context) (*scope.Scope, error) {
	m, name, err := loadManifest(r.Manifest)
	if err != nil {
		return nil, err
	}

	runner := script.NewRunner(
		script.WithLogger(log.Default()),
		script.WithSource(name),
	)

	if _, err := runner.Run(ctx, m); err != nil {
		return nil, err
	}

	names := runner.Names()
	if len(names) == 0 {
		return nil, nil
	}

	target := r.Scope
	if target == "" {
		target = names[len(names)-1]
	}

	sc, ok := runner.Scope(target)
	if !ok {
		return nil, pkg.ErrManifest.Wrapf("no scope named %q", target)
	}

	log.DebugContext(ctx, "repl seeded",
		slog.String("manifest", name),
		slog.String("scope", target),
	)

	return sc, nil
}
