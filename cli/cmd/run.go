package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/benv/log"
	"github.com/ardnew/benv/pkg"
	"github.com/ardnew/benv/script"
)

// Run executes a scope manifest and reports the result of each recorded
// lookup and check.
type Run struct {
	Manifest string `arg:"" default:"-" help:"Manifest file or '-' for stdin" name:"manifest"`

	Values bool `help:"Print final scope values as YAML" short:"v"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, name, err := loadManifest(r.Manifest)
	if err != nil {
		return err
	}

	runner := script.NewRunner(
		script.WithLogger(log.Default()),
		script.WithSource(name),
	)

	result, err := runner.Run(ctx, m)
	if err != nil {
		return err
	}

	report(os.Stdout, result)

	if r.Values {
		if err := writeValues(os.Stdout, runner); err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "manifest executed",
		slog.String("manifest", name),
		slog.Int("scopes", len(runner.Names())),
		slog.Int("gets", len(result.Gets)),
		slog.Int("checks", len(result.Checks)),
	)

	if result.Failed() {
		return pkg.ErrUnusedBindings
	}

	return nil
}

// writeValues marshals every scope's local bindings, keyed by scope name in
// declaration order.
func writeValues(w *os.File, runner *script.Runner) error {
	doc := make(map[string]any)

	for _, name := range runner.Names() {
		sc, ok := runner.Scope(name)
		if !ok {
			continue
		}

		vals := make(map[string]any)

		for bind, v := range sc.CurrentValues() {
			if sv, ok := v.(script.Value); ok {
				vals[bind] = sv.Native()
			}
		}

		doc[name] = vals
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return pkg.ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(out)

	return err
}
