package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/benv/log"
	"github.com/ardnew/benv/pkg"
	"github.com/ardnew/benv/script"
)

// Check executes a manifest and then lints every declared scope for
// bindings that were never read. Scopes the manifest already checked keep
// their recorded outcome; the rest are checked after the final step.
type Check struct {
	Manifest string `arg:"" default:"-" help:"Manifest file or '-' for stdin" name:"manifest"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, name, err := loadManifest(c.Manifest)
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

	checked := make(map[string]bool, len(result.Checks))
	for _, chk := range result.Checks {
		checked[chk.Scope] = true
	}

	for _, scopeName := range runner.Names() {
		if checked[scopeName] {
			continue
		}

		sc, ok := runner.Scope(scopeName)
		if !ok || sc.Closed() {
			continue
		}

		result.Checks = append(result.Checks, script.CheckResult{
			Scope: scopeName,
			Err:   sc.CheckForUnusedVars(),
		})
	}

	for _, chk := range result.Checks {
		fmt.Fprintln(os.Stdout, renderCheck(chk))
	}

	count := unusedCount(result)

	log.DebugContext(ctx, "manifest checked",
		slog.String("manifest", name),
		slog.Int("scopes", len(runner.Names())),
		slog.Int("unused", count),
	)

	if count > 0 {
		return pkg.ErrUnusedBindings.Wrapf("%d offending binding(s)", count)
	}

	return nil
}
