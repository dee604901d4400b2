// Package cmd implements the run, check, and repl subcommands over the
// scope engine.
package cmd
