// Package cli contains the command line interface for benv.
//
// # Usage
//
// The CLI executes, lints, and interactively explores scope manifests:
//
//	benv run build.yaml
//	benv check build.yaml
//	benv repl build.yaml
//
// # Configuration
//
// Flag defaults may be set in a YAML config file under the "config" key at
// $XDG_CONFIG_HOME/benv/config.yaml (hyphens in flag names become
// underscores):
//
//	config:
//	  log_level: debug
//	  log_pretty: true
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text-format output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o benv .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/benv/pprof)
package cli
