// Package log provides structured logging for benv built on [log/slog].
//
// It extends slog with a Trace level below Debug, a colorized pretty text
// handler for interactive use, and a process-wide default logger
// reconfigurable at runtime via [Config]. The zero [Logger] value is valid
// and discards everything, so library types can embed a Logger without
// requiring callers to supply one.
//
// Typical use:
//
//	log.Config(log.WithLevel(log.LevelDebug), log.WithFormat(log.FormatText))
//	log.Debug("merge complete", slog.Int("bindings", n))
//
// Errors implementing slog.LogValuer expand into grouped attributes when
// logged with slog.Any.
package log
