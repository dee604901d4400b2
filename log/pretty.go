package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler is a colorized text handler for interactive terminals.
// Keys render gray, values by type, levels by severity.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeAttr(buf, slog.Time(slog.TimeKey, r.Time))
	}

	h.writeLevel(buf, r.Level)

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		buf.WriteByte(' ')
		h.writeAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		buf.WriteByte(' ')
		h.writeAttr(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(clone.attrs[:len(clone.attrs):len(clone.attrs)], attrs...)

	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(clone.groups[:len(clone.groups):len(clone.groups)], name)

	return &clone
}

func (h *prettyHandler) writeLevel(buf *bytes.Buffer, level slog.Level) {
	color := colorCyan

	switch {
	case level >= slog.LevelError:
		color = colorRed
	case level >= slog.LevelWarn:
		color = colorYellow
	case level >= slog.LevelInfo:
		color = colorGreen
	case level >= slog.LevelDebug:
		color = colorBlue
	}

	name := Level(level).String()
	if rep := h.opts.ReplaceAttr; rep != nil {
		a := rep(nil, slog.Any(slog.LevelKey, level))
		name = a.Value.String()
	}

	fmt.Fprintf(buf, "%s%s%s ", color, name, colorReset)
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	if rep := h.opts.ReplaceAttr; rep != nil && a.Key != slog.MessageKey {
		a = rep(h.groups, a)
	}

	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Key == slog.TimeKey {
		fmt.Fprintf(buf, "%s%s%s ", colorGray, a.Value, colorReset)

		return
	}

	if a.Value.Kind() == slog.KindGroup {
		for i, g := range a.Value.Group() {
			if i > 0 {
				buf.WriteByte(' ')
			}

			g.Key = a.Key + "." + g.Key
			h.writeAttr(buf, g)
		}

		return
	}

	fmt.Fprintf(buf, "%s%s=%s%s%s%s",
		colorGray, a.Key, colorReset,
		h.valueColor(a.Value), h.renderValue(a.Value), colorReset,
	)
}

func (h *prettyHandler) valueColor(v slog.Value) string {
	switch v.Kind() {
	case slog.KindBool:
		return colorMagenta
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return colorCyan
	default:
		return ""
	}
}

func (h *prettyHandler) renderValue(v slog.Value) string {
	// Unlike the standard text handler, strings print unquoted unless they
	// contain whitespace.
	if v.Kind() == slog.KindString {
		s := v.String()
		for _, r := range s {
			if r == ' ' || r == '\t' || r == '\n' || r == '"' {
				return strconv.Quote(s)
			}
		}

		return s
	}

	return v.String()
}
