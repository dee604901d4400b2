package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/benv/scope"
	"github.com/ardnew/benv/script"
)

// Report styles.
var (
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	deniedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	absentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)

// report renders the recorded results of a manifest run.
func report(w io.Writer, result *script.Result) {
	for _, g := range result.Gets {
		fmt.Fprintln(w, renderGet(g))
	}

	for _, c := range result.Checks {
		fmt.Fprintln(w, renderCheck(c))
	}
}

func renderGet(g script.GetResult) string {
	ref := nameStyle.Render(g.Scope) + "." + g.Name

	switch g.Access {
	case scope.AccessAbsent:
		return ref + " = " + absentStyle.Render("<not set>")

	case scope.AccessDenied:
		return ref + " = " + deniedStyle.Render("<read-only>")

	default:
		line := ref + " = " + valueStyle.Render(g.Value.String())
		if g.Mutable {
			line += absentStyle.Render(" (mutable)")
		}

		return line
	}
}

func renderCheck(c script.CheckResult) string {
	name := nameStyle.Render(c.Scope)
	if c.Err == nil {
		return okStyle.Render("✔") + " " + name + ": no unused bindings"
	}

	out := errorStyle.Render("✘") + " " + name + ":"

	for _, err := range flattenUnused(c.Err) {
		out += "\n    " + errorStyle.Render(err.Error())
	}

	return out
}

// flattenUnused expands an error tree into its individual unused-binding
// diagnostics, preserving engine report order.
func flattenUnused(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error

		for _, e := range joined.Unwrap() {
			out = append(out, flattenUnused(e)...)
		}

		return out
	}

	var unused *scope.UnusedVariableError
	if errors.As(err, &unused) {
		return []error{unused}
	}

	return []error{err}
}

// unusedCount reports the total number of unused-binding diagnostics in a
// result, for exit summaries.
func unusedCount(result *script.Result) int {
	n := 0

	for _, c := range result.Checks {
		if c.Err != nil {
			n += len(flattenUnused(c.Err))
		}
	}

	return n
}
