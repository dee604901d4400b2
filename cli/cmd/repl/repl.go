// Package repl implements the interactive scope session: a Bubble Tea
// input loop over a stack of scopes with fuzzy completion and persistent
// history.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/benv/log"
	"github.com/ardnew/benv/scope"
	"github.com/ardnew/benv/script"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help            Print this cruft
  scopes          Show the scope stack
  list            List bindings of the current scope
  push [boundary] Enter a new child scope
  pop             Discard the current scope
  closure         Capture the visible environment as a new scope
  merge [clobber] Fold current bindings into the parent scope
  mark <name|all> Mark binding(s) used
  check           Fail if any local binding was never read
  clear           Clear screen
  quit            Exit REPL

Usage:
  Type an expression to evaluate it (bindings are variables)
  Type name = expression to create or replace a binding
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(prompt, input string) string {
	return prompt + inputStyle.Render(input)
}

// frame is one entry of the interactive scope stack.
type frame struct {
	sc   *scope.Scope
	name string
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	logger       log.Logger
	history      *History
	stack        []frame
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	historyIdx   int
	wordStart    int    // byte offset of current word start
	wordEnd      int    // byte offset of current word end
	suggIdx      int    // selected candidate index
	width        int    // terminal width for ellipsization
	frameSeq     int    // monotonic counter for generated frame names
	preTabText   string // input text before tab-cycling began
	preTabCursor int    // cursor position before tab-cycling began
	evalText     string
	ctrlText     string
	evalCursor   int
	ctrlCursor   int
	mode         inputMode
	tabActive    bool // whether user is tab-cycling
	quitting     bool
}

// Run starts the REPL on a workbench scope parented to base. A nil base
// starts from an empty root.
func Run(
	ctx context.Context,
	base *scope.Scope,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Bool("has_base", base != nil),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, base, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	base *scope.Scope,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	var opts []scope.Option
	if base != nil {
		opts = append(opts, scope.WithParent(base))
	}

	work := frame{sc: scope.New(opts...), name: "work"}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		stack:      []frame{work},
		width:      defaultWidth,
		mode:       modeEval,
	}
}

// current returns the scope at the top of the stack.
func (m model) current() *scope.Scope {
	return m.stack[len(m.stack)-1].sc
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		// Show history position indicator.
		pos := m.historyIdx + 1
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case strings.TrimSpace(input) == "":
		var hint string
		if m.mode == modeEval {
			hint = "Type an expression or press Esc for commands"
		} else {
			hint = "Type: help, scopes, list, push, pop, closure, merge, " +
				"mark, check, clear, quit"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case len(m.matches) > 0:
		bar := renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
		b.WriteString(bar)
		b.WriteString("\n")

	default:
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m)

		return m, nil

	case tea.KeyTab:
		return m.handleTab(1)

	case tea.KeyShiftTab:
		return m.handleTab(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes:
		// Space breaks out of tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.), update input
	// and recompute matches.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m)

	return m, cmd
}

func (m model) handleTab(dir int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
func refreshMatches(m *model) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")

	_, _ = m.history.Write(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(m.ctxFunc(), "repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval",
		slog.String("input", input),
	)

	echoCmd := tea.Println(formatCommand(promptStyle.Render(evalPrompt), input))

	return m, tea.Sequence(echoCmd, m.evaluate(input))
}

// assignment splits "name = expr" input, reporting whether it is an
// assignment rather than a bare expression. Comparison operators ("==",
// "<=", and the like) do not count.
func assignment(input string) (name, expr string, ok bool) {
	idx := strings.IndexByte(input, '=')
	if idx <= 0 || idx == len(input)-1 {
		return "", "", false
	}

	if input[idx+1] == '=' || strings.ContainsAny(string(input[idx-1]), "<>!") {
		return "", "", false
	}

	name = strings.TrimSpace(input[:idx])
	if name == "" || strings.ContainsFunc(name, isWordBoundary) {
		return "", "", false
	}

	return name, strings.TrimSpace(input[idx+1:]), true
}

// evaluate runs one eval-mode input against the current scope and returns
// the echo command for its result.
func (m model) evaluate(input string) tea.Cmd {
	sc := m.current()

	if name, expr, ok := assignment(input); ok {
		if sc.Closed() {
			return tea.Println(errorStyle.Render(
				"error: scope is read-only after a passing check",
			))
		}

		v, err := script.Eval(expr, sc)
		if err != nil {
			return tea.Println(errorStyle.Render("error: " + err.Error()))
		}

		sc.SetValue(name, v, script.Origin{
			Source: "<repl>",
			Path:   "set." + name,
		})

		return tea.Println(resultStyle.Render(name + " = " + v.String()))
	}

	v, err := script.Eval(input, sc)
	if err != nil {
		return tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	return tea.Println(resultStyle.Render(v.String()))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(
		formatCommand(ctrlPromptStyle.Render(ctrlPrompt), input),
	)

	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "s", "scopes":
		return m, tea.Sequence(echoCmd, tea.Println(m.scopesView()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listBindings()))

	case "push":
		boundary := len(args) > 0 && args[0] == "boundary"

		return m.pushScope(boundary, echoCmd)

	case "pop":
		return m.popScope(echoCmd)

	case "closure":
		return m.pushClosure(echoCmd)

	case "merge":
		clobber := len(args) > 0 && args[0] == "clobber"

		return m.mergeToParent(clobber, echoCmd)

	case "mark":
		return m.markUsed(args, echoCmd)

	case "check":
		return m.checkScope(echoCmd)

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) pushScope(boundary bool, echoCmd tea.Cmd) (model, tea.Cmd) {
	opts := []scope.Option{scope.WithParent(m.current())}

	kind := scope.KindMutable
	if boundary {
		kind = scope.KindBoundary
		opts = append(opts, scope.WithKind(kind))
	}

	m.frameSeq++
	name := "scope" + strconv.Itoa(m.frameSeq)

	m.stack = append(m.stack, frame{sc: scope.New(opts...), name: name})

	return m, tea.Sequence(echoCmd, tea.Println(
		resultStyle.Render(
			fmt.Sprintf("entered %s (%s)", name, kind),
		),
	))
}

func (m model) popScope(echoCmd tea.Cmd) (model, tea.Cmd) {
	if len(m.stack) == 1 {
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("error: " + ErrBottomScope.Error()),
		))
	}

	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]

	return m, tea.Sequence(echoCmd, tea.Println(
		resultStyle.Render("discarded " + top.name),
	))
}

func (m model) pushClosure(echoCmd tea.Cmd) (model, tea.Cmd) {
	m.frameSeq++
	name := "closure" + strconv.Itoa(m.frameSeq)

	m.stack = append(m.stack, frame{
		sc:   m.current().MakeClosure(),
		name: name,
	})

	return m, tea.Sequence(echoCmd, tea.Println(
		resultStyle.Render("captured " + name),
	))
}

func (m model) mergeToParent(clobber bool, echoCmd tea.Cmd) (model, tea.Cmd) {
	if len(m.stack) == 1 {
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("error: no parent scope to merge into"),
		))
	}

	top := m.stack[len(m.stack)-1]
	parent := m.stack[len(m.stack)-2]

	if parent.sc.Closed() {
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render(
				"error: " + parent.name + " is read-only after a passing check",
			),
		))
	}

	err := top.sc.NonRecursiveMergeTo(
		parent.sc,
		clobber,
		script.Origin{Source: "<repl>", Path: "merge." + top.name},
		"merge of "+top.name,
	)
	if err != nil {
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("error: " + err.Error()),
		))
	}

	return m, tea.Sequence(echoCmd, tea.Println(
		resultStyle.Render(
			fmt.Sprintf("merged %s into %s", top.name, parent.name),
		),
	))
}

func (m model) markUsed(args []string, echoCmd tea.Cmd) (model, tea.Cmd) {
	if len(args) == 0 {
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("usage: mark <name|all>"),
		))
	}

	sc := m.current()

	if args[0] == "all" {
		sc.MarkAllUsed()

		return m, tea.Sequence(echoCmd, tea.Println(
			resultStyle.Render("marked all bindings used"),
		))
	}

	if !sc.MarkUsed(args[0]) {
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("error: " + args[0] + " is not bound"),
		))
	}

	return m, tea.Sequence(echoCmd, tea.Println(
		resultStyle.Render("marked " + args[0] + " used"),
	))
}

func (m model) checkScope(echoCmd tea.Cmd) (model, tea.Cmd) {
	if err := m.current().CheckForUnusedVars(); err != nil {
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("✘ " + err.Error()),
		))
	}

	return m, tea.Sequence(echoCmd, tea.Println(
		resultStyle.Render("✔ no unused bindings (scope is now read-only)"),
	))
}

func (m model) scopesView() string {
	var b strings.Builder

	for i := len(m.stack) - 1; i >= 0; i-- {
		f := m.stack[i]

		marker := "  "
		if i == len(m.stack)-1 {
			marker = "➜ "
		}

		detail := fmt.Sprintf("%s, %d binding(s)",
			f.sc.Kind(), len(f.sc.Names()))
		if f.sc.Closed() {
			detail += ", closed"
		}

		b.WriteString(fmt.Sprintf("%s%s %s\n",
			marker, f.name, hintStyle.Render("("+detail+")")))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m model) listBindings() string {
	sc := m.current()
	names := sc.Names()

	if len(names) == 0 {
		return hintStyle.Render("  (no local bindings)")
	}

	var b strings.Builder

	for _, name := range names {
		v, _ := sc.GetValue(name, false)

		preview := ""
		if sv, ok := v.(script.Value); ok {
			preview = sv.String()
			if len(preview) > 40 {
				preview = preview[:37] + "..."
			}
		}

		note := ""
		if sc.IsSetButUnused(name) {
			note = hintStyle.Render(" (unused)")
		}

		b.WriteString(fmt.Sprintf("  %s = %s%s\n",
			nameStyle(name), preview, note))
	}

	return strings.TrimRight(b.String(), "\n")
}

func nameStyle(name string) string {
	return promptStyle.Render(name)
}

// toggleMode switches between eval and control modes, preserving input
// state per mode.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()

		m.mode = modeCtrl
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()

		m.mode = modeEval
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	}

	refreshMatches(&m)

	return m, nil
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			if m.mode != entry.Mode {
				m, _ = m.toggleMode()
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m)
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			if m.mode != entry.Mode {
				m, _ = m.toggleMode()
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m)
		}
	} else {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m)
	}

	return m, nil
}
