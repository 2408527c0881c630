package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jmburke4/LoxInterpreter/lox"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	plain := fs.Bool("plain", false, "use the line-based prompt instead of the full-screen UI")
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	sess := newSession(cfg, os.Stdout, newStyler(os.Stderr, cfg.Color).writer(os.Stderr))
	return startREPL(sess, cfg, *plain)
}

// startREPL picks the full-screen UI when both ends are a terminal.
func startREPL(sess *session, cfg cliConfig, plain bool) error {
	if plain || cfg.PlainREPL || !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return runPlainREPL(sess, cfg)
	}
	p := tea.NewProgram(newREPLModel(sess, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	sess        *session
	output      *bytes.Buffer
	prompt      string
	pending     []string
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	Vars  key.Binding
	Help  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous entry"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next entry"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	Vars: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle globals"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

// newREPLModel captures the session's output so it can be shown inside the UI.
func newREPLModel(sess *session, cfg cliConfig) replModel {
	output := &bytes.Buffer{}
	sess.redirect(output, io.Discard)

	ti := textinput.New()
	ti.Placeholder = "type a statement or expression..."
	ti.Focus()
	ti.CharLimit = 1000
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = cfg.Prompt

	return replModel{
		textInput:  ti,
		sess:       sess,
		output:     output,
		prompt:     cfg.Prompt,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.Vars):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			return m.submit()
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// submit handles one line of input. Lines are collected until they form a
// complete entry, so blocks and functions can span several lines.
func (m replModel) submit() (tea.Model, tea.Cmd) {
	line := m.textInput.Value()
	trimmed := strings.TrimSpace(line)
	m.textInput.SetValue("")
	m.historyIdx = -1

	if len(m.pending) == 0 {
		switch {
		case trimmed == "":
			return m, nil
		case strings.HasPrefix(trimmed, ":"):
			rm, cmd := m.handleCommand(trimmed)
			return rm, cmd
		case trimmed == "exit":
			m.quitting = true
			return m, tea.Quit
		case trimmed == "cls":
			m.history = make([]historyEntry, 0)
			return m, nil
		}
	}

	m.pending = append(m.pending, line)
	source := strings.Join(m.pending, "\n")
	if incompleteInput(source) {
		m.textInput.Prompt = continuationPrompt(m.prompt)
		return m, nil
	}
	m.pending = nil
	m.textInput.Prompt = m.prompt

	output, isErr := m.evaluate(source)
	m.history = append(m.history, historyEntry{
		input:  source,
		output: output,
		isErr:  isErr,
	})
	m.cmdHistory = append(m.cmdHistory, strings.ReplaceAll(source, "\n", " "))
	return m, nil
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":reset", ":r":
		m.sess.reset()
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "Globals reset",
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if strings.TrimSpace(input) == "" {
		return m
	}

	completions := completeLine(input, m.sess.userGlobals())
	if len(completions) == 1 {
		m.textInput.SetValue(completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		words := make([]string, len(completions))
		prefix := input[:lastWordStart(input)]
		for i, c := range completions {
			words[i] = strings.TrimPrefix(c, prefix)
		}
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(words, ", "),
		})
	}
	return m
}

// evaluate runs source and renders what it printed, its errors and, for a
// bare expression, its value.
func (m replModel) evaluate(source string) (string, bool) {
	m.output.Reset()
	val, shown := m.sess.eval(source)

	var lines []string
	if printed := strings.TrimRight(m.output.String(), "\n"); printed != "" {
		lines = append(lines, printed)
	}
	entries := m.sess.diag.Entries()
	for _, entry := range entries {
		// Internal errors carry a stack trace; the first line is enough here.
		lines = append(lines, strings.SplitN(entry.String(), "\n", 2)[0])
	}
	if shown {
		lines = append(lines, val.String())
	}
	return strings.Join(lines, "\n"), len(entries) > 0
}

// completeLine returns every way of completing the last word of line with a
// keyword, native or global name, each as a full replacement line.
func completeLine(line string, globals []string) []string {
	start := lastWordStart(line)
	word := line[start:]
	if word == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var matches []string
	for _, group := range [][]string{lox.Keywords(), lox.NativeNames(), globals} {
		for _, candidate := range group {
			if _, ok := seen[candidate]; ok || !strings.HasPrefix(candidate, word) {
				continue
			}
			seen[candidate] = struct{}{}
			matches = append(matches, candidate)
		}
	}
	sort.Strings(matches)

	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = line[:start] + match
	}
	return out
}

func lastWordStart(line string) int {
	i := len(line)
	for i > 0 && isIdentByte(line[i-1]) {
		i--
	}
	return i
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("Lox REPL") + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	globals := m.sess.userGlobals()
	reservedLines := 8 // header, input, footer
	if m.showHelp {
		reservedLines += 12
	}
	if m.showVars {
		reservedLines += len(globals) + 3
	}
	availableHeight := m.height - reservedLines

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = max(len(m.history)-availableHeight, 0)
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			for _, line := range strings.Split(entry.input, "\n") {
				b.WriteString(mutedStyle.Render("  › ") + line + "\n")
			}
		}
		if entry.output != "" {
			style, marker := resultStyle, "→ "
			if entry.isErr {
				style, marker = errorStyle, "✗ "
			}
			for _, line := range strings.Split(entry.output, "\n") {
				b.WriteString("  " + style.Render(marker+line) + "\n")
			}
		}
		b.WriteString("\n")
	}

	if m.showVars {
		b.WriteString(renderVarsPanel(m.sess.interp.Globals(), globals))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	for _, line := range m.pending {
		b.WriteString(mutedStyle.Render("  … ") + line + "\n")
	}
	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" globals  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderVarsPanel(env *lox.Environment, names []string) string {
	if len(names) == 0 {
		return borderStyle.Render(mutedStyle.Render("No globals defined"))
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Globals")}
	varNameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, name := range names {
		val, _ := env.Lookup(name)
		lines = append(lines, fmt.Sprintf("  %s = %s", varNameStyle.Render(name), val.String()))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate entry history"},
		{"Tab", "Autocomplete"},
		{"Enter", "Execute, or continue an open block"},
		{":help", "Toggle this help"},
		{":vars", "Toggle globals panel"},
		{":clear", "Clear history (also cls)"},
		{":reset", "Forget all globals"},
		{":quit", "Exit REPL (also exit)"},
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help")}
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}
