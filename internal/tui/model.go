// Package tui is the terminal front end of the calculator: one view, two
// number inputs, global single-letter shortcuts and a selectable history.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type focus int

const (
	focusA focus = iota
	focusB
	focusHistory
	focusCount
)

// Model is the bubbletea model wrapping one calculator view.
type Model struct {
	ctx    context.Context
	view   *calculator.View
	inputs [2]textinput.Model
	focus  focus
	cursor int

	keys   KeyMap
	help   help.Model
	styles Styles

	quitting bool
}

// New builds an unmounted model; the view is mounted by Init.
func New(ctx context.Context, dark bool) Model {
	m := Model{
		ctx:    ctx,
		view:   calculator.NewView(dark),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: NewStyles(dark),
	}

	for i, placeholder := range []string{"Number 1", "Number 2"} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.Prompt = ""
		ti.CharLimit = calculator.MaxOperandLen
		m.inputs[i] = ti
	}
	m.inputs[focusA].Focus()

	return m
}

// CalculatorView returns the underlying calculator view.
func (m Model) CalculatorView() *calculator.View { return m.view }

func (m Model) Init() tea.Cmd {
	m.view.Mount()
	observability.Logger.Debug("terminal view mounted", zap.Bool("dark_mode", m.view.DarkMode()))
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.view.Unmount()
		m.quitting = true
		observability.Logger.Debug("terminal view unmounted", zap.Int("history", len(m.view.History())))
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleTheme):
		m.view.ToggleTheme()
		m.styles = NewStyles(m.view.DarkMode())
		return m, nil

	case key.Matches(msg, m.keys.NextFocus):
		return m, m.setFocus((m.focus + 1) % focusCount)

	case key.Matches(msg, m.keys.PrevFocus):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	// Shortcuts are global: they fire whichever field has focus.
	for _, b := range m.keys.Shortcuts {
		if key.Matches(msg, b) && m.view.HandleKey(m.ctx, msg.String()) {
			m.syncInputs()
			m.cursor = 0
			return m, nil
		}
	}

	if m.focus == focusHistory {
		return m.handleHistoryKey(msg), nil
	}

	if msg.Type == tea.KeyRunes && !numeric(msg.Runes) {
		return m, nil
	}

	return m.updateInput(msg)
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) Model {
	n := len(m.view.History())

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if _, err := m.view.SelectHistory(m.cursor); err != nil {
			observability.Logger.Debug("history selection ignored", zap.Error(err))
		}
	}

	return m
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus == focusHistory {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.view.SetOperands(m.inputs[focusA].Value(), m.inputs[focusB].Value())

	return m, cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f

	var cmd tea.Cmd
	for i := range m.inputs {
		if focus(i) == f {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

// syncInputs copies the view's operands back into the inputs, e.g. after a
// clear.
func (m *Model) syncInputs() {
	m.inputs[focusA].SetValue(m.view.OperandA())
	m.inputs[focusB].SetValue(m.view.OperandB())
}

// numeric reports whether every rune can appear in a typed number.
func numeric(runes []rune) bool {
	for _, r := range runes {
		if !strings.ContainsRune("0123456789.+-eE", r) {
			return false
		}
	}
	return true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.styles
	snap := m.view.Snapshot()

	themeLabel := "Dark Mode"
	if snap.DarkMode {
		themeLabel = "Light Mode"
	}

	var b strings.Builder

	b.WriteString(s.Title.Render("Simple Calculator"))
	b.WriteString("\n")

	for i, label := range []string{"Number 1", "Number 2"} {
		style := s.Input
		if m.focus == focus(i) {
			style = s.FocusedInput
		}
		b.WriteString(s.Label.Render(label))
		b.WriteString("\n")
		b.WriteString(style.Render(m.inputs[i].View()))
		b.WriteString("\n")
	}

	buttons := make([]string, 0, len(calculator.Shortcuts()))
	for _, sc := range calculator.Shortcuts() {
		label := "Clear"
		if op, ok := sc.Action.Operation(); ok {
			label = op.Label()
		}
		buttons = append(buttons, s.Button.Render(fmt.Sprintf("%s %s", s.Key.Render("["+sc.Key+"]"), label)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	b.WriteString("\n")

	if snap.Result != "" {
		b.WriteString(s.Result.Render("Result: " + snap.Result))
		b.WriteString("\n")
	}

	if len(snap.History) > 0 {
		b.WriteString(s.Heading.Render("History:"))
		b.WriteString("\n")
		for i, rec := range snap.History {
			line := "  " + rec.Expression
			style := s.Entry
			if m.focus == focusHistory && i == m.cursor {
				line = "> " + rec.Expression
				style = s.Selected
			}
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
	}

	return s.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.ThemeButton.Render(themeLabel),
		s.Card.Render(strings.TrimRight(b.String(), "\n")),
		m.help.View(m.keys),
	))
}

// Options configures Run.
type Options struct {
	DarkMode bool
	// Input and Output default to the terminal.
	Input  io.Reader
	Output io.Writer
	// AltScreen runs the view full screen.
	AltScreen bool
}

// Run shows the terminal view until the user quits or ctx is cancelled. The
// view's keyboard subscription is released either way.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts.DarkMode)
	defer m.view.Unmount()

	popts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		popts = append(popts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		popts = append(popts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		popts = append(popts, tea.WithAltScreen())
	}

	_, err := tea.NewProgram(m, popts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("run terminal view: %w", err)
	}

	return nil
}
