// Package tui renders the player panel in the terminal.
package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/preston-bernstein/nba-player-panel/internal/logging"
	"github.com/preston-bernstein/nba-player-panel/internal/panel"
)

// Panel is the container surface the terminal drives.
type Panel interface {
	Show(ctx context.Context) error
	Cancel()
	Close()
	View() panel.View
	Changes() <-chan struct{}
}

// changedMsg reports that the panel published a change.
type changedMsg struct{}

// showFailedMsg carries an error from Show.
type showFailedMsg struct{ err error }

// Model is the root Bubble Tea model of the terminal panel.
type Model struct {
	ctx    context.Context
	panel  Panel
	logger *slog.Logger

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	view     panel.View
	err      error
	width    int
	quitting bool
}

// New builds the model. ctx bounds the fetches started from the terminal.
func New(ctx context.Context, p Panel, logger *slog.Logger) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		ctx:     ctx,
		panel:   p,
		logger:  logger,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: s,
		view:    p.View(),
	}
}

// Run drives the terminal panel until the user quits or ctx ends.
func Run(ctx context.Context, p Panel, logger *slog.Logger, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, p, logger), opts...).Run()
	// The program may stop on ctx without a quit key; the fetch must not outlive it.
	p.Close()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForChange(m.panel.Changes()))
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return changedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case changedMsg:
		m.view = m.panel.View()
		return m, waitForChange(m.panel.Changes())

	case showFailedMsg:
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.panel.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Show):
		m.err = nil
		if err := m.panel.Show(m.ctx); err != nil {
			logging.Error(m.logger, "failed to show panel", err)
			return m, func() tea.Msg { return showFailedMsg{err: err} }
		}
		m.view = m.panel.View()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.panel.Cancel()
		m.view = m.panel.View()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("NBA players"))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(panelStyle.Render(m.renderBody()))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderBody() string {
	if m.view.State == panel.Shown {
		if len(m.view.Players) == 0 {
			return m.spinner.View() + " loading players..."
		}
		rows := make([]string, 0, len(m.view.Players))
		for _, p := range m.view.Players {
			rows = append(rows, lipgloss.JoinVertical(lipgloss.Left,
				nameStyle.Render(p.FullName),
				teamStyle.Render(p.Team),
			))
		}
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}
	if fallback := m.view.Fallback(); fallback != "" {
		return fallbackStyle.Render(fallback)
	}
	return "press s to show players"
}
