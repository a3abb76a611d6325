// Package tui implements the interactive garden dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/tend/internal/core/carelog"
	"github.com/colonyops/tend/internal/tend"
)

const logPanelEntries = 6

// keyMap defines the TUI keybindings.
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Apply key.Binding
	Reset key.Binding
	Quit  key.Binding
}

var defaultKeys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Apply: key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a/enter", "apply")),
	Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset log")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Apply, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// applyDoneMsg reports the outcome of an apply command.
type applyDoneMsg struct {
	entry carelog.Entry
	err   error
}

// resetDoneMsg reports the outcome of a reset command.
type resetDoneMsg struct {
	err error
}

// Model is the root bubbletea model for the garden dashboard.
type Model struct {
	app  *tend.App
	keys keyMap
	help help.Model

	cursor   int
	today    time.Time
	statuses []tend.TreatmentStatus
	entries  []carelog.Entry

	confirm *ConfirmModal
	notice  string
	width   int
	height  int
}

// New creates the dashboard model.
func New(app *tend.App) Model {
	m := Model{
		app:   app,
		keys:  defaultKeys,
		help:  help.New(),
		today: time.Now(),
	}
	m.refresh()
	return m
}

// Init schedules the day-change tick.
func (m Model) Init() tea.Cmd {
	return scheduleDayTick(m.today)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case dayTickMsg:
		// Recompute countdowns for the new calendar day
		m.today = msg.now
		m.refresh()
		return m, scheduleDayTick(msg.now)

	case applyDoneMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Applied %q (not persisted: %v)", msg.entry.Label, msg.err)
		} else {
			m.notice = fmt.Sprintf("Applied %q at %s", msg.entry.Label, msg.entry.AppliedAt.Format(time.Kitchen))
		}
		m.refresh()
		return m, nil

	case resetDoneMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Reset failed: %v", msg.err)
		} else {
			m.notice = "Care log cleared"
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Confirmation modal swallows all keys while open
	if m.confirm != nil {
		modal, cmd := m.confirm.Update(msg)
		switch {
		case modal.Confirmed():
			m.confirm = nil
			return m, m.resetCmd()
		case modal.Cancelled():
			m.confirm = nil
			m.notice = "Reset cancelled"
			return m, cmd
		default:
			m.confirm = &modal
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.statuses)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Apply):
		if m.cursor < len(m.statuses) {
			return m, m.applyCmd(m.statuses[m.cursor].Treatment.Label)
		}

	case key.Matches(msg, m.keys.Reset):
		modal := NewConfirmModal("Delete the entire care log? This cannot be undone.")
		m.confirm = &modal
	}

	return m, nil
}

// applyCmd records an application through the service.
func (m Model) applyCmd(label string) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.app.Care.Apply(context.Background(), label)
		return applyDoneMsg{entry: entry, err: err}
	}
}

// resetCmd clears the care log through the service.
func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		return resetDoneMsg{err: m.app.Care.Reset(context.Background())}
	}
}

// refresh re-derives statuses and log entries from the service.
func (m *Model) refresh() {
	m.statuses = m.app.Care.Statuses(m.today)
	m.entries = m.app.Care.Entries()
	if m.cursor >= len(m.statuses) && len(m.statuses) > 0 {
		m.cursor = len(m.statuses) - 1
	}
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Garden Care"))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(m.today.Format("Monday, January 2 2006")))
	b.WriteString("\n\n")

	for i, s := range m.statuses {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		status := dimStyle.Render("no countdown")
		if s.HasStatus {
			if s.Status.Overdue {
				status = overdueStyle.Render(s.Status.Text())
			} else {
				status = countdownStyle.Render(s.Status.Text())
			}
		}

		b.WriteString(fmt.Sprintf("%s%-18s %-10s %s\n", cursor, s.Treatment.Label, dimStyle.Render(s.Treatment.Day), status))
	}

	if m.confirm != nil {
		b.WriteString("\n")
		b.WriteString(m.confirm.View())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Recent activity"))
	b.WriteString("\n")
	if len(m.entries) == 0 {
		b.WriteString(dimStyle.Render("  nothing yet"))
		b.WriteString("\n")
	}
	for i, e := range m.entries {
		if i >= logPanelEntries {
			break
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", dimStyle.Render(e.AppliedAt.Format("Jan 02 15:04")), e.Label))
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
