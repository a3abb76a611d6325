package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/tend/internal/core/schedule"
)

// dayTickMsg is sent when the local calendar day changes.
type dayTickMsg struct {
	now time.Time
}

// scheduleDayTick returns a command that fires at the next local midnight.
// Countdowns only change at day boundaries, so nothing more frequent is
// needed. The tick is rescheduled each time it fires and dies with the
// program.
func scheduleDayTick(now time.Time) tea.Cmd {
	next := schedule.Midnight(now).AddDate(0, 0, 1)
	return tea.Tick(time.Until(next), func(t time.Time) tea.Msg {
		return dayTickMsg{now: t}
	})
}
