package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tend/internal/tend"
	"github.com/colonyops/tend/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *tend.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *tend.App) *TuiCmd {
	return &TuiCmd{flags: flags, app: app}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	model := tui.New(cmd.app)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
