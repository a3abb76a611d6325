package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tend/internal/tend"
)

type ResetCmd struct {
	flags *Flags
	app   *tend.App

	// flags
	yes bool
}

// NewResetCmd creates a new reset command
func NewResetCmd(flags *Flags, app *tend.App) *ResetCmd {
	return &ResetCmd{flags: flags, app: app}
}

// Register adds the reset command to the application
func (cmd *ResetCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "reset",
		Usage:     "Delete the entire care log and all countdowns",
		UsageText: "tend reset [--yes]",
		Description: `Clears the care log and the recurrence tracker. This cannot be undone;
the full application history is lost.

Prompts for confirmation unless --yes is given.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ResetCmd) run(ctx context.Context, c *cli.Command) error {
	if !cmd.yes {
		var confirmed bool
		err := huh.NewConfirm().
			Title("Delete the entire care log?").
			Description("All application history and countdowns will be lost. This cannot be undone.").
			Value(&confirmed).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("confirmation prompt: %w", err)
		}
		if !confirmed {
			fmt.Fprintln(c.Root().Writer, "Reset cancelled")
			return nil
		}
	}

	if err := cmd.app.Care.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	fmt.Fprintln(c.Root().Writer, "Care log cleared")
	return nil
}
