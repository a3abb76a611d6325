package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tend/internal/tend"
	"github.com/colonyops/tend/pkg/iojson"
)

type LogCmd struct {
	flags *Flags
	app   *tend.App

	// flags
	jsonOutput bool
	limit      int
}

// NewLogCmd creates a new log command
func NewLogCmd(flags *Flags, app *tend.App) *LogCmd {
	return &LogCmd{flags: flags, app: app}
}

// Register adds the log command to the application
func (cmd *LogCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "log",
		Usage:     "Show the care log",
		UsageText: "tend log [--limit N] [--json]",
		Description: `Displays the care log, newest first. Each entry records the treatment
label, its display day at the time of application, and the moment it was
applied.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "show at most N entries (0 = all)",
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LogCmd) run(ctx context.Context, c *cli.Command) error {
	entries := cmd.app.Care.Entries()
	if cmd.limit > 0 && len(entries) > cmd.limit {
		entries = entries[:cmd.limit]
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, e); err != nil {
				return fmt.Errorf("encode entry: %w", err)
			}
		}
		return nil
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "Care log is empty")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "APPLIED\tTREATMENT\tDAY")

	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.AppliedAt.Format("2006-01-02 15:04:05"), e.Label, e.Day)
	}

	return w.Flush()
}
