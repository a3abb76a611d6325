package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tend/internal/tend"
	"github.com/colonyops/tend/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *tend.App

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *tend.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List treatments with their countdown",
		UsageText: "tend ls [--json]",
		Description: `Displays a table of all treatments with their day, interval, last
application, and the days remaining until the next one is due.

Treatments without an interval, or that have never been applied, show no
countdown.`,
		Flags: []cli.Flag{
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

// treatmentInfo is the JSON output format for tend ls --json.
type treatmentInfo struct {
	Label       string `json:"label"`
	Day         string `json:"day"`
	EveryDays   int    `json:"every_days,omitempty"`
	LastApplied string `json:"last_applied,omitempty"`
	Countdown   string `json:"countdown,omitempty"`
	Overdue     bool   `json:"overdue,omitempty"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	statuses := cmd.app.Care.Statuses(time.Now())
	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, s := range statuses {
			info := treatmentInfo{
				Label:     s.Treatment.Label,
				Day:       s.Treatment.Day,
				EveryDays: s.Treatment.IntervalDays,
			}
			if s.HasLast {
				info.LastApplied = s.LastApplied.Format(time.RFC3339)
			}
			if s.HasStatus {
				info.Countdown = s.Status.Text()
				info.Overdue = s.Status.Overdue
			}
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode treatment: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TREATMENT\tDAY\tEVERY\tLAST APPLIED\tSTATUS")

	for _, s := range statuses {
		every := "-"
		if s.Treatment.Tracked() {
			every = fmt.Sprintf("%dd", s.Treatment.IntervalDays)
		}

		last := "-"
		if s.HasLast {
			last = s.LastApplied.Format("2006-01-02 15:04")
		}

		status := "-"
		if s.HasStatus {
			status = s.Status.Text()
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Treatment.Label, s.Treatment.Day, every, last, status)
	}

	return w.Flush()
}
