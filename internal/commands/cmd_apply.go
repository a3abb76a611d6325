package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tend/internal/tend"
)

type ApplyCmd struct {
	flags *Flags
	app   *tend.App
}

// NewApplyCmd creates a new apply command
func NewApplyCmd(flags *Flags, app *tend.App) *ApplyCmd {
	return &ApplyCmd{flags: flags, app: app}
}

// Register adds the apply command to the application
func (cmd *ApplyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "apply",
		Usage:     "Record an application of a treatment",
		UsageText: "tend apply <label>",
		Description: `Records that the named treatment was applied right now. The entry is
added to the care log and, for treatments with an interval, restarts the
countdown.

Labels that do not match a catalog treatment are still logged; they simply
never produce a countdown.

Examples:
  tend apply "Neem Oil"
  tend apply Fertilizer`,
		Action: cmd.run,
	})

	return app
}

func (cmd *ApplyCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("missing treatment label. Run 'tend ls' to see the catalog")
	}
	label := strings.Join(c.Args().Slice(), " ")

	if _, ok := cmd.app.Care.Catalog().Find(label); !ok {
		fmt.Fprintf(c.Root().ErrWriter, "Warning: %q is not in the catalog; logging it anyway\n", label)
	}

	entry, err := cmd.app.Care.Apply(ctx, label)
	if err != nil {
		// The in-memory entry was kept; the store write is what failed.
		log.Warn().Err(err).Str("label", label).Msg("apply did not persist")
		fmt.Fprintf(c.Root().ErrWriter, "Warning: application recorded but not persisted: %v\n", err)
	}

	fmt.Fprintf(c.Root().Writer, "Applied %q at %s\n", entry.Label, entry.AppliedAt.Format(time.Kitchen))
	return nil
}
