package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tend/internal/commands"
	"github.com/colonyops/tend/internal/core/carelog"
	"github.com/colonyops/tend/internal/core/config"
	"github.com/colonyops/tend/internal/store/jsonfile"
	"github.com/colonyops/tend/internal/store/sqlite"
	"github.com/colonyops/tend/internal/tend"
	"github.com/colonyops/tend/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		tendApp   = &tend.App{}
		database  *sqlite.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "tend",
		Usage:     "Track recurring garden treatments",
		UsageText: "tend [global options] command [command options]",
		Description: `Tend keeps a fixed schedule of recurring garden treatments (pest control,
fertilizer, fungicide, ...), records each application, and derives a per-
treatment countdown to the next due one.

Run 'tend' with no arguments to open the interactive dashboard.
Run 'tend apply <label>' to record an application from the shell.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TEND_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/tend.log)",
				Sources:     cli.EnvVars("TEND_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TEND_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TEND_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/tend.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "tend.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			// Open the configured persistence backend
			var store carelog.Store
			switch cfg.Storage.Backend {
			case config.BackendSQLite:
				database, err = sqlite.Open(cfg.DataDir)
				if err != nil {
					return ctx, fmt.Errorf("open database: %w", err)
				}
				store = sqlite.NewCareLogStore(database)
			default:
				store = jsonfile.NewCareLogStore(cfg.DataDir)
			}

			svcLogger := log.With().Str("component", "care").Logger()
			care := tend.NewCareService(store, cfg.Treatments, svcLogger)

			// Unreadable state is logged and treated as empty; startup
			// proceeds regardless
			care.Load(ctx)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*tendApp = *tend.NewApp(care, cfg)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, tendApp)

	app = commands.NewLsCmd(flags, tendApp).Register(app)
	app = commands.NewApplyCmd(flags, tendApp).Register(app)
	app = commands.NewLogCmd(flags, tendApp).Register(app)
	app = commands.NewResetCmd(flags, tendApp).Register(app)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'tend --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
