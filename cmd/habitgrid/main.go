package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/cli/backups"
	"github.com/julianstephens/habitgrid/internal/cli/categories"
	"github.com/julianstephens/habitgrid/internal/cli/habits"
	"github.com/julianstephens/habitgrid/internal/cli/system"
	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/logger"
)

var CLI struct {
	Version      kong.VersionFlag
	Config       string `help:"Config file path." type:"path" default:"${config_path}"`
	Env          string `help:"Optional .env file read before the environment." default:".env"`
	Store        string `help:"Data file (.json, .db, .sqlite), a PostgreSQL URL without password, or 'postgres' to use HABITGRID_DB_CONNECTION or the OS keyring."`
	Timezone     string `help:"IANA timezone that decides which day is today (default: system local)."`
	Debug        bool   `help:"Log at debug level and mirror logs to stderr."`
	PersistEmpty bool   `help:"Write empty habit or category lists instead of keeping the last stored ones."`

	Init     system.InitCmd         `cmd:"" help:"Initialize habitgrid storage."`
	Tui      system.TuiCmd          `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Today    habits.TodayCmd        `cmd:"" help:"Show the habits due today."`
	Habit    habits.HabitCmd        `cmd:"" help:"Manage habits and completions."`
	Category categories.CategoryCmd `cmd:"" help:"Manage categories."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage data file backups."`
	Migrate  system.MigrateCmd `cmd:"" help:"Apply pending schema migrations (SQLite and PostgreSQL)."`
	Keyring  system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Doctor   system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	DebugCmd system.DebugCmd   `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with daily and weekly habits"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	cfg, err := config.Load(CLI.Config, CLI.Env)
	if err != nil {
		errors.Fatal(err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir()}); err != nil {
		// Logging is best effort; the command can still run.
		os.Stderr.WriteString("Warning: failed to initialize logging: " + err.Error() + "\n")
	}
	logger.Debug("Starting", "command", ctx.Command(), "store", cfg.Store)

	appCtx, err := cli.NewContext(cfg)
	if err != nil {
		// The keyring commands are how a missing connection string gets fixed.
		if !strings.HasPrefix(ctx.Command(), "keyring") {
			errors.Fatal(err)
		}
		appCtx = &cli.Context{Config: cfg, Out: os.Stdout, In: os.Stdin}
	}
	appCtx.ConfigPath = CLI.Config

	err = ctx.Run(appCtx)
	if appCtx.Provider != nil {
		appCtx.Provider.Close()
	}
	errors.Fatal(err)
}

// applyFlags layers command-line flags over the loaded configuration.
func applyFlags(cfg *config.Config) {
	if CLI.Store != "" {
		cfg.Store = config.ExpandPath(CLI.Store)
	}
	if CLI.Timezone != "" {
		cfg.Timezone = CLI.Timezone
	}
	cfg.Debug = cfg.Debug || CLI.Debug
	cfg.PersistEmpty = cfg.PersistEmpty || CLI.PersistEmpty
}
