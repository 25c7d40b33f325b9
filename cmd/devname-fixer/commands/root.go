// Package commands is the command line interface of devname-fixer.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/sfdx-tools/devname-fixer/internal/batch"
	"github.com/sfdx-tools/devname-fixer/internal/cli"
	"github.com/sfdx-tools/devname-fixer/internal/constants"
	"github.com/sfdx-tools/devname-fixer/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity int    `mapstructure:"verbose"`
	JSONLogs  bool   `mapstructure:"json-logs"`
	Report    string `mapstructure:"report"`

	batch.Config `mapstructure:",squash"`
}

// New creates a new App instance with default values.
func New() (*App, error) {
	a := App{viper: viper.New()}

	a.cmd = &cobra.Command{
		Use:   constants.CmdName + " [DIR]",
		Short: "Strip a suffix from the devName field of every JSON file in a directory",
		Long: `Rewrite every JSON file of a directory in place, removing a substring from one of its string fields.

By default the "__c" suffix is removed from the "devName" field. Each file is processed independently:
a file that cannot be read, parsed or updated is reported and left untouched, and the other files are still processed.
The directory is taken from the DIR argument, the target-dir configuration key or the DEVNAME_FIXER_TARGET_DIR environment variable.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToTimeDurationHookFunc(),
			))); err != nil {
				return fmt.Errorf("unable to strictly decode configuration into struct: %w", err)
			}

			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs) // Update logging after loading config if necessary
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.config.TargetDir = args[0]
			}
			slog.Debug("Got app config", "config", a.config)

			return a.run(cmd.Context())
		},
	}
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}
	if err := a.viper.BindPFlags(a.cmd.Flags()); err != nil {
		return nil, err
	}

	a.installVersion()

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd
	defaults := batch.DefaultConfig()

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue DEBUG logs (-v)")
	cmd.PersistentFlags().BoolVar(&app.config.JSONLogs, "json-logs", false, "enable JSON formatted logs")

	cmd.Flags().String("field", defaults.Field, "field to rewrite, nested fields are separated by dots")
	cmd.Flags().String("pattern", defaults.Pattern, "substring to remove from the field")
	cmd.Flags().String("replace", defaults.Replace.String(), `occurrences to remove, "all" or "first"`)
	cmd.Flags().Int("indent", defaults.Indent, "number of spaces used to indent rewritten files, 0 for compact output")
	cmd.Flags().Bool("dry-run", false, "process every file without writing any of them")
	cmd.Flags().BoolP("watch", "w", false, "keep watching the directory and process files as they change")
	cmd.Flags().Duration("watch-debounce", defaults.WatchDebounce, "time to wait for changes to settle before processing them")
	cmd.Flags().StringP("report", "r", "", "write a run report to this path, as JSON, YAML or TOML depending on the extension")

	if err := cmd.MarkFlagFilename("report", "json", "yaml", "yml", "toml"); err != nil {
		panic(fmt.Sprintf("failed to mark report flag as filename: %v", err))
	}
}

// Run executes the command and associated process, returning an error if any.
// SIGINT and SIGTERM cancel the run.
func (a App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.cmd.ExecuteContext(ctx)
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// RootCmd returns the root command.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}

func (a *App) run(ctx context.Context) error {
	r, err := batch.New(a.config.Config)
	if err != nil {
		return err
	}

	if a.config.Watch {
		err := r.Watch(ctx, func(s batch.Summary) {
			if err := a.writeReport(s); err != nil {
				slog.Warn("Failed to write run report", "err", err)
			}
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	s, err := r.Run(ctx)
	if err != nil {
		return err
	}
	a.printSummary(s)

	return a.writeReport(s)
}

func (a *App) writeReport(s batch.Summary) error {
	if a.config.Report == "" {
		return nil
	}

	if err := report.New(s, a.config.DryRun).Write(a.config.Report); err != nil {
		return err
	}
	slog.Debug("Wrote run report", "path", a.config.Report)
	return nil
}

func (a *App) printSummary(s batch.Summary) {
	verb := "updated"
	n := s.Updated
	if a.config.DryRun {
		verb = "would update"
		n = s.Planned
	}

	out := a.cmd.OutOrStdout()
	fmt.Fprintf(out, "%d files: %s %d, unchanged %d, failed %d", s.Total(), verb, n, s.Unchanged, s.Failed)
	if s.Skipped > 0 {
		fmt.Fprintf(out, ", skipped %d", s.Skipped)
	}
	fmt.Fprintf(out, " (%s)\n", s.End.Sub(s.Start).Round(time.Millisecond))
}
