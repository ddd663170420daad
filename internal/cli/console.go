package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/minidb/internal/auth"
	"github.com/roach88/minidb/internal/config"
	"github.com/roach88/minidb/internal/console"
	"github.com/roach88/minidb/internal/journal"
	"github.com/roach88/minidb/internal/store"
)

// ConsoleOptions holds flags for the console command.
type ConsoleOptions struct {
	*RootOptions
	Database   string
	SecretFile string
	Journal    string
	ConfigPath string
}

// NewConsoleCommand creates the console command.
func NewConsoleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConsoleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Start the interactive record console",
		Long: `Start the interactive record console.

The console opens the record file (creating it if absent), checks that
the secret file is readable, and enters the command loop. Insert and
wipe require switching to the admin identity first.

Example:
  minidb console --db ./database.db --secret ./password.txt
  minidb console --config ./minidb.yaml --journal ./journal.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the record file (overrides config)")
	cmd.Flags().StringVar(&opts.SecretFile, "secret", "", "path to the secret file (overrides config)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to the audit journal (overrides config)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "minidb.yaml", "path to the config file")

	return cmd
}

func runConsole(opts *ConsoleOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.Verbose)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.SecretFile != "" {
		cfg.SecretFile = opts.SecretFile
	}
	if opts.Journal != "" {
		cfg.Journal = opts.Journal
	}

	// Both files are startup preconditions: failure is fatal, exit 1.
	verifier, err := auth.New(cfg.SecretFile)
	if err != nil {
		return WrapExitError(ExitFailure, "cannot open secret file", err)
	}
	st, err := store.Open(cfg.Database, logger)
	if err != nil {
		return WrapExitError(ExitFailure, "cannot open record file", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing record file", "error", closeErr)
		}
	}()

	// The journal is advisory: an unusable journal degrades to none.
	var jrnl *journal.Journal
	if cfg.Journal != "" {
		jrnl, err = journal.Open(cfg.Journal, nil)
		if err != nil {
			logger.Warn("audit journal disabled", "path", cfg.Journal, "error", err)
		} else {
			defer jrnl.Close()
		}
	}

	logger.Debug("console starting", "db", cfg.Database, "journal", cfg.Journal)
	c := console.New(console.Options{
		Input:    cmd.InOrStdin(),
		Output:   cmd.OutOrStdout(),
		Store:    st,
		Verifier: verifier,
		Journal:  jrnl,
		Logger:   logger,
	})
	// Use the command's context if available (for testing).
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "console session failed", err)
	}
	return nil
}

// newLogger configures slog on stderr per the verbose flag and
// installs it as the default.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}
