package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/minidb/internal/config"
	"github.com/roach88/minidb/internal/journal"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Journal    string
	ConfigPath string
	Limit      int
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent audit journal events",
		Long: `Show recent audit journal events, newest first.

Example:
  minidb journal --journal ./journal.db -n 50
  minidb journal --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to the audit journal (overrides config)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "minidb.yaml", "path to the config file")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of events to show")

	return cmd
}

func runJournal(opts *JournalOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Journal != "" {
		cfg.Journal = opts.Journal
	}
	if cfg.Journal == "" {
		return NewExitError(ExitCommandError, "no journal configured: pass --journal or set journal in the config file")
	}

	j, err := journal.Open(cfg.Journal, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	events, err := j.Tail(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read journal", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return json.NewEncoder(out).Encode(events)
	}

	fmt.Fprintln(out, " seq | time                 | session  | event")
	fmt.Fprintln(out, "-----+----------------------+----------+------------------")
	for _, e := range events {
		detail := e.Kind
		if e.Detail != "" {
			detail = fmt.Sprintf("%s (%s)", e.Kind, e.Detail)
		}
		fmt.Fprintf(out, "%4d | %s | %.8s | %s\n",
			e.Seq, e.At.UTC().Format("2006-01-02T15:04:05Z"), e.SessionID, detail)
	}
	fmt.Fprintf(out, "%d event(s).\n", len(events))
	return nil
}
