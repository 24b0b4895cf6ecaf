// Package cmd implements the streamify CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/derickschaefer/streamify/internal/app"
	"github.com/derickschaefer/streamify/internal/config"
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/spf13/cobra"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	Format  string
	Out     string
	Range   string
	DB      string
	Source  string
	Delay   string
	Rate    float64
	Quiet   bool
	Verbose bool
	Debug   bool
}

// rootCmd is the base command. Running `streamify` with no subcommand
// prints help.
var rootCmd = &cobra.Command{
	Use:   "streamify",
	Short: "streamify — music streaming analytics dashboard in the terminal",
	Long: `streamify is a command-line analytics dashboard for a music streaming
service: metric cards, revenue distribution, top songs, user growth and a
filterable, sortable, paginated table of recent streams.

Every view is computed for one time range (7d, 30d, 90d, year) and can be
narrowed by drilling down into an artist, a song or a month.

Quick start:
  streamify dashboard                      # cards, revenue and top songs for 30d
  streamify streams list --artist "Taylor Swift"
  streamify chart growth --month "Jun 2023"
  streamify session                        # interactive drill-down shell`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
// An interrupt cancels the command's context.
func Execute() {
	registerCompletions()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps() (*app.Deps, error) {
	cfg, err := config.Load(globalFlags.DB)
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides
	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug

	if globalFlags.Format != "" {
		cfg.Format = globalFlags.Format
	}
	if globalFlags.Range != "" {
		cfg.Range = model.TimeRange(globalFlags.Range)
	}
	if globalFlags.Source != "" {
		cfg.Source = globalFlags.Source
	}
	if globalFlags.Delay != "" {
		d, err := time.ParseDuration(globalFlags.Delay)
		if err != nil {
			return nil, fmt.Errorf("--delay: %w", err)
		}
		cfg.Delay = d
	}
	if globalFlags.Rate > 0 {
		cfg.Rate = globalFlags.Rate
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	return app.New(cfg, logger)
}

// newLogger returns a text logger on stderr. Debug lowers the level so
// fetch and state transitions are traced; quiet keeps only errors.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case cfg.Debug:
		level = slog.LevelDebug
	case cfg.Quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|jsonl|csv|tsv|md (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.StringVar(&globalFlags.Range, "range", "",
		"time range: 7d|30d|90d|year (default: 30d)")
	pf.StringVar(&globalFlags.DB, "db", "",
		"snapshot store path (overrides env STREAMIFY_DB_PATH and streamify.json)")
	pf.StringVar(&globalFlags.Source, "source", "",
		"snapshot source: memory|store (default: memory)")
	pf.StringVar(&globalFlags.Delay, "delay", "",
		"simulated fetch latency (e.g. 500ms, 0s)")
	pf.Float64Var(&globalFlags.Rate, "rate", 0,
		"max snapshot fetches per second (default: 10)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress all non-error output")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show source/timing stats after output")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"log fetches and state transitions to stderr")
}
