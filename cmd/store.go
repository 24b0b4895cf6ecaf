package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/store"
	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local snapshot store",
	Long: `Commands for the local bbolt snapshot store.

Seed it from the built-in dataset, then point streamify at it with
--source store (or 'streamify config set source store') so every fetch is
served from disk.`,
}

// ─── store seed ───────────────────────────────────────────────────────────────

var storeSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write every range's snapshot from the built-in dataset",
	Example: `  streamify store seed
  streamify store seed --db /tmp/streamify.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		snaps := make([]model.Snapshot, len(model.Ranges))
		for i, r := range model.Ranges {
			snaps[i] = deps.Dataset.Snapshot(r)
		}
		if err := deps.Store.Seed(snaps); err != nil {
			return fmt.Errorf("seeding store: %w", err)
		}
		if !deps.Config.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d snapshots into %s\n", len(snaps), deps.Store.Path())
			fmt.Fprintln(cmd.OutOrStdout(), "  Use: streamify dashboard --source store")
		}
		return nil
	},
}

// ─── store stats ──────────────────────────────────────────────────────────────

var storeStatsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show row counts and sizes for each bucket",
	Example: `  streamify store stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		stats, err := deps.Store.Stats()
		if err != nil {
			return fmt.Errorf("reading store stats: %w", err)
		}
		// Sort by bucket name for deterministic output
		sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })

		ranges, err := deps.Store.ListRanges()
		if err != nil {
			return fmt.Errorf("reading store: %w", err)
		}
		seeded, err := deps.Store.SeededAt()
		if err != nil {
			return fmt.Errorf("reading store: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database: %s\n", deps.Store.Path())
		if seeded.IsZero() {
			fmt.Fprintln(out, "Seeded:   never")
		} else {
			fmt.Fprintf(out, "Seeded:   %s\n", seeded.Format("2006-01-02 15:04 MST"))
		}
		names := make([]string, len(ranges))
		for i, r := range ranges {
			names[i] = string(r)
		}
		fmt.Fprintf(out, "Ranges:   %s\n\n", orNone(strings.Join(names, ", ")))

		printSimpleTable(out, []string{"BUCKET", "ROWS", "SIZE"}, func(add func(...string)) {
			for _, s := range stats {
				add(s.Name, fmt.Sprintf("%d", s.Count), humanBytes(s.Bytes))
			}
		})
		return nil
	},
}

// ─── store clear ──────────────────────────────────────────────────────────────

var storeClearCmd = &cobra.Command{
	Use:   "clear [bucket]",
	Short: "Delete entries from the snapshot store",
	Long: `Delete entries from one bucket, or every bucket when none is named.

bbolt does not shrink the database file after clearing; freed pages are
reused on the next write. Run 'streamify store compact' to reclaim disk space.`,
	Example: `  streamify store clear
  streamify store clear snapshots`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: store.AllBuckets,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		if len(args) == 0 {
			if err := deps.Store.ClearAll(); err != nil {
				return fmt.Errorf("clearing all buckets: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared all buckets")
		} else {
			if err := deps.Store.ClearBucket(args[0]); err != nil {
				return fmt.Errorf("clearing bucket %q: %w\n\nBuckets: %s", args[0], err, strings.Join(store.AllBuckets, ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared bucket %q\n", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "  Run 'streamify store compact' to reclaim disk space.")
		return nil
	},
}

// ─── store compact ────────────────────────────────────────────────────────────

var storeCompactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Rewrite the database file to reclaim freed disk space",
	Long: `Compact copies every live entry into a fresh file and swaps it in place of
the original. The store stays usable afterwards.`,
	Example: `  streamify store compact`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Compacting %s ...\n", deps.Store.Path())
		before, after, err := deps.Store.Compact()
		if err != nil {
			return fmt.Errorf("compaction failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✓ Compaction complete")
		fmt.Fprintf(cmd.OutOrStdout(), "  Before: %s\n", humanBytes(before))
		fmt.Fprintf(cmd.OutOrStdout(), "  After:  %s\n", humanBytes(after))
		if saved := before - after; saved > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  Saved:  %s\n", humanBytes(saved))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "  No space reclaimed (database was already compact).")
		}
		return nil
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeSeedCmd)
	storeCmd.AddCommand(storeStatsCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeCompactCmd)
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func humanBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
