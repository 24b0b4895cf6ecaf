package cmd

import (
	"fmt"
	"time"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/render"
	"github.com/derickschaefer/streamify/internal/source"
	"github.com/spf13/cobra"
)

var dashboardDrill drillDown

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show metric cards, revenue distribution and top songs",
	Long: `Show the dashboard landing view for one time range: five metric cards,
the revenue distribution by category and the top songs.

Drill-down flags narrow the recent streams behind the view; the number of
matching streams is reported under the active selections.`,
	Example: `  streamify dashboard
  streamify dashboard --range 7d
  streamify dashboard --artist "Taylor Swift" --category "Premium Subscriptions"
  streamify dashboard --format json | jq '.data.cards'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		c, snap, err := openSession(cmd.Context(), deps, dashboardDrill)
		if err != nil {
			return err
		}
		ov := buildOverview(snap, c.State())
		result := newResult(deps, model.KindSnapshot, "dashboard", snap.Range, ov, len(ov.Cards), start)
		return emit(deps, result)
	},
}

// ─── dashboard prefetch ───────────────────────────────────────────────────────

var prefetchConcurrency int

var dashboardPrefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Fetch every time range concurrently and report timing",
	Long: `Fetch the snapshot of every time range through the simulated client,
at most --concurrency at a time and subject to --rate and --delay.`,
	Example: `  streamify dashboard prefetch
  streamify dashboard prefetch --delay 0s --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		snaps, err := deps.Client.FetchAll(cmd.Context(), model.Ranges, prefetchConcurrency)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		tbl := model.Table{Header: []string{"RANGE", "LABEL", "STREAMS", "TOP SONGS", "REVENUE"}}
		for _, s := range snaps {
			tbl.Rows = append(tbl.Rows, []string{
				string(s.Range),
				s.Range.Label(),
				fmt.Sprintf("%d", len(s.RecentStreams)),
				fmt.Sprintf("%d", len(s.TopSongs)),
				fmt.Sprintf("%d", len(s.RevenueDistribution)),
			})
		}
		result := newResult(deps, model.KindTable, "dashboard prefetch", "", tbl, len(snaps), start)
		if err := emit(deps, result); err != nil {
			return err
		}
		if !deps.Config.Quiet && resolveFormat(deps.Config.Format) == render.FormatTable {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d ranges  •  %s  •  %s\n",
				len(snaps), elapsed.Round(time.Millisecond), deps.Client.BackendName())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.AddCommand(dashboardPrefetchCmd)

	dashboardDrill.register(dashboardCmd)
	dashboardPrefetchCmd.Flags().IntVar(&prefetchConcurrency, "concurrency", source.DefaultConcurrency,
		"max ranges fetched in parallel")
}
