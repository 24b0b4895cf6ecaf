package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/derickschaefer/streamify/internal/chart"
	"github.com/derickschaefer/streamify/internal/dashboard"
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/util"
	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render dashboard charts as ASCII",
	Long: `Chart commands render the dashboard's charts to the terminal: top songs
and revenue categories as horizontal bars, user growth as a line chart.

A selected song, category or month is emphasised and the rest dimmed.`,
}

var (
	chartWidth  int
	chartHeight int
	chartDrill  drillDown
	chartActive bool
)

// ─── chart songs ─────────────────────────────────────────────────────────────

var chartSongsCmd = &cobra.Command{
	Use:   "songs",
	Short: "Bar chart of the top songs",
	Example: `  streamify chart songs
  streamify chart songs --range 7d --song vampire`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		c, snap, err := openSession(cmd.Context(), deps, drillDown{Song: chartDrill.Song})
		if err != nil {
			return err
		}
		s := c.State()
		pts := make([]chart.Point, len(snap.TopSongs))
		for i, t := range snap.TopSongs {
			pts[i] = chart.Point{Label: t.Name, Value: float64(t.Streams), Active: s.Song.Is(t.Name)}
		}
		return drawChart(cmd, func(w io.Writer) error {
			return chart.Bar(w, "Top Songs • "+snap.Range.Label(), pts, chart.BarOptions{Width: chartWidth, MaxLabel: 24})
		})
	},
}

// ─── chart revenue ───────────────────────────────────────────────────────────

var chartRevenueCmd = &cobra.Command{
	Use:     "revenue",
	Short:   "Bar chart of the revenue distribution",
	Example: `  streamify chart revenue --category "Premium Subscriptions"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		c, snap, err := openSession(cmd.Context(), deps, drillDown{Category: chartDrill.Category})
		if err != nil {
			return err
		}
		s := c.State()
		pts := make([]chart.Point, len(snap.RevenueDistribution))
		for i, r := range snap.RevenueDistribution {
			pts[i] = chart.Point{Label: r.Name, Value: float64(r.Amount), Active: s.RevenueCategory.Is(r.Name)}
		}
		return drawChart(cmd, func(w io.Writer) error {
			return chart.Bar(w, "Revenue • "+snap.Range.Label(), pts, chart.BarOptions{
				Width:  chartWidth,
				Format: func(v float64) string { return util.FormatCurrency(int64(math.Round(v))) },
			})
		})
	},
}

// ─── chart growth ────────────────────────────────────────────────────────────

var chartGrowthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Line chart of monthly users",
	Long: `Plot total users per month, or active users with --active. --month marks
the focused month beneath the axis.`,
	Example: `  streamify chart growth
  streamify chart growth --active --month "Jun 2023" --height 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		c, snap, err := openSession(cmd.Context(), deps, drillDown{Month: chartDrill.Month})
		if err != nil {
			return err
		}
		w, focused := c.State().Window.Get()
		pts := growthPoints(snap.UserGrowth, chartActive, w, focused)

		title := "Total Users"
		if chartActive {
			title = "Active Users"
		}
		return drawChart(cmd, func(out io.Writer) error {
			return chart.Plot(out, title, pts, chart.PlotOptions{Width: chartWidth, Height: chartHeight})
		})
	},
}

// growthPoints converts the growth series to chart points, flagging the
// month that starts the focused window.
func growthPoints(series []model.GrowthPoint, active bool, w model.TimeWindow, focused bool) []chart.Point {
	pts := make([]chart.Point, len(series))
	for i, g := range series {
		v := g.TotalUsers
		if active {
			v = g.ActiveUsers
		}
		pts[i] = chart.Point{Label: g.Month, Value: float64(v)}
		if focused {
			if mw, err := dashboard.MonthWindow(g.Month); err == nil && mw.Start.Equal(w.Start) {
				pts[i].Active = true
			}
		}
	}
	return pts
}

// ─── Output ──────────────────────────────────────────────────────────────────

// drawChart runs draw against the command's output, honouring --out.
func drawChart(cmd *cobra.Command, draw func(io.Writer) error) error {
	if globalFlags.Quiet {
		return nil
	}
	w, closeFn, err := outputWriter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := draw(w); err != nil {
		closeFn()
		return fmt.Errorf("rendering chart: %w", err)
	}
	return closeFn()
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.AddCommand(chartSongsCmd)
	chartCmd.AddCommand(chartRevenueCmd)
	chartCmd.AddCommand(chartGrowthCmd)

	pf := chartCmd.PersistentFlags()
	pf.IntVar(&chartWidth, "width", 0, "chart width in characters (default: $COLUMNS or 80)")

	chartSongsCmd.Flags().StringVar(&chartDrill.Song, "song", "", "highlight a song")
	chartRevenueCmd.Flags().StringVar(&chartDrill.Category, "category", "", "highlight a revenue category")
	chartGrowthCmd.Flags().StringVar(&chartDrill.Month, "month", "", "mark a month, e.g. \"Jun 2023\"")
	chartGrowthCmd.Flags().BoolVar(&chartActive, "active", false, "plot active users instead of total users")
	chartGrowthCmd.Flags().IntVar(&chartHeight, "height", 0, "chart body height in rows (default: 12)")
}
