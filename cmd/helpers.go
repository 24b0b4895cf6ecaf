package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/derickschaefer/streamify/internal/analyze"
	"github.com/derickschaefer/streamify/internal/app"
	"github.com/derickschaefer/streamify/internal/dashboard"
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/pipeline"
	"github.com/derickschaefer/streamify/internal/render"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatTable
}

// outputWriter returns def, or the file named by --out when set. The
// returned close function must always be called.
func outputWriter(def io.Writer) (io.Writer, func() error, error) {
	if globalFlags.Out == "" {
		return def, func() error { return nil }, nil
	}
	f, err := os.Create(globalFlags.Out)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// printSimpleTable renders a simple table with headers using tablewriter.
// The add callback is called with row values as variadic strings.
func printSimpleTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}

// parseIntID parses a string as a non-negative integer, with a descriptive label for errors.
func parseIntID(s, label string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil || id < 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a non-negative integer", label, s)
	}
	return id, nil
}

// ─── Dashboard helpers ────────────────────────────────────────────────────────

// drillDown holds the selection flags shared by the data commands.
type drillDown struct {
	Artist   string
	Song     string
	Month    string
	Category string
}

// register binds the drill-down flags on c.
func (d *drillDown) register(c *cobra.Command) {
	c.Flags().StringVar(&d.Artist, "artist", "", "drill down into an artist (exact name)")
	c.Flags().StringVar(&d.Song, "song", "", "drill down into a song (exact name)")
	c.Flags().StringVar(&d.Month, "month", "", "focus a month of the growth chart, e.g. \"Jun 2023\"")
	c.Flags().StringVar(&d.Category, "category", "", "highlight a revenue category")
}

// apply dispatches every non-empty drill-down onto c.
func (d drillDown) apply(c *dashboard.Container) error {
	if d.Artist != "" {
		c.SetActiveArtist(d.Artist)
	}
	if d.Song != "" {
		c.SetActiveSong(d.Song)
	}
	if d.Category != "" {
		c.SetActiveRevenueCategory(d.Category)
	}
	if d.Month != "" {
		w, err := dashboard.MonthWindow(d.Month)
		if err != nil {
			return err
		}
		c.SetFocusedTimeWindow(&w)
	}
	return nil
}

// openSession starts a dashboard container, applies the drill-down flags
// and fetches the snapshot for the active range.
func openSession(ctx context.Context, deps *app.Deps, dd drillDown) (*dashboard.Container, model.Snapshot, error) {
	c := deps.NewDashboard()
	if err := dd.apply(c); err != nil {
		return nil, model.Snapshot{}, err
	}
	snap := loadSnapshot(ctx, deps, c)
	return c, snap, nil
}

// loadSnapshot fetches the active range's snapshot, printing a loading
// indicator on stderr when attached to a terminal.
func loadSnapshot(ctx context.Context, deps *app.Deps, c *dashboard.Container) model.Snapshot {
	showLoading := !deps.Config.Quiet && pipeline.IsTTY()
	if showLoading {
		fmt.Fprint(os.Stderr, "loading…")
	}
	snap := c.FetchSnapshot(ctx, c.State().Range)
	if showLoading {
		fmt.Fprint(os.Stderr, "\r        \r")
	}
	return snap
}

// selection converts the drill-down state to its display form.
func selection(s dashboard.State) model.Selection {
	var sel model.Selection
	sel.Artist = s.Artist.OrElse("")
	sel.Song = s.Song.OrElse("")
	sel.RevenueCategory = s.RevenueCategory.OrElse("")
	if w, ok := s.Window.Get(); ok {
		sel.Window = w.Label
	}
	return sel
}

// buildOverview assembles the landing view from snap under state s.
func buildOverview(snap model.Snapshot, s dashboard.State) model.Overview {
	filtered := dashboard.Filter(snap, s)
	return model.Overview{
		Range:     snap.Range,
		Cards:     dashboard.Cards(snap.Metrics),
		Revenue:   analyze.RevenueShares(snap.RevenueDistribution, snap.Metrics.Revenue, s.RevenueCategory.OrElse("")),
		TopSongs:  snap.TopSongs,
		Selection: selection(s),
		Streams:   len(filtered.RecentStreams),
	}
}

// newResult wraps data in a Result envelope stamped with the elapsed time
// since start.
func newResult(deps *app.Deps, kind, command string, r model.TimeRange, data any, items int, start time.Time) *model.Result {
	return &model.Result{
		Kind:        kind,
		GeneratedAt: time.Now(),
		Command:     command,
		Range:       r,
		Data:        data,
		Stats: model.ResultStats{
			Source:     deps.Client.BackendName(),
			DurationMs: time.Since(start).Milliseconds(),
			Items:      items,
		},
	}
}

// emit renders result in the resolved format and prints the footer.
func emit(deps *app.Deps, result *model.Result) error {
	format := resolveFormat(deps.Config.Format)
	if !render.ValidFormat(format) {
		return fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(render.Formats, ", "))
	}
	if deps.Config.Quiet {
		return nil
	}
	if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
		return err
	}
	render.PrintFooter(os.Stderr, result, deps.Config.Verbose)
	return nil
}
