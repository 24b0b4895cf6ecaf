package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/derickschaefer/streamify/internal/dashboard"
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/pipeline"
	"github.com/derickschaefer/streamify/internal/table"
	"github.com/spf13/cobra"
)

var streamsCmd = &cobra.Command{
	Use:   "streams",
	Short: "Browse the recent streams table",
	Long: `Commands for the recent streams table: list it with text filters, sorting
and pagination, export the filtered records as JSONL, or run the table view
over JSONL read from stdin.

Drill-down flags (--artist, --song, --month) narrow the records before the
table's own text filters are applied.`,
}

// tableFlags are the view-model flags shared by `streams list` and
// `streams table`.
type tableFlags struct {
	Search       string
	ArtistFilter string
	SongFilter   string
	Sort         string
	Desc         bool
	Page         int
	PageSize     int
}

func (f *tableFlags) register(c *cobra.Command, paged bool) {
	c.Flags().StringVar(&f.Search, "search", "", "case-insensitive search across every column")
	c.Flags().StringVar(&f.ArtistFilter, "artist-filter", "", "case-insensitive artist substring")
	c.Flags().StringVar(&f.SongFilter, "song-filter", "", "case-insensitive song substring")
	c.Flags().StringVar(&f.Sort, "sort", "", "sort column: song|artist|daily_streams|unique_listeners|trend")
	c.Flags().BoolVar(&f.Desc, "desc", false, "sort descending")
	if paged {
		c.Flags().IntVar(&f.Page, "page", 1, "page number (1-based; clamps to the last page)")
		c.Flags().IntVar(&f.PageSize, "page-size", 0, "rows per page: 10|20|30|50 (default: config page_size)")
	}
}

// view builds a table view from the flags.
func (f tableFlags) view(defaultPageSize int) (*table.View, error) {
	v := table.NewView()
	v.SetQuery(table.Query{Global: f.Search, Artist: f.ArtistFilter, Song: f.SongFilter})
	if f.Sort != "" {
		col, err := table.ParseColumn(f.Sort)
		if err != nil {
			return nil, err
		}
		v.SetSort(table.SortState{Column: col, Desc: f.Desc})
	}
	size := f.PageSize
	if size == 0 {
		size = defaultPageSize
	}
	if err := v.SetPageSize(size); err != nil {
		return nil, err
	}
	if f.Page < 1 {
		return nil, fmt.Errorf("invalid page %d: pages start at 1", f.Page)
	}
	v.SetPage(f.Page - 1)
	return v, nil
}

// ─── streams list ─────────────────────────────────────────────────────────────

var (
	streamsListDrill drillDown
	streamsListFlags tableFlags
)

var streamsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent streams with filters, sorting and pagination",
	Example: `  streamify streams list
  streamify streams list --search vamp
  streamify streams list --artist "Taylor Swift" --sort daily_streams --desc
  streamify streams list --month "Jan 2024" --page-size 20 --page 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		v, err := streamsListFlags.view(deps.Config.PageSize)
		if err != nil {
			return err
		}

		start := time.Now()
		c, snap, err := openSession(cmd.Context(), deps, streamsListDrill)
		if err != nil {
			return err
		}
		filtered := dashboard.Filter(snap, c.State())

		page := v.Render(filtered.RecentStreams)
		result := newResult(deps, model.KindStreams, "streams list", snap.Range, page, len(page.Rows), start)
		return emit(deps, result)
	},
}

// ─── streams export ───────────────────────────────────────────────────────────

var (
	streamsExportDrill drillDown
	streamsExportFlags tableFlags
)

var streamsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered stream records as JSONL",
	Long: `Write every record that passes the drill-downs and text filters as one
JSON object per line, sorted when --sort is given. The output feeds
'streamify streams table'.`,
	Example: `  streamify streams export --range 90d > streams.jsonl
  streamify streams export --artist "Taylor Swift" | streamify streams table --sort trend`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		f := streamsExportFlags
		f.Page = 1
		v, err := f.view(table.DefaultPageSize)
		if err != nil {
			return err
		}

		c, snap, err := openSession(cmd.Context(), deps, streamsExportDrill)
		if err != nil {
			return err
		}
		recs := dashboard.Filter(snap, c.State()).RecentStreams
		recs = table.SortRows(table.ApplyTextFilters(recs, v.Query()), v.Sort())

		w, closeFn, err := outputWriter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := pipeline.WriteStreams(w, snap.Range, recs); err != nil {
			closeFn()
			return err
		}
		if err := closeFn(); err != nil {
			return err
		}
		if deps.Config.Verbose {
			fmt.Fprintf(os.Stderr, "\n[%d records • %s]\n", len(recs), snap.Range)
		}
		return nil
	},
}

// ─── streams table ────────────────────────────────────────────────────────────

var streamsTableFlags tableFlags

var streamsTableCmd = &cobra.Command{
	Use:   "table",
	Short: "Run the table view over JSONL stream records on stdin",
	Example: `  streamify streams export | streamify streams table --search swift
  cat streams.jsonl | streamify streams table --sort unique_listeners --desc --page-size 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !pipeline.StdinIsPipe() {
			return fmt.Errorf("streams table reads JSONL from stdin\n\n  Use: streamify streams export | streamify streams table")
		}
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		v, err := streamsTableFlags.view(deps.Config.PageSize)
		if err != nil {
			return err
		}

		start := time.Now()
		recs, err := pipeline.ReadStreams(cmd.InOrStdin())
		if err != nil {
			return err
		}
		page := v.Render(recs)
		result := newResult(deps, model.KindStreams, "streams table", "", page, len(page.Rows), start)
		result.Stats.Source = "stdin"
		return emit(deps, result)
	},
}

func init() {
	rootCmd.AddCommand(streamsCmd)
	streamsCmd.AddCommand(streamsListCmd)
	streamsCmd.AddCommand(streamsExportCmd)
	streamsCmd.AddCommand(streamsTableCmd)

	streamsListDrill.register(streamsListCmd)
	streamsListFlags.register(streamsListCmd, true)
	streamsExportDrill.register(streamsExportCmd)
	streamsExportFlags.register(streamsExportCmd, false)
	streamsTableFlags.register(streamsTableCmd, true)
}
