package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/derickschaefer/streamify/internal/analyze"
	"github.com/derickschaefer/streamify/internal/app"
	"github.com/derickschaefer/streamify/internal/dashboard"
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/render"
	"github.com/derickschaefer/streamify/internal/table"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interactive drill-down shell over one dashboard",
	Long: `Start an interactive shell holding one dashboard's state. Selections made
with one command narrow every later view, the way clicking widgets on the
dashboard does. Selecting the same value again clears it.

Commands:
  range <7d|30d|90d|year>   switch time range (refetches)
  artist [name]             toggle the artist drill-down; no name clears
  song [name]               toggle the song drill-down
  pick <n>                  select the nth top song with its artist
  month [Mon YYYY]          toggle the focused month
  revenue [category]        toggle the highlighted revenue category
  clear                     clear every selection
  search [text]             table search across all columns
  sort <column>             sort by column; again to flip direction
  page <n> | next | prev    paginate the table
  size <10|20|30|50>        rows per page
  show                      cards, revenue, top songs and selections
  list                      the recent streams table
  quit                      leave the shell`,
	Example: `  streamify session
  printf 'artist Taylor Swift\nlist\n' | streamify session`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		return runSession(cmd.Context(), deps, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// session is the REPL state: one dashboard container, its last fetched
// snapshot and the stream table's view model.
type session struct {
	ctx  context.Context
	deps *app.Deps
	out  io.Writer
	c    *dashboard.Container
	snap model.Snapshot
	view *table.View
}

// runSession reads commands from in until EOF or quit.
func runSession(ctx context.Context, deps *app.Deps, in io.Reader, out io.Writer) error {
	s := &session{ctx: ctx, deps: deps, out: out, c: deps.NewDashboard(), view: table.NewView()}
	if err := s.view.SetPageSize(deps.Config.PageSize); err != nil {
		return err
	}
	s.refetch()
	deps.Logger.Debug("session started", "session", s.c.ID(), "range", s.c.State().Range)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "streamify> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		if name == "quit" || name == "exit" {
			return nil
		}
		if err := s.exec(strings.ToLower(name), arg); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (s *session) exec(name, arg string) error {
	switch name {
	case "range":
		if _, err := model.ParseTimeRange(arg); err != nil {
			return err
		}
		s.c.SetTimeRange(arg)
		s.refetch()
		s.status()
	case "artist":
		s.c.SetActiveArtist(arg)
		s.status()
	case "song":
		s.c.SetActiveSong(arg)
		s.status()
	case "pick":
		n, err := parseIntID(arg, "rank")
		if err != nil {
			return err
		}
		if n < 1 || n > len(s.snap.TopSongs) {
			return fmt.Errorf("rank %d out of range (1-%d)", n, len(s.snap.TopSongs))
		}
		t := s.snap.TopSongs[n-1]
		s.c.SelectSong(t.Name, t.Artist)
		s.status()
	case "month":
		if arg == "" {
			s.c.SetFocusedTimeWindow(nil)
		} else {
			w, err := dashboard.MonthWindow(arg)
			if err != nil {
				return err
			}
			s.c.SetFocusedTimeWindow(&w)
		}
		s.status()
	case "revenue":
		s.c.SetActiveRevenueCategory(arg)
		s.status()
	case "clear":
		s.c.Dispatch(dashboard.ClearSelections{})
		s.status()
	case "search":
		q := s.view.Query()
		q.Global = arg
		s.view.SetQuery(q)
		return s.list()
	case "sort":
		if arg == "" {
			s.view.ClearSort()
			return s.list()
		}
		col, err := table.ParseColumn(arg)
		if err != nil {
			return err
		}
		s.view.ToggleSort(col)
		return s.list()
	case "page":
		n, err := parseIntID(arg, "page")
		if err != nil {
			return err
		}
		s.view.SetPage(n - 1)
		return s.list()
	case "next":
		s.view.Next()
		return s.list()
	case "prev":
		s.view.Prev()
		return s.list()
	case "size":
		n, err := parseIntID(arg, "page size")
		if err != nil {
			return err
		}
		if err := s.view.SetPageSize(n); err != nil {
			return err
		}
		return s.list()
	case "show":
		return s.show()
	case "list", "streams":
		return s.list()
	case "help":
		fmt.Fprintln(s.out, "commands: range artist song pick month revenue clear search sort page next prev size show list quit")
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	return nil
}

// refetch loads the active range through the container.
func (s *session) refetch() {
	if !s.deps.Config.Quiet {
		fmt.Fprintln(s.out, "loading…")
	}
	s.snap = s.c.FetchSnapshot(s.ctx, s.c.State().Range)
}

// status prints the active selections and how many streams match them.
func (s *session) status() {
	st := s.c.State()
	sel := selection(st)
	filtered := dashboard.Filter(s.snap, st)
	parts := []string{st.Range.Label()}
	for _, kv := range [][2]string{
		{"artist", sel.Artist},
		{"song", sel.Song},
		{"month", sel.Window},
		{"revenue", sel.RevenueCategory},
	} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+": "+kv[1])
		}
	}
	parts = append(parts, fmt.Sprintf("%d matching streams", len(filtered.RecentStreams)))
	fmt.Fprintln(s.out, strings.Join(parts, "  •  "))
}

func (s *session) show() error {
	start := time.Now()
	ov := buildOverview(s.snap, s.c.State())
	return render.Render(s.out, newResult(s.deps, model.KindSnapshot, "session show", s.snap.Range, ov, len(ov.Cards), start), render.FormatTable)
}

func (s *session) list() error {
	start := time.Now()
	recs := dashboard.Filter(s.snap, s.c.State()).RecentStreams
	page := s.view.Render(recs)
	result := newResult(s.deps, model.KindStreams, "session list", s.snap.Range, page, len(page.Rows), start)
	if err := render.Render(s.out, result, render.FormatTable); err != nil {
		return err
	}
	rising, falling := analyze.TrendCounts(recs)
	fmt.Fprintf(s.out, "▲ %d rising  ▼ %d falling\n", rising, falling)
	return nil
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
