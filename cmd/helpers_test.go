package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/derickschaefer/streamify/internal/app"
	"github.com/derickschaefer/streamify/internal/config"
	"github.com/derickschaefer/streamify/internal/dashboard"
	"github.com/derickschaefer/streamify/internal/dataset"
	"github.com/derickschaefer/streamify/internal/model"
)

// testDeps builds in-memory deps with no fetch delay or throttling.
func testDeps(t *testing.T) *app.Deps {
	t.Helper()
	cfg := &config.Config{
		Format:   "table",
		Range:    model.DefaultRange,
		PageSize: 10,
		Source:   config.SourceMemory,
		Quiet:    true,
	}
	deps, err := app.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(deps.Close)
	return deps
}

// ─── outputWriter ─────────────────────────────────────────────────────────────

func TestOutputWriterDefault(t *testing.T) {
	globalFlags.Out = ""
	w, closeFn, err := outputWriter(os.Stdout)
	if err != nil {
		t.Fatalf("outputWriter default: %v", err)
	}
	if w != os.Stdout {
		t.Fatalf("expected stdout writer passthrough")
	}
	if err := closeFn(); err != nil {
		t.Fatalf("default closer should be nil error, got: %v", err)
	}
}

func TestOutputWriterFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.txt")
	globalFlags.Out = p
	t.Cleanup(func() { globalFlags.Out = "" })

	w, closeFn, err := outputWriter(os.Stdout)
	if err != nil {
		t.Fatalf("outputWriter file: %v", err)
	}
	if w == os.Stdout {
		t.Fatalf("expected file writer, got stdout")
	}
	if err := closeFn(); err != nil {
		t.Fatalf("closing output writer: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
}

func TestOutputWriterBadPath(t *testing.T) {
	globalFlags.Out = filepath.Join(t.TempDir(), "missing", "out.txt")
	t.Cleanup(func() { globalFlags.Out = "" })

	if _, _, err := outputWriter(os.Stdout); err == nil {
		t.Fatal("expected error for a path in a missing directory")
	}
}

// ─── parseIntID ───────────────────────────────────────────────────────────────

func TestParseIntIDAllowsZero(t *testing.T) {
	got, err := parseIntID("0", "page")
	if err != nil {
		t.Fatalf("expected zero to be valid, got error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected parsed zero, got %d", got)
	}
}

func TestParseIntIDRejects(t *testing.T) {
	for _, in := range []string{"-1", "abc", ""} {
		if _, err := parseIntID(in, "page"); err == nil {
			t.Errorf("parseIntID(%q): expected error", in)
		}
	}
}

// ─── Drill-downs & overview ───────────────────────────────────────────────────

func TestDrillDownApply(t *testing.T) {
	c := dashboard.New(dataset.Default(), nil, nil)
	dd := drillDown{Artist: "Taylor Swift", Month: "Jan 2024", Category: "Premium Subscriptions"}
	if err := dd.apply(c); err != nil {
		t.Fatalf("apply: %v", err)
	}
	sel := selection(c.State())
	want := model.Selection{Artist: "Taylor Swift", RevenueCategory: "Premium Subscriptions", Window: "Jan 2024"}
	if sel != want {
		t.Fatalf("selection = %+v, want %+v", sel, want)
	}
}

func TestDrillDownBadMonth(t *testing.T) {
	c := dashboard.New(dataset.Default(), nil, nil)
	if err := (drillDown{Month: "Smarch 2024"}).apply(c); err == nil {
		t.Fatal("expected error for unparsable month")
	}
	if c.State().Window.IsSet() {
		t.Error("window should stay unset after a bad month")
	}
}

func TestBuildOverview(t *testing.T) {
	deps := testDeps(t)
	c, snap, err := openSession(t.Context(), deps, drillDown{Artist: "Taylor Swift", Category: "Premium Subscriptions"})
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	ov := buildOverview(snap, c.State())

	if ov.Range != model.Range30d {
		t.Errorf("range = %s, want 30d", ov.Range)
	}
	if len(ov.Cards) != 5 {
		t.Errorf("cards = %d, want 5", len(ov.Cards))
	}
	if ov.Streams != 2 {
		t.Errorf("matching streams = %d, want 2", ov.Streams)
	}
	active := 0
	for _, r := range ov.Revenue {
		if r.Active {
			active++
			if r.Name != "Premium Subscriptions" {
				t.Errorf("active category = %q, want Premium Subscriptions", r.Name)
			}
		}
	}
	if active != 1 {
		t.Errorf("active categories = %d, want 1", active)
	}
	if ov.Selection.Artist != "Taylor Swift" {
		t.Errorf("selection artist = %q", ov.Selection.Artist)
	}
}

// ─── Table flags ──────────────────────────────────────────────────────────────

func TestTableFlagsView(t *testing.T) {
	v, err := tableFlags{Search: "swift", Sort: "streams", Desc: true, Page: 2}.view(20)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if v.PageSize() != 20 {
		t.Errorf("page size = %d, want config default 20", v.PageSize())
	}
	if v.PageIndex() != 1 {
		t.Errorf("page index = %d, want 1", v.PageIndex())
	}
	if s := v.Sort(); s.Column != "daily_streams" || !s.Desc {
		t.Errorf("sort = %+v", s)
	}
	if v.Query().Global != "swift" {
		t.Errorf("query = %+v", v.Query())
	}
}

func TestTableFlagsViewErrors(t *testing.T) {
	cases := map[string]tableFlags{
		"bad sort":      {Sort: "date", Page: 1},
		"bad page size": {PageSize: 25, Page: 1},
		"page zero":     {Page: 0},
	}
	for name, f := range cases {
		if _, err := f.view(10); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

// ─── Charts ───────────────────────────────────────────────────────────────────

func TestGrowthPointsMarksFocusedMonth(t *testing.T) {
	series := dataset.Default().Growth
	w, err := dashboard.MonthWindow("Jun 2023")
	if err != nil {
		t.Fatal(err)
	}
	pts := growthPoints(series, true, w, true)
	if len(pts) != len(series) {
		t.Fatalf("points = %d, want %d", len(pts), len(series))
	}
	var marked []string
	for i, p := range pts {
		if p.Active {
			marked = append(marked, p.Label)
		}
		if p.Value != float64(series[i].ActiveUsers) {
			t.Errorf("%s: value %v, want active users %d", p.Label, p.Value, series[i].ActiveUsers)
		}
	}
	if strings.Join(marked, ",") != "Jun 2023" {
		t.Errorf("marked = %v, want [Jun 2023]", marked)
	}

	for _, p := range growthPoints(series, false, model.TimeWindow{}, false) {
		if p.Active {
			t.Errorf("%s marked without a focused window", p.Label)
		}
	}
}
