package analyze_test

import (
	"math"
	"testing"

	"github.com/derickschaefer/streamify/internal/analyze"
	"github.com/derickschaefer/streamify/internal/dataset"
	"github.com/derickschaefer/streamify/internal/model"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// ─── RevenueShares ────────────────────────────────────────────────────────────

func TestRevenueSharesOfMetricsRevenue(t *testing.T) {
	dist := []model.RevenueSlice{
		{Name: "Premium Subscriptions", Amount: 3000},
		{Name: "Ad Revenue", Amount: 1000},
	}
	got := analyze.RevenueShares(dist, 5000, "Ad Revenue")
	if got[0].Percent != 60 || got[1].Percent != 20 {
		t.Fatalf("percent of metrics revenue: got %v / %v", got[0].Percent, got[1].Percent)
	}
	if got[0].Active || !got[1].Active {
		t.Fatal("active flag on wrong category")
	}
}

func TestRevenueSharesRounding(t *testing.T) {
	dist := []model.RevenueSlice{{Name: "a", Amount: 1}, {Name: "b", Amount: 2}}
	got := analyze.RevenueShares(dist, 3, "")
	if got[0].Percent != 33.3 || got[1].Percent != 66.7 {
		t.Fatalf("got %v / %v", got[0].Percent, got[1].Percent)
	}
}

func TestRevenueSharesZeroTotalUsesSum(t *testing.T) {
	dist := []model.RevenueSlice{{Name: "a", Amount: 1}, {Name: "b", Amount: 3}}
	got := analyze.RevenueShares(dist, 0, "")
	if got[0].Percent != 25 || got[1].Percent != 75 {
		t.Fatalf("got %v / %v", got[0].Percent, got[1].Percent)
	}
	empty := analyze.RevenueShares([]model.RevenueSlice{{Name: "a"}}, 0, "")
	if empty[0].Percent != 0 {
		t.Fatalf("all-zero distribution: got %v", empty[0].Percent)
	}
}

// ─── Growth ───────────────────────────────────────────────────────────────────

func TestGrowthDefaultSeries(t *testing.T) {
	g := analyze.Growth(dataset.Default().Growth)
	if g.Points != 12 || g.FirstMonth != "Feb 2023" || g.LastMonth != "Jan 2024" {
		t.Fatalf("unexpected bounds: %+v", g)
	}
	if g.TotalChange != 690000 {
		t.Errorf("TotalChange: got %d", g.TotalChange)
	}
	if !approxEqual(g.TotalChangePct, 31.944, 0.01) {
		t.Errorf("TotalChangePct: got %v", g.TotalChangePct)
	}
	if g.Direction != "up" || g.SlopePerMonth <= 0 {
		t.Errorf("direction: %s slope %v", g.Direction, g.SlopePerMonth)
	}
	if g.R2 < 0.9 {
		t.Errorf("R2 unexpectedly low: %v", g.R2)
	}
	if !approxEqual(g.ActiveRatio, 2100000.0/2850000.0, 1e-9) {
		t.Errorf("ActiveRatio: got %v", g.ActiveRatio)
	}
}

func TestGrowthFlatAndEmpty(t *testing.T) {
	if g := analyze.Growth(nil); g.Points != 0 || g.Direction != "" {
		t.Fatalf("empty: %+v", g)
	}
	flat := []model.GrowthPoint{{Month: "a", TotalUsers: 10}, {Month: "b", TotalUsers: 10}}
	if g := analyze.Growth(flat); g.Direction != "flat" || g.AvgMonthlyPct != 0 {
		t.Fatalf("flat: %+v", g)
	}
}

func TestGrowthZeroBase(t *testing.T) {
	pts := []model.GrowthPoint{{Month: "a"}, {Month: "b", TotalUsers: 10}}
	g := analyze.Growth(pts)
	if g.TotalChangePct != 0 || g.TotalChange != 10 {
		t.Errorf("zero base: change %d (%v%%)", g.TotalChange, g.TotalChangePct)
	}
}

// ─── TrendCounts ──────────────────────────────────────────────────────────────

func TestTrendCounts(t *testing.T) {
	recs := dataset.Default().Snapshot(model.Range30d).RecentStreams
	up, down := analyze.TrendCounts(recs)
	if up != 7 || down != 3 {
		t.Fatalf("got %d up / %d down", up, down)
	}
}
