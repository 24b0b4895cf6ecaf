// Package analyze computes the derived figures the dashboard shows next to
// its raw tables: revenue shares, the user growth summary and trend counts.
// All functions are pure; no I/O.
package analyze

import (
	"math"

	"github.com/derickschaefer/streamify/internal/model"
)

// ─── Revenue ──────────────────────────────────────────────────────────────────

// RevenueShares returns each category's share of total, rounded to one
// decimal place. A non-positive total falls back to the sum of the amounts.
// The category named active is flagged for emphasis.
func RevenueShares(dist []model.RevenueSlice, total int64, active string) []model.RevenueShare {
	if total <= 0 {
		for _, s := range dist {
			total += s.Amount
		}
	}
	out := make([]model.RevenueShare, len(dist))
	for i, s := range dist {
		pct := 0.0
		if total > 0 {
			pct = round1(float64(s.Amount) / float64(total) * 100)
		}
		out[i] = model.RevenueShare{
			Name:    s.Name,
			Amount:  s.Amount,
			Percent: pct,
			Active:  active != "" && s.Name == active,
		}
	}
	return out
}

// ─── Growth ───────────────────────────────────────────────────────────────────

// Growth summarises the user growth series. Percentages are zero when the
// base value is zero so the summary always encodes as JSON; an empty series
// yields a zero summary.
func Growth(points []model.GrowthPoint) model.GrowthSummary {
	s := model.GrowthSummary{Points: len(points)}
	if len(points) == 0 {
		return s
	}
	first, last := points[0], points[len(points)-1]
	s.FirstMonth = first.Month
	s.LastMonth = last.Month
	s.TotalChange = last.TotalUsers - first.TotalUsers
	s.TotalChangePct = pctChange(first.TotalUsers, last.TotalUsers)
	s.ActiveChange = last.ActiveUsers - first.ActiveUsers
	s.ActiveChangePct = pctChange(first.ActiveUsers, last.ActiveUsers)
	if last.TotalUsers > 0 {
		s.ActiveRatio = float64(last.ActiveUsers) / float64(last.TotalUsers)
	}

	// Mean of month-over-month changes, skipping zero bases.
	var sum float64
	var n int
	for i := 1; i < len(points); i++ {
		if points[i-1].TotalUsers == 0 {
			continue
		}
		sum += pctChange(points[i-1].TotalUsers, points[i].TotalUsers)
		n++
	}
	if n > 0 {
		s.AvgMonthlyPct = sum / float64(n)
	}

	s.Direction = "flat"
	if len(points) < 2 {
		return s
	}
	pts := make([]point, len(points))
	for i, p := range points {
		pts[i] = point{float64(i), float64(p.TotalUsers)}
	}
	slope, intercept := olsRegress(pts)
	s.SlopePerMonth = slope
	s.R2 = r2(pts, slope, intercept)
	switch {
	case slope > 0.5:
		s.Direction = "up"
	case slope < -0.5:
		s.Direction = "down"
	}
	return s
}

// ─── Streams ──────────────────────────────────────────────────────────────────

// TrendCounts returns how many records are rising and falling.
func TrendCounts(recs []model.StreamRecord) (rising, falling int) {
	for _, r := range recs {
		if r.Rising() {
			rising++
		} else {
			falling++
		}
	}
	return rising, falling
}

// ─── Math helpers ─────────────────────────────────────────────────────────────

func pctChange(from, to int64) float64 {
	if from == 0 {
		return 0
	}
	return float64(to-from) / float64(from) * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type point struct{ x, y float64 }

func olsRegress(pts []point) (slope, intercept float64) {
	n := float64(len(pts))
	var xSum, ySum, xySum, x2Sum float64
	for _, p := range pts {
		xSum += p.x
		ySum += p.y
		xySum += p.x * p.y
		x2Sum += p.x * p.x
	}
	denom := n*x2Sum - xSum*xSum
	if denom == 0 {
		return 0, ySum / n
	}
	slope = (n*xySum - xSum*ySum) / denom
	intercept = (ySum - slope*xSum) / n
	return
}

func r2(pts []point, slope, intercept float64) float64 {
	var yMean float64
	for _, p := range pts {
		yMean += p.y
	}
	yMean /= float64(len(pts))

	var ssTot, ssRes float64
	for _, p := range pts {
		pred := slope*p.x + intercept
		ssTot += (p.y - yMean) * (p.y - yMean)
		ssRes += (p.y - pred) * (p.y - pred)
	}
	if ssTot == 0 {
		return 1
	}
	return 1 - ssRes/ssTot
}
