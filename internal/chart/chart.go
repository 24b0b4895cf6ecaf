// Package chart renders the dashboard's charts as terminal text.
//
//   - Bar: horizontal bars, one per labeled point (top songs, revenue
//     categories). An active point is emphasised and the rest dimmed, the
//     way a clicked bar or pie segment is highlighted.
//   - Plot: a line chart over an ordered series (user growth by month).
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/derickschaefer/streamify/internal/util"
)

// Point is one labeled value.
type Point struct {
	Label  string
	Value  float64
	Active bool
}

// ─── Bar ─────────────────────────────────────────────────────────────────────

// BarOptions controls horizontal bar chart rendering.
type BarOptions struct {
	// Width is the total character width available for the chart.
	// If 0, auto-detects from $COLUMNS, falls back to 80.
	Width int
	// MaxLabel truncates labels to this many runes. If 0, labels are not truncated.
	MaxLabel int
	// Format renders each value label. Defaults to abbreviated counts.
	Format func(float64) string
}

// Bar renders a horizontal bar chart of pts to w, one bar per point,
// scaled from a zero baseline. Negative values are drawn as empty bars.
//
// Output example:
//
//	Top Songs
//	  Cruel Summer   14.0M  ████████████████████
//	  vampire        12.8M  ██████████████████
func Bar(w io.Writer, title string, pts []Point, opts BarOptions) error {
	if len(pts) == 0 {
		return fmt.Errorf("chart bar: no points to render")
	}
	totalWidth := opts.Width
	if totalWidth <= 0 {
		totalWidth = termWidth()
	}
	format := opts.Format
	if format == nil {
		format = func(v float64) string { return util.FormatNumber(int64(math.Round(v))) }
	}

	anyActive := false
	maxVal := 0.0
	labelWidth, valWidth := 0, 0
	labels := make([]string, len(pts))
	values := make([]string, len(pts))
	for i, p := range pts {
		anyActive = anyActive || p.Active
		if p.Value > maxVal {
			maxVal = p.Value
		}
		labels[i] = truncate(p.Label, opts.MaxLabel)
		values[i] = format(p.Value)
		labelWidth = max(labelWidth, utf8.RuneCountInString(labels[i]))
		valWidth = max(valWidth, len(values[i]))
	}

	// marker(2) + label + 2 + value + 2
	barAreaWidth := totalWidth - labelWidth - valWidth - 6
	if barAreaWidth < 4 {
		barAreaWidth = 4
	}
	if maxVal == 0 {
		maxVal = 1
	}

	if title != "" {
		fmt.Fprintln(w, title)
	}
	for i, p := range pts {
		barLen := 0
		if p.Value > 0 {
			barLen = int(math.Round(p.Value / maxVal * float64(barAreaWidth)))
			barLen = min(max(barLen, 1), barAreaWidth)
		}
		glyph, marker := "█", "  "
		switch {
		case p.Active:
			marker = "▶ "
		case anyActive:
			glyph = "░"
		}
		pad := labelWidth - utf8.RuneCountInString(labels[i])
		fmt.Fprintf(w, "%s%s%s  %*s  %s\n",
			marker,
			labels[i], strings.Repeat(" ", pad),
			valWidth, values[i],
			strings.Repeat(glyph, barLen),
		)
	}
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// ─── Plot ─────────────────────────────────────────────────────────────────────

// PlotOptions controls line chart rendering.
type PlotOptions struct {
	// Width is the total character width of the chart (including Y-axis label).
	// If 0, auto-detects from $COLUMNS, falls back to 80.
	Width int
	// Height is the number of data rows in the chart body (not counting axis labels).
	// If 0, defaults to 12.
	Height int
}

// Plot renders a line chart of pts to w. Points are plotted in order and
// their labels mark the x axis. A point flagged Active is marked beneath the
// axis.
func Plot(w io.Writer, title string, pts []Point, opts PlotOptions) error {
	if len(pts) < 2 {
		return fmt.Errorf("chart plot: need at least 2 points (got %d)", len(pts))
	}
	width := opts.Width
	if width <= 0 {
		width = termWidth()
	}
	height := opts.Height
	if height <= 0 {
		height = 12
	}

	minVal, maxVal := pts[0].Value, pts[0].Value
	for _, p := range pts[1:] {
		minVal = math.Min(minVal, p.Value)
		maxVal = math.Max(maxVal, p.Value)
	}

	ticks := yTicks(minVal, maxVal, height)
	yLabelWidth := 0
	for _, t := range ticks {
		yLabelWidth = max(yLabelWidth, len(formatFloat(t)))
	}
	plotWidth := width - yLabelWidth - 2
	if plotWidth < 10 {
		plotWidth = 10
	}

	cols := sampleCols(pts, plotWidth)
	grid := buildGrid(cols, minVal, maxVal, height)

	fmt.Fprintf(w, "%s  (%s to %s)\n", title, pts[0].Label, pts[len(pts)-1].Label)
	for row := 0; row < height; row++ {
		label := ""
		for _, t := range ticks {
			if math.Abs(rowForValue(t, minVal, maxVal, height)-float64(row)) < 0.5 {
				label = formatFloat(t)
				break
			}
		}
		axisCh := "┤"
		if label == "" {
			axisCh = " "
		}
		fmt.Fprintf(w, "%*s%s%s\n", yLabelWidth, label, axisCh, string(grid[row]))
	}
	fmt.Fprintf(w, "%s└%s\n", strings.Repeat(" ", yLabelWidth), strings.Repeat("─", plotWidth))
	fmt.Fprintf(w, "%s %s\n", strings.Repeat(" ", yLabelWidth), xAxisLabels(pts, plotWidth))
	if marks := activeMarks(pts, plotWidth); marks != "" {
		fmt.Fprintf(w, "%s %s\n", strings.Repeat(" ", yLabelWidth), marks)
	}
	return nil
}

// ─── Grid building ────────────────────────────────────────────────────────────

// colOf maps point index i of n onto a column in [0, width).
func colOf(i, n, width int) int {
	if n <= 1 {
		return 0
	}
	return i * (width - 1) / (n - 1)
}

// sampleCols spreads pts across width columns, linearly interpolating
// between neighbouring points.
func sampleCols(pts []Point, width int) []float64 {
	cols := make([]float64, width)
	n := len(pts)
	for c := 0; c < width; c++ {
		pos := float64(c) * float64(n-1) / float64(width-1)
		lo := int(math.Floor(pos))
		if lo >= n-1 {
			cols[c] = pts[n-1].Value
			continue
		}
		frac := pos - float64(lo)
		cols[c] = pts[lo].Value*(1-frac) + pts[lo+1].Value*frac
	}
	return cols
}

// rowForValue returns the float row index (0=top=max) for a given value.
func rowForValue(v, minVal, maxVal float64, height int) float64 {
	if maxVal == minVal {
		return float64(height) / 2
	}
	return (maxVal - v) / (maxVal - minVal) * float64(height-1)
}

// buildGrid renders columns into a height×width rune grid using
// box-drawing characters to connect adjacent values.
func buildGrid(cols []float64, minVal, maxVal float64, height int) [][]rune {
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", len(cols)))
	}

	rowOf := make([]int, len(cols))
	for col, v := range cols {
		r := int(math.Round(rowForValue(v, minVal, maxVal, height)))
		rowOf[col] = min(max(r, 0), height-1)
	}

	for col, r := range rowOf {
		prev, next := r, r
		if col > 0 {
			prev = rowOf[col-1]
		}
		if col < len(cols)-1 {
			next = rowOf[col+1]
		}
		switch {
		case prev == r && next == r:
			grid[r][col] = '─'
		case prev > r && next >= r:
			grid[r][col] = '╭' // arriving from below
		case prev < r && next <= r:
			grid[r][col] = '╮'
		case prev == r && next < r:
			grid[r][col] = '╯'
		case prev == r && next > r:
			grid[r][col] = '╮'
		default:
			grid[r][col] = '─'
		}
		if col > 0 && prev != r {
			lo, hi := min(prev, r), max(prev, r)
			for fill := lo + 1; fill < hi; fill++ {
				if grid[fill][col] == ' ' {
					grid[fill][col] = '│'
				}
			}
		}
	}
	return grid
}

// ─── Axis helpers ─────────────────────────────────────────────────────────────

// yTicks returns 3–4 evenly-spaced tick values for the Y axis.
func yTicks(minVal, maxVal float64, height int) []float64 {
	if maxVal == minVal {
		return []float64{minVal}
	}
	nTicks := 4
	if height <= 6 {
		nTicks = 3
	}
	ticks := make([]float64, nTicks)
	for i := 0; i < nTicks; i++ {
		ticks[i] = minVal + float64(i)*(maxVal-minVal)/float64(nTicks-1)
	}
	return ticks
}

// xAxisLabels places the first, middle and last point labels under the axis.
func xAxisLabels(pts []Point, plotWidth int) string {
	buf := []rune(strings.Repeat(" ", plotWidth))
	writeAt := func(pos int, s string) {
		for i, ch := range []rune(s) {
			if pos+i >= 0 && pos+i < len(buf) {
				buf[pos+i] = ch
			}
		}
	}
	first, mid, last := pts[0].Label, pts[len(pts)/2].Label, pts[len(pts)-1].Label
	writeAt(0, first)
	writeAt(plotWidth/2-utf8.RuneCountInString(mid)/2, mid)
	writeAt(plotWidth-utf8.RuneCountInString(last), last)
	return string(buf)
}

// activeMarks returns a line with ▲ under every active point, or "".
func activeMarks(pts []Point, plotWidth int) string {
	buf := []rune(strings.Repeat(" ", plotWidth))
	found := false
	for i, p := range pts {
		if p.Active {
			buf[colOf(i, len(pts), plotWidth)] = '▲'
			found = true
		}
	}
	if !found {
		return ""
	}
	return strings.TrimRight(string(buf), " ")
}

// ─── Utilities ────────────────────────────────────────────────────────────────

// formatFloat formats an axis label compactly.
func formatFloat(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs == 0:
		return "0"
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 2, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "K"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// termWidth returns the terminal width from $COLUMNS, defaulting to 80.
func termWidth() int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := strconv.Atoi(cols); err == nil && n > 20 {
			return n
		}
	}
	return 80
}
