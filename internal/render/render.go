// Package render converts Result values into human-readable or machine-parseable
// output. Every Kind is first reduced to sections of header and rows; the
// table, CSV/TSV and Markdown writers share that reduction, while JSON and
// JSONL encode the typed payload directly.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/util"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatMD    = "md"
)

// Formats lists every supported output format.
var Formats = []string{FormatTable, FormatJSON, FormatJSONL, FormatCSV, FormatTSV, FormatMD}

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatJSONL:
		return renderJSONL(w, result)
	case FormatCSV:
		return renderDelimited(w, result, ',')
	case FormatTSV:
		return renderDelimited(w, result, '\t')
	case FormatMD:
		return renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

// RenderTo writes to stdout by default; if path is non-empty, writes to file.
func RenderTo(path string, result *model.Result, format string) error {
	if path == "" {
		return Render(os.Stdout, result, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return Render(f, result, format)
}

// ─── Sections ─────────────────────────────────────────────────────────────────

// section is one titled block of tabular output.
type section struct {
	Title  string
	Header []string
	Rows   [][]string
	Right  []bool // right-align column i
	Footer string
}

// sections reduces a result to its tabular form. ok is false for payloads
// that have no tabular form.
func sections(result *model.Result) (out []section, ok bool) {
	switch data := result.Data.(type) {
	case []model.Card:
		return []section{cardsSection(data)}, true
	case []model.RevenueShare:
		return []section{revenueSection(data)}, true
	case []model.TopSong:
		return []section{topSongsSection(data)}, true
	case model.StreamPage:
		return []section{streamsSection(data)}, true
	case *model.StreamPage:
		return []section{streamsSection(*data)}, true
	case []model.StreamRecord:
		return []section{recordsSection(data)}, true
	case model.GrowthReport:
		return growthSections(data), true
	case model.Overview:
		return overviewSections(data), true
	case model.Table:
		return []section{{Header: data.Header, Rows: data.Rows}}, true
	}
	return nil, false
}

func cardsSection(cards []model.Card) section {
	s := section{Title: "Metrics", Header: []string{"METRIC", "VALUE", "TREND"}, Right: []bool{false, true, true}}
	for _, c := range cards {
		trend := ""
		if c.ShowTrend {
			trend = util.FormatPercent(c.Trend)
		}
		s.Rows = append(s.Rows, []string{c.Title, c.Value, trend})
	}
	return s
}

func revenueSection(shares []model.RevenueShare) section {
	s := section{Title: "Revenue Distribution", Header: []string{"CATEGORY", "AMOUNT", "SHARE"}, Right: []bool{false, true, true}}
	for _, r := range shares {
		name := r.Name
		if r.Active {
			name = "▶ " + name
		}
		s.Rows = append(s.Rows, []string{name, util.FormatCurrency(r.Amount), strconv.FormatFloat(r.Percent, 'f', 1, 64) + "%"})
	}
	return s
}

func topSongsSection(songs []model.TopSong) section {
	s := section{Title: "Top Songs", Header: []string{"#", "SONG", "ARTIST", "STREAMS"}, Right: []bool{true, false, false, true}}
	for i, t := range songs {
		s.Rows = append(s.Rows, []string{strconv.Itoa(i + 1), t.Name, t.Artist, util.FormatNumber(t.Streams)})
	}
	return s
}

var streamHeader = []string{"ID", "SONG", "ARTIST", "DAILY STREAMS", "UNIQUE LISTENERS", "TREND", "DATE"}
var streamRight = []bool{true, false, false, true, true, true, false}

func streamCells(r model.StreamRecord, daily, unique string) []string {
	arrow := "▲"
	if !r.Rising() {
		arrow = "▼"
	}
	return []string{strconv.Itoa(r.ID), r.Song, r.Artist, daily, unique, arrow + " " + r.Trend, util.FormatDate(r.Date)}
}

func streamsSection(p model.StreamPage) section {
	s := section{Title: "Recent Streams", Header: streamHeader, Right: streamRight}
	for _, row := range p.Rows {
		s.Rows = append(s.Rows, streamCells(row.Record, row.DailyStreamsText, row.UniqueListenersText))
	}
	if p.PageCount == 0 {
		s.Footer = "No results."
		return s
	}
	s.Footer = fmt.Sprintf("Page %d of %d • %d rows • %d per page", p.Index+1, p.PageCount, p.Total, p.Size)
	if p.SortBy != "" {
		dir := "asc"
		if p.SortDesc {
			dir = "desc"
		}
		s.Footer += fmt.Sprintf(" • sorted by %s %s", p.SortBy, dir)
	}
	return s
}

func recordsSection(recs []model.StreamRecord) section {
	s := section{Title: "Recent Streams", Header: streamHeader, Right: streamRight}
	for _, r := range recs {
		s.Rows = append(s.Rows, streamCells(r, util.FormatNumber(r.DailyStreams), util.FormatNumber(r.UniqueListeners)))
	}
	return s
}

func growthSections(g model.GrowthReport) []section {
	pts := section{Title: "User Growth", Header: []string{"MONTH", "TOTAL USERS", "ACTIVE USERS"}, Right: []bool{false, true, true}}
	for _, p := range g.Points {
		pts.Rows = append(pts.Rows, []string{p.Month, util.FormatCount(p.TotalUsers), util.FormatCount(p.ActiveUsers)})
	}
	sum := g.Summary
	if sum.Points == 0 {
		return []section{pts}
	}
	summary := section{
		Title:  "Summary",
		Header: []string{"FIELD", "VALUE"},
		Rows: [][]string{
			{"Period", sum.FirstMonth + " → " + sum.LastMonth},
			{"Total users change", fmt.Sprintf("%s (%s)", util.FormatCount(sum.TotalChange), util.FormatPercent(sum.TotalChangePct))},
			{"Active users change", fmt.Sprintf("%s (%s)", util.FormatCount(sum.ActiveChange), util.FormatPercent(sum.ActiveChangePct))},
			{"Avg monthly growth", util.FormatPercent(sum.AvgMonthlyPct)},
			{"Active ratio", strconv.FormatFloat(sum.ActiveRatio*100, 'f', 1, 64) + "%"},
		},
	}
	return []section{pts, summary}
}

func overviewSections(o model.Overview) []section {
	out := []section{cardsSection(o.Cards), revenueSection(o.Revenue), topSongsSection(o.TopSongs)}
	out[0].Title = "Dashboard • " + o.Range.Label()
	if !o.Selection.Empty() {
		sel := section{Title: "Selections", Header: []string{"FILTER", "VALUE"}}
		for _, kv := range [][2]string{
			{"artist", o.Selection.Artist},
			{"song", o.Selection.Song},
			{"window", o.Selection.Window},
			{"revenue", o.Selection.RevenueCategory},
		} {
			if kv[1] != "" {
				sel.Rows = append(sel.Rows, []string{kv[0], kv[1]})
			}
		}
		sel.Footer = fmt.Sprintf("%d matching streams", o.Streams)
		out = append(out, sel)
	}
	return out
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ─── JSONL ────────────────────────────────────────────────────────────────────

// renderJSONL writes one JSON object per row for list payloads and the bare
// payload otherwise.
func renderJSONL(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	switch data := result.Data.(type) {
	case []model.StreamRecord:
		return encodeEach(enc, data)
	case model.StreamPage:
		return encodeEach(enc, data.Rows)
	case *model.StreamPage:
		return encodeEach(enc, data.Rows)
	case []model.TopSong:
		return encodeEach(enc, data)
	case []model.RevenueShare:
		return encodeEach(enc, data)
	case []model.Card:
		return encodeEach(enc, data)
	case model.GrowthReport:
		return encodeEach(enc, data.Points)
	default:
		return enc.Encode(result.Data)
	}
}

func encodeEach[T any](enc *json.Encoder, items []T) error {
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, result *model.Result) error {
	secs, ok := sections(result)
	if !ok {
		return renderJSON(w, result)
	}
	for i, s := range secs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if s.Title != "" {
			fmt.Fprintln(w, s.Title)
		}
		tw := tablewriter.NewWriter(w)
		tw.SetHeader(s.Header)
		tw.SetBorder(true)
		tw.SetRowLine(false)
		tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		tw.SetAlignment(tablewriter.ALIGN_LEFT)
		tw.SetAutoWrapText(false)
		if len(s.Right) == len(s.Header) {
			align := make([]int, len(s.Right))
			for j, r := range s.Right {
				align[j] = tablewriter.ALIGN_LEFT
				if r {
					align[j] = tablewriter.ALIGN_RIGHT
				}
			}
			tw.SetColumnAlignment(align)
		}
		tw.AppendBulk(s.Rows)
		tw.Render()
		if s.Footer != "" {
			fmt.Fprintln(w, s.Footer)
		}
	}
	return nil
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

// renderDelimited writes the first section only; multi-section payloads
// lead with their primary table.
func renderDelimited(w io.Writer, result *model.Result, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	secs, ok := sections(result)
	if !ok || len(secs) == 0 {
		b, _ := json.Marshal(result.Data)
		_ = cw.Write([]string{string(b)})
	} else {
		s := secs[0]
		header := make([]string, len(s.Header))
		for i, h := range s.Header {
			header[i] = strings.ToLower(strings.ReplaceAll(h, " ", "_"))
		}
		_ = cw.Write(header)
		for _, row := range s.Rows {
			_ = cw.Write(row)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ─── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, result *model.Result) error {
	secs, ok := sections(result)
	if !ok {
		return renderJSON(w, result)
	}
	for i, s := range secs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if s.Title != "" {
			fmt.Fprintf(w, "### %s\n\n", mdEscape(s.Title))
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(s.Header, " | "))
		seps := make([]string, len(s.Header))
		for j := range seps {
			seps[j] = "---"
			if j < len(s.Right) && s.Right[j] {
				seps[j] = "--:"
			}
		}
		fmt.Fprintf(w, "|%s|\n", strings.Join(seps, "|"))
		for _, row := range s.Rows {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = mdEscape(c)
			}
			fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
		}
		if s.Footer != "" {
			fmt.Fprintf(w, "\n_%s_\n", mdEscape(s.Footer))
		}
	}
	return nil
}

// ─── Warnings / Stats Footer ─────────────────────────────────────────────────

// PrintFooter writes warnings and stats to w when verbose mode is on.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		src := result.Stats.Source
		if src == "" {
			src = "memory"
		}
		fmt.Fprintf(w, "\n[%s • %d items • %dms • %s]\n",
			result.GeneratedAt.Format(time.RFC3339),
			result.Stats.Items,
			result.Stats.DurationMs,
			src,
		)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
