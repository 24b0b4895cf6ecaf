// Package table is the view model behind the recent streams table: text
// filtering, single-column stable sort and fixed-size pagination over the
// filtered stream records. Source records are never modified; display
// strings are computed alongside them.
package table

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/util"
)

// ─── Columns ──────────────────────────────────────────────────────────────────

// Column identifies a sortable table column.
type Column string

const (
	ColSong            Column = "song"
	ColArtist          Column = "artist"
	ColDailyStreams    Column = "daily_streams"
	ColUniqueListeners Column = "unique_listeners"
	ColTrend           Column = "trend"
)

// Columns lists the sortable columns in display order.
var Columns = []Column{ColSong, ColArtist, ColDailyStreams, ColUniqueListeners, ColTrend}

var columnAliases = map[string]Column{
	"song":             ColSong,
	"artist":           ColArtist,
	"daily_streams":    ColDailyStreams,
	"streams":          ColDailyStreams,
	"daily":            ColDailyStreams,
	"unique_listeners": ColUniqueListeners,
	"listeners":        ColUniqueListeners,
	"trend":            ColTrend,
}

// ParseColumn resolves a column name. Hyphens and underscores are
// interchangeable and matching is case-insensitive.
func ParseColumn(s string) (Column, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if c, ok := columnAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown column %q (valid: song, artist, daily_streams, unique_listeners, trend)", s)
}

// ─── Text Filters ─────────────────────────────────────────────────────────────

// Query holds the table's text filters. Empty fields impose no constraint.
type Query struct {
	Global string
	Artist string
	Song   string
}

// Empty reports whether q imposes no constraint.
func (q Query) Empty() bool {
	return q.Global == "" && q.Artist == "" && q.Song == ""
}

// ApplyTextFilters returns the records matching every non-empty field of q,
// case-insensitively by substring. Global matches any column's text.
// The input slice is not modified.
func ApplyTextFilters(recs []model.StreamRecord, q Query) []model.StreamRecord {
	global := strings.ToLower(q.Global)
	artist := strings.ToLower(q.Artist)
	song := strings.ToLower(q.Song)

	out := make([]model.StreamRecord, 0, len(recs))
	for _, r := range recs {
		if artist != "" && !strings.Contains(strings.ToLower(r.Artist), artist) {
			continue
		}
		if song != "" && !strings.Contains(strings.ToLower(r.Song), song) {
			continue
		}
		if global != "" && !matchesAny(r, global) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesAny(r model.StreamRecord, needle string) bool {
	fields := [...]string{
		strconv.Itoa(r.ID),
		r.Song,
		r.Artist,
		strconv.FormatInt(r.DailyStreams, 10),
		strconv.FormatInt(r.UniqueListeners, 10),
		r.Trend,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// ─── Sorting ──────────────────────────────────────────────────────────────────

// SortState is the active sort. The zero value means insertion order.
type SortState struct {
	Column Column
	Desc   bool
}

// Active reports whether a column sort is applied.
func (s SortState) Active() bool { return s.Column != "" }

// Toggle returns the sort after activating col's header: a new column sorts
// ascending, the active column flips direction.
func (s SortState) Toggle(col Column) SortState {
	if s.Column == col {
		return SortState{Column: col, Desc: !s.Desc}
	}
	return SortState{Column: col}
}

// Clear returns the default insertion-order sort.
func (s SortState) Clear() SortState { return SortState{} }

// SortRows returns a stably sorted copy of recs. Equal keys keep their
// relative order. Trend sorts by its numeric percentage; unparsable trends
// sort before every number.
func SortRows(recs []model.StreamRecord, s SortState) []model.StreamRecord {
	out := append([]model.StreamRecord(nil), recs...)
	if !s.Active() {
		return out
	}
	less := lessFunc(s.Column)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if s.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(c Column) func(a, b model.StreamRecord) bool {
	switch c {
	case ColSong:
		return func(a, b model.StreamRecord) bool { return a.Song < b.Song }
	case ColArtist:
		return func(a, b model.StreamRecord) bool { return a.Artist < b.Artist }
	case ColDailyStreams:
		return func(a, b model.StreamRecord) bool { return a.DailyStreams < b.DailyStreams }
	case ColUniqueListeners:
		return func(a, b model.StreamRecord) bool { return a.UniqueListeners < b.UniqueListeners }
	case ColTrend:
		return func(a, b model.StreamRecord) bool { return trendKey(a) < trendKey(b) }
	}
	return nil
}

func trendKey(r model.StreamRecord) float64 {
	v, ok := util.ParseTrend(r.Trend)
	if !ok {
		return math.Inf(-1)
	}
	return v
}

// ─── Pagination ───────────────────────────────────────────────────────────────

// PageSizes are the selectable page sizes.
var PageSizes = []int{10, 20, 30, 50}

// DefaultPageSize is the initial page size.
const DefaultPageSize = 10

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, p := range PageSizes {
		if p == n {
			return true
		}
	}
	return false
}

// PageCount returns ceil(total/size), or 0 when there are no rows.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Paginate returns page index of recs. An index past the last page clamps to
// the last page and a negative index to the first. A non-positive size uses
// DefaultPageSize.
func Paginate(recs []model.StreamRecord, size, index int) model.StreamPage {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(recs)
	pages := PageCount(total, size)
	if index >= pages {
		index = pages - 1
	}
	if index < 0 {
		index = 0
	}

	page := model.StreamPage{
		Index:     index,
		Size:      size,
		PageCount: pages,
		Total:     total,
		CanPrev:   index > 0,
		CanNext:   index < pages-1,
	}
	if total == 0 {
		page.Rows = []model.StreamRow{}
		return page
	}
	lo := index * size
	hi := min(lo+size, total)
	page.Rows = Decorate(recs[lo:hi])
	return page
}

// Decorate computes the display strings for recs.
func Decorate(recs []model.StreamRecord) []model.StreamRow {
	rows := make([]model.StreamRow, len(recs))
	for i, r := range recs {
		rows[i] = model.StreamRow{
			Record:              r,
			DailyStreamsText:    util.FormatNumber(r.DailyStreams),
			UniqueListenersText: util.FormatNumber(r.UniqueListeners),
			Rising:              r.Rising(),
		}
	}
	return rows
}

// ─── View ─────────────────────────────────────────────────────────────────────

// View is the stateful table: query, sort, page size and page index
// persist across renders of changing input rows.
type View struct {
	query     Query
	sort      SortState
	pageSize  int
	pageIndex int
	lastTotal int
}

// NewView returns a view with no filters, insertion order and the default
// page size.
func NewView() *View {
	return &View{pageSize: DefaultPageSize, lastTotal: -1}
}

// Query returns the active text filters.
func (v *View) Query() Query { return v.query }

// Sort returns the active sort.
func (v *View) Sort() SortState { return v.sort }

// PageSize returns the active page size.
func (v *View) PageSize() int { return v.pageSize }

// PageIndex returns the requested page index.
func (v *View) PageIndex() int { return v.pageIndex }

// SetQuery replaces the text filters.
func (v *View) SetQuery(q Query) { v.query = q }

// ToggleSort activates col's header.
func (v *View) ToggleSort(col Column) { v.sort = v.sort.Toggle(col) }

// SetSort replaces the sort outright.
func (v *View) SetSort(s SortState) { v.sort = s }

// ClearSort restores insertion order.
func (v *View) ClearSort() { v.sort = v.sort.Clear() }

// SetPageSize changes the page size and returns to the first page.
func (v *View) SetPageSize(n int) error {
	if !ValidPageSize(n) {
		return fmt.Errorf("invalid page size %d (valid: 10, 20, 30, 50)", n)
	}
	v.pageSize = n
	v.pageIndex = 0
	return nil
}

// SetPage requests a page index; Render clamps it.
func (v *View) SetPage(i int) { v.pageIndex = i }

// Next advances one page; Render clamps past the end.
func (v *View) Next() { v.pageIndex++ }

// Prev goes back one page, stopping at the first.
func (v *View) Prev() {
	if v.pageIndex > 0 {
		v.pageIndex--
	}
}

// Render runs the filter, sort and paginate pipeline over recs. When the
// filtered row count changes since the previous render and the requested
// page no longer exists, the index resets to the first page. Otherwise an
// index past the end clamps to the last page.
func (v *View) Render(recs []model.StreamRecord) model.StreamPage {
	rows := SortRows(ApplyTextFilters(recs, v.query), v.sort)
	total := len(rows)
	if v.lastTotal >= 0 && total != v.lastTotal && v.pageIndex >= PageCount(total, v.pageSize) {
		v.pageIndex = 0
	}
	v.lastTotal = total

	page := Paginate(rows, v.pageSize, v.pageIndex)
	v.pageIndex = page.Index
	page.SortBy = string(v.sort.Column)
	page.SortDesc = v.sort.Desc
	return page
}
