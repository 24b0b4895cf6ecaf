package table_test

import (
	"fmt"
	"testing"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/table"
)

func benchRecords(n int) []model.StreamRecord {
	out := make([]model.StreamRecord, n)
	for i := range out {
		out[i] = model.StreamRecord{
			ID:              i,
			Song:            fmt.Sprintf("Song %d", i),
			Artist:          fmt.Sprintf("Artist %d", i%50),
			DailyStreams:    int64((i * 7919) % 500000),
			UniqueListeners: int64((i * 104729) % 400000),
			Trend:           fmt.Sprintf("%+.1f%%", float64(i%40)-20),
		}
	}
	return out
}

// ─── View.Render ──────────────────────────────────────────────────────────────
// Filter → sort → paginate runs on every table interaction.

func BenchmarkViewRender(b *testing.B) {
	recs := benchRecords(10000)
	cases := []struct {
		name  string
		query table.Query
		sort  table.SortState
	}{
		{"passthrough", table.Query{}, table.SortState{}},
		{"search", table.Query{Global: "artist 4"}, table.SortState{}},
		{"sort trend", table.Query{}, table.SortState{Column: table.ColTrend, Desc: true}},
		{"search+sort", table.Query{Global: "song 1", Artist: "artist"}, table.SortState{Column: table.ColDailyStreams}},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			v := table.NewView()
			v.SetQuery(c.query)
			v.SetSort(c.sort)
			b.ReportAllocs()
			for b.Loop() {
				v.Render(recs)
			}
		})
	}
}
