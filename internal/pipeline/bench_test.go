package pipeline_test

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/pipeline"
)

func benchRecords(n int) []model.StreamRecord {
	base := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	out := make([]model.StreamRecord, n)
	for i := range out {
		out[i] = model.StreamRecord{
			ID:              i + 1,
			Song:            fmt.Sprintf("Song %d", i),
			Artist:          fmt.Sprintf("Artist %d", i%50),
			DailyStreams:    int64(500000 - i),
			UniqueListeners: int64(400000 - i),
			Trend:           fmt.Sprintf("%+.1f%%", float64(i%40)-20),
			Date:            base.AddDate(0, 0, -i%365),
		}
	}
	return out
}

// ─── JSONL round trip ─────────────────────────────────────────────────────────
// WriteStreams → ReadStreams: the path behind `streams export | streams table`.

func BenchmarkStreamsRoundTrip(b *testing.B) {
	for _, n := range []int{10, 1000, 10000} {
		recs := benchRecords(n)
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				var buf bytes.Buffer
				if err := pipeline.WriteStreams(&buf, model.Range30d, recs); err != nil {
					b.Fatal(err)
				}
				b.SetBytes(int64(buf.Len()))
				got, err := pipeline.ReadStreams(&buf)
				if err != nil {
					b.Fatal(err)
				}
				if len(got) != n {
					b.Fatalf("read %d records, want %d", len(got), n)
				}
			}
		})
	}
}
