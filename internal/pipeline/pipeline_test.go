package pipeline_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/pipeline"
	"github.com/derickschaefer/streamify/internal/table"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// jsonl joins lines with newlines and appends a trailing newline.
func jsonl(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// ─── ReadStreams ──────────────────────────────────────────────────────────────

func TestReadStreamsBasic(t *testing.T) {
	in := jsonl(
		`{"id":1,"song":"vampire","artist":"Olivia Rodrigo","daily_streams":427000,"unique_listeners":355000,"trend":"+11.2%","date":"2024-01-28"}`,
		``,
		`// comment`,
		`{"id":2,"song":"Flowers","artist":"Miley Cyrus","daily_streams":265000,"unique_listeners":228000,"trend":"-5.5%"}`,
	)
	recs, err := pipeline.ReadStreams(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadStreams: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Song != "vampire" || recs[0].DailyStreams != 427000 {
		t.Errorf("record 0: %+v", recs[0])
	}
	if !recs[0].Date.Equal(time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date: %s", recs[0].Date)
	}
	if recs[1].HasDate() {
		t.Error("record without date should be undated")
	}
}

func TestReadStreamsAcceptsDisplayRows(t *testing.T) {
	page := table.Paginate([]model.StreamRecord{{ID: 7, Song: "Kill Bill", Artist: "SZA", Trend: "+8.5%"}}, 10, 0)
	var buf bytes.Buffer
	for _, r := range page.Rows {
		b, _ := json.Marshal(r)
		buf.Write(append(b, '\n'))
	}
	recs, err := pipeline.ReadStreams(&buf)
	if err != nil {
		t.Fatalf("ReadStreams: %v", err)
	}
	if recs[0].ID != 7 || recs[0].Artist != "SZA" {
		t.Fatalf("got %+v", recs[0])
	}
}

func TestReadStreamsErrors(t *testing.T) {
	cases := map[string]string{
		"bad json":   `{"id":1,`,
		"bad date":   `{"id":1,"song":"x","date":"Jan 4"}`,
		"no content": `{"id":1}`,
		"empty":      ``,
	}
	for name, in := range cases {
		if _, err := pipeline.ReadStreams(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestReadStreamsErrorHasLineNumber(t *testing.T) {
	in := jsonl(`{"id":1,"song":"a"}`, `{"id":2,"song":"b","date":"nope"}`)
	_, err := pipeline.ReadStreams(strings.NewReader(in))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line 2 in error, got %v", err)
	}
}

// ─── WriteStreams ─────────────────────────────────────────────────────────────

func TestWriteThenReadStreams(t *testing.T) {
	recs := []model.StreamRecord{
		{ID: 1, Song: "Cruel Summer", Artist: "Taylor Swift", DailyStreams: 466000, Trend: "+12.5%", Date: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Song: "As It Was", Artist: "Harry Styles", Trend: "-2.8%"},
	}
	var buf bytes.Buffer
	if err := pipeline.WriteStreams(&buf, model.Range30d, recs); err != nil {
		t.Fatal(err)
	}
	lines := nonEmptyLines(buf.String())
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"range":"30d"`) || !strings.Contains(lines[0], `"date":"2024-01-31"`) {
		t.Errorf("line 0: %s", lines[0])
	}
	if strings.Contains(lines[1], `"date"`) {
		t.Errorf("undated record should omit date: %s", lines[1])
	}
	back, err := pipeline.ReadStreams(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back[0] != recs[0] || back[1] != recs[1] {
		t.Fatalf("pipe changed records: %+v", back)
	}
}
