// Package pipeline reads and writes stream record JSONL via stdin/stdout,
// the canonical pipe format between streamify commands.
package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/util"
)

// row is the wire form of one stream record. Dates travel as YYYY-MM-DD.
type row struct {
	Range           string `json:"range,omitempty"`
	ID              int    `json:"id"`
	Song            string `json:"song"`
	Artist          string `json:"artist"`
	DailyStreams    int64  `json:"daily_streams"`
	UniqueListeners int64  `json:"unique_listeners"`
	Trend           string `json:"trend"`
	Date            string `json:"date,omitempty"`
}

// ReadStreams reads JSONL stream records from r. Blank lines and lines
// starting with "//" are skipped. Lines emitted by `streams list --format
// jsonl` (display rows wrapping a "record") are accepted too.
func ReadStreams(r io.Reader) ([]model.StreamRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var recs []model.StreamRecord
	lineNum := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNum++
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		var wrapped struct {
			Record *json.RawMessage `json:"record"`
		}
		data := []byte(line)
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		if wrapped.Record != nil {
			data = *wrapped.Record
		}

		var rec row
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid record: %w", lineNum, err)
		}
		if rec.Song == "" && rec.Artist == "" {
			return nil, fmt.Errorf("line %d: record has neither song nor artist", lineNum)
		}

		out := model.StreamRecord{
			ID:              rec.ID,
			Song:            rec.Song,
			Artist:          rec.Artist,
			DailyStreams:    rec.DailyStreams,
			UniqueListeners: rec.UniqueListeners,
			Trend:           rec.Trend,
		}
		if rec.Date != "" {
			d, err := parseDate(rec.Date)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			out.Date = d
		}
		recs = append(recs, out)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no stream records read from input (is stdin empty?)")
	}
	return recs, nil
}

// WriteStreams writes recs as JSONL to w, tagging each line with r when
// r is non-empty.
func WriteStreams(w io.Writer, r model.TimeRange, recs []model.StreamRecord) error {
	enc := json.NewEncoder(w)
	for _, s := range recs {
		if err := enc.Encode(row{
			Range:           string(r),
			ID:              s.ID,
			Song:            s.Song,
			Artist:          s.Artist,
			DailyStreams:    s.DailyStreams,
			UniqueListeners: s.UniqueListeners,
			Trend:           s.Trend,
			Date:            util.FormatDate(s.Date),
		}); err != nil {
			return err
		}
	}
	return nil
}

// IsTTY returns true if stdout is a terminal (not a pipe).
func IsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// StdinIsPipe returns true if stdin is redirected from a pipe or file.
func StdinIsPipe() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) == 0
}

// parseDate accepts YYYY-MM-DD and full RFC 3339 timestamps.
func parseDate(s string) (t time.Time, err error) {
	if t, err = util.ParseDate(s); err == nil {
		return t, nil
	}
	if t, err2 := time.Parse(time.RFC3339, s); err2 == nil {
		return t.UTC(), nil
	}
	return time.Time{}, err
}
