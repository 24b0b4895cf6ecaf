// Package model defines the canonical data types used throughout streamify.
// These types are the single source of truth for the dashboard dataset and
// the result envelope that every command returns.
package model

import (
	"fmt"
	"strings"
	"time"
)

// ─── Time Ranges ──────────────────────────────────────────────────────────────

// TimeRange selects which pre-computed dataset snapshot is active.
type TimeRange string

const (
	Range7d   TimeRange = "7d"
	Range30d  TimeRange = "30d"
	Range90d  TimeRange = "90d"
	RangeYear TimeRange = "year"

	// DefaultRange is used on every new session and as the fallback for
	// any lookup whose range is missing from the dataset.
	DefaultRange = Range30d
)

// Ranges lists every supported range in selector order.
var Ranges = []TimeRange{Range7d, Range30d, Range90d, RangeYear}

// rangeLabels are the selector labels shown next to each range.
var rangeLabels = map[TimeRange]string{
	Range7d:   "Last 7 days",
	Range30d:  "Last 30 days",
	Range90d:  "Last 90 days",
	RangeYear: "This year",
}

// ParseTimeRange validates s against the supported ranges.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseTimeRange(s string) (TimeRange, error) {
	r := TimeRange(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rangeLabels[r]; !ok {
		return "", fmt.Errorf("unknown time range %q (valid: 7d, 30d, 90d, year)", s)
	}
	return r, nil
}

// Valid reports whether r is one of the supported ranges.
func (r TimeRange) Valid() bool {
	_, ok := rangeLabels[r]
	return ok
}

// Label returns the human-readable selector label, or the raw value for
// unknown ranges.
func (r TimeRange) Label() string {
	if l, ok := rangeLabels[r]; ok {
		return l
	}
	return string(r)
}

// ─── Dashboard Entities ───────────────────────────────────────────────────────

// Metrics holds the aggregate counters shown on the metric cards.
type Metrics struct {
	TotalUsers    int64   `json:"total_users"`
	ActiveUsers   int64   `json:"active_users"`
	TotalStreams  int64   `json:"total_streams"`
	Revenue       int64   `json:"revenue"`
	TopArtist     string  `json:"top_artist"`
	UserGrowth    float64 `json:"user_growth"`
	RevenueGrowth float64 `json:"revenue_growth"`
	StreamGrowth  float64 `json:"stream_growth"`
}

// RevenueSlice is one category of the revenue distribution.
type RevenueSlice struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Color  string `json:"color,omitempty"`
}

// TopSong is one entry in the ranked top-songs list.
type TopSong struct {
	Name    string `json:"name"`
	Artist  string `json:"artist"`
	Streams int64  `json:"streams"`
}

// StreamRecord is a single row of the recent streams table.
// ID is unique within one range's collection only.
// Date is the zero time when the record carries no date.
type StreamRecord struct {
	ID              int       `json:"id"`
	Song            string    `json:"song"`
	Artist          string    `json:"artist"`
	DailyStreams    int64     `json:"daily_streams"`
	UniqueListeners int64     `json:"unique_listeners"`
	Trend           string    `json:"trend"`
	Date            time.Time `json:"date,omitzero"`
}

// Rising reports whether the trend string carries a non-negative sign.
// Only the sign is meaningful; the magnitude is display text.
func (s StreamRecord) Rising() bool {
	return !strings.HasPrefix(strings.TrimSpace(s.Trend), "-")
}

// HasDate reports whether the record is associated with a date.
func (s StreamRecord) HasDate() bool {
	return !s.Date.IsZero()
}

// GrowthPoint is one month of the user growth series.
type GrowthPoint struct {
	Month       string `json:"month"`
	TotalUsers  int64  `json:"total_users"`
	ActiveUsers int64  `json:"active_users"`
}

// TimeWindow is a focused sub-interval of time, inclusive at both ends.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Contains reports whether t lies within [Start, End].
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Snapshot bundles everything the dashboard shows for one range.
type Snapshot struct {
	Range               TimeRange      `json:"range"`
	Metrics             Metrics        `json:"metrics"`
	RevenueDistribution []RevenueSlice `json:"revenue_distribution"`
	TopSongs            []TopSong      `json:"top_songs"`
	RecentStreams       []StreamRecord `json:"recent_streams"`
	UserGrowth          []GrowthPoint  `json:"user_growth"`
}

// Clone returns a deep copy so callers can never alias dataset slices.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.RevenueDistribution = append([]RevenueSlice(nil), s.RevenueDistribution...)
	out.TopSongs = append([]TopSong(nil), s.TopSongs...)
	out.RecentStreams = append([]StreamRecord(nil), s.RecentStreams...)
	out.UserGrowth = append([]GrowthPoint(nil), s.UserGrowth...)
	return out
}

// ─── Result Envelope ─────────────────────────────────────────────────────────

// ResultStats carries timing and source metadata for a command result.
type ResultStats struct {
	Source     string `json:"source"`
	DurationMs int64  `json:"duration_ms"`
	Items      int    `json:"items"`
}

// Result is the uniform envelope returned by every command.
// The Data field holds the typed payload; Kind identifies what is in it.
// Renderers switch on Kind to format output appropriately.
type Result struct {
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Command     string      `json:"command"`
	Range       TimeRange   `json:"range,omitempty"`
	Data        interface{} `json:"data"`
	Warnings    []string    `json:"warnings,omitempty"`
	Stats       ResultStats `json:"stats"`
}

// Kind constants for Result.Kind.
const (
	KindCards    = "cards"
	KindRevenue  = "revenue"
	KindTopSongs = "top_songs"
	KindStreams  = "streams"
	KindGrowth   = "growth"
	KindSnapshot = "snapshot"
	KindTable    = "table"
)
