package model

// ─── Derived View Types ──────────────────────────────────────────────────────
//
// These are computed from a Snapshot for display. They carry display strings
// alongside the source values and never replace them.

// Card is one metric card on the dashboard overview.
type Card struct {
	Title     string  `json:"title"`
	Value     string  `json:"value"`
	Trend     float64 `json:"trend"`
	ShowTrend bool    `json:"show_trend"`
}

// Rising reports whether the card's trend is non-negative.
func (c Card) Rising() bool { return c.Trend >= 0 }

// RevenueShare is a revenue category with its share of total revenue.
type RevenueShare struct {
	Name    string  `json:"name"`
	Amount  int64   `json:"amount"`
	Percent float64 `json:"percent"`
	Active  bool    `json:"active"`
}

// StreamRow is a stream record plus its computed display strings.
type StreamRow struct {
	Record              StreamRecord `json:"record"`
	DailyStreamsText    string       `json:"daily_streams_text"`
	UniqueListenersText string       `json:"unique_listeners_text"`
	Rising              bool         `json:"rising"`
}

// StreamPage is one page of the recent streams table.
type StreamPage struct {
	Rows      []StreamRow `json:"rows"`
	Index     int         `json:"page_index"`
	Size      int         `json:"page_size"`
	PageCount int         `json:"page_count"`
	Total     int         `json:"total"`
	SortBy    string      `json:"sort_by,omitempty"`
	SortDesc  bool        `json:"sort_desc,omitempty"`
	CanPrev   bool        `json:"can_prev"`
	CanNext   bool        `json:"can_next"`
}

// GrowthSummary describes the user growth series at a glance.
type GrowthSummary struct {
	Points          int     `json:"points"`
	FirstMonth      string  `json:"first_month"`
	LastMonth       string  `json:"last_month"`
	TotalChange     int64   `json:"total_change"`
	TotalChangePct  float64 `json:"total_change_pct"`
	ActiveChange    int64   `json:"active_change"`
	ActiveChangePct float64 `json:"active_change_pct"`
	AvgMonthlyPct   float64 `json:"avg_monthly_pct"`
	ActiveRatio     float64 `json:"active_ratio"`
	SlopePerMonth   float64 `json:"slope_per_month"` // fitted total users per month
	R2              float64 `json:"r2"`
	Direction       string  `json:"direction"` // "up", "down", "flat"
}

// GrowthReport is the user growth series with its summary.
type GrowthReport struct {
	Points  []GrowthPoint `json:"points"`
	Summary GrowthSummary `json:"summary"`
}

// Selection is the display form of the active drill-down selections.
// Unset selections are empty.
type Selection struct {
	Artist          string `json:"artist,omitempty"`
	Song            string `json:"song,omitempty"`
	RevenueCategory string `json:"revenue_category,omitempty"`
	Window          string `json:"window,omitempty"`
}

// Empty reports whether no selection is active.
func (s Selection) Empty() bool { return s == Selection{} }

// Overview is the dashboard landing view for one range.
type Overview struct {
	Range     TimeRange      `json:"range"`
	Cards     []Card         `json:"cards"`
	Revenue   []RevenueShare `json:"revenue"`
	TopSongs  []TopSong      `json:"top_songs"`
	Selection Selection      `json:"selection"`
	Streams   int            `json:"streams"`
}

// Table is a generic header-and-rows payload for tabular reports.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}
