// Package dashboard is the selection and filtering state container behind
// every dashboard view. It owns the active time range and the cross-widget
// drill-down selections, and derives the current and filtered snapshots so
// renderers never filter on their own.
//
// Every mutation is a pure function of (State, Action); Container wraps that
// reducer with locking, snapshot lookup and the simulated fetch.
package dashboard

import (
	"github.com/derickschaefer/streamify/internal/model"
)

// State is the selection state of one dashboard session.
type State struct {
	Range           model.TimeRange
	RevenueCategory Option[string]
	Artist          Option[string]
	Song            Option[string]
	Window          Option[model.TimeWindow]
}

// NewState returns the state every new session starts in.
func NewState() State {
	return State{Range: model.DefaultRange}
}

// Action is one state transition. The set of actions is closed.
type Action interface {
	apply(State) State
}

// Reduce returns the state that results from applying a to s.
// s itself is never modified.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

// SetRange selects a time range. Unknown ranges leave the state unchanged.
// Drill-down selections are kept.
type SetRange struct{ Range string }

func (a SetRange) apply(s State) State {
	r, err := model.ParseTimeRange(a.Range)
	if err != nil {
		return s
	}
	s.Range = r
	return s
}

// ToggleArtist toggles the artist drill-down. An empty name clears it.
type ToggleArtist struct{ Name string }

func (a ToggleArtist) apply(s State) State {
	s.Artist = toggleName(s.Artist, a.Name)
	return s
}

// ToggleSong toggles the song drill-down. An empty name clears it.
type ToggleSong struct{ Name string }

func (a ToggleSong) apply(s State) State {
	s.Song = toggleName(s.Song, a.Name)
	return s
}

// ToggleRevenueCategory toggles the highlighted revenue category.
// It only drives chart emphasis and never narrows the stream records.
type ToggleRevenueCategory struct{ Name string }

func (a ToggleRevenueCategory) apply(s State) State {
	s.RevenueCategory = toggleName(s.RevenueCategory, a.Name)
	return s
}

// ToggleWindow toggles the focused time window. A nil window clears it.
type ToggleWindow struct{ Window *model.TimeWindow }

func (a ToggleWindow) apply(s State) State {
	if a.Window == nil {
		s.Window = s.Window.Clear()
		return s
	}
	s.Window = s.Window.Toggle(*a.Window)
	return s
}

// SelectSong is a click on a top-songs entry: it selects the song and its
// artist together. Selecting the active song again clears both.
type SelectSong struct {
	Song   string
	Artist string
}

func (a SelectSong) apply(s State) State {
	if a.Song == "" || s.Song.Is(a.Song) {
		s.Song = s.Song.Clear()
		s.Artist = s.Artist.Clear()
		return s
	}
	s.Song = Some(a.Song)
	if a.Artist != "" {
		s.Artist = Some(a.Artist)
	}
	return s
}

// ClearSelections unsets every drill-down and the revenue category.
type ClearSelections struct{}

func (ClearSelections) apply(s State) State {
	return State{Range: s.Range}
}

func toggleName(o Option[string], name string) Option[string] {
	if name == "" {
		return o.Clear()
	}
	return o.Toggle(name)
}
