package dashboard

import (
	"github.com/derickschaefer/streamify/internal/model"
)

// Filter returns snap with RecentStreams narrowed to the records that
// satisfy every drill-down set in s. All other fields are unchanged.
// The revenue category is not a predicate.
func Filter(snap model.Snapshot, s State) model.Snapshot {
	out := snap.Clone()
	out.RecentStreams = out.RecentStreams[:0]
	for _, rec := range snap.RecentStreams {
		if Matches(rec, s) {
			out.RecentStreams = append(out.RecentStreams, rec)
		}
	}
	return out
}

// Matches reports whether rec satisfies every drill-down set in s.
func Matches(rec model.StreamRecord, s State) bool {
	if artist, ok := s.Artist.Get(); ok && rec.Artist != artist {
		return false
	}
	if song, ok := s.Song.Get(); ok && rec.Song != song {
		return false
	}
	if w, ok := s.Window.Get(); ok {
		// Undated records never fall inside a window.
		if !rec.HasDate() || !w.Contains(rec.Date) {
			return false
		}
	}
	return true
}
