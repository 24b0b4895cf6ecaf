package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/derickschaefer/streamify/internal/model"
)

var errNoSource = errors.New("no snapshot source configured")

// Lookup serves per-range snapshots with default-range fallback.
// *dataset.Dataset satisfies it.
type Lookup interface {
	Snapshot(r model.TimeRange) model.Snapshot
}

// Fetcher performs the simulated remote fetch. *source.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, r model.TimeRange) (model.Snapshot, error)
}

// Container holds the state of one dashboard session. It is safe for
// concurrent use; all fields are replaced whole under mu.
type Container struct {
	mu      sync.Mutex
	id      uuid.UUID
	lookup  Lookup
	fetcher Fetcher
	logger  *slog.Logger

	state    State
	loaded   *model.Snapshot
	inflight int
	token    uint64 // last issued fetch token
}

// New creates a session in the default state. fetcher may be nil, in which
// case FetchSnapshot serves lookups directly. A nil logger uses slog.Default.
func New(lookup Lookup, fetcher Fetcher, logger *slog.Logger) *Container {
	id := uuid.New()
	if logger == nil {
		logger = slog.Default()
	}
	return &Container{
		id:      id,
		lookup:  lookup,
		fetcher: fetcher,
		logger:  logger.With("session", id.String()),
		state:   NewState(),
	}
}

// ID returns the session identifier used in log records.
func (c *Container) ID() string {
	return c.id.String()
}

// State returns a copy of the current selection state.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies a to the current state and returns the new state.
func (c *Container) Dispatch(a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, a)
	return c.state
}

// SetTimeRange selects r. An unknown range keeps the previous selection.
func (c *Container) SetTimeRange(r string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := model.ParseTimeRange(r); err != nil {
		c.logger.Debug("ignoring time range", "range", r, "keep", c.state.Range)
		return
	}
	c.state = Reduce(c.state, SetRange{Range: r})
}

// SetActiveArtist toggles the artist drill-down; "" clears it.
func (c *Container) SetActiveArtist(name string) { c.Dispatch(ToggleArtist{Name: name}) }

// SetActiveSong toggles the song drill-down; "" clears it.
func (c *Container) SetActiveSong(name string) { c.Dispatch(ToggleSong{Name: name}) }

// SetActiveRevenueCategory toggles the highlighted revenue category; "" clears it.
func (c *Container) SetActiveRevenueCategory(name string) {
	c.Dispatch(ToggleRevenueCategory{Name: name})
}

// SetFocusedTimeWindow toggles the focused window; nil clears it.
func (c *Container) SetFocusedTimeWindow(w *model.TimeWindow) { c.Dispatch(ToggleWindow{Window: w}) }

// SelectSong selects a top-songs entry (song and artist together).
func (c *Container) SelectSong(song, artist string) {
	c.Dispatch(SelectSong{Song: song, Artist: artist})
}

// CurrentSnapshot returns the snapshot for the active range. It is a pure
// lookup and safe to call repeatedly.
func (c *Container) CurrentSnapshot() model.Snapshot {
	r := c.State().Range
	if c.lookup == nil {
		return model.Snapshot{Range: r}
	}
	return c.lookup.Snapshot(r)
}

// FilteredSnapshot returns the current snapshot with RecentStreams narrowed
// by every active drill-down. ok is false when no snapshot is available.
func (c *Container) FilteredSnapshot() (snap model.Snapshot, ok bool) {
	if c.lookup == nil {
		return model.Snapshot{}, false
	}
	s := c.State()
	return Filter(c.lookup.Snapshot(s.Range), s), true
}

// IsLoading reports whether any fetch is in flight.
func (c *Container) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Loaded returns the last applied fetch result, if any.
func (c *Container) Loaded() (model.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded == nil {
		return model.Snapshot{}, false
	}
	return c.loaded.Clone(), true
}

// FetchSnapshot simulates loading r from the remote backend. It never
// fails: on error the default-range snapshot is used and a warning logged.
// The result is applied only if no newer fetch was started meanwhile; the
// returned snapshot is this call's own result either way.
func (c *Container) FetchSnapshot(ctx context.Context, r model.TimeRange) model.Snapshot {
	c.mu.Lock()
	c.token++
	tok := c.token
	c.inflight++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
	}()

	snap, err := c.fetch(ctx, r)
	if err != nil {
		c.logger.Warn("snapshot fetch failed, using default data",
			"range", r, "token", tok, "error", err)
		snap = c.fallback()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if tok == c.token {
		c.loaded = &snap
	} else {
		c.logger.Debug("discarding stale snapshot", "range", r, "token", tok, "latest", c.token)
	}
	return snap.Clone()
}

func (c *Container) fetch(ctx context.Context, r model.TimeRange) (model.Snapshot, error) {
	if c.fetcher == nil {
		if err := ctx.Err(); err != nil {
			return model.Snapshot{}, err
		}
		if c.lookup == nil {
			return model.Snapshot{}, errNoSource
		}
		return c.lookup.Snapshot(r), nil
	}
	return c.fetcher.Fetch(ctx, r)
}

func (c *Container) fallback() model.Snapshot {
	if c.lookup == nil {
		return model.Snapshot{Range: model.DefaultRange}
	}
	return c.lookup.Snapshot(model.DefaultRange)
}
