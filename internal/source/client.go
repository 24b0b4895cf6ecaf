// Package source implements the simulated remote fetch behind the dashboard.
// Every fetch waits on a shared rate limiter, sleeps for a fixed artificial
// delay, and then loads the snapshot from a Backend (the in-memory dataset or
// the bbolt snapshot store). All methods are context-aware.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/derickschaefer/streamify/internal/model"
)

const (
	// DefaultDelay matches the latency the dashboard has always simulated.
	DefaultDelay = 500 * time.Millisecond
	// DefaultConcurrency caps parallel fetches in FetchAll.
	DefaultConcurrency = 4
)

// Backend loads a snapshot for one range.
type Backend interface {
	Load(ctx context.Context, r model.TimeRange) (model.Snapshot, error)
	Name() string
}

// Client simulates a remote dashboard API on top of a Backend.
type Client struct {
	backend Backend
	delay   time.Duration
	limiter *rate.Limiter
	debug   bool
}

// NewClient creates a Client. A non-positive ratePerSec disables throttling.
func NewClient(backend Backend, delay time.Duration, ratePerSec float64, debug bool) *Client {
	limit := rate.Inf
	burst := 1
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
		burst = int(ratePerSec)
		if burst < 1 {
			burst = 1
		}
	}
	return &Client{
		backend: backend,
		delay:   delay,
		limiter: rate.NewLimiter(limit, burst),
		debug:   debug,
	}
}

// BackendName reports which backend serves fetches.
func (c *Client) BackendName() string {
	return c.backend.Name()
}

// Fetch returns the snapshot for r after the artificial delay.
func (c *Client) Fetch(ctx context.Context, r model.TimeRange) (model.Snapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.Snapshot{}, err
	}

	if c.debug {
		slog.Debug("snapshot request", "backend", c.backend.Name(), "range", r, "delay", c.delay)
	}

	if c.delay > 0 {
		select {
		case <-ctx.Done():
			return model.Snapshot{}, ctx.Err()
		case <-time.After(c.delay):
		}
	}

	snap, err := c.backend.Load(ctx, r)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("snapshot %s: %w", r, err)
	}

	if c.debug {
		slog.Debug("snapshot response", "range", snap.Range, "streams", len(snap.RecentStreams))
	}
	return snap, nil
}

// FetchAll fetches every range concurrently, at most concurrency at a time,
// and returns the snapshots in the order of ranges. The first error cancels
// the remaining fetches.
func (c *Client) FetchAll(ctx context.Context, ranges []model.TimeRange, concurrency int) ([]model.Snapshot, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	out := make([]model.Snapshot, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, r := range ranges {
		g.Go(func() error {
			snap, err := c.Fetch(gctx, r)
			if err != nil {
				return err
			}
			out[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
