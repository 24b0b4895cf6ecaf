package source_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/derickschaefer/streamify/internal/dataset"
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/source"
)

type countingBackend struct {
	calls atomic.Int32
	fail  model.TimeRange
}

func (b *countingBackend) Load(_ context.Context, r model.TimeRange) (model.Snapshot, error) {
	b.calls.Add(1)
	if r == b.fail {
		return model.Snapshot{}, errors.New("boom")
	}
	return model.Snapshot{Range: r}, nil
}

func (b *countingBackend) Name() string { return "counting" }

func TestFetchReturnsBackendSnapshot(t *testing.T) {
	c := source.NewClient(dataset.Default(), 0, 0, false)
	snap, err := c.Fetch(context.Background(), model.Range90d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Range != model.Range90d || len(snap.RecentStreams) != 10 {
		t.Fatalf("unexpected snapshot: range=%s streams=%d", snap.Range, len(snap.RecentStreams))
	}
	if c.BackendName() != "memory" {
		t.Errorf("backend name: got %q", c.BackendName())
	}
}

func TestFetchHonoursDelay(t *testing.T) {
	c := source.NewClient(&countingBackend{}, 30*time.Millisecond, 0, false)
	start := time.Now()
	if _, err := c.Fetch(context.Background(), model.Range7d); err != nil {
		t.Fatal(err)
	}
	if el := time.Since(start); el < 30*time.Millisecond {
		t.Fatalf("fetch returned after %s, before the delay", el)
	}
}

func TestFetchCancelledDuringDelay(t *testing.T) {
	b := &countingBackend{}
	c := source.NewClient(b, time.Hour, 0, false)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Fetch(ctx, model.Range7d)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if b.calls.Load() != 0 {
		t.Fatal("backend should not be called after cancellation")
	}
}

func TestFetchWrapsBackendError(t *testing.T) {
	c := source.NewClient(&countingBackend{fail: model.Range7d}, 0, 0, false)
	_, err := c.Fetch(context.Background(), model.Range7d)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestFetchAllPreservesOrder(t *testing.T) {
	b := &countingBackend{}
	c := source.NewClient(b, 5*time.Millisecond, 0, false)
	snaps, err := c.FetchAll(context.Background(), model.Ranges, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, r := range model.Ranges {
		if snaps[i].Range != r {
			t.Errorf("index %d: got %s, want %s", i, snaps[i].Range, r)
		}
	}
	if got := b.calls.Load(); got != int32(len(model.Ranges)) {
		t.Errorf("expected %d backend calls, got %d", len(model.Ranges), got)
	}
}

func TestFetchAllStopsOnError(t *testing.T) {
	c := source.NewClient(&countingBackend{fail: model.Range90d}, 0, 0, false)
	if _, err := c.FetchAll(context.Background(), model.Ranges, 0); err == nil {
		t.Fatal("expected error from failing range")
	}
}
