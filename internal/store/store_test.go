package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/derickschaefer/streamify/internal/dataset"
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/store"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// testDB opens a fresh isolated database in t.TempDir().
func testDB(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seeded(t *testing.T) (*store.Store, *dataset.Dataset) {
	t.Helper()
	s := testDB(t)
	ds := dataset.Default()
	snaps := make([]model.Snapshot, 0, len(model.Ranges))
	for _, r := range model.Ranges {
		snaps = append(snaps, ds.Snapshot(r))
	}
	if err := s.Seed(snaps); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return s, ds
}

// ─── Open / Path ──────────────────────────────────────────────────────────────

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "streamify.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open with nested path: %v", err)
	}
	defer s.Close()
	if s.Path() != path {
		t.Errorf("Path: expected %q, got %q", path, s.Path())
	}
	if s.Name() != "store" {
		t.Errorf("Name: got %q", s.Name())
	}
}

// ─── Snapshots ────────────────────────────────────────────────────────────────

func TestPutGetSnapshot(t *testing.T) {
	s := testDB(t)
	want := dataset.Default().Snapshot(model.Range90d)
	if err := s.PutSnapshot(want); err != nil {
		t.Fatalf("PutSnapshot: %v", err)
	}
	got, ok, err := s.GetSnapshot(model.Range90d)
	if err != nil || !ok {
		t.Fatalf("GetSnapshot: ok=%v err=%v", ok, err)
	}
	if got.Metrics != want.Metrics {
		t.Errorf("metrics: got %+v", got.Metrics)
	}
	if len(got.RecentStreams) != len(want.RecentStreams) {
		t.Fatalf("streams: got %d, want %d", len(got.RecentStreams), len(want.RecentStreams))
	}
	for i := range want.RecentStreams {
		if !got.RecentStreams[i].Date.Equal(want.RecentStreams[i].Date) {
			t.Errorf("stream %d date: got %s, want %s", i, got.RecentStreams[i].Date, want.RecentStreams[i].Date)
		}
	}
	if len(got.UserGrowth) != 0 {
		t.Error("stored snapshot should not carry the growth series")
	}
}

func TestGetSnapshotMissing(t *testing.T) {
	s := testDB(t)
	_, ok, err := s.GetSnapshot(model.Range7d)
	if err != nil || ok {
		t.Fatalf("expected not found, got ok=%v err=%v", ok, err)
	}
}

func TestPutSnapshotRejectsUnknownRange(t *testing.T) {
	s := testDB(t)
	if err := s.PutSnapshot(model.Snapshot{Range: "5d"}); err == nil {
		t.Fatal("expected error for unknown range")
	}
}

// ─── Seed / Load ──────────────────────────────────────────────────────────────

func TestSeedAndLoad(t *testing.T) {
	s, ds := seeded(t)
	ranges, err := s.ListRanges()
	if err != nil || len(ranges) != 4 {
		t.Fatalf("ListRanges: %v %v", ranges, err)
	}
	snap, err := s.Load(context.Background(), model.RangeYear)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Metrics != ds.Metrics[model.RangeYear] {
		t.Errorf("year metrics mismatch: %+v", snap.Metrics)
	}
	if len(snap.UserGrowth) != len(ds.Growth) {
		t.Errorf("growth: got %d points, want %d", len(snap.UserGrowth), len(ds.Growth))
	}
	at, err := s.SeededAt()
	if err != nil || at.IsZero() {
		t.Errorf("SeededAt: %v %v", at, err)
	}
}

func TestLoadFallsBackToDefaultRange(t *testing.T) {
	s, ds := seeded(t)
	if err := s.ClearBucket("snapshots"); err != nil {
		t.Fatal(err)
	}
	if err := s.PutSnapshot(ds.Snapshot(model.Range30d)); err != nil {
		t.Fatal(err)
	}
	snap, err := s.Load(context.Background(), model.Range7d)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Range != model.Range30d || snap.Metrics != ds.Metrics[model.Range30d] {
		t.Fatalf("expected 30d fallback, got %s", snap.Range)
	}
}

func TestLoadEmptyStore(t *testing.T) {
	s := testDB(t)
	_, err := s.Load(context.Background(), model.Range7d)
	if !errors.Is(err, store.ErrNotSeeded) {
		t.Fatalf("expected ErrNotSeeded, got %v", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	s, _ := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Load(ctx, model.Range7d); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// ─── Stats & Maintenance ──────────────────────────────────────────────────────

func TestStats(t *testing.T) {
	s, _ := seeded(t)
	stats, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	for _, b := range stats {
		counts[b.Name] = b.Count
	}
	if counts["snapshots"] != 4 || counts["growth"] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestClearAll(t *testing.T) {
	s, _ := seeded(t)
	if err := s.ClearAll(); err != nil {
		t.Fatal(err)
	}
	ranges, _ := s.ListRanges()
	growth, _ := s.GetGrowth()
	if len(ranges) != 0 || growth != nil {
		t.Fatalf("expected empty store, got ranges=%v growth=%d", ranges, len(growth))
	}
}

func TestClearBucketUnknown(t *testing.T) {
	s := testDB(t)
	if err := s.ClearBucket("_meta"); err == nil {
		t.Fatal("expected error clearing internal bucket")
	}
}

func TestCompactKeepsData(t *testing.T) {
	s, ds := seeded(t)
	before, after, err := s.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if before <= 0 || after <= 0 {
		t.Fatalf("sizes: before=%d after=%d", before, after)
	}
	if _, err := os.Stat(s.Path() + ".compact"); !os.IsNotExist(err) {
		t.Error("temporary compaction file left behind")
	}
	snap, err := s.Load(context.Background(), model.Range7d)
	if err != nil {
		t.Fatalf("Load after compact: %v", err)
	}
	if snap.Metrics != ds.Metrics[model.Range7d] {
		t.Fatal("data changed by compaction")
	}
}
