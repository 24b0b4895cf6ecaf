// Package store provides a thin bbolt wrapper for streamify's snapshot store.
//
// The store plays the part of the remote dashboard backend: `streamify store
// seed` writes the dataset into it, and the simulated fetch reads snapshots
// back out when the configured source is "store". Selection state is never
// written here.
//
// Buckets:
//
//	snapshots  per-range snapshot JSON keyed by range ("30d")
//	growth     the shared user growth series under key "series"
//	_meta      internal: schema version, created_at, seeded_at
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/derickschaefer/streamify/internal/model"
)

// Current schema version. Bump when bucket layout or key format changes.
const SchemaVersion = 1

// Bucket name constants.
var (
	bucketSnapshots = []byte("snapshots")
	bucketGrowth    = []byte("growth")
	bucketInternal  = []byte("_meta")

	keyGrowth   = []byte("series")
	keySeededAt = []byte("seeded_at")
)

// AllBuckets lists every user-facing bucket for stats and clear operations.
var AllBuckets = []string{"snapshots", "growth"}

// ErrNotSeeded is returned by Load when neither the requested range nor the
// default range has a stored snapshot.
var ErrNotSeeded = errors.New("snapshot store is empty (run 'streamify store seed')")

// Store wraps a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt database at path.
// Parent directories are created automatically.
// Runs schema migrations on every open.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening db %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database.
func (s *Store) Path() string {
	return s.db.Path()
}

// Name implements source.Backend.
func (s *Store) Name() string { return "store" }

// ─── Migrations ───────────────────────────────────────────────────────────────

// migrate ensures all buckets exist and schema is current.
func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketSnapshots, bucketGrowth, bucketInternal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketInternal)
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(fmt.Sprintf("%d", SchemaVersion))); err != nil {
				return err
			}
			if err := meta.Put([]byte("created_at"), []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
				return err
			}
		}
		return nil
	})
}

// ─── Snapshots ────────────────────────────────────────────────────────────────

// storedSnapshot is the on-disk envelope for one range. The growth series
// lives in its own bucket and is not duplicated per range.
type storedSnapshot struct {
	Range               model.TimeRange      `json:"range"`
	Metrics             model.Metrics        `json:"metrics"`
	RevenueDistribution []model.RevenueSlice `json:"revenue_distribution"`
	TopSongs            []model.TopSong      `json:"top_songs"`
	RecentStreams       []model.StreamRecord `json:"recent_streams"`
	StoredAt            time.Time            `json:"stored_at"`
}

// PutSnapshot stores the per-range tables of snap under snap.Range.
func (s *Store) PutSnapshot(snap model.Snapshot) error {
	if !snap.Range.Valid() {
		return fmt.Errorf("put snapshot: invalid range %q", snap.Range)
	}
	b, err := json.Marshal(storedSnapshot{
		Range:               snap.Range,
		Metrics:             snap.Metrics,
		RevenueDistribution: snap.RevenueDistribution,
		TopSongs:            snap.TopSongs,
		RecentStreams:       snap.RecentStreams,
		StoredAt:            time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte(snap.Range), b)
	})
}

// GetSnapshot retrieves the stored tables for r, without the growth series.
// Returns (snap, true, nil) if found, (zero, false, nil) if not found.
func (s *Store) GetSnapshot(r model.TimeRange) (model.Snapshot, bool, error) {
	var stored storedSnapshot
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSnapshots).Get([]byte(r))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &stored)
	})
	if err != nil || !found {
		return model.Snapshot{}, false, err
	}
	return model.Snapshot{
		Range:               stored.Range,
		Metrics:             stored.Metrics,
		RevenueDistribution: stored.RevenueDistribution,
		TopSongs:            stored.TopSongs,
		RecentStreams:       stored.RecentStreams,
	}, true, nil
}

// ListRanges returns the ranges that have a stored snapshot, in key order.
func (s *Store) ListRanges() ([]model.TimeRange, error) {
	var out []model.TimeRange
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).ForEach(func(k, _ []byte) error {
			out = append(out, model.TimeRange(k))
			return nil
		})
	})
	return out, err
}

// ─── Growth ───────────────────────────────────────────────────────────────────

// PutGrowth stores the shared user growth series.
func (s *Store) PutGrowth(points []model.GrowthPoint) error {
	b, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("encoding growth: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketGrowth).Put(keyGrowth, b)
	})
}

// GetGrowth returns the stored growth series, or nil if none is stored.
func (s *Store) GetGrowth() ([]model.GrowthPoint, error) {
	var points []model.GrowthPoint
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketGrowth).Get(keyGrowth)
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &points)
	})
	return points, err
}

// ─── Seeding & Loading ────────────────────────────────────────────────────────

// Seed writes one snapshot per entry plus the growth series taken from the
// first snapshot, and stamps seeded_at.
func (s *Store) Seed(snaps []model.Snapshot) error {
	for _, snap := range snaps {
		if err := s.PutSnapshot(snap); err != nil {
			return fmt.Errorf("seeding %s: %w", snap.Range, err)
		}
	}
	if len(snaps) > 0 {
		if err := s.PutGrowth(snaps[0].UserGrowth); err != nil {
			return err
		}
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketInternal).Put(keySeededAt, []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// SeededAt returns when the store was last seeded, or the zero time.
func (s *Store) SeededAt() (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketInternal).Get(keySeededAt)
		if v == nil {
			return nil
		}
		var perr error
		t, perr = time.Parse(time.RFC3339, string(v))
		return perr
	})
	return t, err
}

// Load implements source.Backend: the snapshot for r, falling back to the
// default range when r is not stored, joined with the growth series.
func (s *Store) Load(ctx context.Context, r model.TimeRange) (model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	snap, ok, err := s.GetSnapshot(r)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("reading snapshot %s: %w", r, err)
	}
	if !ok {
		snap, ok, err = s.GetSnapshot(model.DefaultRange)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("reading snapshot %s: %w", model.DefaultRange, err)
		}
		if !ok {
			return model.Snapshot{}, ErrNotSeeded
		}
	}
	growth, err := s.GetGrowth()
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("reading growth: %w", err)
	}
	snap.UserGrowth = growth
	return snap, nil
}

// ─── Stats & Maintenance ──────────────────────────────────────────────────────

// BucketStats holds row count and byte size for a single bucket.
type BucketStats struct {
	Name  string
	Count int
	Bytes int64
}

// Stats returns row counts and approximate sizes for all buckets.
func (s *Store) Stats() ([]BucketStats, error) {
	var stats []BucketStats
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets {
			b := tx.Bucket([]byte(name))
			if b == nil {
				continue
			}
			var count int
			var bytes int64
			b.ForEach(func(k, v []byte) error {
				count++
				bytes += int64(len(k) + len(v))
				return nil
			})
			stats = append(stats, BucketStats{Name: name, Count: count, Bytes: bytes})
		}
		return nil
	})
	return stats, err
}

// ClearBucket deletes all entries in the named bucket.
func (s *Store) ClearBucket(name string) error {
	known := false
	for _, b := range AllBuckets {
		if b == name {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown bucket %q", name)
	}
	bname := []byte(name)
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bname); err != nil {
			return fmt.Errorf("clearing bucket %s: %w", name, err)
		}
		_, err := tx.CreateBucket(bname)
		return err
	})
}

// ClearAll deletes all entries from every user-facing bucket.
func (s *Store) ClearAll() error {
	for _, name := range AllBuckets {
		if err := s.ClearBucket(name); err != nil {
			return err
		}
	}
	return nil
}

// Compact rewrites the database into a fresh file and swaps it in place,
// returning the file sizes before and after. The Store stays usable.
func (s *Store) Compact() (before, after int64, err error) {
	path := s.db.Path()
	fi, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	before = fi.Size()

	tmp := path + ".compact"
	dst, err := bolt.Open(tmp, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return 0, 0, fmt.Errorf("opening compaction target: %w", err)
	}
	if err := bolt.Compact(dst, s.db, 0); err != nil {
		dst.Close()
		os.Remove(tmp)
		return 0, 0, fmt.Errorf("compacting: %w", err)
	}
	if err := dst.Close(); err != nil {
		return 0, 0, err
	}
	if err := s.db.Close(); err != nil {
		return 0, 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, 0, fmt.Errorf("replacing db: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return 0, 0, fmt.Errorf("reopening db: %w", err)
	}
	s.db = db

	fi, err = os.Stat(path)
	if err != nil {
		return before, 0, err
	}
	return before, fi.Size(), nil
}
