// Package dataset holds the static dashboard dataset: per-range metrics,
// revenue distribution, top songs and recent streams, plus the single user
// growth series shared by every range.
//
// Lookups never fail. A range missing from any table is served from the
// 30-day table instead, field by field.
package dataset

import (
	"context"
	"fmt"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/util"
)

// Dataset is an immutable, range-keyed collection of dashboard tables.
type Dataset struct {
	Metrics  map[model.TimeRange]model.Metrics
	Revenue  map[model.TimeRange][]model.RevenueSlice
	TopSongs map[model.TimeRange][]model.TopSong
	Streams  map[model.TimeRange][]model.StreamRecord
	Growth   []model.GrowthPoint
}

// Has reports whether r has an entry in every per-range table.
func (d *Dataset) Has(r model.TimeRange) bool {
	_, m := d.Metrics[r]
	_, rv := d.Revenue[r]
	_, ts := d.TopSongs[r]
	_, st := d.Streams[r]
	return m && rv && ts && st
}

// Snapshot returns the bundle for r, substituting the default range's entry
// for any table that lacks r. The returned slices are copies.
func (d *Dataset) Snapshot(r model.TimeRange) model.Snapshot {
	snap := model.Snapshot{
		Range:               r,
		Metrics:             lookup(d.Metrics, r),
		RevenueDistribution: lookup(d.Revenue, r),
		TopSongs:            lookup(d.TopSongs, r),
		RecentStreams:       lookup(d.Streams, r),
		UserGrowth:          d.Growth,
	}
	if !r.Valid() {
		snap.Range = model.DefaultRange
	}
	return snap.Clone()
}

// Load implements source.Backend.
func (d *Dataset) Load(_ context.Context, r model.TimeRange) (model.Snapshot, error) {
	return d.Snapshot(r), nil
}

// Name implements source.Backend.
func (d *Dataset) Name() string { return "memory" }

func lookup[V any](m map[model.TimeRange]V, r model.TimeRange) V {
	if v, ok := m[r]; ok {
		return v
	}
	return m[model.DefaultRange]
}

// Validate checks the dataset invariants: the default range is present in
// every table, revenue amounts are non-negative, and stream IDs are unique
// within each range.
func (d *Dataset) Validate() error {
	var errs util.MultiError
	if !d.Has(model.DefaultRange) {
		errs.Add(fmt.Errorf("default range %s missing from one or more tables", model.DefaultRange))
	}
	for r, slices := range d.Revenue {
		for _, s := range slices {
			if s.Amount < 0 {
				errs.Add(fmt.Errorf("revenue %s/%s: negative amount %d", r, s.Name, s.Amount))
			}
		}
	}
	for r, recs := range d.Streams {
		seen := make(map[int]bool, len(recs))
		for _, rec := range recs {
			if seen[rec.ID] {
				errs.Add(fmt.Errorf("streams %s: duplicate id %d", r, rec.ID))
			}
			seen[rec.ID] = true
		}
	}
	return errs.Err()
}
