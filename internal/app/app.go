// Package app wires together configuration, the dataset, the snapshot store
// and the simulated fetch client into a single Deps struct that commands
// receive at runtime.
package app

import (
	"fmt"
	"log/slog"

	"github.com/derickschaefer/streamify/internal/config"
	"github.com/derickschaefer/streamify/internal/dashboard"
	"github.com/derickschaefer/streamify/internal/dataset"
	"github.com/derickschaefer/streamify/internal/source"
	"github.com/derickschaefer/streamify/internal/store"
)

// Deps holds all runtime dependencies injected into command Run functions.
// Store is nil until RequireStore opens it.
type Deps struct {
	Config  *config.Config
	Dataset *dataset.Dataset
	Store   *store.Store
	Client  *source.Client
	Logger  *slog.Logger
}

// New builds a Deps from resolved config. When the configured source is the
// snapshot store, the store is opened here and backs the fetch client.
func New(cfg *config.Config, logger *slog.Logger) (*Deps, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Deps{
		Config:  cfg,
		Dataset: dataset.Default(),
		Logger:  logger,
	}

	var backend source.Backend = d.Dataset
	if cfg.Source == config.SourceStore {
		if err := d.RequireStore(); err != nil {
			return nil, err
		}
		backend = d.Store
	}
	d.Client = source.NewClient(backend, cfg.Delay, cfg.Rate, cfg.Debug)
	return d, nil
}

// RequireStore opens the bbolt store at the configured path if it is not
// already open.
func (d *Deps) RequireStore() error {
	if d.Store != nil {
		return nil
	}
	s, err := store.Open(d.Config.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	d.Store = s
	return nil
}

// Close releases the store, if open.
func (d *Deps) Close() {
	if d.Store != nil {
		_ = d.Store.Close()
		d.Store = nil
	}
}

// NewDashboard starts a dashboard session over the dataset and the fetch
// client, with the configured range selected.
func (d *Deps) NewDashboard() *dashboard.Container {
	c := dashboard.New(d.Dataset, d.Client, d.Logger)
	c.SetTimeRange(string(d.Config.Range))
	return c
}
