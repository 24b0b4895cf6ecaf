// Package config handles loading and resolving streamify configuration.
// Resolution order (first non-empty value wins):
//  1. CLI flags (--db, --range, --delay, --format)
//  2. Environment variables STREAMIFY_DB_PATH, STREAMIFY_RANGE, STREAMIFY_DELAY
//  3. streamify.json in the current working directory
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/table"
	"github.com/derickschaefer/streamify/internal/util"
)

const (
	DefaultConfigFile = "streamify.json"
	DefaultFormat     = "table"
	DefaultDelay      = 500 * time.Millisecond
	DefaultRate       = 10.0
	DefaultSource     = SourceMemory

	SourceMemory = "memory"
	SourceStore  = "store"

	EnvDBPath = "STREAMIFY_DB_PATH"
	EnvRange  = "STREAMIFY_RANGE"
	EnvDelay  = "STREAMIFY_DELAY"
)

// File is the on-disk representation of streamify.json.
type File struct {
	DefaultFormat string  `json:"default_format"`
	DefaultRange  string  `json:"default_range"`
	PageSize      int     `json:"page_size"`
	FetchDelay    string  `json:"fetch_delay"`
	Rate          float64 `json:"rate"`
	DBPath        string  `json:"db_path"`
	Source        string  `json:"source"`
}

// Config is the fully-resolved runtime configuration.
type Config struct {
	Format     string
	Range      model.TimeRange
	PageSize   int
	Delay      time.Duration
	Rate       float64
	DBPath     string
	Source     string
	ConfigPath string // path of the streamify.json that was loaded (empty if none found)

	// Runtime overrides set from CLI flags after Load()
	Quiet   bool
	Verbose bool
	Debug   bool
}

// Load resolves configuration from the file and environment layers.
// flagDBPath is the value of --db (empty string if not set); the remaining
// flag overrides are applied by the caller.
func Load(flagDBPath string) (*Config, error) {
	cfg := &Config{
		Format:   DefaultFormat,
		Range:    model.DefaultRange,
		PageSize: table.DefaultPageSize,
		Delay:    DefaultDelay,
		Rate:     DefaultRate,
		Source:   DefaultSource,
	}

	// Layer 1: streamify.json (lowest priority)
	if f, path, err := loadFile(); err == nil {
		applyFile(cfg, f, path)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Layer 2: environment variables
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvRange); v != "" {
		cfg.Range = model.TimeRange(v)
	}
	if v := os.Getenv(EnvDelay); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvDelay, err)
		}
		cfg.Delay = d
	}

	// Layer 3: CLI flag (highest priority)
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DBPath = filepath.Join(home, ".streamify", "streamify.db")
		}
	}

	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs util.MultiError
	if _, err := model.ParseTimeRange(string(c.Range)); err != nil {
		errs.Add(fmt.Errorf("default_range: %w", err))
	}
	if !table.ValidPageSize(c.PageSize) {
		errs.Add(fmt.Errorf("page_size: %d is not one of 10, 20, 30, 50", c.PageSize))
	}
	if c.Delay < 0 {
		errs.Add(fmt.Errorf("fetch_delay: must not be negative, got %s", c.Delay))
	}
	if c.Rate < 0 {
		errs.Add(fmt.Errorf("rate: must not be negative, got %g", c.Rate))
	}
	if c.Source != SourceMemory && c.Source != SourceStore {
		errs.Add(fmt.Errorf("source: %q is not one of memory, store", c.Source))
	}
	return errs.Err()
}

// loadFile reads streamify.json from the current working directory.
// A missing file is reported with an error satisfying os.IsNotExist.
func loadFile() (*File, string, error) {
	path, err := filepath.Abs(DefaultConfigFile)
	if err != nil {
		return nil, "", err
	}
	f, err := ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

// ReadFile parses the config file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// applyFile copies non-zero values from a parsed File into cfg.
func applyFile(cfg *Config, f *File, path string) {
	cfg.ConfigPath = path
	if f.DefaultFormat != "" {
		cfg.Format = f.DefaultFormat
	}
	if f.DefaultRange != "" {
		cfg.Range = model.TimeRange(f.DefaultRange)
	}
	if f.PageSize > 0 {
		cfg.PageSize = f.PageSize
	}
	if f.FetchDelay != "" {
		if d, err := time.ParseDuration(f.FetchDelay); err == nil {
			cfg.Delay = d
		}
	}
	if f.Rate > 0 {
		cfg.Rate = f.Rate
	}
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
	if f.Source != "" {
		cfg.Source = f.Source
	}
}

// Template returns a File populated with defaults, suitable for writing an
// initial streamify.json via `streamify config init`.
func Template() File {
	return File{
		DefaultFormat: DefaultFormat,
		DefaultRange:  string(model.DefaultRange),
		PageSize:      table.DefaultPageSize,
		FetchDelay:    DefaultDelay.String(),
		Rate:          DefaultRate,
		Source:        DefaultSource,
	}
}

// WriteFile serialises a File to the given path.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}

// Set assigns one key of f from its string form.
func (f *File) Set(key, val string) error {
	switch key {
	case "default_format", "format":
		f.DefaultFormat = val
	case "default_range", "range":
		r, err := model.ParseTimeRange(val)
		if err != nil {
			return err
		}
		f.DefaultRange = string(r)
	case "page_size":
		var n int
		if _, err := fmt.Sscanf(val, "%d", &n); err != nil || !table.ValidPageSize(n) {
			return fmt.Errorf("page_size must be one of 10, 20, 30, 50")
		}
		f.PageSize = n
	case "fetch_delay", "delay":
		if _, err := time.ParseDuration(val); err != nil {
			return fmt.Errorf("fetch_delay must be a duration such as 500ms")
		}
		f.FetchDelay = val
	case "rate":
		var r float64
		if _, err := fmt.Sscanf(val, "%f", &r); err != nil {
			return fmt.Errorf("rate must be a number")
		}
		f.Rate = r
	case "db_path":
		f.DBPath = val
	case "source":
		if val != SourceMemory && val != SourceStore {
			return fmt.Errorf("source must be memory or store")
		}
		f.Source = val
	default:
		return fmt.Errorf("unknown config key: %q\n\nValid keys: default_format, default_range, page_size, fetch_delay, rate, db_path, source", key)
	}
	return nil
}
