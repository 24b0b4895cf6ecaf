package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/derickschaefer/streamify/internal/config"
	"github.com/derickschaefer/streamify/internal/model"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// chdir switches the working directory to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

// writeConfig writes a streamify.json into dir and changes into dir.
func writeConfig(t *testing.T, dir string, f config.File) {
	t.Helper()
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), data, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chdir(t, dir)
}

// clearEnv unsets every STREAMIFY_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvDBPath, "")
	t.Setenv(config.EnvRange, "")
	t.Setenv(config.EnvDelay, "")
}

// ─── Defaults ─────────────────────────────────────────────────────────────────

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != config.DefaultFormat {
		t.Errorf("Format: got %q", cfg.Format)
	}
	if cfg.Range != model.Range30d {
		t.Errorf("Range: got %q", cfg.Range)
	}
	if cfg.PageSize != 10 {
		t.Errorf("PageSize: got %d", cfg.PageSize)
	}
	if cfg.Delay != config.DefaultDelay {
		t.Errorf("Delay: got %s", cfg.Delay)
	}
	if cfg.Source != config.SourceMemory {
		t.Errorf("Source: got %q", cfg.Source)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath should be empty without a file, got %q", cfg.ConfigPath)
	}
	if !strings.HasSuffix(cfg.DBPath, filepath.Join(".streamify", "streamify.db")) {
		t.Errorf("DBPath: got %q", cfg.DBPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// ─── Layering ─────────────────────────────────────────────────────────────────

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, t.TempDir(), config.File{
		DefaultFormat: "json",
		DefaultRange:  "90d",
		PageSize:      20,
		FetchDelay:    "50ms",
		Rate:          2,
		DBPath:        "/tmp/x.db",
		Source:        "store",
	})
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != "json" || cfg.Range != model.Range90d || cfg.PageSize != 20 ||
		cfg.Delay != 50*time.Millisecond || cfg.Rate != 2 || cfg.DBPath != "/tmp/x.db" ||
		cfg.Source != config.SourceStore {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.ConfigPath == "" {
		t.Error("ConfigPath should be set")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	writeConfig(t, t.TempDir(), config.File{DefaultRange: "90d", DBPath: "/tmp/file.db"})
	t.Setenv(config.EnvRange, "year")
	t.Setenv(config.EnvDBPath, "/tmp/env.db")
	t.Setenv(config.EnvDelay, "1s")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Range != model.RangeYear || cfg.DBPath != "/tmp/env.db" || cfg.Delay != time.Second {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestFlagOverridesEnv(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv(config.EnvDBPath, "/tmp/env.db")
	cfg, err := config.Load("/tmp/flag.db")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/flag.db" {
		t.Fatalf("flag should win, got %q", cfg.DBPath)
	}
}

func TestLoadBadEnvDelay(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv(config.EnvDelay, "soon")
	if _, err := config.Load(""); err == nil {
		t.Fatal("expected error for bad delay")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	if _, err := config.Load(""); err == nil {
		t.Fatal("expected parse error")
	}
}

// ─── Validate ─────────────────────────────────────────────────────────────────

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &config.Config{Range: "5d", PageSize: 15, Delay: -time.Second, Source: "cloud"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"default_range", "page_size", "fetch_delay", "source"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %q", want, err)
		}
	}
}

// ─── Template / Set / WriteFile ───────────────────────────────────────────────

func TestTemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
	if err := config.WriteFile(path, config.Template()); err != nil {
		t.Fatal(err)
	}
	f, err := config.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if *f != config.Template() {
		t.Fatalf("got %+v", *f)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions: got %v", info.Mode().Perm())
	}
}

func TestFileSet(t *testing.T) {
	f := config.Template()
	if err := f.Set("range", "YEAR"); err != nil || f.DefaultRange != "year" {
		t.Errorf("range: %q %v", f.DefaultRange, err)
	}
	if err := f.Set("page_size", "30"); err != nil || f.PageSize != 30 {
		t.Errorf("page_size: %d %v", f.PageSize, err)
	}
	if err := f.Set("page_size", "25"); err == nil {
		t.Error("expected error for page_size 25")
	}
	if err := f.Set("fetch_delay", "2s"); err != nil || f.FetchDelay != "2s" {
		t.Errorf("fetch_delay: %q %v", f.FetchDelay, err)
	}
	if err := f.Set("source", "cloud"); err == nil {
		t.Error("expected error for source cloud")
	}
	if err := f.Set("api_key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}
