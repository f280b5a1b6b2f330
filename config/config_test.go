package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Execution.MaxCycles != 100_000_000 {
		t.Errorf("Expected MaxCycles=100000000, got %d", cfg.Execution.MaxCycles)
	}
	if cfg.Execution.VRAMSize != 6*1024*1024 {
		t.Errorf("Expected VRAMSize=6MiB, got %d", cfg.Execution.VRAMSize)
	}
	if cfg.Display.ScaleFactor != 2 {
		t.Errorf("Expected ScaleFactor=2, got %d", cfg.Display.ScaleFactor)
	}
	if !cfg.Display.ShowBottom {
		t.Error("Expected ShowBottom=true")
	}
	if cfg.Trace.MaxEntries != 100000 {
		t.Errorf("Expected MaxEntries=100000, got %d", cfg.Trace.MaxEntries)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadFrom returned error for missing file: %v", err)
	}
	if cfg.Execution.VRAMSize != DefaultConfig().Execution.VRAMSize {
		t.Error("expected defaults when config file is absent")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxCycles = 42
	cfg.Display.ScaleFactor = 3

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Execution.MaxCycles != 42 {
		t.Errorf("Expected MaxCycles=42, got %d", loaded.Execution.MaxCycles)
	}
	if loaded.Display.ScaleFactor != 3 {
		t.Errorf("Expected ScaleFactor=3, got %d", loaded.Display.ScaleFactor)
	}
}
