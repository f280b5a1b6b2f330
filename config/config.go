// Package config loads and saves the emulator's TOML configuration
// file, following the teacher's layered-table/defaults-then-override
// pattern.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full set of user-tunable emulator settings.
type Config struct {
	Execution struct {
		MaxCycles    uint64 `toml:"max_cycles"`
		VRAMSize     int    `toml:"vram_size"`
		EnableTrace  bool   `toml:"enable_trace"`
		BootFromROM  string `toml:"boot_rom"`
	} `toml:"execution"`

	Trace struct {
		OutputFile  string `toml:"output_file"`
		FilterCores string `toml:"filter_cores"` // comma-separated: "security,application"
		MaxEntries  int    `toml:"max_entries"`
	} `toml:"trace"`

	Display struct {
		ScaleFactor  int  `toml:"scale_factor"`
		ShowBottom   bool `toml:"show_bottom_screen"`
		VSyncEnabled bool `toml:"vsync_enabled"`
	} `toml:"display"`
}

// DefaultConfig returns a configuration populated with the emulator's
// shipped defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 100_000_000
	cfg.Execution.VRAMSize = 6 * 1024 * 1024
	cfg.Execution.EnableTrace = false
	cfg.Execution.BootFromROM = ""

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.FilterCores = ""
	cfg.Trace.MaxEntries = 100000

	cfg.Display.ScaleFactor = 2
	cfg.Display.ShowBottom = true
	cfg.Display.VSyncEnabled = true

	return cfg
}

// appDir resolves a per-user application directory via base (os.UserConfigDir
// or os.UserCacheDir, both already platform-aware: APPDATA on Windows,
// ~/Library/... on macOS, XDG_CONFIG_HOME/XDG_CACHE_HOME or the ~/.config,
// ~/.cache fallback on Linux), creating it if needed. A lookup or mkdir
// failure falls back to a plain relative directory so the emulator still
// runs somewhere writable instead of erroring out of a config load.
func appDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		return fallback
	}
	dir = filepath.Join(dir, "horizon3ds")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fallback
	}
	return dir
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	return filepath.Join(appDir(os.UserConfigDir, "."), "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	return filepath.Join(appDir(os.UserCacheDir, "."), "logs")
}

// Load loads configuration from the default config file path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the given path, falling back to
// defaults when the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the default config file path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes the configuration to the given path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
