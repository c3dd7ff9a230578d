// Package config loads and saves the simulator's TOML-backed settings,
// adapted from the teacher's config package to RV32IM's much smaller
// configuration surface: how long a run is allowed to go, which
// predictor table sizes to instantiate, and where trace/statistics
// output goes. The simulator reads only max_instructions and the
// [statistics] section; the [predictor] and [trace] settings and the
// other [execution] fields are loaded and saved but not applied (the
// predictor bank always uses predictor.Sizes and a 14-bit history).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the simulator's full configuration tree.
type Config struct {
	Execution struct {
		MaxInstructions uint64 `toml:"max_instructions"`
		StackSize       uint   `toml:"stack_size"`
		DefaultEntry    string `toml:"default_entry"`
	} `toml:"execution"`

	Predictor struct {
		TableSizes []int `toml:"table_sizes"`
		GHRBits    int   `toml:"ghr_bits"`
	} `toml:"predictor"`

	Trace struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
		MaxEntries int    `toml:"max_entries"`
	} `toml:"trace"`

	Statistics struct {
		OutputFile string `toml:"output_file"`
		Format     string `toml:"format"` // json, csv, html
	} `toml:"statistics"`
}

// DefaultConfig returns a Config matching the simulator's built-in
// defaults: a 100M-instruction budget, the four standard predictor table
// sizes, tracing off, and a JSON statistics report.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxInstructions = 100_000_000
	cfg.Execution.StackSize = 1 << 20 // 1MB
	cfg.Execution.DefaultEntry = "0x00008000"

	cfg.Predictor.TableSizes = []int{256, 1024, 4096, 16384}
	cfg.Predictor.GHRBits = 14

	cfg.Trace.Enabled = false
	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.MaxEntries = 100000

	cfg.Statistics.OutputFile = "stats.json"
	cfg.Statistics.Format = "json"

	return cfg
}

// GetConfigPath returns the platform-specific location of rv32sim.toml.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rv32sim")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "rv32sim.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rv32sim")

	default:
		return "rv32sim.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "rv32sim.toml"
	}

	return filepath.Join(configDir, "rv32sim.toml")
}

// GetLogPath returns the platform-specific directory for trace output
// written without an explicit -trace-file flag.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "rv32sim", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "rv32sim", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load reads configuration from the default path, falling back to
// DefaultConfig() if no file exists there yet.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads configuration from path, or returns defaults if path
// does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes c to the default config path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes c as TOML to path, creating parent directories as
// needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return nil
}
