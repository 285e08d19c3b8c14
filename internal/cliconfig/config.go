// Package cliconfig holds the ledgerd CLI configuration and its layering:
// defaults, then config file, then LEDGERD_* environment variables, then
// flags, with later layers winning.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultListenAddr is where the server listens unless configured otherwise.
const DefaultListenAddr = "127.0.0.1:5000"

// Config holds CLI configuration for ledgerd.
type Config struct {
	ListenAddr string
	DataDir    string

	WALPath      string
	SnapshotPath string

	SnapshotInterval time.Duration
	ShutdownTimeout  time.Duration

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ListenAddr:       DefaultListenAddr,
		DataDir:          defaultDataDir(),
		SnapshotInterval: time.Minute,
		ShutdownTimeout:  30 * time.Second,
		LogLevel:         "info",
	}
}

func defaultDataDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".ledgerd")
	}
	return "."
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}

	if c.WALPath == "" {
		c.WALPath = filepath.Join(c.DataDir, "transactions.log")
	}
	if c.SnapshotPath == "" {
		c.SnapshotPath = filepath.Join(c.DataDir, "state.json")
	}

	if c.SnapshotInterval < 0 {
		return fmt.Errorf("snapshot interval must not be negative")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
