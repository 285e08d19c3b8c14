package cliconfig

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.SnapshotInterval != time.Minute {
		t.Errorf("SnapshotInterval = %v, want 1m", cfg.SnapshotInterval)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir is empty")
	}
}

func TestValidateDerivesPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/var/lib/ledgerd"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if want := filepath.Join("/var/lib/ledgerd", "transactions.log"); cfg.WALPath != want {
		t.Errorf("WALPath = %q, want %q", cfg.WALPath, want)
	}
	if want := filepath.Join("/var/lib/ledgerd", "state.json"); cfg.SnapshotPath != want {
		t.Errorf("SnapshotPath = %q, want %q", cfg.SnapshotPath, want)
	}
}

func TestValidateKeepsExplicitPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WALPath = "/tmp/custom.log"
	cfg.SnapshotPath = "/tmp/custom.json"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.WALPath != "/tmp/custom.log" || cfg.SnapshotPath != "/tmp/custom.json" {
		t.Errorf("explicit paths overwritten: %q, %q", cfg.WALPath, cfg.SnapshotPath)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing listen addr",
			mutate:  func(c *Config) { c.ListenAddr = "" },
			wantErr: "listen address",
		},
		{
			name:    "missing data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: "data directory",
		},
		{
			name:    "negative snapshot interval",
			mutate:  func(c *Config) { c.SnapshotInterval = -time.Second },
			wantErr: "snapshot interval",
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.ShutdownTimeout = 0 },
			wantErr: "shutdown timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate returned nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAllowsZeroSnapshotInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapshotInterval = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
