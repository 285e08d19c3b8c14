package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (LEDGERD_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", os.Getenv("LEDGERD_LISTEN_ADDR"), &cfg.ListenAddr)
	s.setString("data-dir", os.Getenv("LEDGERD_DATA_DIR"), &cfg.DataDir)
	s.setString("wal-path", os.Getenv("LEDGERD_WAL_PATH"), &cfg.WALPath)
	s.setString("snapshot-path", os.Getenv("LEDGERD_SNAPSHOT_PATH"), &cfg.SnapshotPath)
	s.setString("log-level", os.Getenv("LEDGERD_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("snapshot-interval", os.Getenv("LEDGERD_SNAPSHOT_INTERVAL"), &cfg.SnapshotInterval); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", os.Getenv("LEDGERD_SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}

	return nil
}
