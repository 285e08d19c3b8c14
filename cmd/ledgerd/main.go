package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/ledgerd"
	"github.com/bft-labs/ledgerd/internal/cliconfig"
	"github.com/bft-labs/ledgerd/internal/configwatch"
)

const longHelp = `ledgerd is an in-memory account ledger served over TCP.

Clients speak one JSON object per line: deposit, withdraw and transfer are
idempotent per transaction id, balances are integers in minor currency units,
and every applied mutation is appended to a write-ahead log with periodic
full snapshots of the account map.

Configure via ~/.ledgerd/config.toml, LEDGERD_* environment variables, or
flags; flags win.`

const exampleUsage = `  ledgerd --listen 127.0.0.1:5000 --data-dir /var/lib/ledgerd
  ledgerd client init accounts.json
  ledgerd client transfer alice bob 777`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "ledgerd",
		Short:   "Networked in-memory account ledger with an append-only transaction log",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default ~/.ledgerd/config.toml), then
			// env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cliconfig.ApplyLogLevel(cfg.LogLevel); err != nil {
				return fmt.Errorf("log level: %w", err)
			}

			log.Info().Interface("config", cfg).Msg("configuration")

			return run(cfg, cfgFile, changed)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.ledgerd/config.toml)")
	root.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "TCP listen address")
	root.Flags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for the transaction log and snapshots")
	root.Flags().StringVar(&cfg.WALPath, "wal-path", cfg.WALPath, "transaction log path (defaults to <data-dir>/transactions.log)")
	root.Flags().StringVar(&cfg.SnapshotPath, "snapshot-path", cfg.SnapshotPath, "snapshot path (defaults to <data-dir>/state.json)")
	root.Flags().DurationVar(&cfg.SnapshotInterval, "snapshot-interval", cfg.SnapshotInterval, "periodic snapshot interval (0 disables)")
	root.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "maximum time to drain connections on shutdown")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")

	root.AddCommand(newClientCommand())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("ledgerd")
		os.Exit(1)
	}
}

// run builds the daemon and config watcher, then blocks until a signal or a
// client shutdown request stops the server.
func run(cfg cliconfig.Config, cfgFile string, changed map[string]bool) error {
	log := cliconfig.Logger()

	d, err := ledgerd.NewDaemon(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		return err
	}

	// Hot-reload the reloadable settings when the config file changes.
	// Listen address and file paths stay fixed until restart.
	var watcher *configwatch.Watcher
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		watcher = configwatch.New(cfgFile, func() {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				log.Warn().Err(err).Msg("config reload failed")
				return
			}
			rc := cfg
			if err := cliconfig.ApplyFileConfig(&rc, fc, changed); err != nil {
				log.Warn().Err(err).Msg("config reload failed")
				return
			}
			d.SetSnapshotInterval(rc.SnapshotInterval)
			if err := cliconfig.ApplyLogLevel(rc.LogLevel); err != nil {
				log.Warn().Err(err).Msg("config reload: bad log level")
			}
		}, log.With().Str("component", "configwatch").Logger())
		if err := watcher.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("config watcher unavailable")
			watcher = nil
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("received signal, stopping...")
	case <-d.Done():
		// Shutdown requested over the wire.
	}

	if watcher != nil {
		watcher.Stop()
	}
	if err := d.Stop(); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}
