// Package ledgerd provides an embeddable networked in-memory account ledger.
//
// Example usage:
//
//	cfg := ledgerd.DefaultConfig()
//	cfg.DataDir = "/var/lib/ledgerd"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	d, err := ledgerd.NewDaemon(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := d.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	<-d.Done()
//	_ = d.Stop()
package ledgerd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/ledgerd/internal/cliconfig"
	"github.com/bft-labs/ledgerd/internal/ledger"
	"github.com/bft-labs/ledgerd/internal/server"
	"github.com/bft-labs/ledgerd/pkg/snapshot"
	"github.com/bft-labs/ledgerd/pkg/wal"
)

// Config holds the configuration for the ledger daemon.
// Use DefaultConfig() to get a Config with sensible defaults, and call
// Validate before NewDaemon to derive the storage paths.
type Config = cliconfig.Config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Logger returns the package-level zerolog logger used by the daemon.
func Logger() zerolog.Logger {
	return cliconfig.Logger()
}

// Daemon bundles the ledger engine, the TCP transport and the periodic
// snapshot runner behind one lifecycle.
type Daemon struct {
	engine *ledger.Engine
	runner *ledger.SnapshotRunner
	srv    *server.Server
	wal    *wal.Writer
}

// NewDaemon opens the transaction log and snapshot repository under
// cfg.DataDir and wires the components. Call Start to begin serving.
func NewDaemon(cfg Config) (*Daemon, error) {
	log := cliconfig.Logger()

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	walWriter, err := wal.Open(cfg.WALPath)
	if err != nil {
		return nil, err
	}

	snapshots := snapshot.NewFileRepository(cfg.SnapshotPath)
	engine := ledger.New(walWriter, snapshots, log.With().Str("component", "engine").Logger())

	return &Daemon{
		engine: engine,
		runner: ledger.NewSnapshotRunner(engine, cfg.SnapshotInterval, log.With().Str("component", "snapshots").Logger()),
		srv: server.New(server.Config{
			ListenAddr:      cfg.ListenAddr,
			ShutdownTimeout: cfg.ShutdownTimeout,
		}, engine, log.With().Str("component", "server").Logger()),
		wal: walWriter,
	}, nil
}

// Start binds the listener and launches the snapshot runner.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	d.runner.Start(ctx)
	return nil
}

// Done is closed once shutdown has been initiated, whether by Stop or by a
// client shutdown request.
func (d *Daemon) Done() <-chan struct{} {
	return d.srv.Done()
}

// Stop drains the transport, persists a final snapshot and closes the
// transaction log.
func (d *Daemon) Stop() error {
	d.runner.Stop()
	err := d.srv.Stop()
	if closeErr := d.wal.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// SetSnapshotInterval applies a new periodic snapshot interval to the
// running daemon. Zero or less disables periodic snapshots.
func (d *Daemon) SetSnapshotInterval(interval time.Duration) {
	d.runner.SetInterval(interval)
}
