package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SnapshotRunner persists engine snapshots on an interval.
// An interval of zero or less disables periodic persists; the engine still
// snapshots on bulk initialization and clean shutdown.
type SnapshotRunner struct {
	mu       sync.Mutex
	interval time.Duration

	engine *Engine
	logger zerolog.Logger
	reload chan time.Duration
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSnapshotRunner creates a runner for the given engine.
func NewSnapshotRunner(engine *Engine, interval time.Duration, logger zerolog.Logger) *SnapshotRunner {
	return &SnapshotRunner{
		interval: interval,
		engine:   engine,
		logger:   logger,
		reload:   make(chan time.Duration, 1),
	}
}

// Start launches the persist loop. Stop must be called to release it.
func (r *SnapshotRunner) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.mu.Lock()
	interval := r.interval
	r.mu.Unlock()

	if interval > 0 {
		r.logger.Info().Dur("interval", interval).Msg("periodic snapshots enabled")
	}

	r.wg.Add(1)
	go r.loop(runCtx, interval)
}

// Stop halts the persist loop and waits for it to exit.
func (r *SnapshotRunner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// SetInterval applies a new interval to the running loop.
// Zero or less disables periodic persists until the next change.
func (r *SnapshotRunner) SetInterval(interval time.Duration) {
	r.mu.Lock()
	if r.interval == interval {
		r.mu.Unlock()
		return
	}
	r.interval = interval
	r.mu.Unlock()

	select {
	case r.reload <- interval:
	default:
	}
	r.logger.Info().Dur("interval", interval).Msg("snapshot interval updated")
}

func (r *SnapshotRunner) loop(ctx context.Context, interval time.Duration) {
	defer r.wg.Done()

	var timer *time.Timer
	var tick <-chan time.Time
	if interval > 0 {
		timer = time.NewTimer(interval)
		tick = timer.C
		defer timer.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return

		case interval = <-r.reload:
			if timer != nil && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			if interval > 0 {
				if timer == nil {
					timer = time.NewTimer(interval)
					defer timer.Stop()
				} else {
					timer.Reset(interval)
				}
				tick = timer.C
			} else {
				tick = nil
			}

		case <-tick:
			if err := r.engine.SnapshotNow(ctx); err != nil {
				r.logger.Error().Err(err).Msg("periodic snapshot failed")
			}
			timer.Reset(interval)
		}
	}
}
