// Package configwatch monitors the ledgerd config file for changes.
// When the file is rewritten, the watcher debounces the burst of filesystem
// events editors produce and then invokes the reload callback once.
package configwatch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the delay between the last filesystem event and the
// reload callback.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches one config file and calls back on change.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
	logger   zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher for path. onChange runs on the watcher goroutine
// after each debounced change.
func New(path string, onChange func(), logger zerolog.Logger) *Watcher {
	return &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   logger,
	}
}

// Start begins watching. Stop must be called to release the watcher.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory rather than the file: editors and atomic config
	// writers replace the file, which drops a direct watch.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.logger.Info().Str("path", w.path).Msg("watching config file")

	w.wg.Add(1)
	go w.loop(watchCtx, fsw)
	return nil
}

// Stop halts the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("config watch error")

		case <-fire:
			w.logger.Info().Str("path", w.path).Msg("config file changed")
			w.onChange()
		}
	}
}
