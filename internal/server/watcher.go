package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher calls reload whenever the settings file is written or replaced.
// Bursts of events within the debounce window trigger a single reload
type Watcher struct {
	path     string
	reload   func() error
	debounce time.Duration
	logger   *zap.Logger
	done     chan struct{}
}

// NewWatcher creates a Watcher for path. Start begins watching
func NewWatcher(path string, reload func() error, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		path:     filepath.Clean(path),
		reload:   reload,
		debounce: defaultDebounce,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start watches until ctx is cancelled. The parent directory is watched
// because an atomic save replaces the file and drops a watch on the file itself
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close() //nolint:errcheck
		return fmt.Errorf("watch settings dir: %w", err)
	}

	w.logger.Info("watching settings file", zap.String("file", w.path))

	go w.loop(ctx, fw)
	return nil
}

// Done is closed once the watch loop has exited
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.done)
	defer fw.Close() //nolint:errcheck

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("settings watcher stopped")
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			w.logger.Debug("settings file changed", zap.String("op", event.Op.String()))

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				if err := w.reload(); err != nil {
					w.logger.Error("settings reload failed", zap.Error(err))
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("settings watcher error", zap.Error(err))
		}
	}
}
