package confloader

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/clikit/pkg/logger"
)

// Watcher reports writes to a single configuration file.
//
// The parent directory is watched rather than the file so that editors
// which save by rename, and files that are deleted and recreated, are still
// seen.
type Watcher struct {
	watcher   *fsnotify.Watcher
	target    string
	callbacks []func(string)
	mu        sync.RWMutex
	logger    logger.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// NewWatcher creates a watcher for path. The parent directory must exist.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		target:  filepath.Clean(path),
		logger:  logger.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	dir := filepath.Dir(w.target)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		w.logger.Error("failed to watch directory", "path", dir, "error", err)
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching directory for changes", "path", dir, "file", filepath.Base(w.target))

	return w, nil
}

// OnChange registers a callback invoked with the file path on every change.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Run delivers change notifications until ctx is done, then closes the
// underlying watcher. Callbacks run on the goroutine calling Run.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("configuration watcher stopped")
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.logger.Debug("configuration file changed",
					"file", event.Name,
					"op", event.Op.String(),
				)
				w.notify(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("configuration watcher error", "error", err)
		}
	}
}

// Close releases the watcher without running it. Safe to call after Run.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) notify(path string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(path)
	}
}
