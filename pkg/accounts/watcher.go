package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the account file for changes and triggers store reloads.
// It watches the parent directory rather than the file itself so that
// editors and config tools that replace the file (write temp + rename)
// still produce events, and it debounces to prevent reload storms.
type Watcher struct {
	store    *Store
	path     string
	debounce time.Duration
	logger   *slog.Logger

	// OnReload, if set before Start, runs after every successful reload.
	// The gateway uses it to sync health tracking with the new set.
	OnReload func()

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
	running bool
	doneCh  chan struct{}
}

// NewWatcher creates a watcher that reloads the given store whenever the
// file at path changes.
func NewWatcher(store *Store, path string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Watcher{
		store:    store,
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   slog.Default().With("component", "accounts.watcher"),
	}
}

// Start begins watching. It returns once the underlying watcher is
// registered; events are handled on a background goroutine until the
// context is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.watcher = fsw
	w.running = true
	w.doneCh = make(chan struct{})

	w.logger.Info("account file watcher started",
		"path", w.path,
		"debounce", w.debounce,
	)

	go w.run(ctx)
	return nil
}

// Stop stops watching and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
	}
	w.watcher.Close()
	done := w.doneCh
	w.mu.Unlock()

	<-done
	w.logger.Info("account file watcher stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("account file changed",
				"path", event.Name,
				"op", event.Op.String(),
			)
			w.scheduleReload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("account file watcher error", "error", err)
		}
	}
}

// relevant reports whether the event is a content change to the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename)
}

// scheduleReload debounces reloads: each new event resets the timer, and
// the reload runs once events have quiesced.
func (w *Watcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if err := w.store.Reload(ctx); err != nil {
			// A bad edit must not take down the running set.
			w.logger.Error("account reload failed, keeping previous set",
				"path", w.path,
				"error", err,
			)
			return
		}
		w.logger.Info("accounts reloaded", "path", w.path)
		if w.OnReload != nil {
			w.OnReload()
		}
	})
}
