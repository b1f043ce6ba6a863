package template

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadResult reports one catalog reload.
type ReloadResult struct {
	Imported int
	Skipped  int
	Err      error
}

// Watcher keeps a Store in sync with a catalog file. Entries in the file
// overwrite same-named templates; templates absent from the file are kept.
type Watcher struct {
	path     string
	store    *Store
	logger   *slog.Logger
	interval time.Duration
	onReload func(ReloadResult)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchLogger sets the logger. Defaults to slog.Default().
func WithWatchLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithPollInterval sets the polling interval used when fsnotify is
// unavailable. Defaults to one second.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithReloadHook is called after every reload attempt.
func WithReloadHook(fn func(ReloadResult)) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

// NewWatcher creates a watcher for the catalog at path.
func NewWatcher(path string, store *Store, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     path,
		store:    store,
		logger:   slog.Default(),
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load imports the catalog once.
func (w *Watcher) Load() ReloadResult {
	templates, err := LoadCatalog(w.path)
	if err != nil {
		w.logger.Warn("catalog reload failed", slog.String("path", w.path), slog.Any("error", err))
		res := ReloadResult{Err: err}
		w.notify(res)
		return res
	}
	imported, skipped := w.store.Import(templates, true)
	res := ReloadResult{Imported: imported, Skipped: skipped}
	w.notify(res)
	return res
}

func (w *Watcher) notify(res ReloadResult) {
	if w.onReload != nil {
		w.onReload(res)
	}
}

// Run reloads the catalog whenever the file changes until ctx is done.
// It uses fsnotify on the parent directory and falls back to polling.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Debug("fsnotify unavailable, polling catalog", slog.Any("error", err))
		return w.poll(ctx)
	}
	defer watcher.Close()

	// Watch the directory; editors often replace the file rather than write it.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Debug("watch failed, polling catalog", slog.Any("error", err))
		return w.poll(ctx)
	}

	baseName := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, err := os.Stat(w.path); err != nil {
				continue
			}
			w.Load()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) poll(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastMod time.Time
	var lastSize int64
	if info, err := os.Stat(w.path); err == nil {
		lastMod, lastSize = info.ModTime(), info.Size()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			if info.ModTime().Equal(lastMod) && info.Size() == lastSize {
				continue
			}
			lastMod, lastSize = info.ModTime(), info.Size()
			w.Load()
		}
	}
}
