package scene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jwebster45206/token-hud/pkg/schedule"
)

var (
	ErrFileRemoved    = errors.New("watched scene file was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Watcher reloads a scene file when it changes on disk. Bursts of writes
// are debounced into one reload.
type Watcher struct {
	path      string
	debouncer *schedule.Debouncer
	onReload  func(*File)
	onError   func(error)
	logger    *slog.Logger

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	cancel    context.CancelFunc
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebouncer replaces the default debouncer.
func WithDebouncer(d *schedule.Debouncer) WatcherOption {
	return func(w *Watcher) { w.debouncer = d }
}

// WithOnError sets the callback for watch and parse errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// WithLogger sets the watcher logger.
func WithLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher creates a watcher for path. onReload receives each successfully
// parsed version of the file.
func NewWatcher(path string, onReload func(*File), opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := FormatFor(abs); err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		onReload: onReload,
		onError:  func(error) {},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debouncer == nil {
		w.debouncer = schedule.NewDebouncer(schedule.DefaultDebounceDuration, nil)
	}
	return w, nil
}

// Start begins watching the file's directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher != nil {
		return ErrAlreadyStarted
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.fsWatcher = fsw
	w.cancel = cancel
	go w.loop(ctx, fsw)

	w.logger.Info("Watching scene file", "path", w.path)
	return nil
}

// Stop ends watching and drops any pending reload.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher == nil {
		return
	}
	w.cancel()
	w.fsWatcher.Close()
	w.fsWatcher = nil
	w.debouncer.Cancel()
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.reload)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) reload() {
	f, err := ReadFile(w.path)
	if err != nil {
		w.logger.Warn("Failed to reload scene file", "path", w.path, "error", err)
		w.onError(err)
		return
	}
	w.logger.Debug("Scene file reloaded", "path", w.path, "tokens", len(f.Tokens))
	w.onReload(f)
}
