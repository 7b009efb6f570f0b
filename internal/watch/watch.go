// Package watch re-runs a callback whenever a watched file is written.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu    sync.RWMutex
	files map[string]struct{}
	// dirs were added with AddDir; match applies to files inside them.
	dirs map[string]struct{}
	// watched holds every directory registered with fsnotify, including
	// parents of single files.
	watched map[string]struct{}
	match   func(string) bool
}

type Option func(*Watcher)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithMatch accepts changes to any file inside a directory added with
// AddDir for which match returns true.
func WithMatch(match func(string) bool) Option {
	return func(w *Watcher) {
		w.match = match
	}
}

func New(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		logger:  slog.Default(),
		files:   make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
		watched: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// AddFile watches path only. The parent directory is registered so that
// editors which replace files by rename are still seen, but its other
// files are ignored.
func (w *Watcher) AddFile(path string) error {
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.register(filepath.Dir(path)); err != nil {
		return err
	}
	w.files[path] = struct{}{}
	return nil
}

// AddDir watches every matching file directly inside dir. Subdirectories
// created later are added as they appear.
func (w *Watcher) AddDir(dir string) error {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.register(dir); err != nil {
		return err
	}
	w.dirs[dir] = struct{}{}
	return nil
}

// register must be called with mu held.
func (w *Watcher) register(dir string) error {
	if _, ok := w.watched[dir]; ok {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error("failed to watch directory", "path", dir, "error", err)
		return err
	}
	w.watched[dir] = struct{}{}
	w.logger.Debug("watching directory", "path", dir)
	return nil
}

// Close releases the underlying fsnotify watcher. Run closes it as well.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run blocks, calling onChange for every relevant write or create, until ctx
// is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	defer w.watcher.Close()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path := filepath.Clean(event.Name)
			if event.Has(fsnotify.Create) && w.addCreatedDir(path) {
				continue
			}
			if !w.relevant(path) {
				continue
			}
			w.logger.Debug("file changed", "file", path, "op", event.Op.String())
			onChange(path)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// addCreatedDir starts watching path if it is a new directory inside a
// directory added with AddDir. It reports whether path is a directory.
func (w *Watcher) addCreatedDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}

	w.mu.RLock()
	_, parentWatched := w.dirs[filepath.Dir(path)]
	w.mu.RUnlock()
	if parentWatched {
		_ = w.AddDir(path)
	}
	return true
}

func (w *Watcher) relevant(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, ok := w.files[path]; ok {
		return true
	}
	if w.match == nil {
		return false
	}
	_, inDir := w.dirs[filepath.Dir(path)]
	return inDir && w.match(path)
}
