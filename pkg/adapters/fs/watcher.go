package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// FileEvent reports a change to a watched file.
type FileEvent struct {
	Path    string
	Removed bool
}

// Watcher observes a directory tree and reports files matching a pattern.
type Watcher struct {
	Root    string
	Pattern string
	Logger  *slog.Logger
	// ErrorHandler receives runtime watcher failures. Errors are logged when nil.
	ErrorHandler func(error)
}

// NewWatcher creates a watcher for root. An empty pattern selects DefaultPattern.
func NewWatcher(root, pattern string, logger *slog.Logger) *Watcher {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{Root: root, Pattern: pattern, Logger: logger}
}

// Watch starts observing and returns the file events until ctx is cancelled.
// Hidden directories (such as .git) are not watched.
func (w *Watcher) Watch(ctx context.Context) (<-chan FileEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.addTree(watcher, w.Root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan FileEvent, 16)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer watcher.Close()
		return w.loop(ctx, watcher, out)
	}, lifecycle.WithErrorHandler(w.handleError))

	return out, nil
}

func (w *Watcher) loop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- FileEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			fe, ok := w.translate(watcher, event)
			if !ok {
				continue
			}
			select {
			case out <- fe:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleError(wErr)
		}
	}
}

// translate maps an fsnotify event onto a FileEvent, registering new directories on the way.
func (w *Watcher) translate(watcher *fsnotify.Watcher, event fsnotify.Event) (FileEvent, bool) {
	w.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if err := w.addTree(watcher, event.Name); err != nil {
			w.handleError(err)
		}
		return FileEvent{}, false
	}
	if !Match(w.Root, w.Pattern, event.Name) {
		return FileEvent{}, false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return FileEvent{Path: event.Name, Removed: true}, true
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return FileEvent{Path: event.Name}, true
	}
	return FileEvent{}, false
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) handleError(err error) {
	if w.ErrorHandler != nil {
		w.ErrorHandler(err)
		return
	}
	w.Logger.Error("watcher error", "error", err)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
