// Package watch monitors a spreadsheet file and re-runs the analysis
// whenever the file is rewritten.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long to wait after the last write event before
// reprocessing. Spreadsheet editors save in several bursts.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called with the watched path after a debounced change.
type Handler func(ctx context.Context, path string) error

// Watcher monitors one spreadsheet file for changes.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Handler  Handler

	mu      sync.Mutex
	pending *time.Timer
}

// New creates a watcher for the given spreadsheet path.
func New(path string, handler Handler) (*Watcher, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xlsm" {
		return nil, fmt.Errorf("cannot watch %s — expected a .xlsx or .xlsm file", path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", path, err)
	}
	return &Watcher{
		Path:     path,
		Debounce: DefaultDebounce,
		Handler:  handler,
	}, nil
}

// Run watches until the context is canceled. The containing directory is
// watched rather than the file itself: editors that save via rename
// replace the inode and would silently detach a file watch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not start watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.Path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(w.Path)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

// schedule resets the debounce timer, so only the last event in a save
// burst triggers the handler.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.Debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.Handler(ctx, w.Path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
	})
}
