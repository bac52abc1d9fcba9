// Package watch monitors a directory for new or changed gazette files and
// hands them to a processing callback, with debouncing so a file being
// written in several bursts is processed once.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/fsnotify.v1"
)

// DefaultDebounce is the quiet period a file must hold before processing.
const DefaultDebounce = 500 * time.Millisecond

// Handler receives the path of a file that settled after a change.
type Handler func(path string)

// Watcher watches one directory for gazette files.
type Watcher struct {
	dir        string
	extensions map[string]struct{}
	debounce   time.Duration
	handler    Handler

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce duration.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithExtensions restricts handled files to the given extensions (with dot,
// case-insensitive). The default accepts .txt, .md and .pdf.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.extensions = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			w.extensions[strings.ToLower(e)] = struct{}{}
		}
	}
}

// New creates a watcher over dir invoking handler for every settled file.
func New(dir string, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
		handler:  handler,
		pending:  make(map[string]*time.Timer),
	}
	WithExtensions(".txt", ".md", ".pdf")(w)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until the context is cancelled. Create and write events arm a
// per-file timer; each further event on the same file resets it, so the
// handler fires once per write burst.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !w.wants(event.Name) {
				continue
			}
			w.arm(event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// wants reports whether the file extension is handled.
func (w *Watcher) wants(path string) bool {
	_, ok := w.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// arm starts or resets the debounce timer for a path.
func (w *Watcher) arm(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.handler(path)
	})
}

// cancelPending stops every armed timer.
func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}
