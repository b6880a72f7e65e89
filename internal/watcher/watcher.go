// Package watcher provides debounced file watching for live template preview.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operations are called on a closed Watcher.
var ErrClosed = errors.New("watcher: watcher is closed")

// DefaultDebounce is the window used to coalesce bursts of events.
// Editors that save via temp file + rename emit several events per save.
const DefaultDebounce = 250 * time.Millisecond

// DefaultPollInterval is the scan interval when polling replaces fsnotify.
const DefaultPollInterval = time.Second

// Op classifies what happened to a path.
type Op uint8

const (
	// Changed means the path was created or written.
	Changed Op = iota
	// Removed means the path was removed or renamed away.
	Removed
)

// String returns the string representation of the op.
func (o Op) String() string {
	if o == Removed {
		return "removed"
	}
	return "changed"
}

// Event is a coalesced file system event.
type Event struct {
	Path string
	Op   Op
}

// Handler receives a debounced batch of events.
// The batch holds at most one event per path.
type Handler func(events []Event)

// ErrorHandler is called when a watch error occurs.
type ErrorHandler func(err error)

// fileMeta is the per-path state compared between polls.
type fileMeta struct {
	modTime time.Time
	size    int64
}

// Watcher watches template files and reports changes after a debounce window.
type Watcher struct {
	fsw          *fsnotify.Watcher
	handler      Handler
	errorHandler ErrorHandler
	debounce     time.Duration

	// Poll mode replaces fsnotify when it cannot start (unsupported
	// filesystem, inotify limit reached) or when forced via WithPolling.
	pollMode     bool
	forcePoll    bool
	pollInterval time.Duration
	closeCh      chan struct{}

	mu        sync.Mutex
	timer     *time.Timer
	pending   []Event
	watched   map[string]bool
	snapshots map[string]fileMeta
	closed    bool
}

// New creates a Watcher and starts its event loop.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watcher: handler is required")
	}

	w := &Watcher{
		handler:      handler,
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		watched:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}

	if !w.forcePoll {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			w.fsw = fsw
		} else {
			if w.errorHandler != nil {
				w.errorHandler(fmt.Errorf("fsnotify unavailable, falling back to polling: %w", err))
			}
			w.pollMode = true
		}
	} else {
		w.pollMode = true
	}

	if w.pollMode {
		w.snapshots = make(map[string]fileMeta)
		w.closeCh = make(chan struct{})
		go w.runPoll()
	} else {
		go w.run()
	}
	return w, nil
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window for coalescing events.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets the error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(w *Watcher) {
		w.errorHandler = h
	}
}

// WithPollInterval sets the scan interval used in polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithPolling forces polling mode instead of fsnotify.
func WithPolling(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// Add watches a file or directory. Watching the parent directory of a
// template also catches editors that save by replacing the file.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if w.watched[abs] {
		return nil
	}

	if w.pollMode {
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		w.seedSnapshots(abs, info)
		w.watched[abs] = true
		return nil
	}

	if err := w.fsw.Add(abs); err != nil {
		return err
	}
	w.watched[abs] = true
	return nil
}

// seedSnapshots records the current state of a newly added root so the first
// poll after Add does not report existing files as new. Caller holds w.mu.
func (w *Watcher) seedSnapshots(root string, info os.FileInfo) {
	w.snapshots[root] = fileMeta{modTime: info.ModTime(), size: info.Size()}
	if !info.IsDir() {
		return
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return
	}
	for _, d := range entries {
		if fi, err := d.Info(); err == nil {
			w.snapshots[filepath.Join(root, d.Name())] = fileMeta{modTime: fi.ModTime(), size: fi.Size()}
		}
	}
}

// Remove stops watching a path.
func (w *Watcher) Remove(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !w.watched[abs] {
		return nil
	}
	delete(w.watched, abs)
	if w.pollMode {
		delete(w.snapshots, abs)
		return nil
	}
	return w.fsw.Remove(abs)
}

// WatchedPaths returns the currently watched paths, sorted.
func (w *Watcher) WatchedPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.watched))
	for p := range w.watched {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Close stops the watcher. Pending debounced events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = nil
	w.mu.Unlock()

	if w.pollMode {
		close(w.closeCh)
		return nil
	}
	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.errorHandler != nil {
				w.errorHandler(err)
			}
		}
	}
}

func (w *Watcher) runPoll() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.pollOnce()
		case <-w.closeCh:
			return
		}
	}
}

// pollOnce rescans the watched roots and reports anything that changed
// since the previous scan. Events go through the same debounce window as
// fsnotify events.
func (w *Watcher) pollOnce() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	roots := make([]string, 0, len(w.watched))
	for p := range w.watched {
		roots = append(roots, p)
	}
	w.mu.Unlock()

	current := make(map[string]fileMeta)
	for _, root := range roots {
		w.scanRoot(root, current)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}

	var events []Event
	for path, meta := range current {
		prev, ok := w.snapshots[path]
		if !ok || meta != prev {
			events = append(events, Event{Path: path, Op: Changed})
		}
		w.snapshots[path] = meta
	}
	for path := range w.snapshots {
		if _, ok := current[path]; ok {
			continue
		}
		delete(w.snapshots, path)
		// Entries no longer under any root were dropped by Remove; only
		// paths still covered count as removals.
		if underAny(path, roots) {
			events = append(events, Event{Path: path, Op: Removed})
		}
	}

	if len(events) == 0 {
		w.mu.Unlock()
		return
	}
	w.pending = append(w.pending, events...)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.deliver)
	w.mu.Unlock()
}

// scanRoot records the state of root and, for directories, its immediate
// children. The watched trees are flat so there is no recursion.
func (w *Watcher) scanRoot(root string, into map[string]fileMeta) {
	info, err := os.Stat(root)
	if err != nil {
		if !os.IsNotExist(err) && w.errorHandler != nil {
			w.errorHandler(err)
		}
		return
	}
	into[root] = fileMeta{modTime: info.ModTime(), size: info.Size()}
	if !info.IsDir() {
		return
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return
	}
	for _, d := range entries {
		if fi, err := d.Info(); err == nil {
			into[filepath.Join(root, d.Name())] = fileMeta{modTime: fi.ModTime(), size: fi.Size()}
		}
	}
}

func underAny(path string, roots []string) bool {
	for _, root := range roots {
		if path == root || strings.HasPrefix(path, root+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	var op Op
	switch {
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		op = Removed
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		op = Changed
	default:
		// Chmod-only events are ignored.
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = append(w.pending, Event{Path: ev.Name, Op: op})
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.deliver)
	w.mu.Unlock()
}

func (w *Watcher) deliver() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	events := coalesce(w.pending)
	w.pending = nil
	w.mu.Unlock()

	if len(events) > 0 {
		w.handler(events)
	}
}

// coalesce keeps the last op per path, preserving first-seen order.
func coalesce(events []Event) []Event {
	if len(events) <= 1 {
		return events
	}

	last := make(map[string]Op, len(events))
	order := make([]string, 0, len(events))
	for _, ev := range events {
		if _, seen := last[ev.Path]; !seen {
			order = append(order, ev.Path)
		}
		last[ev.Path] = ev.Op
	}

	out := make([]Event, 0, len(order))
	for _, p := range order {
		out = append(out, Event{Path: p, Op: last[p]})
	}
	return out
}
