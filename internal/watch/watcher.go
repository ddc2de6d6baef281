// Package watch reports settled filesystem changes under the project source tree.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"adbuild/internal/logging"
)

// Watcher watches a directory tree recursively and emits batches of changed
// paths once no new event has arrived for the debounce window.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	root        string
	ignore      map[string]bool
	excluded    []string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	changes     chan []string
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Batches       int
	Errors        int
	WatchedDirs   int
	LastEventTime time.Time
	LastEventPath string
}

// New creates a Watcher for root. Directory names in ignore are skipped at any depth.
func New(root string, ignore []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	ig := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ig[name] = true
	}
	return &Watcher{
		watcher:     fw,
		root:        root,
		ignore:      ig,
		debounceMap: make(map[string]time.Time),
		debounceDur: debounce,
		changes:     make(chan []string),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Exclude skips every path at or below dirs, wherever they sit in the tree.
// It must be called before Start.
func (w *Watcher) Exclude(dirs ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range dirs {
		if abs, err := filepath.Abs(d); err == nil {
			w.excluded = append(w.excluded, abs)
		}
	}
}

// Changes delivers sorted batches of changed paths. It is closed when the watcher stops.
func (w *Watcher) Changes() <-chan []string {
	return w.changes
}

// Start adds every directory under root and begins watching in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addTree(w.root); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	logging.Watch("Watching %s (%d dirs, debounce=%s)", w.root, w.Stats().WatchedDirs, w.debounceDur)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.WatchError("error closing watcher: %v", err)
	}
	logging.Watch("Watcher stopped")
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// Ignored reports whether path lies under an excluded directory or any path
// element of path below root is in the ignore set.
func (w *Watcher) Ignored(path string) bool {
	if abs, err := filepath.Abs(path); err == nil {
		w.mu.RLock()
		excluded := w.excluded
		w.mu.RUnlock()
		for _, dir := range excluded {
			if within(dir, abs) {
				return true
			}
		}
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if w.ignore[part] {
			return true
		}
	}
	return false
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return filepath.IsLocal(rel)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.Ignored(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return err
		}
		w.mu.Lock()
		w.stats.WatchedDirs++
		w.mu.Unlock()
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.changes)

	tick := w.debounceDur / 5
	if tick < time.Millisecond {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var pending []string
	for {
		// A nil channel disables the send case until there is a batch.
		var out chan []string
		if len(pending) > 0 {
			out = w.changes
		}

		select {
		case <-ctx.Done():
			logging.Watch("Watcher context cancelled")
			return

		case <-w.stopCh:
			return

		case out <- pending:
			w.mu.Lock()
			w.stats.Batches++
			w.mu.Unlock()
			pending = nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.WatchError("watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			pending = mergePaths(pending, w.settled())
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod || w.Ignored(event.Name) {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				logging.WatchError("failed to watch new dir %s: %v", event.Name, err)
			}
		}
	}

	logging.WatchDebug("%s %s", event.Op, event.Name)

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = event.Name
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

// settled drains the debounce map once the newest event is older than the window.
func (w *Watcher) settled() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.debounceMap) == 0 {
		return nil
	}
	now := time.Now()
	for _, t := range w.debounceMap {
		if now.Sub(t) < w.debounceDur {
			return nil
		}
	}

	paths := make([]string, 0, len(w.debounceMap))
	for p := range w.debounceMap {
		paths = append(paths, p)
		delete(w.debounceMap, p)
	}
	sort.Strings(paths)
	return paths
}

func mergePaths(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]bool, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, p := range append(append([]string{}, a...), b...) {
		if !seen[p] {
			seen[p] = true
			merged = append(merged, p)
		}
	}
	sort.Strings(merged)
	return merged
}
