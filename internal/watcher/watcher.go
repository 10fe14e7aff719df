// Package watcher keeps the workspace index in sync with on-disk catalog
// edits. `roost watch` runs it standalone; `roost serve` embeds it to push
// live updates to feed subscribers.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/index"
)

const (
	defaultDebounce = 100 * time.Millisecond
	flushInterval   = 50 * time.Millisecond
	defaultPattern  = "*.spawn"
)

// Watcher subscribes to filesystem events under a workspace and reindexes
// catalogs as they change. Rapid write bursts (editors saving in chunks,
// exporters rewriting whole trees) are debounced so each file is parsed once.
type Watcher struct {
	root     string
	db       *index.Database
	patterns []string

	debounceDelay time.Duration
	debug         bool
	onReindex     func(path string, err error)

	fsw     *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]time.Time
}

// Config holds construction options for a Watcher.
type Config struct {
	WorkspacePath string
	Database      *index.Database
	Patterns      []string      // Catalog filename globs. Default: *.spawn
	DebounceDelay time.Duration // Default: 100ms
	Debug         bool
	// OnReindex fires after every index update for a file, whether a
	// completed reindex or a removal. err carries the failure, if any.
	OnReindex func(path string, err error)
}

// New builds a Watcher. Call Start to begin receiving events.
func New(cfg Config) (*Watcher, error) {
	if cfg.WorkspacePath == "" {
		return nil, fmt.Errorf("watcher requires a workspace path")
	}
	if cfg.Database == nil {
		return nil, fmt.Errorf("watcher requires an open index")
	}

	w := &Watcher{
		root:          cfg.WorkspacePath,
		db:            cfg.Database,
		patterns:      cfg.Patterns,
		debounceDelay: cfg.DebounceDelay,
		debug:         cfg.Debug,
		onReindex:     cfg.OnReindex,
		pending:       make(map[string]time.Time),
	}
	if w.debounceDelay == 0 {
		w.debounceDelay = defaultDebounce
	}
	if len(w.patterns) == 0 {
		w.patterns = []string{defaultPattern}
	}
	return w, nil
}

// Start watches the workspace tree until ctx is cancelled. Writes and
// creations are debounced before reindexing; removals and renames drop the
// file from the index immediately.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	w.fsw = fsw
	defer fsw.Close()

	if err := w.watchTree(w.root); err != nil {
		return fmt.Errorf("watch workspace: %w", err)
	}
	w.debugf("watching %s", w.root)

	go w.flushLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.debugf("fsnotify: %v", err)
		}
	}
}

// ReindexFile parses one catalog and writes it to the index. The watcher does
// not need to be running; `roost watch` startup uses this directly.
func (w *Watcher) ReindexFile(path string) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}
	if !w.isCatalogFile(path) || w.underIgnoredDir(path) {
		return nil
	}

	// Stat before reading: if the file changes in between, the recorded
	// mtime is older than the content and the next pass re-parses it.
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat catalog: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	relPath, err := filepath.Rel(w.root, path)
	if err != nil {
		return fmt.Errorf("resolve relative path: %w", err)
	}

	res := catalog.Parse(content)
	if err := w.db.IndexParse(filepath.ToSlash(relPath), stat.ModTime().Unix(), res); err != nil {
		return fmt.Errorf("index catalog: %w", err)
	}
	return nil
}

// RemoveFromIndex drops a file's records from the index.
func (w *Watcher) RemoveFromIndex(path string) error {
	relPath, err := filepath.Rel(w.root, path)
	if err != nil {
		return err
	}
	return w.db.RemoveFile(filepath.ToSlash(relPath))
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := ev.Name

	if !w.isCatalogFile(path) {
		// A new directory needs its own watch before events inside it
		// can arrive.
		if ev.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.watchTree(path)
			}
		}
		return
	}
	if w.underIgnoredDir(path) {
		return
	}

	w.debugf("event: %s %s", ev.Op, path)

	switch {
	case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.scheduleReindex(path)
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		err := w.RemoveFromIndex(path)
		if err != nil {
			w.debugf("drop %s from index: %v", path, err)
		}
		w.emit(path, err)
	}
}

// scheduleReindex queues a file, restarting its debounce window.
func (w *Watcher) scheduleReindex(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

// flushLoop drains the debounce queue on a fixed cadence.
func (w *Watcher) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending reindexes every queued file whose debounce window has
// elapsed.
func (w *Watcher) processPending() {
	w.mu.Lock()
	var due []string
	now := time.Now()
	for path, queuedAt := range w.pending {
		if now.Sub(queuedAt) >= w.debounceDelay {
			due = append(due, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range due {
		err := w.ReindexFile(path)
		if err != nil {
			w.debugf("reindex %s: %v", path, err)
		} else {
			w.debugf("reindexed %s", path)
		}
		w.emit(path, err)
	}
}

// watchTree registers root and every non-ignored directory beneath it.
func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && w.ignoredDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.debugf("watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) isCatalogFile(path string) bool {
	name := filepath.Base(path)
	for _, pat := range w.patterns {
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
	}
	return false
}

// underIgnoredDir reports whether path sits inside a dot-directory such as
// .roost. Mirrors the walk rules in internal/session.
func (w *Watcher) underIgnoredDir(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part != "." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func (w *Watcher) ignoredDir(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

func (w *Watcher) emit(path string, err error) {
	if w.onReindex != nil {
		w.onReindex(path, err)
	}
}

func (w *Watcher) debugf(format string, args ...interface{}) {
	if !w.debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[roost-watcher] "+format+"\n", args...)
}
