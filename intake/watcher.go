// Package intake feeds files dropped into a watched folder into the batch
// selection.
package intake

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/moyoez/dropvault-go/tool"
	"github.com/moyoez/dropvault-go/transfer"
	"github.com/moyoez/dropvault-go/types"
)

const (
	// DefaultQuietPeriod is how long a file must stay unchanged before it is
	// picked up; copies arrive as a stream of writes.
	DefaultQuietPeriod = 500 * time.Millisecond
	// DefaultRetryInterval is the wait before retrying a file that arrived
	// while a batch was running.
	DefaultRetryInterval = time.Second
)

// Adder receives the files picked up by the watcher.
type Adder interface {
	AddFiles(files ...types.FileHandle) ([]types.FileEntry, error)
}

type Options struct {
	Ignore        []string // glob patterns matched against the base name
	QuietPeriod   time.Duration
	RetryInterval time.Duration
	Logger        *log.Logger
}

// Watcher monitors one directory and adds every new or rewritten regular file
// to the selection once it has settled.
type Watcher struct {
	dir       string
	adder     Adder
	ignore    []glob.Glob
	quiet     time.Duration
	retry     time.Duration
	logger    *log.Logger
	fsWatcher *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	closed  bool
	pending map[string]pickup
	busy    map[string]bool // paths whose pickup is between stat and AddFiles
	seq     uint64
	added   map[string]fileStamp
	stop    chan struct{}
	done    chan struct{}
}

// pickup is an armed timer; seq tells a superseded callback from the current one.
type pickup struct {
	timer *time.Timer
	seq   uint64
}

// fileStamp identifies a version of a file so an unchanged file is not added twice.
type fileStamp struct {
	size    int64
	modTime time.Time
}

func NewWatcher(dir string, adder Adder, opts Options) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	ignore := make([]glob.Glob, 0, len(opts.Ignore))
	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		ignore = append(ignore, g)
	}
	if opts.QuietPeriod <= 0 {
		opts.QuietPeriod = DefaultQuietPeriod
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	if opts.Logger == nil {
		opts.Logger = tool.DefaultLogger
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	return &Watcher{
		dir:       dir,
		adder:     adder,
		ignore:    ignore,
		quiet:     opts.QuietPeriod,
		retry:     opts.RetryInterval,
		logger:    opts.Logger,
		fsWatcher: fsWatcher,
		pending:   make(map[string]pickup),
		busy:      make(map[string]bool),
		added:     make(map[string]fileStamp),
	}, nil
}

// Ignored reports whether a file name matches one of the ignore patterns.
func (w *Watcher) Ignored(name string) bool {
	base := filepath.Base(name)
	for _, g := range w.ignore {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Start begins processing events in a background goroutine.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watcher is closed")
	}
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop(w.stop, w.done)
	w.logger.Infof("[Intake] Watching %s", w.dir)
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("[Intake] fsnotify watcher error: %v", err)
		case <-stop:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if w.Ignored(event.Name) {
		return
	}
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.schedule(event.Name, w.quiet)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.mu.Lock()
		if p, ok := w.pending[event.Name]; ok {
			p.timer.Stop()
			delete(w.pending, event.Name)
		}
		delete(w.added, event.Name)
		w.mu.Unlock()
	}
}

// schedule (re)arms the pickup timer of a path. A timer that already fired is
// replaced rather than reset, so its callback runs at most once.
func (w *Watcher) schedule(path string, after time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scheduleLocked(path, after)
}

func (w *Watcher) scheduleLocked(path string, after time.Duration) {
	if !w.running {
		return
	}
	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
	}
	w.seq++
	seq := w.seq
	w.pending[path] = pickup{
		timer: time.AfterFunc(after, func() { w.pickUp(path, seq) }),
		seq:   seq,
	}
}

func (w *Watcher) pickUp(path string, seq uint64) {
	w.mu.Lock()
	if p, ok := w.pending[path]; !ok || p.seq != seq || !w.running {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	if w.busy[path] {
		// another pickup of this path is still adding it
		w.scheduleLocked(path, w.quiet)
		w.mu.Unlock()
		return
	}
	w.busy[path] = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		delete(w.busy, path)
		w.mu.Unlock()
	}()

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	stamp := fileStamp{size: info.Size(), modTime: info.ModTime()}
	w.mu.Lock()
	seen, ok := w.added[path]
	w.mu.Unlock()
	if ok && seen == stamp {
		return
	}

	handle, err := tool.FileHandleFromPath(path)
	if err != nil {
		w.logger.Warnf("[Intake] Skipping %s: %v", path, err)
		return
	}
	if _, err := w.adder.AddFiles(handle); err != nil {
		if errors.Is(err, transfer.ErrInvalidTransition) {
			w.logger.Debugf("[Intake] Batch running, retrying %s in %s", handle.Name, w.retry)
			w.schedule(path, w.retry)
			return
		}
		w.logger.Errorf("[Intake] Failed to add %s: %v", path, err)
		return
	}

	w.mu.Lock()
	w.added[path] = stamp
	w.mu.Unlock()
	w.logger.Infof("[Intake] Added %s (%s)", handle.Name, tool.FormatBytes(handle.Size, 2))
}

// Stop halts the watcher and drops pending pickups. It cannot be restarted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	wasRunning := w.running
	w.running = false
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	if wasRunning {
		close(w.stop)
	}
	done := w.done
	w.mu.Unlock()

	if wasRunning {
		<-done
	}
	if err := w.fsWatcher.Close(); err != nil {
		w.logger.Errorf("[Intake] Error closing fsnotify watcher: %v", err)
	}
	w.logger.Infof("[Intake] Watcher stopped")
}
