// Package watcher re-runs an analysis callback whenever the project
// manifest changes on disk.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// manifestNames are the files whose changes trigger a re-analysis.
var manifestNames = map[string]bool{
	"package.json":      true,
	"package-lock.json": true,
}

// debounceDelay coalesces the burst of write events editors and npm
// itself produce for a single logical change.
const debounceDelay = 2 * time.Second

// Watcher watches a project directory's manifest files and invokes a
// callback after changes settle.
type Watcher struct {
	fw       *fsnotify.Watcher
	dir      string
	onChange func()

	mu      sync.Mutex
	pending *time.Timer

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher for the given project directory. onChange runs
// on the watcher goroutine; it must not block indefinitely.
func New(dir string, onChange func()) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback cannot be nil")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		fw:       fw,
		dir:      dir,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins processing filesystem events.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !manifestNames[filepath.Base(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleChange()

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; keep watching.

		case <-w.stopCh:
			return
		}
	}
}

// scheduleChange (re)arms the debounce timer.
func (w *Watcher) scheduleChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(debounceDelay, w.onChange)
}

// Stop halts event processing and releases the filesystem watcher.
func (w *Watcher) Stop() error {
	close(w.stopCh)

	w.mu.Lock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	err := w.fw.Close()
	w.wg.Wait()
	return err
}
