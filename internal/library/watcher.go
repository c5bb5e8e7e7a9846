package library

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pdf-library/internal/logging"
)

// debounceWindow batches bursts of filesystem events (bulk copies, editor
// save dances) into a single refresh.
const debounceWindow = 500 * time.Millisecond

// FolderWatcher refreshes a view automatically when PDF files in the open
// folder are created, removed, or rewritten.
type FolderWatcher struct {
	view    *View
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	folder string

	events chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewFolderWatcher creates a watcher bound to view. No folder is watched
// until SetFolder is called.
func NewFolderWatcher(view *View) (*FolderWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	w := &FolderWatcher{
		view:    view,
		watcher: fsw,
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	w.wg.Add(2)
	go w.watchLoop()
	go w.refreshLoop()

	return w, nil
}

// SetFolder switches the watched directory. The previous directory is
// unwatched first; an empty dir just stops watching.
func (w *FolderWatcher) SetFolder(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.folder == dir {
		return nil
	}
	if w.folder != "" {
		if err := w.watcher.Remove(w.folder); err != nil {
			logging.Debug("Watcher: removing %s: %v", w.folder, err)
		}
		w.folder = ""
	}
	if dir == "" {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.folder = dir
	logging.Debug("Watcher: watching %s", dir)
	return nil
}

// Stop shuts the watcher down and waits for its goroutines to exit.
func (w *FolderWatcher) Stop() {
	close(w.done)
	if err := w.watcher.Close(); err != nil {
		logging.Debug("Watcher: close: %v", err)
	}
	w.wg.Wait()
}

// watchLoop turns raw filesystem events into refresh signals. Only events
// for .pdf names count; chmod-only events are ignored.
func (w *FolderWatcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".pdf") {
				continue
			}
			select {
			case w.events <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Watcher: %v", err)
		}
	}
}

// refreshLoop debounces signals and triggers the actual view refresh.
func (w *FolderWatcher) refreshLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.events:
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}
		case <-fire:
			timer = nil
			fire = nil
			logging.Debug("Watcher: folder changed, refreshing library")
			if err := w.view.Refresh(); err != nil {
				logging.Warn("Watcher: refresh failed: %v", err)
			}
		}
	}
}
