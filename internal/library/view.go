package library

import (
	"fmt"
	"image"
	"sync"

	"pdf-library/internal/logging"
	"pdf-library/internal/metrics"
)

// View owns the browsing state of the library: the current folder, the
// filtered file list, one thumbnail slot per visible file, and the pipeline
// run populating those slots. All mutation of slots happens on the view's
// side by consuming pipeline events, never from worker goroutines directly.
type View struct {
	pipeline *Pipeline
	cache    *Cache

	// restartMu serializes the operations that tear down one run and
	// start another, so overlapping folder/filter/settings changes cannot
	// interleave their restarts.
	restartMu sync.Mutex

	mu       sync.RWMutex
	folder   string
	filter   string
	entries  []FileEntry
	visible  []FileEntry
	slots    map[string]*Slot
	progress int
	state    RunState
	run      *Run
	// consumeDone is closed when the consume goroutine for v.run exits;
	// restartLocked waits on it so a superseded consumer can never publish
	// after the new run's consumer has started.
	consumeDone chan struct{}

	page   int
	width  int
	height int

	subMu sync.Mutex
	subs  map[chan Event]struct{}
}

// NewView creates a view generating page thumbnails fitted within
// width x height. The view starts empty; call OpenFolder to populate it.
func NewView(pipeline *Pipeline, cache *Cache, page, width, height int) *View {
	if page < 0 {
		page = 0
	}
	return &View{
		pipeline: pipeline,
		cache:    cache,
		slots:    make(map[string]*Slot),
		state:    StateIdle,
		progress: 0,
		page:     page,
		width:    width,
		height:   height,
		subs:     make(map[chan Event]struct{}),
	}
}

// OpenFolder scans dir for PDF files and starts generating thumbnails for
// them. The previous folder's state is replaced; the active filter is
// cleared. A scan failure leaves the view untouched.
func (v *View) OpenFolder(dir string) error {
	entries, err := ListPDFs(dir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}

	v.restartMu.Lock()
	defer v.restartMu.Unlock()

	v.mu.Lock()
	v.folder = dir
	v.filter = ""
	v.entries = entries
	v.mu.Unlock()

	logging.Info("Library: opened folder %s (%d PDF files)", dir, len(entries))
	metrics.LibraryFiles.Set(float64(len(entries)))

	v.restartLocked()
	return nil
}

// SetFilter narrows the visible list to names containing query
// (case-insensitive) and regenerates thumbnails for the visible files.
// An empty query shows everything.
func (v *View) SetFilter(query string) {
	v.restartMu.Lock()
	defer v.restartMu.Unlock()

	v.mu.Lock()
	v.filter = query
	v.mu.Unlock()

	v.restartLocked()
}

// Refresh rescans the current folder and restarts thumbnail generation.
// It is a no-op if no folder is open.
func (v *View) Refresh() error {
	v.restartMu.Lock()
	defer v.restartMu.Unlock()

	v.mu.RLock()
	dir := v.folder
	v.mu.RUnlock()
	if dir == "" {
		return nil
	}

	entries, err := ListPDFs(dir)
	if err != nil {
		return fmt.Errorf("rescanning %s: %w", dir, err)
	}

	v.mu.Lock()
	v.entries = entries
	v.mu.Unlock()

	logging.Debug("Library: refreshed %s (%d PDF files)", dir, len(entries))
	metrics.LibraryFiles.Set(float64(len(entries)))

	v.restartLocked()
	return nil
}

// ClearCache stops the active run, removes every cached thumbnail from
// disk, and regenerates thumbnails for the visible files from scratch.
// It returns the number of cache files removed.
func (v *View) ClearCache() (int, error) {
	v.restartMu.Lock()
	defer v.restartMu.Unlock()

	v.pipeline.Stop()
	removed, err := v.cache.ClearAll()
	if err != nil {
		logging.Warn("Library: cache clear removed %d files with error: %v", removed, err)
	} else {
		logging.Info("Library: cache cleared, %d files removed", removed)
	}

	v.restartLocked()
	return removed, err
}

// ReapplySettings changes the rendered page and thumbnail dimensions and
// regenerates every visible thumbnail with the new parameters. Existing
// cache entries for other parameters stay on disk and are simply not
// looked up anymore.
func (v *View) ReapplySettings(page, width, height int) error {
	if page < 0 {
		return fmt.Errorf("page must be non-negative, got %d", page)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid thumbnail size %dx%d", width, height)
	}

	v.restartMu.Lock()
	defer v.restartMu.Unlock()

	v.mu.Lock()
	v.page = page
	v.width = width
	v.height = height
	v.mu.Unlock()

	v.restartLocked()
	return nil
}

// restartLocked resets every visible slot to pending and starts a fresh
// pipeline run over the visible list. Caller must hold restartMu.
func (v *View) restartLocked() {
	v.mu.Lock()
	// Clear the run identity in the same critical section that resets the
	// slots. The old consumer may still be draining buffered events, and
	// Start below can block on an in-flight render; anything it drains in
	// that window must be discarded, not applied to the fresh slot map.
	v.run = nil
	oldConsume := v.consumeDone
	v.consumeDone = nil

	v.visible = FilterEntries(v.entries, v.filter)

	v.slots = make(map[string]*Slot, len(v.visible))
	for _, f := range v.visible {
		v.slots[f.Path] = &Slot{Path: f.Path, State: SlotPending}
	}
	v.progress = 0
	v.state = StateRunning

	files := make([]FileEntry, len(v.visible))
	copy(files, v.visible)
	page, width, height := v.page, v.width, v.height
	v.mu.Unlock()

	run := v.pipeline.Start(files, page, width, height)

	// Start has cancelled and fully drained the old run, so its event
	// channel is closed; wait for the old consumer to exit so none of its
	// publishes can land after the new run's.
	if oldConsume != nil {
		<-oldConsume
	}

	done := make(chan struct{})
	v.mu.Lock()
	v.run = run
	v.consumeDone = done
	v.mu.Unlock()

	go v.consume(run, done)
}

// consume applies one run's events to the view. Events from a superseded
// run are discarded: restartLocked clears v.run before touching any state,
// so the identity check fails for every event the old consumer drains from
// that point on, buffered or in flight.
func (v *View) consume(run *Run, done chan struct{}) {
	defer close(done)

	for ev := range run.Events() {
		v.mu.Lock()
		if v.run != run {
			v.mu.Unlock()
			continue
		}

		switch ev.Kind {
		case EventReady:
			if slot, ok := v.slots[ev.Path]; ok {
				slot.Image = ev.Image
				if ev.Failed {
					slot.State = SlotFailed
				} else {
					slot.State = SlotReady
				}
			}
			v.progress = ev.Progress
		case EventDone:
			v.progress = ev.Progress
			v.state = StateIdle
		}
		v.mu.Unlock()

		v.publish(ev)
	}
}

// publish fans an event out to every subscriber without blocking. A
// subscriber that cannot keep up loses events rather than stalling the
// consume loop.
func (v *View) publish(ev Event) {
	v.subMu.Lock()
	defer v.subMu.Unlock()

	for ch := range v.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers for pipeline events. The returned cancel function
// unregisters and closes the channel; it is safe to call more than once.
func (v *View) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)

	v.subMu.Lock()
	v.subs[ch] = struct{}{}
	v.subMu.Unlock()

	cancel := func() {
		v.subMu.Lock()
		defer v.subMu.Unlock()
		if _, ok := v.subs[ch]; ok {
			delete(v.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Folder returns the currently open folder, or "" if none.
func (v *View) Folder() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.folder
}

// Filter returns the active filter query.
func (v *View) Filter() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter
}

// Files returns the visible (filtered) file list in display order.
func (v *View) Files() []FileEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]FileEntry, len(v.visible))
	copy(out, v.visible)
	return out
}

// Progress returns the integer percentage of the current run, 0-100.
func (v *View) Progress() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.progress
}

// State reports whether a run is active.
func (v *View) State() RunState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Settings returns the current thumbnail parameters.
func (v *View) Settings() (page, width, height int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.page, v.width, v.height
}

// Slot returns the thumbnail slot for path, if it is visible.
func (v *View) Slot(path string) (Slot, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	slot, ok := v.slots[path]
	if !ok {
		return Slot{}, false
	}
	return *slot, true
}

// Thumbnail returns the slot image for path. A pending slot has no image
// yet; ready is false until the pipeline has produced one.
func (v *View) Thumbnail(path string) (img image.Image, state SlotState, ok bool) {
	slot, ok := v.Slot(path)
	if !ok {
		return nil, "", false
	}
	return slot.Image, slot.State, true
}

// Stats snapshots counters for the metrics collector.
func (v *View) Stats() metrics.Stats {
	v.mu.RLock()
	files := len(v.entries)
	var pending, ready, failed int
	for _, slot := range v.slots {
		switch slot.State {
		case SlotPending:
			pending++
		case SlotReady:
			ready++
		case SlotFailed:
			failed++
		}
	}
	v.mu.RUnlock()

	size, entries := v.cache.Size()
	return metrics.Stats{
		Files:          files,
		SlotsPending:   pending,
		SlotsReady:     ready,
		SlotsFailed:    failed,
		CacheEntries:   entries,
		CacheSizeBytes: size,
	}
}

// Close stops the active run and disconnects every subscriber.
func (v *View) Close() {
	v.pipeline.Stop()

	v.subMu.Lock()
	for ch := range v.subs {
		close(ch)
		delete(v.subs, ch)
	}
	v.subMu.Unlock()
}
