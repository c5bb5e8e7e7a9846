package library

import (
	"context"
	"sync"
	"time"

	"pdf-library/internal/logging"
	"pdf-library/internal/metrics"
)

// Pipeline processes ordered PDF file lists into thumbnails in the
// background. At most one run is active at a time: starting a new run
// first cancels the previous one and waits for it to quiesce, so two runs
// can never race to populate the same slots or cache keys with stale
// parameters.
type Pipeline struct {
	gen     *Generator
	workers int

	mu      sync.Mutex
	current *Run
}

// NewPipeline creates a pipeline. workers is the size of the rasterizer
// pool; 1 means strictly sequential processing. Ready events are emitted
// in input-list order either way.
func NewPipeline(gen *Generator, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{gen: gen, workers: workers}
}

// Start begins a run over files, generating page thumbnails fitted within
// width x height. Any active run is cancelled and fully drained before the
// new run begins. The returned Run's event channel carries one ready event
// per file in list order, then a final done event, then closes.
func (p *Pipeline) Start(files []FileEntry, page, width, height int) *Run {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Cancel()
		<-p.current.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	run := &Run{
		gen:     p.gen,
		workers: p.workers,
		files:   files,
		page:    page,
		width:   width,
		height:  height,
		ctx:     ctx,
		cancel:  cancel,
		// Buffered for the whole run so the worker can always finish
		// draining even if the consumer has gone away.
		events: make(chan Event, len(files)+1),
		done:   make(chan struct{}),
	}
	p.current = run

	metrics.PipelineRunsTotal.Inc()
	logging.Debug("Pipeline: starting run over %d files (page %d, %dx%d, %d workers)",
		len(files), page, width, height, p.workers)

	go run.run()
	return run
}

// Stop cancels any active run and waits for it to terminate.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Cancel()
		<-p.current.done
		p.current = nil
	}
}

// Active reports whether a run is currently in flight.
func (p *Pipeline) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return false
	}
	select {
	case <-p.current.done:
		return false
	default:
		return true
	}
}

// Run is one pipeline execution over an ordered file list, from start to
// completion or cancellation.
type Run struct {
	gen     *Generator
	workers int
	files   []FileEntry
	page    int
	width   int
	height  int

	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
	done   chan struct{}
}

// Events returns the run's notification channel. It is closed after the
// final done event.
func (r *Run) Events() <-chan Event {
	return r.events
}

// Cancel requests a cooperative stop. The flag is checked at file
// boundaries; a generation already in progress runs to completion.
func (r *Run) Cancel() {
	r.cancel()
}

// Wait blocks until the run has fully quiesced: no more events will be
// emitted and no shared state is being touched.
func (r *Run) Wait() {
	<-r.done
}

func (r *Run) run() {
	defer close(r.done)

	start := time.Now()
	metrics.PipelineActive.Set(1)
	defer metrics.PipelineActive.Set(0)

	total := len(r.files)
	completed := 0
	if total > 0 {
		if r.workers <= 1 {
			completed = r.processSequential()
		} else {
			completed = r.processPooled()
		}
	}

	outcome := RunCompleted
	progress := 100
	if completed < total {
		outcome = RunCancelled
		progress = completed * 100 / total
		metrics.PipelineRunsCancelled.Inc()
	}

	r.events <- Event{Kind: EventDone, Outcome: outcome, Progress: progress}
	close(r.events)

	metrics.PipelineRunDuration.Observe(time.Since(start).Seconds())
	logging.Debug("Pipeline: run %s after %d/%d files in %v", outcome, completed, total, time.Since(start))
}

// processSequential handles the base design: one file at a time, emitting
// as it goes. Returns the number of files completed.
func (r *Run) processSequential() int {
	total := len(r.files)
	completed := 0

	for _, f := range r.files {
		select {
		case <-r.ctx.Done():
			return completed
		default:
		}

		thumb := r.gen.Generate(f.Path, r.page, r.width, r.height)
		completed++
		metrics.PipelineFilesProcessed.Inc()

		r.events <- Event{
			Kind:     EventReady,
			Path:     f.Path,
			Failed:   thumb.Placeholder,
			Image:    thumb.Image,
			Progress: completed * 100 / total,
		}
	}

	return completed
}

type renderResult struct {
	index int
	thumb Thumbnail
}

// processPooled runs a bounded worker pool over the file list but holds
// back out-of-order results so ready events are still emitted in input
// order. On cancellation only the contiguous completed prefix is emitted.
// Returns the number of files emitted.
func (r *Run) processPooled() int {
	total := len(r.files)

	jobs := make(chan int)
	results := make(chan renderResult, r.workers)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				select {
				case <-r.ctx.Done():
					return
				default:
				}
				results <- renderResult{
					index: idx,
					thumb: r.gen.Generate(r.files[idx].Path, r.page, r.width, r.height),
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range r.files {
			select {
			case <-r.ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]Thumbnail)
	next := 0
	for res := range results {
		metrics.PipelineFilesProcessed.Inc()
		pending[res.index] = res.thumb

		for {
			thumb, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)

			r.events <- Event{
				Kind:     EventReady,
				Path:     r.files[next].Path,
				Failed:   thumb.Placeholder,
				Image:    thumb.Image,
				Progress: (next + 1) * 100 / total,
			}
			next++
		}
	}

	return next
}
