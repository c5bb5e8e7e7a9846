package viewer

import (
	"fmt"
	"sync"
	"time"

	"pdf-library/internal/library"
	"pdf-library/internal/logging"
	"pdf-library/internal/metrics"
	"pdf-library/internal/pdfrender"
)

const (
	// MinZoom and MaxZoom bound the zoom level.
	MinZoom = 0.1
	MaxZoom = 5.0

	// zoomStep is the multiplicative factor for one zoom in/out step.
	zoomStep = 1.2

	// baseScale is the render scale at zoom 1.0. Pages are rasterized
	// above screen resolution so they stay sharp when zoomed by the
	// client.
	baseScale = 2.5
)

// Viewer holds at most one open document. All navigation and rendering is
// serialized; a new Open replaces the previous document only after the new
// one has opened successfully.
type Viewer struct {
	opener pdfrender.Opener

	mu        sync.Mutex
	doc       pdfrender.Document
	path      string
	page      int // zero-based
	pageCount int
	zoom      float64
}

// Info is a snapshot of the viewer state. Page numbers are one-based;
// Page and PageCount are zero when no document is open.
type Info struct {
	Open      bool    `json:"open"`
	Path      string  `json:"path,omitempty"`
	Page      int     `json:"page"`
	PageCount int     `json:"pageCount"`
	Zoom      float64 `json:"zoom"`
}

// New creates an empty viewer.
func New(opener pdfrender.Opener) *Viewer {
	return &Viewer{opener: opener, zoom: 1.0}
}

// Open loads the document at path, starting at the first page with zoom
// reset to 1.0. On success any previously open document is closed; on
// failure the previous document stays open and usable.
func (v *Viewer) Open(path string) error {
	doc, err := v.opener.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if doc.PageCount() < 1 {
		if cerr := doc.Close(); cerr != nil {
			logging.Warn("Viewer: closing empty document %s: %v", path, cerr)
		}
		return fmt.Errorf("document %s has no pages", path)
	}

	v.mu.Lock()
	old := v.doc
	v.doc = doc
	v.path = path
	v.page = 0
	v.pageCount = doc.PageCount()
	v.zoom = 1.0
	v.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			logging.Warn("Viewer: closing previous document: %v", err)
		}
	}

	metrics.ViewerDocumentsOpened.Inc()
	logging.Info("Viewer: opened %s (%d pages)", path, doc.PageCount())
	return nil
}

// Close releases the open document, if any.
func (v *Viewer) Close() {
	v.mu.Lock()
	doc := v.doc
	v.doc = nil
	v.path = ""
	v.page = 0
	v.pageCount = 0
	v.zoom = 1.0
	v.mu.Unlock()

	if doc != nil {
		if err := doc.Close(); err != nil {
			logging.Warn("Viewer: close: %v", err)
		}
	}
}

// IsOpen reports whether a document is loaded.
func (v *Viewer) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.doc != nil
}

// Info snapshots the current state.
func (v *Viewer) Info() Info {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.doc == nil {
		return Info{Zoom: v.zoom}
	}
	return Info{
		Open:      true,
		Path:      v.path,
		Page:      v.page + 1,
		PageCount: v.pageCount,
		Zoom:      v.zoom,
	}
}

// NextPage advances one page, staying on the last page at the end.
// Returns the one-based page now shown.
func (v *Viewer) NextPage() (int, error) {
	return v.goTo(func(cur int) int { return cur + 1 })
}

// PrevPage goes back one page, staying on the first page at the start.
// Returns the one-based page now shown.
func (v *Viewer) PrevPage() (int, error) {
	return v.goTo(func(cur int) int { return cur - 1 })
}

// GoToPage jumps to a one-based page number, clamped to the document's
// range. Returns the one-based page now shown.
func (v *Viewer) GoToPage(page int) (int, error) {
	return v.goTo(func(int) int { return page - 1 })
}

func (v *Viewer) goTo(target func(cur int) int) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.doc == nil {
		return 0, fmt.Errorf("no document open")
	}
	page := target(v.page)
	if page < 0 {
		page = 0
	}
	if page > v.pageCount-1 {
		page = v.pageCount - 1
	}
	v.page = page
	return page + 1, nil
}

// ZoomIn increases zoom by one step, up to MaxZoom. Returns the new zoom.
func (v *Viewer) ZoomIn() (float64, error) {
	return v.setZoom(func(cur float64) float64 { return cur * zoomStep })
}

// ZoomOut decreases zoom by one step, down to MinZoom. Returns the new zoom.
func (v *Viewer) ZoomOut() (float64, error) {
	return v.setZoom(func(cur float64) float64 { return cur / zoomStep })
}

// SetZoom sets an absolute zoom level, clamped to [MinZoom, MaxZoom].
// Returns the zoom actually applied.
func (v *Viewer) SetZoom(zoom float64) (float64, error) {
	return v.setZoom(func(float64) float64 { return zoom })
}

func (v *Viewer) setZoom(target func(cur float64) float64) (float64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.doc == nil {
		return 0, fmt.Errorf("no document open")
	}
	zoom := target(v.zoom)
	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	v.zoom = zoom
	return zoom, nil
}

// RenderCurrent rasterizes the current page at the current zoom level and
// returns it PNG-encoded.
func (v *Viewer) RenderCurrent() ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.doc == nil {
		return nil, fmt.Errorf("no document open")
	}

	start := time.Now()
	img, err := v.doc.RenderPage(v.page, v.zoom*baseScale)
	if err != nil {
		metrics.ViewerRendersTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rendering page %d of %s: %w", v.page+1, v.path, err)
	}

	data, err := library.EncodePNG(img)
	if err != nil {
		metrics.ViewerRendersTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("encoding page %d of %s: %w", v.page+1, v.path, err)
	}

	metrics.ViewerRendersTotal.WithLabelValues("success").Inc()
	metrics.ViewerRenderDuration.Observe(time.Since(start).Seconds())
	return data, nil
}
