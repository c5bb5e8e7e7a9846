package library

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"time"

	"pdf-library/internal/pdfrender"

	"github.com/disintegration/imaging"
)

// fakeDoc is a pdfrender.Document test double that renders solid-color
// pages at a fixed 200x300 point size scaled by the render scale.
type fakeDoc struct {
	opener    *fakeOpener
	path      string
	pages     int
	renderErr error

	mu           sync.Mutex
	renderedPage int
	closed       bool
}

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) RenderPage(page int, scale float64) (image.Image, error) {
	d.mu.Lock()
	d.renderedPage = page
	d.mu.Unlock()

	if d.renderErr != nil {
		return nil, d.renderErr
	}
	if d.opener != nil && d.opener.renderDelay > 0 {
		time.Sleep(d.opener.renderDelay)
	}
	if d.opener != nil && d.opener.gated(d.path) {
		<-d.opener.gate
	}
	c := color.NRGBA{R: uint8(50 + page*20), G: 100, B: 200, A: 255}
	return imaging.New(int(200*scale), int(300*scale), c), nil
}

func (d *fakeDoc) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// fakeOpener is a pdfrender.Opener test double. Paths in failPaths refuse
// to open; renderDelay slows page rendering down for cancellation tests;
// renders of paths in gatePaths block until a token arrives on gate (a
// closed gate lets everything through).
type fakeOpener struct {
	pages       int
	failPaths   map[string]bool
	gatePaths   map[string]bool
	gate        chan struct{}
	renderErr   error
	renderDelay time.Duration

	mu    sync.Mutex
	opens int
	docs  []*fakeDoc
}

func newFakeOpener(pages int) *fakeOpener {
	return &fakeOpener{
		pages:     pages,
		failPaths: make(map[string]bool),
		gatePaths: make(map[string]bool),
	}
}

func (o *fakeOpener) gated(path string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gate != nil && o.gatePaths[path]
}

func (o *fakeOpener) Open(path string) (pdfrender.Document, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.opens++
	if o.failPaths[path] {
		return nil, errors.New("cannot parse document")
	}
	doc := &fakeDoc{opener: o, path: path, pages: o.pages, renderErr: o.renderErr}
	o.docs = append(o.docs, doc)
	return doc, nil
}

func (o *fakeOpener) openCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens
}
