package pdfrender

import "image"

// Document is an open PDF ready for rasterization. Implementations are not
// required to be safe for concurrent use; each goroutine should open its
// own document.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// RenderPage rasterizes the zero-based page at the given scale, where
	// scale 1.0 corresponds to the document's natural 72 DPI resolution.
	RenderPage(page int, scale float64) (image.Image, error)

	// Close releases the underlying document handle. It must be called
	// exactly once for every successfully opened document.
	Close() error
}

// Opener opens PDF documents by filesystem path. A failed open must be
// reported as an error, never a panic, regardless of how malformed the
// file is.
type Opener interface {
	Open(path string) (Document, error)
}

// NewOpener returns the default MuPDF-backed opener.
func NewOpener() Opener {
	return FitzOpener{}
}
