package pdfrender

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// Natural resolution of a PDF point grid.
const baseDPI = 72.0

// FitzOpener opens documents with go-fitz (MuPDF).
type FitzOpener struct{}

// Open opens the PDF at path.
func (FitzOpener) Open(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document %s: %w", path, err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) RenderPage(page int, scale float64) (image.Image, error) {
	if page < 0 || page >= d.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range [0, %d)", page, d.doc.NumPage())
	}
	if scale <= 0 {
		scale = 1.0
	}

	img, err := d.doc.ImageDPI(page, baseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("unable to render page %d: %w", page, err)
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
