package library

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"pdf-library/internal/logging"
	"pdf-library/internal/metrics"
	"pdf-library/internal/pdfrender"

	"github.com/disintegration/imaging"
)

// Pages are rasterized at twice the target resolution before downscaling,
// which keeps text legible in small thumbnails.
const oversampleFactor = 2.0

// Thumbnail is the result of one Generate call.
type Thumbnail struct {
	Image image.Image
	// Placeholder is true when the source could not be rendered and the
	// image is a solid fill of the target size.
	Placeholder bool
	// FromCache is true when the image was served from the disk cache.
	FromCache bool
}

// Generator produces bounded-size thumbnails for PDF pages, consulting the
// cache first and falling back to a placeholder image for unrenderable
// input.
type Generator struct {
	cache  *Cache
	opener pdfrender.Opener
}

// NewGenerator creates a Generator backed by the given cache and opener.
func NewGenerator(cache *Cache, opener pdfrender.Opener) *Generator {
	return &Generator{cache: cache, opener: opener}
}

// Generate produces a thumbnail of the given page of the PDF at pdfPath,
// fitted within width x height while preserving aspect ratio.
//
// It never fails for malformed or unreadable input: an unopenable or
// zero-page document yields a placeholder of exactly the requested size.
// A page index past the end of the document is clamped to the last page.
// Panics only on non-positive target dimensions, which is a caller bug.
func (g *Generator) Generate(pdfPath string, page, width, height int) Thumbnail {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("library: invalid thumbnail size %dx%d", width, height))
	}

	key := DeriveKey(pdfPath, page, width, height)
	if img, ok := g.cache.Lookup(key); ok {
		logging.Debug("Thumbnail cache hit: %s", pdfPath)
		metrics.ThumbnailsTotal.WithLabelValues("cache_hit").Inc()
		return Thumbnail{Image: img, FromCache: true}
	}

	start := time.Now()
	defer func() {
		metrics.ThumbnailGenerationDuration.Observe(time.Since(start).Seconds())
	}()

	doc, err := g.opener.Open(pdfPath)
	if err != nil {
		logging.Warn("Thumbnail: failed to open %s: %v", pdfPath, err)
		metrics.ThumbnailsTotal.WithLabelValues("placeholder").Inc()
		return Thumbnail{Image: Placeholder(width, height), Placeholder: true}
	}
	defer func() {
		if err := doc.Close(); err != nil {
			logging.Warn("Thumbnail: failed to close %s: %v", pdfPath, err)
		}
	}()

	pageCount := doc.PageCount()
	if pageCount == 0 {
		logging.Warn("Thumbnail: %s has no pages", pdfPath)
		metrics.ThumbnailsTotal.WithLabelValues("placeholder").Inc()
		return Thumbnail{Image: Placeholder(width, height), Placeholder: true}
	}

	// Out-of-range page requests fall back to the nearest valid page
	// instead of failing.
	clamped := page
	if clamped < 0 {
		clamped = 0
	}
	if clamped >= pageCount {
		clamped = pageCount - 1
	}

	img, err := doc.RenderPage(clamped, oversampleFactor)
	if err != nil {
		logging.Warn("Thumbnail: failed to render page %d of %s: %v", clamped, pdfPath, err)
		metrics.ThumbnailsTotal.WithLabelValues("placeholder").Inc()
		return Thumbnail{Image: Placeholder(width, height), Placeholder: true}
	}

	thumb := imaging.Fit(img, width, height, imaging.Lanczos)

	g.cache.Store(key, thumb)

	metrics.ThumbnailsTotal.WithLabelValues("generated").Inc()
	return Thumbnail{Image: thumb}
}

// Placeholder returns the solid light-gray substitute thumbnail used when
// real rendering is not possible. Its dimensions are exactly the requested
// target size.
func Placeholder(width, height int) image.Image {
	return imaging.New(width, height, color.NRGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff})
}
