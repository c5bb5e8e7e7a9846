// Package library implements the PDF library: folder scanning, thumbnail
// cache keying and storage, thumbnail generation, and the background
// pipeline that streams thumbnails back to the view.
//
// The View owns all interactive state (file list, filter, slots) and is
// the only place pipeline events are applied, so the HTTP surface never
// shares mutable state with the worker.
package library
