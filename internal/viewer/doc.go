// Package viewer holds the open-document state of the reader: one PDF
// handle at a time, the current page, and the zoom level, with rendering
// of the current page to PNG.
package viewer
