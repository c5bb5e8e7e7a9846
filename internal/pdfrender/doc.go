// Package pdfrender wraps the MuPDF-based go-fitz bindings behind small
// Opener/Document interfaces so callers (thumbnail generation, the page
// viewer) can be tested against fake documents without CGo.
package pdfrender
