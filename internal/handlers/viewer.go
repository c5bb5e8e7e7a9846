package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"pdf-library/internal/logging"
)

// OpenDocument loads a PDF from the current folder into the viewer. The
// name must be a bare file name from the library listing.
func (h *Handlers) OpenDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || strings.ContainsAny(req.Name, "/\\") || req.Name == ".." {
		writeJSONError(w, "invalid file name", http.StatusBadRequest)
		return
	}

	folder := h.view.Folder()
	if folder == "" {
		writeJSONError(w, "no folder open", http.StatusNotFound)
		return
	}

	if err := h.viewer.Open(filepath.Join(folder, req.Name)); err != nil {
		logging.Warn("OpenDocument %s: %v", req.Name, err)
		writeJSONError(w, "cannot open document", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, h.viewer.Info())
}

// GetViewer returns the viewer state: open document, page, page count,
// and zoom.
func (h *Handlers) GetViewer(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.viewer.Info())
}

// CloseDocument releases the open document.
func (h *Handlers) CloseDocument(w http.ResponseWriter, _ *http.Request) {
	h.viewer.Close()
	writeJSONStatus(w, "closed")
}

// GetPage renders the current page at the current zoom and serves it as
// PNG.
func (h *Handlers) GetPage(w http.ResponseWriter, _ *http.Request) {
	data, err := h.viewer.RenderCurrent()
	if err != nil {
		logging.Warn("GetPage: %v", err)
		writeJSONError(w, "render failed", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(data); err != nil {
		logging.Debug("GetPage: write: %v", err)
	}
}

// SetPage navigates the open document. Either an absolute one-based page
// number or a direction ("next", "prev") may be given; page numbers are
// clamped to the document's range.
func (h *Handlers) SetPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page      int    `json:"page"`
		Direction string `json:"direction"`
	}
	if err := readJSON(r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Direction {
	case "next":
		_, err = h.viewer.NextPage()
	case "prev":
		_, err = h.viewer.PrevPage()
	case "":
		if req.Page < 1 {
			writeJSONError(w, "page must be positive", http.StatusBadRequest)
			return
		}
		_, err = h.viewer.GoToPage(req.Page)
	default:
		writeJSONError(w, "unknown direction", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusConflict)
		return
	}

	writeJSON(w, h.viewer.Info())
}

// SetZoom adjusts the viewer zoom. Either an absolute level or a
// direction ("in", "out") may be given; the result is clamped to the
// supported range.
func (h *Handlers) SetZoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Zoom      float64 `json:"zoom"`
		Direction string  `json:"direction"`
	}
	if err := readJSON(r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Direction {
	case "in":
		_, err = h.viewer.ZoomIn()
	case "out":
		_, err = h.viewer.ZoomOut()
	case "":
		if req.Zoom <= 0 {
			writeJSONError(w, "zoom must be positive", http.StatusBadRequest)
			return
		}
		_, err = h.viewer.SetZoom(req.Zoom)
	default:
		writeJSONError(w, "unknown direction", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusConflict)
		return
	}

	writeJSON(w, h.viewer.Info())
}
