package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"pdf-library/internal/library"
	"pdf-library/internal/logging"
)

// LibraryResponse is the full browsing state returned by GetLibrary.
type LibraryResponse struct {
	Folder   string            `json:"folder"`
	Filter   string            `json:"filter,omitempty"`
	State    library.RunState  `json:"state"`
	Progress int               `json:"progress"`
	Files    []LibraryFileItem `json:"files"`
}

// LibraryFileItem is one visible PDF with its thumbnail slot state.
type LibraryFileItem struct {
	Name    string            `json:"name"`
	Size    int64             `json:"size"`
	ModTime time.Time         `json:"modTime"`
	State   library.SlotState `json:"state"`
}

// GetLibrary returns the current folder, filter, run progress, and the
// visible file list with per-file thumbnail states.
func (h *Handlers) GetLibrary(w http.ResponseWriter, _ *http.Request) {
	files := h.view.Files()

	items := make([]LibraryFileItem, 0, len(files))
	for _, f := range files {
		state := library.SlotPending
		if slot, ok := h.view.Slot(f.Path); ok {
			state = slot.State
		}
		items = append(items, LibraryFileItem{
			Name:    f.Name,
			Size:    f.Size,
			ModTime: f.ModTime,
			State:   state,
		})
	}

	writeJSON(w, LibraryResponse{
		Folder:   h.view.Folder(),
		Filter:   h.view.Filter(),
		State:    h.view.State(),
		Progress: h.view.Progress(),
		Files:    items,
	})
}

// OpenFolder switches the library to a new folder and starts thumbnail
// generation for its PDF files.
func (h *Handlers) OpenFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := readJSON(r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return
	}

	if err := h.view.OpenFolder(req.Path); err != nil {
		logging.Warn("OpenFolder %s: %v", req.Path, err)
		writeJSONError(w, "cannot open folder", http.StatusBadRequest)
		return
	}

	if h.watcher != nil {
		if err := h.watcher.SetFolder(h.view.Folder()); err != nil {
			logging.Warn("OpenFolder: watch setup failed: %v", err)
		}
	}

	h.GetLibrary(w, r)
}

// SetFilter narrows the visible file list by a case-insensitive name
// substring. An empty query clears the filter.
func (h *Handlers) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := readJSON(r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.view.SetFilter(req.Query)
	h.GetLibrary(w, r)
}

// RefreshLibrary rescans the current folder.
func (h *Handlers) RefreshLibrary(w http.ResponseWriter, r *http.Request) {
	if err := h.view.Refresh(); err != nil {
		logging.Warn("RefreshLibrary: %v", err)
		writeJSONError(w, "refresh failed", http.StatusInternalServerError)
		return
	}
	h.GetLibrary(w, r)
}

// GetThumbnail serves the slot image for one visible file as PNG. A slot
// whose thumbnail has not been produced yet answers 202 so the client can
// retry after the next progress event.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" || strings.ContainsAny(name, "/\\") || name == ".." {
		writeJSONError(w, "invalid file name", http.StatusBadRequest)
		return
	}

	folder := h.view.Folder()
	if folder == "" {
		writeJSONError(w, "no folder open", http.StatusNotFound)
		return
	}

	img, state, ok := h.view.Thumbnail(filepath.Join(folder, name))
	if !ok {
		writeJSONError(w, "unknown file", http.StatusNotFound)
		return
	}
	if state == library.SlotPending || img == nil {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusAccepted)
		return
	}

	data, err := library.EncodePNG(img)
	if err != nil {
		logging.Error("GetThumbnail %s: encode: %v", name, err)
		writeJSONError(w, "encoding failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(data); err != nil {
		logging.Debug("GetThumbnail %s: write: %v", name, err)
	}
}
