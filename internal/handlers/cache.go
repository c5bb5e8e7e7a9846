package handlers

import (
	"net/http"

	"pdf-library/internal/logging"
)

// CacheClearResponse reports how many cached thumbnails were removed.
type CacheClearResponse struct {
	Removed int    `json:"removed"`
	Error   string `json:"error,omitempty"`
}

// ClearCache removes every cached thumbnail from disk and restarts
// generation for the visible files. The removed count is reported even
// when some files could not be deleted.
func (h *Handlers) ClearCache(w http.ResponseWriter, _ *http.Request) {
	removed, err := h.view.ClearCache()

	resp := CacheClearResponse{Removed: removed}
	if err != nil {
		logging.Warn("ClearCache: %v", err)
		resp.Error = "some cache files could not be removed"
	}
	writeJSON(w, resp)
}

// ThumbnailSettings is the request and response shape for thumbnail
// parameter updates.
type ThumbnailSettings struct {
	Page   int `json:"page"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetThumbnailSettings returns the active thumbnail parameters.
func (h *Handlers) GetThumbnailSettings(w http.ResponseWriter, _ *http.Request) {
	page, width, height := h.view.Settings()
	writeJSON(w, ThumbnailSettings{Page: page, Width: width, Height: height})
}

// SetThumbnailSettings changes the rendered page or thumbnail dimensions
// and regenerates every visible thumbnail.
func (h *Handlers) SetThumbnailSettings(w http.ResponseWriter, r *http.Request) {
	var req ThumbnailSettings
	if err := readJSON(r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.view.ReapplySettings(req.Page, req.Width, req.Height); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, width, height := h.view.Settings()
	writeJSON(w, ThumbnailSettings{Page: page, Width: width, Height: height})
}
