package handlers

import (
	"pdf-library/internal/library"
	"pdf-library/internal/viewer"
)

type Handlers struct {
	view    *library.View
	viewer  *viewer.Viewer
	cache   *library.Cache
	watcher *library.FolderWatcher
}

// New wires the HTTP layer to the library view and document viewer.
// watcher may be nil when folder watching is disabled.
func New(view *library.View, vw *viewer.Viewer, cache *library.Cache, watcher *library.FolderWatcher) *Handlers {
	return &Handlers{
		view:    view,
		viewer:  vw,
		cache:   cache,
		watcher: watcher,
	}
}
