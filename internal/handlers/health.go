package handlers

import (
	"net/http"
	"runtime"
	"time"

	"pdf-library/internal/library"
	"pdf-library/internal/startup"
)

const (
	statusHealthy = "healthy"
	statusWorking = "working"
)

var startTime = time.Now()

// HealthResponse contains the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Folder   string `json:"folder,omitempty"`
	Files    int    `json:"files"`
	Progress int    `json:"progress"`
	Running  bool   `json:"running"`

	CacheEnabled bool  `json:"cacheEnabled"`
	CacheEntries int   `json:"cacheEntries"`
	CacheBytes   int64 `json:"cacheBytes"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	stats := h.view.Stats()
	running := h.view.State() == library.StateRunning

	response := HealthResponse{
		Version:      startup.Version,
		Uptime:       time.Since(startTime).Round(time.Second).String(),
		Folder:       h.view.Folder(),
		Files:        stats.Files,
		Progress:     h.view.Progress(),
		Running:      running,
		CacheEnabled: h.cache.Enabled(),
		CacheEntries: stats.CacheEntries,
		CacheBytes:   stats.CacheSizeBytes,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if running {
		response.Status = statusWorking
	} else {
		response.Status = statusHealthy
	}

	writeJSON(w, response)
}
