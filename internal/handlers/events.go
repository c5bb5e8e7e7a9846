package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"pdf-library/internal/library"
	"pdf-library/internal/logging"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 30 * time.Second

// eventPayload is the wire shape of one server-sent event. Paths are
// reduced to bare file names so the stream never leaks the folder layout.
type eventPayload struct {
	Kind     library.EventKind  `json:"kind"`
	Name     string             `json:"name,omitempty"`
	Failed   bool               `json:"failed,omitempty"`
	Progress int                `json:"progress"`
	Outcome  library.RunOutcome `json:"outcome,omitempty"`
}

// Events streams pipeline progress as server-sent events. Each ready
// event names the finished file; the done event carries the run outcome.
// The stream stays open across runs until the client disconnects.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := h.view.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}

			payload := eventPayload{
				Kind:     ev.Kind,
				Name:     filepath.Base(ev.Path),
				Failed:   ev.Failed,
				Progress: ev.Progress,
				Outcome:  ev.Outcome,
			}
			if ev.Path == "" {
				payload.Name = ""
			}

			data, err := json.Marshal(payload)
			if err != nil {
				logging.Error("Events: marshal: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
