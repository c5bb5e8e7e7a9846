package library

import (
	"image"
	"time"
)

// FileEntry is one PDF file in the current folder scan.
type FileEntry struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// SlotState is the lifecycle state of a thumbnail slot.
type SlotState string

const (
	// SlotPending means the thumbnail has not been produced yet.
	SlotPending SlotState = "pending"
	// SlotReady means the slot holds a real rendered thumbnail.
	SlotReady SlotState = "ready"
	// SlotFailed means the source could not be rendered and the slot
	// holds a placeholder image.
	SlotFailed SlotState = "failed"
)

// Slot is the per-file thumbnail slot the UI displays. One slot exists per
// visible file in the current filtered list, keyed by file path.
type Slot struct {
	Path  string
	State SlotState
	Image image.Image
}

// RunState describes whether a pipeline run is in flight.
type RunState string

const (
	// StateIdle means no pipeline run is active.
	StateIdle RunState = "idle"
	// StateRunning means a pipeline run is processing files.
	StateRunning RunState = "running"
)

// RunOutcome is the terminal result of a pipeline run.
type RunOutcome string

const (
	// RunCompleted means every file in the list was processed.
	RunCompleted RunOutcome = "completed"
	// RunCancelled means the run stopped early at a file boundary.
	RunCancelled RunOutcome = "cancelled"
)

// EventKind distinguishes pipeline notifications.
type EventKind string

const (
	// EventReady carries one finished thumbnail.
	EventReady EventKind = "ready"
	// EventDone is the final notification of a run.
	EventDone EventKind = "done"
)

// Event is a single asynchronous notification from a pipeline run to its
// consumer. Ready events are emitted in input-list order; Done is always
// the last event before the channel closes.
type Event struct {
	Kind     EventKind   `json:"kind"`
	Path     string      `json:"path,omitempty"`
	Failed   bool        `json:"failed,omitempty"`
	Progress int         `json:"progress"`
	Outcome  RunOutcome  `json:"outcome,omitempty"`
	Image    image.Image `json:"-"`
}
