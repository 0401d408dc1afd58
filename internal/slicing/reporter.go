package slicing

import (
	"log"
	"sync"
)

// EventKind identifies what happened to a tile or image.
type EventKind string

const (
	EventTileProduced  EventKind = "tile_produced"
	EventTileExported  EventKind = "tile_exported"
	EventExportSkipped EventKind = "tile_export_skipped"
	EventTileError     EventKind = "tile_error"
	EventImageSkipped  EventKind = "image_skipped"
)

// Event is one progress record emitted by a Slicer.
type Event struct {
	Kind        EventKind `json:"kind"`
	Tile        Rect      `json:"tile"`
	Annotations int       `json:"annotations"`
	Path        string    `json:"path,omitempty"`
	Err         error     `json:"-"`
}

// Reporter receives slicing events. Implementations used with a shared
// Slicer must be safe for concurrent use.
type Reporter interface {
	Report(Event)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Report(Event) {}

// LogReporter writes events to a standard logger. Produced and exported
// tiles are only logged when Verbose is set; errors and skips always are.
type LogReporter struct {
	Logger  *log.Logger
	Verbose bool
}

// NewLogReporter returns a reporter writing to logger, or to the standard
// logger when logger is nil.
func NewLogReporter(logger *log.Logger, verbose bool) *LogReporter {
	if logger == nil {
		logger = log.Default()
	}
	return &LogReporter{Logger: logger, Verbose: verbose}
}

func (r *LogReporter) Report(e Event) {
	switch e.Kind {
	case EventTileError:
		r.Logger.Printf("tile %s: %v", e.Tile.Suffix(), e.Err)
	case EventImageSkipped:
		r.Logger.Printf("skipping %s: only %d annotations", e.Path, e.Annotations)
	case EventExportSkipped:
		if r.Verbose {
			r.Logger.Printf("tile %s: not exported, %d annotations", e.Tile.Suffix(), e.Annotations)
		}
	case EventTileExported:
		if r.Verbose {
			r.Logger.Printf("tile %s: wrote %s", e.Tile.Suffix(), e.Path)
		}
	default:
		if r.Verbose {
			r.Logger.Printf("tile %s: %d annotations", e.Tile.Suffix(), e.Annotations)
		}
	}
}

// Recorder keeps every event in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Report(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// MultiReporter forwards every event to each of its reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(e Event) {
	for _, r := range m {
		r.Report(e)
	}
}
