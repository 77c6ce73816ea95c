// Package app provides application session state and events.
package app

import (
	goimage "image"
	"sync"

	"balloon-annotator/internal/annotation"
	"balloon-annotator/internal/report"
	"balloon-annotator/pkg/geometry"
)

// State holds the session state for one inspection item: the loaded
// drawing, its preview raster, the balloon set, and the report fields
// that accompany a sync. UI widgets subscribe to events rather than
// polling.
type State struct {
	mu sync.RWMutex

	// Inspection context
	InspectionID string
	ItemID       string

	// Report fields edited in the side panel
	PartName  string
	Material  string
	Revision  string
	Inspector string
	Notes     string

	// Drawing document and derived data
	Drawing  []byte
	Preview  goimage.Image
	PageSize geometry.Size

	// Balloons lives outside the mutex: it is only touched from the
	// UI goroutine.
	Balloons *annotation.Set

	exporting bool

	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventDrawingLoaded EventType = iota
	EventDrawingFailed
	EventBalloonsChanged
	EventModeChanged
	EventSelectionChanged
	EventReportChanged
	EventExportStarted
	EventExportFinished
	EventSyncStateChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new session state.
func NewState() *State {
	return &State{
		Balloons:  annotation.NewSet(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetInspection sets the inspection context for the session.
func (s *State) SetInspection(inspectionID, itemID string) {
	s.mu.Lock()
	s.InspectionID = inspectionID
	s.ItemID = itemID
	s.mu.Unlock()
}

// SetDrawing stores a fetched drawing with its preview and native page
// size, then announces it.
func (s *State) SetDrawing(doc []byte, preview goimage.Image, page geometry.Size) {
	s.mu.Lock()
	s.Drawing = doc
	s.Preview = preview
	s.PageSize = page
	s.mu.Unlock()

	s.Emit(EventDrawingLoaded, nil)
}

// DrawingLoaded reports whether a drawing is present.
func (s *State) DrawingLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Drawing) > 0
}

// SetReportFields replaces the report fields and announces the change.
func (s *State) SetReportFields(partName, material, revision, inspector, notes string) {
	s.mu.Lock()
	s.PartName = partName
	s.Material = material
	s.Revision = revision
	s.Inspector = inspector
	s.Notes = notes
	s.mu.Unlock()

	s.Emit(EventReportChanged, nil)
}

// Snapshot assembles the current report snapshot, including a copy of
// the balloon list.
func (s *State) Snapshot() report.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return report.Snapshot{
		InspectionID: s.InspectionID,
		ItemID:       s.ItemID,
		PartName:     s.PartName,
		Material:     s.Material,
		Revision:     s.Revision,
		Inspector:    s.Inspector,
		Notes:        s.Notes,
		Balloons:     s.Balloons.Balloons(),
	}
}

// BeginExport marks an export run as active. Returns false when one is
// already running so the second trigger is dropped.
func (s *State) BeginExport() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return false
	}
	s.exporting = true
	return true
}

// EndExport clears the active export marker.
func (s *State) EndExport() {
	s.mu.Lock()
	s.exporting = false
	s.mu.Unlock()
}
