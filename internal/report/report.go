// Package report defines the inspection-report snapshot exchanged
// with the remote annotation store.
package report

import (
	"time"

	"balloon-annotator/internal/annotation"
)

// Snapshot is the remote store's record for one inspection: the
// balloon list plus the sibling report fields the remote schema
// requires alongside it.
type Snapshot struct {
	InspectionID string `json:"inspection_id"`
	ItemID       string `json:"item_id"`

	PartName  string `json:"part_name"`
	Material  string `json:"material"`
	Revision  string `json:"revision,omitempty"`
	Inspector string `json:"inspector,omitempty"`
	Notes     string `json:"notes,omitempty"`

	Balloons []annotation.Balloon `json:"balloons"`

	SavedAt time.Time `json:"saved_at,omitempty"`
}

// Ready reports whether the snapshot carries the context fields the
// remote schema requires. Syncing an inspection the user hasn't
// started filling in would create a malformed remote record, so such
// snapshots are skipped entirely.
func (s Snapshot) Ready() bool {
	return s.PartName != "" && s.Material != ""
}
