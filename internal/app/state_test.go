package app

import (
	"testing"

	"balloon-annotator/internal/annotation"
)

func TestSnapshotCarriesBalloons(t *testing.T) {
	s := NewState()
	s.SetInspection("insp-1", "item-7")
	s.SetReportFields("bracket", "AlMg3", "C", "jm", "")

	s.Balloons.ToggleMode()
	if _, err := s.Balloons.Place(30, 40); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if snap.InspectionID != "insp-1" || snap.ItemID != "item-7" {
		t.Errorf("keys = %q/%q", snap.InspectionID, snap.ItemID)
	}
	if !snap.Ready() {
		t.Error("snapshot with part name and material must be ready")
	}
	if len(snap.Balloons) != 1 || snap.Balloons[0].Number != 1 {
		t.Errorf("balloons = %v", snap.Balloons)
	}
}

func TestSnapshotBalloonListIsACopy(t *testing.T) {
	s := NewState()
	s.Balloons.ToggleMode()
	b, _ := s.Balloons.Place(30, 40)

	snap := s.Snapshot()
	snap.Balloons[0].X = 99

	got, _ := s.Balloons.ByID(b.ID)
	if got.X == 99 {
		t.Error("mutating the snapshot changed the live set")
	}
}

func TestEventListeners(t *testing.T) {
	s := NewState()

	var got []interface{}
	s.On(EventReportChanged, func(data interface{}) { got = append(got, data) })
	s.On(EventDrawingLoaded, func(data interface{}) { t.Error("wrong event fired") })

	s.Emit(EventReportChanged, "a")
	s.Emit(EventReportChanged, "b")

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("listener calls = %v", got)
	}
}

func TestExportGuard(t *testing.T) {
	s := NewState()
	if !s.BeginExport() {
		t.Fatal("first export must start")
	}
	if s.BeginExport() {
		t.Error("second export started while the first was running")
	}
	s.EndExport()
	if !s.BeginExport() {
		t.Error("export must start again after the previous one ended")
	}
}

func TestBalloonsStartInViewMode(t *testing.T) {
	s := NewState()
	if s.Balloons.Mode() != annotation.ModeView {
		t.Errorf("mode = %v, want view", s.Balloons.Mode())
	}
}
