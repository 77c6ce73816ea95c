package interaction

import (
	"testing"

	"balloon-annotator/internal/annotation"
	"balloon-annotator/pkg/geometry"
)

var viewport = geometry.NewSize(1000, 800)

func editController(t *testing.T) (*Controller, *annotation.Set) {
	t.Helper()
	set := annotation.NewSet()
	set.ToggleMode()
	return NewController(set), set
}

func TestTapOnEmptySpacePlaces(t *testing.T) {
	c, set := editController(t)

	c.Tap(geometry.NewPoint2D(500, 400), viewport)
	if set.Len() != 1 {
		t.Fatalf("Len = %d, want 1", set.Len())
	}
	b := set.Balloons()[0]
	if b.X != 50 || b.Y != 50 {
		t.Errorf("placed at (%v, %v), want (50, 50)", b.X, b.Y)
	}
	if set.SelectedID() != b.ID {
		t.Errorf("placed balloon not selected")
	}
}

func TestTapOnMarkerSelectsInsteadOfPlacing(t *testing.T) {
	c, set := editController(t)
	c.Tap(geometry.NewPoint2D(500, 400), viewport)
	first := set.Balloons()[0]

	// Click within the hit radius of the existing marker.
	c.Tap(geometry.NewPoint2D(505, 404), viewport)
	if set.Len() != 1 {
		t.Errorf("tap on marker placed a new balloon")
	}
	if set.SelectedID() != first.ID {
		t.Errorf("tap on marker did not select it")
	}
}

func TestTapInViewModeDoesNothing(t *testing.T) {
	set := annotation.NewSet()
	c := NewController(set)

	c.Tap(geometry.NewPoint2D(500, 400), viewport)
	if set.Len() != 0 {
		t.Errorf("view-mode tap placed a balloon")
	}
}

func TestDragMovesWithRecordedOffset(t *testing.T) {
	c, set := editController(t)
	c.Tap(geometry.NewPoint2D(500, 400), viewport)
	id := set.Balloons()[0].ID

	// Grab the marker 8px right of center; the offset must be held
	// constant for the whole session.
	c.Drag(geometry.NewPoint2D(508, 400), viewport)
	if !c.Dragging() {
		t.Fatal("drag session not started")
	}

	c.Drag(geometry.NewPoint2D(708, 240), viewport)
	b, _ := set.ByID(id)
	if b.X != 70 || b.Y != 30 {
		t.Errorf("dragged to (%v, %v), want (70, 30)", b.X, b.Y)
	}
}

func TestDragRecomputesAbsolutePositionPerEvent(t *testing.T) {
	c, set := editController(t)
	c.Tap(geometry.NewPoint2D(500, 400), viewport)
	id := set.Balloons()[0].ID

	c.Drag(geometry.NewPoint2D(500, 400), viewport)
	// Replay the same target position many times; absolute
	// recomputation means no drift accumulates.
	for i := 0; i < 50; i++ {
		c.Drag(geometry.NewPoint2D(600, 600), viewport)
	}
	b, _ := set.ByID(id)
	if b.X != 60 || b.Y != 75 {
		t.Errorf("position = (%v, %v), want (60, 75)", b.X, b.Y)
	}
}

func TestDragClampsAtEdges(t *testing.T) {
	c, set := editController(t)
	c.Tap(geometry.NewPoint2D(500, 400), viewport)
	id := set.Balloons()[0].ID

	c.Drag(geometry.NewPoint2D(500, 400), viewport)
	c.Drag(geometry.NewPoint2D(-300, 2000), viewport)
	b, _ := set.ByID(id)
	if b.X != 2 || b.Y != 98 {
		t.Errorf("position = (%v, %v), want (2, 98)", b.X, b.Y)
	}
}

func TestDragEndKeepsSelection(t *testing.T) {
	c, set := editController(t)
	c.Tap(geometry.NewPoint2D(500, 400), viewport)
	id := set.Balloons()[0].ID

	c.Drag(geometry.NewPoint2D(500, 400), viewport)
	c.Drag(geometry.NewPoint2D(300, 300), viewport)
	c.DragEnd()

	if c.Dragging() {
		t.Error("drag session still active after DragEnd")
	}
	if set.SelectedID() != id {
		t.Error("selection lost after drag, delete affordance would vanish")
	}
}

func TestDragDisabledInViewMode(t *testing.T) {
	c, set := editController(t)
	c.Tap(geometry.NewPoint2D(500, 400), viewport)
	id := set.Balloons()[0].ID
	set.ToggleMode() // back to view

	c.Drag(geometry.NewPoint2D(500, 400), viewport)
	c.Drag(geometry.NewPoint2D(100, 100), viewport)
	b, _ := set.ByID(id)
	if b.X != 50 || b.Y != 50 {
		t.Errorf("view-mode drag moved the balloon to (%v, %v)", b.X, b.Y)
	}
}

func TestDragOnEmptySpaceIsIgnored(t *testing.T) {
	c, set := editController(t)
	c.Tap(geometry.NewPoint2D(500, 400), viewport)

	c.Drag(geometry.NewPoint2D(100, 100), viewport)
	if c.Dragging() {
		t.Error("drag over empty space opened a session")
	}
	if set.Len() != 1 {
		t.Error("drag mutated the set")
	}
}

func TestDoubleTapFindsMarkerInEditModeOnly(t *testing.T) {
	c, set := editController(t)
	c.Tap(geometry.NewPoint2D(500, 400), viewport)
	id := set.Balloons()[0].ID

	if b, ok := c.DoubleTap(geometry.NewPoint2D(502, 398), viewport); !ok || b.ID != id {
		t.Errorf("double tap missed marker: ok=%v", ok)
	}

	set.ToggleMode()
	if _, ok := c.DoubleTap(geometry.NewPoint2D(502, 398), viewport); ok {
		t.Error("double tap hit in view mode")
	}
}

func TestDeleteSelected(t *testing.T) {
	c, set := editController(t)
	c.Tap(geometry.NewPoint2D(500, 400), viewport)
	c.Tap(geometry.NewPoint2D(200, 200), viewport)

	if !c.DeleteSelected() {
		t.Fatal("DeleteSelected returned false")
	}
	if set.Len() != 1 {
		t.Errorf("Len = %d, want 1", set.Len())
	}
	if c.DeleteSelected() {
		t.Error("DeleteSelected succeeded with nothing selected")
	}
}

func TestSelectingNewMarkerDeselectsPrevious(t *testing.T) {
	c, set := editController(t)
	c.Tap(geometry.NewPoint2D(200, 200), viewport)
	first := set.SelectedID()
	c.Tap(geometry.NewPoint2D(700, 600), viewport)

	if set.SelectedID() == first {
		t.Error("previous selection survived")
	}
}
