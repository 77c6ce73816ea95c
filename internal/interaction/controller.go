// Package interaction translates raw pointer events over the drawing
// viewport into annotation mutations: click-to-place, drag-to-move,
// and double-click-to-renumber.
package interaction

import (
	"balloon-annotator/internal/annotation"
	"balloon-annotator/pkg/geometry"
)

// DefaultHitRadius is the marker hit-test radius in viewport pixels.
const DefaultHitRadius = 14.0

// dragSession tracks the one active drag: which balloon, and the
// offset between the cursor and the marker center at pointer-down.
// Every move recomputes the absolute position from the live cursor
// minus this offset; deltas are never accumulated, so rapid events
// cannot drift.
type dragSession struct {
	balloonID string
	offset    geometry.Point2D
}

// Controller drives an annotation.Set from pointer events. It owns the
// idle -> dragging(id, offset) -> idle machine with a single
// authoritative active-drag slot.
type Controller struct {
	set       *annotation.Set
	drag      *dragSession
	hitRadius float64
}

// NewController creates a controller for the given set.
func NewController(set *annotation.Set) *Controller {
	return &Controller{set: set, hitRadius: DefaultHitRadius}
}

// Dragging reports whether a drag session is active.
func (c *Controller) Dragging() bool { return c.drag != nil }

// HitTest returns the topmost balloon whose marker contains the given
// viewport pixel position. Later balloons win, matching draw order.
func (c *Controller) HitTest(pos geometry.Point2D, viewport geometry.Size) (annotation.Balloon, bool) {
	balloons := c.set.Balloons()
	for i := len(balloons) - 1; i >= 0; i-- {
		center := geometry.ToViewportPixels(balloons[i].X, balloons[i].Y, viewport)
		if center.Distance(pos) <= c.hitRadius {
			return balloons[i], true
		}
	}
	return annotation.Balloon{}, false
}

// Tap handles a click on the viewport. On a marker it selects that
// marker; on empty space in edit mode it places a new balloon there.
// Taps arriving while a drag is active are ignored.
func (c *Controller) Tap(pos geometry.Point2D, viewport geometry.Size) {
	if c.drag != nil || viewport.IsZero() {
		return
	}

	if b, ok := c.HitTest(pos, viewport); ok {
		c.set.Select(b.ID)
		return
	}

	if c.set.Mode() != annotation.ModeEdit {
		return
	}
	xPct, yPct := geometry.FromViewportPixels(pos, viewport)
	if b, err := c.set.Place(xPct, yPct); err == nil {
		c.set.Select(b.ID)
	}
}

// Drag handles a pointer-move with the button held. The first event
// over a marker opens a drag session; subsequent events recompute the
// marker position from the live cursor. Dragging is disabled in view
// mode so finalized markers stay inspectable but immovable.
func (c *Controller) Drag(pos geometry.Point2D, viewport geometry.Size) {
	if c.set.Mode() != annotation.ModeEdit || viewport.IsZero() {
		return
	}

	if c.drag == nil {
		b, ok := c.HitTest(pos, viewport)
		if !ok {
			return
		}
		center := geometry.ToViewportPixels(b.X, b.Y, viewport)
		c.drag = &dragSession{
			balloonID: b.ID,
			offset:    pos.Sub(center),
		}
		c.set.Select(b.ID)
		return
	}

	target := pos.Sub(c.drag.offset)
	xPct, yPct := geometry.FromViewportPixels(target, viewport)
	c.set.Move(c.drag.balloonID, xPct, yPct)
}

// DragEnd closes the active drag session. The selection is kept so the
// delete affordance stays visible on the dropped marker.
func (c *Controller) DragEnd() {
	c.drag = nil
}

// DoubleTap returns the balloon under the cursor for an inline
// renumber edit. Only meaningful in edit mode.
func (c *Controller) DoubleTap(pos geometry.Point2D, viewport geometry.Size) (annotation.Balloon, bool) {
	if c.set.Mode() != annotation.ModeEdit {
		return annotation.Balloon{}, false
	}
	return c.HitTest(pos, viewport)
}

// DeleteSelected removes the currently selected balloon.
func (c *Controller) DeleteSelected() bool {
	id := c.set.SelectedID()
	if id == "" {
		return false
	}
	return c.set.Delete(id)
}
