// Package canvas provides the annotation surface: the drawing preview
// with balloon markers layered on top, driven by pointer events.
package canvas

import (
	"image"
	"image/draw"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"balloon-annotator/internal/annotation"
	"balloon-annotator/internal/interaction"
	"balloon-annotator/pkg/geometry"
)

// DrawingCanvas renders the drawing preview and the balloon layer, and
// feeds pointer events to the interaction controller. Balloon
// positions are stored as page percentages, so markers stay glued to
// their drawing features at any widget size.
type DrawingCanvas struct {
	widget.BaseWidget

	set    *annotation.Set
	ctrl   *interaction.Controller
	raster *fynecanvas.Raster

	preview image.Image

	// scaled preview cache, rebuilt when the raster size changes
	scaled     *image.RGBA
	scaledSize image.Point

	// OnRenumber is called when a marker is double-clicked in edit
	// mode; the caller opens the renumber dialog.
	OnRenumber func(annotation.Balloon)
	// OnDeleteHit is called when a tap lands on the delete affordance
	// of the selected marker.
	OnDeleteHit func()
}

// NewDrawingCanvas creates the annotation surface for a balloon set.
func NewDrawingCanvas(set *annotation.Set, ctrl *interaction.Controller) *DrawingCanvas {
	dc := &DrawingCanvas{set: set, ctrl: ctrl}
	dc.raster = fynecanvas.NewRaster(dc.draw)
	dc.ExtendBaseWidget(dc)
	return dc
}

// CreateRenderer implements fyne.Widget.
func (dc *DrawingCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(dc.raster)
}

// SetPreview installs the drawing's raster preview.
func (dc *DrawingCanvas) SetPreview(img image.Image) {
	dc.preview = img
	dc.scaled = nil
	dc.Refresh()
}

// Viewport returns the pixel size of the rendered drawing area. With a
// preview loaded this is the letterboxed drawing rectangle, not the
// whole widget: percentages, hit tests, and the export transform all
// resolve against the drawing the user actually sees, so a marker
// placed on a drawing feature exports to that same feature regardless
// of the widget's aspect ratio.
func (dc *DrawingCanvas) Viewport() geometry.Size {
	size := dc.Size()
	w, h := float64(size.Width), float64(size.Height)
	if dc.preview == nil {
		return geometry.NewSize(w, h)
	}
	return fitToBounds(dc.preview.Bounds(), w, h)
}

// fitToBounds returns the size of src scaled aspect-preserving into a
// w x h area, anchored at the top-left.
func fitToBounds(src image.Rectangle, w, h float64) geometry.Size {
	scale := w / float64(src.Dx())
	if s := h / float64(src.Dy()); s < scale {
		scale = s
	}
	return geometry.NewSize(float64(src.Dx())*scale, float64(src.Dy())*scale)
}

// draw renders the scaled preview and the balloon markers.
func (dc *DrawingCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fillBackground(output)

	viewport := geometry.NewSize(float64(w), float64(h))
	if dc.preview != nil {
		dc.ensureScaled(w, h)
		draw.Draw(output, dc.scaled.Bounds(), dc.scaled, image.Point{}, draw.Over)
		b := dc.scaled.Bounds()
		viewport = geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
	}
	selected := dc.set.SelectedID()
	editing := dc.set.Mode() == annotation.ModeEdit

	for _, b := range dc.set.Balloons() {
		center := geometry.ToViewportPixels(b.X, b.Y, viewport)
		drawBalloon(output, center, b.Number, b.ID == selected)
		if editing && b.ID == selected {
			drawDeleteAffordance(output, deleteAffordanceCenter(center))
		}
	}
	return output
}

// ensureScaled rebuilds the cached scaled preview when the raster size
// changes. The preview keeps its aspect ratio and is anchored at the
// top-left, matching the percentage coordinate space.
func (dc *DrawingCanvas) ensureScaled(w, h int) {
	if dc.scaled != nil && dc.scaledSize == (image.Point{w, h}) {
		return
	}

	src := dc.preview.Bounds()
	fit := fitToBounds(src, float64(w), float64(h))
	dw, dh := int(fit.Width), int(fit.Height)

	dc.scaled = image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dc.scaled, dc.scaled.Bounds(), dc.preview, src, xdraw.Over, nil)
	dc.scaledSize = image.Point{w, h}
}

// Tapped handles a click: delete-affordance hit, marker selection, or
// placement on empty space in edit mode.
func (dc *DrawingCanvas) Tapped(ev *fyne.PointEvent) {
	pos := geometry.Point2D{X: float64(ev.Position.X), Y: float64(ev.Position.Y)}
	viewport := dc.Viewport()

	if dc.set.Mode() == annotation.ModeEdit && dc.tappedDeleteAffordance(pos, viewport) {
		if dc.ctrl.DeleteSelected() && dc.OnDeleteHit != nil {
			dc.OnDeleteHit()
		}
		dc.Refresh()
		return
	}

	// Taps on the letterbox area outside the drawing place nothing.
	if pos.X > viewport.Width || pos.Y > viewport.Height {
		return
	}

	dc.ctrl.Tap(pos, viewport)
	dc.Refresh()
}

// TappedSecondary is required by fyne.SecondaryTappable; right-click
// does nothing on the annotation surface.
func (dc *DrawingCanvas) TappedSecondary(*fyne.PointEvent) {}

// DoubleTapped opens the renumber edit for the marker under the cursor.
func (dc *DrawingCanvas) DoubleTapped(ev *fyne.PointEvent) {
	pos := geometry.Point2D{X: float64(ev.Position.X), Y: float64(ev.Position.Y)}
	if b, ok := dc.ctrl.DoubleTap(pos, dc.Viewport()); ok && dc.OnRenumber != nil {
		dc.OnRenumber(b)
	}
}

// Dragged moves the marker under the cursor.
func (dc *DrawingCanvas) Dragged(ev *fyne.DragEvent) {
	pos := geometry.Point2D{X: float64(ev.Position.X), Y: float64(ev.Position.Y)}
	dc.ctrl.Drag(pos, dc.Viewport())
	dc.Refresh()
}

// DragEnd closes the active drag.
func (dc *DrawingCanvas) DragEnd() {
	dc.ctrl.DragEnd()
	dc.Refresh()
}

// tappedDeleteAffordance reports whether the tap landed on the delete
// control of the selected marker.
func (dc *DrawingCanvas) tappedDeleteAffordance(pos geometry.Point2D, viewport geometry.Size) bool {
	id := dc.set.SelectedID()
	if id == "" || viewport.IsZero() {
		return false
	}
	b, ok := dc.set.ByID(id)
	if !ok {
		return false
	}
	center := geometry.ToViewportPixels(b.X, b.Y, viewport)
	return deleteAffordanceCenter(center).Distance(pos) <= deleteHitRadius
}
