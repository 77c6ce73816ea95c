package geometry

// Balloon positions are stored as percentages of the drawing viewport,
// so a marker keeps its place on the drawing no matter how the window
// is sized. The viewport is measured fresh at interaction and export
// time; only the percentages are persisted.
//
// The export target document uses a bottom-left origin in point units,
// while the viewport origin is top-left, so the document transform
// flips the vertical axis.

const (
	// MinPercent and MaxPercent bound balloon coordinates so a marker
	// stays fully visible and never sits flush against an edge.
	MinPercent = 2.0
	MaxPercent = 98.0
)

// ClampPercent clamps a percentage coordinate to [MinPercent, MaxPercent].
func ClampPercent(v float64) float64 {
	if v < MinPercent {
		return MinPercent
	}
	if v > MaxPercent {
		return MaxPercent
	}
	return v
}

// ToViewportPixels converts a percentage position to viewport pixels.
func ToViewportPixels(xPct, yPct float64, viewport Size) Point2D {
	return Point2D{
		X: xPct / 100 * viewport.Width,
		Y: yPct / 100 * viewport.Height,
	}
}

// FromViewportPixels converts a viewport pixel position back to
// percentages. The result is not clamped; callers clamp when storing.
func FromViewportPixels(p Point2D, viewport Size) (xPct, yPct float64) {
	if viewport.IsZero() {
		return 0, 0
	}
	return p.X / viewport.Width * 100, p.Y / viewport.Height * 100
}

// ViewportToDocument returns the affine transform from viewport pixel
// space (top-left origin) to document point space (bottom-left origin):
// scale each axis by the document/viewport ratio, then flip Y.
func ViewportToDocument(viewport, document Size) AffineTransform {
	scale := Scaling(document.Width/viewport.Width, document.Height/viewport.Height)
	flip := Translation(0, document.Height).Compose(Scaling(1, -1))
	return flip.Compose(scale)
}

// ToDocumentPoints converts a percentage position to document points
// for the given viewport and document geometry.
func ToDocumentPoints(xPct, yPct float64, viewport, document Size) Point2D {
	px := ToViewportPixels(xPct, yPct, viewport)
	return ViewportToDocument(viewport, document).Apply(px)
}
