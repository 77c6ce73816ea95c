// Package annotation manages the balloon set for one inspection
// drawing item: placement, dragging, deletion with renumbering, and
// the view/edit mode machine.
package annotation

import (
	"github.com/google/uuid"

	"balloon-annotator/pkg/geometry"
)

// Balloon is one numbered marker placed on a drawing. Its position is
// stored as percentages of the drawing viewport so the marker stays in
// place across window resizes.
type Balloon struct {
	ID     string  `json:"id"`
	Number int     `json:"number"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// NewBalloon creates a balloon with a fresh id and a clamped position.
func NewBalloon(number int, xPct, yPct float64) Balloon {
	return Balloon{
		ID:     uuid.NewString(),
		Number: number,
		X:      geometry.ClampPercent(xPct),
		Y:      geometry.ClampPercent(yPct),
	}
}
