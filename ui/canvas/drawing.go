// Package canvas: raster drawing primitives for the balloon layer.
package canvas

import (
	"image"
	"image/color"
	"strconv"

	"balloon-annotator/pkg/geometry"
)

const (
	// markerRadius is the balloon radius in viewport pixels.
	markerRadius = 12.0
	// deleteHitRadius is the tap radius of the delete affordance.
	deleteHitRadius = 8.0
	// deleteOffset places the affordance above-right of the marker.
	deleteOffset = 16.0
)

var (
	backgroundColor = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	markerColor     = color.RGBA{R: 229, G: 57, B: 53, A: 255}
	selectedRing    = color.RGBA{R: 25, G: 118, B: 210, A: 255}
	labelColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	deleteColor     = color.RGBA{R: 66, G: 66, B: 66, A: 255}
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// fillBackground paints the neutral page background.
func fillBackground(output *image.RGBA) {
	bounds := output.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			output.SetRGBA(x, y, backgroundColor)
		}
	}
}

// drawBalloon draws a numbered marker, with a selection ring when the
// marker is selected.
func drawBalloon(output *image.RGBA, center geometry.Point2D, number int, selected bool) {
	drawFilledCircle(output, center, markerRadius, markerColor)
	if selected {
		drawRing(output, center, markerRadius+3, 2, selectedRing)
	}
	drawNumberLabel(output, strconv.Itoa(number), int(center.X), int(center.Y), labelColor)
}

// deleteAffordanceCenter returns where the delete control sits for a
// marker at the given center.
func deleteAffordanceCenter(center geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: center.X + deleteOffset, Y: center.Y - deleteOffset}
}

// drawDeleteAffordance draws the small x control next to the selected
// marker.
func drawDeleteAffordance(output *image.RGBA, center geometry.Point2D) {
	drawFilledCircle(output, center, deleteHitRadius-1, deleteColor)

	// Diagonal strokes of the x.
	cx, cy := int(center.X), int(center.Y)
	bounds := output.Bounds()
	for d := -3; d <= 3; d++ {
		for _, p := range [][2]int{{cx + d, cy + d}, {cx + d, cy - d}} {
			if p[0] >= bounds.Min.X && p[0] < bounds.Max.X && p[1] >= bounds.Min.Y && p[1] < bounds.Max.Y {
				output.SetRGBA(p[0], p[1], labelColor)
			}
		}
	}
}

// drawFilledCircle draws a filled circle clipped to the image bounds.
func drawFilledCircle(output *image.RGBA, center geometry.Point2D, r float64, col color.RGBA) {
	bounds := output.Bounds()
	minX := int(center.X - r - 1)
	maxX := int(center.X + r + 1)
	minY := int(center.Y - r - 1)
	maxY := int(center.Y + r + 1)
	r2 := r * r

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - center.X
			dy := float64(y) - center.Y
			if dx*dx+dy*dy <= r2 {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// drawRing draws a circle outline of the given thickness.
func drawRing(output *image.RGBA, center geometry.Point2D, r, thickness float64, col color.RGBA) {
	bounds := output.Bounds()
	outer := r * r
	inner := (r - thickness) * (r - thickness)
	minX := int(center.X - r - 1)
	maxX := int(center.X + r + 1)
	minY := int(center.Y - r - 1)
	maxY := int(center.Y + r + 1)

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - center.X
			dy := float64(y) - center.Y
			dist2 := dx*dx + dy*dy
			if dist2 <= outer && dist2 >= inner {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// drawNumberLabel draws the balloon number centered at the given point
// using the 3x5 digit patterns.
func drawNumberLabel(output *image.RGBA, label string, centerX, centerY int, col color.RGBA) {
	const scale = 2
	charWidth := 3 * scale
	charHeight := 5 * scale
	spacing := scale
	labelWidth := len(label)*charWidth + (len(label)-1)*spacing

	startX := centerX - labelWidth/2
	startY := centerY - charHeight/2

	bounds := output.Bounds()

	for i, ch := range label {
		if ch < '0' || ch > '9' {
			continue
		}
		pattern := digitPatterns[ch-'0']
		charX := startX + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + c*scale + dx
						py := startY + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X &&
							py >= bounds.Min.Y && py < bounds.Max.Y {
							output.SetRGBA(px, py, col)
						}
					}
				}
			}
		}
	}
}
