package graphics

import (
	"image/color"
)

// Color is an integer RGB triple as produced by shading. Components are not
// clamped while a frame renders; RGBA clamps them to [0, 255].
type Color [3]int

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// RGBA converts c to an opaque color.RGBA, clamping every component.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: clampByte(c[0]),
		G: clampByte(c[1]),
		B: clampByte(c[2]),
		A: 0xFF,
	}
}

// ColorFromColor converts any color.Color to a Color.
func ColorFromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	// RGBA() returns 16-bit values, so shift right by 8 to get 8-bit values
	return Color{int(r >> 8), int(g >> 8), int(b >> 8)}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}
