package graphics

import (
	"image"
	"math"
)

// Screen is a row-major framebuffer of Colors.
type Screen struct {
	Width  int
	Height int
	Pix    []Color
}

// NewScreen creates a width x height screen filled with bg.
func NewScreen(width, height int, bg Color) *Screen {
	s := &Screen{
		Width:  width,
		Height: height,
		Pix:    make([]Color, width*height),
	}
	for i := range s.Pix {
		s.Pix[i] = bg
	}
	return s
}

// In reports whether (x, y) lies on the screen.
func (s *Screen) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width && y < s.Height
}

// At returns the color at (x, y). Off-screen reads return Black.
func (s *Screen) At(x, y int) Color {
	if !s.In(x, y) {
		return Black
	}
	return s.Pix[y*s.Width+x]
}

// Set stores c at (x, y). Off-screen writes are dropped.
func (s *Screen) Set(x, y int, c Color) {
	if !s.In(x, y) {
		return
	}
	s.Pix[y*s.Width+x] = c
}

// Image converts the screen to an RGBA image.
func (s *Screen) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			img.SetRGBA(x, y, s.Pix[y*s.Width+x].RGBA())
		}
	}
	return img
}

// ScreenFromImage copies img into a new Screen.
func ScreenFromImage(img image.Image) *Screen {
	b := img.Bounds()
	s := NewScreen(b.Dx(), b.Dy(), Black)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			s.Pix[y*s.Width+x] = ColorFromColor(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return s
}

// ZBuffer holds the depth of the nearest sample drawn at each pixel.
type ZBuffer struct {
	Width  int
	Height int
	Depth  []float64
}

// NewZBuffer creates a z-buffer with every depth at negative infinity.
func NewZBuffer(width, height int) *ZBuffer {
	z := &ZBuffer{
		Width:  width,
		Height: height,
		Depth:  make([]float64, width*height),
	}
	for i := range z.Depth {
		z.Depth[i] = math.Inf(-1)
	}
	return z
}

// At returns the depth at (x, y), or negative infinity off-buffer.
func (z *ZBuffer) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= z.Width || y >= z.Height {
		return math.Inf(-1)
	}
	return z.Depth[y*z.Width+x]
}

// Set stores depth at (x, y). Off-buffer writes are dropped.
func (z *ZBuffer) Set(x, y int, depth float64) {
	if x < 0 || y < 0 || x >= z.Width || y >= z.Height {
		return
	}
	z.Depth[y*z.Width+x] = depth
}
