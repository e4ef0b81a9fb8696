package graphics

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(3, 2, White)
	if len(s.Pix) != 6 {
		t.Fatalf("expected 6 pixels, got %d", len(s.Pix))
	}
	for i, c := range s.Pix {
		if c != White {
			t.Errorf("pixel %d: expected background, got %v", i, c)
		}
	}
}

func TestScreen_SetAt(t *testing.T) {
	s := NewScreen(4, 4, Black)
	s.Set(1, 2, Color{1, 2, 3})
	if got := s.At(1, 2); got != (Color{1, 2, 3}) {
		t.Errorf("expected {1 2 3}, got %v", got)
	}

	// off-screen access is ignored
	s.Set(-1, 0, White)
	s.Set(4, 0, White)
	if got := s.At(10, 10); got != Black {
		t.Errorf("expected Black off-screen, got %v", got)
	}
}

func TestScreen_Image(t *testing.T) {
	s := NewScreen(2, 1, Black)
	s.Set(0, 0, Color{300, -20, 128})

	img := s.Image()
	got := img.RGBAAt(0, 0)
	want := color.RGBA{255, 0, 128, 255}
	if got != want {
		t.Errorf("expected clamped %v, got %v", want, got)
	}

	back := ScreenFromImage(img)
	if back.At(0, 0) != (Color{255, 0, 128}) {
		t.Errorf("unexpected color after conversion: %v", back.At(0, 0))
	}
}

func TestScreenFromImage_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 7))
	img.SetRGBA(5, 5, color.RGBA{9, 8, 7, 255})

	s := ScreenFromImage(img)
	if s.Width != 2 || s.Height != 2 {
		t.Fatalf("expected 2x2, got %dx%d", s.Width, s.Height)
	}
	if s.At(0, 0) != (Color{9, 8, 7}) {
		t.Errorf("expected {9 8 7}, got %v", s.At(0, 0))
	}
}

func TestNewZBuffer(t *testing.T) {
	z := NewZBuffer(2, 2)
	for i, d := range z.Depth {
		if !math.IsInf(d, -1) {
			t.Errorf("depth %d: expected -Inf, got %v", i, d)
		}
	}

	z.Set(1, 1, 5)
	if z.At(1, 1) != 5 {
		t.Errorf("expected 5, got %v", z.At(1, 1))
	}
	if !math.IsInf(z.At(-1, 0), -1) {
		t.Error("expected -Inf off-buffer")
	}
}
