package graphics

import "fmt"

// AliasScreen downsamples src with a 2x2 box filter. src must be exactly
// twice the output size in each dimension; every output component is the
// floor of the average of its four source samples.
func AliasScreen(src *Screen) (*Screen, error) {
	if src == nil || src.Width == 0 || src.Height == 0 || src.Width%2 != 0 || src.Height%2 != 0 {
		w, h := 0, 0
		if src != nil {
			w, h = src.Width, src.Height
		}
		return nil, fmt.Errorf("%w: got %dx%d", ErrSupersampleSize, w, h)
	}

	dst := &Screen{
		Width:  src.Width / 2,
		Height: src.Height / 2,
		Pix:    make([]Color, src.Width*src.Height/4),
	}

	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			a := src.Pix[(2*y)*src.Width+2*x]
			b := src.Pix[(2*y)*src.Width+2*x+1]
			c := src.Pix[(2*y+1)*src.Width+2*x]
			d := src.Pix[(2*y+1)*src.Width+2*x+1]

			var out Color
			for i := range out {
				out[i] = floorDiv(a[i]+b[i]+c[i]+d[i], 4)
			}
			dst.Pix[y*dst.Width+x] = out
		}
	}

	return dst, nil
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
