// Package matrix provides the 4x4 homogeneous transforms and point lists
// used to place geometry in the scene.
//
// Matrix is an array type, so assignment and function arguments copy it.
// Code that keeps a Matrix never shares storage with the caller.
package matrix

import "math"

// Matrix is a 4x4 homogeneous transform indexed as m[row][col].
type Matrix [4][4]float64

// Point is a homogeneous point (x, y, z, w).
type Point [4]float64

// Points is an ordered list of homogeneous points. Polygon lists hold three
// points per triangle and edge lists hold two points per segment.
type Points []Point

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns m * o.
func (m Matrix) Mul(o Matrix) Matrix {
	var r Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[i][k] * o[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// Transform returns m * p.
func (m Matrix) Transform(p Point) Point {
	var r Point
	for i := 0; i < 4; i++ {
		r[i] = m[i][0]*p[0] + m[i][1]*p[1] + m[i][2]*p[2] + m[i][3]*p[3]
	}
	return r
}

// Apply transforms every point of pts by m in place.
func (m Matrix) Apply(pts Points) {
	for i := range pts {
		pts[i] = m.Transform(pts[i])
	}
}

// Translate returns a translation by (x, y, z).
func Translate(x, y, z float64) Matrix {
	t := Identity()
	t[0][3] = x
	t[1][3] = y
	t[2][3] = z
	return t
}

// Scale returns a scale by (x, y, z).
func Scale(x, y, z float64) Matrix {
	s := Identity()
	s[0][0] = x
	s[1][1] = y
	s[2][2] = z
	return s
}

// RotateX returns a rotation of theta radians around the x axis.
func RotateX(theta float64) Matrix {
	c, s := math.Cos(theta), math.Sin(theta)
	r := Identity()
	r[1][1], r[1][2] = c, -s
	r[2][1], r[2][2] = s, c
	return r
}

// RotateY returns a rotation of theta radians around the y axis.
func RotateY(theta float64) Matrix {
	c, s := math.Cos(theta), math.Sin(theta)
	r := Identity()
	r[0][0], r[0][2] = c, s
	r[2][0], r[2][2] = -s, c
	return r
}

// RotateZ returns a rotation of theta radians around the z axis.
func RotateZ(theta float64) Matrix {
	c, s := math.Cos(theta), math.Sin(theta)
	r := Identity()
	r[0][0], r[0][1] = c, -s
	r[1][0], r[1][1] = s, c
	return r
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// NewPoint returns the homogeneous point (x, y, z, 1).
func NewPoint(x, y, z float64) Point {
	return Point{x, y, z, 1}
}

// Clone returns a copy of pts that shares no storage with it.
func (pts Points) Clone() Points {
	if pts == nil {
		return nil
	}
	out := make(Points, len(pts))
	copy(out, pts)
	return out
}
