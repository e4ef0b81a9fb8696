// Package graphics provides the framebuffer, the supersampler and the
// boundary to the tessellation, rasterization, display and persistence
// collaborators used while a frame renders.
package graphics

import (
	"image"

	"github.com/zurustar/keyframe/pkg/lighting"
	"github.com/zurustar/keyframe/pkg/matrix"
	"github.com/zurustar/keyframe/pkg/symbol"
)

// Tessellator builds object-space geometry.
// Box, Sphere, Torus and Mesh return polygon lists (three points per
// triangle); Edge returns an edge list (two points per segment).
type Tessellator interface {
	Box(x, y, z, width, height, depth float64) matrix.Points
	Sphere(x, y, z, radius float64, step int) matrix.Points
	Torus(x, y, z, inner, outer float64, step int) matrix.Points
	Mesh(path string) (matrix.Points, error)
	Edge(x0, y0, z0, x1, y1, z1 float64) matrix.Points
}

// Shading carries everything DrawPolygons needs besides the geometry.
type Shading struct {
	View         [3]float64
	Ambient      Color
	Lights       []lighting.Light
	Symbols      symbol.Lookup
	MaterialName string
	Material     symbol.Constants
}

// Rasterizer draws world-space geometry into a screen and z-buffer.
type Rasterizer interface {
	DrawPolygons(polygons matrix.Points, s *Screen, zb *ZBuffer, shading Shading)
	DrawLines(edges matrix.Points, s *Screen, zb *ZBuffer, c Color)
}

// Renderer is a Tessellator that can also rasterize.
type Renderer interface {
	Tessellator
	Rasterizer
}

// Persister writes an image to path. The format follows the extension.
type Persister interface {
	Save(img image.Image, path string) error
}

// Displayer shows an image to the user.
type Displayer interface {
	Display(img image.Image) error
}
