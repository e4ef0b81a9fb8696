// Package opcode defines the scene command set.
// This package is the foundation that the loader, the animation resolver,
// the interpreter and the frame engine all depend on.
// The loader produces Command sequences, and the interpreter executes them.
package opcode

// Cmd names a command type. It is the "op" field of the serialized form.
type Cmd string

// Command types for all supported operations.
const (
	// Frames sets the number of frames of an animation.
	// Args: [count]
	Frames Cmd = "frames"

	// Basename sets the file name prefix of animation frames.
	// Args: [name]
	Basename Cmd = "basename"

	// Vary interpolates a knob linearly over a frame range.
	// Args: [startFrame, endFrame, startValue, endValue], knob
	Vary Cmd = "vary"

	// Ambient sets the ambient light color.
	// Args: [r, g, b]
	Ambient Cmd = "ambient"

	// Light adds a point light.
	// Args: [x, y, z, r, g, b]
	Light Cmd = "light"

	// Box draws an axis-aligned box from its front-top-left corner.
	// Args: [x, y, z, width, height, depth], constants
	Box Cmd = "box"

	// Sphere draws a sphere.
	// Args: [x, y, z, radius], constants
	Sphere Cmd = "sphere"

	// Torus draws a torus.
	// Args: [x, y, z, innerRadius, outerRadius], constants
	Torus Cmd = "torus"

	// Mesh draws polygons loaded from a mesh file.
	// Args: [], cs (file path), constants
	Mesh Cmd = "mesh"

	// Line draws a single edge without lighting.
	// Args: [x0, y0, z0, x1, y1, z1]
	Line Cmd = "line"

	// Move translates the current coordinate system.
	// Args: [x, y, z], knob
	Move Cmd = "move"

	// Scale scales the current coordinate system.
	// Args: [x, y, z], knob
	Scale Cmd = "scale"

	// Rotate rotates the current coordinate system.
	// Args: [axis, degrees], knob
	Rotate Cmd = "rotate"

	// Push duplicates the top of the transform stack.
	// Args: []
	Push Cmd = "push"

	// Pop discards the top of the transform stack.
	// Args: []
	Pop Cmd = "pop"

	// Display shows the current frame.
	// Args: []
	Display Cmd = "display"

	// Save writes the current frame to a file.
	// Args: [path]
	Save Cmd = "save"
)

// Known reports whether c is part of the command set.
func (c Cmd) Known() bool {
	switch c {
	case Frames, Basename, Vary, Ambient, Light,
		Box, Sphere, Torus, Mesh, Line,
		Move, Scale, Rotate, Push, Pop,
		Display, Save:
		return true
	default:
		return false
	}
}
