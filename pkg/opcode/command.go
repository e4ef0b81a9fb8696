package opcode

// Command is a single parsed scene command.
// The set of implementations is closed: only the types in this file
// satisfy it, so a type switch over Command covers every operation.
type Command interface {
	Cmd() Cmd
	command()
}

// Axis selects the rotation axis of a Rotate command.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// Vec3 is an (x, y, z) triple.
type Vec3 [3]float64

// FramesCmd sets the frame count.
type FramesCmd struct {
	Count int
}

// BasenameCmd sets the animation file name prefix.
type BasenameCmd struct {
	Name string
}

// VaryCmd interpolates Knob from StartValue at StartFrame to EndValue at
// EndFrame.
type VaryCmd struct {
	Knob       string
	StartFrame int
	EndFrame   int
	StartValue float64
	EndValue   float64
}

// AmbientCmd sets the ambient color.
type AmbientCmd struct {
	Color Vec3
}

// LightCmd adds a point light.
type LightCmd struct {
	Location Vec3
	Color    Vec3
}

// BoxCmd draws a box with corner (X, Y, Z).
type BoxCmd struct {
	X, Y, Z              float64
	Width, Height, Depth float64
	Constants            string
}

// SphereCmd draws a sphere centered at (X, Y, Z).
type SphereCmd struct {
	X, Y, Z   float64
	Radius    float64
	Constants string
}

// TorusCmd draws a torus centered at (X, Y, Z).
type TorusCmd struct {
	X, Y, Z      float64
	Inner, Outer float64
	Constants    string
}

// MeshCmd draws the polygons of the mesh file at Path.
type MeshCmd struct {
	Path      string
	Constants string
}

// LineCmd draws an edge from (X0, Y0, Z0) to (X1, Y1, Z1).
type LineCmd struct {
	X0, Y0, Z0 float64
	X1, Y1, Z1 float64
}

// MoveCmd translates by (X, Y, Z), scaled by Knob when set.
type MoveCmd struct {
	X, Y, Z float64
	Knob    string
}

// ScaleCmd scales by (X, Y, Z), each factor multiplied by Knob when set.
type ScaleCmd struct {
	X, Y, Z float64
	Knob    string
}

// RotateCmd rotates Degrees around Axis, scaled by Knob when set.
type RotateCmd struct {
	Axis    Axis
	Degrees float64
	Knob    string
}

// PushCmd duplicates the top of the transform stack.
type PushCmd struct{}

// PopCmd discards the top of the transform stack.
type PopCmd struct{}

// DisplayCmd shows the current frame.
type DisplayCmd struct{}

// SaveCmd writes the current frame to Path.
type SaveCmd struct {
	Path string
}

// UnknownCmd carries an op outside the command set. The interpreter skips it.
type UnknownCmd struct {
	Name string
	Args []any
}

func (FramesCmd) Cmd() Cmd    { return Frames }
func (BasenameCmd) Cmd() Cmd  { return Basename }
func (VaryCmd) Cmd() Cmd      { return Vary }
func (AmbientCmd) Cmd() Cmd   { return Ambient }
func (LightCmd) Cmd() Cmd     { return Light }
func (BoxCmd) Cmd() Cmd       { return Box }
func (SphereCmd) Cmd() Cmd    { return Sphere }
func (TorusCmd) Cmd() Cmd     { return Torus }
func (MeshCmd) Cmd() Cmd      { return Mesh }
func (LineCmd) Cmd() Cmd      { return Line }
func (MoveCmd) Cmd() Cmd      { return Move }
func (ScaleCmd) Cmd() Cmd     { return Scale }
func (RotateCmd) Cmd() Cmd    { return Rotate }
func (PushCmd) Cmd() Cmd      { return Push }
func (PopCmd) Cmd() Cmd       { return Pop }
func (DisplayCmd) Cmd() Cmd   { return Display }
func (SaveCmd) Cmd() Cmd      { return Save }
func (u UnknownCmd) Cmd() Cmd { return Cmd(u.Name) }

func (FramesCmd) command()   {}
func (BasenameCmd) command() {}
func (VaryCmd) command()     {}
func (AmbientCmd) command()  {}
func (LightCmd) command()    {}
func (BoxCmd) command()      {}
func (SphereCmd) command()   {}
func (TorusCmd) command()    {}
func (MeshCmd) command()     {}
func (LineCmd) command()     {}
func (MoveCmd) command()     {}
func (ScaleCmd) command()    {}
func (RotateCmd) command()   {}
func (PushCmd) command()     {}
func (PopCmd) command()      {}
func (DisplayCmd) command()  {}
func (SaveCmd) command()     {}
func (UnknownCmd) command()  {}

// Material returns the constants name of a geometry command, or "" for
// commands that carry none.
func Material(c Command) string {
	switch v := c.(type) {
	case BoxCmd:
		return v.Constants
	case SphereCmd:
		return v.Constants
	case TorusCmd:
		return v.Constants
	case MeshCmd:
		return v.Constants
	default:
		return ""
	}
}

// KnobName returns the knob a command references, or "".
func KnobName(c Command) string {
	switch v := c.(type) {
	case VaryCmd:
		return v.Knob
	case MoveCmd:
		return v.Knob
	case ScaleCmd:
		return v.Knob
	case RotateCmd:
		return v.Knob
	default:
		return ""
	}
}
