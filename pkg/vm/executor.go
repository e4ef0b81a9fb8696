// Package vm provides command execution for the scene interpreter.
package vm

import (
	"fmt"

	"github.com/zurustar/keyframe/pkg/fileutil"
	"github.com/zurustar/keyframe/pkg/graphics"
	"github.com/zurustar/keyframe/pkg/matrix"
	"github.com/zurustar/keyframe/pkg/opcode"
	"github.com/zurustar/keyframe/pkg/symbol"
)

// Execute executes a single command against the frame.
//
// Parameters:
//   - cmd: The command to execute
//
// Returns:
//   - error: A *RuntimeError if the frame cannot continue
func (vm *VM) Execute(cmd opcode.Command) error {
	vm.log.Debug("Executing command", "cmd", cmd.Cmd(), "pc", vm.pc, "frame", vm.frame.Index)

	switch c := cmd.(type) {
	// Geometry
	case opcode.BoxCmd:
		pts := vm.renderer.Box(c.X, c.Y, c.Z, c.Width, c.Height, c.Depth)
		return vm.drawPolygons(c, pts)
	case opcode.SphereCmd:
		pts := vm.renderer.Sphere(c.X, c.Y, c.Z, c.Radius, vm.scene.Step)
		return vm.drawPolygons(c, pts)
	case opcode.TorusCmd:
		pts := vm.renderer.Torus(c.X, c.Y, c.Z, c.Inner, c.Outer, vm.scene.Step)
		return vm.drawPolygons(c, pts)
	case opcode.MeshCmd:
		return vm.executeMesh(c)
	case opcode.LineCmd:
		return vm.executeLine(c)

	// Transforms
	case opcode.MoveCmd:
		k := vm.knobValue(c.Knob)
		vm.applyTransform(matrix.Translate(c.X*k, c.Y*k, c.Z*k))
		return nil
	case opcode.ScaleCmd:
		k := vm.knobValue(c.Knob)
		vm.applyTransform(matrix.Scale(c.X*k, c.Y*k, c.Z*k))
		return nil
	case opcode.RotateCmd:
		return vm.executeRotate(c)

	// Stack
	case opcode.PushCmd:
		if err := vm.frame.Stack.Push(); err != nil {
			return WrapRuntimeError(ErrorStackOverflow, "push failed", err)
		}
		return nil
	case opcode.PopCmd:
		if err := vm.frame.Stack.Pop(); err != nil {
			return WrapRuntimeError(ErrorStackUnderflow, "pop failed", err)
		}
		return nil

	// Output
	case opcode.DisplayCmd:
		return vm.executeDisplay()
	case opcode.SaveCmd:
		return vm.executeSave(c)

	// Resolved before the frames run
	case opcode.FramesCmd, opcode.BasenameCmd, opcode.VaryCmd, opcode.AmbientCmd, opcode.LightCmd:
		return nil

	case opcode.UnknownCmd:
		vm.log.Debug("Unknown command skipped", "op", c.Name, "pc", vm.pc)
		return nil

	default:
		return NewRuntimeError(ErrorCollaborator, fmt.Sprintf("unsupported command type %T", cmd))
	}
}

// applyTransform composes local into the top of the stack: top = top * local.
func (vm *VM) applyTransform(local matrix.Matrix) {
	stack := vm.frame.Stack
	stack.ReplaceTop(stack.Current().Mul(local))
}

// knobValue returns the multiplier for a transform. Commands without a knob
// use 1. An undefined knob is reported and treated as 0.
func (vm *VM) knobValue(name string) float64 {
	if name == "" {
		return 1
	}
	v, ok := vm.frame.Symbols.Knob(name)
	if !ok {
		err := NewRuntimeError(ErrorUndefinedKnob, fmt.Sprintf("knob %q is not defined, using 0", name))
		vm.log.Warn("Knob not found", "error", err, "frame", vm.frame.Index)
		return 0
	}
	return v
}

// executeRotate rotates around the axis tag. Tags other than x and y rotate
// around z.
func (vm *VM) executeRotate(c opcode.RotateCmd) error {
	theta := matrix.Radians(c.Degrees) * vm.knobValue(c.Knob)

	var local matrix.Matrix
	switch c.Axis {
	case opcode.AxisX:
		local = matrix.RotateX(theta)
	case opcode.AxisY:
		local = matrix.RotateY(theta)
	default:
		local = matrix.RotateZ(theta)
	}

	vm.applyTransform(local)
	return nil
}

// drawPolygons moves object-space polygons to world space and rasterizes
// them with the command's material.
func (vm *VM) drawPolygons(cmd opcode.Command, pts matrix.Points) error {
	current := vm.frame.Stack.Current()
	current.Apply(pts)

	name, material := vm.resolveMaterial(opcode.Material(cmd))
	vm.renderer.DrawPolygons(pts, vm.frame.Screen, vm.frame.ZBuffer, graphics.Shading{
		View:         vm.scene.View,
		Ambient:      vm.scene.Ambient,
		Lights:       vm.scene.Lights,
		Symbols:      vm.frame.Symbols,
		MaterialName: name,
		Material:     material,
	})
	return nil
}

// resolveMaterial looks up name, falling back to the default material when
// name is empty or undefined.
func (vm *VM) resolveMaterial(name string) (string, symbol.Constants) {
	if name != "" {
		if c, ok := vm.frame.Symbols.Constants(name); ok {
			return name, c
		}
		err := NewRuntimeError(ErrorUndefinedMaterial, fmt.Sprintf("constants %q are not defined, using %q", name, vm.scene.DefaultMaterial))
		vm.log.Warn("Material not found", "error", err, "frame", vm.frame.Index)
	}

	c, _ := vm.frame.Symbols.Constants(vm.scene.DefaultMaterial)
	return vm.scene.DefaultMaterial, c
}

func (vm *VM) executeMesh(c opcode.MeshCmd) error {
	path := fileutil.Resolve(vm.scene.BaseDir, c.Path)
	pts, err := vm.renderer.Mesh(path)
	if err != nil {
		return WrapRuntimeError(ErrorCollaborator, "failed to load mesh", err)
	}
	return vm.drawPolygons(c, pts)
}

// executeLine draws an edge in the flat line color, without lighting.
func (vm *VM) executeLine(c opcode.LineCmd) error {
	pts := vm.renderer.Edge(c.X0, c.Y0, c.Z0, c.X1, c.Y1, c.Z1)
	current := vm.frame.Stack.Current()
	current.Apply(pts)
	vm.renderer.DrawLines(pts, vm.frame.Screen, vm.frame.ZBuffer, vm.scene.LineColor)
	return nil
}

// outputScreen returns the frame downsampled to output resolution.
func (vm *VM) outputScreen() (*graphics.Screen, error) {
	out, err := graphics.AliasScreen(vm.frame.Screen)
	if err != nil {
		return nil, WrapRuntimeError(ErrorCollaborator, "failed to supersample frame", err)
	}
	return out, nil
}

func (vm *VM) executeDisplay() error {
	if vm.displayer == nil {
		vm.log.Info("No display available, skipping display", "frame", vm.frame.Index)
		return nil
	}

	out, err := vm.outputScreen()
	if err != nil {
		return err
	}
	if err := vm.displayer.Display(out.Image()); err != nil {
		return WrapRuntimeError(ErrorCollaborator, "display failed", err)
	}
	return nil
}

func (vm *VM) executeSave(c opcode.SaveCmd) error {
	out, err := vm.outputScreen()
	if err != nil {
		return err
	}

	if err := vm.persister.Save(out.Image(), c.Path); err != nil {
		return WrapRuntimeError(ErrorCollaborator, "save failed", err)
	}
	vm.log.Info("Frame saved", "path", graphics.PathWithExt(c.Path), "frame", vm.frame.Index)
	return nil
}
