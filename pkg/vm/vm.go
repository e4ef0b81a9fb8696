// Package vm provides the scene interpreter that executes a command list
// against one frame.
// It implements:
// - Geometry commands through the tessellator and rasterizer collaborators
// - Transform commands scaled by knob values
// - The transform stack
// - Display and save of the supersampled frame
package vm

import (
	"context"
	"log/slog"

	"github.com/zurustar/keyframe/pkg/graphics"
	"github.com/zurustar/keyframe/pkg/lighting"
	"github.com/zurustar/keyframe/pkg/logger"
	"github.com/zurustar/keyframe/pkg/matrix"
	"github.com/zurustar/keyframe/pkg/opcode"
	"github.com/zurustar/keyframe/pkg/symbol"
)

// DefaultMaterialName is the symbol the default material is stored under.
const DefaultMaterialName = ".white"

// DefaultStep is the tessellation step passed for spheres and tori.
const DefaultStep = 20

// Scene holds the settings shared by every frame of a run.
type Scene struct {
	Ambient         graphics.Color
	Lights          []lighting.Light
	View            [3]float64
	LineColor       graphics.Color
	Step            int
	DefaultMaterial string
	BaseDir         string // Base path for resolving mesh files
}

// DefaultScene returns the settings used when none are given.
func DefaultScene() Scene {
	return Scene{
		Ambient:         graphics.Color(lighting.DefaultAmbient),
		View:            [3]float64{0, 0, 1},
		LineColor:       graphics.Black,
		Step:            DefaultStep,
		DefaultMaterial: DefaultMaterialName,
	}
}

// Frame is the state one frame renders into. None of it is shared between
// frames.
type Frame struct {
	Index   int
	Screen  *graphics.Screen
	ZBuffer *graphics.ZBuffer
	Stack   *TransformStack
	Symbols symbol.Lookup
}

// NewFrame allocates a frame of the given size with a fresh identity stack.
func NewFrame(index, width, height int, bg graphics.Color, symbols symbol.Lookup) *Frame {
	return &Frame{
		Index:   index,
		Screen:  graphics.NewScreen(width, height, bg),
		ZBuffer: graphics.NewZBuffer(width, height),
		Stack:   NewTransformStack(matrix.Identity()),
		Symbols: symbols,
	}
}

// VM executes commands against a single frame.
type VM struct {
	commands []opcode.Command
	pc       int // Program counter

	frame *Frame
	scene Scene

	// Collaborators
	renderer  graphics.Renderer
	persister graphics.Persister
	displayer graphics.Displayer

	log *slog.Logger
}

// Option is a functional option for configuring the VM.
type Option func(*VM)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(vm *VM) {
		vm.log = log
	}
}

// WithScene sets the run-wide scene settings.
func WithScene(scene Scene) Option {
	return func(vm *VM) {
		vm.scene = scene
	}
}

// WithRenderer sets the tessellator and rasterizer.
func WithRenderer(r graphics.Renderer) Option {
	return func(vm *VM) {
		vm.renderer = r
	}
}

// WithPersister sets where save commands write.
func WithPersister(p graphics.Persister) Option {
	return func(vm *VM) {
		vm.persister = p
	}
}

// WithDisplayer sets where display commands show the frame.
// Without one, display commands are logged and skipped.
func WithDisplayer(d graphics.Displayer) Option {
	return func(vm *VM) {
		vm.displayer = d
	}
}

// New creates a VM for the given commands and frame.
//
// Parameters:
//   - commands: The command list, executed in order
//   - frame: The frame to render into
//   - opts: Optional configuration options (logger, scene, collaborators)
//
// Returns:
//   - *VM: The initialized VM instance
func New(commands []opcode.Command, frame *Frame, opts ...Option) *VM {
	vm := &VM{
		commands: commands,
		frame:    frame,
		scene:    DefaultScene(),
		log:      logger.GetLogger(),
	}

	// Apply options
	for _, opt := range opts {
		opt(vm)
	}

	if vm.renderer == nil {
		vm.renderer = graphics.NewHeadless(graphics.WithHeadlessLogger(vm.log))
	}
	if vm.persister == nil {
		vm.persister = graphics.NewFilePersister(vm.log)
	}

	return vm
}

// Run executes every command in order. It stops at the first fatal error
// or when ctx is canceled.
func (vm *VM) Run(ctx context.Context) error {
	for vm.pc = 0; vm.pc < len(vm.commands); vm.pc++ {
		if err := ctx.Err(); err != nil {
			return vm.annotate(WrapRuntimeError(ErrorCanceled, "frame canceled", err))
		}

		if err := vm.Execute(vm.commands[vm.pc]); err != nil {
			return vm.annotate(err)
		}
	}
	return nil
}

// Frame returns the frame the VM renders into.
func (vm *VM) Frame() *Frame {
	return vm.frame
}

// annotate attaches the current command position to err.
func (vm *VM) annotate(err error) error {
	rerr, ok := err.(*RuntimeError)
	if !ok {
		rerr = WrapRuntimeError(ErrorCollaborator, "command failed", err)
	}
	if vm.pc < len(vm.commands) {
		rerr.Index = vm.pc
		rerr.Op = vm.commands[vm.pc].Cmd()
	}
	return rerr
}
