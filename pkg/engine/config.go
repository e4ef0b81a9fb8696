package engine

import (
	"github.com/zurustar/keyframe/pkg/anim"
	"github.com/zurustar/keyframe/pkg/graphics"
	"github.com/zurustar/keyframe/pkg/symbol"
	"github.com/zurustar/keyframe/pkg/vm"
)

// Supersample is the factor frames are rendered above output resolution.
// The supersampler halves each dimension.
const Supersample = 2

// DefaultOutputDir is where animation frames are written.
const DefaultOutputDir = "anim"

// DefaultSize is the output edge length in pixels.
const DefaultSize = 500

// Config holds the settings of a render.
type Config struct {
	DefaultMaterialName string           // Symbol the default material is stored under
	DefaultMaterial     symbol.Constants // Material of geometry that names none
	DefaultBasename     string           // Used when frames is given without basename

	View       [3]float64     // View vector passed to shading
	LineColor  graphics.Color // Color of line commands
	Background graphics.Color // Initial color of every frame

	Width  int // Output width in pixels
	Height int // Output height in pixels

	OutputDir string // Root directory of animation frames
	FrameExt  string // Extension, and so format, of animation frames
	Step      int    // Tessellation step for spheres and tori
	BaseDir   string // Base path for resolving mesh files
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		DefaultMaterialName: vm.DefaultMaterialName,
		DefaultMaterial:     symbol.White,
		DefaultBasename:     anim.DefaultBasename,
		View:                [3]float64{0, 0, 1},
		LineColor:           graphics.Black,
		Background:          graphics.White,
		Width:               DefaultSize,
		Height:              DefaultSize,
		OutputDir:           DefaultOutputDir,
		FrameExt:            graphics.DefaultExt,
		Step:                vm.DefaultStep,
	}
}

// scene builds the interpreter settings shared by every frame.
func (c Config) scene(ambient graphics.Color) vm.Scene {
	return vm.Scene{
		Ambient:         ambient,
		View:            c.View,
		LineColor:       c.LineColor,
		Step:            c.Step,
		DefaultMaterial: c.DefaultMaterialName,
		BaseDir:         c.BaseDir,
	}
}
