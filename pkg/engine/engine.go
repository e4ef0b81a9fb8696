// Package engine drives a render: it resolves the animation once, then
// interprets the command list for every frame and persists the results.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/zurustar/keyframe/pkg/anim"
	"github.com/zurustar/keyframe/pkg/animation"
	"github.com/zurustar/keyframe/pkg/graphics"
	"github.com/zurustar/keyframe/pkg/lighting"
	"github.com/zurustar/keyframe/pkg/logger"
	"github.com/zurustar/keyframe/pkg/opcode"
	"github.com/zurustar/keyframe/pkg/symbol"
	"github.com/zurustar/keyframe/pkg/vm"
	"golang.org/x/sync/errgroup"
)

// Engine renders a command list.
type Engine struct {
	commands []opcode.Command
	base     *symbol.Table
	config   Config
	jobs     int

	// Collaborators
	renderer  graphics.Renderer
	persister graphics.Persister
	displayer graphics.Displayer
	assembler animation.Assembler

	log *slog.Logger
}

// Result summarizes a finished render.
type Result struct {
	Basename   string
	NumFrames  int
	FramePaths []string // Persisted frames in order; empty for a static render
	Animated   bool
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithConfig replaces the default settings.
func WithConfig(c Config) Option {
	return func(e *Engine) {
		e.config = c
	}
}

// WithRenderer sets the tessellator and rasterizer.
func WithRenderer(r graphics.Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// WithPersister sets where frames and save commands write.
func WithPersister(p graphics.Persister) Option {
	return func(e *Engine) {
		e.persister = p
	}
}

// WithDisplayer sets where display commands show the frame.
func WithDisplayer(d graphics.Displayer) Option {
	return func(e *Engine) {
		e.displayer = d
	}
}

// WithAssembler sets what combines the frames of an animation.
func WithAssembler(a animation.Assembler) Option {
	return func(e *Engine) {
		e.assembler = a
	}
}

// WithJobs sets how many frames render at once. Values below 1 mean 1.
func WithJobs(n int) Option {
	return func(e *Engine) {
		e.jobs = n
	}
}

// New creates an engine for the given commands and base symbol table.
// The table is not modified.
//
// Parameters:
//   - commands: The command list
//   - symbols: The base symbol table from the loader, or nil
//   - opts: Optional configuration options
//
// Returns:
//   - *Engine: The initialized engine
func New(commands []opcode.Command, symbols *symbol.Table, opts ...Option) *Engine {
	e := &Engine{
		commands: commands,
		config:   DefaultConfig(),
		jobs:     1,
		log:      logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.jobs < 1 {
		e.jobs = 1
	}
	if e.renderer == nil {
		e.renderer = graphics.NewHeadless(graphics.WithHeadlessLogger(e.log))
	}
	if e.persister == nil {
		e.persister = graphics.NewFilePersister(e.log)
	}
	if e.assembler == nil {
		e.assembler = animation.NewGIFAssembler(e.config.OutputDir, animation.WithGIFLogger(e.log))
	}

	if symbols == nil {
		symbols = symbol.NewTable()
	}
	e.base = e.withDefaultMaterial(symbols)

	return e
}

// withDefaultMaterial returns a copy of symbols holding the default material.
// A material of the same name defined by the command list is kept.
func (e *Engine) withDefaultMaterial(symbols *symbol.Table) *symbol.Table {
	table := symbols.Clone()
	if err := table.SetConstants(e.config.DefaultMaterialName, e.config.DefaultMaterial); err != nil {
		e.log.Debug("Default material already defined", "name", e.config.DefaultMaterialName)
	}
	return table
}

// Symbols returns the base table frames read from.
func (e *Engine) Symbols() *symbol.Table {
	return e.base
}

// FramePath returns where frame index of an animation is persisted:
// <outputDir>/<basename>/<basename><index, 3 digits><ext>.
func FramePath(outputDir, basename string, index int, ext string) string {
	return filepath.Join(outputDir, basename, fmt.Sprintf("%s%03d%s", basename, index, ext))
}

// Run renders every frame. For an animation each frame is supersampled and
// persisted, and the frames are assembled once all of them succeeded.
// It stops at the first error or when ctx is canceled.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	a, err := anim.Resolve(e.commands, e.log)
	if err != nil {
		return nil, err
	}
	if !hasBasename(e.commands) && e.config.DefaultBasename != "" {
		a.Basename = e.config.DefaultBasename
	}

	result := &Result{
		Basename:  a.Basename,
		NumFrames: a.NumFrames,
		Animated:  a.IsAnimated(),
	}

	if result.Animated {
		dir := filepath.Join(e.config.OutputDir, a.Basename)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create frame directory: %w", err)
		}
		result.FramePaths = make([]string, a.NumFrames)
	}

	sink := &frameSink{engine: e, basename: a.Basename, result: result, pending: make(map[int]*graphics.Screen)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)

	for i := 0; i < a.NumFrames; i++ {
		if gctx.Err() != nil {
			break
		}

		i := i
		g.Go(func() error {
			var knobs map[string]float64
			if result.Animated {
				knobs = a.Frames[i]
			}

			frame, err := e.RenderFrame(gctx, i, knobs)
			if err != nil {
				return err
			}
			if !result.Animated {
				e.log.Info("Frame", "index", i)
				return nil
			}

			out, err := graphics.AliasScreen(frame.Screen)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			return sink.put(i, out)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if result.Animated {
		if err := e.assembler.Assemble(a.Basename, result.FramePaths); err != nil {
			return nil, fmt.Errorf("failed to assemble animation: %w", err)
		}
	}

	return result, nil
}

// RenderFrame interprets the command list once at supersampled resolution.
// knobs overlays the base table for this frame only.
func (e *Engine) RenderFrame(ctx context.Context, index int, knobs map[string]float64) (*vm.Frame, error) {
	e.log.Debug("Rendering frame", "index", index)

	width := e.config.Width * Supersample
	height := e.config.Height * Supersample
	frame := vm.NewFrame(index, width, height, e.config.Background, symbol.NewView(e.base, knobs))

	machine := vm.New(e.commands, frame,
		vm.WithLogger(e.log),
		vm.WithScene(e.scene()),
		vm.WithRenderer(e.renderer),
		vm.WithPersister(e.persister),
		vm.WithDisplayer(e.displayer),
	)
	if err := machine.Run(ctx); err != nil {
		return nil, fmt.Errorf("frame %d: %w", index, err)
	}
	return frame, nil
}

// scene resolves the lighting of the command list.
func (e *Engine) scene() vm.Scene {
	ambient, lights := lighting.GetLights(e.commands)
	s := e.config.scene(graphics.Color(ambient))
	s.Lights = lights
	return s
}

// frameSink persists supersampled frames in index order. Frames finishing
// early wait in pending until every lower index has been saved.
type frameSink struct {
	engine   *Engine
	basename string
	result   *Result

	mu      sync.Mutex
	pending map[int]*graphics.Screen
	next    int
}

func (s *frameSink) put(index int, out *graphics.Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[index] = out
	for {
		screen, ok := s.pending[s.next]
		if !ok {
			return nil
		}
		delete(s.pending, s.next)

		path, err := s.engine.persistFrame(s.next, screen, s.basename)
		if err != nil {
			return err
		}
		s.result.FramePaths[s.next] = path
		s.engine.log.Info("Frame", "index", s.next)
		s.next++
	}
}

func (e *Engine) persistFrame(index int, out *graphics.Screen, basename string) (string, error) {
	path := FramePath(e.config.OutputDir, basename, index, e.config.FrameExt)
	if err := e.persister.Save(out.Image(), path); err != nil {
		return "", fmt.Errorf("frame %d: failed to persist: %w", index, err)
	}
	e.log.Debug("Frame persisted", "index", index, "path", path)
	return path, nil
}

func hasBasename(commands []opcode.Command) bool {
	for _, c := range commands {
		if _, ok := c.(opcode.BasenameCmd); ok {
			return true
		}
	}
	return false
}
