// Package anim resolves the animation commands of a command list.
// FirstPass finds the frame count and basename, SecondPass expands every
// vary command into per-frame knob values.
package anim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/zurustar/keyframe/pkg/opcode"
)

// DefaultBasename is used when frames is given without basename.
const DefaultBasename = "noname"

var (
	// ErrVaryWithoutFrames means the list varies a knob but never says how
	// many frames to render. The run cannot continue.
	ErrVaryWithoutFrames = errors.New("vary found but no frames command")

	// ErrInvalidFrameCount means the frames command asked for fewer than one frame.
	ErrInvalidFrameCount = errors.New("frame count must be at least 1")
)

// FrameTable holds, for each frame, the value of every knob varied on that
// frame. A knob missing from a frame's map keeps its symbol table value.
type FrameTable []map[string]float64

// Animation is the resolved animation metadata of a command list.
type Animation struct {
	Basename  string
	NumFrames int
	Frames    FrameTable
}

// IsAnimated reports whether more than one frame is rendered.
func (a *Animation) IsAnimated() bool {
	return a.NumFrames > 1
}

// FirstPass scans commands for frames, basename and vary. The last frames
// and basename commands win.
//
// Returns ErrVaryWithoutFrames if vary appears without frames. When frames
// appears without basename, DefaultBasename is used and a warning is logged.
// Without frames the count is 1.
func FirstPass(commands []opcode.Command, log *slog.Logger) (string, int, error) {
	if log == nil {
		log = slog.Default()
	}

	numFrames, hasFrames := 1, false
	name, hasName := DefaultBasename, false
	hasVary := false

	for _, c := range commands {
		switch v := c.(type) {
		case opcode.FramesCmd:
			numFrames, hasFrames = v.Count, true
		case opcode.BasenameCmd:
			name, hasName = v.Name, true
		case opcode.VaryCmd:
			hasVary = true
		}
	}

	if hasVary && !hasFrames {
		log.Error("vary found but no frames command, cannot animate")
		return "", 0, ErrVaryWithoutFrames
	}
	if hasFrames && numFrames < 1 {
		return "", 0, fmt.Errorf("%w: got %d", ErrInvalidFrameCount, numFrames)
	}
	if hasFrames && !hasName {
		log.Warn("No basename found, using default", "basename", DefaultBasename)
	}

	return name, numFrames, nil
}

// SecondPass builds the frame table. Each vary command must satisfy
// 0 <= start < end < numFrames; a command that does not is logged and
// skipped, and the remaining commands still apply. Valid commands set
//
//	value(f) = start + (end-start)/(endFrame-startFrame) * (f-startFrame)
//
// for every frame in [startFrame, endFrame], hitting the end value exactly
// on endFrame. Later commands overwrite earlier ones on shared frames.
func SecondPass(commands []opcode.Command, numFrames int, log *slog.Logger) FrameTable {
	if log == nil {
		log = slog.Default()
	}
	if numFrames < 0 {
		numFrames = 0
	}

	frames := make(FrameTable, numFrames)
	for i := range frames {
		frames[i] = make(map[string]float64)
	}

	for i, c := range commands {
		v, ok := c.(opcode.VaryCmd)
		if !ok {
			continue
		}

		if v.StartFrame < 0 || v.StartFrame >= v.EndFrame || v.EndFrame >= numFrames {
			log.Warn("Invalid vary range, skipping",
				"index", i,
				"knob", v.Knob,
				"start_frame", v.StartFrame,
				"end_frame", v.EndFrame,
				"frames", numFrames)
			continue
		}

		slope := (v.EndValue - v.StartValue) / float64(v.EndFrame-v.StartFrame)
		for f := v.StartFrame; f < v.EndFrame; f++ {
			frames[f][v.Knob] = v.StartValue + slope*float64(f-v.StartFrame)
		}
		frames[v.EndFrame][v.Knob] = v.EndValue
	}

	return frames
}

// Resolve runs both passes.
func Resolve(commands []opcode.Command, log *slog.Logger) (*Animation, error) {
	name, numFrames, err := FirstPass(commands, log)
	if err != nil {
		return nil, err
	}

	return &Animation{
		Basename:  name,
		NumFrames: numFrames,
		Frames:    SecondPass(commands, numFrames, log),
	}, nil
}
