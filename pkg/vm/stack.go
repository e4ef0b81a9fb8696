package vm

import (
	"errors"
	"fmt"

	"github.com/zurustar/keyframe/pkg/matrix"
)

// MaxStackDepth is the maximum transform stack depth.
const MaxStackDepth = 1000

var (
	// ErrStackUnderflow is returned when pop would leave the stack empty.
	ErrStackUnderflow = errors.New("cannot pop the base transform")

	// ErrStackOverflow is returned when push would exceed MaxStackDepth.
	ErrStackOverflow = errors.New("transform stack overflow")
)

// TransformStack is the stack of composite object-to-world transforms.
// It is never empty; the top is the current transform.
type TransformStack struct {
	frames []matrix.Matrix
}

// NewTransformStack creates a stack holding only base.
func NewTransformStack(base matrix.Matrix) *TransformStack {
	s := &TransformStack{
		frames: make([]matrix.Matrix, 1, 16),
	}
	s.frames[0] = base
	return s
}

// Push duplicates the top. Matrix is a value type, so the new top shares no
// storage with the one below it.
func (s *TransformStack) Push() error {
	if len(s.frames) >= MaxStackDepth {
		return fmt.Errorf("%w: maximum depth %d exceeded", ErrStackOverflow, MaxStackDepth)
	}
	s.frames = append(s.frames, s.frames[len(s.frames)-1])
	return nil
}

// Pop discards the top. The base transform cannot be popped.
func (s *TransformStack) Pop() error {
	if len(s.frames) <= 1 {
		return ErrStackUnderflow
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Current returns a copy of the top.
func (s *TransformStack) Current() matrix.Matrix {
	return s.frames[len(s.frames)-1]
}

// ReplaceTop sets the top to m.
func (s *TransformStack) ReplaceTop(m matrix.Matrix) {
	s.frames[len(s.frames)-1] = m
}

// Depth returns the number of transforms on the stack.
func (s *TransformStack) Depth() int {
	return len(s.frames)
}
