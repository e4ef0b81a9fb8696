// Package animation assembles the persisted frames of a render into a
// single animated file.
package animation

import (
	"errors"
	"path/filepath"
)

// ErrNoFrames is returned when there is nothing to assemble.
var ErrNoFrames = errors.New("no frames to assemble")

// Assembler combines frame files, in order, into one animation named after
// basename.
type Assembler interface {
	Assemble(basename string, frames []string) error
}

// OutputPath returns where an animation for basename is written.
func OutputPath(outputDir, basename string) string {
	return filepath.Join(outputDir, basename+".gif")
}
