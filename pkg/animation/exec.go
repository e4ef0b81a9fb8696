package animation

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/zurustar/keyframe/pkg/logger"
)

// ExecAssembler runs ImageMagick:
//
//	convert -delay 1.7 <frames...> <outputDir>/<basename>.gif
type ExecAssembler struct {
	outputDir string
	command   string
	delay     string
	log       *slog.Logger
}

// ExecOption is a functional option for configuring the ExecAssembler.
type ExecOption func(*ExecAssembler)

// WithCommand replaces the convert executable.
func WithCommand(name string) ExecOption {
	return func(a *ExecAssembler) {
		a.command = name
	}
}

// WithExecLogger sets a custom logger.
func WithExecLogger(log *slog.Logger) ExecOption {
	return func(a *ExecAssembler) {
		a.log = log
	}
}

// NewExecAssembler creates an assembler writing into outputDir.
func NewExecAssembler(outputDir string, opts ...ExecOption) *ExecAssembler {
	a := &ExecAssembler{
		outputDir: outputDir,
		command:   "convert",
		delay:     "1.7",
		log:       logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Args returns the command line arguments for the given frames.
func (a *ExecAssembler) Args(basename string, frames []string) []string {
	args := make([]string, 0, len(frames)+3)
	args = append(args, "-delay", a.delay)
	args = append(args, frames...)
	return append(args, OutputPath(a.outputDir, basename))
}

// Assemble runs the command and waits for it.
func (a *ExecAssembler) Assemble(basename string, frames []string) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}

	args := a.Args(basename, frames)
	a.log.Debug("Running assembler", "command", a.command, "args", strings.Join(args, " "))

	output, err := exec.Command(a.command, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", a.command, err, strings.TrimSpace(string(output)))
	}

	a.log.Info("Animation assembled", "path", OutputPath(a.outputDir, basename), "frames", len(frames))
	return nil
}
