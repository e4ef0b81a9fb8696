package animation

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"github.com/zurustar/keyframe/pkg/logger"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DefaultDelay is the delay between frames in hundredths of a second.
const DefaultDelay = 2

// GIFAssembler writes an animated GIF.
// Frames are dithered onto the Plan 9 palette.
type GIFAssembler struct {
	outputDir string
	delay     int
	loopCount int
	log       *slog.Logger
}

// GIFOption is a functional option for configuring the GIFAssembler.
type GIFOption func(*GIFAssembler)

// WithDelay sets the delay between frames in hundredths of a second.
func WithDelay(delay int) GIFOption {
	return func(a *GIFAssembler) {
		a.delay = delay
	}
}

// WithLoopCount sets how often the animation repeats. 0 loops forever.
func WithLoopCount(n int) GIFOption {
	return func(a *GIFAssembler) {
		a.loopCount = n
	}
}

// WithGIFLogger sets a custom logger.
func WithGIFLogger(log *slog.Logger) GIFOption {
	return func(a *GIFAssembler) {
		a.log = log
	}
}

// NewGIFAssembler creates an assembler writing into outputDir.
func NewGIFAssembler(outputDir string, opts ...GIFOption) *GIFAssembler {
	a := &GIFAssembler{
		outputDir: outputDir,
		delay:     DefaultDelay,
		log:       logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble decodes frames and writes <outputDir>/<basename>.gif.
func (a *GIFAssembler) Assemble(basename string, frames []string) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}

	out := &gif.GIF{LoopCount: a.loopCount}
	for _, path := range frames {
		img, err := decodeFile(path)
		if err != nil {
			return err
		}

		bounds := img.Bounds()
		paletted := image.NewPaletted(bounds, palette.Plan9)
		xdraw.FloydSteinberg.Draw(paletted, bounds, img, bounds.Min)

		out.Image = append(out.Image, paletted)
		out.Delay = append(out.Delay, a.delay)
	}

	path := OutputPath(a.outputDir, basename)
	if err := os.MkdirAll(a.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, out); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	a.log.Info("Animation assembled", "path", path, "frames", len(frames))
	return nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", path, err)
	}
	return img, nil
}
