package graphics

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultExt is appended to save paths that carry no extension.
const DefaultExt = ".png"

// FilePersister writes images to the local file system.
// It is safe for concurrent use as long as callers write distinct paths.
type FilePersister struct {
	log *slog.Logger
}

// NewFilePersister creates a FilePersister. A nil logger uses slog.Default().
func NewFilePersister(log *slog.Logger) *FilePersister {
	if log == nil {
		log = slog.Default()
	}
	return &FilePersister{log: log}
}

// Save encodes img by the extension of path, creating parent directories.
// Supported: .png, .bmp, .gif, .jpg/.jpeg, .tif/.tiff.
func (p *FilePersister) Save(img image.Image, path string) error {
	path = PathWithExt(path)

	encode, err := encoderFor(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	p.log.Debug("Image saved", "path", path)
	return nil
}

type encodeFunc func(w io.Writer, img image.Image) error

func encoderFor(path string) (encodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".gif":
		return func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}, nil
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
		}, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, nil)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// PathWithExt returns path with DefaultExt appended when it has no extension.
func PathWithExt(path string) string {
	if filepath.Ext(path) == "" {
		return path + DefaultExt
	}
	return path
}
