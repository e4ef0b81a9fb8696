package fileutil

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileSystem is where command lists and scenes are read from: a directory on
// disk or a directory of the scenes embedded in the binary. Names are
// relative to that directory and matched ignoring case.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	// BasePath is the directory names are relative to.
	BasePath() string
	// IsEmbedded reports whether files come from the binary rather than disk.
	IsEmbedded() bool
}

// trimRoot は先頭の "/" や "\" を除去して相対名にする
func trimRoot(name string) string {
	return strings.TrimLeft(name, `/\`)
}

// RealFS reads command lists from a directory on disk.
// Absolute names are used as given.
type RealFS struct {
	basePath string
}

// NewRealFS returns a FileSystem rooted at basePath. An empty basePath means
// the working directory.
func NewRealFS(basePath string) *RealFS {
	return &RealFS{basePath: basePath}
}

func (r *RealFS) path(name string) string {
	if filepath.IsAbs(name) || r.basePath == "" {
		return name
	}
	return filepath.Join(r.basePath, trimRoot(name))
}

func (r *RealFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(Resolve("", r.path(name)))
}

func (r *RealFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(r.path(name))
}

func (r *RealFS) BasePath() string { return r.basePath }

func (r *RealFS) IsEmbedded() bool { return false }

// EmbedFS reads scenes from one directory of an fs.FS, normally the embed.FS
// of the binary.
type EmbedFS struct {
	fsys     fs.FS
	basePath string
}

// NewEmbedFS returns a FileSystem for dir inside fsys.
func NewEmbedFS(fsys fs.FS, dir string) *EmbedFS {
	return &EmbedFS{fsys: fsys, basePath: dir}
}

// path は fs.FS 内のパスを返す（区切りは常に "/"）
func (e *EmbedFS) path(name string) string {
	p := path.Join(e.basePath, trimRoot(strings.ReplaceAll(name, `\`, "/")))
	if p == "" {
		return "."
	}
	return p
}

func (e *EmbedFS) ReadFile(name string) ([]byte, error) {
	p := e.path(name)
	data, err := fs.ReadFile(e.fsys, p)
	if err == nil {
		return data, nil
	}

	found, ferr := FindFileCaseInsensitiveFS(e.fsys, path.Dir(p), path.Base(p))
	if ferr != nil {
		return nil, err
	}
	return fs.ReadFile(e.fsys, found)
}

func (e *EmbedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(e.fsys, e.path(name))
}

func (e *EmbedFS) BasePath() string { return e.basePath }

func (e *EmbedFS) IsEmbedded() bool { return true }
