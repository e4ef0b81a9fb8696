// Package fileutil finds command lists, scenes and meshes whatever case
// their names are written in.
package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FindFileCaseInsensitive returns the path of the file in dir whose name
// equals filename ignoring case. A miss wraps fs.ErrNotExist.
//
//	path, err := FindFileCaseInsensitive("/scenes", "Teapot.OBJ")
//	// finds "teapot.obj", "TEAPOT.OBJ", "Teapot.obj", ...
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	name, ok := matchName(entries, filename)
	if !ok {
		return "", notFound(dir, filename)
	}
	return filepath.Join(dir, name), nil
}

// FindFileCaseInsensitiveFS is FindFileCaseInsensitive inside fsys.
// The returned path uses forward slashes as fs.FS requires.
func FindFileCaseInsensitiveFS(fsys fs.FS, dir, filename string) (string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	name, ok := matchName(entries, filename)
	if !ok {
		return "", notFound(dir, filename)
	}
	return path.Join(dir, name), nil
}

// Resolve returns the path of name relative to baseDir.
// Absolute names and an empty baseDir leave name unchanged. When the exact
// path does not exist, a case-insensitive match in the same directory is
// used instead; if there is none the joined path is returned as is, so the
// caller reports the missing file.
func Resolve(baseDir, name string) string {
	p := name
	if baseDir != "" && !filepath.IsAbs(name) {
		p = filepath.Join(baseDir, name)
	}

	if _, err := os.Stat(p); err == nil {
		return p
	}
	if found, err := FindFileCaseInsensitive(filepath.Dir(p), filepath.Base(p)); err == nil {
		return found
	}
	return p
}

// matchName はディレクトリ以外のエントリから名前が一致するものを探す
func matchName(entries []fs.DirEntry, filename string) (string, bool) {
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), filename) {
			return entry.Name(), true
		}
	}
	return "", false
}

func notFound(dir, filename string) error {
	return fmt.Errorf("%w: %s (searched in %s)", fs.ErrNotExist, filename, dir)
}
