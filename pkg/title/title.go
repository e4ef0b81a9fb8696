// Package title keeps the catalog of bundled scenes.
//
// A scene is a command list file (YAML or JSON) at the top of a
// fileutil.FileSystem. Its metadata comes from optional top-level fields:
//
//	title: Orbit
//	description: A torus orbiting a spinning box
//
// When no description field is present, the first comment line of the file
// is used instead.
package title

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/zurustar/keyframe/pkg/fileutil"
	"gopkg.in/yaml.v3"
)

// ErrSceneNotFound is returned when no scene matches a name.
var ErrSceneNotFound = errors.New("scene not found")

// 一覧に含める拡張子
var sceneExts = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// Scene は組み込みシーンを表す
type Scene struct {
	Name     string   // 拡張子を除いたファイル名
	File     string   // ファイルシステム内のファイル名
	Metadata Metadata // ファイルから抽出したメタデータ
}

// Metadata はシーンファイルの先頭フィールドから抽出したメタデータ
type Metadata struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Registry は組み込みシーンの一覧を管理する
type Registry struct {
	fsys   fileutil.FileSystem
	scenes []Scene
}

// NewRegistry lists the scenes at the top of fsys. A nil or unreadable file
// system yields an empty registry.
func NewRegistry(fsys fileutil.FileSystem) *Registry {
	r := &Registry{fsys: fsys}
	if fsys != nil {
		r.load()
	}
	return r
}

func (r *Registry) load() {
	entries, err := r.fsys.ReadDir(".")
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(entry.Name()))
		if !sceneExts[ext] {
			continue
		}

		scene := Scene{
			Name: strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())),
			File: entry.Name(),
		}
		if data, err := r.fsys.ReadFile(entry.Name()); err == nil {
			scene.Metadata = ExtractMetadata(data)
		}
		r.scenes = append(r.scenes, scene)
	}

	sort.Slice(r.scenes, func(i, j int) bool {
		return r.scenes[i].Name < r.scenes[j].Name
	})
}

// Scenes returns the scenes sorted by name.
func (r *Registry) Scenes() []Scene {
	return r.scenes
}

// Find returns the scene whose name or file name matches, ignoring case.
func (r *Registry) Find(name string) (*Scene, error) {
	for i := range r.scenes {
		s := &r.scenes[i]
		if strings.EqualFold(s.Name, name) || strings.EqualFold(s.File, name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, name)
}

// ExtractMetadata reads the title and description of a scene file. Broken
// files yield whatever the comment fallback finds.
func ExtractMetadata(data []byte) Metadata {
	var meta Metadata
	_ = yaml.Unmarshal(data, &meta)

	if meta.Description == "" {
		meta.Description = firstComment(string(data))
	}
	return meta
}

// firstComment は先頭のコメント行を返す
func firstComment(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			return ""
		}
		if text := strings.TrimSpace(strings.TrimPrefix(line, "#")); text != "" {
			return text
		}
	}
	return ""
}

// DisplayName 表示用の名前を返す
func (s *Scene) DisplayName() string {
	if s.Metadata.Title != "" {
		return fmt.Sprintf("%s (%s)", s.Metadata.Title, s.Name)
	}
	return s.Name
}
