// Package script loads command lists and their symbol tables.
//
// A command list is a YAML or JSON document:
//
//	symbols:
//	  spin: [knob, 0]
//	  shiny: [constants, {red: [0.3, 0.8, 0.9], green: [0.3, 0.8, 0.9], blue: [0.3, 0.8, 0.9]}]
//	commands:
//	  - {op: frames, args: [10]}
//	  - {op: vary, args: [0, 9, 0, 1], knob: spin}
//	  - {op: rotate, args: [y, 360], knob: spin}
//	  - {op: sphere, args: [0, 0, 0, 100], constants: shiny}
//
// Files in legacy encodings are converted to UTF-8 before decoding.
package script

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/zurustar/keyframe/pkg/fileutil"
	"github.com/zurustar/keyframe/pkg/logger"
	"github.com/zurustar/keyframe/pkg/opcode"
	"github.com/zurustar/keyframe/pkg/symbol"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// DefaultEncoding is the encoding assumed for command list files.
const DefaultEncoding = "utf-8"

// Script はデコード済みのコマンドリストを表す
type Script struct {
	FileName string           // ファイル名
	BaseDir  string           // メッシュファイルの基準ディレクトリ
	Commands []opcode.Command // 実行順のコマンド
	Symbols  *symbol.Table    // ノブとマテリアルのベーステーブル
}

// Loader はコマンドリストファイルの読み込みを行う
type Loader struct {
	fs       fileutil.FileSystem
	encoding string
	log      *slog.Logger
}

// LoaderOption is a functional option for configuring the Loader.
type LoaderOption func(*Loader)

// WithEncoding sets the encoding of the files to load.
func WithEncoding(name string) LoaderOption {
	return func(l *Loader) {
		l.encoding = name
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.log = log
	}
}

// NewLoader Loaderを作成（実ファイルシステム）
func NewLoader(basePath string, opts ...LoaderOption) *Loader {
	return NewLoaderWithFS(fileutil.NewRealFS(basePath), opts...)
}

// NewLoaderWithFS FileSystemを指定してLoaderを作成
func NewLoaderWithFS(fsys fileutil.FileSystem, opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:       fsys,
		encoding: DefaultEncoding,
		log:      logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the command list stored under name.
func (l *Loader) Load(name string) (*Script, error) {
	data, err := l.fs.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	text, err := DecodeText(data, l.encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to convert encoding: %w", err)
	}

	commands, symbols, err := Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	s := &Script{
		FileName: filepath.Base(name),
		Commands: commands,
		Symbols:  symbols,
	}
	if !l.fs.IsEmbedded() {
		s.BaseDir = filepath.Dir(filepath.Join(l.fs.BasePath(), name))
		if filepath.IsAbs(name) {
			s.BaseDir = filepath.Dir(name)
		}
	}

	l.log.Debug("Command list loaded", "file", name, "commands", len(commands), "symbols", symbols.Len())
	return s, nil
}

// DecodeText converts data in the named encoding to UTF-8.
// Names are WHATWG labels such as "utf-8", "shift_jis" or "euc-jp"; an empty
// name means UTF-8. A byte order mark overrides the named encoding.
func DecodeText(data []byte, name string) ([]byte, error) {
	var enc encoding.Encoding = unicode.UTF8
	if name != "" {
		e, err := htmlindex.Get(name)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
		}
		enc = e
	}

	reader := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(enc.NewDecoder()))
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return out, nil
}

// document is the serialized form of a command list.
type document struct {
	Symbols  map[string][]any `yaml:"symbols"`
	Commands []rawCommand     `yaml:"commands"`
}

// rawCommand is one command before validation.
type rawCommand struct {
	Op        string `yaml:"op"`
	Args      []any  `yaml:"args"`
	Knob      string `yaml:"knob"`
	Constants string `yaml:"constants"`
	CS        string `yaml:"cs"`
}

// Parse decodes a UTF-8 YAML or JSON command list.
// Knobs referenced by commands but absent from the symbols section are
// registered with value 0. A knob name bound to a material is an ErrSymbol.
func Parse(data []byte) ([]opcode.Command, *symbol.Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	table, err := buildSymbols(doc.Symbols)
	if err != nil {
		return nil, nil, err
	}

	commands := make([]opcode.Command, 0, len(doc.Commands))
	for i, raw := range doc.Commands {
		cmd, err := convert(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("command %d (%s): %w", i, raw.Op, err)
		}

		if err := registerKnob(table, opcode.KnobName(cmd)); err != nil {
			return nil, nil, fmt.Errorf("command %d (%s): %w", i, raw.Op, err)
		}
		commands = append(commands, cmd)
	}

	return commands, table, nil
}

// registerKnob makes sure name is usable as a knob.
func registerKnob(table *symbol.Table, name string) error {
	if name == "" {
		return nil
	}
	if s, ok := table.Get(name); ok {
		if s.Kind != symbol.KindKnob {
			return fmt.Errorf("%w: %q is %s, not a knob", ErrSymbol, name, s.Kind)
		}
		return nil
	}
	return table.SetKnob(name, 0)
}
