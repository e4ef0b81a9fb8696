package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zurustar/keyframe/pkg/animation"
	"github.com/zurustar/keyframe/pkg/cli"
	"github.com/zurustar/keyframe/pkg/engine"
	"github.com/zurustar/keyframe/pkg/fileutil"
	"github.com/zurustar/keyframe/pkg/graphics"
	"github.com/zurustar/keyframe/pkg/logger"
	"github.com/zurustar/keyframe/pkg/opcode"
	"github.com/zurustar/keyframe/pkg/script"
	"github.com/zurustar/keyframe/pkg/title"
	"github.com/zurustar/keyframe/pkg/window"
)

// EmbeddedSceneDir is the directory of the embedded FS holding the bundled scenes.
const EmbeddedSceneDir = "scenes"

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config  *cli.Config
	log     *slog.Logger
	embedFS fs.FS
	scenes  *title.Registry
	stdout  io.Writer
	script  *script.Script // 読み込んだコマンドリスト
	result  *engine.Result // 最後のレンダリング結果
}

// New Applicationを作成
func New(embedFS fs.FS) *Application {
	return &Application{
		embedFS: embedFS,
		scenes:  title.NewRegistry(sceneFS(embedFS)),
		stdout:  os.Stdout,
	}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp()
		return nil
	}

	if app.config.ListScenes {
		app.listScenes()
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Info("Application started")

	// 3. 組み込みシーンの選択
	scene, err := app.selectScene()
	if err != nil {
		return fmt.Errorf("failed to select scene: %w", err)
	}

	// 4. コマンドリストの読み込み
	// 読み込めない場合はレンダリングせずに正常終了する
	s, err := app.loadScript(scene)
	if err != nil {
		app.log.Error("Parsing failed", "error", err)
		fmt.Fprintln(app.stdout, "Parsing failed.")
		return nil
	}
	app.script = s

	app.log.Info("Command list loaded", "file", s.FileName, "commands", len(s.Commands), "symbols", s.Symbols.Len())
	app.log.Debug("Commands", "commands", formatCommandsPreview(s.Commands, 10))

	// 5. レンダリング
	if err := app.render(); err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	app.log.Info("Application terminated normally")
	return nil
}

// Result returns the outcome of the last render, or nil.
func (app *Application) Result() *engine.Result {
	return app.result
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLogger(app.config.LogLevel); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// listScenes 組み込みシーンの一覧を表示
func (app *Application) listScenes() {
	scenes := app.scenes.Scenes()
	if len(scenes) == 0 {
		fmt.Fprintln(app.stdout, "No embedded scenes")
		return
	}
	for _, s := range scenes {
		if s.Metadata.Description != "" {
			fmt.Fprintf(app.stdout, "%-24s %s\n", s.DisplayName(), s.Metadata.Description)
		} else {
			fmt.Fprintln(app.stdout, s.DisplayName())
		}
	}
}

// selectScene パスが指定されていない場合に使う組み込みシーンを返す
// パスが指定されている場合はnilを返す
func (app *Application) selectScene() (*title.Scene, error) {
	if app.config.ScriptPath != "" {
		return nil, nil
	}
	if len(app.scenes.Scenes()) == 0 {
		return nil, fmt.Errorf("no command list given and no embedded scenes available")
	}
	scene, err := app.scenes.Find(app.config.Scene)
	if err != nil {
		return nil, err
	}
	app.log.Info("No command list given, using embedded scene", "scene", scene.DisplayName())
	return scene, nil
}

// loadScript コマンドリストを読み込む
// sceneがnilの場合は指定されたパスから読み込む
func (app *Application) loadScript(scene *title.Scene) (*script.Script, error) {
	opts := []script.LoaderOption{
		script.WithEncoding(app.config.Encoding),
		script.WithLogger(app.log),
	}

	if scene == nil {
		dir, name := filepath.Split(app.config.ScriptPath)
		return script.NewLoader(filepath.Clean(dir), opts...).Load(name)
	}
	return script.NewLoaderWithFS(sceneFS(app.embedFS), opts...).Load(scene.File)
}

// sceneFS は組み込みシーンのディレクトリを返す
func sceneFS(embedFS fs.FS) fileutil.FileSystem {
	if embedFS == nil {
		return nil
	}
	return fileutil.NewEmbedFS(embedFS, EmbeddedSceneDir)
}

// newEngine 設定からエンジンを作成する
func (app *Application) newEngine(displayer graphics.Displayer) *engine.Engine {
	config := engine.DefaultConfig()
	config.Width = app.config.Size
	config.Height = app.config.Size
	config.OutputDir = app.config.OutputDir
	config.FrameExt = app.config.FrameExt()
	config.BaseDir = app.script.BaseDir

	var assembler animation.Assembler
	switch app.config.Assembler {
	case cli.AssemblerConvert:
		assembler = animation.NewExecAssembler(config.OutputDir, animation.WithExecLogger(app.log))
	default:
		assembler = animation.NewGIFAssembler(config.OutputDir, animation.WithGIFLogger(app.log))
	}

	opts := []engine.Option{
		engine.WithLogger(app.log),
		engine.WithConfig(config),
		engine.WithJobs(app.config.Jobs),
		engine.WithPersister(graphics.NewFilePersister(app.log)),
		engine.WithAssembler(assembler),
	}
	if displayer != nil {
		opts = append(opts, engine.WithDisplayer(displayer))
	}
	return engine.New(app.script.Commands, app.script.Symbols, opts...)
}

// render レンダリングを実行する
// displayコマンドがありGUIモードの場合はウィンドウを開き、
// レンダリングは別のゴルーチンで行う
func (app *Application) render() error {
	ctx := context.Background()
	if app.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.config.Timeout)
		defer cancel()
		app.log.Info("Timeout set", "duration", app.config.Timeout)
	}

	if app.config.Headless {
		app.log.Info("Headless mode: display commands are logged only")
		return app.runEngine(ctx, app.newEngine(window.NewHeadlessDisplayer(app.log)))
	}

	if !hasDisplay(app.script.Commands) {
		return app.runEngine(ctx, app.newEngine(nil))
	}

	viewer := window.NewViewer(app.config.Size, app.config.Size,
		window.WithTitle("keyframe - "+app.script.FileName),
		window.WithTimeout(app.config.Timeout),
		window.WithOverlay(app.config.LogLevel == "debug"),
		window.WithLogger(app.log))
	e := app.newEngine(viewer)
	viewer.SetStartFunc(func() error {
		return app.runEngine(ctx, e)
	})
	return window.Run(viewer)
}

func (app *Application) runEngine(ctx context.Context, e *engine.Engine) error {
	result, err := e.Run(ctx)
	if err != nil {
		return err
	}
	app.result = result

	if result.Animated {
		app.log.Info("Render finished",
			"basename", result.Basename,
			"frames", result.NumFrames,
			"animation", animation.OutputPath(app.config.OutputDir, result.Basename))
	} else {
		app.log.Info("Render finished", "frames", result.NumFrames)
	}
	return nil
}

func hasDisplay(commands []opcode.Command) bool {
	for _, c := range commands {
		if _, ok := c.(opcode.DisplayCmd); ok {
			return true
		}
	}
	return false
}

// formatCommandsPreview コマンドのプレビューを生成（デバッグ用）
func formatCommandsPreview(commands []opcode.Command, maxCount int) string {
	if len(commands) == 0 {
		return "[]"
	}

	count := len(commands)
	if count > maxCount {
		count = maxCount
	}

	var result string
	for i := 0; i < count; i++ {
		if i > 0 {
			result += ", "
		}
		result += fmt.Sprintf("{Cmd: %s}", commands[i].Cmd())
	}

	if len(commands) > maxCount {
		result += fmt.Sprintf(", ... (%d more)", len(commands)-maxCount)
	}

	return "[" + result + "]"
}
