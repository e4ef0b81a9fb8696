package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// アセンブラの種類
const (
	AssemblerGIF     = "gif"     // GIFを直接書き出す
	AssemblerConvert = "convert" // ImageMagickのconvertを実行する
)

// 既定値
const (
	DefaultOutputDir = "anim"
	DefaultSize      = 500
	DefaultFormat    = "png"
	DefaultEncoding  = "utf-8"
	DefaultScene     = "demo"
)

// フレーム画像として書き出せる形式
var validFormats = map[string]bool{
	"png":  true,
	"bmp":  true,
	"gif":  true,
	"jpg":  true,
	"jpeg": true,
	"tif":  true,
	"tiff": true,
}

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	ScriptPath string        // コマンドリストファイルのパス（空なら組み込みシーン）
	Scene      string        // 組み込みシーンの名前
	ListScenes bool          // 組み込みシーンの一覧を表示する
	Timeout    time.Duration // タイムアウト時間（0は無制限）
	LogLevel   string        // ログレベル（debug, info, warn, error）
	Headless   bool          // ヘッドレスモード
	Jobs       int           // 同時にレンダリングするフレーム数
	OutputDir  string        // アニメーションの出力ディレクトリ
	Size       int           // 出力画像の一辺のピクセル数
	Format     string        // フレーム画像の形式（拡張子、ドットなし）
	Encoding   string        // 入力ファイルの文字エンコーディング
	Assembler  string        // アニメーションの組み立て方法（gif, convert）
	ShowHelp   bool          // ヘルプ表示フラグ
}

// FrameExt returns the frame file extension including the dot.
func (c *Config) FrameExt() string {
	return "." + c.Format
}

// ParseArgs コマンドライン引数を解析してConfigを返す
// 環境変数 HEADLESS, TIMEOUT, JOBS, LOG_LEVEL も参照する（フラグが優先）
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("keyframe", flag.ContinueOnError)

	config := &Config{}

	var timeoutSec int
	fs.IntVar(&timeoutSec, "timeout", 0, "タイムアウト時間（秒）")
	fs.IntVar(&timeoutSec, "t", 0, "タイムアウト時間（秒）（短縮形）")
	fs.StringVar(&config.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.BoolVar(&config.Headless, "headless", false, "ヘッドレスモード")
	fs.IntVar(&config.Jobs, "jobs", 0, "同時にレンダリングするフレーム数")
	fs.IntVar(&config.Jobs, "j", 0, "同時にレンダリングするフレーム数（短縮形）")
	fs.StringVar(&config.OutputDir, "output", DefaultOutputDir, "出力ディレクトリ")
	fs.StringVar(&config.OutputDir, "o", DefaultOutputDir, "出力ディレクトリ（短縮形）")
	fs.IntVar(&config.Size, "size", DefaultSize, "出力画像の一辺のピクセル数")
	fs.StringVar(&config.Format, "format", DefaultFormat, "フレーム画像の形式")
	fs.StringVar(&config.Encoding, "encoding", DefaultEncoding, "入力ファイルの文字エンコーディング")
	fs.StringVar(&config.Assembler, "assembler", AssemblerGIF, "アニメーションの組み立て方法（gif, convert）")
	fs.StringVar(&config.Scene, "scene", DefaultScene, "組み込みシーンの名前")
	fs.BoolVar(&config.ListScenes, "list", false, "組み込みシーンの一覧を表示")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if !config.Headless {
		if headlessEnv := os.Getenv("HEADLESS"); headlessEnv != "" {
			config.Headless = headlessEnv == "1" || strings.ToLower(headlessEnv) == "true"
		}
	}

	// 環境変数からタイムアウトを取得（コマンドラインフラグが優先）
	if timeoutSec == 0 {
		if timeoutEnv := os.Getenv("TIMEOUT"); timeoutEnv != "" {
			if t, err := strconv.Atoi(timeoutEnv); err == nil && t > 0 {
				timeoutSec = t
			}
		}
	}

	// 環境変数から並列数を取得（コマンドラインフラグが優先）
	if config.Jobs == 0 {
		if jobsEnv := os.Getenv("JOBS"); jobsEnv != "" {
			if j, err := strconv.Atoi(jobsEnv); err == nil && j > 0 {
				config.Jobs = j
			}
		}
	}
	if config.Jobs == 0 {
		config.Jobs = 1
	}

	// 環境変数からログレベルを取得（コマンドラインフラグが優先）
	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	if err := config.validate(timeoutSec); err != nil {
		return nil, err
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	// 位置引数（コマンドリストファイルのパス）
	if fs.NArg() > 0 {
		config.ScriptPath = fs.Arg(0)
	}

	return config, nil
}

// validate 設定値の検証
func (c *Config) validate(timeoutSec int) error {
	// タイムアウトの検証
	if timeoutSec < 0 {
		return fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}

	// ログレベルの検証
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.Size < 2 {
		return fmt.Errorf("size must be at least 2, got %d", c.Size)
	}
	if c.Scene == "" {
		return fmt.Errorf("scene name must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}

	c.Format = strings.ToLower(strings.TrimPrefix(c.Format, "."))
	if !validFormats[c.Format] {
		return fmt.Errorf("unsupported format: %s (must be png, bmp, gif, jpg or tiff)", c.Format)
	}

	switch c.Assembler {
	case AssemblerGIF, AssemblerConvert:
	default:
		return fmt.Errorf("invalid assembler: %s (must be gif or convert)", c.Assembler)
	}
	return nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 0 && arg[0] == '-' {
			flags = append(flags, arg)

			// 次の引数が値である可能性をチェック
			// （-t 5 のような場合、-o=dir のような形式は除く）
			if !strings.Contains(arg, "=") && i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				// ブール型フラグでない場合は次の引数も追加
				if !isBoolFlag(arg) {
					i++
					flags = append(flags, args[i])
				}
			}
		} else {
			// 位置引数
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	return append(flags, positional...)
}

func isBoolFlag(arg string) bool {
	switch arg {
	case "-h", "--h", "-help", "--help", "-headless", "--headless", "-list", "--list":
		return true
	default:
		return false
	}
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `keyframe - animated scene renderer

Usage:
  keyframe [options] [command-list]

Arguments:
  command-list  YAMLまたはJSONのコマンドリストファイル（省略時は組み込みシーン）

Options:
  -t, --timeout <seconds>     指定秒数後に終了（デフォルト: 無制限）
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  --headless                  ヘッドレスモード（ウィンドウを開かない）
  -j, --jobs <n>              同時にレンダリングするフレーム数（デフォルト: 1）
  -o, --output <dir>          アニメーションの出力ディレクトリ（デフォルト: anim）
  --size <pixels>             出力画像の一辺（デフォルト: 500、内部では2倍で描画）
  --format <ext>              フレーム画像の形式: png, bmp, gif, jpg, tiff（デフォルト: png）
  --encoding <name>           入力ファイルの文字エンコーディング（デフォルト: utf-8）
  --assembler <kind>          gif（直接書き出し）または convert（ImageMagick）
  --scene <name>              組み込みシーンの名前（デフォルト: demo）
  --list                      組み込みシーンの一覧を表示
  -h, --help                  このヘルプを表示

Environment Variables:
  HEADLESS=1                  ヘッドレスモードを有効化
  TIMEOUT=<seconds>           タイムアウト時間（秒）
  JOBS=<n>                    同時にレンダリングするフレーム数
  LOG_LEVEL=<level>           ログレベル

Examples:
  keyframe scene.yaml                     コマンドリストをレンダリング
  keyframe --headless                     組み込みデモをウィンドウなしで実行
  keyframe --scene still                  組み込みシーンstillを実行
  keyframe -j 4 -o out scene.yaml         4フレームずつ並列にレンダリング
  keyframe --encoding shift_jis old.yaml  Shift_JISのファイルを読み込む
  keyframe --assembler convert scene.yaml ImageMagickでGIFを作成
`)
}
