package cli

import (
	"reflect"
	"testing"
	"time"
)

// clearEnv 環境変数の影響を受けないようにする
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"HEADLESS", "TIMEOUT", "JOBS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

// defaults returns the configuration of an empty command line.
func defaults() Config {
	return Config{
		LogLevel:  "info",
		Jobs:      1,
		OutputDir: DefaultOutputDir,
		Size:      DefaultSize,
		Format:    DefaultFormat,
		Encoding:  DefaultEncoding,
		Assembler: AssemblerGIF,
		Scene:     DefaultScene,
	}
}

func TestParseArgs_ValidArgs(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		modify func(c *Config)
	}{
		{
			name:   "デフォルト設定",
			args:   []string{},
			modify: func(c *Config) {},
		},
		{
			name:   "コマンドリスト指定",
			args:   []string{"scenes/demo.yaml"},
			modify: func(c *Config) { c.ScriptPath = "scenes/demo.yaml" },
		},
		{
			name:   "タイムアウト指定",
			args:   []string{"--timeout", "10"},
			modify: func(c *Config) { c.Timeout = 10 * time.Second },
		},
		{
			name:   "タイムアウト指定（短縮形）",
			args:   []string{"-t", "5"},
			modify: func(c *Config) { c.Timeout = 5 * time.Second },
		},
		{
			name:   "ログレベル指定（短縮形）",
			args:   []string{"-l", "error"},
			modify: func(c *Config) { c.LogLevel = "error" },
		},
		{
			name:   "並列数指定",
			args:   []string{"-j", "4"},
			modify: func(c *Config) { c.Jobs = 4 },
		},
		{
			name:   "出力設定",
			args:   []string{"-o", "out", "--size", "250", "--format", ".BMP"},
			modify: func(c *Config) { c.OutputDir, c.Size, c.Format = "out", 250, "bmp" },
		},
		{
			name:   "=形式のフラグ",
			args:   []string{"--output=frames", "scene.yaml"},
			modify: func(c *Config) { c.OutputDir, c.ScriptPath = "frames", "scene.yaml" },
		},
		{
			name:   "エンコーディングとアセンブラ",
			args:   []string{"--encoding", "shift_jis", "--assembler", "convert"},
			modify: func(c *Config) { c.Encoding, c.Assembler = "shift_jis", AssemblerConvert },
		},
		{
			name: "位置引数が最初（順序に関係なく動作）",
			args: []string{"scene.yaml", "--timeout", "10", "--headless"},
			modify: func(c *Config) {
				c.ScriptPath, c.Timeout, c.Headless = "scene.yaml", 10*time.Second, true
			},
		},
		{
			name:   "組み込みシーン指定",
			args:   []string{"--scene", "still"},
			modify: func(c *Config) { c.Scene = "still" },
		},
		{
			name:   "シーン一覧",
			args:   []string{"--list", "scene.yaml"},
			modify: func(c *Config) { c.ListScenes, c.ScriptPath = true, "scene.yaml" },
		},
		{
			name:   "ヘルプ",
			args:   []string{"-h"},
			modify: func(c *Config) { c.ShowHelp = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			config, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := defaults()
			tt.modify(&want)
			if !reflect.DeepEqual(*config, want) {
				t.Errorf("ParseArgs(%v) = %+v, want %+v", tt.args, *config, want)
			}
		})
	}
}

func TestParseArgs_Environment(t *testing.T) {
	t.Run("環境変数からの設定", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HEADLESS", "true")
		t.Setenv("TIMEOUT", "7")
		t.Setenv("JOBS", "3")
		t.Setenv("LOG_LEVEL", "DEBUG")

		config, err := ParseArgs(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !config.Headless || config.Timeout != 7*time.Second || config.Jobs != 3 || config.LogLevel != "debug" {
			t.Errorf("unexpected config %+v", config)
		}
	})

	t.Run("フラグが優先", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMEOUT", "7")
		t.Setenv("JOBS", "3")
		t.Setenv("LOG_LEVEL", "debug")

		config, err := ParseArgs([]string{"-t", "2", "-j", "8", "-l", "warn"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Timeout != 2*time.Second || config.Jobs != 8 || config.LogLevel != "warn" {
			t.Errorf("unexpected config %+v", config)
		}
	})

	t.Run("不正な環境変数は無視", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMEOUT", "abc")
		t.Setenv("JOBS", "-2")

		config, err := ParseArgs(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Timeout != 0 || config.Jobs != 1 {
			t.Errorf("unexpected config %+v", config)
		}
	})
}

func TestParseArgs_InvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"負のタイムアウト", []string{"--timeout", "-10"}},
		{"無効なログレベル", []string{"--log-level", "invalid"}},
		{"空のシーン名", []string{"--scene="}},
		{"無効なログレベル（短縮形）", []string{"-l", "trace"}},
		{"負の並列数", []string{"--jobs", "-1"}},
		{"小さすぎるサイズ", []string{"--size", "1"}},
		{"未対応の形式", []string{"--format", "webp"}},
		{"無効なアセンブラ", []string{"--assembler", "ffmpeg"}},
		{"空の出力ディレクトリ", []string{"--output="}},
		{"未知のフラグ", []string{"--frames", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := ParseArgs(tt.args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestReorderArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"位置引数を後ろへ", []string{"a.yaml", "-t", "5"}, []string{"-t", "5", "a.yaml"}},
		{"ブール型フラグは値を取らない", []string{"--headless", "a.yaml"}, []string{"--headless", "a.yaml"}},
		{"=形式", []string{"-o=out", "a.yaml"}, []string{"-o=out", "a.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reorderArgs(tt.args); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("reorderArgs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestConfig_FrameExt(t *testing.T) {
	c := &Config{Format: "png"}
	if c.FrameExt() != ".png" {
		t.Errorf("FrameExt() = %q, want .png", c.FrameExt())
	}
}
