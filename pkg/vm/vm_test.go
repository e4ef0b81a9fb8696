package vm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zurustar/keyframe/pkg/graphics"
	"github.com/zurustar/keyframe/pkg/matrix"
	"github.com/zurustar/keyframe/pkg/opcode"
	"github.com/zurustar/keyframe/pkg/symbol"
)

// testHarness bundles a VM with its recording collaborators.
type testHarness struct {
	vm        *VM
	renderer  *graphics.Headless
	persister *mockPersister
	displayer *mockDisplayer
	logs      *bytes.Buffer
}

func newHarness(t *testing.T, commands []opcode.Command, symbols symbol.Lookup, opts ...Option) *testHarness {
	t.Helper()

	if symbols == nil {
		table := symbol.NewTable()
		if err := table.SetConstants(DefaultMaterialName, symbol.White); err != nil {
			t.Fatal(err)
		}
		symbols = table
	}

	logs := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := &testHarness{
		renderer:  graphics.NewHeadless(graphics.WithRecordHistory(true), graphics.WithLogOperations(false)),
		persister: &mockPersister{},
		displayer: &mockDisplayer{},
		logs:      logs,
	}

	all := append([]Option{
		WithLogger(log),
		WithRenderer(h.renderer),
		WithPersister(h.persister),
		WithDisplayer(h.displayer),
	}, opts...)
	h.vm = New(commands, NewFrame(0, 8, 8, graphics.White, symbols), all...)
	return h
}

// drawnPoints returns the points of the i-th recorded draw operation.
func (h *testHarness) drawnPoints(t *testing.T, i int) matrix.Points {
	t.Helper()
	history := h.renderer.GetOperationHistory()
	if i >= len(history) {
		t.Fatalf("expected at least %d draw operations, got %d", i+1, len(history))
	}
	return history[i].Args["points"].(matrix.Points)
}

func approxPoint(a, b matrix.Point) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestNew_Defaults(t *testing.T) {
	vm := New(nil, NewFrame(0, 4, 4, graphics.White, symbol.NewTable()))
	if vm.renderer == nil || vm.persister == nil {
		t.Fatal("default collaborators should be set")
	}
	if vm.displayer != nil {
		t.Error("no displayer should be set by default")
	}
	if vm.scene.DefaultMaterial != DefaultMaterialName || vm.scene.Step != DefaultStep {
		t.Errorf("unexpected default scene %+v", vm.scene)
	}
}

func TestRun_Transforms(t *testing.T) {
	tests := []struct {
		name     string
		commands []opcode.Command
		want     matrix.Point
	}{
		{
			name:     "move",
			commands: []opcode.Command{opcode.MoveCmd{X: 1, Y: 2, Z: 3}, opcode.SphereCmd{Radius: 1}},
			want:     matrix.NewPoint(1, 2, 3),
		},
		{
			name:     "scaleはオブジェクト側に適用",
			commands: []opcode.Command{opcode.MoveCmd{X: 10}, opcode.ScaleCmd{X: 2, Y: 2, Z: 2}, opcode.SphereCmd{X: 1, Radius: 1}},
			want:     matrix.NewPoint(12, 0, 0),
		},
		{
			name:     "z軸回転",
			commands: []opcode.Command{opcode.RotateCmd{Axis: opcode.AxisZ, Degrees: 90}, opcode.SphereCmd{X: 1, Radius: 1}},
			want:     matrix.NewPoint(0, 1, 0),
		},
		{
			name:     "不明な軸はz軸",
			commands: []opcode.Command{opcode.RotateCmd{Axis: "w", Degrees: 90}, opcode.SphereCmd{X: 1, Radius: 1}},
			want:     matrix.NewPoint(0, 1, 0),
		},
		{
			name:     "x軸回転",
			commands: []opcode.Command{opcode.RotateCmd{Axis: opcode.AxisX, Degrees: 90}, opcode.SphereCmd{Y: 1, Radius: 1}},
			want:     matrix.NewPoint(0, 0, 1),
		},
		{
			name: "popで変換が戻る",
			commands: []opcode.Command{
				opcode.PushCmd{},
				opcode.MoveCmd{X: 100},
				opcode.PopCmd{},
				opcode.TorusCmd{X: 1, Inner: 1, Outer: 2},
			},
			want: matrix.NewPoint(1, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.commands, nil)
			if err := h.vm.Run(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := h.drawnPoints(t, 0)[0]
			if !approxPoint(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRun_KnobScaling(t *testing.T) {
	base := symbol.NewTable()
	_ = base.SetKnob("k", 1)
	_ = base.SetConstants(DefaultMaterialName, symbol.White)
	view := symbol.NewView(base, map[string]float64{"k": 0.5})

	commands := []opcode.Command{
		opcode.MoveCmd{X: 10, Y: 20, Z: 30, Knob: "k"},
		opcode.SphereCmd{Radius: 1},
	}
	h := newHarness(t, commands, view)
	if err := h.vm.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := h.drawnPoints(t, 0)[0]; !approxPoint(got, matrix.NewPoint(5, 10, 15)) {
		t.Errorf("expected the overlay value to scale the move, got %v", got)
	}
	if v, _ := base.Knob("k"); v != 1 {
		t.Errorf("base table must not change, got k=%v", v)
	}
}

func TestRun_UndefinedKnob(t *testing.T) {
	commands := []opcode.Command{
		opcode.MoveCmd{X: 10, Knob: "missing"},
		opcode.SphereCmd{X: 1, Radius: 1},
	}
	h := newHarness(t, commands, nil)
	if err := h.vm.Run(context.Background()); err != nil {
		t.Fatalf("an undefined knob should not stop the frame: %v", err)
	}
	if got := h.drawnPoints(t, 0)[0]; !approxPoint(got, matrix.NewPoint(1, 0, 0)) {
		t.Errorf("undefined knob should scale by 0, got %v", got)
	}
	if !strings.Contains(h.logs.String(), "Knob not found") {
		t.Error("expected a warning for the undefined knob")
	}
}

func TestRun_Materials(t *testing.T) {
	table := symbol.NewTable()
	_ = table.SetConstants(DefaultMaterialName, symbol.White)
	_ = table.SetConstants("shiny", symbol.Constants{Red: symbol.Reflectance{Ambient: 1}})

	commands := []opcode.Command{
		opcode.BoxCmd{Width: 1, Height: 1, Depth: 1, Constants: "shiny"},
		opcode.BoxCmd{Width: 1, Height: 1, Depth: 1},
		opcode.SphereCmd{Radius: 1, Constants: "undefined"},
	}
	h := newHarness(t, commands, table)
	if err := h.vm.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history := h.renderer.GetOperationHistory()
	want := []string{"shiny", DefaultMaterialName, DefaultMaterialName}
	for i, name := range want {
		if got := history[i].Args["material"]; got != name {
			t.Errorf("draw %d: expected material %q, got %v", i, name, got)
		}
	}
	if !strings.Contains(h.logs.String(), "Material not found") {
		t.Error("expected a warning for the undefined material")
	}
	if n := len(h.drawnPoints(t, 0)); n != 8 {
		t.Errorf("expected 8 box corners, got %d", n)
	}
}

func TestRun_Line(t *testing.T) {
	commands := []opcode.Command{
		opcode.MoveCmd{Y: 1},
		opcode.LineCmd{X0: 0, Y0: 0, Z0: 0, X1: 1, Y1: 1, Z1: 1},
	}
	h := newHarness(t, commands, nil)
	if err := h.vm.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history := h.renderer.GetOperationHistory()
	if history[0].Operation != "DrawLines" {
		t.Fatalf("expected DrawLines, got %s", history[0].Operation)
	}
	if history[0].Args["color"] != graphics.Black {
		t.Errorf("expected black lines, got %v", history[0].Args["color"])
	}
	pts := h.drawnPoints(t, 0)
	if !approxPoint(pts[0], matrix.NewPoint(0, 1, 0)) || !approxPoint(pts[1], matrix.NewPoint(1, 2, 1)) {
		t.Errorf("unexpected line endpoints %v", pts)
	}
}

func TestRun_Mesh(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Cube.obj"), []byte("v 0 0 0"), 0644); err != nil {
		t.Fatal(err)
	}
	scene := DefaultScene()
	scene.BaseDir = dir

	t.Run("スクリプトのディレクトリから解決", func(t *testing.T) {
		h := newHarness(t, []opcode.Command{opcode.MeshCmd{Path: "cube.obj"}}, nil, WithScene(scene))
		if err := h.vm.Run(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.renderer.GetOperationCount() != 1 {
			t.Error("mesh should be drawn")
		}
	})

	t.Run("存在しないメッシュ", func(t *testing.T) {
		h := newHarness(t, []opcode.Command{opcode.MeshCmd{Path: "missing.obj"}}, nil, WithScene(scene))
		err := h.vm.Run(context.Background())
		if !errors.Is(err, graphics.ErrMeshNotFound) {
			t.Errorf("expected ErrMeshNotFound, got %v", err)
		}
	})
}

func TestRun_PopUnderflow(t *testing.T) {
	commands := []opcode.Command{
		opcode.PushCmd{},
		opcode.PopCmd{},
		opcode.PopCmd{},
		opcode.SphereCmd{Radius: 1},
	}
	h := newHarness(t, commands, nil)
	err := h.vm.Run(context.Background())

	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RuntimeError, got %v", err)
	}
	if rerr.Type != ErrorStackUnderflow || rerr.Index != 2 || rerr.Op != opcode.Pop {
		t.Errorf("unexpected error %+v", rerr)
	}
	if !errors.Is(err, ErrStackUnderflow) {
		t.Error("error should wrap ErrStackUnderflow")
	}
	if h.renderer.GetOperationCount() != 0 {
		t.Error("commands after the failing pop must not run")
	}
}

func TestRun_SkipsMetadataAndUnknown(t *testing.T) {
	commands := []opcode.Command{
		opcode.FramesCmd{Count: 3},
		opcode.BasenameCmd{Name: "demo"},
		opcode.VaryCmd{Knob: "k", StartFrame: 0, EndFrame: 2, EndValue: 1},
		opcode.AmbientCmd{},
		opcode.LightCmd{},
		opcode.UnknownCmd{Name: "shading", Args: []any{"phong"}},
	}
	h := newHarness(t, commands, nil)
	if err := h.vm.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.renderer.GetOperationCount() != 0 {
		t.Error("nothing should be drawn")
	}
	if !strings.Contains(h.logs.String(), "Unknown command skipped") {
		t.Error("expected a debug message for the unknown command")
	}
}

func TestRun_DisplayAndSave(t *testing.T) {
	commands := []opcode.Command{
		opcode.DisplayCmd{},
		opcode.SaveCmd{Path: "out/picture"},
	}
	h := newHarness(t, commands, nil)
	if err := h.vm.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(h.displayer.images) != 1 {
		t.Fatalf("expected 1 displayed image, got %d", len(h.displayer.images))
	}
	if b := h.displayer.images[0].Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("displayed image should be supersampled to 4x4, got %v", b)
	}
	if len(h.persister.paths) != 1 || h.persister.paths[0] != "out/picture" {
		t.Errorf("unexpected saved paths %v", h.persister.paths)
	}
}

func TestRun_CollaboratorFailures(t *testing.T) {
	t.Run("保存失敗", func(t *testing.T) {
		h := newHarness(t, []opcode.Command{opcode.SaveCmd{Path: "x.png"}}, nil)
		h.persister.err = errMock
		if err := h.vm.Run(context.Background()); !errors.Is(err, errMock) {
			t.Errorf("expected the persister error, got %v", err)
		}
	})

	t.Run("表示失敗", func(t *testing.T) {
		h := newHarness(t, []opcode.Command{opcode.DisplayCmd{}}, nil)
		h.displayer.err = errMock
		if err := h.vm.Run(context.Background()); !errors.Is(err, errMock) {
			t.Errorf("expected the displayer error, got %v", err)
		}
	})

	t.Run("奇数サイズの画面", func(t *testing.T) {
		table := symbol.NewTable()
		vm := New([]opcode.Command{opcode.SaveCmd{Path: "x.png"}}, NewFrame(0, 3, 3, graphics.White, table),
			WithPersister(&mockPersister{}))
		if err := vm.Run(context.Background()); !errors.Is(err, graphics.ErrSupersampleSize) {
			t.Errorf("expected ErrSupersampleSize, got %v", err)
		}
	})
}

func TestRun_NoDisplayer(t *testing.T) {
	logs := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(logs, nil))
	vm := New([]opcode.Command{opcode.DisplayCmd{}}, NewFrame(0, 4, 4, graphics.White, symbol.NewTable()), WithLogger(log))
	if err := vm.Run(context.Background()); err != nil {
		t.Fatalf("display without a displayer should be skipped: %v", err)
	}
	if !strings.Contains(logs.String(), "skipping display") {
		t.Error("expected an info message for the skipped display")
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newHarness(t, []opcode.Command{opcode.SphereCmd{Radius: 1}}, nil)
	err := h.vm.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if h.renderer.GetOperationCount() != 0 {
		t.Error("nothing should be drawn after cancellation")
	}
}
