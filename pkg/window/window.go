// Package window shows rendered frames in an Ebitengine window.
package window

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/zurustar/keyframe/pkg/logger"
	xdraw "golang.org/x/image/draw"
)

// ErrClosed is returned by Display once the window has been closed.
var ErrClosed = errors.New("window closed")

// 表示待ちの背景色
var backgroundColor = color.RGBA{0x00, 0x00, 0x00, 0xFF}

// request is one pending display command.
type request struct {
	img  image.Image
	done chan error
}

// Viewer はEbitengineのゲームインターフェースを実装する。
// Displayで渡された画像を順に表示し、Enter・Space・クリックで次へ進む。
// Escまたはウィンドウを閉じると終了する。
type Viewer struct {
	width   int
	height  int
	title   string
	timeout time.Duration
	overlay bool // 画面左上に状態を表示する
	log     *slog.Logger

	requests chan request
	current  *request    // 表示中の要求
	pending  image.Image // 表示中の画像（ウィンドウサイズに拡縮済み）
	shown    *ebiten.Image
	count    int // これまでに受け取った画像の数

	// レンダリング開始制御
	startFunc func() error
	started   bool
	startTime time.Time
	finished  chan struct{}
	err       error

	quit      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
}

// Option is a functional option for configuring the Viewer.
type Option func(*Viewer)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(v *Viewer) {
		v.title = title
	}
}

// WithTimeout closes the window after d. 0 means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(v *Viewer) {
		v.timeout = d
	}
}

// WithOverlay draws the image count and key help over the image.
func WithOverlay(enabled bool) Option {
	return func(v *Viewer) {
		v.overlay = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(v *Viewer) {
		v.log = log
	}
}

// NewViewer Viewerを作成
func NewViewer(width, height int, opts ...Option) *Viewer {
	v := &Viewer{
		width:    width,
		height:   height,
		title:    "keyframe",
		log:      logger.GetLogger(),
		requests: make(chan request),
		finished: make(chan struct{}),
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetStartFunc sets the work to run once the window is up.
// It runs on its own goroutine; the window closes when it returns and no
// image is waiting.
func (v *Viewer) SetStartFunc(fn func() error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.startFunc = fn
}

// Err returns the error of the start function.
func (v *Viewer) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Done is closed when the start function has returned.
func (v *Viewer) Done() <-chan struct{} {
	return v.finished
}

// Display shows img and waits until the user moves on.
// It is safe to call from several goroutines; images are shown one at a time.
func (v *Viewer) Display(img image.Image) error {
	req := request{img: img, done: make(chan error, 1)}

	select {
	case v.requests <- req:
	case <-v.quit:
		return ErrClosed
	}

	select {
	case err := <-req.done:
		return err
	case <-v.quit:
		return ErrClosed
	}
}

// start runs the start function once.
func (v *Viewer) start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.started {
		return
	}
	v.started = true
	v.startTime = time.Now()

	fn := v.startFunc
	if fn == nil {
		close(v.finished)
		return
	}
	go func() {
		err := fn()
		v.mu.Lock()
		v.err = err
		v.mu.Unlock()
		close(v.finished)
	}()
}

// poll takes the next image when none is shown. It reports false once the
// window should close.
func (v *Viewer) poll() bool {
	if v.current != nil {
		return true
	}

	select {
	case req := <-v.requests:
		v.current = &req
		v.pending = Scale(req.img, v.width, v.height)
		v.shown = nil
		v.count++
		v.log.Debug("Displaying frame", "count", v.count, "bounds", req.img.Bounds())
		return true
	case <-v.finished:
		return false
	default:
		return true
	}
}

// advance releases the image being shown.
func (v *Viewer) advance() {
	if v.current == nil {
		return
	}
	v.current.done <- nil
	v.current = nil
}

// close releases every waiting Display call.
func (v *Viewer) close() {
	v.closeOnce.Do(func() {
		close(v.quit)
		if v.current != nil {
			v.current.done <- ErrClosed
			v.current = nil
		}
	})
}

// Update ゲームロジックの更新（Ebitengineが毎フレーム呼び出す）
func (v *Viewer) Update() error {
	v.start()

	// タイムアウトチェック
	if v.timeout > 0 && time.Since(v.startTime) >= v.timeout {
		v.log.Info("Window timeout reached")
		v.close()
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || ebiten.IsWindowBeingClosed() {
		v.close()
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.advance()
	}

	if !v.poll() {
		v.close()
		return ebiten.Termination
	}
	return nil
}

// Draw 画面描画（Ebitengineが毎フレーム呼び出す）
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	if v.pending == nil {
		return
	}
	if v.shown == nil {
		v.shown = ebiten.NewImageFromImage(v.pending)
	}
	screen.DrawImage(v.shown, nil)

	if v.overlay {
		// DebugPrintAtは白の6x16ピクセルフォントで描画する
		ebitenutil.DebugPrintAt(screen, v.statusText(), 4, 4)
	}
}

// statusText はオーバーレイに表示する文字列を返す
func (v *Viewer) statusText() string {
	return fmt.Sprintf("#%d  Enter/Space: next  Esc: quit", v.count)
}

// Layout 画面サイズを返す
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

// Run opens the window and blocks until it closes and the start function
// has returned. It must be called from the main goroutine.
func Run(v *Viewer) error {
	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetWindowTitle(v.title)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		v.close()
		return fmt.Errorf("failed to run window: %w", err)
	}
	v.close()

	<-v.finished
	return v.Err()
}

// Scale returns img resized to width x height.
// Images already at that size are copied unchanged.
func Scale(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
