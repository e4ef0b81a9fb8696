package graphics

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/zurustar/keyframe/pkg/matrix"
)

// OperationRecord は描画操作の記録を表す
type OperationRecord struct {
	Operation string
	Args      map[string]any
}

// Headless はヘッドレスモード用のダミー描画システム。
// Tessellator は形状を代表する制御点（ボックスの頂点、球・トーラスの中心、
// 線分の端点）だけを返し、Rasterizer は描画操作をログと履歴に記録するのみで
// 実際の描画を行わない。複数フレームから同時に呼び出してよい。
type Headless struct {
	log              *slog.Logger
	logOperations    bool // 描画操作をログに記録するかどうか
	recordHistory    bool // 操作履歴を保持するかどうか
	operationHistory []OperationRecord
	historyMu        sync.RWMutex
}

// HeadlessOption は Headless のオプションを設定する関数型
type HeadlessOption func(*Headless)

// WithHeadlessLogger はロガーを設定する
func WithHeadlessLogger(log *slog.Logger) HeadlessOption {
	return func(h *Headless) {
		h.log = log
	}
}

// WithLogOperations は描画操作のログ記録を有効/無効にする
func WithLogOperations(enabled bool) HeadlessOption {
	return func(h *Headless) {
		h.logOperations = enabled
	}
}

// WithRecordHistory は操作履歴の記録を有効/無効にする
func WithRecordHistory(enabled bool) HeadlessOption {
	return func(h *Headless) {
		h.recordHistory = enabled
	}
}

// NewHeadless は新しいヘッドレス描画システムを作成する
func NewHeadless(opts ...HeadlessOption) *Headless {
	h := &Headless{
		log:              slog.Default(),
		logOperations:    true,
		recordHistory:    false,
		operationHistory: make([]OperationRecord, 0),
	}

	// オプションを適用
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// logOperation は描画操作をログに記録する
func (h *Headless) logOperation(operation string, args ...any) {
	if h.logOperations {
		h.log.Debug(fmt.Sprintf("[Headless] %s", operation), args...)
	}

	// 操作履歴を記録
	if h.recordHistory {
		record := OperationRecord{
			Operation: operation,
			Args:      make(map[string]any),
		}
		// argsをkey-valueペアとして解析
		for i := 0; i < len(args)-1; i += 2 {
			if key, ok := args[i].(string); ok {
				record.Args[key] = args[i+1]
			}
		}
		h.historyMu.Lock()
		h.operationHistory = append(h.operationHistory, record)
		h.historyMu.Unlock()
	}
}

// GetOperationHistory は操作履歴を返す
func (h *Headless) GetOperationHistory() []OperationRecord {
	h.historyMu.RLock()
	defer h.historyMu.RUnlock()
	// コピーを返す
	result := make([]OperationRecord, len(h.operationHistory))
	copy(result, h.operationHistory)
	return result
}

// ClearOperationHistory は操作履歴をクリアする
func (h *Headless) ClearOperationHistory() {
	h.historyMu.Lock()
	defer h.historyMu.Unlock()
	h.operationHistory = make([]OperationRecord, 0)
}

// GetOperationCount は操作履歴の件数を返す
func (h *Headless) GetOperationCount() int {
	h.historyMu.RLock()
	defer h.historyMu.RUnlock()
	return len(h.operationHistory)
}

// ===== Tessellator =====

// Box はボックスの8頂点を返す。(x, y, z) は前面左上の頂点で、
// 幅は +x、高さは -y、奥行きは -z 方向に伸びる。
func (h *Headless) Box(x, y, z, width, height, depth float64) matrix.Points {
	x1, y1, z1 := x+width, y-height, z-depth
	return matrix.Points{
		matrix.NewPoint(x, y, z),
		matrix.NewPoint(x1, y, z),
		matrix.NewPoint(x, y1, z),
		matrix.NewPoint(x1, y1, z),
		matrix.NewPoint(x, y, z1),
		matrix.NewPoint(x1, y, z1),
		matrix.NewPoint(x, y1, z1),
		matrix.NewPoint(x1, y1, z1),
	}
}

// Sphere は球の中心を返す
func (h *Headless) Sphere(x, y, z, radius float64, step int) matrix.Points {
	return matrix.Points{matrix.NewPoint(x, y, z)}
}

// Torus はトーラスの中心を返す
func (h *Headless) Torus(x, y, z, inner, outer float64, step int) matrix.Points {
	return matrix.Points{matrix.NewPoint(x, y, z)}
}

// Mesh はメッシュファイルの存在を確認し、原点を返す
func (h *Headless) Mesh(path string) (matrix.Points, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMeshNotFound, path)
	}
	return matrix.Points{matrix.NewPoint(0, 0, 0)}, nil
}

// Edge は線分の端点を返す
func (h *Headless) Edge(x0, y0, z0, x1, y1, z1 float64) matrix.Points {
	return matrix.Points{
		matrix.NewPoint(x0, y0, z0),
		matrix.NewPoint(x1, y1, z1),
	}
}

// ===== Rasterizer =====

// DrawPolygons はポリゴン描画を記録する
func (h *Headless) DrawPolygons(polygons matrix.Points, s *Screen, zb *ZBuffer, shading Shading) {
	h.logOperation("DrawPolygons",
		"points", polygons.Clone(),
		"material", shading.MaterialName,
		"lights", len(shading.Lights),
		"width", s.Width,
		"height", s.Height)
}

// DrawLines は線分描画を記録する
func (h *Headless) DrawLines(edges matrix.Points, s *Screen, zb *ZBuffer, c Color) {
	h.logOperation("DrawLines",
		"points", edges.Clone(),
		"color", c,
		"width", s.Width,
		"height", s.Height)
}
