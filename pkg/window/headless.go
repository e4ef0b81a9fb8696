package window

import (
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/zurustar/keyframe/pkg/logger"
)

// HeadlessDisplayer はウィンドウを開かずに表示要求をログに記録する
type HeadlessDisplayer struct {
	log   *slog.Logger
	count atomic.Int64
}

// NewHeadlessDisplayer HeadlessDisplayerを作成
func NewHeadlessDisplayer(log *slog.Logger) *HeadlessDisplayer {
	if log == nil {
		log = logger.GetLogger()
	}
	return &HeadlessDisplayer{log: log}
}

// Display logs the request and returns immediately.
func (d *HeadlessDisplayer) Display(img image.Image) error {
	n := d.count.Add(1)
	d.log.Info("[Headless] Display", "bounds", img.Bounds(), "count", n)
	return nil
}

// Count returns how many images were displayed.
func (d *HeadlessDisplayer) Count() int {
	return int(d.count.Load())
}
