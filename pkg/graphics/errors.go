package graphics

import "errors"

var (
	// ErrSupersampleSize は縮小元の画面サイズが偶数でない場合のエラー
	ErrSupersampleSize = errors.New("supersample source must have even, non-zero dimensions")

	// ErrUnsupportedFormat は保存形式に対応していない場合のエラー
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrMeshNotFound はメッシュファイルが見つからない場合のエラー
	ErrMeshNotFound = errors.New("mesh file not found")
)
