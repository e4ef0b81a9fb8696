package script

import "errors"

var (
	// ErrSyntax はYAML/JSONとして読めない場合のエラー
	ErrSyntax = errors.New("syntax error")

	// ErrArity は引数の数が合わない場合のエラー
	ErrArity = errors.New("wrong number of arguments")

	// ErrArgType は引数の型が合わない場合のエラー
	ErrArgType = errors.New("invalid argument type")

	// ErrMissingField は必須フィールドがない場合のエラー
	ErrMissingField = errors.New("missing field")

	// ErrSymbol はシンボル定義が不正な場合のエラー
	ErrSymbol = errors.New("invalid symbol")
)
