package model

import "errors"

// 致命错误（中止本次调用）
var (
	ErrDuplicateID       = errors.New("duplicate record identifier")
	ErrLabelsUnspecified = errors.New("label set unspecified")
	ErrMissingField      = errors.New("required field missing")
	ErrColumnMismatch    = errors.New("training and test columns differ")
	ErrUnknownCutoff     = errors.New("unknown cutoff mode")
	ErrUnknownFormat     = errors.New("unknown questionnaire format")
	ErrUnsupportedFormat = errors.New("questionnaire format not supported")
	ErrUnknownScheme     = errors.New("unknown encoding scheme")
	ErrEmptyTable        = errors.New("table has no columns")
	ErrDuplicateColumn   = errors.New("duplicate column name")
)
