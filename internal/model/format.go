package model

import (
	"fmt"
	"strings"
)

// Format 问卷类型
type Format string

const (
	FormatAdult   Format = "adult"
	FormatChild   Format = "child"
	FormatNeonate Format = "neonate" // 可识别，暂无规则集
)

// ParseFormat 解析问卷类型
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatAdult:
		return FormatAdult, nil
	case FormatChild:
		return FormatChild, nil
	case FormatNeonate:
		return FormatNeonate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// CutoffMode 阈值模式
type CutoffMode string

const (
	CutoffDefault  CutoffMode = "default"
	CutoffAdaptive CutoffMode = "adaptive"
)

// ParseCutoffMode 解析阈值模式（"adapt" 视为 adaptive）
func ParseCutoffMode(s string) (CutoffMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return CutoffDefault, nil
	case "adaptive", "adapt":
		return CutoffAdaptive, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCutoff, s)
}

// Valid 是否为已知模式
func (m CutoffMode) Valid() bool {
	return m == CutoffDefault || m == CutoffAdaptive
}
