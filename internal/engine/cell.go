package engine

import "vaconvert/internal/model"

// state 单元格在引擎内部的转换状态
type state uint8

const (
	stateRaw state = iota // 尚未转换，保留原值
	stateYes
	stateNo
	stateMissing
	// 待定标记：由阈值或分组规则给出，与基础转换的最终值区分开
	statePendingYes
	statePendingNo
	statePendingMissing
)

type cell struct {
	st  state
	raw string
}

func rawCell(v string) cell { return cell{st: stateRaw, raw: v} }

func (c cell) pending() bool {
	return c.st >= statePendingYes
}

func (c cell) resolved() bool {
	return c.st != stateRaw
}

// ternary 将最终值或待定标记映射为三值
func (c cell) ternary() (model.Ternary, bool) {
	switch c.st {
	case stateYes, statePendingYes:
		return model.Yes, true
	case stateNo, statePendingNo:
		return model.No, true
	case stateMissing, statePendingMissing:
		return model.Missing, true
	}
	return 0, false
}

// valueSet 规则取值集合
type valueSet map[string]struct{}

func newValueSet(values []string) valueSet {
	s := make(valueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s valueSet) has(v string) bool {
	_, ok := s[v]
	return ok
}
