package engine

import "vaconvert/internal/rules"

// applyGroup 分类取值分组
// 主字段按 yes/no/missing 集合给出待定标记，未命中保持未转换；
// 配置了第二字段时，第二字段命中 yes 集合则无条件改为待定是
func applyGroup(r rules.Rule, primary, second []string) []cell {
	yes := newValueSet(r.Yes)
	no := newValueSet(r.No)
	missing := newValueSet(r.Missing)

	out := make([]cell, len(primary))
	for i, v := range primary {
		switch {
		case yes.has(v):
			out[i] = cell{st: statePendingYes, raw: v}
		case no.has(v):
			out[i] = cell{st: statePendingNo, raw: v}
		case missing.has(v):
			out[i] = cell{st: statePendingMissing, raw: v}
		default:
			out[i] = rawCell(v)
		}
		if second != nil && yes.has(second[i]) {
			out[i] = cell{st: statePendingYes, raw: v}
		}
	}
	return out
}
