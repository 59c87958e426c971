package engine

import (
	"math"
	"strconv"
	"strings"

	"vaconvert/internal/rules"
)

// parseNumber 解析数值型取值
func parseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// validLabel 死因标签非空且不是 NA
func validLabel(label string) bool {
	label = strings.TrimSpace(label)
	return label != "" && label != "NA"
}

// applyCutoff 数值阈值二值化
// 命中字段自身缺失取值 → 待定缺失；可解析数值 v > T → 待定是，否则 → 待定否；其余保持未转换
func applyCutoff(r rules.Rule, values []string, threshold float64) []cell {
	missing := newValueSet(r.Missing)
	out := make([]cell, len(values))
	for i, v := range values {
		if missing.has(v) {
			out[i] = cell{st: statePendingMissing, raw: v}
			continue
		}
		f, ok := parseNumber(v)
		if !ok {
			out[i] = rawCell(v)
			continue
		}
		if f > threshold {
			out[i] = cell{st: statePendingYes, raw: v}
		} else {
			out[i] = cell{st: statePendingNo, raw: v}
		}
	}
	return out
}

// adaptiveThreshold 自适应阈值：M = 各死因组均值的中位数，D = 个体取值相对 M 的绝对偏差中位数，阈值 = M + 2D
// 无有效行时返回默认阈值且 ok 为 false
func adaptiveThreshold(r rules.Rule, values, labels []string) (threshold float64, ok bool) {
	missing := newValueSet(r.Missing)

	nums := make([]float64, 0, len(values))
	groups := make([]string, 0, len(values))
	for i, v := range values {
		if !validLabel(labels[i]) || missing.has(v) {
			continue
		}
		f, parsed := parseNumber(v)
		if !parsed {
			continue
		}
		nums = append(nums, f)
		groups = append(groups, labels[i])
	}
	if len(nums) == 0 {
		return r.Threshold, false
	}

	m := median(groupMeans(nums, groups))
	d := medianAbsDeviation(nums, m)
	if math.IsNaN(m) || math.IsNaN(d) {
		return r.Threshold, false
	}
	return m + 2*d, true
}
