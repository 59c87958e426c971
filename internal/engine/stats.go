package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// median 中位数，偶数个取中间两数均值；空切片返回 NaN
func median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// medianAbsDeviation 相对给定中心的绝对偏差中位数（不乘一致性常数）
func medianAbsDeviation(x []float64, center float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - center)
	}
	return median(dev)
}

// groupMeans 按标签分组求均值，结果按标签排序以保证确定性
func groupMeans(values []float64, labels []string) []float64 {
	groups := make(map[string][]float64)
	for i, v := range values {
		groups[labels[i]] = append(groups[labels[i]], v)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	means := make([]float64, 0, len(keys))
	for _, k := range keys {
		means = append(means, stat.Mean(groups[k], nil))
	}
	return means
}
