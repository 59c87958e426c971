package remap

import (
	"fmt"

	"vaconvert/internal/model"
)

// Labels 调用方提供的“是 / 否 / 缺失”取值集合
type Labels struct {
	Yes     []string `json:"yes"`
	No      []string `json:"no"`
	Missing []string `json:"missing"`
}

// Result 重编码结果
type Result struct {
	Table *model.Table `json:"table"`
	// Unrecognized 含有集合外取值、原样保留的列
	Unrecognized []string `json:"unrecognized,omitempty"`
}

// Remap 按调用方给定的标签集合将各列重编码为规范符号
// 首列为记录标识，不参与转换；任一列出现集合外取值时整列保持原样并记入 Unrecognized
func Remap(t *model.Table, labels Labels, scheme model.Scheme) (*Result, error) {
	if len(labels.Yes) == 0 || len(labels.No) == 0 || len(labels.Missing) == 0 {
		return nil, fmt.Errorf("%w: yes, no and missing labels are all required", model.ErrLabelsUnspecified)
	}
	if scheme != model.SchemeLegacy && scheme != model.SchemeShort {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownScheme, scheme)
	}
	if err := t.CheckUniqueIDs(); err != nil {
		return nil, err
	}

	lookup := make(map[string]model.Ternary)
	// 同一取值出现在多个集合时按 missing < no < yes 的顺序覆盖
	for _, v := range labels.Missing {
		lookup[v] = model.Missing
	}
	for _, v := range labels.No {
		lookup[v] = model.No
	}
	for _, v := range labels.Yes {
		lookup[v] = model.Yes
	}

	out := t.Clone()
	res := &Result{Table: out}
	for col := 1; col < out.Width(); col++ {
		if !recognized(out, col, lookup) {
			res.Unrecognized = append(res.Unrecognized, out.Header[col])
			continue
		}
		for row := range out.Rows {
			out.Rows[row][col] = scheme.Token(lookup[out.Rows[row][col]])
		}
	}
	return res, nil
}

func recognized(t *model.Table, col int, lookup map[string]model.Ternary) bool {
	for row := range t.Rows {
		if _, ok := lookup[t.Rows[row][col]]; !ok {
			return false
		}
	}
	return true
}
