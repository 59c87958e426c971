package engine

import (
	"sort"

	"vaconvert/internal/model"
)

// outputColumn 一个待合并的输出列
type outputColumn struct {
	name    string
	base    []cell // 源字段的基础转换结果
	derived []cell // 阈值或分组规则结果，nil 表示直接使用基础转换
}

// reconciled 合并结果
type reconciled struct {
	table      *model.Table
	counts     model.Counts
	unresolved []model.UnresolvedCell
	forced     int
}

type reconcileOptions struct {
	idHeader     string
	labelHeader  string
	excluded     map[string]bool
	forceMissing bool
	scheme       model.Scheme
}

// reconcile 合并各阶段输出：待定标记优先于基础转换，映射为规范符号，剔除排除列并按列名排序
// 输出表只在此处写入
func reconcile(ids, labels []string, cols []outputColumn, opts reconcileOptions) reconciled {
	kept := make([]outputColumn, 0, len(cols))
	for _, c := range cols {
		if opts.excluded[c.name] {
			continue
		}
		kept = append(kept, c)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].name < kept[j].name })

	header := make([]string, 0, len(kept)+2)
	header = append(header, opts.idHeader, opts.labelHeader)
	for _, c := range kept {
		header = append(header, c.name)
	}

	var res reconciled
	rows := make([][]string, len(ids))
	for i := range ids {
		row := make([]string, len(header))
		row[0] = ids[i]
		row[1] = labels[i]
		for j, c := range kept {
			v := c.base[i]
			if c.derived != nil && c.derived[i].pending() {
				v = c.derived[i]
			}
			if !v.resolved() && opts.forceMissing {
				v = cell{st: stateMissing, raw: v.raw}
				res.forced++
			}

			t, ok := v.ternary()
			if !ok {
				row[j+2] = v.raw
				res.counts.Unresolved++
				res.unresolved = append(res.unresolved, model.UnresolvedCell{
					ID:     ids[i],
					Column: c.name,
					Value:  v.raw,
				})
				continue
			}
			switch t {
			case model.Yes:
				res.counts.Yes++
			case model.No:
				res.counts.No++
			case model.Missing:
				res.counts.Missing++
			}
			row[j+2] = opts.scheme.Token(t)
		}
		rows[i] = row
	}
	res.table = &model.Table{Header: header, Rows: rows}
	return res
}
