package schema

import (
	"fmt"
	"strings"

	"vaconvert/internal/model"
	"vaconvert/internal/rules"
)

// RowIndexHeader 首列表头为该值（或为空）时视为行号列，记录标识改用 1 起始的行序号
const RowIndexHeader = "X"

// Schema 按列名定位后的固定字段下标
type Schema struct {
	SyntheticIDs bool

	Age   int
	Sex   int
	Cause int
	First int
	Last  int

	header []string
	index  map[string]int
}

// Locate 在表头中定位问卷所需字段
// 缺失任一必需字段（年龄、性别、症状区间首末列、死因列、规则引用字段）时返回 ErrMissingField
func Locate(header []string, rs *rules.RuleSet, causeColumn string) (*Schema, error) {
	if len(header) == 0 {
		return nil, model.ErrEmptyTable
	}

	s := &Schema{
		header: make([]string, len(header)),
		index:  make(map[string]int, len(header)),
	}
	var dups []string
	for i, h := range header {
		name := NormalizeColumnName(h)
		s.header[i] = name
		if prev, dup := s.index[name]; dup {
			dups = append(dups, fmt.Sprintf("%q (columns %d and %d)", name, prev+1, i+1))
			continue
		}
		s.index[name] = i
	}
	if len(dups) > 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrDuplicateColumn, strings.Join(dups, ", "))
	}
	// R 的 write.csv 带行名时首列表头为空，read.csv 读回后改名为 X
	s.SyntheticIDs = s.header[0] == RowIndexHeader || s.header[0] == ""

	var missing []string
	find := func(name string) int {
		idx, ok := s.index[NormalizeColumnName(name)]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return idx
	}

	s.Age = find(rs.Fields.Age)
	s.Sex = find(rs.Fields.Sex)
	s.First = find(rs.Fields.First)
	s.Last = find(rs.Fields.Last)
	for _, f := range rs.SourceFields() {
		find(f)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrMissingField, strings.Join(missing, ", "))
	}

	idx, ok := s.index[NormalizeColumnName(causeColumn)]
	if causeColumn == "" || !ok {
		return nil, fmt.Errorf("%w: cause column %q not in table", model.ErrMissingField, causeColumn)
	}
	s.Cause = idx

	if s.First > s.Last {
		return nil, fmt.Errorf("%w: symptom range %s..%s is reversed", model.ErrMissingField, rs.Fields.First, rs.Fields.Last)
	}
	return s, nil
}

// Index 按列名取下标
func (s *Schema) Index(name string) (int, bool) {
	idx, ok := s.index[NormalizeColumnName(name)]
	return idx, ok
}

// Name 返回下标对应的规范化列名
func (s *Schema) Name(idx int) string {
	if idx < 0 || idx >= len(s.header) {
		return ""
	}
	return s.header[idx]
}

// Symptoms 症状区间内全部列下标（含首末列）
func (s *Schema) Symptoms() []int {
	out := make([]int, 0, s.Last-s.First+1)
	for i := s.First; i <= s.Last; i++ {
		out = append(out, i)
	}
	return out
}

// NormalizeColumnName 规范化列名：去除首尾空白及换行、制表符
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\t", "")
	return name
}
