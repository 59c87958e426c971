package model

import (
	"fmt"
	"strings"
)

// Table 内存二维表：首行表头，首列为记录标识
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// NewTable 创建表，行宽不足表头时补空串，超出部分截断
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		Header: append([]string(nil), header...),
		Rows:   make([][]string, len(rows)),
	}
	for i, row := range rows {
		t.Rows[i] = normalizeRow(row, len(header))
	}
	return t
}

func normalizeRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// Len 行数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Width 列数
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Header)
}

// Cell 读取单元格，越界返回空串
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// ColumnIndex 按列名精确查找（忽略首尾空白），未找到返回 -1
func (t *Table) ColumnIndex(name string) int {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// Column 取出整列
func (t *Table) Column(col int) []string {
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Cell(i, col)
	}
	return out
}

// IDs 返回首列标识
func (t *Table) IDs() []string {
	return t.Column(0)
}

// CheckUniqueIDs 校验首列标识唯一
func (t *Table) CheckUniqueIDs() error {
	if t.Width() == 0 {
		return ErrEmptyTable
	}
	seen := make(map[string]int, len(t.Rows))
	for i := range t.Rows {
		id := t.Cell(i, 0)
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q (rows %d and %d)", ErrDuplicateID, id, prev+1, i+1)
		}
		seen[id] = i
	}
	return nil
}

// SameHeader 判断两表列名（含顺序）一致
func (t *Table) SameHeader(other *Table) bool {
	if len(t.Header) != len(other.Header) {
		return false
	}
	for i := range t.Header {
		if strings.TrimSpace(t.Header[i]) != strings.TrimSpace(other.Header[i]) {
			return false
		}
	}
	return true
}

// Clone 深拷贝
func (t *Table) Clone() *Table {
	return NewTable(t.Header, t.Rows)
}

// Concat 纵向拼接（调用方需保证表头一致）
func Concat(a, b *Table) *Table {
	if b == nil {
		return a.Clone()
	}
	rows := make([][]string, 0, len(a.Rows)+len(b.Rows))
	rows = append(rows, a.Rows...)
	rows = append(rows, b.Rows...)
	return NewTable(a.Header, rows)
}

// SliceRows 取 [from, to) 行，返回新表
func (t *Table) SliceRows(from, to int) *Table {
	if from < 0 {
		from = 0
	}
	if to > len(t.Rows) {
		to = len(t.Rows)
	}
	if from > to {
		from = to
	}
	return NewTable(t.Header, t.Rows[from:to])
}
