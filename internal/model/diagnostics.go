package model

// UnresolvedCell 未能转换的单元格
type UnresolvedCell struct {
	ID     string `json:"id"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Counts 各类单元格计数
type Counts struct {
	Yes        int `json:"yes"`
	No         int `json:"no"`
	Missing    int `json:"missing"`
	Unresolved int `json:"unresolved"`
}

// Add 累加
func (c *Counts) Add(o Counts) {
	c.Yes += o.Yes
	c.No += o.No
	c.Missing += o.Missing
	c.Unresolved += o.Unresolved
}

// Total 单元格总数
func (c Counts) Total() int {
	return c.Yes + c.No + c.Missing + c.Unresolved
}

// Diagnostics 转换诊断信息（非致命问题在此汇报）
type Diagnostics struct {
	Format       Format             `json:"format"`
	CutoffMode   CutoffMode         `json:"cutoffMode"`
	TrainRows    int                `json:"trainRows"`
	TestRows     int                `json:"testRows"`
	Columns      int                `json:"columns"`
	Counts       Counts             `json:"counts"`
	Unresolved   []UnresolvedCell   `json:"unresolved,omitempty"`
	Thresholds   map[string]float64 `json:"thresholds,omitempty"`
	SyntheticIDs bool               `json:"syntheticIds"`
	Notices      []string           `json:"notices,omitempty"`
}
