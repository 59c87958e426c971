package rules

import (
	"fmt"
	"sort"
	"strings"

	"vaconvert/internal/model"
)

// Kind 规则类型
type Kind string

const (
	KindPass    Kind = "pass"    // 直接使用基础三值转换
	KindCutoff  Kind = "cutoff"  // 数值阈值二值化
	KindGroup   Kind = "group"   // 分类取值分组
	KindExclude Kind = "exclude" // 不得出现在输出中
)

// Rule 单个输出列的生成规则
type Rule struct {
	Column    string   `yaml:"column" json:"column"`
	Kind      Kind     `yaml:"kind" json:"kind"`
	Field     string   `yaml:"field,omitempty" json:"field,omitempty"`
	Second    string   `yaml:"second,omitempty" json:"second,omitempty"`
	Threshold float64  `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Adaptive  bool     `yaml:"adaptive,omitempty" json:"adaptive,omitempty"`
	Yes       []string `yaml:"yes,omitempty" json:"yes,omitempty"`
	No        []string `yaml:"no,omitempty" json:"no,omitempty"`
	Missing   []string `yaml:"missing,omitempty" json:"missing,omitempty"`
}

// Source 规则读取的原始字段（未配置时与输出列同名）
func (r Rule) Source() string {
	if r.Field != "" {
		return r.Field
	}
	return r.Column
}

// Derives 是否为需要引擎计算的派生规则
func (r Rule) Derives() bool {
	return r.Kind == KindCutoff || r.Kind == KindGroup
}

// Fields 问卷固定字段名
type Fields struct {
	Age   string `yaml:"age" json:"age"`
	Sex   string `yaml:"sex" json:"sex"`
	First string `yaml:"first" json:"first"` // 症状区间首列
	Last  string `yaml:"last" json:"last"`   // 症状区间末列
}

// RuleSet 某一问卷类型的完整规则集
type RuleSet struct {
	Format  model.Format `yaml:"format" json:"format"`
	Version int          `yaml:"version" json:"version"`
	Fields  Fields       `yaml:"fields" json:"fields"`
	// ForceMissing 为真时，经过所有阶段仍未转换的单元格在输出前强制记为缺失
	ForceMissing bool   `yaml:"force_missing" json:"forceMissing"`
	Rules        []Rule `yaml:"rules" json:"rules"`
}

// Validate 校验规则集的结构完整性
func (rs *RuleSet) Validate() error {
	if rs.Fields.Age == "" || rs.Fields.Sex == "" || rs.Fields.First == "" || rs.Fields.Last == "" {
		return fmt.Errorf("rule set %s: schema fields incomplete", rs.Format)
	}
	seen := make(map[string]bool, len(rs.Rules))
	for i, r := range rs.Rules {
		if strings.TrimSpace(r.Column) == "" {
			return fmt.Errorf("rule set %s: rule %d has no column", rs.Format, i)
		}
		if seen[r.Column] {
			return fmt.Errorf("rule set %s: duplicate rule for column %q", rs.Format, r.Column)
		}
		seen[r.Column] = true

		switch r.Kind {
		case KindPass, KindExclude:
		case KindCutoff:
			if r.Second != "" {
				return fmt.Errorf("rule set %s: cutoff rule %q cannot have a second field", rs.Format, r.Column)
			}
		case KindGroup:
			if len(r.Yes) == 0 && len(r.No) == 0 {
				return fmt.Errorf("rule set %s: group rule %q has empty value sets", rs.Format, r.Column)
			}
			if err := checkDisjoint(r); err != nil {
				return fmt.Errorf("rule set %s: %w", rs.Format, err)
			}
		default:
			return fmt.Errorf("rule set %s: rule %q has unknown kind %q", rs.Format, r.Column, r.Kind)
		}
	}
	return nil
}

// checkDisjoint 同一规则的 yes/no/missing 取值集合不得重叠
func checkDisjoint(r Rule) error {
	owner := make(map[string]string)
	for name, set := range map[string][]string{"yes": r.Yes, "no": r.No, "missing": r.Missing} {
		for _, v := range set {
			if prev, ok := owner[v]; ok && prev != name {
				return fmt.Errorf("group rule %q lists %q in both %s and %s", r.Column, v, prev, name)
			}
			owner[v] = name
		}
	}
	return nil
}

// Derivations 返回全部派生规则（cutoff 与 group）
func (rs *RuleSet) Derivations() []Rule {
	out := make([]Rule, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		if r.Derives() {
			out = append(out, r)
		}
	}
	return out
}

// Excluded 返回排除列集合
func (rs *RuleSet) Excluded() map[string]bool {
	out := make(map[string]bool)
	for _, r := range rs.Rules {
		if r.Kind == KindExclude {
			out[r.Column] = true
		}
	}
	return out
}

// SourceFields 规则引用的全部原始字段（已排序去重）
func (rs *RuleSet) SourceFields() []string {
	set := make(map[string]struct{})
	for _, r := range rs.Rules {
		if !r.Derives() {
			continue
		}
		set[r.Source()] = struct{}{}
		if r.Second != "" {
			set[r.Second] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Lookup 按输出列名查找规则
func (rs *RuleSet) Lookup(column string) (Rule, bool) {
	for _, r := range rs.Rules {
		if r.Column == column {
			return r, true
		}
	}
	return Rule{}, false
}
