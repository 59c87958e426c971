package rules

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"vaconvert/internal/model"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

var (
	loadOnce sync.Once
	loaded   map[model.Format]*RuleSet
	loadErr  error
)

// catalogFiles 已实现的问卷类型及其规则文件
var catalogFiles = map[model.Format]string{
	model.FormatAdult: "catalog/adult.yaml",
	model.FormatChild: "catalog/child.yaml",
}

// Load 返回指定问卷类型的规则集副本；规则文件在进程内只解析一次
func Load(format model.Format) (*RuleSet, error) {
	loadOnce.Do(func() {
		loaded, loadErr = loadAll()
	})
	if loadErr != nil {
		return nil, loadErr
	}

	switch format {
	case model.FormatAdult, model.FormatChild:
	case model.FormatNeonate:
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedFormat, format)
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownFormat, format)
	}

	rs, ok := loaded[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedFormat, format)
	}
	return rs.Clone(), nil
}

func loadAll() (map[model.Format]*RuleSet, error) {
	out := make(map[model.Format]*RuleSet, len(catalogFiles))
	for format, path := range catalogFiles {
		data, err := catalogFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		rs, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if rs.Format != format {
			return nil, fmt.Errorf("%s declares format %q, want %q", path, rs.Format, format)
		}
		out[format] = rs
	}
	return out, nil
}

// Parse 解析 YAML 规则集并校验
func Parse(data []byte) (*RuleSet, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var rs RuleSet
	if err := dec.Decode(&rs); err != nil {
		return nil, err
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Clone 深拷贝
func (rs *RuleSet) Clone() *RuleSet {
	out := *rs
	out.Rules = make([]Rule, len(rs.Rules))
	for i, r := range rs.Rules {
		r.Yes = append([]string(nil), r.Yes...)
		r.No = append([]string(nil), r.No...)
		r.Missing = append([]string(nil), r.Missing...)
		out.Rules[i] = r
	}
	return &out
}
