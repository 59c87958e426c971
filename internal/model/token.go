package model

import (
	"fmt"
	"strings"
)

// Ternary 三值编码
type Ternary uint8

const (
	Yes Ternary = iota + 1
	No
	Missing
)

func (t Ternary) String() string {
	switch t {
	case Yes:
		return "Yes"
	case No:
		return "No"
	case Missing:
		return "Missing"
	}
	return "Unknown"
}

// Scheme 输出编码方案
type Scheme string

const (
	// SchemeLegacy 旧版三符号编码：Y / 空 / .
	SchemeLegacy Scheme = "legacy"
	// SchemeShort 短字母编码：y / n / -
	SchemeShort Scheme = "short"
)

// ParseScheme 解析编码方案
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy", "who2012":
		return SchemeLegacy, nil
	case "short", "who2016":
		return SchemeShort, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// Token 返回三值在该方案下的规范符号
func (s Scheme) Token(t Ternary) string {
	if s == SchemeShort {
		switch t {
		case Yes:
			return "y"
		case No:
			return "n"
		case Missing:
			return "-"
		}
		return ""
	}
	switch t {
	case Yes:
		return "Y"
	case No:
		return ""
	case Missing:
		return "."
	}
	return ""
}

// Tokens 返回该方案的全部规范符号（Yes, No, Missing 顺序）
func (s Scheme) Tokens() [3]string {
	return [3]string{s.Token(Yes), s.Token(No), s.Token(Missing)}
}

// IsCanonical 判断值是否为该方案的规范符号
func (s Scheme) IsCanonical(v string) bool {
	for _, tok := range s.Tokens() {
		if v == tok {
			return true
		}
	}
	return false
}
