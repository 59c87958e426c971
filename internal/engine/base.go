package engine

// missingTokens 通用的“不知道 / 拒绝回答 / 空”取值
var missingTokens = newValueSet([]string{
	"Don't Know",
	"Don't know",
	"Refused to Answer",
	"Refused to answer",
	"",
})

// baseCell 通用词法映射：Yes→是，No→否，不知道/拒答/空→缺失，其余保留原值
func baseCell(v string) cell {
	switch {
	case v == "Yes":
		return cell{st: stateYes, raw: v}
	case v == "No":
		return cell{st: stateNo, raw: v}
	case missingTokens.has(v):
		return cell{st: stateMissing, raw: v}
	}
	return rawCell(v)
}

// convertBase 对整列做基础三值转换
func convertBase(values []string) []cell {
	out := make([]cell, len(values))
	for i, v := range values {
		out[i] = baseCell(v)
	}
	return out
}
