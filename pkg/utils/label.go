package utils

import (
	"fmt"
	"strconv"
)

// Label 是链路中可解释、可追踪的标注：谁（Source）给出了什么结论（Value）。
// 例如 rerank.footrule 在每个 item 上写入 footrule_distance。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rerank ...
}

// IntLabel 以十进制写入整数值。
func IntLabel(v int, source string) Label {
	return Label{Value: strconv.Itoa(v), Source: source}
}

// AnyLabel 以 %v 格式写入任意值。
func AnyLabel(v any, source string) Label {
	return Label{Value: fmt.Sprintf("%v", v), Source: source}
}

// MergeLabel 合并同名 Label，保留历史：
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积，相同来源不重复
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "" || existing.Source == incoming.Source:
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
