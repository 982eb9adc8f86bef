package core

import "github.com/rushteam/footrule/pkg/utils"

// Item 是 Pipeline 中的统一承载结构：指标特征、分数、元信息、标签。
// Features 存放各指标的原始分数；item 在切片中的位置就是它的候选排名。
type Item struct {
	ID       ItemID
	Score    float64
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewItem(id ItemID) *Item {
	return &Item{
		ID:       id,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// SetLabel 覆盖写入 Label（不做 merge），用于每次运行都会重算的结果。
func (it *Item) SetLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	it.Labels[key] = lbl
}

// PutFeature 写入特征值。
func (it *Item) PutFeature(name string, v float64) {
	if it.Features == nil {
		it.Features = make(map[string]float64)
	}
	it.Features[name] = v
}

// PutMeta 写入元信息。
func (it *Item) PutMeta(key string, v any) {
	if it.Meta == nil {
		it.Meta = make(map[string]any)
	}
	it.Meta[key] = v
}
