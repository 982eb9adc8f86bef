package pipeline

import (
	"context"

	"github.com/rushteam/footrule/core"
)

// Kind 用于标记 Node 所处阶段，方便日志与编排。
type Kind string

const (
	KindRecall Kind = "recall" // 召回阶段：从存储/特征服务取回带指标的候选
	KindFilter Kind = "filter" // 过滤阶段：剔除不参与评估的候选
	KindReRank Kind = "rerank" // 重排阶段：评估/截断候选排序
)

// Node 是 Pipeline 的最小可扩展单元，统一为“输入 items -> 输出 items”。
// items 的顺序即当前的候选排序。
type Node interface {
	Name() string
	Kind() Kind

	Process(ctx context.Context, items []*core.Item) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(config map[string]any) (Node, error)
