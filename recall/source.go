package recall

import (
	"context"

	"github.com/rushteam/footrule/core"
)

// Source 是一个带指标的候选来源（Redis 有序集合、Feast 在线特征...）。
// 返回的 item 把指标原始分数写在 Features 中，返回顺序即候选排序。
type Source interface {
	Name() string
	Recall(ctx context.Context) ([]*core.Item, error)
}
