// Package footrule 计算排名聚合距离：把多指标分数转换为逐指标排名（并列取最小排名），
// 再计算候选排序与每个指标排名之间的 Spearman footrule 距离，跨指标、跨 item 求和。
//
// 设计要点：
//   - Core-first: rank 包是纯函数（ConvertToRanks / SumFootruleDistance），无 I/O、无共享状态
//   - Pipeline: 取数（recall.store / recall.feast）→ 过滤（filter）→ 评估（rerank.footrule）
//   - Labels-first: 评估结果以 label / meta 的形式写回 item，便于 explain
package footrule

import (
	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/pipeline"
	"github.com/rushteam/footrule/rank"
)

// 轻量 facade：便于直接 import "footrule" 使用核心抽象。
type (
	ScoreTable       = core.ScoreTable
	ScoreVector      = core.ScoreVector
	RankTable        = core.RankTable
	RankVector       = core.RankVector
	ProposedOrdering = core.ProposedOrdering
	Distance         = core.Distance
	Report           = rank.Report

	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
)

var (
	ErrEmptyInput              = core.ErrEmptyInput
	ErrEmptyProposedRank       = core.ErrEmptyProposedRank
	ErrInconsistentOrdering    = core.ErrInconsistentOrdering
	ErrInconsistentMetricArity = core.ErrInconsistentMetricArity
	ErrInvalidScore            = core.ErrInvalidScore
)

// ConvertToRanks 把每个 item 的多指标分数转换为逐指标排名。
func ConvertToRanks(scores ScoreTable) (RankTable, error) {
	return rank.ConvertToRanks(scores)
}

// SumFootruleDistance 返回候选排序与各指标排名之间 footrule 距离之和。
func SumFootruleDistance(scores ScoreTable, proposed ProposedOrdering) (Distance, error) {
	return rank.SumFootruleDistance(scores, proposed)
}
