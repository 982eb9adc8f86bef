package rank

import (
	"slices"

	"github.com/rushteam/footrule/core"
)

// Report 是一次 footrule 计算的完整结果。
type Report struct {
	// Total 是所有指标、所有 item 的 |rank - proposedRank| 之和
	Total core.Distance
	// PerMetric[m] 是候选排序与第 m 个指标排名之间的 footrule 距离，求和即 Total
	PerMetric []core.Distance
	// PerItem 是每个 item 在各指标上的位移之和，求和即 Total
	PerItem map[core.ItemID]core.Distance
	// Ranks 是由分数转换得到的排名表
	Ranks core.RankTable
}

// Aggregator 把候选排序与每个指标的排名逐一比较，并把 footrule 距离跨指标求和（不取平均）。
type Aggregator struct {
	converter *Converter
}

func NewAggregator(opts ...Option) *Aggregator {
	return &Aggregator{converter: NewConverter(opts...)}
}

// Converter 返回内部使用的 Converter。
func (a *Aggregator) Converter() *Converter { return a.converter }

// SumFootruleDistance 返回 Measure(...).Total。
func (a *Aggregator) SumFootruleDistance(scores core.ScoreTable, proposed core.ProposedOrdering) (core.Distance, error) {
	report, err := a.Measure(scores, proposed)
	if err != nil {
		return 0, err
	}
	return report.Total, nil
}

// Measure 计算候选排序与各指标排名之间的 footrule 距离。
//
// 候选排序中第 i 个 item（从 1 开始）的候选排名为 i。
// 校验顺序：候选排序为空 -> 分数表为空 -> 候选排序必须是分数表 key 的排列 -> 指标个数一致。
func (a *Aggregator) Measure(scores core.ScoreTable, proposed core.ProposedOrdering) (*Report, error) {
	if len(proposed) == 0 {
		return nil, core.ErrEmptyProposedRank
	}
	if len(scores) == 0 {
		return nil, core.ErrEmptyInput
	}
	if err := ValidateOrdering(scores, proposed); err != nil {
		return nil, err
	}
	ranks, err := a.converter.ConvertToRanks(scores)
	if err != nil {
		return nil, err
	}

	arity := len(ranks[proposed[0]])
	report := &Report{
		PerMetric: make([]core.Distance, arity),
		PerItem:   make(map[core.ItemID]core.Distance, len(proposed)),
		Ranks:     ranks,
	}
	for i, id := range proposed {
		proposedRank := i + 1
		for m, r := range ranks[id] {
			d := abs(r - proposedRank)
			report.PerMetric[m] += d
			report.PerItem[id] += d
			report.Total += d
		}
	}

	a.converter.opts.log().Debug("rank: footrule distance",
		"items", len(proposed), "metrics", arity, "distance", report.Total)
	return report, nil
}

// ValidateOrdering 检查 proposed 是否恰好是 scores 的 key 集合的一个排列：
// 重复、未知、缺失的 id 都返回 ErrInconsistentOrdering。
func ValidateOrdering(scores core.ScoreTable, proposed core.ProposedOrdering) error {
	if len(proposed) == 0 {
		return core.ErrEmptyProposedRank
	}
	seen := make(map[core.ItemID]struct{}, len(proposed))
	for pos, id := range proposed {
		if _, ok := scores[id]; !ok {
			return core.ErrInconsistentOrdering.Wrapf("item %q at position %d has no scores", id, pos+1)
		}
		if _, dup := seen[id]; dup {
			return core.ErrInconsistentOrdering.Wrapf("item %q appears more than once", id)
		}
		seen[id] = struct{}{}
	}
	if len(seen) != len(scores) {
		missing := make([]core.ItemID, 0, len(scores)-len(seen))
		for id := range scores {
			if _, ok := seen[id]; !ok {
				missing = append(missing, id)
			}
		}
		slices.Sort(missing)
		return core.ErrInconsistentOrdering.Wrapf("items %q are missing from the proposed ordering", missing)
	}
	return nil
}

// SumFootruleDistance 使用默认（串行）Aggregator。
func SumFootruleDistance(scores core.ScoreTable, proposed core.ProposedOrdering) (core.Distance, error) {
	return defaultAggregator.SumFootruleDistance(scores, proposed)
}

// Measure 使用默认（串行）Aggregator。
func Measure(scores core.ScoreTable, proposed core.ProposedOrdering) (*Report, error) {
	return defaultAggregator.Measure(scores, proposed)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
