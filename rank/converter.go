// Package rank 把多指标分数转换为逐指标排名，并计算候选排序与这些排名之间的
// Spearman footrule 距离之和。
package rank

import (
	"cmp"
	"log/slog"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/footrule/core"
)

// Option 配置 Converter / Aggregator。
type Option func(*options)

type options struct {
	parallelism int
	logger      *slog.Logger
}

// WithParallelism 设置逐指标排名的最大并发数，<= 1 表示串行。
// 各指标互相独立：每个 goroutine 只读分数表，只写自己那一列排名。
func WithParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

// WithLogger 设置日志；默认使用 slog.Default()。
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func (o *options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

// Converter 把 ScoreTable 转换为 RankTable。
//
// 对每个指标：按分数降序排序，按位置给出 1..N 的临时排名；
// 分数完全相同的 item 取组内最小排名（competition ranking），
// 被占用的排名跳过，例如 (100, 100, 90) -> (1, 1, 3)。
type Converter struct {
	opts options
}

func NewConverter(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

// ConvertToRanks 计算每个 item 在每个指标上的排名，RankVector 与 ScoreVector 按位置对齐。
func (c *Converter) ConvertToRanks(scores core.ScoreTable) (core.RankTable, error) {
	ids, arity, err := checkScores(scores)
	if err != nil {
		return nil, err
	}

	ranks := make(core.RankTable, len(ids))
	for _, id := range ids {
		ranks[id] = make(core.RankVector, arity)
	}

	if c.opts.parallelism > 1 && arity > 1 {
		var eg errgroup.Group
		eg.SetLimit(c.opts.parallelism)
		for m := 0; m < arity; m++ {
			eg.Go(func() error {
				return c.rankMetric(scores, ids, m, ranks)
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		return ranks, nil
	}

	for m := 0; m < arity; m++ {
		if err := c.rankMetric(scores, ids, m, ranks); err != nil {
			return nil, err
		}
	}
	return ranks, nil
}

// rankMetric 只写 ranks[*][m]。
func (c *Converter) rankMetric(scores core.ScoreTable, ids []core.ItemID, m int, ranks core.RankTable) error {
	order := slices.Clone(ids)
	slices.SortStableFunc(order, func(a, b core.ItemID) int {
		return cmp.Compare(scores[b][m], scores[a][m])
	})

	tied := 0
	prev := 0
	for pos, id := range order {
		r := pos + 1
		if pos > 0 && scores[id][m] == scores[order[pos-1]][m] {
			r = prev
			tied++
		}
		ranks[id][m] = r
		prev = r
	}
	if tied > 0 {
		c.opts.log().Debug("rank: tied scores share the minimum rank", "metric", m, "tied", tied, "items", len(order))
	}
	return nil
}

// checkScores 返回排好序的 id（保证结果与日志可复现）和指标个数。
func checkScores(scores core.ScoreTable) ([]core.ItemID, int, error) {
	if len(scores) == 0 {
		return nil, 0, core.ErrEmptyInput
	}
	ids := scores.IDs()
	slices.Sort(ids)

	arity := len(scores[ids[0]])
	if arity == 0 {
		return nil, 0, core.ErrInconsistentMetricArity.Wrapf("item %q has no metrics", ids[0])
	}
	for _, id := range ids {
		vec := scores[id]
		if len(vec) != arity {
			return nil, 0, core.ErrInconsistentMetricArity.Wrapf("item %q has %d metrics, item %q has %d", id, len(vec), ids[0], arity)
		}
		for m, s := range vec {
			if math.IsNaN(s) {
				return nil, 0, core.ErrInvalidScore.Wrapf("item %q metric %d is NaN", id, m)
			}
		}
	}
	return ids, arity, nil
}

var defaultAggregator = NewAggregator()

// ConvertToRanks 使用默认（串行）Converter。
func ConvertToRanks(scores core.ScoreTable) (core.RankTable, error) {
	return defaultAggregator.Converter().ConvertToRanks(scores)
}
