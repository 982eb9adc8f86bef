package rerank

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/feature"
	"github.com/rushteam/footrule/pipeline"
	"github.com/rushteam/footrule/pkg/utils"
	"github.com/rushteam/footrule/rank"
)

// ErrDistanceExceeded 表示候选排序与各指标排名的 footrule 距离超过了阈值。
var ErrDistanceExceeded = core.NewDomainError(core.ModuleRank, "DISTANCE_EXCEEDED", "rerank: footrule distance exceeds the limit")

// FootruleNode 把当前 items 的顺序当作候选排序，与每个指标的排名比较并求 footrule 距离之和。
// 不改变 items 的顺序，只写入解释信息：
//   - label footrule_distance：整体距离
//   - meta footrule_ranks：该 item 的 RankVector（按指标顺序）
//   - meta footrule_displacement：该 item 在各指标上的位移之和
//   - meta footrule_proposed_rank：该 item 的候选排名
//
// 示例：
//
//	node, _ := rerank.NewFootruleNode(extractor, rerank.WithMaxDistance(20))
//	p := &pipeline.Pipeline{Nodes: []pipeline.Node{source, node}}
type FootruleNode struct {
	extractor   *feature.ScoreExtractor
	aggregator  *rank.Aggregator
	maxDistance core.Distance
	limited     bool
	onReport    func(*rank.Report)
	logger      *slog.Logger
}

// FootruleOption 配置 FootruleNode。
type FootruleOption func(*FootruleNode)

// WithMaxDistance 距离超过 d 时 Process 返回 ErrDistanceExceeded，此时不写 label/meta，也不回调 report hook。
func WithMaxDistance(d core.Distance) FootruleOption {
	return func(n *FootruleNode) {
		n.maxDistance = d
		n.limited = true
	}
}

// WithAggregator 替换默认的 Aggregator（例如开启并行）。
func WithAggregator(a *rank.Aggregator) FootruleOption {
	return func(n *FootruleNode) { n.aggregator = a }
}

// WithReportHook 每次计算完成后回调完整报告。
func WithReportHook(fn func(*rank.Report)) FootruleOption {
	return func(n *FootruleNode) { n.onReport = fn }
}

func WithFootruleLogger(l *slog.Logger) FootruleOption {
	return func(n *FootruleNode) { n.logger = l }
}

func NewFootruleNode(extractor *feature.ScoreExtractor, opts ...FootruleOption) (*FootruleNode, error) {
	if extractor == nil {
		return nil, fmt.Errorf("rerank.footrule: extractor is required")
	}
	n := &FootruleNode{extractor: extractor}
	for _, opt := range opts {
		opt(n)
	}
	if n.aggregator == nil {
		n.aggregator = rank.NewAggregator(rank.WithLogger(n.logger))
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	return n, nil
}

func (n *FootruleNode) Name() string        { return "rerank.footrule" }
func (n *FootruleNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *FootruleNode) Process(_ context.Context, items []*core.Item) ([]*core.Item, error) {
	scores, proposed, err := n.extractor.Extract(items)
	if err != nil {
		return nil, err
	}
	report, err := n.aggregator.Measure(scores, proposed)
	if err != nil {
		return nil, err
	}
	if n.limited && report.Total > n.maxDistance {
		n.logger.Warn("rerank.footrule: distance exceeded",
			"items", len(proposed), "distance", report.Total, "max_distance", n.maxDistance)
		return nil, ErrDistanceExceeded.Wrapf("distance %d > %d", report.Total, n.maxDistance)
	}

	pos := make(map[core.ItemID]int, len(proposed))
	for i, id := range proposed {
		pos[id] = i + 1
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		it.SetLabel("footrule_distance", utils.IntLabel(report.Total, "rerank"))
		it.PutMeta("footrule_ranks", report.Ranks[it.ID])
		it.PutMeta("footrule_displacement", report.PerItem[it.ID])
		it.PutMeta("footrule_proposed_rank", pos[it.ID])
	}

	n.logger.Info("rerank.footrule: measured",
		"metrics", n.extractor.MetricNames(), "items", len(proposed),
		"distance", report.Total, "per_metric", report.PerMetric)
	if n.onReport != nil {
		n.onReport(report)
	}

	return items, nil
}
