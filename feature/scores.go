package feature

import (
	"fmt"
	"math"

	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/pkg/dsl"
)

// Metric 描述 ScoreVector 中的一个指标位置。
//
// 取值方式（二选一，Expr 优先）：
//   - Feature：直接读取 item.Features[Feature]，为空时用 Name
//   - Expr：CEL 表达式，例如 `item.features.price * item.features.sales`
type Metric struct {
	Name    string
	Feature string
	Expr    string
}

// ErrMissingMetric 表示 item 缺少某个指标的值（不支持部分指标缺失）。
var ErrMissingMetric = core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: missing metric value")

type compiledMetric struct {
	Metric
	expr *dsl.Expr
}

// ScoreExtractor 把有序的 item 列表转换为 (ScoreTable, ProposedOrdering)：
// 每个 item 按 metrics 的顺序得到一个 ScoreVector，item 的顺序即候选排序。
type ScoreExtractor struct {
	metrics []compiledMetric
}

// ScoreExtractorOption 配置 ScoreExtractor。
type ScoreExtractorOption func(*ScoreExtractor) error

// WithMetrics 追加指标。
func WithMetrics(metrics ...Metric) ScoreExtractorOption {
	return func(e *ScoreExtractor) error {
		for _, m := range metrics {
			if m.Name == "" {
				return fmt.Errorf("feature: metric name is required")
			}
			cm := compiledMetric{Metric: m}
			if m.Expr != "" {
				expr, err := dsl.Compile(m.Expr)
				if err != nil {
					return fmt.Errorf("feature: metric %s: %w", m.Name, err)
				}
				cm.expr = expr
			}
			e.metrics = append(e.metrics, cm)
		}
		return nil
	}
}

// WithFeatureMetrics 以特征名作为指标名追加指标。
func WithFeatureMetrics(features ...string) ScoreExtractorOption {
	metrics := make([]Metric, 0, len(features))
	for _, f := range features {
		metrics = append(metrics, Metric{Name: f, Feature: f})
	}
	return WithMetrics(metrics...)
}

func NewScoreExtractor(opts ...ScoreExtractorOption) (*ScoreExtractor, error) {
	e := &ScoreExtractor{}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if len(e.metrics) == 0 {
		return nil, fmt.Errorf("feature: at least one metric is required")
	}
	seen := make(map[string]bool, len(e.metrics))
	for _, m := range e.metrics {
		if seen[m.Name] {
			return nil, fmt.Errorf("feature: duplicate metric %q", m.Name)
		}
		seen[m.Name] = true
	}
	return e, nil
}

// MetricNames 按 ScoreVector 的位置返回指标名。
func (e *ScoreExtractor) MetricNames() []string {
	names := make([]string, len(e.metrics))
	for i, m := range e.metrics {
		names[i] = m.Name
	}
	return names
}

// Extract 抽取分数表与候选排序。nil item 被跳过；重复 id 返回 ErrInconsistentOrdering。
func (e *ScoreExtractor) Extract(items []*core.Item) (core.ScoreTable, core.ProposedOrdering, error) {
	scores := make(core.ScoreTable, len(items))
	proposed := make(core.ProposedOrdering, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, dup := scores[it.ID]; dup {
			return nil, nil, core.ErrInconsistentOrdering.Wrapf("item %q appears more than once", it.ID)
		}
		vec, err := e.ScoreVector(it)
		if err != nil {
			return nil, nil, err
		}
		scores[it.ID] = vec
		proposed = append(proposed, it.ID)
	}
	return scores, proposed, nil
}

// ScoreVector 计算单个 item 的分数向量。
func (e *ScoreExtractor) ScoreVector(it *core.Item) (core.ScoreVector, error) {
	vec := make(core.ScoreVector, len(e.metrics))
	for i, m := range e.metrics {
		v, err := m.value(it)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) {
			return nil, core.ErrInvalidScore.Wrapf("item %q metric %s is NaN", it.ID, m.Name)
		}
		vec[i] = v
	}
	return vec, nil
}

func (m compiledMetric) value(it *core.Item) (float64, error) {
	if m.expr != nil {
		v, err := m.expr.EvalFloat(it)
		if err != nil {
			return 0, ErrMissingMetric.Wrapf("item %q metric %s: %v", it.ID, m.Name, err)
		}
		return v, nil
	}
	key := m.Feature
	if key == "" {
		key = m.Name
	}
	v, ok := it.Features[key]
	if !ok {
		return 0, ErrMissingMetric.Wrapf("item %q has no feature %q", it.ID, key)
	}
	return v, nil
}
