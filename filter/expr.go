package filter

import (
	"context"

	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤，表达式为 true 时移除 item。
// 例如 `item.features.impressions < 100.0`。
type ExprFilter struct {
	expr *dsl.Expr
}

func NewExprFilter(expr string) (*ExprFilter, error) {
	e, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{expr: e}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(_ context.Context, item *core.Item) (bool, error) {
	return f.expr.EvalBool(item)
}

// MissingFeatureFilter 移除缺少任一指定特征的 item。
// 部分指标缺失的 item 无法参与排名，可以选择在评估前剔除它们。
type MissingFeatureFilter struct {
	Features []string
}

func (f *MissingFeatureFilter) Name() string { return "filter.missing_feature" }

func (f *MissingFeatureFilter) ShouldFilter(_ context.Context, item *core.Item) (bool, error) {
	for _, name := range f.Features {
		if _, ok := item.Features[name]; !ok {
			return true, nil
		}
	}
	return false, nil
}
