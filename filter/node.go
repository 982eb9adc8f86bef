package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/pipeline"
)

// FilterNode 组合多个过滤器，任何一个过滤器返回 true，该 item 就会被移除。
// 保留的 item 维持原有顺序。过滤器出错时整个 Node 失败。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(ctx context.Context, items []*core.Item) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		drop := false
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, item)
			if err != nil {
				return nil, fmt.Errorf("filter %s: %w", f.Name(), err)
			}
			if ok {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, item)
		}
	}
	return out, nil
}
