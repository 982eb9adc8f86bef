package rerank

import (
	"context"

	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/pipeline"
)

// TopNNode 截取前 N 个 item，只评估候选排序的头部时使用。
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        source,
//	        &rerank.TopNNode{N: 20},
//	        footrule,
//	    },
//	}
type TopNNode struct {
	// N <= 0 时不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(_ context.Context, items []*core.Item) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
