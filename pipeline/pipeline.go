package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rushteam/footrule/core"
)

// Pipeline 把评估逻辑拆成可组合的 Node 链。
type Pipeline struct {
	Name   string
	Nodes  []Node
	Logger *slog.Logger
}

func (p *Pipeline) Run(ctx context.Context, items []*core.Item) ([]*core.Item, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		next, err := node.Process(ctx, cur)
		if err != nil {
			logger.Error("pipeline: node failed",
				"pipeline", p.Name, "node", node.Name(), "kind", node.Kind(), "error", err)
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		logger.Debug("pipeline: node done",
			"pipeline", p.Name, "node", node.Name(), "kind", node.Kind(),
			"in", len(cur), "out", len(next), "elapsed", time.Since(start))
		cur = next
	}
	return cur, nil
}
