package recall

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/pipeline"
	"github.com/rushteam/footrule/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个 Source，并按 item id 合并结果。
//
// 合并规则：
//   - 输出顺序为 Sources 顺序下各 id 第一次出现的顺序
//   - Features 取并集，同名特征以先出现的 Source 为准
//   - Labels 按 MergeLabel 累积（recall_source 会记录所有来源）
//
// 不同指标可以来自不同后端（例如 ctr 来自 Redis、gmv 来自 Feast），合并后落在同一个 item 上。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个 Source 的超时时间（0 表示不限制）
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	// Strict 为 true 时任一 Source 失败即整体失败；否则记录日志并跳过该 Source
	Strict bool
	Logger *slog.Logger
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(ctx context.Context, _ []*core.Item) ([]*core.Item, error) {
	return n.Recall(ctx)
}

// Recall 让 Fanout 本身也可以作为 Source 嵌套使用。
func (n *Fanout) Recall(ctx context.Context) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := make([][]*core.Item, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := src.Recall(recallCtx)
			if err != nil {
				if n.Strict {
					return fmt.Errorf("recall source %s: %w", src.Name(), err)
				}
				logger.Warn("recall: source failed, skipped", "source", src.Name(), "error", err)
				return nil
			}
			for _, it := range items {
				if it != nil {
					it.PutLabel("recall_source", utils.Label{Value: src.Name(), Source: "recall"})
				}
			}
			results[i] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return merge(results), nil
}

func merge(results [][]*core.Item) []*core.Item {
	seen := make(map[core.ItemID]*core.Item)
	var out []*core.Item
	for _, items := range results {
		for _, it := range items {
			if it == nil {
				continue
			}
			old, ok := seen[it.ID]
			if !ok {
				seen[it.ID] = it
				out = append(out, it)
				continue
			}
			for k, v := range it.Features {
				if _, exists := old.Features[k]; !exists {
					old.PutFeature(k, v)
				}
			}
			for k, v := range it.Meta {
				if _, exists := old.Meta[k]; !exists {
					old.PutMeta(k, v)
				}
			}
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
		}
	}
	return out
}
