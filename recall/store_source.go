package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/pipeline"
)

// StoreSource 从 KeyValueStore 的有序集合中读取指标分数。
//
// 每个指标一个有序集合：key = KeyPrefix + metric，member = item id。
// 候选集合：
//   - IDs 非空时直接使用 IDs（按给定顺序）
//   - 否则取第一个指标有序集合中分数最高的 TopK 个（TopK <= 0 表示全部）
//
// 某个指标下没有该 item 时不写入对应特征，交由下游判定（不支持部分指标缺失）。
// StoreSource 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type StoreSource struct {
	Store     core.KeyValueStore
	KeyPrefix string
	Metrics   []string
	TopK      int
	IDs       []core.ItemID
}

func (s *StoreSource) Name() string        { return "recall.store" }
func (s *StoreSource) Kind() pipeline.Kind { return pipeline.KindRecall }

func (s *StoreSource) Process(ctx context.Context, _ []*core.Item) ([]*core.Item, error) {
	return s.Recall(ctx)
}

func (s *StoreSource) Recall(ctx context.Context) ([]*core.Item, error) {
	if s.Store == nil {
		return nil, fmt.Errorf("recall.store: store is nil")
	}
	if len(s.Metrics) == 0 {
		return nil, fmt.Errorf("recall.store: no metrics configured")
	}

	ids := s.IDs
	if len(ids) == 0 {
		stop := int64(-1)
		if s.TopK > 0 {
			stop = int64(s.TopK - 1)
		}
		var err error
		ids, err = s.Store.ZRange(ctx, s.key(s.Metrics[0]), 0, stop)
		if err != nil {
			return nil, fmt.Errorf("recall.store: zrange %s: %w", s.key(s.Metrics[0]), err)
		}
	}

	items := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		for _, metric := range s.Metrics {
			score, err := s.Store.ZScore(ctx, s.key(metric), id)
			if core.IsNotFound(err) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("recall.store: zscore %s %s: %w", s.key(metric), id, err)
			}
			it.PutFeature(metric, score)
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *StoreSource) key(metric string) string {
	return s.KeyPrefix + metric
}
