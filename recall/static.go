package recall

import (
	"context"

	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/pipeline"
)

// Static 返回内存中固定的候选（配置内联、测试、回放）。
// 每次调用都会复制 item，下游 Node 的修改不会污染原始数据。
type Static struct {
	Items []*core.Item
}

func (s *Static) Name() string        { return "recall.static" }
func (s *Static) Kind() pipeline.Kind { return pipeline.KindRecall }

func (s *Static) Process(ctx context.Context, _ []*core.Item) ([]*core.Item, error) {
	return s.Recall(ctx)
}

func (s *Static) Recall(_ context.Context) ([]*core.Item, error) {
	out := make([]*core.Item, 0, len(s.Items))
	for _, src := range s.Items {
		if src == nil {
			continue
		}
		it := core.NewItem(src.ID)
		it.Score = src.Score
		for k, v := range src.Features {
			it.PutFeature(k, v)
		}
		for k, v := range src.Meta {
			it.PutMeta(k, v)
		}
		for k, v := range src.Labels {
			it.SetLabel(k, v)
		}
		out = append(out, it)
	}
	return out, nil
}
