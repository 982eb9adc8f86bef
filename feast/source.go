// Package feast 从 Feast 在线特征服务读取指标分数。
//
// 参考：https://github.com/feast-dev/feast
package feast

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/pipeline"
)

// OnlineClient 是 ScoreSource 依赖的最小客户端接口，*feastsdk.GrpcClient 实现了它。
type OnlineClient interface {
	GetOnlineFeatures(ctx context.Context, req *feastsdk.OnlineFeaturesRequest) (*feastsdk.OnlineFeaturesResponse, error)
}

// ScoreSource 为一组已知的 item id 拉取在线特征，每个特征作为一个指标写入 item.Features。
//
// 特征引用形如 "item_stats:ctr"，写入 item 时使用冒号后的特征名（"ctr"）。
// 返回值缺失（NOT_FOUND）或非数值时不写入对应特征，交由下游判定。
type ScoreSource struct {
	Client  OnlineClient
	Project string
	// EntityKey 是实体列名，例如 "item_id"
	EntityKey string
	// Int64Entity 为 true 时把 id 解析为 int64 实体值，否则按字符串传递
	Int64Entity bool
	IDs         []core.ItemID
	Features    []string

	// fetch 便于测试替换，默认调用 Client.GetOnlineFeatures
	fetch func(ctx context.Context, req *feastsdk.OnlineFeaturesRequest) ([]feastsdk.Row, error)
}

// NewScoreSource 使用官方 SDK 的 gRPC 客户端连接 Feast Serving（默认端口 6566）。
func NewScoreSource(host string, port int, project string) (*ScoreSource, error) {
	if port == 0 {
		port = 6566
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast: connect %s:%d: %w", host, port, err)
	}
	return &ScoreSource{Client: client, Project: project}, nil
}

func (s *ScoreSource) Name() string        { return "recall.feast" }
func (s *ScoreSource) Kind() pipeline.Kind { return pipeline.KindRecall }

func (s *ScoreSource) Process(ctx context.Context, _ []*core.Item) ([]*core.Item, error) {
	return s.Recall(ctx)
}

func (s *ScoreSource) Recall(ctx context.Context) ([]*core.Item, error) {
	if len(s.IDs) == 0 {
		return nil, nil
	}
	if len(s.Features) == 0 {
		return nil, fmt.Errorf("feast: features are required")
	}
	if s.EntityKey == "" {
		return nil, fmt.Errorf("feast: entity key is required")
	}

	entities := make([]feastsdk.Row, len(s.IDs))
	for i, id := range s.IDs {
		val, err := s.entityValue(id)
		if err != nil {
			return nil, err
		}
		entities[i] = feastsdk.Row{s.EntityKey: val}
	}

	rows, err := s.fetchRows(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: s.Features,
		Entities: entities,
		Project:  s.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast: get online features: %w", err)
	}
	if len(rows) != len(s.IDs) {
		return nil, fmt.Errorf("feast: response row count mismatch: expected %d, got %d", len(s.IDs), len(rows))
	}

	items := make([]*core.Item, len(s.IDs))
	for i, id := range s.IDs {
		it := core.NewItem(id)
		for _, ref := range s.Features {
			if v, ok := toFloat64(rows[i][ref]); ok {
				it.PutFeature(featureName(ref), v)
			}
		}
		items[i] = it
	}
	return items, nil
}

func (s *ScoreSource) fetchRows(ctx context.Context, req *feastsdk.OnlineFeaturesRequest) ([]feastsdk.Row, error) {
	if s.fetch != nil {
		return s.fetch(ctx, req)
	}
	if s.Client == nil {
		return nil, fmt.Errorf("client is nil")
	}
	resp, err := s.Client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Rows(), nil
}

func (s *ScoreSource) entityValue(id core.ItemID) (*types.Value, error) {
	if !s.Int64Entity {
		return feastsdk.StrVal(id), nil
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("feast: item id %q is not an int64 entity: %w", id, err)
	}
	return feastsdk.Int64Val(n), nil
}

// featureName 把 "view:feature" 转为 "feature"。
func featureName(ref string) string {
	if i := strings.LastIndexByte(ref, ':'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func toFloat64(v *types.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.GetVal().(type) {
	case *types.Value_DoubleVal:
		return val.DoubleVal, true
	case *types.Value_FloatVal:
		return float64(val.FloatVal), true
	case *types.Value_Int64Val:
		return float64(val.Int64Val), true
	case *types.Value_Int32Val:
		return float64(val.Int32Val), true
	case *types.Value_BoolVal:
		if val.BoolVal {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
