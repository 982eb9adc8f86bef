package builders

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/footrule/config"
	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/feast"
	"github.com/rushteam/footrule/feature"
	"github.com/rushteam/footrule/filter"
	"github.com/rushteam/footrule/pipeline"
	"github.com/rushteam/footrule/pkg/conv"
	"github.com/rushteam/footrule/rank"
	"github.com/rushteam/footrule/recall"
	"github.com/rushteam/footrule/rerank"
	"github.com/rushteam/footrule/store"
)

func init() {
	config.Register("recall.static", BuildStaticNode)
	config.Register("recall.store", BuildStoreNode)
	config.Register("recall.feast", BuildFeastNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.footrule", BuildFootruleNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildStaticNode:
//
//	items: [{id: A, features: {ctr: 0.1, gmv: 300}}]
func BuildStaticNode(cfg map[string]any) (pipeline.Node, error) {
	raw := conv.SliceAnyToMaps(cfg["items"])
	items := make([]*core.Item, 0, len(raw))
	for i, m := range raw {
		id := conv.ConfigGet(m, "id", "")
		if id == "" {
			return nil, fmt.Errorf("items[%d]: id is required", i)
		}
		it := core.NewItem(id)
		features, _ := m["features"].(map[string]any)
		for k, v := range features {
			f, ok := conv.ToFloat64(v)
			if !ok {
				return nil, fmt.Errorf("items[%d]: feature %s is not a number", i, k)
			}
			it.PutFeature(k, f)
		}
		items = append(items, it)
	}
	return &recall.Static{Items: items}, nil
}

// BuildStoreNode 连接 Redis：
//
//	addr: 127.0.0.1:6379
//	key_prefix: "metric:"
//	metrics: [clicks, ctr]
//	top_k: 100
func BuildStoreNode(cfg map[string]any) (pipeline.Node, error) {
	metrics := conv.SliceAnyToString(cfg["metrics"])
	if len(metrics) == 0 {
		return nil, fmt.Errorf("metrics not found")
	}
	addr := conv.ConfigGet(cfg, "addr", "")
	if addr == "" {
		return nil, fmt.Errorf("addr not found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	kv, err := store.NewRedisStore(ctx, store.RedisConfig{
		Addr:     addr,
		Password: conv.ConfigGet(cfg, "password", ""),
		DB:       int(conv.ConfigGetInt64(cfg, "db", 0)),
	})
	if err != nil {
		return nil, err
	}
	return &recall.StoreSource{
		Store:     kv,
		KeyPrefix: conv.ConfigGet(cfg, "key_prefix", ""),
		Metrics:   metrics,
		TopK:      int(conv.ConfigGetInt64(cfg, "top_k", 0)),
		IDs:       conv.SliceAnyToString(cfg["ids"]),
	}, nil
}

// BuildFeastNode:
//
//	host: localhost
//	port: 6566
//	project: ranking
//	entity_key: item_id
//	features: ["item_stats:ctr", "item_stats:gmv"]
//	ids: [A, B, C]
func BuildFeastNode(cfg map[string]any) (pipeline.Node, error) {
	features := conv.SliceAnyToString(cfg["features"])
	if len(features) == 0 {
		return nil, fmt.Errorf("features not found")
	}
	entityKey := conv.ConfigGet(cfg, "entity_key", "")
	if entityKey == "" {
		return nil, fmt.Errorf("entity_key not found")
	}
	host := conv.ConfigGet(cfg, "host", "")
	if host == "" {
		return nil, fmt.Errorf("host not found")
	}

	src, err := feast.NewScoreSource(host, int(conv.ConfigGetInt64(cfg, "port", 0)), conv.ConfigGet(cfg, "project", ""))
	if err != nil {
		return nil, err
	}
	src.EntityKey = entityKey
	src.Int64Entity = conv.ConfigGet(cfg, "int64_entity", false)
	src.Features = features
	src.IDs = conv.SliceAnyToString(cfg["ids"])
	return src, nil
}

// BuildFanoutNode 组合多个召回源：
//
//	sources:
//	  - type: recall.store
//	    config: {...}
//	  - type: recall.feast
//	    config: {...}
//	timeout_ms: 500
//	max_concurrent: 4
//	strict: true
func BuildFanoutNode(cfg map[string]any) (pipeline.Node, error) {
	raw := conv.SliceAnyToMaps(cfg["sources"])
	if len(raw) == 0 {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(raw))
	for i, sc := range raw {
		typeName := conv.ConfigGet(sc, "type", "")
		sub, _ := sc["config"].(map[string]any)
		node, err := config.Build(typeName, sub)
		if err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		src, ok := node.(recall.Source)
		if !ok {
			return nil, fmt.Errorf("sources[%d]: %s is not a recall source", i, typeName)
		}
		sources = append(sources, src)
	}

	fanout := &recall.Fanout{
		Sources:       sources,
		MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
		Strict:        conv.ConfigGet(cfg, "strict", false),
	}
	if ms := conv.ConfigGetInt64(cfg, "timeout_ms", 0); ms > 0 {
		fanout.Timeout = time.Duration(ms) * time.Millisecond
	}
	return fanout, nil
}

// BuildFilterNode:
//
//	filters:
//	  - type: missing_feature
//	    features: [clicks, ctr]
//	  - type: expr
//	    expr: "item.features.impressions < 100.0"
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	raw := conv.SliceAnyToMaps(cfg["filters"])
	if len(raw) == 0 {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(raw))
	for i, fc := range raw {
		switch filterType := conv.ConfigGet(fc, "type", ""); filterType {
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(fc, "expr", ""))
			if err != nil {
				return nil, fmt.Errorf("filters[%d]: %w", i, err)
			}
			filters = append(filters, f)
		case "missing_feature":
			filters = append(filters, &filter.MissingFeatureFilter{Features: conv.SliceAnyToString(fc["features"])})
		default:
			return nil, fmt.Errorf("filters[%d]: unknown filter type: %s", i, filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

// BuildFootruleNode:
//
//	metrics:
//	  - clicks                                   # 直接使用特征 clicks
//	  - {name: click_rate, feature: ctr}
//	  - {name: gmv, expr: "item.features.price * item.features.sales"}
//	parallelism: 4
//	max_distance: 20
func BuildFootruleNode(cfg map[string]any) (pipeline.Node, error) {
	raw, ok := cfg["metrics"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("metrics not found")
	}
	metrics := make([]feature.Metric, 0, len(raw))
	for i, mc := range raw {
		switch v := mc.(type) {
		case string:
			metrics = append(metrics, feature.Metric{Name: v, Feature: v})
		case map[string]any:
			metrics = append(metrics, feature.Metric{
				Name:    conv.ConfigGet(v, "name", ""),
				Feature: conv.ConfigGet(v, "feature", ""),
				Expr:    conv.ConfigGet(v, "expr", ""),
			})
		default:
			return nil, fmt.Errorf("metrics[%d]: invalid metric %v", i, mc)
		}
	}

	extractor, err := feature.NewScoreExtractor(feature.WithMetrics(metrics...))
	if err != nil {
		return nil, err
	}
	opts := []rerank.FootruleOption{
		rerank.WithAggregator(rank.NewAggregator(rank.WithParallelism(int(conv.ConfigGetInt64(cfg, "parallelism", 0))))),
	}
	if _, ok := cfg["max_distance"]; ok {
		opts = append(opts, rerank.WithMaxDistance(core.Distance(conv.ConfigGetInt64(cfg, "max_distance", 0))))
	}
	node, err := rerank.NewFootruleNode(extractor, opts...)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// BuildTopNNode:
//
//	n: 20
func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}
