package core

import "context"

// Store 是存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 领域层不依赖基础设施层
//
// 实现：
//   - store.MemoryStore（测试/开发）
//   - store.RedisStore（生产）
type Store interface {
	// Name 返回存储后端名称（用于日志）
	Name() string

	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 单位为秒
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	Delete(ctx context.Context, key string) error

	Close() error
}

// KeyValueStore 在 Store 之上提供有序集合，每个指标一个有序集合：
// member 为 item id，score 为该指标下的原始分数。
type KeyValueStore interface {
	Store

	// ZAdd 向有序集合添加成员
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZRange 按分数降序返回 [start, stop] 区间的成员，下标规则同 Redis ZREVRANGE（负数从末尾计数，-1 为最后一个）
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZScore 获取成员的分数，不存在时返回 ErrStoreNotFound
	ZScore(ctx context.Context, key string, member string) (float64, error)
}

// ErrStoreNotFound 表示 key 或成员不存在
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")
