// Package store 提供 core.KeyValueStore 的实现。
//
// 分数按指标存放在有序集合中：key 为 <prefix><metric>，member 为 item id，score 为原始分数。
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
//	kv.ZAdd(ctx, "metric:ctr", 0.12, "item-1")
package store
