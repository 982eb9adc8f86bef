package filter

import (
	"context"

	"github.com/rushteam/footrule/core"
)

// Filter 判断一个 Item 是否应该被过滤掉（不参与后续评估）。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, item *core.Item) (bool, error)
}
