// Package conv 提供从 YAML/JSON 解析结果（map[string]any）读取配置值的泛型工具。
package conv

import "fmt"

// ToFloat64 将数值类型的 any 转为 float64；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case uint32:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	default:
		return 0, false
	}
}

// ConvertSlice 将 []T 按 convert 转为 []U，convert 返回 false 的元素被跳过。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) []U {
	if s == nil {
		return nil
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		if u, ok := convert(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// SliceAnyToString 将 []any 转为 []string。
// 元素为 string 直接保留，为数字时格式化为 "%.0f"（YAML 中的数字 id）。
func SliceAnyToString(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	return ConvertSlice(raw, func(e any) (string, bool) {
		if s, ok := e.(string); ok {
			return s, true
		}
		if f, ok := ToFloat64(e); ok {
			return fmt.Sprintf("%.0f", f), true
		}
		return "", false
	})
}

// SliceAnyToMaps 将 []any 转为 []map[string]any，非 map 元素被跳过。
func SliceAnyToMaps(v any) []map[string]any {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	return ConvertSlice(raw, func(e any) (map[string]any, bool) {
		m, ok := e.(map[string]any)
		return m, ok
	})
}

// ConfigGet 按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	t, ok := v.(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetInt64 取整数。YAML/JSON 常得到 int 或 float64，此处统一为 int64。
func ConfigGetInt64(m map[string]any, key string, defaultVal int64) int64 {
	f, ok := ToFloat64(m[key])
	if !ok {
		return defaultVal
	}
	return int64(f)
}

// ConfigGetFloat64 取浮点数，兼容整数写法（如 `max_distance: 10`）。
func ConfigGetFloat64(m map[string]any, key string, defaultVal float64) float64 {
	f, ok := ToFloat64(m[key])
	if !ok {
		return defaultVal
	}
	return f
}
