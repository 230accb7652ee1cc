// Package conv 提供属性包取值的宽松类型转换，用于把离线产物里
// "字段可选、类型不保证"的属性值折算成带哨兵默认值的特征。
package conv

import "strconv"

// ToFloat64 将 any 转为 float64。
// 支持数值类型与数字字符串；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
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
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int。数字字符串（含 "12.0" 这类浮点格式）也可转换。
func ToInt(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case float64:
		return int(val), true
	case float32:
		return int(val), true
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// FloatOr 从属性包读取数值字段，缺失或不可转换时返回 def。
func FloatOr(props map[string]any, key string, def float64) float64 {
	if props == nil {
		return def
	}
	if f, ok := ToFloat64(props[key]); ok {
		return f
	}
	return def
}

// IntOr 从属性包读取整数字段，缺失或不可转换时返回 def。
func IntOr(props map[string]any, key string, def int) int {
	if props == nil {
		return def
	}
	if n, ok := ToInt(props[key]); ok {
		return n
	}
	return def
}
