package transport

import (
	"strconv"
	"strings"
)

// parseUint64FromMap 从 map 中解析 uint64 字段（支持字符串和数字）
func parseUint64FromMap(m map[string]interface{}, key string) (uint64, bool) {
	val, ok := m[key]
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case string:
		valStr := strings.TrimPrefix(v, "0x")
		parsed, err := strconv.ParseUint(valStr, 10, 64)
		if err != nil {
			// 十进制解析失败时尝试十六进制
			parsed, err = strconv.ParseUint(valStr, 16, 64)
			if err != nil {
				return 0, false
			}
		}
		return parsed, true
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	default:
		return 0, false
	}
}
