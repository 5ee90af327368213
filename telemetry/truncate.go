package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

const ellipsis = "..."

// encode 使用紧凑 JSON，不转义 HTML 字符。
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// EncodedLen is the number of bytes s occupies inside a JSON string literal,
// quotes excluded.
func EncodedLen(s string) int {
	raw, err := encode(s)
	if err != nil {
		// strings always encode
		return len(s)
	}
	return len(raw) - 2
}

// Truncate cuts value so its encoded size is at most maxLen. A value that
// already fits is returned unchanged; otherwise the longest rune-aligned prefix
// fitting maxLen-3 is kept and "..." appended. Truncate is idempotent.
func Truncate(value string, maxLen int) string {
	if EncodedLen(value) <= maxLen {
		return value
	}
	limit := maxLen - len(ellipsis)
	if limit < 0 {
		return ""
	}

	// rune 起始位置，末尾追加 len(value) 便于切片
	bounds := make([]int, 0, utf8.RuneCountInString(value)+1)
	for i := range value {
		bounds = append(bounds, i)
	}
	bounds = append(bounds, len(value))

	// 编码长度随前缀单调不减，二分查找最长可用前缀
	lo, hi := 0, len(bounds)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if EncodedLen(value[:bounds[mid]]) <= limit {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return value[:bounds[lo]] + ellipsis
}
