package inventory

import "math"

// Limits 是品种 -> 绝对仓位上限的静态映射，构造后不再修改。
type Limits map[string]int

// Limit returns the configured ceiling for symbol.
func (l Limits) Limit(symbol string) (int, bool) {
	v, ok := l[symbol]
	return v, ok
}

// Factor 返回 position/limit，限制在 [-1, 1]；limit <= 0 时为 0。
func Factor(position, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	f := float64(position) / float64(limit)
	return math.Max(-1, math.Min(1, f))
}

// BuyCapacity is how much more can be bought before hitting +limit.
// It goes negative when the position already violates the limit.
func BuyCapacity(position, limit int) int { return limit - position }

// SellCapacity is how much more can be sold before hitting -limit.
func SellCapacity(position, limit int) int { return limit + position }
