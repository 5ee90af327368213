package market

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyBook 表示盘口某一侧没有挂单。
var ErrEmptyBook = errors.New("empty order book")

// OrderBook 维护单个品种的价格->挂单数量映射，每个 tick 由外部重新构建。
// 数量按绝对值处理，兼容卖单数量为负数的撮合端编码。
type OrderBook struct {
	Buy  map[int]int `json:"buy_orders"`
	Sell map[int]int `json:"sell_orders"`
}

func NewOrderBook(buy, sell map[int]int) *OrderBook {
	if buy == nil {
		buy = make(map[int]int)
	}
	if sell == nil {
		sell = make(map[int]int)
	}
	return &OrderBook{Buy: buy, Sell: sell}
}

// Empty reports whether the book is missing or has no resting quantity on either side.
func (ob *OrderBook) Empty() bool {
	return ob == nil || (len(ob.Buy) == 0 && len(ob.Sell) == 0)
}

// BestBid 返回最高买价及其挂单量。
func (ob *OrderBook) BestBid() (price int, qty int, ok bool) {
	if ob == nil {
		return 0, 0, false
	}
	for p, q := range ob.Buy {
		if !ok || p > price {
			price, qty, ok = p, abs(q), true
		}
	}
	return price, qty, ok
}

// BestAsk 返回最低卖价及其挂单量。
func (ob *OrderBook) BestAsk() (price int, qty int, ok bool) {
	if ob == nil {
		return 0, 0, false
	}
	for p, q := range ob.Sell {
		if !ok || p < price {
			price, qty, ok = p, abs(q), true
		}
	}
	return price, qty, ok
}

// Best returns the best bid and ask prices, or ErrEmptyBook naming the missing side.
func (ob *OrderBook) Best() (bid int, ask int, err error) {
	bid, _, okBid := ob.BestBid()
	ask, _, okAsk := ob.BestAsk()
	switch {
	case !okBid && !okAsk:
		return 0, 0, fmt.Errorf("%w: no bids and no asks", ErrEmptyBook)
	case !okBid:
		return 0, 0, fmt.Errorf("%w: no bids", ErrEmptyBook)
	case !okAsk:
		return 0, 0, fmt.Errorf("%w: no asks", ErrEmptyBook)
	}
	return bid, ask, nil
}

// Mid 返回中间价；任一侧缺失时返回 ErrEmptyBook。交叉盘口照常计算。
func (ob *OrderBook) Mid() (float64, error) {
	bid, ask, err := ob.Best()
	if err != nil {
		return 0, err
	}
	return float64(bid+ask) / 2, nil
}

// Crossed reports best bid >= best ask. Empty books are never crossed.
func (ob *OrderBook) Crossed() bool {
	bid, ask, err := ob.Best()
	return err == nil && bid >= ask
}

// Volumes 返回两侧挂单总量。
func (ob *OrderBook) Volumes() (bid int, ask int) {
	if ob == nil {
		return 0, 0
	}
	for _, q := range ob.Buy {
		bid += abs(q)
	}
	for _, q := range ob.Sell {
		ask += abs(q)
	}
	return bid, ask
}

// Imbalance is the full-depth book imbalance, see CalculateImbalance.
func (ob *OrderBook) Imbalance() float64 {
	bid, ask := ob.Volumes()
	return CalculateImbalance(float64(bid), float64(ask))
}

// BidPrices returns bid prices from best to worst.
func (ob *OrderBook) BidPrices() []int {
	if ob == nil {
		return nil
	}
	out := make([]int, 0, len(ob.Buy))
	for p := range ob.Buy {
		out = append(out, p)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// AskPrices returns ask prices from best to worst.
func (ob *OrderBook) AskPrices() []int {
	if ob == nil {
		return nil
	}
	out := make([]int, 0, len(ob.Sell))
	for p := range ob.Sell {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
