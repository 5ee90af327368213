package inventory

import (
	"sync"

	"tick-trader/market"
)

// Tracker 维护各品种净仓位与加权平均成本，模拟 tick 之间的外部成交回报。
type Tracker struct {
	mu   sync.RWMutex
	net  map[string]int
	cost map[string]float64
}

func NewTracker() *Tracker {
	return &Tracker{
		net:  make(map[string]int),
		cost: make(map[string]float64),
	}
}

// Update 根据成交数量调整仓位（正买负卖）。
func (t *Tracker) Update(symbol string, deltaQty int, price float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.net == nil {
		t.net = make(map[string]int)
		t.cost = make(map[string]float64)
	}
	prev := t.net[symbol]
	net := prev + deltaQty
	t.net[symbol] = net
	switch {
	case net == 0:
		t.cost[symbol] = 0
	case prev == 0 || (prev > 0) != (net > 0):
		// 开仓或反手：剩余仓位全部按本次成交价计
		t.cost[symbol] = price
	case (prev > 0) == (deltaQty > 0):
		// 同向加仓：加权平均成本
		t.cost[symbol] = (t.cost[symbol]*float64(prev) + price*float64(deltaQty)) / float64(net)
	}
	// 减仓不改变剩余仓位成本
}

// Fill applies a quote as if it traded in full at its price.
func (t *Tracker) Fill(q market.Quote) {
	t.Update(q.Symbol, q.Quantity, float64(q.Price))
}

func (t *Tracker) NetExposure(symbol string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.net[symbol]
}

func (t *Tracker) AvgCost(symbol string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cost[symbol]
}

// Positions returns a copy suitable for Snapshot.Positions.
func (t *Tracker) Positions() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]int, len(t.net))
	for k, v := range t.net {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}
