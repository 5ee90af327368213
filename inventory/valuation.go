package inventory

// Valuation 基于当前 mid 价计算某品种的未实现盈亏。
func (t *Tracker) Valuation(symbol string, mid float64) (net int, pnl float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	net = t.net[symbol]
	pnl = (mid - t.cost[symbol]) * float64(net)
	return
}
