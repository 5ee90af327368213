package market

// Quote 是引擎给出的意向订单：Quantity 为正表示买入，为负表示卖出。
type Quote struct {
	Symbol   string `json:"symbol"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

func (q Quote) Side() string {
	if q.Quantity < 0 {
		return "SELL"
	}
	return "BUY"
}

// Size is the absolute quantity.
func (q Quote) Size() int { return abs(q.Quantity) }
