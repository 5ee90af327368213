package telemetry

import (
	"tick-trader/market"
)

// 压缩格式按位置编码，字段顺序即协议，不允许调整。

func compressState(s *market.Snapshot, traderData string) []any {
	return []any{
		s.Timestamp,
		traderData,
		compressListings(s.Listings),
		compressOrderBooks(s.OrderBooks),
		compressTrades(s.OwnTrades),
		compressTrades(s.MarketTrades),
		nonNil(s.Positions),
		compressObservations(s.Observations),
	}
}

func compressListings(listings map[string]market.Listing) [][]any {
	out := make([][]any, 0, len(listings))
	for _, sym := range market.SortedKeys(listings) {
		l := listings[sym]
		out = append(out, []any{l.Symbol, l.Product, l.Denomination})
	}
	return out
}

func compressOrderBooks(books map[string]*market.OrderBook) map[string][2]map[int]int {
	out := make(map[string][2]map[int]int, len(books))
	for sym, ob := range books {
		if ob == nil {
			out[sym] = [2]map[int]int{{}, {}}
			continue
		}
		out[sym] = [2]map[int]int{nonNil(ob.Buy), nonNil(ob.Sell)}
	}
	return out
}

func compressTrades(trades map[string][]market.Trade) [][]any {
	out := make([][]any, 0)
	for _, sym := range market.SortedKeys(trades) {
		for _, t := range trades[sym] {
			out = append(out, []any{t.Symbol, t.Price, t.Quantity, t.Buyer, t.Seller, t.Timestamp})
		}
	}
	return out
}

func compressObservations(o market.Observation) []any {
	conv := make(map[string][7]float64, len(o.Conversion))
	for product, c := range o.Conversion {
		conv[product] = [7]float64{
			c.BidPrice,
			c.AskPrice,
			c.TransportFees,
			c.ExportTariff,
			c.ImportTariff,
			c.Sunlight,
			c.Humidity,
		}
	}
	return []any{nonNil(o.PlainValue), conv}
}

func compressOrders(orders map[string][]market.Quote) [][]any {
	out := make([][]any, 0)
	for _, sym := range market.SortedKeys(orders) {
		for _, q := range orders[sym] {
			out = append(out, []any{q.Symbol, q.Price, q.Quantity})
		}
	}
	return out
}

// nonNil 让空 map 编码为 {} 而不是 null。
func nonNil[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}
