package market

import (
	"fmt"
	"sort"
	"strings"
)

// Listing describes a tradable symbol.
type Listing struct {
	Symbol       string `json:"symbol"`
	Product      string `json:"product"`
	Denomination string `json:"denomination"`
}

// Trade 是一笔已成交记录（自身成交或市场成交）。
type Trade struct {
	Symbol    string `json:"symbol"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
	Buyer     string `json:"buyer"`
	Seller    string `json:"seller"`
	Timestamp int64  `json:"timestamp"`
}

// ConversionObservation 为可转换品种提供的外部观测（报价、费用、环境数据）。
type ConversionObservation struct {
	BidPrice      float64 `json:"bidPrice"`
	AskPrice      float64 `json:"askPrice"`
	TransportFees float64 `json:"transportFees"`
	ExportTariff  float64 `json:"exportTariff"`
	ImportTariff  float64 `json:"importTariff"`
	Sunlight      float64 `json:"sunlight"`
	Humidity      float64 `json:"humidity"`
}

// Signal names accepted by ConversionObservation.Signal.
const (
	SignalSunlight = "sunlight"
	SignalHumidity = "humidity"
)

// Signal returns a named scalar reading.
func (c ConversionObservation) Signal(name string) (float64, bool) {
	switch name {
	case SignalSunlight:
		return c.Sunlight, true
	case SignalHumidity:
		return c.Humidity, true
	case "bidPrice":
		return c.BidPrice, true
	case "askPrice":
		return c.AskPrice, true
	case "transportFees":
		return c.TransportFees, true
	case "exportTariff":
		return c.ExportTariff, true
	case "importTariff":
		return c.ImportTariff, true
	}
	return 0, false
}

// Observation holds auxiliary market signals that are not derivable from the books.
type Observation struct {
	PlainValue map[string]int                   `json:"plainValueObservations"`
	Conversion map[string]ConversionObservation `json:"conversionObservations"`
}

// ConversionFor returns the conversion observation for product, if any.
func (o Observation) ConversionFor(product string) (ConversionObservation, bool) {
	c, ok := o.Conversion[product]
	return c, ok
}

func (o Observation) String() string {
	var b strings.Builder
	b.WriteString("plainValueObservations: {")
	for i, k := range SortedKeys(o.PlainValue) {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %d", k, o.PlainValue[k])
	}
	b.WriteString("} conversionObservations: {")
	for i, k := range SortedKeys(o.Conversion) {
		if i > 0 {
			b.WriteString(", ")
		}
		c := o.Conversion[k]
		fmt.Fprintf(&b, "%s: {bid %g, ask %g, sunlight %g, humidity %g}", k, c.BidPrice, c.AskPrice, c.Sunlight, c.Humidity)
	}
	b.WriteString("}")
	return b.String()
}

// Snapshot 是每个 tick 输入给引擎的只读视图。
type Snapshot struct {
	Timestamp    int64                 `json:"timestamp"`
	TraderData   string                `json:"traderData"`
	Listings     map[string]Listing    `json:"listings"`
	OrderBooks   map[string]*OrderBook `json:"order_depths"`
	OwnTrades    map[string][]Trade    `json:"own_trades"`
	MarketTrades map[string][]Trade    `json:"market_trades"`
	Positions    map[string]int        `json:"position"`
	Observations Observation           `json:"observations"`
}

// Symbols 返回盘口中出现的品种，按字典序排列，保证评估顺序确定。
// JSON 解码为 map 后输入中的品种顺序已不可得，因此不按出现顺序评估。
func (s *Snapshot) Symbols() []string {
	if s == nil {
		return nil
	}
	return SortedKeys(s.OrderBooks)
}

// Book returns the order book for symbol; ok is false when absent or nil.
func (s *Snapshot) Book(symbol string) (*OrderBook, bool) {
	if s == nil {
		return nil, false
	}
	ob, ok := s.OrderBooks[symbol]
	return ob, ok && ob != nil
}

// Position returns the signed inventory for symbol, 0 when flat or unknown.
func (s *Snapshot) Position(symbol string) int {
	if s == nil {
		return 0
	}
	return s.Positions[symbol]
}

// SortedKeys returns map keys in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
