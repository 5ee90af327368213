package strategy

import (
	"errors"
	"math"

	"tick-trader/inventory"
	"tick-trader/market"
)

// Coefficients 控制目标价差：mid * (BaseRate + InventoryWeight*inv - ImbalanceWeight*imb)。
type Coefficients struct {
	BaseRate        float64
	InventoryWeight float64
	ImbalanceWeight float64
	// ImbalanceLevels 限制参与盘口失衡计算的档位数，0 表示全深度。
	ImbalanceLevels int
}

// Validate rejects coefficient sets that can never produce a sane spread.
func (c Coefficients) Validate() error {
	if c.BaseRate < 0 {
		return errors.New("baseRate must be >= 0")
	}
	if c.ImbalanceLevels < 0 {
		return errors.New("imbalanceLevels must be >= 0")
	}
	if math.IsNaN(c.BaseRate) || math.IsNaN(c.InventoryWeight) || math.IsNaN(c.ImbalanceWeight) {
		return errors.New("coefficients must be numbers")
	}
	return nil
}

// TargetSpread 库存越偏向风险方向价差越宽，盘口压力使其收窄/偏移。
func TargetSpread(mid, inventoryFactor, imbalance float64, c Coefficients) float64 {
	return mid * (c.BaseRate + c.InventoryWeight*inventoryFactor - c.ImbalanceWeight*imbalance)
}

// Levels is one evaluation of the pricing primitives for a book and position.
type Levels struct {
	Mid       float64
	Imbalance float64
	Inventory float64
	Spread    float64
	Bid       float64
	Ask       float64
}

// Evaluate computes mid, imbalance, inventory factor and the bid/ask around mid.
// It fails with market.ErrEmptyBook when either side of the book is empty.
func Evaluate(book *market.OrderBook, position, limit int, c Coefficients) (Levels, error) {
	mid, err := book.Mid()
	if err != nil {
		return Levels{}, err
	}
	lv := Levels{
		Mid:       mid,
		Imbalance: market.CalculateImbalanceFromOrderBook(book, c.ImbalanceLevels),
		Inventory: inventory.Factor(position, limit),
	}
	lv.Spread = TargetSpread(lv.Mid, lv.Inventory, lv.Imbalance, c)
	lv.Bid = lv.Mid - lv.Spread
	lv.Ask = lv.Mid + lv.Spread
	return lv, nil
}

// TakeSize bounds a take against resting liquidity:
// min(capacity, floor(fraction*resting)). fraction <= 0 is treated as 1.
// A result <= 0 means the quote must be suppressed.
func TakeSize(capacity, resting int, fraction float64) int {
	if fraction <= 0 {
		fraction = 1
	}
	size := int(math.Floor(fraction * float64(resting)))
	if capacity < size {
		size = capacity
	}
	return size
}

// buyQuote/sellQuote 只在数量为正时生成订单。
func buyQuote(symbol string, price, size int) []market.Quote {
	if size <= 0 {
		return nil
	}
	return []market.Quote{{Symbol: symbol, Price: price, Quantity: size}}
}

func sellQuote(symbol string, price, size int) []market.Quote {
	if size <= 0 {
		return nil
	}
	return []market.Quote{{Symbol: symbol, Price: price, Quantity: -size}}
}
