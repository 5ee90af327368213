package strategy

import (
	"fmt"

	"tick-trader/inventory"
	"tick-trader/market"
)

// SpreadConfig 控制库存偏移价差策略。
type SpreadConfig struct {
	Coefficients
	// LiquidityFraction 限制吃单数量占对手盘最优档挂单量的比例，默认 1。
	LiquidityFraction float64
}

// SpreadPolicy quotes around mid with an inventory- and imbalance-aware spread.
//
// The trigger compares the engine's own price against the book (buy when
// mid+spread beats the best ask, sell when mid-spread beats the best bid),
// but the order itself takes the opposing best level at that level's price.
// The trigger and the execution price therefore use different references.
type SpreadPolicy struct {
	cfg SpreadConfig
}

func NewSpreadPolicy(cfg SpreadConfig) (*SpreadPolicy, error) {
	if err := cfg.Coefficients.Validate(); err != nil {
		return nil, fmt.Errorf("spread policy: %w", err)
	}
	if cfg.LiquidityFraction < 0 || cfg.LiquidityFraction > 1 {
		return nil, fmt.Errorf("spread policy: liquidityFraction %.4f outside [0,1]", cfg.LiquidityFraction)
	}
	if cfg.LiquidityFraction == 0 {
		cfg.LiquidityFraction = 1
	}
	return &SpreadPolicy{cfg: cfg}, nil
}

func (p *SpreadPolicy) Kind() Kind { return SpreadKind }

func (p *SpreadPolicy) Quotes(ctx Context) ([]market.Quote, error) {
	lv, err := Evaluate(ctx.Book, ctx.Position, ctx.Limit, p.cfg.Coefficients)
	if err != nil {
		return nil, err
	}
	ctx.log(fmt.Sprintf("Buy Order depth : %d, Sell order depth : %d", len(ctx.Book.Buy), len(ctx.Book.Sell)))

	var out []market.Quote
	if bestAsk, askQty, ok := ctx.Book.BestAsk(); ok && lv.Ask > float64(bestAsk) {
		size := TakeSize(inventory.BuyCapacity(ctx.Position, ctx.Limit), askQty, p.cfg.LiquidityFraction)
		if q := buyQuote(ctx.Symbol, bestAsk, size); q != nil {
			ctx.log("BUY", fmt.Sprintf("%dx", size), bestAsk)
			out = append(out, q...)
		}
	}
	if bestBid, bidQty, ok := ctx.Book.BestBid(); ok && lv.Bid > float64(bestBid) {
		size := TakeSize(inventory.SellCapacity(ctx.Position, ctx.Limit), bidQty, p.cfg.LiquidityFraction)
		if q := sellQuote(ctx.Symbol, bestBid, size); q != nil {
			ctx.log("SELL", fmt.Sprintf("%dx", size), bestBid)
			out = append(out, q...)
		}
	}
	return out, nil
}
