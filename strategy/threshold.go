package strategy

import (
	"errors"

	"tick-trader/inventory"
	"tick-trader/market"
)

// ThresholdConfig: 固定可接受价格，低于则买、高于则卖。
type ThresholdConfig struct {
	AcceptablePrice   int
	LiquidityFraction float64
}

type ThresholdPolicy struct {
	cfg ThresholdConfig
}

func NewThresholdPolicy(cfg ThresholdConfig) (*ThresholdPolicy, error) {
	if cfg.AcceptablePrice <= 0 {
		return nil, errors.New("threshold policy: acceptablePrice must be > 0")
	}
	if cfg.LiquidityFraction < 0 || cfg.LiquidityFraction > 1 {
		return nil, errors.New("threshold policy: liquidityFraction must be in [0,1]")
	}
	return &ThresholdPolicy{cfg: cfg}, nil
}

func (p *ThresholdPolicy) Kind() Kind { return ThresholdKind }

// Quotes 每一侧独立判断，单侧为空时只跳过该侧。
func (p *ThresholdPolicy) Quotes(ctx Context) ([]market.Quote, error) {
	var out []market.Quote
	if bestAsk, askQty, ok := ctx.Book.BestAsk(); ok && bestAsk < p.cfg.AcceptablePrice {
		size := TakeSize(inventory.BuyCapacity(ctx.Position, ctx.Limit), askQty, p.cfg.LiquidityFraction)
		out = append(out, buyQuote(ctx.Symbol, bestAsk, size)...)
	}
	if bestBid, bidQty, ok := ctx.Book.BestBid(); ok && bestBid > p.cfg.AcceptablePrice {
		size := TakeSize(inventory.SellCapacity(ctx.Position, ctx.Limit), bidQty, p.cfg.LiquidityFraction)
		out = append(out, sellQuote(ctx.Symbol, bestBid, size)...)
	}
	return out, nil
}
