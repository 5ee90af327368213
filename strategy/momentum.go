package strategy

import (
	"errors"
	"fmt"

	"tick-trader/inventory"
	"tick-trader/market"
)

// MomentumConfig 跟随某条观测序列最近一次变化的方向报价。
type MomentumConfig struct {
	Source string // 观测品种，如 ORCHIDS
	Field  string // 观测字段，默认 sunlight
}

// MomentumPolicy posts at its own side's best level in the direction of the
// latest signal delta: rising buys at the best bid, falling sells at the best ask.
// It ignores fair value entirely and is an alternative to BasketPolicy, not a refinement.
type MomentumPolicy struct {
	key SignalKey
}

func NewMomentumPolicy(cfg MomentumConfig) (*MomentumPolicy, error) {
	if cfg.Source == "" {
		return nil, errors.New("momentum policy: source is required")
	}
	if cfg.Field == "" {
		cfg.Field = market.SignalSunlight
	}
	if _, ok := (market.ConversionObservation{}).Signal(cfg.Field); !ok {
		return nil, fmt.Errorf("momentum policy: unknown field %q", cfg.Field)
	}
	return &MomentumPolicy{key: SignalKey{Product: cfg.Source, Field: cfg.Field}}, nil
}

func (p *MomentumPolicy) Kind() Kind { return MomentumKind }

func (p *MomentumPolicy) Signals() []SignalKey { return []SignalKey{p.key} }

func (p *MomentumPolicy) Quotes(ctx Context) ([]market.Quote, error) {
	if _, _, err := ctx.Book.Best(); err != nil {
		return nil, err
	}
	delta, ok := ctx.State.Window(p.key).Delta()
	if !ok {
		return nil, nil
	}
	ctx.log("net_position: ", ctx.Position)
	switch {
	case delta > 0:
		bestBid, bidQty, _ := ctx.Book.BestBid()
		size := min(bidQty, inventory.BuyCapacity(ctx.Position, ctx.Limit))
		return buyQuote(ctx.Symbol, bestBid, size), nil
	case delta < 0:
		bestAsk, askQty, _ := ctx.Book.BestAsk()
		size := min(askQty, inventory.SellCapacity(ctx.Position, ctx.Limit))
		return sellQuote(ctx.Symbol, bestAsk, size), nil
	}
	return nil, nil
}
