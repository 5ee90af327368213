package strategy

import (
	"errors"
	"math"

	"tick-trader/inventory"
	"tick-trader/market"
)

// BandConfig 对应稳定价值品种：仓位超过阈值时只挂单边减仓，否则固定双边价差。
type BandConfig struct {
	Threshold     float64 // 占 limit 的比例，默认 0.5
	PassiveOffset int     // 减仓单距 mid 的 tick 数，默认 1
	SpreadOffset  int     // 双边报价距 mid 的 tick 数，默认 2
	Step          int     // 减仓单最大数量，默认 10
	Size          int     // 双边报价默认数量，默认 10
}

func DefaultBandConfig() BandConfig {
	return BandConfig{Threshold: 0.5, PassiveOffset: 1, SpreadOffset: 2, Step: 10, Size: 10}
}

type BandPolicy struct {
	cfg BandConfig
}

func NewBandPolicy(cfg BandConfig) (*BandPolicy, error) {
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		return nil, errors.New("band policy: threshold must be in (0,1]")
	}
	if cfg.Step <= 0 || cfg.Size <= 0 {
		return nil, errors.New("band policy: step and size must be > 0")
	}
	if cfg.PassiveOffset < 0 || cfg.SpreadOffset < 0 {
		return nil, errors.New("band policy: offsets must be >= 0")
	}
	return &BandPolicy{cfg: cfg}, nil
}

func (p *BandPolicy) Kind() Kind { return BandKind }

func (p *BandPolicy) Quotes(ctx Context) ([]market.Quote, error) {
	mid, err := ctx.Book.Mid()
	if err != nil {
		return nil, err
	}
	band := p.cfg.Threshold * float64(ctx.Limit)
	pos := float64(ctx.Position)

	switch {
	case pos > band:
		// 多头过重：只挂卖单，数量上限取 limit-position
		price := int(math.Floor(mid + float64(p.cfg.PassiveOffset)))
		size := min(p.cfg.Step, inventory.BuyCapacity(ctx.Position, ctx.Limit))
		return sellQuote(ctx.Symbol, price, size), nil
	case pos < -band:
		price := int(math.Floor(mid - float64(p.cfg.PassiveOffset)))
		size := min(p.cfg.Step, inventory.SellCapacity(ctx.Position, ctx.Limit))
		return buyQuote(ctx.Symbol, price, size), nil
	}

	askPrice := int(math.Floor(mid + float64(p.cfg.SpreadOffset)))
	bidPrice := int(math.Floor(mid - float64(p.cfg.SpreadOffset)))
	out := sellQuote(ctx.Symbol, askPrice, min(p.cfg.Size, inventory.SellCapacity(ctx.Position, ctx.Limit)))
	out = append(out, buyQuote(ctx.Symbol, bidPrice, min(p.cfg.Size, inventory.BuyCapacity(ctx.Position, ctx.Limit)))...)
	return out, nil
}
