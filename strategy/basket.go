package strategy

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"tick-trader/inventory"
	"tick-trader/market"
)

// BasketConfig 组合品种公允价 = Σ weight*component_mid + Offset（取整）。
type BasketConfig struct {
	Components map[string]float64
	Offset     float64
}

// BasketPolicy trades a composite instrument against the fair value implied by
// its components: buy when undervalued, sell when overvalued.
type BasketPolicy struct {
	cfg        BasketConfig
	components []string
}

func NewBasketPolicy(cfg BasketConfig) (*BasketPolicy, error) {
	if len(cfg.Components) == 0 {
		return nil, errors.New("basket policy: components are required")
	}
	names := make([]string, 0, len(cfg.Components))
	for name, w := range cfg.Components {
		if name == "" || math.IsNaN(w) {
			return nil, fmt.Errorf("basket policy: invalid component %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return &BasketPolicy{cfg: cfg, components: names}, nil
}

func (p *BasketPolicy) Kind() Kind { return BasketKind }

// FairValue 需要所有成分的盘口均有效。
func (p *BasketPolicy) FairValue(snap *market.Snapshot) (int, error) {
	sum := p.cfg.Offset
	for _, name := range p.components {
		book, ok := snap.Book(name)
		if !ok {
			return 0, fmt.Errorf("%w: component %s missing", market.ErrEmptyBook, name)
		}
		mid, err := book.Mid()
		if err != nil {
			return 0, fmt.Errorf("component %s: %w", name, err)
		}
		sum += p.cfg.Components[name] * mid
	}
	return int(math.Trunc(sum)), nil
}

func (p *BasketPolicy) Quotes(ctx Context) ([]market.Quote, error) {
	if ctx.Snapshot == nil {
		return nil, errors.New("basket policy: snapshot is required")
	}
	mid, err := ctx.Book.Mid()
	if err != nil {
		return nil, err
	}
	fair, err := p.FairValue(ctx.Snapshot)
	if err != nil {
		return nil, err
	}
	ctx.log("fair_value: ", fair)

	switch {
	case mid < float64(fair):
		bestAsk, askQty, _ := ctx.Book.BestAsk()
		size := min(inventory.BuyCapacity(ctx.Position, ctx.Limit), askQty)
		return buyQuote(ctx.Symbol, bestAsk, size), nil
	case mid > float64(fair):
		bestBid, bidQty, _ := ctx.Book.BestBid()
		size := min(inventory.SellCapacity(ctx.Position, ctx.Limit), bidQty)
		return sellQuote(ctx.Symbol, bestBid, size), nil
	}
	return nil, nil
}
