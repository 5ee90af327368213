package strategy

import (
	"errors"
	"fmt"

	"tick-trader/inventory"
	"tick-trader/market"
)

// Action is a discrete directional decision.
type Action int

const (
	Hold Action = iota
	Long
	Short
)

func (a Action) String() string {
	switch a {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "hold"
	}
}

// Combine 合并两个信号：short 优先，其次 long，否则 hold。
func Combine(actions ...Action) Action {
	for _, a := range actions {
		if a == Short {
			return Short
		}
	}
	for _, a := range actions {
		if a == Long {
			return Long
		}
	}
	return Hold
}

// SignalConfig configures the sunlight/humidity directional policy.
type SignalConfig struct {
	// Product 为观测数据的 key，默认与交易品种相同。
	Product           string
	SunlightThreshold float64 // 预计全天日照低于该值则看空
	HoursPerTimestamp float64 // 每个时间戳单位对应的小时数
	DayHours          float64
	HumidityLow       float64 // 中性区间下沿
	HumidityHigh      float64 // 中性区间上沿
	Step              int     // 单次最大下单量
}

func DefaultSignalConfig() SignalConfig {
	return SignalConfig{
		SunlightThreshold: 7 * 2500,
		HoursPerTimestamp: 12.0 / 10000.0,
		DayHours:          12,
		HumidityLow:       60,
		HumidityHigh:      80,
		Step:              5,
	}
}

// SignalPolicy derives long/short/hold from two environmental observations and
// takes liquidity in that direction: long lifts the best ask, short hits the best bid.
type SignalPolicy struct {
	symbol string
	cfg    SignalConfig
}

func NewSignalPolicy(symbol string, cfg SignalConfig) (*SignalPolicy, error) {
	if cfg.Product == "" {
		cfg.Product = symbol
	}
	if cfg.Product == "" {
		return nil, errors.New("signal policy: product is required")
	}
	if cfg.HumidityLow > cfg.HumidityHigh {
		return nil, fmt.Errorf("signal policy: humidity band [%g,%g] is inverted", cfg.HumidityLow, cfg.HumidityHigh)
	}
	if cfg.Step <= 0 {
		return nil, errors.New("signal policy: step must be > 0")
	}
	if cfg.DayHours <= 0 || cfg.HoursPerTimestamp < 0 {
		return nil, errors.New("signal policy: dayHours must be > 0 and hoursPerTimestamp >= 0")
	}
	return &SignalPolicy{symbol: symbol, cfg: cfg}, nil
}

func (p *SignalPolicy) Kind() Kind { return SignalKind }

func (p *SignalPolicy) humidityKey() SignalKey {
	return SignalKey{Product: p.cfg.Product, Field: market.SignalHumidity}
}

func (p *SignalPolicy) Signals() []SignalKey { return []SignalKey{p.humidityKey()} }

// ProjectedSunlight 估算全天累计日照：已过去时段加剩余时段，均按当前速率计。
func (p *SignalPolicy) ProjectedSunlight(rate float64, timestamp int64) float64 {
	elapsed := float64(timestamp) * p.cfg.HoursPerTimestamp
	remaining := p.cfg.DayHours - elapsed
	return rate*elapsed + rate*remaining
}

func (p *SignalPolicy) sunlightAction(rate float64, timestamp int64) Action {
	if p.ProjectedSunlight(rate, timestamp) < p.cfg.SunlightThreshold {
		return Short
	}
	return Hold
}

// humidityAction reads the window that already contains the current reading.
func (p *SignalPolicy) humidityAction(w Window) Action {
	delta, ok := w.Delta()
	if !ok {
		return Hold
	}
	humidity, _ := w.Latest()
	switch {
	case humidity >= p.cfg.HumidityLow && humidity <= p.cfg.HumidityHigh:
		return Hold
	case humidity > p.cfg.HumidityHigh:
		if delta > 0 {
			return Long
		}
		return Short
	default:
		if delta < 0 {
			return Long
		}
		return Short
	}
}

// Decide returns the combined action and its two inputs.
func (p *SignalPolicy) Decide(ctx Context) (action, sunlight, humidity Action, err error) {
	obs, ok := ctx.Snapshot.Observations.ConversionFor(p.cfg.Product)
	if !ok {
		return Hold, Hold, Hold, fmt.Errorf("no conversion observation for %s", p.cfg.Product)
	}
	sunlight = p.sunlightAction(obs.Sunlight, ctx.Snapshot.Timestamp)
	humidity = p.humidityAction(ctx.State.Window(p.humidityKey()))
	return Combine(sunlight, humidity), sunlight, humidity, nil
}

func (p *SignalPolicy) Quotes(ctx Context) ([]market.Quote, error) {
	if ctx.Snapshot == nil {
		return nil, errors.New("signal policy: snapshot is required")
	}
	action, sunlight, humidity, err := p.Decide(ctx)
	if err != nil {
		return nil, err
	}
	ctx.log("Sunlight: ", sunlight)
	ctx.log("Humidity: ", humidity)
	ctx.log("Trade action: ", action)

	switch action {
	case Short:
		bestBid, _, ok := ctx.Book.BestBid()
		if !ok {
			return nil, fmt.Errorf("%w: no bids", market.ErrEmptyBook)
		}
		size := min(p.cfg.Step, inventory.SellCapacity(ctx.Position, ctx.Limit))
		return sellQuote(ctx.Symbol, bestBid, size), nil
	case Long:
		bestAsk, _, ok := ctx.Book.BestAsk()
		if !ok {
			return nil, fmt.Errorf("%w: no asks", market.ErrEmptyBook)
		}
		size := min(p.cfg.Step, inventory.BuyCapacity(ctx.Position, ctx.Limit))
		return buyQuote(ctx.Symbol, bestAsk, size), nil
	}
	return nil, nil
}
