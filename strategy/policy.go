package strategy

import "tick-trader/market"

// Kind 标识一种报价策略。
type Kind string

const (
	SpreadKind    Kind = "spread"
	BandKind      Kind = "band"
	SignalKind    Kind = "signal"
	BasketKind    Kind = "basket"
	MomentumKind  Kind = "momentum"
	ThresholdKind Kind = "threshold"
)

// Kinds lists every policy kind the factory can build.
func Kinds() []Kind {
	return []Kind{SpreadKind, BandKind, SignalKind, BasketKind, MomentumKind, ThresholdKind}
}

// Context is everything a policy may read while quoting one instrument for one tick.
type Context struct {
	Symbol   string
	Book     *market.OrderBook
	Position int
	Limit    int
	Snapshot *market.Snapshot
	// State 为跨 tick 信号窗口，由编排器持有，策略只读。
	State *State
	// Log 写入本 tick 的遥测日志缓冲，可为 nil。
	Log func(args ...any)
}

func (c Context) log(args ...any) {
	if c.Log != nil {
		c.Log(args...)
	}
}

// Policy turns one instrument's context into an ordered list of quotes.
// Errors are per-instrument; the caller degrades them to "no quote".
type Policy interface {
	Kind() Kind
	Quotes(ctx Context) ([]market.Quote, error)
}

// SignalConsumer is implemented by policies that need readings recorded into State
// before they are evaluated.
type SignalConsumer interface {
	Signals() []SignalKey
}
