// Package trader runs the per-tick decision loop: it dispatches each
// instrument of a snapshot to its policy, collects the quotes and flushes one
// telemetry record.
package trader

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"tick-trader/infrastructure/logger"
	"tick-trader/inventory"
	"tick-trader/market"
	"tick-trader/strategy"
	"tick-trader/telemetry"
)

var (
	// ErrUnknownInstrument 表示品种没有配置持仓上限。
	ErrUnknownInstrument = errors.New("unknown instrument")
	// ErrTelemetry wraps every flush failure; the Result returned with it is complete.
	ErrTelemetry = errors.New("flush telemetry")
)

// 跳过原因，用作日志与指标标签。
const (
	SkipUnknownInstrument = "unknown_instrument"
	SkipEmptyBook         = "empty_book"
	SkipNoPolicy          = "no_policy"
	SkipPolicyError       = "policy_error"
)

// Observer receives per-tick measurements; infrastructure/monitor implements it.
type Observer interface {
	ObserveTick(elapsed time.Duration)
	ObserveQuote(symbol, side string)
	ObserveSkip(symbol, reason string)
	ObservePosition(symbol string, position int)
	ObserveTelemetry(bytes, truncated int, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveTick(time.Duration) {}
func (nopObserver) ObserveQuote(string, string) {}
func (nopObserver) ObserveSkip(string, string) {}
func (nopObserver) ObservePosition(string, int) {}
func (nopObserver) ObserveTelemetry(int, int, error) {}

// Result is what one tick hands back to the harness.
type Result struct {
	Orders      map[string][]market.Quote `json:"orders"`
	Conversions int                       `json:"conversions"`
	TraderData  string                    `json:"traderData"`
}

// Quotes returns the number of orders across all instruments.
func (r Result) Quotes() int {
	n := 0
	for _, qs := range r.Orders {
		n += len(qs)
	}
	return n
}

// Trader 非并发安全：同一实例的 Run 必须串行调用。
type Trader struct {
	policies      map[string]strategy.Policy
	defaultPolicy strategy.Policy
	limits        inventory.Limits

	telemetry    *telemetry.Logger
	state        *strategy.State
	conversions  int
	persistState bool
	traderData   string

	log *logger.Logger
	obs Observer
}

type Option func(*Trader)

func WithLogger(l *logger.Logger) Option {
	return func(t *Trader) {
		if l != nil {
			t.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(t *Trader) {
		if o != nil {
			t.obs = o
		}
	}
}

// WithTelemetry replaces the default telemetry logger, which discards records.
func WithTelemetry(l *telemetry.Logger) Option {
	return func(t *Trader) {
		if l != nil {
			t.telemetry = l
		}
	}
}

func WithConversions(n int) Option {
	return func(t *Trader) { t.conversions = n }
}

// WithPersistState 将信号窗口编码进 carry-forward 字符串，重启后可恢复。
func WithPersistState(on bool) Option {
	return func(t *Trader) { t.persistState = on }
}

// WithTraderData sets the fixed carry-forward string used when state is not persisted.
func WithTraderData(s string) Option {
	return func(t *Trader) { t.traderData = s }
}

// WithDefaultPolicy quotes instruments that have a limit but no configured policy.
func WithDefaultPolicy(p strategy.Policy) Option {
	return func(t *Trader) { t.defaultPolicy = p }
}

func New(policies map[string]strategy.Policy, limits inventory.Limits, opts ...Option) *Trader {
	t := &Trader{
		policies: policies,
		limits:   limits,
		state:    strategy.NewState(),
		log:      logger.NewNop(),
		obs:      nopObserver{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.telemetry == nil {
		t.telemetry = telemetry.New(io.Discard)
	}
	if t.policies == nil {
		t.policies = map[string]strategy.Policy{}
	}
	return t
}

// State exposes the cross-tick signal windows (read-only use).
func (t *Trader) State() *strategy.State { return t.state }

// Run evaluates one snapshot. Per-instrument failures only drop that
// instrument's quotes. A telemetry failure is returned together with the
// already computed result.
func (t *Trader) Run(snap *market.Snapshot) (Result, error) {
	start := time.Now()
	if snap == nil {
		snap = &market.Snapshot{}
	}
	t.restoreState(snap.TraderData)

	t.telemetry.Print("traderData: " + snap.TraderData)
	t.telemetry.Print("Observations: " + snap.Observations.String())

	t.recordSignals(snap)

	res := Result{Orders: make(map[string][]market.Quote), Conversions: t.conversions}
	skipped := 0
	for _, sym := range snap.Symbols() {
		t.obs.ObservePosition(sym, snap.Position(sym))
		quotes, reason, err := t.evaluate(snap, sym)
		if err != nil {
			skipped++
			t.obs.ObserveSkip(sym, reason)
			t.log.LogSkip(sym, reason, err)
			continue
		}
		for _, q := range quotes {
			t.obs.ObserveQuote(sym, q.Side())
		}
		res.Orders[sym] = quotes
	}

	res.TraderData = t.traderData
	if t.persistState {
		encoded, err := t.state.Encode()
		if err != nil {
			t.log.Warn("encode state failed", zap.Error(err))
		} else {
			res.TraderData = encoded
		}
	}

	stats, flushErr := t.telemetry.Flush(snap, res.Orders, res.Conversions, res.TraderData)
	t.obs.ObserveTelemetry(stats.Bytes, stats.Truncated, flushErr)

	elapsed := time.Since(start)
	t.obs.ObserveTick(elapsed)
	t.log.LogTick(snap.Timestamp, res.Quotes(), skipped, elapsed)

	if flushErr != nil {
		return res, fmt.Errorf("%w: %w", ErrTelemetry, flushErr)
	}
	return res, nil
}

// evaluate 返回品种的报价；err 非空时 reason 为跳过原因。
func (t *Trader) evaluate(snap *market.Snapshot, sym string) ([]market.Quote, string, error) {
	limit, ok := t.limits.Limit(sym)
	if !ok {
		return nil, SkipUnknownInstrument, fmt.Errorf("%w: %s", ErrUnknownInstrument, sym)
	}
	book, ok := snap.Book(sym)
	if !ok || book.Empty() {
		return nil, SkipEmptyBook, fmt.Errorf("%w: %s", market.ErrEmptyBook, sym)
	}
	policy := t.policyFor(sym)
	if policy == nil {
		return nil, SkipNoPolicy, fmt.Errorf("no policy for %s", sym)
	}

	quotes, err := policy.Quotes(strategy.Context{
		Symbol:   sym,
		Book:     book,
		Position: snap.Position(sym),
		Limit:    limit,
		Snapshot: snap,
		State:    t.state,
		Log:      t.telemetry.Print,
	})
	if err != nil {
		reason := SkipPolicyError
		if errors.Is(err, market.ErrEmptyBook) {
			reason = SkipEmptyBook
		}
		return nil, reason, fmt.Errorf("%s %s: %w", policy.Kind(), sym, err)
	}
	if quotes == nil {
		quotes = []market.Quote{}
	}
	return quotes, "", nil
}

func (t *Trader) policyFor(sym string) strategy.Policy {
	if p, ok := t.policies[sym]; ok {
		return p
	}
	return t.defaultPolicy
}

// recordSignals 在评估前写入本 tick 的观测，每个 key 每 tick 只记录一次。
func (t *Trader) recordSignals(snap *market.Snapshot) {
	policies := make([]strategy.Policy, 0, len(t.policies)+1)
	for _, sym := range market.SortedKeys(t.policies) {
		policies = append(policies, t.policies[sym])
	}
	if t.defaultPolicy != nil {
		policies = append(policies, t.defaultPolicy)
	}

	seen := make(map[strategy.SignalKey]bool)
	for _, p := range policies {
		consumer, ok := p.(strategy.SignalConsumer)
		if !ok {
			continue
		}
		for _, key := range consumer.Signals() {
			if seen[key] {
				continue
			}
			seen[key] = true
			obs, ok := snap.Observations.ConversionFor(key.Product)
			if !ok {
				continue
			}
			if v, ok := obs.Signal(key.Field); ok {
				t.state.Record(key, v)
			}
		}
	}
}

func (t *Trader) restoreState(raw string) {
	if !t.persistState || !t.state.Empty() || raw == "" {
		return
	}
	st, err := strategy.DecodeState(raw)
	if err != nil {
		t.log.Warn("ignore unreadable carry-forward state", zap.Error(err))
		return
	}
	t.state = st
}
