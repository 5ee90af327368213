package harness

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"tick-trader/infrastructure/logger"
	"tick-trader/market"
	"tick-trader/telemetry"
	"tick-trader/trader"
)

// Runner is satisfied by *trader.Trader.
type Runner interface {
	Run(snap *market.Snapshot) (trader.Result, error)
}

// Processor 串行化所有 Run 调用，多个连接共享同一个 Trader。
type Processor struct {
	mu     sync.Mutex
	runner Runner
	log    *logger.Logger
}

func NewProcessor(r Runner, log *logger.Logger) *Processor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Processor{runner: r, log: log}
}

// Swap replaces the runner between ticks, e.g. after a config reload.
func (p *Processor) Swap(r Runner) {
	p.mu.Lock()
	p.runner = r
	p.mu.Unlock()
}

// Run evaluates one decoded snapshot. Telemetry failures are logged and the
// computed result is still returned.
func (p *Processor) Run(snap *market.Snapshot) (trader.Result, error) {
	p.mu.Lock()
	res, err := p.runner.Run(snap)
	p.mu.Unlock()
	if err != nil {
		if errors.Is(err, trader.ErrTelemetry) || errors.Is(err, telemetry.ErrSerialization) {
			p.log.Warn("telemetry dropped", zap.Int64("timestamp", snap.Timestamp), zap.Error(err))
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// Process decodes raw, runs it and encodes the reply.
func (p *Processor) Process(raw []byte) ([]byte, error) {
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	res, err := p.Run(snap)
	if err != nil {
		return nil, err
	}
	return EncodeResult(res)
}
