// Package telemetry emits one size-bounded, positionally encoded record per tick
// describing the snapshot, the orders and everything the strategy logged.
package telemetry

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"tick-trader/market"
)

// DefaultMaxLength 为单条遥测记录的字节上限。
const DefaultMaxLength = 3750

var (
	ErrSerialization  = errors.New("telemetry serialization failed")
	ErrRecordTooLarge = fmt.Errorf("%w: record exceeds max length with empty text fields", ErrSerialization)
	// ErrWrite 表示记录已编码但写入 sink 失败。
	ErrWrite = errors.New("telemetry write failed")
)

// Stats describes one flushed record.
type Stats struct {
	Bytes         int
	BaseLength    int
	MaxItemLength int
	// Truncated 为被截断的文本字段数（0-3）。
	Truncated int
}

type Option func(*Logger)

// WithMaxLength overrides DefaultMaxLength. Non-positive values are ignored.
func WithMaxLength(n int) Option {
	return func(l *Logger) {
		if n > 0 {
			l.maxLength = n
		}
	}
}

// Logger 累积本 tick 的日志文本，Flush 时与快照、订单一起写出一行。
// 非并发安全，与 Trader 同属单线程使用。
type Logger struct {
	w         io.Writer
	maxLength int
	logs      strings.Builder
}

func New(w io.Writer, opts ...Option) *Logger {
	l := &Logger{w: w, maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Logger) MaxLength() int { return l.maxLength }

// Print appends the operands separated by spaces and terminated by a newline.
func (l *Logger) Print(args ...any) {
	l.logs.WriteString(fmt.Sprintln(args...))
}

// Logs returns the buffered text since the last flush.
func (l *Logger) Logs() string { return l.logs.String() }

func (l *Logger) Reset() { l.logs.Reset() }

// Flush writes the record for this tick and clears the log buffer, whether or
// not the write succeeds. On error nothing is written.
func (l *Logger) Flush(snap *market.Snapshot, orders map[string][]market.Quote, conversions int, traderData string) (Stats, error) {
	defer l.Reset()
	if snap == nil {
		snap = &market.Snapshot{}
	}
	compressedOrders := compressOrders(orders)

	base, err := encode([]any{compressState(snap, ""), compressedOrders, conversions, "", ""})
	if err != nil {
		return Stats{}, err
	}
	st := Stats{BaseLength: len(base)}
	st.MaxItemLength = (l.maxLength - st.BaseLength) / 3
	if l.maxLength < st.BaseLength {
		return st, fmt.Errorf("%w: base %d > max %d", ErrRecordTooLarge, st.BaseLength, l.maxLength)
	}

	fields := [3]string{snap.TraderData, traderData, l.logs.String()}
	for i, f := range fields {
		cut := Truncate(f, st.MaxItemLength)
		if cut != f {
			st.Truncated++
		}
		fields[i] = cut
	}

	line, err := encode([]any{compressState(snap, fields[0]), compressedOrders, conversions, fields[1], fields[2]})
	if err != nil {
		return st, err
	}
	st.Bytes = len(line)
	if _, err := l.w.Write(append(line, '\n')); err != nil {
		return st, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return st, nil
}
