package strategy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SignalKey 标识一条观测序列，如 ORCHIDS/humidity。
type SignalKey struct {
	Product string
	Field   string
}

func (k SignalKey) String() string { return k.Product + "/" + k.Field }

func parseSignalKey(s string) (SignalKey, error) {
	product, field, ok := strings.Cut(s, "/")
	if !ok || product == "" || field == "" {
		return SignalKey{}, fmt.Errorf("invalid signal key %q", s)
	}
	return SignalKey{Product: product, Field: field}, nil
}

// Window keeps the two most recent readings, oldest first.
type Window struct {
	values [2]float64
	n      int
}

func (w *Window) Push(v float64) {
	if w.n < 2 {
		w.values[w.n] = v
		w.n++
		return
	}
	w.values[0], w.values[1] = w.values[1], v
}

// Len is 0, 1 or 2.
func (w Window) Len() int { return w.n }

// Latest returns the most recent reading.
func (w Window) Latest() (float64, bool) {
	if w.n == 0 {
		return 0, false
	}
	return w.values[w.n-1], true
}

// Delta 返回最近两次读数之差；不足两次时 ok 为 false。
func (w Window) Delta() (float64, bool) {
	if w.n < 2 {
		return 0, false
	}
	return w.values[1] - w.values[0], true
}

func (w Window) slice() []float64 { return append([]float64(nil), w.values[:w.n]...) }

// State 是编排器独占的跨 tick 状态，只在 tick 开始时写入。
type State struct {
	windows map[SignalKey]*Window
}

func NewState() *State {
	return &State{windows: make(map[SignalKey]*Window)}
}

// Record appends a reading to the key's window.
func (s *State) Record(key SignalKey, v float64) {
	w, ok := s.windows[key]
	if !ok {
		w = &Window{}
		s.windows[key] = w
	}
	w.Push(v)
}

// Window returns a copy of the key's window; the zero Window when unseen.
func (s *State) Window(key SignalKey) Window {
	if s == nil {
		return Window{}
	}
	if w, ok := s.windows[key]; ok {
		return *w
	}
	return Window{}
}

func (s *State) Empty() bool { return s == nil || len(s.windows) == 0 }

// Encode 将窗口序列化为紧凑 JSON，作为 carry-forward 字符串交给下一个 tick。
func (s *State) Encode() (string, error) {
	if s.Empty() {
		return "", nil
	}
	out := make(map[string][]float64, len(s.windows))
	for k, w := range s.windows {
		out[k.String()] = w.slice()
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(raw), nil
}

// DecodeState parses a string produced by Encode. An empty string yields an empty State.
func DecodeState(raw string) (*State, error) {
	st := NewState()
	if raw == "" {
		return st, nil
	}
	var in map[string][]float64
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	for k, vals := range in {
		key, err := parseSignalKey(k)
		if err != nil {
			return nil, err
		}
		if len(vals) > 2 {
			vals = vals[len(vals)-2:]
		}
		for _, v := range vals {
			st.Record(key, v)
		}
	}
	return st, nil
}
