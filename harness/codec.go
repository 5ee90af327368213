// Package harness adapts the trader to the external simulation harness: it
// decodes snapshots, serializes results and serves them over websocket or a
// spool directory.
package harness

import (
	"encoding/json"
	"errors"
	"fmt"

	"tick-trader/market"
	"tick-trader/trader"
)

// ErrDecode 表示输入无法解析为快照。
var ErrDecode = errors.New("decode snapshot")

// DecodeSnapshot parses the harness JSON shape into a Snapshot.
func DecodeSnapshot(raw []byte) (*market.Snapshot, error) {
	var snap market.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &snap, nil
}

// EncodeResult serializes a tick result; a nil order map encodes as {}.
func EncodeResult(res trader.Result) ([]byte, error) {
	if res.Orders == nil {
		res.Orders = map[string][]market.Quote{}
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return raw, nil
}

type errorReply struct {
	Error string `json:"error"`
}

func encodeError(err error) []byte {
	raw, _ := json.Marshal(errorReply{Error: err.Error()})
	return raw
}
