package market

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotSymbolsSorted(t *testing.T) {
	s := &Snapshot{OrderBooks: map[string]*OrderBook{
		"STARFRUIT": NewOrderBook(nil, nil),
		"AMETHYSTS": NewOrderBook(nil, nil),
		"ORCHIDS":   nil,
	}}
	assert.Equal(t, []string{"AMETHYSTS", "ORCHIDS", "STARFRUIT"}, s.Symbols())
	_, ok := s.Book("ORCHIDS")
	assert.False(t, ok, "nil book must report absent")
	assert.Equal(t, 0, s.Position("AMETHYSTS"))

	var nilSnap *Snapshot
	assert.Nil(t, nilSnap.Symbols())
}

func TestSnapshotDecodeHarnessJSON(t *testing.T) {
	raw := `{
		"timestamp": 1200,
		"traderData": "prev",
		"listings": {"ORCHIDS": {"symbol": "ORCHIDS", "product": "ORCHIDS", "denomination": "SEASHELLS"}},
		"order_depths": {"ORCHIDS": {"buy_orders": {"1000": 4}, "sell_orders": {"1003": -6}}},
		"own_trades": {},
		"market_trades": {"ORCHIDS": [{"symbol": "ORCHIDS", "price": 1001, "quantity": 2, "buyer": "", "seller": "", "timestamp": 1100}]},
		"position": {"ORCHIDS": -3},
		"observations": {"plainValueObservations": {}, "conversionObservations": {"ORCHIDS": {"bidPrice": 999.5, "askPrice": 1001.5, "sunlight": 2500, "humidity": 71.2}}}
	}`
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	ob, ok := s.Book("ORCHIDS")
	require.True(t, ok)
	_, qty, _ := ob.BestAsk()
	assert.Equal(t, 6, qty)
	assert.Equal(t, -3, s.Position("ORCHIDS"))
	obs, ok := s.Observations.ConversionFor("ORCHIDS")
	require.True(t, ok)
	v, ok := obs.Signal(SignalHumidity)
	require.True(t, ok)
	assert.Equal(t, 71.2, v)
	_, ok = obs.Signal("rainfall")
	assert.False(t, ok)
	assert.Contains(t, s.Observations.String(), "ORCHIDS")
}

func TestQuoteSide(t *testing.T) {
	assert.Equal(t, "BUY", Quote{Quantity: 3}.Side())
	assert.Equal(t, "SELL", Quote{Quantity: -3}.Side())
	assert.Equal(t, 3, Quote{Quantity: -3}.Size())
}
