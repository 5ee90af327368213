package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tick-trader/market"
)

func orchidsContext(t *testing.T, sunlight float64, humidity []float64, position int) Context {
	t.Helper()
	snap := &market.Snapshot{
		Timestamp: 5000,
		OrderBooks: map[string]*market.OrderBook{
			"ORCHIDS": market.NewOrderBook(map[int]int{1000: 7}, map[int]int{1004: 9}),
		},
		Observations: market.Observation{Conversion: map[string]market.ConversionObservation{
			"ORCHIDS": {Sunlight: sunlight, Humidity: humidity[len(humidity)-1]},
		}},
	}
	st := NewState()
	for _, h := range humidity {
		st.Record(SignalKey{Product: "ORCHIDS", Field: market.SignalHumidity}, h)
	}
	return Context{
		Symbol:   "ORCHIDS",
		Book:     snap.OrderBooks["ORCHIDS"],
		Position: position,
		Limit:    100,
		Snapshot: snap,
		State:    st,
	}
}

func TestSignalPolicy_Decisions(t *testing.T) {
	p, err := NewSignalPolicy("ORCHIDS", DefaultSignalConfig())
	require.NoError(t, err)

	tests := []struct {
		name     string
		sunlight float64
		humidity []float64
		want     Action
	}{
		{"single reading holds", 2500, []float64{70}, Hold},
		{"neutral humidity holds", 2500, []float64{65, 70}, Hold},
		{"dim day shorts", 1000, []float64{70}, Short},
		{"humid and rising goes long", 2500, []float64{85, 90}, Long},
		{"humid and falling goes short", 2500, []float64{90, 85}, Short},
		{"dry and falling goes long", 2500, []float64{55, 50}, Long},
		{"dry and rising goes short", 2500, []float64{50, 55}, Short},
		{"short beats long", 1000, []float64{85, 90}, Short},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _, err := p.Decide(orchidsContext(t, tt.sunlight, tt.humidity, 0))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignalPolicy_Quotes(t *testing.T) {
	p, err := NewSignalPolicy("ORCHIDS", DefaultSignalConfig())
	require.NoError(t, err)

	got, err := p.Quotes(orchidsContext(t, 1000, []float64{70}, 0))
	require.NoError(t, err)
	assert.Equal(t, []market.Quote{{Symbol: "ORCHIDS", Price: 1000, Quantity: -5}}, got, "short hits the bid")

	got, err = p.Quotes(orchidsContext(t, 2500, []float64{85, 90}, 98))
	require.NoError(t, err)
	assert.Equal(t, []market.Quote{{Symbol: "ORCHIDS", Price: 1004, Quantity: 2}}, got, "long lifts the offer, bounded by capacity")

	got, err = p.Quotes(orchidsContext(t, 2500, []float64{70}, 0))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSignalPolicy_MissingObservation(t *testing.T) {
	p, _ := NewSignalPolicy("ORCHIDS", DefaultSignalConfig())
	ctx := orchidsContext(t, 2500, []float64{70}, 0)
	ctx.Snapshot.Observations = market.Observation{}
	_, err := p.Quotes(ctx)
	assert.Error(t, err)
}

func TestSignalPolicy_ProjectedSunlight(t *testing.T) {
	p, _ := NewSignalPolicy("ORCHIDS", DefaultSignalConfig())
	// 已过去与剩余时段按同一速率折算，结果与时间戳无关
	assert.InDelta(t, 30000.0, p.ProjectedSunlight(2500, 0), 1e-9)
	assert.InDelta(t, 30000.0, p.ProjectedSunlight(2500, 9999), 1e-6)
}

func TestCombine(t *testing.T) {
	assert.Equal(t, Hold, Combine(Hold, Hold))
	assert.Equal(t, Long, Combine(Hold, Long))
	assert.Equal(t, Short, Combine(Long, Short))
	assert.Equal(t, "short", Short.String())
}

func TestNewSignalPolicy_Invalid(t *testing.T) {
	cfg := DefaultSignalConfig()
	cfg.HumidityLow, cfg.HumidityHigh = 90, 10
	_, err := NewSignalPolicy("ORCHIDS", cfg)
	assert.Error(t, err)
	_, err = NewSignalPolicy("", DefaultSignalConfig())
	assert.Error(t, err)
}
