package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tick-trader/market"
)

func momentumCtx(readings []float64, position int) Context {
	st := NewState()
	for _, r := range readings {
		st.Record(SignalKey{Product: "ORCHIDS", Field: market.SignalSunlight}, r)
	}
	return Context{
		Symbol:   "GIFT_BASKET",
		Book:     market.NewOrderBook(map[int]int{71000: 6}, map[int]int{71010: 4}),
		Position: position,
		Limit:    60,
		State:    st,
	}
}

func TestMomentumPolicy(t *testing.T) {
	p, err := NewMomentumPolicy(MomentumConfig{Source: "ORCHIDS"})
	require.NoError(t, err)
	assert.Equal(t, []SignalKey{{Product: "ORCHIDS", Field: "sunlight"}}, p.Signals())

	tests := []struct {
		name     string
		readings []float64
		position int
		want     []market.Quote
	}{
		{"single reading is flat", []float64{2500}, 0, nil},
		{"unchanged is flat", []float64{2500, 2500}, 0, nil},
		{"rising buys at best bid", []float64{2500, 2510}, 0, []market.Quote{{Symbol: "GIFT_BASKET", Price: 71000, Quantity: 6}}},
		{"falling sells at best ask", []float64{2510, 2500}, 0, []market.Quote{{Symbol: "GIFT_BASKET", Price: 71010, Quantity: -4}}},
		{"rising near limit is capped", []float64{1, 2}, 58, []market.Quote{{Symbol: "GIFT_BASKET", Price: 71000, Quantity: 2}}},
		{"falling at short limit is suppressed", []float64{2, 1}, -60, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Quotes(momentumCtx(tt.readings, tt.position))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewMomentumPolicy_Invalid(t *testing.T) {
	_, err := NewMomentumPolicy(MomentumConfig{})
	assert.Error(t, err)
	_, err = NewMomentumPolicy(MomentumConfig{Source: "ORCHIDS", Field: "rainfall"})
	assert.Error(t, err)
}
