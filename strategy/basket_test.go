package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tick-trader/market"
)

func basketSnapshot(basketBid, basketAsk int) *market.Snapshot {
	return &market.Snapshot{OrderBooks: map[string]*market.OrderBook{
		"CHOCOLATE":    market.NewOrderBook(map[int]int{7999: 10}, map[int]int{8001: 10}),
		"STRAWBERRIES": market.NewOrderBook(map[int]int{3999: 10}, map[int]int{4001: 10}),
		"ROSES":        market.NewOrderBook(map[int]int{14999: 10}, map[int]int{15001: 10}),
		"GIFT_BASKET":  market.NewOrderBook(map[int]int{basketBid: 6}, map[int]int{basketAsk: 4}),
	}}
}

func newBasket(t *testing.T) *BasketPolicy {
	t.Helper()
	p, err := NewBasketPolicy(BasketConfig{
		Components: map[string]float64{"CHOCOLATE": 4, "STRAWBERRIES": 6, "ROSES": 1},
		Offset:     375,
	})
	require.NoError(t, err)
	return p
}

func basketCtx(snap *market.Snapshot, position int) Context {
	return Context{Symbol: "GIFT_BASKET", Book: snap.OrderBooks["GIFT_BASKET"], Position: position, Limit: 60, Snapshot: snap}
}

func TestBasketPolicy_FairValue(t *testing.T) {
	p := newBasket(t)
	fair, err := p.FairValue(basketSnapshot(1, 2))
	require.NoError(t, err)
	// 4*8000 + 6*4000 + 15000 + 375
	assert.Equal(t, 71375, fair)
}

func TestBasketPolicy_Undervalued(t *testing.T) {
	p := newBasket(t)
	got, err := p.Quotes(basketCtx(basketSnapshot(71000, 71010), 0))
	require.NoError(t, err)
	assert.Equal(t, []market.Quote{{Symbol: "GIFT_BASKET", Price: 71010, Quantity: 4}}, got)
}

func TestBasketPolicy_Overvalued(t *testing.T) {
	p := newBasket(t)
	got, err := p.Quotes(basketCtx(basketSnapshot(71500, 71510), -57))
	require.NoError(t, err)
	assert.Equal(t, []market.Quote{{Symbol: "GIFT_BASKET", Price: 71500, Quantity: -3}}, got, "bounded by limit+position")
}

func TestBasketPolicy_AtFairValue(t *testing.T) {
	p := newBasket(t)
	got, err := p.Quotes(basketCtx(basketSnapshot(71374, 71376), 0))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBasketPolicy_MissingComponent(t *testing.T) {
	p := newBasket(t)
	snap := basketSnapshot(71000, 71010)
	delete(snap.OrderBooks, "ROSES")
	_, err := p.Quotes(basketCtx(snap, 0))
	assert.ErrorIs(t, err, market.ErrEmptyBook)
}
