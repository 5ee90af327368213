package strategy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tick-trader/market"
)

func TestEvaluate_ReferenceBook(t *testing.T) {
	book := market.NewOrderBook(map[int]int{9: 5}, map[int]int{11: 5})
	lv, err := Evaluate(book, 0, 20, Coefficients{BaseRate: 0.001, InventoryWeight: 0.001, ImbalanceWeight: 0.0005})
	require.NoError(t, err)

	assert.Equal(t, 10.0, lv.Mid)
	assert.Equal(t, 0.0, lv.Imbalance)
	assert.Equal(t, 0.0, lv.Inventory)
	assert.InDelta(t, 0.01, lv.Spread, 1e-12)
	assert.InDelta(t, 9.99, lv.Bid, 1e-12)
	assert.InDelta(t, 10.01, lv.Ask, 1e-12)
}

func TestEvaluate_EmptySide(t *testing.T) {
	book := market.NewOrderBook(map[int]int{9: 5}, nil)
	_, err := Evaluate(book, 0, 20, Coefficients{BaseRate: 0.001})
	if !errors.Is(err, market.ErrEmptyBook) {
		t.Fatalf("expected ErrEmptyBook, got %v", err)
	}
}

func TestTargetSpread_WidensWithInventoryNarrowsWithBidPressure(t *testing.T) {
	c := Coefficients{BaseRate: 0.001, InventoryWeight: 0.001, ImbalanceWeight: 0.0005}
	flat := TargetSpread(100, 0, 0, c)
	long := TargetSpread(100, 0.5, 0, c)
	pressured := TargetSpread(100, 0, 0.8, c)
	if long <= flat {
		t.Fatalf("expected wider spread when long: %f <= %f", long, flat)
	}
	if pressured >= flat {
		t.Fatalf("expected narrower spread under bid pressure: %f >= %f", pressured, flat)
	}
}

func TestTakeSize(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		resting  int
		fraction float64
		want     int
	}{
		{"full liquidity", 20, 5, 1, 5},
		{"capacity bound", 3, 5, 1, 3},
		{"tenth of liquidity", 20, 55, 0.1, 5},
		{"tenth rounds to zero", 20, 5, 0.1, 0},
		{"zero fraction means full", 20, 7, 0, 7},
		{"violated limit", -4, 7, 1, -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TakeSize(tt.capacity, tt.resting, tt.fraction); got != tt.want {
				t.Errorf("TakeSize(%d,%d,%g)=%d want %d", tt.capacity, tt.resting, tt.fraction, got, tt.want)
			}
		})
	}
}

func TestCoefficientsValidate(t *testing.T) {
	assert.NoError(t, Coefficients{BaseRate: 0.001}.Validate())
	assert.Error(t, Coefficients{BaseRate: -1}.Validate())
	assert.Error(t, Coefficients{ImbalanceLevels: -1}.Validate())
}
