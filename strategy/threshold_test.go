package strategy

import (
	"testing"

	"tick-trader/market"
)

func TestThresholdPolicy(t *testing.T) {
	p, err := NewThresholdPolicy(ThresholdConfig{AcceptablePrice: 10})
	if err != nil {
		t.Fatalf("new threshold policy: %v", err)
	}
	book := market.NewOrderBook(map[int]int{12: 3}, map[int]int{8: 4})
	quotes, err := p.Quotes(Context{Symbol: "X", Book: book, Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected buy and sell, got %+v", quotes)
	}
	if quotes[0].Price != 8 || quotes[0].Quantity != 4 {
		t.Fatalf("unexpected buy %+v", quotes[0])
	}
	if quotes[1].Price != 12 || quotes[1].Quantity != -3 {
		t.Fatalf("unexpected sell %+v", quotes[1])
	}

	quotes, _ = p.Quotes(Context{Symbol: "X", Book: market.NewOrderBook(map[int]int{9: 3}, map[int]int{11: 4}), Limit: 20})
	if len(quotes) != 0 {
		t.Fatalf("expected no quotes inside the threshold, got %+v", quotes)
	}
}

func TestNewThresholdPolicy_Invalid(t *testing.T) {
	if _, err := NewThresholdPolicy(ThresholdConfig{}); err == nil {
		t.Fatal("expected error for zero acceptable price")
	}
}
