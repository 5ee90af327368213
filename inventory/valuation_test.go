package inventory

import "testing"

func TestValuation(t *testing.T) {
	tr := NewTracker()
	tr.Update("STARFRUIT", 1, 100)
	_, pnl := tr.Valuation("STARFRUIT", 110)
	if pnl <= 0 {
		t.Fatalf("expected positive pnl")
	}
	net, pnl := tr.Valuation("AMETHYSTS", 110)
	if net != 0 || pnl != 0 {
		t.Fatalf("expected flat unknown symbol, got net=%d pnl=%f", net, pnl)
	}
}
