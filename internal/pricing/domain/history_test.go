package domain

import "testing"

func TestPriceHistorySpot(t *testing.T) {
	h := &PriceHistory{Symbol: "AAPL", Prices: []float64{100, 101.5, 99.8}}
	if got := h.Spot(); got != 99.8 {
		t.Errorf("Spot() = %v, want 99.8", got)
	}
	if got := h.Len(); got != 3 {
		t.Errorf("Len() = %v, want 3", got)
	}

	empty := &PriceHistory{Symbol: "EMPTY"}
	if got := empty.Spot(); got != 0 {
		t.Errorf("Spot() on empty history = %v, want 0", got)
	}
	if got := empty.Len(); got != 0 {
		t.Errorf("Len() on empty history = %v, want 0", got)
	}
}
