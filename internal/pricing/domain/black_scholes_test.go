package domain

import (
	"errors"
	"math"
	"testing"
)

func TestBlackScholesPriceReference(t *testing.T) {
	// 标准平值样例: S=100, K=100, r=5%, σ=20%, T=1 年。
	price, err := BlackScholesPrice(100, 100, 0.05, 0.2, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 10.450583572185565
	if !almostEqual(price, want, 1e-9) {
		t.Errorf("price = %v, want %v", price, want)
	}
}

func TestBlackScholesPriceZeroVolatility(t *testing.T) {
	// σ = 0 退化为贴现内在价值。
	price, err := BlackScholesPrice(100, 100, 0.05, 0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 100 - 100*math.Exp(-0.05)
	if !almostEqual(price, want, 1e-12) {
		t.Errorf("price = %v, want %v", price, want)
	}

	// 虚值且无波动时价值为零。
	price, err = BlackScholesPrice(100, 120, 0, 0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 0 {
		t.Errorf("price = %v, want 0", price)
	}
}

func TestBlackScholesPriceDeepInTheMoney(t *testing.T) {
	// 深度实值时价格趋近远期价值 S - K·e^{-rT}。
	price, err := BlackScholesPrice(100, 1, 0.05, 0.2, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 100 - 1*math.Exp(-0.05)
	if !almostEqual(price, want, 1e-6) {
		t.Errorf("price = %v, want ~%v", price, want)
	}
}

func TestBlackScholesPriceInvalidParameters(t *testing.T) {
	if _, err := BlackScholesPrice(0, 100, 0.05, 0.2, 1.0); !errors.Is(err, ErrInvalidSpot) {
		t.Errorf("expected ErrInvalidSpot, got %v", err)
	}
	if _, err := BlackScholesPrice(100, 100, 0.05, 0.2, 0); !errors.Is(err, ErrInvalidMaturity) {
		t.Errorf("expected ErrInvalidMaturity, got %v", err)
	}
	if _, err := BlackScholesPrice(100, 100, 0.05, -0.2, 1.0); !errors.Is(err, ErrNegativeVolatility) {
		t.Errorf("expected ErrNegativeVolatility, got %v", err)
	}
}
