package domain

import (
	"errors"
	"math"
	"testing"
)

// almostEqual 浮点近似比较
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestRunSimulationRejectsInvalidParameters(t *testing.T) {
	base := PricingParameters{
		Spot:         100,
		Strike:       100,
		RiskFreeRate: 0.05,
		Volatility:   0.2,
		Maturity:     1.0,
		SampleCount:  1000,
		Workers:      2,
		Seed:         1,
	}

	cases := []struct {
		name   string
		mutate func(p *PricingParameters)
		want   error
	}{
		{"zero sample count", func(p *PricingParameters) { p.SampleCount = 0 }, ErrInvalidSampleCount},
		{"negative sample count", func(p *PricingParameters) { p.SampleCount = -5 }, ErrInvalidSampleCount},
		{"zero spot", func(p *PricingParameters) { p.Spot = 0 }, ErrInvalidSpot},
		{"negative spot", func(p *PricingParameters) { p.Spot = -100 }, ErrInvalidSpot},
		{"zero maturity", func(p *PricingParameters) { p.Maturity = 0 }, ErrInvalidMaturity},
		{"negative volatility", func(p *PricingParameters) { p.Volatility = -0.1 }, ErrNegativeVolatility},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			tc.mutate(&p)
			res, err := RunSimulation(p)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if res != nil {
				t.Errorf("expected nil result on invalid parameters")
			}
		})
	}
}

func TestRunSimulationZeroVolatility(t *testing.T) {
	// σ = 0 时扩散项消失, 终端价格是确定性的 S0·e^{rT}。
	p := PricingParameters{
		Spot:         100,
		Strike:       100,
		RiskFreeRate: 0.05,
		Volatility:   0,
		Maturity:     1.0,
		SampleCount:  10_000,
		Workers:      4,
		Seed:         1,
	}

	res, err := RunSimulation(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTerminal := 100 * math.Exp(0.05)
	if !almostEqual(res.AverageTerminalPrice, wantTerminal, 1e-9) {
		t.Errorf("average terminal = %v, want %v", res.AverageTerminalPrice, wantTerminal)
	}

	// 收益恒定, 价格等于贴现后的内在价值, 标准误为零。
	// 方差由两个近似相等的大数相减得到, 允许浮点残差。
	wantPrice := 100 - 100*math.Exp(-0.05)
	if !almostEqual(res.Price, wantPrice, 1e-9) {
		t.Errorf("price = %v, want %v", res.Price, wantPrice)
	}
	if res.StandardError > 1e-6 {
		t.Errorf("standard error = %v, want ~0", res.StandardError)
	}
}

func TestRunSimulationDeterministicUnderFixedSeed(t *testing.T) {
	p := PricingParameters{
		Spot:         100,
		Strike:       100,
		RiskFreeRate: 0.05,
		Volatility:   0.2,
		Maturity:     1.0,
		SampleCount:  100_000,
		Workers:      4,
		Seed:         42,
	}

	a, err := RunSimulation(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := RunSimulation(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Price != b.Price || a.StandardError != b.StandardError || a.AverageTerminalPrice != b.AverageTerminalPrice {
		t.Errorf("fixed seed and worker count should reproduce identical results: %+v vs %+v", a, b)
	}

	p.Seed = 43
	c, err := RunSimulation(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Price == a.Price {
		t.Errorf("different seeds should not produce identical estimates")
	}
	// 不同种子的估计仍应统计一致。
	if math.Abs(c.Price-a.Price) > 6*(a.StandardError+c.StandardError) {
		t.Errorf("estimates from different seeds diverge: %v vs %v", a.Price, c.Price)
	}
}

func TestRunSimulationMatchesBlackScholes(t *testing.T) {
	p := PricingParameters{
		Spot:         100,
		Strike:       100,
		RiskFreeRate: 0.05,
		Volatility:   0.2,
		Maturity:     1.0,
		SampleCount:  1_000_000,
		Workers:      4,
		Seed:         7,
	}

	res, err := RunSimulation(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bs, err := BlackScholesPrice(100, 100, 0.05, 0.2, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(res.Price-bs) > 6*res.StandardError {
		t.Errorf("monte carlo price %v too far from closed form %v (se=%v)", res.Price, bs, res.StandardError)
	}
	if !almostEqual(res.Price, 10.45, 0.5) {
		t.Errorf("price = %v, want near 10.45", res.Price)
	}

	wantTerminal := 100 * math.Exp(0.05)
	if !almostEqual(res.AverageTerminalPrice, wantTerminal, 0.2) {
		t.Errorf("average terminal = %v, want near %v", res.AverageTerminalPrice, wantTerminal)
	}

	if !almostEqual(res.ConfidenceLow, res.Price-ConfidenceZ*res.StandardError, 1e-12) {
		t.Errorf("confidence low bound mismatch")
	}
	if !almostEqual(res.ConfidenceHigh, res.Price+ConfidenceZ*res.StandardError, 1e-12) {
		t.Errorf("confidence high bound mismatch")
	}
}

func TestRunSimulationStandardErrorScaling(t *testing.T) {
	base := PricingParameters{
		Spot:         100,
		Strike:       100,
		RiskFreeRate: 0.05,
		Volatility:   0.2,
		Maturity:     1.0,
		Workers:      4,
		Seed:         11,
	}

	small := base
	small.SampleCount = 40_000
	large := base
	large.SampleCount = 160_000

	resSmall, err := RunSimulation(small)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resLarge, err := RunSimulation(large)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 路径数扩大 4 倍, 标准误约减半 (统计性质, 留宽容差)。
	ratio := resSmall.StandardError / resLarge.StandardError
	if ratio < 1.6 || ratio > 2.5 {
		t.Errorf("se ratio = %v, want ~2 for 4x samples", ratio)
	}
}

func TestRunSimulationDeepOutOfTheMoney(t *testing.T) {
	p := PricingParameters{
		Spot:         100,
		Strike:       100_000, // spot 的 1000 倍, 任何路径都到不了
		RiskFreeRate: 0.05,
		Volatility:   0.2,
		Maturity:     1.0,
		SampleCount:  200_000,
		Workers:      4,
		Seed:         5,
	}

	res, err := RunSimulation(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Price != 0 {
		t.Errorf("deep out-of-the-money price = %v, want 0", res.Price)
	}
	if res.StandardError != 0 {
		t.Errorf("deep out-of-the-money se = %v, want 0", res.StandardError)
	}
}

func TestRunSimulationWorkerPartitioning(t *testing.T) {
	cases := []struct {
		name    string
		samples int64
		workers int
		want    int // 期望实际参与的 worker 数
	}{
		{"remainder to last worker", 10_007, 8, 8},
		{"single worker", 5_000, 1, 1},
		{"more workers than samples", 5, 16, 5},
		{"single sample", 1, 4, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := PricingParameters{
				Spot:         100,
				Strike:       100,
				RiskFreeRate: 0.05,
				Volatility:   0.2,
				Maturity:     1.0,
				SampleCount:  tc.samples,
				Workers:      tc.workers,
				Seed:         3,
			}
			res, err := RunSimulation(p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Workers != tc.want {
				t.Errorf("workers = %d, want %d", res.Workers, tc.want)
			}
			if res.SampleCount != tc.samples {
				t.Errorf("sample count = %d, want %d", res.SampleCount, tc.samples)
			}
			if math.IsNaN(res.Price) || math.IsInf(res.Price, 0) || res.Price < 0 {
				t.Errorf("price = %v, want finite non-negative", res.Price)
			}
			if math.IsNaN(res.StandardError) || res.StandardError < 0 {
				t.Errorf("standard error = %v, want finite non-negative", res.StandardError)
			}
		})
	}
}

func TestWorkerSeedStreamsDistinct(t *testing.T) {
	// 同一基础种子派生出的 worker 种子必须互不相同。
	seen := make(map[int64]bool)
	for w := 0; w < 64; w++ {
		s := workerSeed(12345, w)
		if seen[s] {
			t.Fatalf("duplicate derived seed for worker %d", w)
		}
		seen[s] = true
	}
}
