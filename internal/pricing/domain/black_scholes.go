package domain

import "math"

// BlackScholesPrice 计算欧式看涨期权的 Black-Scholes 闭式价格。
// 与蒙特卡洛引擎共用同一套参数校验, 主要用于交叉校验模拟结果。
// σ = 0 时扩散项消失, 退化为贴现后的内在价值。
func BlackScholesPrice(spot, strike, rate, vol, maturity float64) (float64, error) {
	p := PricingParameters{
		Spot:         spot,
		Strike:       strike,
		RiskFreeRate: rate,
		Volatility:   vol,
		Maturity:     maturity,
		SampleCount:  1, // 闭式解不抽样, 仅为通过共用校验
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	discountedStrike := strike * math.Exp(-rate*maturity)
	if strike <= 0 {
		// 非正执行价必定行权, 价值等于远期价值。
		return spot - discountedStrike, nil
	}
	if vol == 0 {
		v := spot - discountedStrike
		if v < 0 {
			v = 0
		}
		return v, nil
	}

	sqrtT := math.Sqrt(maturity)
	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*maturity) / (vol * sqrtT)
	d2 := d1 - vol*sqrtT

	return spot*normCdf(d1) - discountedStrike*normCdf(d2), nil
}

// normCdf 标准正态分布累积分布函数
func normCdf(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
